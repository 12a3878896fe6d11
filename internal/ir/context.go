package ir

// The IR is LLVM IR built with github.com/llir/llvm. This package adds the
// pieces the lowering engine needs around it: an explicit Context owning
// scalar types and the constant pool, a Module wrapper, and a Builder that
// tracks the current insertion block.

import (
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

// Context owns the state shared by every value built during one
// compilation run. It is never global: create one per run and pass it down.
type Context struct {
	I32 *types.IntType
	I1  *types.IntType

	ints  map[int32]*constant.Int
	bools [2]*constant.Int
}

// NewContext creates a fresh context with an empty constant pool
func NewContext() *Context {
	return &Context{
		I32:  types.I32,
		I1:   types.I1,
		ints: make(map[int32]*constant.Int),
		bools: [2]*constant.Int{
			constant.NewBool(false),
			constant.NewBool(true),
		},
	}
}

// Int returns the pooled i32 constant for v, truncated to 32 bits
func (c *Context) Int(v int64) *constant.Int {
	key := int32(v)
	if k, ok := c.ints[key]; ok {
		return k
	}
	k := constant.NewInt(c.I32, int64(key))
	c.ints[key] = k
	return k
}

// Zero is the i32 constant 0, the default return value of main
func (c *Context) Zero() *constant.Int {
	return c.Int(0)
}

// Bool returns the pooled i1 constant
func (c *Context) Bool(b bool) *constant.Int {
	if b {
		return c.bools[1]
	}
	return c.bools[0]
}

// PoolSize reports how many distinct i32 constants have been interned
func (c *Context) PoolSize() int {
	return len(c.ints)
}

// NewModule creates an empty module owned by this context
func (c *Context) NewModule(name string) *Module {
	return newModule(c, name)
}
