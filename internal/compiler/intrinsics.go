package compiler

import (
	"fmt"
	"sort"

	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"

	"github.com/minsk-dev/power/internal/ast"
	"github.com/minsk-dev/power/internal/errors"
)

// intrinsic is a builtin function callable by name. User-defined functions
// do not exist in the language, so this table is the whole call namespace.
type intrinsic struct {
	name  string
	arity int
	lower func(c *Compiler, args []value.Value) value.Value
}

func newIntrinsics() map[string]*intrinsic {
	table := []*intrinsic{
		{name: "abs", arity: 1, lower: lowerAbs},
		{name: "min", arity: 2, lower: lowerMinMax(enum.IPredSLT)},
		{name: "max", arity: 2, lower: lowerMinMax(enum.IPredSGT)},
		{name: "putchar", arity: 1, lower: lowerPutchar},
	}

	intrinsics := make(map[string]*intrinsic, len(table))
	for _, in := range table {
		intrinsics[in.name] = in
	}
	return intrinsics
}

// IntrinsicNames lists the callable builtins, sorted
func IntrinsicNames() []string {
	return sortedNames(newIntrinsics())
}

func (c *Compiler) intrinsicNames() []string {
	return sortedNames(c.intrinsics)
}

func sortedNames(intrinsics map[string]*intrinsic) []string {
	names := make([]string, 0, len(intrinsics))
	for name := range intrinsics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Compiler) buildCall(call *ast.CallExpr) (value.Value, error) {
	name := call.Callee.Name

	in, ok := c.intrinsics[name]
	if !ok {
		return nil, errors.UnknownFunction(name, call.Callee.Pos, c.intrinsicNames())
	}

	if len(call.Args) != in.arity {
		return nil, errors.UnsupportedConstruct(
			fmt.Sprintf("call to %s with %d arguments, expected %d", name, len(call.Args), in.arity), call)
	}

	args := make([]value.Value, len(call.Args))
	for i, arg := range call.Args {
		v, err := c.buildExpression(arg)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	return in.lower(c, args), nil
}

func lowerAbs(c *Compiler, args []value.Value) value.Value {
	block := c.builder.Block()
	x := args[0]

	neg := block.NewSub(c.ctx.Zero(), x)
	isNeg := block.NewICmp(enum.IPredSLT, x, c.ctx.Zero())
	return block.NewSelect(isNeg, neg, x)
}

func lowerMinMax(pred enum.IPred) func(c *Compiler, args []value.Value) value.Value {
	return func(c *Compiler, args []value.Value) value.Value {
		block := c.builder.Block()
		pick := block.NewICmp(pred, args[0], args[1])
		return block.NewSelect(pick, args[0], args[1])
	}
}

func lowerPutchar(c *Compiler, args []value.Value) value.Value {
	putchar := c.module.DeclareExternal("putchar", c.ctx.I32, c.ctx.I32)
	return c.builder.Block().NewCall(putchar, args[0])
}
