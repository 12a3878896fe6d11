package ir

import (
	llvm "github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
)

// Module is a single compilation unit holding function definitions and the
// external declarations they call
type Module struct {
	ctx       *Context
	name      string
	mod       *llvm.Module
	externals map[string]*llvm.Func
}

func newModule(ctx *Context, name string) *Module {
	mod := llvm.NewModule()
	mod.SourceFilename = name

	return &Module{
		ctx:       ctx,
		name:      name,
		mod:       mod,
		externals: make(map[string]*llvm.Func),
	}
}

// Name returns the module name given at creation
func (m *Module) Name() string { return m.name }

// Context returns the context the module was created in
func (m *Module) Context() *Context { return m.ctx }

// LLVM exposes the underlying llir module for emission by a backend
func (m *Module) LLVM() *llvm.Module { return m.mod }

// NewFunc defines a new function with the given result type and parameters
func (m *Module) NewFunc(name string, ret types.Type, params ...*llvm.Param) *llvm.Func {
	return m.mod.NewFunc(name, ret, params...)
}

// Func returns the function (defined or declared) with the given name, or nil
func (m *Module) Func(name string) *llvm.Func {
	for _, fn := range m.mod.Funcs {
		if fn.Name() == name {
			return fn
		}
	}
	return nil
}

// DeclareExternal declares a body-less function once; later calls return
// the same declaration
func (m *Module) DeclareExternal(name string, ret types.Type, params ...types.Type) *llvm.Func {
	if fn, ok := m.externals[name]; ok {
		return fn
	}

	llParams := make([]*llvm.Param, len(params))
	for i, typ := range params {
		llParams[i] = llvm.NewParam("", typ)
	}

	fn := m.mod.NewFunc(name, ret, llParams...)
	m.externals[name] = fn
	return fn
}

// IsExternal reports whether fn is a declaration created by DeclareExternal
func (m *Module) IsExternal(fn *llvm.Func) bool {
	ext, ok := m.externals[fn.Name()]
	return ok && ext == fn
}

// String renders the module as textual LLVM IR
func (m *Module) String() string {
	return m.mod.String()
}
