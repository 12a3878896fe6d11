package compiler

import (
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/minsk-dev/power/internal/ast"
	"github.com/minsk-dev/power/internal/errors"
	"github.com/minsk-dev/power/internal/ir"
	"github.com/minsk-dev/power/internal/semantic"
)

const (
	// EntryPoint is the name of the synthesized function
	EntryPoint = "main"

	// DefaultModuleName is used when WithModuleName is not given
	DefaultModuleName = "main"

	entryLabel = "entry"
)

// Compiler lowers one Program into the body of a synthesized main function.
// A Compiler is single use and not safe for concurrent use.
type Compiler struct {
	ctx        *ir.Context
	module     *ir.Module
	builder    *ir.Builder
	symbols    *semantic.SymbolTable
	intrinsics map[string]*intrinsic

	moduleName string
	log        commonlog.Logger
}

// Option configures a Compiler
type Option func(*Compiler)

// WithModuleName sets the name of the emitted module, usually the source path
func WithModuleName(name string) Option {
	return func(c *Compiler) {
		c.moduleName = name
	}
}

// WithLogger replaces the default "power.compiler" logger
func WithLogger(log commonlog.Logger) Option {
	return func(c *Compiler) {
		c.log = log
	}
}

// New creates a compiler that builds into a fresh module owned by ctx
func New(ctx *ir.Context, opts ...Option) *Compiler {
	c := &Compiler{
		ctx:        ctx,
		moduleName: DefaultModuleName,
		log:        commonlog.GetLogger("power.compiler"),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.module = ctx.NewModule(c.moduleName)
	c.symbols = semantic.NewSymbolTable()
	c.intrinsics = newIntrinsics()
	return c
}

// Module returns the module under construction. It is only meaningful after
// Compile returned nil.
func (c *Compiler) Module() *ir.Module {
	return c.module
}

// CompileMainFunction synthesizes "i32 main()" with an empty entry block
// and positions the cursor there. It must run exactly once, before Compile.
func (c *Compiler) CompileMainFunction() error {
	if c.builder != nil {
		return errors.EntryPointRedefined()
	}

	fn := c.module.NewFunc(EntryPoint, c.ctx.I32)
	c.builder = ir.NewBuilder(fn)
	c.builder.NewEntryBlock(entryLabel)

	c.log.Debugf("synthesized %s in module %s", EntryPoint, c.moduleName)
	return nil
}

// Compile lowers every top-level statement of program into main, appends
// the implicit "return 0" and retires the cursor. The first error aborts
// the call; the module must be discarded in that case.
func (c *Compiler) Compile(program ast.Program) error {
	if c.builder == nil || c.builder.Retired() {
		return errors.MissingEntryPoint()
	}

	switch p := program.(type) {
	case *ast.Script:
		if err := c.buildStatements(p.Body); err != nil {
			return err
		}
	case *ast.Module:
		if err := c.buildModule(p); err != nil {
			return err
		}
	default:
		return errors.UnsupportedConstruct(fmt.Sprintf("program of type %T", program), program)
	}

	return c.finish()
}

// buildModule rejects any import or export before lowering a single
// statement, so the outcome does not depend on where the declaration sits
func (c *Compiler) buildModule(module *ast.Module) error {
	for _, item := range module.Body {
		if decl, ok := item.(*ast.ModuleDecl); ok {
			return errors.UnsupportedConstruct("module declaration", decl)
		}
	}

	for _, item := range module.Body {
		switch it := item.(type) {
		case *ast.StmtItem:
			if err := c.buildStatement(it.Stmt); err != nil {
				return err
			}
		default:
			return errors.UnsupportedConstruct(fmt.Sprintf("module item %s", item.NodeType()), item)
		}
	}
	return nil
}

func (c *Compiler) finish() error {
	if !c.builder.Terminated() {
		c.builder.Block().NewRet(c.ctx.Zero())
	}

	fn := c.builder.Func()
	c.builder.Retire()

	if err := ir.Verify(fn); err != nil {
		return fmt.Errorf("internal compiler error: %w", err)
	}

	c.log.Debugf("compiled %s: %d blocks", fn.Name(), len(fn.Blocks))
	return nil
}

// CompileProgram runs a whole compilation in a fresh Compiler over ctx
func CompileProgram(ctx *ir.Context, program ast.Program, opts ...Option) (*ir.Module, error) {
	c := New(ctx, opts...)
	if err := c.CompileMainFunction(); err != nil {
		return nil, err
	}
	if err := c.Compile(program); err != nil {
		return nil, err
	}
	return c.Module(), nil
}
