package compiler

import (
	"fmt"

	llvm "github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"

	"github.com/minsk-dev/power/internal/ast"
	"github.com/minsk-dev/power/internal/errors"
	"github.com/minsk-dev/power/internal/semantic"
)

func (c *Compiler) buildStatements(stmts []ast.Stmt) error {
	for _, stmt := range stmts {
		if err := c.buildStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) buildStatement(stmt ast.Stmt) error {
	// an empty statement emits nothing, so it may follow a return
	if _, ok := stmt.(*ast.EmptyStmt); ok {
		return nil
	}
	if c.builder.Terminated() {
		return errors.UnreachableCode(stmt)
	}

	c.log.Debugf("lowering %s at %s", stmt.NodeType(), stmt.NodePos())

	switch s := stmt.(type) {
	case *ast.VarDecl:
		return c.buildVarDecl(s)
	case *ast.ExprStmt:
		_, err := c.buildExpression(s.Expr)
		return err
	case *ast.BlockStmt:
		return c.buildBlock(s)
	case *ast.IfStmt:
		return c.buildIf(s)
	case *ast.WhileStmt:
		return c.buildWhile(s)
	case *ast.ReturnStmt:
		return c.buildReturn(s)
	default:
		return errors.UnsupportedConstruct(fmt.Sprintf("statement %s", stmt.NodeType()), stmt)
	}
}

func (c *Compiler) buildVarDecl(decl *ast.VarDecl) error {
	kind := semantic.KindOf(decl.Kind)

	for _, d := range decl.Decls {
		if d.Init == nil && kind == semantic.SymbolConst {
			return errors.UnsupportedConstruct("const declaration without initializer", d)
		}

		// The initializer is evaluated before the name is bound, so
		// "let x = x" refers to an outer x.
		var init value.Value
		if d.Init != nil {
			v, err := c.buildExpression(d.Init)
			if err != nil {
				return err
			}
			init = v
		}

		symbol := &semantic.Symbol{
			Name:     d.Name.Name,
			Kind:     kind,
			Type:     c.ctx.I32,
			Position: d.Name.Pos,
		}
		bound, err := c.symbols.Declare(symbol)
		if err != nil {
			return err
		}

		if bound == symbol {
			symbol.Slot = c.builder.Alloca(c.ctx.I32, symbol.Name)
		} else if init == nil {
			// "var x;" repeating an earlier var keeps its value
			continue
		}

		if init == nil {
			init = c.ctx.Zero()
		}
		c.builder.Block().NewStore(init, bound.Slot)
	}
	return nil
}

func (c *Compiler) buildBlock(block *ast.BlockStmt) error {
	c.symbols.PushScope()
	defer c.symbols.PopScope()

	return c.buildStatements(block.Stmts)
}

// buildScoped lowers the arm of an if or the body of a loop. A bare
// declaration there still gets its own frame.
func (c *Compiler) buildScoped(stmt ast.Stmt) error {
	if _, ok := stmt.(*ast.BlockStmt); ok {
		return c.buildStatement(stmt)
	}

	c.symbols.PushScope()
	defer c.symbols.PopScope()
	return c.buildStatement(stmt)
}

func (c *Compiler) buildIf(stmt *ast.IfStmt) error {
	cond, err := c.buildCondition(stmt.Cond)
	if err != nil {
		return err
	}

	b := c.builder
	thenBlock := b.AppendBlock("if.then")

	// Without an else arm the false edge goes straight to the merge block,
	// which then always exists.
	if stmt.Else == nil {
		merge := b.AppendBlock("if.end")
		b.Block().NewCondBr(cond, thenBlock, merge)

		b.PositionAtEnd(thenBlock)
		if err := c.buildScoped(stmt.Then); err != nil {
			return err
		}
		if !b.Terminated() {
			b.Block().NewBr(merge)
		}

		b.PositionAtEnd(merge)
		return nil
	}

	elseBlock := b.AppendBlock("if.else")
	b.Block().NewCondBr(cond, thenBlock, elseBlock)

	var open []*llvm.Block

	b.PositionAtEnd(thenBlock)
	if err := c.buildScoped(stmt.Then); err != nil {
		return err
	}
	if !b.Terminated() {
		open = append(open, b.Block())
	}

	b.PositionAtEnd(elseBlock)
	if err := c.buildScoped(stmt.Else); err != nil {
		return err
	}
	if !b.Terminated() {
		open = append(open, b.Block())
	}

	// Both arms returned: there is no merge block and the cursor stays on a
	// terminated block, so anything that follows is unreachable.
	if len(open) == 0 {
		return nil
	}

	merge := b.AppendBlock("if.end")
	for _, block := range open {
		block.NewBr(merge)
	}
	b.PositionAtEnd(merge)
	return nil
}

func (c *Compiler) buildWhile(stmt *ast.WhileStmt) error {
	b := c.builder
	condBlock := b.AppendBlock("while.cond")
	bodyBlock := b.AppendBlock("while.body")
	afterBlock := b.AppendBlock("while.end")

	b.Block().NewBr(condBlock)

	b.PositionAtEnd(condBlock)
	cond, err := c.buildCondition(stmt.Cond)
	if err != nil {
		return err
	}
	b.Block().NewCondBr(cond, bodyBlock, afterBlock)

	b.PositionAtEnd(bodyBlock)
	if err := c.buildScoped(stmt.Body); err != nil {
		return err
	}
	if !b.Terminated() {
		b.Block().NewBr(condBlock)
	}

	b.PositionAtEnd(afterBlock)
	return nil
}

func (c *Compiler) buildReturn(stmt *ast.ReturnStmt) error {
	var result value.Value = c.ctx.Zero()
	if stmt.Value != nil {
		v, err := c.buildExpression(stmt.Value)
		if err != nil {
			return err
		}
		result = v
	}

	c.builder.Block().NewRet(result)
	return nil
}

// buildCondition lowers expr and converts it to an i1 truth value. A
// comparison already produced one before widening it, so that is reused.
func (c *Compiler) buildCondition(expr ast.Expr) (value.Value, error) {
	v, err := c.buildExpression(expr)
	if err != nil {
		return nil, err
	}

	if ext, ok := v.(*llvm.InstZExt); ok && ext.From.Type().Equal(c.ctx.I1) {
		return ext.From, nil
	}
	return c.builder.Block().NewICmp(enum.IPredNE, v, c.ctx.Zero()), nil
}
