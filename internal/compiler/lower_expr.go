package compiler

import (
	"fmt"

	llvm "github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"

	"github.com/minsk-dev/power/internal/ast"
	"github.com/minsk-dev/power/internal/errors"
	"github.com/minsk-dev/power/internal/semantic"
)

// buildExpression lowers expr to a single i32 value. On success the cursor
// is left on an open block.
func (c *Compiler) buildExpression(expr ast.Expr) (value.Value, error) {
	switch e := expr.(type) {
	case *ast.NumberLit:
		return c.ctx.Int(e.Value), nil
	case *ast.BoolLit:
		if e.Value {
			return c.ctx.Int(1), nil
		}
		return c.ctx.Zero(), nil
	case *ast.Ident:
		symbol, err := c.symbols.Resolve(e.Name, e.Pos)
		if err != nil {
			return nil, err
		}
		return c.builder.Block().NewLoad(symbol.Type, symbol.Slot), nil
	case *ast.ParenExpr:
		return c.buildExpression(e.Expr)
	case *ast.AssignExpr:
		return c.buildAssign(e)
	case *ast.BinaryExpr:
		if e.Op.IsLogical() {
			return c.buildLogical(e)
		}
		return c.buildBinaryExpr(e)
	case *ast.UnaryExpr:
		return c.buildUnary(e)
	case *ast.UpdateExpr:
		return c.buildUpdate(e)
	case *ast.CallExpr:
		return c.buildCall(e)
	default:
		return nil, errors.UnsupportedConstruct(fmt.Sprintf("expression %s", expr.NodeType()), expr)
	}
}

// resolveMutable finds the slot an assignment writes to
func (c *Compiler) resolveMutable(target *ast.Ident) (*semantic.Symbol, error) {
	symbol, err := c.symbols.Resolve(target.Name, target.Pos)
	if err != nil {
		return nil, err
	}
	if !symbol.Mutable() {
		return nil, errors.AssignToConst(target.Name, target.Pos, symbol.Position)
	}
	return symbol, nil
}

func (c *Compiler) buildAssign(expr *ast.AssignExpr) (value.Value, error) {
	if expr.Op == ast.ASSIGN {
		// right-hand side first, then the target
		v, err := c.buildExpression(expr.Value)
		if err != nil {
			return nil, err
		}
		symbol, err := c.resolveMutable(expr.Target)
		if err != nil {
			return nil, err
		}
		c.builder.Block().NewStore(v, symbol.Slot)
		return v, nil
	}

	op, ok := expr.Op.BinaryOf()
	if !ok {
		return nil, errors.UnsupportedConstruct(fmt.Sprintf("assignment operator %s", expr.Op), expr)
	}

	// x op= y reads x before evaluating y
	symbol, err := c.resolveMutable(expr.Target)
	if err != nil {
		return nil, err
	}
	current := c.builder.Block().NewLoad(symbol.Type, symbol.Slot)

	rhs, err := c.buildExpression(expr.Value)
	if err != nil {
		return nil, err
	}

	result, err := c.buildBinaryOp(op, current, rhs, expr)
	if err != nil {
		return nil, err
	}
	c.builder.Block().NewStore(result, symbol.Slot)
	return result, nil
}

func (c *Compiler) buildBinaryExpr(expr *ast.BinaryExpr) (value.Value, error) {
	left, err := c.buildExpression(expr.Left)
	if err != nil {
		return nil, err
	}
	right, err := c.buildExpression(expr.Right)
	if err != nil {
		return nil, err
	}
	return c.buildBinaryOp(expr.Op, left, right, expr)
}

var comparisonPredicates = map[ast.Operator]enum.IPred{
	ast.EQ:        enum.IPredEQ,
	ast.STRICT_EQ: enum.IPredEQ,
	ast.NE:        enum.IPredNE,
	ast.STRICT_NE: enum.IPredNE,
	ast.LT:        enum.IPredSLT,
	ast.LE:        enum.IPredSLE,
	ast.GT:        enum.IPredSGT,
	ast.GE:        enum.IPredSGE,
}

// buildBinaryOp emits one arithmetic, bitwise or comparison instruction.
// Comparisons are widened back to i32 so every expression stays in one
// domain.
func (c *Compiler) buildBinaryOp(op ast.Operator, left, right value.Value, node ast.Node) (value.Value, error) {
	block := c.builder.Block()

	if pred, ok := comparisonPredicates[op]; ok {
		cmp := block.NewICmp(pred, left, right)
		return block.NewZExt(cmp, c.ctx.I32), nil
	}

	switch op {
	case ast.ADD:
		return block.NewAdd(left, right), nil
	case ast.SUB:
		return block.NewSub(left, right), nil
	case ast.MUL:
		return block.NewMul(left, right), nil
	case ast.DIV:
		return block.NewSDiv(left, right), nil
	case ast.MOD:
		return block.NewSRem(left, right), nil
	case ast.SHL:
		return block.NewShl(left, c.shiftCount(right)), nil
	case ast.SHR:
		return block.NewAShr(left, c.shiftCount(right)), nil
	case ast.BIT_AND:
		return block.NewAnd(left, right), nil
	case ast.BIT_OR:
		return block.NewOr(left, right), nil
	case ast.BIT_XOR:
		return block.NewXor(left, right), nil
	default:
		return nil, errors.UnsupportedConstruct(fmt.Sprintf("binary operator %s", op), node)
	}
}

// shiftCount masks a shift amount to its low five bits
func (c *Compiler) shiftCount(count value.Value) value.Value {
	if k, ok := count.(*constant.Int); ok {
		return c.ctx.Int(k.X.Int64() & 31)
	}
	return c.builder.Block().NewAnd(count, c.ctx.Int(31))
}

// buildLogical lowers && and || with short circuit. The right operand gets
// its own block and the result is merged with a phi, then widened to 0 or 1.
func (c *Compiler) buildLogical(expr *ast.BinaryExpr) (value.Value, error) {
	left, err := c.buildCondition(expr.Left)
	if err != nil {
		return nil, err
	}

	b := c.builder
	prefix := "and"
	if expr.Op == ast.OR {
		prefix = "or"
	}
	lhsBlock := b.Block()
	rhsBlock := b.AppendBlock(prefix + ".rhs")
	endBlock := b.AppendBlock(prefix + ".end")

	// && skips the right side when the left is false, || when it is true
	short := c.ctx.Bool(expr.Op == ast.OR)
	if expr.Op == ast.OR {
		lhsBlock.NewCondBr(left, endBlock, rhsBlock)
	} else {
		lhsBlock.NewCondBr(left, rhsBlock, endBlock)
	}

	b.PositionAtEnd(rhsBlock)
	right, err := c.buildCondition(expr.Right)
	if err != nil {
		return nil, err
	}
	rhsEnd := b.Block()
	rhsEnd.NewBr(endBlock)

	b.PositionAtEnd(endBlock)
	phi := endBlock.NewPhi(
		llvm.NewIncoming(short, lhsBlock),
		llvm.NewIncoming(right, rhsEnd),
	)
	return endBlock.NewZExt(phi, c.ctx.I32), nil
}

func (c *Compiler) buildUnary(expr *ast.UnaryExpr) (value.Value, error) {
	operand, err := c.buildExpression(expr.Operand)
	if err != nil {
		return nil, err
	}

	block := c.builder.Block()
	switch expr.Op {
	case ast.NOT:
		cmp := block.NewICmp(enum.IPredEQ, operand, c.ctx.Zero())
		return block.NewZExt(cmp, c.ctx.I32), nil
	case ast.SUB:
		return block.NewSub(c.ctx.Zero(), operand), nil
	case ast.ADD:
		return operand, nil
	case ast.BIT_NOT:
		return block.NewXor(operand, c.ctx.Int(-1)), nil
	default:
		return nil, errors.UnsupportedConstruct(fmt.Sprintf("unary operator %s", expr.Op), expr)
	}
}

// buildUpdate lowers ++ and --. The prefix form yields the new value, the
// postfix form the old one.
func (c *Compiler) buildUpdate(expr *ast.UpdateExpr) (value.Value, error) {
	symbol, err := c.resolveMutable(expr.Target)
	if err != nil {
		return nil, err
	}

	block := c.builder.Block()
	old := block.NewLoad(symbol.Type, symbol.Slot)

	var updated value.Value
	switch expr.Op {
	case ast.INC:
		updated = block.NewAdd(old, c.ctx.Int(1))
	case ast.DEC:
		updated = block.NewSub(old, c.ctx.Int(1))
	default:
		return nil, errors.UnsupportedConstruct(fmt.Sprintf("update operator %s", expr.Op), expr)
	}
	block.NewStore(updated, symbol.Slot)

	if expr.Prefix {
		return updated, nil
	}
	return old, nil
}
