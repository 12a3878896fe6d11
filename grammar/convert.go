package grammar

import (
	goerrors "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/minsk-dev/power/internal/ast"
)

var reservedWords = map[string]bool{
	"let": true, "const": true, "var": true,
	"if": true, "else": true, "while": true, "return": true,
	"true": true, "false": true,
	"import": true, "export": true, "default": true,
	"function": true, "class": true, "new": true, "this": true,
	"for": true, "do": true, "break": true, "continue": true,
}

// Binary operator precedence, higher binds tighter. All are left associative.
var precedence = map[ast.Operator]int{
	ast.OR:        1,
	ast.AND:       2,
	ast.BIT_OR:    3,
	ast.BIT_XOR:   4,
	ast.BIT_AND:   5,
	ast.EQ:        6,
	ast.NE:        6,
	ast.STRICT_EQ: 6,
	ast.STRICT_NE: 6,
	ast.LT:        7,
	ast.LE:        7,
	ast.GT:        7,
	ast.GE:        7,
	ast.SHL:       8,
	ast.SHR:       8,
	ast.ADD:       9,
	ast.SUB:       9,
	ast.MUL:       10,
	ast.DIV:       10,
	ast.MOD:       10,
}

func convertPos(pos lexer.Position) ast.Position {
	return ast.Position{
		Filename: pos.Filename,
		Offset:   pos.Offset,
		Line:     pos.Line,
		Column:   pos.Column,
	}
}

func errorAt(pos lexer.Position, format string, args ...interface{}) *ParseError {
	return &ParseError{Position: convertPos(pos), Message: fmt.Sprintf(format, args...)}
}

// ConvertScript turns a parse tree into an *ast.Script
func ConvertScript(s *Script) (*ast.Script, error) {
	body, err := convertStatements(s.Body)
	if err != nil {
		return nil, err
	}
	return &ast.Script{Pos: convertPos(s.Pos), EndPos: convertPos(s.EndPos), Body: body}, nil
}

// ConvertModule turns a parse tree into an *ast.Module
func ConvertModule(m *ModuleBody) (*ast.Module, error) {
	module := &ast.Module{Pos: convertPos(m.Pos), EndPos: convertPos(m.EndPos)}

	for _, item := range m.Items {
		switch {
		case item.Import != nil:
			module.Body = append(module.Body, &ast.ModuleDecl{
				Pos:    convertPos(item.Pos),
				EndPos: convertPos(item.EndPos),
				Kind:   ast.Import,
				Source: unquote(item.Import.Source),
			})
		case item.Export != nil:
			module.Body = append(module.Body, convertExport(item.Export))
		case item.Stmt != nil:
			stmt, err := convertStatement(item.Stmt)
			if err != nil {
				return nil, err
			}
			module.Body = append(module.Body, &ast.StmtItem{Stmt: stmt})
		}
	}
	return module, nil
}

func convertExport(e *ExportDecl) *ast.ModuleDecl {
	decl := &ast.ModuleDecl{Pos: convertPos(e.Pos), EndPos: convertPos(e.EndPos)}

	switch {
	case e.Default != nil:
		decl.Kind = ast.ExportDefault
	case e.All != nil:
		decl.Kind = ast.ExportAll
		decl.Source = unquote(*e.All)
	case e.Named:
		decl.Kind = ast.ExportNamed
		if e.From != nil {
			decl.Source = unquote(*e.From)
		}
	default:
		decl.Kind = ast.ExportDecl
	}
	return decl
}

func unquote(s string) string {
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}

func convertStatements(stmts []*Statement) ([]ast.Stmt, error) {
	result := make([]ast.Stmt, 0, len(stmts))
	for _, s := range stmts {
		stmt, err := convertStatement(s)
		if err != nil {
			return nil, err
		}
		result = append(result, stmt)
	}
	return result, nil
}

func convertStatement(s *Statement) (ast.Stmt, error) {
	pos, end := convertPos(s.Pos), convertPos(s.EndPos)

	switch {
	case s.VarDecl != nil:
		return convertVarDecl(s.VarDecl)

	case s.If != nil:
		cond, err := convertExpr(s.If.Cond)
		if err != nil {
			return nil, err
		}
		then, err := convertStatement(s.If.Then)
		if err != nil {
			return nil, err
		}
		stmt := &ast.IfStmt{Pos: pos, EndPos: end, Cond: cond, Then: then}
		if s.If.Else != nil {
			if stmt.Else, err = convertStatement(s.If.Else); err != nil {
				return nil, err
			}
		}
		return stmt, nil

	case s.While != nil:
		cond, err := convertExpr(s.While.Cond)
		if err != nil {
			return nil, err
		}
		body, err := convertStatement(s.While.Body)
		if err != nil {
			return nil, err
		}
		return &ast.WhileStmt{Pos: pos, EndPos: end, Cond: cond, Body: body}, nil

	case s.Return != nil:
		stmt := &ast.ReturnStmt{Pos: pos, EndPos: end}
		if s.Return.Value != nil {
			v, err := convertExpr(s.Return.Value)
			if err != nil {
				return nil, err
			}
			stmt.Value = v
		}
		return stmt, nil

	case s.Block != nil:
		stmts, err := convertStatements(s.Block.Stmts)
		if err != nil {
			return nil, err
		}
		return &ast.BlockStmt{Pos: pos, EndPos: end, Stmts: stmts}, nil

	case s.Empty:
		return &ast.EmptyStmt{Pos: pos, EndPos: end}, nil

	case s.Expr != nil:
		expr, err := convertExpr(s.Expr.Expr)
		if err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Pos: pos, EndPos: end, Expr: expr}, nil
	}

	return nil, errorAt(s.Pos, "empty statement node")
}

func convertVarDecl(v *VarDecl) (*ast.VarDecl, error) {
	decl := &ast.VarDecl{Pos: convertPos(v.Pos), EndPos: convertPos(v.EndPos)}
	switch v.Kind {
	case "const":
		decl.Kind = ast.Const
	case "var":
		decl.Kind = ast.Var
	default:
		decl.Kind = ast.Let
	}

	for _, d := range v.Decls {
		name, err := convertIdent(d.Name)
		if err != nil {
			return nil, err
		}
		declarator := &ast.Declarator{Pos: convertPos(d.Pos), EndPos: convertPos(d.EndPos), Name: name}
		if d.Init != nil {
			if declarator.Init, err = convertExpr(d.Init); err != nil {
				return nil, err
			}
		}
		decl.Decls = append(decl.Decls, declarator)
	}
	return decl, nil
}

func convertIdent(id *Ident) (*ast.Ident, error) {
	if reservedWords[id.Name] {
		return nil, errorAt(id.Pos, "unexpected keyword %q", id.Name)
	}
	return &ast.Ident{Pos: convertPos(id.Pos), EndPos: convertPos(id.EndPos), Name: id.Name}, nil
}

func convertExpr(e *Expr) (ast.Expr, error) {
	if e.Assign != nil {
		return convertAssign(e.Assign)
	}
	if e.Binary != nil {
		return convertBinary(e.Binary)
	}
	return nil, errorAt(e.Pos, "empty expression node")
}

func convertAssign(a *Assignment) (ast.Expr, error) {
	target, err := convertIdent(a.Target)
	if err != nil {
		return nil, err
	}
	op, ok := ast.LookupOperator(a.Operator)
	if !ok {
		return nil, errorAt(a.Pos, "unknown assignment operator %q", a.Operator)
	}
	value, err := convertExpr(a.Value)
	if err != nil {
		return nil, err
	}
	return &ast.AssignExpr{
		Pos:    convertPos(a.Pos),
		EndPos: convertPos(a.EndPos),
		Op:     op,
		Target: target,
		Value:  value,
	}, nil
}

// convertBinary folds the flat operator chain into a tree with an operator
// precedence stack
func convertBinary(b *BinaryExpr) (ast.Expr, error) {
	first, err := convertUnary(b.Left)
	if err != nil {
		return nil, err
	}

	operands := []ast.Expr{first}
	var operators []ast.Operator

	reduce := func() {
		n := len(operands)
		left, right := operands[n-2], operands[n-1]
		op := operators[len(operators)-1]
		operators = operators[:len(operators)-1]
		operands = append(operands[:n-2], &ast.BinaryExpr{
			Pos:    left.NodePos(),
			EndPos: right.NodeEndPos(),
			Op:     op,
			Left:   left,
			Right:  right,
		})
	}

	for _, binop := range b.Ops {
		op, ok := ast.LookupOperator(binop.Operator)
		if !ok {
			return nil, errorAt(binop.Pos, "unknown operator %q", binop.Operator)
		}
		for len(operators) > 0 && precedence[operators[len(operators)-1]] >= precedence[op] {
			reduce()
		}
		right, err := convertUnary(binop.Right)
		if err != nil {
			return nil, err
		}
		operators = append(operators, op)
		operands = append(operands, right)
	}

	for len(operators) > 0 {
		reduce()
	}
	return operands[0], nil
}

func convertUnary(u *UnaryExpr) (ast.Expr, error) {
	pos, end := convertPos(u.Pos), convertPos(u.EndPos)

	switch {
	case u.Update != "":
		target, err := convertIdent(u.Target)
		if err != nil {
			return nil, err
		}
		op, _ := ast.LookupOperator(u.Update)
		return &ast.UpdateExpr{Pos: pos, EndPos: end, Op: op, Prefix: true, Target: target}, nil

	case u.Operator != "":
		operand, err := convertUnary(u.Operand)
		if err != nil {
			return nil, err
		}
		op, _ := ast.LookupOperator(u.Operator)
		return &ast.UnaryExpr{Pos: pos, EndPos: end, Op: op, Operand: operand}, nil

	case u.Postfix != nil:
		return convertPostfix(u.Postfix)
	}

	return nil, errorAt(u.Pos, "empty unary expression node")
}

func convertPostfix(p *PostfixExpr) (ast.Expr, error) {
	if p.Update == "" {
		return convertPrimary(p.Primary)
	}

	if p.Primary.Ident == nil {
		return nil, errorAt(p.Pos, "invalid operand for %s, expected an identifier", p.Update)
	}
	target, err := convertIdent(p.Primary.Ident)
	if err != nil {
		return nil, err
	}
	op, _ := ast.LookupOperator(p.Update)
	return &ast.UpdateExpr{
		Pos:    convertPos(p.Pos),
		EndPos: convertPos(p.EndPos),
		Op:     op,
		Prefix: false,
		Target: target,
	}, nil
}

func convertPrimary(p *PrimaryExpr) (ast.Expr, error) {
	pos, end := convertPos(p.Pos), convertPos(p.EndPos)

	switch {
	case p.Number != nil:
		v, err := ParseNumber(*p.Number)
		if err != nil {
			return nil, errorAt(p.Pos, "%s", err)
		}
		return &ast.NumberLit{Pos: pos, EndPos: end, Value: v, Raw: *p.Number}, nil

	case p.Bool != nil:
		return &ast.BoolLit{Pos: pos, EndPos: end, Value: *p.Bool == "true"}, nil

	case p.Call != nil:
		callee, err := convertIdent(p.Call.Callee)
		if err != nil {
			return nil, err
		}
		call := &ast.CallExpr{Pos: pos, EndPos: end, Callee: callee}
		for _, arg := range p.Call.Args {
			a, err := convertExpr(arg)
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, a)
		}
		return call, nil

	case p.Ident != nil:
		return convertIdent(p.Ident)

	case p.Parens != nil:
		inner, err := convertExpr(p.Parens)
		if err != nil {
			return nil, err
		}
		return &ast.ParenExpr{Pos: pos, EndPos: end, Expr: inner}, nil
	}

	return nil, errorAt(p.Pos, "empty primary expression node")
}

// ParseNumber decodes an integer literal. Values up to 0xFFFFFFFF are
// accepted and reinterpreted as two's complement i32.
func ParseNumber(raw string) (int64, error) {
	digits := strings.ReplaceAll(raw, "_", "")
	base := 10

	if len(digits) > 2 && digits[0] == '0' {
		switch digits[1] {
		case 'x', 'X':
			base, digits = 16, digits[2:]
		case 'b', 'B':
			base, digits = 2, digits[2:]
		case 'o', 'O':
			base, digits = 8, digits[2:]
		}
	}

	v, err := strconv.ParseUint(digits, base, 64)
	if err != nil && !goerrors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("invalid integer literal %s", raw)
	}
	if err != nil || v > 0xFFFFFFFF {
		return 0, fmt.Errorf("integer literal %s does not fit in 32 bits", raw)
	}
	return int64(int32(uint32(v))), nil
}
