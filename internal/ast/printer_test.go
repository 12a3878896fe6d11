package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ident(name string) *Ident { return &Ident{Name: name} }

func num(v int64) *NumberLit { return &NumberLit{Value: v} }

func TestStatementPrinting(t *testing.T) {
	script := &Script{Body: []Stmt{
		&VarDecl{Kind: Const, Decls: []*Declarator{
			{Name: ident("a"), Init: num(1)},
			{Name: ident("b"), Init: &BinaryExpr{Op: MUL, Left: ident("a"), Right: num(2)}},
		}},
		&VarDecl{Kind: Let, Decls: []*Declarator{{Name: ident("c")}}},
		&WhileStmt{
			Cond: &BinaryExpr{Op: LT, Left: ident("c"), Right: num(3)},
			Body: &BlockStmt{Stmts: []Stmt{
				&ExprStmt{Expr: &UpdateExpr{Op: INC, Target: ident("c")}},
			}},
		},
		&IfStmt{
			Cond: &UnaryExpr{Op: NOT, Operand: ident("c")},
			Then: &ReturnStmt{},
			Else: &ReturnStmt{Value: &CallExpr{Callee: ident("max"), Args: []Expr{ident("a"), ident("b")}}},
		},
		&EmptyStmt{},
	}}

	expected := "const a = 1, b = (a * 2);\n" +
		"let c;\n" +
		"while ((c < 3)) {\n  c++;\n}\n" +
		"if (!c) return; else return max(a, b);\n" +
		";\n"
	assert.Equal(t, expected, script.String())
}

func TestExpressionPrinting(t *testing.T) {
	tests := []struct {
		expr     Expr
		expected string
	}{
		{&NumberLit{Value: 255, Raw: "0xff"}, "0xff"},
		{num(-1), "-1"},
		{&BoolLit{Value: true}, "true"},
		{&AssignExpr{Op: ADD_ASSIGN, Target: ident("x"), Value: num(2)}, "x += 2"},
		{&UpdateExpr{Op: DEC, Prefix: true, Target: ident("y")}, "--y"},
		{&ParenExpr{Expr: &BinaryExpr{Op: OR, Left: ident("p"), Right: ident("q")}}, "((p || q))"},
		{&UnaryExpr{Op: BIT_NOT, Operand: num(0)}, "~0"},
		{&CallExpr{Callee: ident("putchar"), Args: []Expr{num(10)}}, "putchar(10)"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.expr.String())
	}
}

func TestOperatorLookup(t *testing.T) {
	op, ok := LookupOperator("<<=")
	assert.True(t, ok)
	assert.Equal(t, SHL_ASSIGN, op)

	base, ok := op.BinaryOf()
	assert.True(t, ok)
	assert.Equal(t, SHL, base)

	_, ok = ASSIGN.BinaryOf()
	assert.False(t, ok)

	_, ok = LookupOperator("**")
	assert.False(t, ok)

	assert.True(t, STRICT_NE.IsComparison())
	assert.False(t, ADD.IsComparison())
	assert.True(t, OR.IsLogical())
	assert.False(t, BIT_OR.IsLogical())
}

func TestModuleDeclPrinting(t *testing.T) {
	module := &Module{Body: []ModuleItem{
		&ModuleDecl{Kind: Import, Source: `import x from "y";`},
		&ModuleDecl{Kind: ExportAll},
		&StmtItem{Stmt: &ReturnStmt{Value: num(0)}},
	}}
	assert.Equal(t, "import x from \"y\";\nexport * declaration\nreturn 0;\n", module.String())
}
