package ast

type Stmt interface {
	Node
	isStmt()
}

// VarDecl is a let/const/var declaration with one or more declarators
// Example: "let a = 1, b;"
type VarDecl struct {
	Pos    Position
	EndPos Position
	Kind   VarKind
	Decls  []*Declarator
}

// Declarator binds one name; Init is nil when no initializer was written.
type Declarator struct {
	Pos    Position
	EndPos Position
	Name   *Ident
	Init   Expr
}

// ExprStmt evaluates an expression for its side effects
// Example: "x = x + 1;"
type ExprStmt struct {
	Pos    Position
	EndPos Position
	Expr   Expr
}

// BlockStmt is a braced statement list that opens a lexical scope
type BlockStmt struct {
	Pos    Position
	EndPos Position
	Stmts  []Stmt
}

// IfStmt is a conditional; Else may be nil
// Example: "if (x < 1) { ... } else { ... }"
type IfStmt struct {
	Pos    Position
	EndPos Position
	Cond   Expr
	Then   Stmt
	Else   Stmt
}

// WhileStmt is a pre-tested loop
type WhileStmt struct {
	Pos    Position
	EndPos Position
	Cond   Expr
	Body   Stmt
}

// ReturnStmt leaves main; Value may be nil
type ReturnStmt struct {
	Pos    Position
	EndPos Position
	Value  Expr
}

// EmptyStmt is a lone ";"
type EmptyStmt struct {
	Pos    Position
	EndPos Position
}

func (*VarDecl) isStmt()    {}
func (*ExprStmt) isStmt()   {}
func (*BlockStmt) isStmt()  {}
func (*IfStmt) isStmt()     {}
func (*WhileStmt) isStmt()  {}
func (*ReturnStmt) isStmt() {}
func (*EmptyStmt) isStmt()  {}
