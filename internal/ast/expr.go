package ast

type Expr interface {
	Node
	isExpr()
}

// NumberLit is an integer literal already reduced to its value
// Example: "42", "0xff"
type NumberLit struct {
	Pos    Position
	EndPos Position
	Value  int64
	Raw    string
}

// BoolLit is "true" or "false"
type BoolLit struct {
	Pos    Position
	EndPos Position
	Value  bool
}

// Ident is a reference to a binding, or a declared name
type Ident struct {
	Pos    Position
	EndPos Position
	Name   string
}

// AssignExpr is "target op value" where op is "=" or a compound form
// Example: "x += 2"
type AssignExpr struct {
	Pos    Position
	EndPos Position
	Op     Operator
	Target *Ident
	Value  Expr
}

type BinaryExpr struct {
	Pos    Position
	EndPos Position
	Op     Operator
	Left   Expr
	Right  Expr
}

type UnaryExpr struct {
	Pos     Position
	EndPos  Position
	Op      Operator
	Operand Expr
}

// UpdateExpr is "++x", "x++", "--x" or "x--"
type UpdateExpr struct {
	Pos    Position
	EndPos Position
	Op     Operator
	Prefix bool
	Target *Ident
}

type ParenExpr struct {
	Pos    Position
	EndPos Position
	Expr   Expr
}

// CallExpr calls a function by name
// Example: "max(a, b)"
type CallExpr struct {
	Pos    Position
	EndPos Position
	Callee *Ident
	Args   []Expr
}

func (*NumberLit) isExpr()  {}
func (*BoolLit) isExpr()    {}
func (*Ident) isExpr()      {}
func (*AssignExpr) isExpr() {}
func (*BinaryExpr) isExpr() {}
func (*UnaryExpr) isExpr()  {}
func (*UpdateExpr) isExpr() {}
func (*ParenExpr) isExpr()  {}
func (*CallExpr) isExpr()   {}
