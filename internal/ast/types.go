package ast

import "fmt"

type NodeType int

const (
	// Special / error
	ILLEGAL NodeType = iota

	// Programs
	SCRIPT
	MODULE

	// Module items
	STMT_ITEM
	MODULE_DECL

	// Statements
	VAR_DECL
	DECLARATOR
	EXPR_STMT
	BLOCK_STMT
	IF_STMT
	WHILE_STMT
	RETURN_STMT
	EMPTY_STMT

	// Expressions
	NUMBER_LIT
	BOOL_LIT
	IDENT
	ASSIGN_EXPR
	BINARY_EXPR
	UNARY_EXPR
	UPDATE_EXPR
	PAREN_EXPR
	CALL_EXPR
)

var nodeTypeNames = [...]string{
	ILLEGAL:     "Illegal",
	SCRIPT:      "Script",
	MODULE:      "Module",
	STMT_ITEM:   "StmtItem",
	MODULE_DECL: "ModuleDecl",
	VAR_DECL:    "VarDecl",
	DECLARATOR:  "Declarator",
	EXPR_STMT:   "ExprStmt",
	BLOCK_STMT:  "BlockStmt",
	IF_STMT:     "IfStmt",
	WHILE_STMT:  "WhileStmt",
	RETURN_STMT: "ReturnStmt",
	EMPTY_STMT:  "EmptyStmt",
	NUMBER_LIT:  "NumberLit",
	BOOL_LIT:    "BoolLit",
	IDENT:       "Ident",
	ASSIGN_EXPR: "AssignExpr",
	BINARY_EXPR: "BinaryExpr",
	UNARY_EXPR:  "UnaryExpr",
	UPDATE_EXPR: "UpdateExpr",
	PAREN_EXPR:  "ParenExpr",
	CALL_EXPR:   "CallExpr",
}

func (t NodeType) String() string {
	if int(t) >= 0 && int(t) < len(nodeTypeNames) {
		return nodeTypeNames[t]
	}
	return fmt.Sprintf("NodeType(%d)", int(t))
}

// Position tracks location information for error reporting and tooling
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// IsValid reports whether the position was filled in by a parser.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// VarKind is the keyword that introduced a variable declaration.
type VarKind int

const (
	Let VarKind = iota
	Const
	Var
)

func (k VarKind) String() string {
	switch k {
	case Const:
		return "const"
	case Var:
		return "var"
	default:
		return "let"
	}
}

// ModuleDeclKind classifies import/export items of an ES module.
type ModuleDeclKind int

const (
	Import ModuleDeclKind = iota
	ExportDecl
	ExportDefault
	ExportNamed
	ExportAll
)

func (k ModuleDeclKind) String() string {
	switch k {
	case Import:
		return "import declaration"
	case ExportDecl:
		return "export declaration"
	case ExportDefault:
		return "export default declaration"
	case ExportNamed:
		return "named export"
	case ExportAll:
		return "export * declaration"
	default:
		return "module declaration"
	}
}
