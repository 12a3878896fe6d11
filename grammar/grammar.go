package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Script is the parse tree of a classic program
type Script struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Body   []*Statement `@@*`
}

// ModuleBody is the parse tree of an ES module
type ModuleBody struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Items  []*ModuleItem `@@*`
}

type ModuleItem struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Import *ImportDecl `  @@`
	Export *ExportDecl `| @@`
	Stmt   *Statement  `| @@`
}

// ImportDecl keeps only the module specifier; the bindings are skipped
type ImportDecl struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Source string `"import" { Ident | "*" | "{" | "}" | "," } @String ";"`
}

type ExportDecl struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Default *Expr    `"export" ( "default" @@ ";"`
	All     *string  `| "*" [ "as" Ident ] "from" @String ";"`
	Named   bool     `| @"{" { Ident | "," } "}"`
	From    *string  `  [ "from" @String ] ";"`
	Decl    *VarDecl `| @@ )`
}

type Statement struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	VarDecl *VarDecl    `  @@`
	If      *IfStmt     `| @@`
	While   *WhileStmt  `| @@`
	Return  *ReturnStmt `| @@`
	Block   *BlockStmt  `| @@`
	Empty   bool        `| @";"`
	Expr    *ExprStmt   `| @@`
}

type VarDecl struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Kind   string        `@("let" | "const" | "var")`
	Decls  []*Declarator `@@ { "," @@ } ";"`
}

type Declarator struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   *Ident `@@`
	Init   *Expr  `[ "=" @@ ]`
}

type IfStmt struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Cond   *Expr      `"if" "(" @@ ")"`
	Then   *Statement `@@`
	Else   *Statement `[ "else" @@ ]`
}

type WhileStmt struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Cond   *Expr      `"while" "(" @@ ")"`
	Body   *Statement `@@`
}

type ReturnStmt struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Value  *Expr `"return" @@? ";"`
}

type BlockStmt struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Stmts  []*Statement `"{" @@* "}"`
}

type ExprStmt struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Expr   *Expr `@@ ";"`
}

type Expr struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Assign *Assignment `  @@`
	Binary *BinaryExpr `| @@`
}

type Assignment struct {
	Pos      lexer.Position
	EndPos   lexer.Position
	Target   *Ident `@@`
	Operator string `@("=" | "+=" | "-=" | "*=" | "/=" | "%=" | "<<=" | ">>=" | "&=" | "|=" | "^=")`
	Value    *Expr  `@@`
}

// BinaryExpr is a flat operator chain; precedence is applied when it is
// converted to the AST
type BinaryExpr struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Left   *UnaryExpr `@@`
	Ops    []*BinOp   `{ @@ }`
}

type BinOp struct {
	Pos      lexer.Position
	EndPos   lexer.Position
	Operator string     `@("||" | "&&" | "|" | "^" | "&" | "===" | "!==" | "==" | "!=" | "<=" | ">=" | "<<" | ">>" | "<" | ">" | "+" | "-" | "*" | "/" | "%")`
	Right    *UnaryExpr `@@`
}

type UnaryExpr struct {
	Pos      lexer.Position
	EndPos   lexer.Position
	Update   string       `(  @("++" | "--")`
	Target   *Ident       `   @@`
	Operator string       ` | @("!" | "-" | "+" | "~")`
	Operand  *UnaryExpr   `   @@`
	Postfix  *PostfixExpr ` | @@ )`
}

type PostfixExpr struct {
	Pos     lexer.Position
	EndPos  lexer.Position
	Primary *PrimaryExpr `@@`
	Update  string       `[ @("++" | "--") ]`
}

type PrimaryExpr struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Number *string   `  @Number`
	Bool   *string   `| @("true" | "false")`
	Call   *CallExpr `| @@`
	Ident  *Ident    `| @@`
	Parens *Expr     `| "(" @@ ")"`
}

type CallExpr struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Callee *Ident  `@@ "("`
	Args   []*Expr `[ @@ { "," @@ } ] ")"`
}

type Ident struct {
	Pos    lexer.Position
	EndPos lexer.Position
	Name   string `@Ident`
}
