package ast

// Program is the root of a parsed source file: either a *Script or a *Module.
type Program interface {
	Node
	isProgram()
}

// Script is a classic (non-module) program
// Example: "let x = 1; return x;"
type Script struct {
	Pos    Position
	EndPos Position
	Body   []Stmt
}

// Module is an ES module body, which may interleave statements with
// import/export declarations
// Example: "import x from 'y'; let z = 1;"
type Module struct {
	Pos    Position
	EndPos Position
	Body   []ModuleItem
}

func (*Script) isProgram() {}
func (*Module) isProgram() {}

// ModuleItem is one top-level entry of a Module.
type ModuleItem interface {
	Node
	isModuleItem()
}

// StmtItem wraps an ordinary statement appearing at module top level.
type StmtItem struct {
	Stmt Stmt
}

// ModuleDecl is an import or export declaration. Only its kind and source
// text are retained; the compiler rejects every one of them.
// Example: "export default 1;"
type ModuleDecl struct {
	Pos    Position
	EndPos Position
	Kind   ModuleDeclKind
	Source string
}

func (*StmtItem) isModuleItem()   {}
func (*ModuleDecl) isModuleItem() {}
