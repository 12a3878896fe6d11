package lsp

import (
	"github.com/minsk-dev/power/internal/ast"
)

// SemanticToken represents a single LSP semantic token entry
// Line and StartChar are 0-based positions
// TokenType is an index into the semanticTokenTypes array
// TokenModifiers is a bitmask based on semanticTokenModifiers
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int // index into semanticTokenTypes
	TokenModifiers int // bitmask
}

func collectSemanticTokens(program ast.Program) []SemanticToken {
	var tokens []SemanticToken

	switch p := program.(type) {
	case *ast.Script:
		for _, stmt := range p.Body {
			tokens = append(tokens, walkStmt(stmt)...)
		}
	case *ast.Module:
		for _, item := range p.Body {
			if si, ok := item.(*ast.StmtItem); ok {
				tokens = append(tokens, walkStmt(si.Stmt)...)
			}
		}
	}

	return tokens
}

func walkStmt(stmt ast.Stmt) []SemanticToken {
	var tokens []SemanticToken

	switch s := stmt.(type) {
	case *ast.VarDecl:
		modifiers := modifierMask("declaration")
		if s.Kind == ast.Const {
			modifiers |= modifierMask("readonly")
		}
		for _, d := range s.Decls {
			tokens = append(tokens, makeToken(d.Name.Pos, d.Name.Name, "variable", modifiers)...)
			if d.Init != nil {
				tokens = append(tokens, walkExpr(d.Init)...)
			}
		}
	case *ast.ExprStmt:
		tokens = append(tokens, walkExpr(s.Expr)...)
	case *ast.BlockStmt:
		for _, inner := range s.Stmts {
			tokens = append(tokens, walkStmt(inner)...)
		}
	case *ast.IfStmt:
		tokens = append(tokens, walkExpr(s.Cond)...)
		tokens = append(tokens, walkStmt(s.Then)...)
		if s.Else != nil {
			tokens = append(tokens, walkStmt(s.Else)...)
		}
	case *ast.WhileStmt:
		tokens = append(tokens, walkExpr(s.Cond)...)
		tokens = append(tokens, walkStmt(s.Body)...)
	case *ast.ReturnStmt:
		if s.Value != nil {
			tokens = append(tokens, walkExpr(s.Value)...)
		}
	}

	return tokens
}

func walkExpr(expr ast.Expr) []SemanticToken {
	var tokens []SemanticToken

	switch e := expr.(type) {
	case *ast.NumberLit:
		tokens = append(tokens, makeToken(e.Pos, e.String(), "number", 0)...)
	case *ast.BoolLit:
		tokens = append(tokens, makeToken(e.Pos, e.String(), "keyword", 0)...)
	case *ast.Ident:
		tokens = append(tokens, makeToken(e.Pos, e.Name, "variable", 0)...)
	case *ast.AssignExpr:
		tokens = append(tokens, makeToken(e.Target.Pos, e.Target.Name, "variable", 0)...)
		tokens = append(tokens, walkExpr(e.Value)...)
	case *ast.BinaryExpr:
		tokens = append(tokens, walkExpr(e.Left)...)
		tokens = append(tokens, walkExpr(e.Right)...)
	case *ast.UnaryExpr:
		tokens = append(tokens, walkExpr(e.Operand)...)
	case *ast.UpdateExpr:
		tokens = append(tokens, makeToken(e.Target.Pos, e.Target.Name, "variable", 0)...)
	case *ast.ParenExpr:
		tokens = append(tokens, walkExpr(e.Expr)...)
	case *ast.CallExpr:
		tokens = append(tokens, makeToken(e.Callee.Pos, e.Callee.Name, "function", 0)...)
		for _, arg := range e.Args {
			tokens = append(tokens, walkExpr(arg)...)
		}
	}

	return tokens
}

func makeToken(pos ast.Position, value, tokenType string, modifiers int) []SemanticToken {
	if value == "" || !pos.IsValid() {
		return nil
	}

	return []SemanticToken{{
		Line:           uint32(pos.Line - 1),   // LSP uses 0-based line numbers
		StartChar:      uint32(pos.Column - 1), // LSP uses 0-based column numbers
		Length:         uint32(len(value)),
		TokenType:      indexOf(tokenType, SemanticTokenTypes),
		TokenModifiers: modifiers,
	}}
}

func modifierMask(name string) int {
	return 1 << indexOf(name, SemanticTokenModifiers)
}

// indexOf returns the index of a string in a slice, or 0 if not found
func indexOf(target string, list []string) int {
	for i, v := range list {
		if v == target {
			return i
		}
	}
	return 0 // Default to first token type if not found
}

// encodeSemanticTokens converts tokens to the LSP wire format
// (delta-line, delta-start compression)
func encodeSemanticTokens(tokens []SemanticToken) []uint32 {
	var data []uint32
	var prevLine, prevStart uint32

	for _, token := range tokens {
		deltaLine := token.Line - prevLine
		var deltaStart uint32
		if deltaLine == 0 {
			deltaStart = token.StartChar - prevStart
		} else {
			deltaStart = token.StartChar
		}

		data = append(data, deltaLine, deltaStart, token.Length, uint32(token.TokenType), uint32(token.TokenModifiers))

		prevLine = token.Line
		prevStart = token.StartChar
	}

	return data
}
