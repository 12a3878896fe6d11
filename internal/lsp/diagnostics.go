package lsp

import (
	goerrors "errors"
	"path/filepath"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/minsk-dev/power/grammar"
	"github.com/minsk-dev/power/internal/ast"
	"github.com/minsk-dev/power/internal/compiler"
	"github.com/minsk-dev/power/internal/errors"
	"github.com/minsk-dev/power/internal/ir"
)

// ModeForPath picks the source mode from the file extension: .mjs and .mts
// are modules, everything else is a script
func ModeForPath(path string) grammar.Mode {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mjs", ".mts":
		return grammar.ModeModule
	}
	return grammar.ModeScript
}

// Analyze parses and compiles one document. The program is nil when parsing
// failed. Compilation stops at the first error, so there is at most one
// diagnostic.
func Analyze(path, source string) (ast.Program, []protocol.Diagnostic) {
	program, err := grammar.ParseSource(path, source, ModeForPath(path))
	if err != nil {
		return nil, ConvertParseError(err)
	}

	_, err = compiler.CompileProgram(ir.NewContext(), program, compiler.WithModuleName(path))
	if err != nil {
		return program, ConvertCompileError(err)
	}
	return program, []protocol.Diagnostic{}
}

// ConvertParseError transforms a syntax error into an LSP diagnostic
func ConvertParseError(err error) []protocol.Diagnostic {
	var pe *grammar.ParseError
	if !goerrors.As(err, &pe) {
		return []protocol.Diagnostic{newDiagnostic(ast.Position{}, 1, "power-parser", err.Error(), "")}
	}
	return []protocol.Diagnostic{newDiagnostic(pe.Position, 1, "power-parser", pe.Message, errors.ErrorSyntax)}
}

// ConvertCompileError transforms a lowering failure into an LSP diagnostic
func ConvertCompileError(err error) []protocol.Diagnostic {
	var ce *errors.CompilerError
	if !goerrors.As(err, &ce) {
		return []protocol.Diagnostic{newDiagnostic(ast.Position{}, 1, "power-compiler", err.Error(), "")}
	}

	message := ce.Message
	for _, s := range ce.Suggestions {
		message += "\n" + s.Message
	}
	return []protocol.Diagnostic{newDiagnostic(ce.Position, ce.Length, "power-compiler", message, ce.Code)}
}

func newDiagnostic(pos ast.Position, length int, source, message, code string) protocol.Diagnostic {
	line, column := 0, 0
	if pos.IsValid() {
		line, column = pos.Line-1, pos.Column-1 // Convert to 0-based indexing
	}
	if length < 1 {
		length = 1
	}

	diagnostic := protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: uint32(line), Character: uint32(column)},
			End:   protocol.Position{Line: uint32(line), Character: uint32(column + length)},
		},
		Severity: ptrSeverity(protocol.DiagnosticSeverityError),
		Source:   ptrString(source),
		Message:  message,
	}
	if code != "" {
		diagnostic.Code = &protocol.IntegerOrString{Value: code}
	}
	return diagnostic
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
