package grammar

import (
	goerrors "errors"
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"

	"github.com/minsk-dev/power/internal/ast"
	"github.com/minsk-dev/power/internal/errors"
)

// Mode selects the goal symbol: a classic script or an ES module
type Mode int

const (
	ModeScript Mode = iota
	ModeModule
)

func (m Mode) String() string {
	if m == ModeModule {
		return "module"
	}
	return "script"
}

// ParseMode maps "script" or "module" to a Mode
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "script":
		return ModeScript, nil
	case "module":
		return ModeModule, nil
	}
	return ModeScript, fmt.Errorf("unknown source mode %q, expected script or module", s)
}

// ParseError is a syntax error with the position it was detected at
type ParseError struct {
	Position ast.Position
	Message  string
}

func (e *ParseError) Error() string {
	if e.Position.IsValid() {
		return fmt.Sprintf("%s: %s", e.Position, e.Message)
	}
	return e.Message
}

// CompilerError converts the syntax error for the diagnostic reporter
func (e *ParseError) CompilerError() *errors.CompilerError {
	return errors.Syntax(e.Message, e.Position)
}

var (
	scriptParser = participle.MustBuild[Script](
		participle.Lexer(PowerLexer),
		participle.Elide("Whitespace", "Comment"),
		participle.UseLookahead(3),
	)
	moduleParser = participle.MustBuild[ModuleBody](
		participle.Lexer(PowerLexer),
		participle.Elide("Whitespace", "Comment"),
		participle.UseLookahead(3),
	)
)

// ParseSource parses source and converts it to an ast.Program
func ParseSource(filename, source string, mode Mode) (ast.Program, error) {
	if mode == ModeModule {
		tree, err := moduleParser.ParseString(filename, source)
		if err != nil {
			return nil, wrapParseError(err)
		}
		return ConvertModule(tree)
	}

	tree, err := scriptParser.ParseString(filename, source)
	if err != nil {
		return nil, wrapParseError(err)
	}
	return ConvertScript(tree)
}

// ParseFile reads and parses the file at path
func ParseFile(path string, mode Mode) (ast.Program, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseSource(path, string(source), mode)
}

func wrapParseError(err error) error {
	var pe participle.Error
	if !goerrors.As(err, &pe) {
		return err
	}
	return &ParseError{Position: convertPos(pe.Position()), Message: pe.Message()}
}
