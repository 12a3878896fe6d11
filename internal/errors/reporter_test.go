package errors

import (
	goerrors "errors"
	"fmt"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/minsk-dev/power/internal/ast"
)

func init() {
	color.NoColor = true
}

func TestErrorReporter(t *testing.T) {
	source := `let counter = 1;
let total = countr + 1;
return total;`

	reporter := NewErrorReporter("test.js", source)

	err := UndefinedVariable("countr", ast.Position{Line: 2, Column: 13}, []string{"counter", "total"})
	formatted := reporter.FormatError(err)

	assert.Contains(t, formatted, "error["+ErrorUndefinedVariable+"]")
	assert.Contains(t, formatted, "undefined variable 'countr'")
	assert.Contains(t, formatted, "test.js:2:13")
	assert.Contains(t, formatted, "let total = countr + 1;")
	assert.Contains(t, formatted, "did you mean 'counter'?")
	assert.Contains(t, formatted, "^^^^^^")
	assert.Contains(t, formatted, "let total = counter + 1;")
	assert.Contains(t, formatted, "while lowering")
}

func TestRenameOutsideLineIsSkipped(t *testing.T) {
	reporter := NewErrorReporter("test.js", "x;")
	err := UnknownFunction("mx", ast.Position{Line: 1, Column: 40}, []string{"max"})
	formatted := reporter.FormatError(err)

	assert.Contains(t, formatted, "did you mean 'max'?")
	assert.NotContains(t, formatted, "max;")
}

func TestFormatWithoutPosition(t *testing.T) {
	reporter := NewErrorReporter("test.js", "return 0;")

	formatted := reporter.Format(MissingEntryPoint())
	assert.Contains(t, formatted, "error["+ErrorMissingEntryPoint+"]")
	assert.Contains(t, formatted, "CompileMainFunction")
	assert.NotContains(t, formatted, "-->")
}

func TestFormatPlainError(t *testing.T) {
	reporter := NewErrorReporter("test.js", "")
	formatted := reporter.Format(fmt.Errorf("disk on fire"))
	assert.Contains(t, formatted, "error: disk on fire")
}

func TestFormatWrappedCompilerError(t *testing.T) {
	reporter := NewErrorReporter("test.js", "x = 1;")
	wrapped := fmt.Errorf("compile: %w", UndefinedVariable("x", ast.Position{Line: 1, Column: 1}, nil))
	formatted := reporter.Format(wrapped)
	assert.Contains(t, formatted, "error["+ErrorUndefinedVariable+"]")
	assert.Contains(t, formatted, "test.js:1:1")
}

func TestErrorKindsMatchSentinels(t *testing.T) {
	pos := ast.Position{Line: 1, Column: 1}

	tests := []struct {
		err      error
		sentinel error
	}{
		{MissingEntryPoint(), ErrMissingEntryPoint},
		{UnsupportedConstruct("module declaration", &ast.ModuleDecl{Pos: pos}), ErrUnsupportedConstruct},
		{DuplicateBinding("x", pos, pos), ErrDuplicateBinding},
		{UndefinedVariable("x", pos, nil), ErrUndefinedVariable},
		{AssignToConst("x", pos, pos), ErrAssignToConst},
		{UnreachableCode(&ast.ReturnStmt{Pos: pos}), ErrUnreachableCode},
		{UnknownFunction("foo", pos, []string{"abs"}), ErrUnknownFunction},
		{EntryPointRedefined(), ErrEntryPointRedefined},
	}

	for _, tt := range tests {
		assert.True(t, goerrors.Is(tt.err, tt.sentinel), "%v should match its sentinel", tt.err)
		assert.False(t, goerrors.Is(tt.err, ErrSyntax), "%v should not match ErrSyntax", tt.err)
	}
}

func TestIsMatchesName(t *testing.T) {
	err := UndefinedVariable("x", ast.Position{Line: 1, Column: 1}, nil)
	assert.True(t, goerrors.Is(err, &CompilerError{Kind: KindUndefinedVariable, Name: "x"}))
	assert.False(t, goerrors.Is(err, &CompilerError{Kind: KindUndefinedVariable, Name: "y"}))
}

func TestUnsupportedConstructCarriesNodeType(t *testing.T) {
	decl := &ast.ModuleDecl{Pos: ast.Position{Line: 3, Column: 1}, Kind: ast.Import}
	err := UnsupportedConstruct("module declaration", decl)

	assert.Equal(t, ast.MODULE_DECL, err.NodeType)
	assert.Equal(t, 3, err.Position.Line)
	assert.Equal(t, "3:1: unsupported construct: module declaration", err.Error())
}

func TestUnknownFunctionListsBuiltins(t *testing.T) {
	err := UnknownFunction("mx", ast.Position{Line: 1, Column: 1}, []string{"max", "min", "abs"})
	require.NotEmpty(t, err.Suggestions)
	assert.Equal(t, "did you mean 'max'?", err.Suggestions[0].Message)
	assert.Contains(t, err.HelpText, "abs, max, min")
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("hello", "hello"))
	assert.Equal(t, 1, levenshteinDistance("hello", "hallo"))
	assert.Equal(t, 1, levenshteinDistance("hello", "helo"))
	assert.Equal(t, 5, levenshteinDistance("hello", ""))
	assert.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
}

func TestSimilarNameFinding(t *testing.T) {
	candidates := []string{"balance", "amount", "total", "balanceOf", "xyz"}

	similar := FindSimilarNames("balace", candidates)
	assert.Contains(t, similar, "balance")
	assert.NotContains(t, similar, "xyz")

	similar = FindSimilarNames("verydifferent", candidates)
	assert.Empty(t, similar)
}

func TestErrorCategories(t *testing.T) {
	assert.Equal(t, "Lowering", GetErrorCategory(ErrorUnreachableCode))
	assert.Equal(t, "Syntax", GetErrorCategory(ErrorSyntax))
	assert.Equal(t, "Driver", GetErrorCategory(ErrorDriver))
	assert.Equal(t, "Code is unreachable", GetErrorDescription(ErrorUnreachableCode))
}
