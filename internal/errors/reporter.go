package errors

import (
	goerrors "errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/minsk-dev/power/internal/ast"
)

// ErrorLevel represents the severity of an error
type ErrorLevel string

const (
	Error   ErrorLevel = "error"
	Warning ErrorLevel = "warning"
	Note    ErrorLevel = "note"
	Help    ErrorLevel = "help"
)

// CompilerError represents a structured error with suggestions and context
type CompilerError struct {
	Level       ErrorLevel
	Kind        Kind         // Failure kind, matched by errors.Is
	Code        string       // Error code like E0001
	Message     string       // Primary error message
	Name        string       // Identifier involved, if any
	NodeType    ast.NodeType // Kind of AST node being lowered
	Position    ast.Position // Location in source
	Length      int          // Length of the problematic region
	Suggestions []Suggestion // Suggested fixes
	Notes       []string     // Additional context notes
	HelpText    string       // Help text for the error
}

// Suggestion is a suggested fix. Replacement, when set, is a name that
// replaces the Length bytes at the error position.
type Suggestion struct {
	Message     string
	Replacement string
}

// Reportable is implemented by errors from other layers, such as syntax
// errors, that can be rendered like a CompilerError
type Reportable interface {
	CompilerError() *CompilerError
}

var levelColors = map[ErrorLevel]*color.Color{
	Error:   color.New(color.FgRed, color.Bold),
	Warning: color.New(color.FgYellow, color.Bold),
	Note:    color.New(color.FgBlue, color.Bold),
	Help:    color.New(color.FgGreen, color.Bold),
}

var (
	dim   = color.New(color.Faint).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
	blue  = color.New(color.FgBlue).SprintFunc()
)

const (
	minGutter  = 3 // minimum width for visual alignment
	gutterRule = "│"
)

// ErrorReporter renders diagnostics against one source file
type ErrorReporter struct {
	filename string
	lines    []string
}

// NewErrorReporter creates a new error reporter for a file
func NewErrorReporter(filename, source string) *ErrorReporter {
	return &ErrorReporter{
		filename: filename,
		lines:    strings.Split(source, "\n"),
	}
}

// Format renders any error. CompilerErrors and Reportable errors get source
// context; anything else is a bare message.
func (er *ErrorReporter) Format(err error) string {
	var compileErr *CompilerError
	if goerrors.As(err, &compileErr) {
		return er.FormatError(compileErr)
	}

	var reportable Reportable
	if goerrors.As(err, &reportable) {
		return er.FormatError(reportable.CompilerError())
	}

	return fmt.Sprintf("%s: %s\n\n", levelColor(Error)(string(Error)), err)
}

// FormatError renders err with a header, the offending line between its
// neighbours, an underline, suggestions, notes and help
func (er *ErrorReporter) FormatError(err *CompilerError) string {
	var out strings.Builder

	er.writeHeader(&out, err)

	if !err.Position.IsValid() {
		if err.HelpText != "" {
			fmt.Fprintf(&out, "    %s %s\n", green("help:"), err.HelpText)
		}
		out.WriteString("\n")
		return out.String()
	}

	gutter := er.gutterWidth(err.Position.Line + 1)
	indent := strings.Repeat(" ", gutter)

	fmt.Fprintf(&out, "%s %s %s:%d:%d\n", indent, dim("-->"), er.filename, err.Position.Line, err.Position.Column)
	fmt.Fprintf(&out, "%s %s\n", indent, dim(gutterRule))

	er.writeSnippet(&out, err, gutter)
	er.writeSuggestions(&out, err, gutter)

	for _, note := range err.Notes {
		fmt.Fprintf(&out, "%s %s %s %s\n", indent, dim(gutterRule), blue("note:"), note)
	}
	if err.HelpText != "" {
		fmt.Fprintf(&out, "%s %s %s %s\n", indent, dim(gutterRule), green("help:"), err.HelpText)
	}

	out.WriteString("\n")
	return out.String()
}

// writeHeader prints "error[E0004]: message" and, for lowering failures,
// the kind of node that was being lowered
func (er *ErrorReporter) writeHeader(out *strings.Builder, err *CompilerError) {
	level := levelColor(err.Level)(string(err.Level))
	if err.Code != "" {
		fmt.Fprintf(out, "%s[%s]: %s\n", level, err.Code, err.Message)
	} else {
		fmt.Fprintf(out, "%s: %s\n", level, err.Message)
	}

	if err.NodeType != ast.ILLEGAL && err.Kind != KindSyntax {
		fmt.Fprintf(out, "    %s %s\n", dim("while lowering"), err.NodeType)
	}
}

func (er *ErrorReporter) writeSnippet(out *strings.Builder, err *CompilerError, gutter int) {
	line := err.Position.Line
	indent := strings.Repeat(" ", gutter)

	if text, ok := er.line(line - 1); ok {
		fmt.Fprintf(out, "%s %s %s\n", dim(fmt.Sprintf("%*d", gutter, line-1)), dim(gutterRule), text)
	}

	if text, ok := er.line(line); ok {
		fmt.Fprintf(out, "%s %s %s\n", bold(fmt.Sprintf("%*d", gutter, line)), dim(gutterRule), text)
		fmt.Fprintf(out, "%s %s %s\n", indent, dim(gutterRule), underline(err.Position.Column, err.Length, err.Level))
	}

	if text, ok := er.line(line + 1); ok {
		fmt.Fprintf(out, "%s %s %s\n", dim(fmt.Sprintf("%*d", gutter, line+1)), dim(gutterRule), text)
	}
}

// writeSuggestions lists the fixes; a rename is also shown applied to the
// offending line
func (er *ErrorReporter) writeSuggestions(out *strings.Builder, err *CompilerError, gutter int) {
	if len(err.Suggestions) == 0 {
		return
	}
	indent := strings.Repeat(" ", gutter)

	fmt.Fprintf(out, "%s %s\n", indent, dim(gutterRule))
	for i, s := range err.Suggestions {
		if i == 0 {
			fmt.Fprintf(out, "%s %s %s: %s\n", indent, cyan("help"), cyan("try"), s.Message)
		} else {
			fmt.Fprintf(out, "%s      %s\n", indent, s.Message)
		}

		if fixed, ok := er.applyRename(err, s); ok {
			fmt.Fprintf(out, "%s %s %s\n", cyan(fmt.Sprintf("%*d", gutter, err.Position.Line)), cyan(gutterRule), cyan(fixed))
		}
	}
}

func (er *ErrorReporter) applyRename(err *CompilerError, s Suggestion) (string, bool) {
	if s.Replacement == "" {
		return "", false
	}
	text, ok := er.line(err.Position.Line)
	if !ok {
		return "", false
	}

	start := err.Position.Column - 1
	end := start + err.Length
	if start < 0 || end > len(text) {
		return "", false
	}
	return text[:start] + s.Replacement + text[end:], true
}

// line returns the 1-based source line n
func (er *ErrorReporter) line(n int) (string, bool) {
	if n < 1 || n > len(er.lines) {
		return "", false
	}
	return er.lines[n-1], true
}

func (er *ErrorReporter) gutterWidth(line int) int {
	return max(minGutter, len(fmt.Sprintf("%d", line)))
}

func underline(column, length int, level ErrorLevel) string {
	return strings.Repeat(" ", max(0, column-1)) + levelColor(level)(strings.Repeat("^", max(1, length)))
}

func levelColor(level ErrorLevel) func(...interface{}) string {
	if c, ok := levelColors[level]; ok {
		return c.SprintFunc()
	}
	return levelColors[Error].SprintFunc()
}
