package errors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/minsk-dev/power/internal/ast"
)

// Kind identifies a failure independently of its message
type Kind int

const (
	KindUnknown Kind = iota
	KindMissingEntryPoint
	KindUnsupportedConstruct
	KindDuplicateBinding
	KindUndefinedVariable
	KindAssignToConst
	KindUnreachableCode
	KindUnknownFunction
	KindEntryPointRedefined
	KindSyntax
)

var kindNames = map[Kind]string{
	KindMissingEntryPoint:    "MissingEntryPoint",
	KindUnsupportedConstruct: "UnsupportedConstruct",
	KindDuplicateBinding:     "DuplicateBinding",
	KindUndefinedVariable:    "UndefinedVariable",
	KindAssignToConst:        "AssignToConst",
	KindUnreachableCode:      "UnreachableCode",
	KindUnknownFunction:      "UnknownFunction",
	KindEntryPointRedefined:  "EntryPointRedefined",
	KindSyntax:               "Syntax",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Sentinels for errors.Is matching on the failure kind alone.
var (
	ErrMissingEntryPoint    = &CompilerError{Kind: KindMissingEntryPoint}
	ErrUnsupportedConstruct = &CompilerError{Kind: KindUnsupportedConstruct}
	ErrDuplicateBinding     = &CompilerError{Kind: KindDuplicateBinding}
	ErrUndefinedVariable    = &CompilerError{Kind: KindUndefinedVariable}
	ErrAssignToConst        = &CompilerError{Kind: KindAssignToConst}
	ErrUnreachableCode      = &CompilerError{Kind: KindUnreachableCode}
	ErrUnknownFunction      = &CompilerError{Kind: KindUnknownFunction}
	ErrEntryPointRedefined  = &CompilerError{Kind: KindEntryPointRedefined}
	ErrSyntax               = &CompilerError{Kind: KindSyntax}
)

// Error implements the error interface with a one-line "pos: message" form
func (e *CompilerError) Error() string {
	if e.Position.IsValid() {
		return fmt.Sprintf("%s: %s", e.Position, e.Message)
	}
	return e.Message
}

// Is matches another CompilerError of the same kind. A target carrying a
// name also requires the names to agree.
func (e *CompilerError) Is(target error) bool {
	t, ok := target.(*CompilerError)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Name == "" || t.Name == e.Name
}

// CompilerErrorBuilder provides a fluent interface for creating errors with suggestions
type CompilerErrorBuilder struct {
	err CompilerError
}

// NewCompilerError creates a new error builder
func NewCompilerError(kind Kind, code, message string, pos ast.Position) *CompilerErrorBuilder {
	return &CompilerErrorBuilder{
		err: CompilerError{
			Level:    Error,
			Kind:     kind,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// WithName records the identifier the error is about
func (b *CompilerErrorBuilder) WithName(name string) *CompilerErrorBuilder {
	b.err.Name = name
	b.err.Length = max(1, len(name))
	return b
}

// WithNode records the kind of AST node being lowered
func (b *CompilerErrorBuilder) WithNode(node ast.Node) *CompilerErrorBuilder {
	if node != nil {
		b.err.NodeType = node.NodeType()
	}
	return b
}

// WithLength sets the length of the error span
func (b *CompilerErrorBuilder) WithLength(length int) *CompilerErrorBuilder {
	b.err.Length = length
	return b
}

// WithSuggestion adds a suggestion to the error
func (b *CompilerErrorBuilder) WithSuggestion(message string) *CompilerErrorBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

// WithRename adds a suggestion to replace the named identifier with name
func (b *CompilerErrorBuilder) WithRename(message, name string) *CompilerErrorBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message, Replacement: name})
	return b
}

// WithNote adds a note to the error
func (b *CompilerErrorBuilder) WithNote(note string) *CompilerErrorBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

// WithHelp adds help text to the error
func (b *CompilerErrorBuilder) WithHelp(help string) *CompilerErrorBuilder {
	b.err.HelpText = help
	return b
}

// Build returns the completed compiler error
func (b *CompilerErrorBuilder) Build() *CompilerError {
	err := b.err
	return &err
}

// MissingEntryPoint is returned when lowering starts before main exists
func MissingEntryPoint() *CompilerError {
	return NewCompilerError(KindMissingEntryPoint, ErrorMissingEntryPoint, "no main function found", ast.Position{}).
		WithHelp("call CompileMainFunction before Compile").
		Build()
}

// EntryPointRedefined is returned when main is synthesized a second time
func EntryPointRedefined() *CompilerError {
	return NewCompilerError(KindEntryPointRedefined, ErrorEntryPointRedefined, "main function already synthesized", ast.Position{}).
		WithName("main").
		Build()
}

// UnsupportedConstruct reports a recognized form this compiler rejects on purpose
func UnsupportedConstruct(description string, node ast.Node) *CompilerError {
	var pos ast.Position
	if node != nil {
		pos = node.NodePos()
	}
	return NewCompilerError(KindUnsupportedConstruct, ErrorUnsupportedConstruct,
		fmt.Sprintf("unsupported construct: %s", description), pos).
		WithNode(node).
		WithNote(description).
		Build()
}

// DuplicateBinding reports a redeclaration in the same scope
func DuplicateBinding(name string, pos ast.Position, previous ast.Position) *CompilerError {
	builder := NewCompilerError(KindDuplicateBinding, ErrorDuplicateBinding,
		fmt.Sprintf("identifier '%s' has already been declared", name), pos).
		WithName(name).
		WithNode(&ast.Ident{Name: name})

	if previous.IsValid() {
		builder = builder.WithNote(fmt.Sprintf("previous declaration of '%s' at %s", name, previous))
	}
	return builder.WithHelp("declare it in a nested block to shadow it instead").Build()
}

// UndefinedVariable creates an error for undefined variables with suggestions
func UndefinedVariable(name string, pos ast.Position, visible []string) *CompilerError {
	builder := NewCompilerError(KindUndefinedVariable, ErrorUndefinedVariable,
		fmt.Sprintf("undefined variable '%s'", name), pos).
		WithName(name).
		WithNode(&ast.Ident{Name: name})

	similar := FindSimilarNames(name, visible)
	switch len(similar) {
	case 0:
		builder = builder.WithSuggestion("make sure the variable is declared before use").
			WithNote("variables must be declared with 'let', 'const' or 'var'")
	case 1:
		builder = builder.WithRename(fmt.Sprintf("did you mean '%s'?", similar[0]), similar[0])
	default:
		builder = builder.WithSuggestion(fmt.Sprintf("did you mean one of: '%s'?", strings.Join(similar, "', '")))
	}

	return builder.Build()
}

// AssignToConst reports a write to a const binding
func AssignToConst(name string, pos ast.Position, declared ast.Position) *CompilerError {
	builder := NewCompilerError(KindAssignToConst, ErrorAssignToConst,
		fmt.Sprintf("cannot assign to '%s' because it is a constant", name), pos).
		WithName(name).
		WithNode(&ast.AssignExpr{})

	if declared.IsValid() {
		builder = builder.WithNote(fmt.Sprintf("'%s' was declared const at %s", name, declared))
	}
	return builder.WithSuggestion("declare it with 'let' if it needs to change").Build()
}

// UnreachableCode reports a statement following a terminator in the same block
func UnreachableCode(node ast.Node) *CompilerError {
	return NewCompilerError(KindUnreachableCode, ErrorUnreachableCode, "unreachable code", node.NodePos()).
		WithNode(node).
		WithNote("the current block already ended with a return").
		WithHelp("remove the statement or move it before the return").
		Build()
}

// UnknownFunction reports a call to something outside the intrinsic table
func UnknownFunction(name string, pos ast.Position, known []string) *CompilerError {
	builder := NewCompilerError(KindUnknownFunction, ErrorUnknownFunction,
		fmt.Sprintf("unknown function '%s'", name), pos).
		WithName(name).
		WithNode(&ast.CallExpr{})

	if similar := FindSimilarNames(name, known); len(similar) > 0 {
		builder = builder.WithRename(fmt.Sprintf("did you mean '%s'?", similar[0]), similar[0])
	}

	sorted := append([]string(nil), known...)
	sort.Strings(sorted)
	return builder.WithHelp(fmt.Sprintf("only builtin functions can be called: %s", strings.Join(sorted, ", "))).Build()
}

// Syntax wraps a parser failure so the driver can report it uniformly
func Syntax(message string, pos ast.Position) *CompilerError {
	return NewCompilerError(KindSyntax, ErrorSyntax, message, pos).Build()
}

// Driver reports a failure outside the compiler proper, such as a bad mode
func Driver(message string) *CompilerError {
	return NewCompilerError(KindUnknown, ErrorDriver, message, ast.Position{}).Build()
}

// FindSimilarNames returns candidates within edit distance 2 of target
func FindSimilarNames(target string, candidates []string) []string {
	var similar []string

	for _, candidate := range candidates {
		if candidate == target {
			continue
		}
		if levenshteinDistance(target, candidate) <= 2 && len(candidate) > 2 {
			similar = append(similar, candidate)
		}
	}

	return similar
}

// Simple Levenshtein distance implementation for finding similar names
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
	}

	for i := 0; i <= len(a); i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len(b); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}

			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}
