package errors

// Error codes for the power compiler
// These codes are used in diagnostics so every failure kind has a stable,
// searchable identifier.
//
// Error code ranges:
// E0001-E0099: Lowering errors
// E0100-E0199: Syntax errors
// E0900-E0999: Driver/tooling errors

const (
	// E0001: compile called before main was synthesized
	ErrorMissingEntryPoint = "E0001"

	// E0002: a recognized but deliberately unsupported construct
	ErrorUnsupportedConstruct = "E0002"

	// E0003: redeclaration within one scope
	ErrorDuplicateBinding = "E0003"

	// E0004: reference to an unresolved identifier
	ErrorUndefinedVariable = "E0004"

	// E0005: mutation of a const binding
	ErrorAssignToConst = "E0005"

	// E0006: statement after a block-terminating statement
	ErrorUnreachableCode = "E0006"

	// E0007: call to a function outside the intrinsic table
	ErrorUnknownFunction = "E0007"

	// E0008: main synthesized twice
	ErrorEntryPointRedefined = "E0008"

	// E0100: source text does not match the grammar
	ErrorSyntax = "E0100"

	// E0900: input could not be read or configuration is invalid
	ErrorDriver = "E0900"
)

// GetErrorDescription returns a short human-readable description for a code
func GetErrorDescription(code string) string {
	switch code {
	case ErrorMissingEntryPoint:
		return "No entry point has been synthesized"
	case ErrorUnsupportedConstruct:
		return "Construct is not supported by this compiler"
	case ErrorDuplicateBinding:
		return "Name is already declared in this scope"
	case ErrorUndefinedVariable:
		return "Variable is not defined"
	case ErrorAssignToConst:
		return "Assignment to a constant binding"
	case ErrorUnreachableCode:
		return "Code is unreachable"
	case ErrorUnknownFunction:
		return "Function is not known"
	case ErrorEntryPointRedefined:
		return "Entry point synthesized more than once"
	case ErrorSyntax:
		return "Syntax error"
	case ErrorDriver:
		return "Driver error"
	default:
		return "Unknown error code"
	}
}

// GetErrorCategory returns the category of the error based on its code
func GetErrorCategory(code string) string {
	switch {
	case code >= "E0001" && code < "E0100":
		return "Lowering"
	case code >= "E0100" && code < "E0200":
		return "Syntax"
	case code >= "E0900" && code < "E1000":
		return "Driver"
	default:
		return "Unknown"
	}
}
