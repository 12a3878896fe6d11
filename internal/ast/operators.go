package ast

// Operator enumerates every unary, binary and assignment operator of the subset.
type Operator int

const (
	ILLEGAL_OP Operator = iota

	// Arithmetic
	ADD
	SUB
	MUL
	DIV
	MOD

	// Bitwise
	SHL
	SHR
	BIT_AND
	BIT_OR
	BIT_XOR
	BIT_NOT

	// Comparison
	EQ
	NE
	STRICT_EQ
	STRICT_NE
	LT
	LE
	GT
	GE

	// Logical
	AND
	OR
	NOT

	// Assignment
	ASSIGN
	ADD_ASSIGN
	SUB_ASSIGN
	MUL_ASSIGN
	DIV_ASSIGN
	MOD_ASSIGN
	SHL_ASSIGN
	SHR_ASSIGN
	AND_ASSIGN
	OR_ASSIGN
	XOR_ASSIGN

	// Update
	INC
	DEC
)

var operatorText = map[Operator]string{
	ADD:        "+",
	SUB:        "-",
	MUL:        "*",
	DIV:        "/",
	MOD:        "%",
	SHL:        "<<",
	SHR:        ">>",
	BIT_AND:    "&",
	BIT_OR:     "|",
	BIT_XOR:    "^",
	BIT_NOT:    "~",
	EQ:         "==",
	NE:         "!=",
	STRICT_EQ:  "===",
	STRICT_NE:  "!==",
	LT:         "<",
	LE:         "<=",
	GT:         ">",
	GE:         ">=",
	AND:        "&&",
	OR:         "||",
	NOT:        "!",
	ASSIGN:     "=",
	ADD_ASSIGN: "+=",
	SUB_ASSIGN: "-=",
	MUL_ASSIGN: "*=",
	DIV_ASSIGN: "/=",
	MOD_ASSIGN: "%=",
	SHL_ASSIGN: "<<=",
	SHR_ASSIGN: ">>=",
	AND_ASSIGN: "&=",
	OR_ASSIGN:  "|=",
	XOR_ASSIGN: "^=",
	INC:        "++",
	DEC:        "--",
}

var operatorsByText = func() map[string]Operator {
	m := make(map[string]Operator, len(operatorText))
	for op, text := range operatorText {
		m[text] = op
	}
	return m
}()

func (op Operator) String() string {
	if s, ok := operatorText[op]; ok {
		return s
	}
	return "?"
}

// LookupOperator maps source text such as "+=" to its Operator.
func LookupOperator(text string) (Operator, bool) {
	op, ok := operatorsByText[text]
	return op, ok
}

// BinaryOf returns the arithmetic operator behind a compound assignment,
// e.g. ADD for ADD_ASSIGN. Plain ASSIGN yields false.
func (op Operator) BinaryOf() (Operator, bool) {
	switch op {
	case ADD_ASSIGN:
		return ADD, true
	case SUB_ASSIGN:
		return SUB, true
	case MUL_ASSIGN:
		return MUL, true
	case DIV_ASSIGN:
		return DIV, true
	case MOD_ASSIGN:
		return MOD, true
	case SHL_ASSIGN:
		return SHL, true
	case SHR_ASSIGN:
		return SHR, true
	case AND_ASSIGN:
		return BIT_AND, true
	case OR_ASSIGN:
		return BIT_OR, true
	case XOR_ASSIGN:
		return BIT_XOR, true
	}
	return ILLEGAL_OP, false
}

func (op Operator) IsComparison() bool {
	switch op {
	case EQ, NE, STRICT_EQ, STRICT_NE, LT, LE, GT, GE:
		return true
	}
	return false
}

func (op Operator) IsLogical() bool {
	return op == AND || op == OR
}
