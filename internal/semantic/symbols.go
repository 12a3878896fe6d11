package semantic

import (
	"sort"

	llvm "github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"

	"github.com/minsk-dev/power/internal/ast"
	"github.com/minsk-dev/power/internal/errors"
)

type SymbolKind int

const (
	SymbolLet SymbolKind = iota
	SymbolConst
	SymbolVar
)

// KindOf maps a declaration keyword to the symbol kind it introduces
func KindOf(kind ast.VarKind) SymbolKind {
	switch kind {
	case ast.Const:
		return SymbolConst
	case ast.Var:
		return SymbolVar
	default:
		return SymbolLet
	}
}

func (k SymbolKind) String() string {
	switch k {
	case SymbolConst:
		return "const"
	case SymbolVar:
		return "var"
	default:
		return "let"
	}
}

// Symbol binds a source name to the stack slot holding its value
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Slot     *llvm.InstAlloca
	Type     types.Type
	Position ast.Position
}

// Mutable reports whether assignments to the symbol are allowed
func (s *Symbol) Mutable() bool {
	return s.Kind != SymbolConst
}

type frame struct {
	symbols map[string]*Symbol
}

// SymbolTable is a stack of scope frames kept in an arena. Frame 0 is the
// function scope. Popping a frame only hides its names; the frame is reset
// and reused by the next push, and the slots its symbols pointed at stay
// valid for the whole function.
type SymbolTable struct {
	frames []*frame
	depth  int
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		frames: []*frame{{symbols: make(map[string]*Symbol)}},
		depth:  1,
	}
}

// Depth returns the number of active frames, 1 for the function scope
func (st *SymbolTable) Depth() int {
	return st.depth
}

// PushScope opens a new innermost frame
func (st *SymbolTable) PushScope() {
	if st.depth < len(st.frames) {
		clear(st.frames[st.depth].symbols)
	} else {
		st.frames = append(st.frames, &frame{symbols: make(map[string]*Symbol)})
	}
	st.depth++
}

// PopScope discards the innermost frame's bindings. The function scope can
// not be popped.
func (st *SymbolTable) PopScope() {
	if st.depth <= 1 {
		panic("semantic: pop of the function scope")
	}
	st.depth--
}

func (st *SymbolTable) top() *frame {
	return st.frames[st.depth-1]
}

// Declare binds sym in the innermost frame.
//
// let and const fail with DuplicateBinding if the innermost frame already
// holds the name. var is function scoped: it binds in frame 0, may be
// redeclared by another var (the existing symbol is returned so its slot is
// reused), and conflicts with a let or const of the same name in any active
// frame.
func (st *SymbolTable) Declare(sym *Symbol) (*Symbol, error) {
	if sym.Kind == SymbolVar {
		return st.declareVar(sym)
	}

	top := st.top()
	if prev, exists := top.symbols[sym.Name]; exists {
		return nil, errors.DuplicateBinding(sym.Name, sym.Position, prev.Position)
	}
	top.symbols[sym.Name] = sym
	return sym, nil
}

func (st *SymbolTable) declareVar(sym *Symbol) (*Symbol, error) {
	for i := st.depth - 1; i >= 0; i-- {
		if prev, exists := st.frames[i].symbols[sym.Name]; exists && prev.Kind != SymbolVar {
			return nil, errors.DuplicateBinding(sym.Name, sym.Position, prev.Position)
		}
	}

	root := st.frames[0]
	if prev, exists := root.symbols[sym.Name]; exists {
		return prev, nil
	}
	root.symbols[sym.Name] = sym
	return sym, nil
}

// Lookup searches innermost to outermost and returns nil if the name is
// not bound in any active frame
func (st *SymbolTable) Lookup(name string) *Symbol {
	for i := st.depth - 1; i >= 0; i-- {
		if symbol, exists := st.frames[i].symbols[name]; exists {
			return symbol
		}
	}
	return nil
}

// LookupLocal searches the innermost frame only
func (st *SymbolTable) LookupLocal(name string) *Symbol {
	if symbol, exists := st.top().symbols[name]; exists {
		return symbol
	}
	return nil
}

// Resolve is Lookup that reports a missing name as UndefinedVariable
func (st *SymbolTable) Resolve(name string, pos ast.Position) (*Symbol, error) {
	if symbol := st.Lookup(name); symbol != nil {
		return symbol, nil
	}
	return nil, errors.UndefinedVariable(name, pos, st.VisibleNames())
}

// VisibleNames lists every name bound in an active frame, sorted
func (st *SymbolTable) VisibleNames() []string {
	seen := make(map[string]bool)
	var names []string
	for i := st.depth - 1; i >= 0; i-- {
		for name := range st.frames[i].symbols {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}
