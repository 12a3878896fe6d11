package ir

import (
	"fmt"
	"strings"

	llvm "github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/value"
)

// Printer renders the structural shape of a module: functions, block labels,
// instruction opcodes, successors and constant operands by value. Local value
// names are left out, so two modules compiled from the same program print
// identically even if the backend numbers their temporaries differently.
type Printer struct {
	indent int
	output strings.Builder
}

// NewPrinter creates a new shape printer
func NewPrinter() *Printer {
	return &Printer{indent: 0}
}

// Shape returns the structural dump of a module
func Shape(m *Module) string {
	p := NewPrinter()
	p.printModule(m)
	return p.output.String()
}

// Helper methods

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.output.WriteString("  ")
	}
}

func (p *Printer) writeLine(format string, args ...interface{}) {
	p.writeIndent()
	p.output.WriteString(fmt.Sprintf(format, args...))
	p.output.WriteString("\n")
}

func (p *Printer) printModule(m *Module) {
	p.writeLine("MODULE %s", m.Name())

	for _, fn := range m.LLVM().Funcs {
		if len(fn.Blocks) == 0 {
			p.writeLine("DECLARE %s %s", fn.Name(), fn.Sig.String())
			continue
		}
		p.printFunction(fn)
	}
}

func (p *Printer) printFunction(fn *llvm.Func) {
	p.writeLine("FUNC %s %s", fn.Name(), fn.Sig.String())
	p.indent++
	for _, block := range fn.Blocks {
		p.printBlock(block)
	}
	p.indent--
}

func (p *Printer) printBlock(block *llvm.Block) {
	p.writeLine("%s:", block.Name())
	p.indent++
	for _, inst := range block.Insts {
		p.writeLine("%s", Opcode(inst))
	}
	if block.Term == nil {
		p.writeLine("<unterminated>")
	} else {
		p.writeLine("%s -> [%s]", Opcode(block.Term), p.blockLabels(block.Term.Succs()))
	}
	p.indent--
}

func (p *Printer) blockLabels(blocks []*llvm.Block) string {
	labels := make([]string, len(blocks))
	for i, b := range blocks {
		labels[i] = b.Name()
	}
	return strings.Join(labels, ", ")
}

// Opcode describes an instruction or terminator by its mnemonic followed
// by its constant operands and callee names
func Opcode(inst interface{}) string {
	switch i := inst.(type) {
	case *llvm.InstAlloca:
		return "alloca " + i.ElemType.String()
	case *llvm.InstLoad:
		return "load"
	case *llvm.InstStore:
		return "store" + operands(i.Src)
	case *llvm.InstAdd:
		return "add" + operands(i.X, i.Y)
	case *llvm.InstSub:
		return "sub" + operands(i.X, i.Y)
	case *llvm.InstMul:
		return "mul" + operands(i.X, i.Y)
	case *llvm.InstSDiv:
		return "sdiv" + operands(i.X, i.Y)
	case *llvm.InstSRem:
		return "srem" + operands(i.X, i.Y)
	case *llvm.InstShl:
		return "shl" + operands(i.X, i.Y)
	case *llvm.InstAShr:
		return "ashr" + operands(i.X, i.Y)
	case *llvm.InstAnd:
		return "and" + operands(i.X, i.Y)
	case *llvm.InstOr:
		return "or" + operands(i.X, i.Y)
	case *llvm.InstXor:
		return "xor" + operands(i.X, i.Y)
	case *llvm.InstICmp:
		return "icmp " + i.Pred.String() + operands(i.X, i.Y)
	case *llvm.InstZExt:
		return "zext"
	case *llvm.InstSelect:
		return "select" + operands(i.ValueTrue, i.ValueFalse)
	case *llvm.InstPhi:
		return fmt.Sprintf("phi/%d", len(i.Incs))
	case *llvm.InstCall:
		if callee, ok := i.Callee.(*llvm.Func); ok {
			return "call @" + callee.Name() + operands(i.Args...)
		}
		return "call" + operands(i.Args...)
	case *llvm.TermRet:
		if i.X == nil {
			return "ret void"
		}
		return "ret" + operands(i.X)
	case *llvm.TermBr:
		return "br"
	case *llvm.TermCondBr:
		return "condbr"
	default:
		return fmt.Sprintf("%T", inst)
	}
}

// operands lists constant operands by value and everything else as "_"
func operands(vals ...value.Value) string {
	if len(vals) == 0 {
		return ""
	}

	parts := make([]string, len(vals))
	for i, v := range vals {
		if c, ok := v.(*constant.Int); ok {
			parts[i] = c.X.String()
		} else {
			parts[i] = "_"
		}
	}
	return " " + strings.Join(parts, " ")
}
