package ir

import (
	"fmt"
	"io"

	llvm "github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"
)

// DefaultStepLimit bounds the number of instructions Run executes, so a
// non-terminating program fails instead of hanging the caller.
const DefaultStepLimit = 10_000_000

// Machine interprets the instruction subset emitted by the compiler. It
// exists so tests and the REPL can observe the exit code main would
// produce without invoking a native toolchain.
type Machine struct {
	module    *Module
	stdout    io.Writer
	stepLimit int

	steps  int
	values map[value.Value]int64
	slots  map[*llvm.InstAlloca]int64
}

// NewMachine creates an interpreter over m writing putchar output to stdout
func NewMachine(m *Module, stdout io.Writer) *Machine {
	return &Machine{
		module:    m,
		stdout:    stdout,
		stepLimit: DefaultStepLimit,
	}
}

// WithStepLimit overrides DefaultStepLimit
func (vm *Machine) WithStepLimit(limit int) *Machine {
	vm.stepLimit = limit
	return vm
}

// Run executes the named function of m and returns its i32 result
func Run(m *Module, entry string, stdout io.Writer) (int32, error) {
	return NewMachine(m, stdout).Run(entry)
}

// Run executes the named parameterless function
func (vm *Machine) Run(entry string) (int32, error) {
	fn := vm.module.Func(entry)
	if fn == nil {
		return 0, fmt.Errorf("function %s not found", entry)
	}
	if len(fn.Blocks) == 0 {
		return 0, fmt.Errorf("function %s has no body", entry)
	}

	vm.steps = 0
	vm.values = make(map[value.Value]int64)
	vm.slots = make(map[*llvm.InstAlloca]int64)

	var prev *llvm.Block
	block := fn.Blocks[0]

	for {
		if err := vm.enter(block, prev); err != nil {
			return 0, err
		}

		for _, inst := range block.Insts {
			if err := vm.step(inst); err != nil {
				return 0, err
			}
		}

		if block.Term == nil {
			return 0, fmt.Errorf("block %s has no terminator", block.Name())
		}
		if err := vm.count(); err != nil {
			return 0, err
		}

		switch term := block.Term.(type) {
		case *llvm.TermRet:
			if term.X == nil {
				return 0, nil
			}
			return int32(vm.operand(term.X)), nil
		case *llvm.TermBr:
			prev, block = block, term.Target.(*llvm.Block)
		case *llvm.TermCondBr:
			prev = block
			if vm.operand(term.Cond) != 0 {
				block = term.TargetTrue.(*llvm.Block)
			} else {
				block = term.TargetFalse.(*llvm.Block)
			}
		default:
			return 0, fmt.Errorf("unsupported terminator %T", term)
		}
	}
}

// enter resolves the phi nodes of block against the edge taken from prev.
// All phis read their inputs before any of them is written.
func (vm *Machine) enter(block, prev *llvm.Block) error {
	resolved := make(map[*llvm.InstPhi]int64)
	for _, inst := range block.Insts {
		phi, ok := inst.(*llvm.InstPhi)
		if !ok {
			continue
		}

		found := false
		for _, inc := range phi.Incs {
			if inc.Pred == prev {
				resolved[phi] = vm.operand(inc.X)
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("phi in block %s has no incoming value for the taken edge", block.Name())
		}
	}

	for phi, v := range resolved {
		vm.values[phi] = v
	}
	return nil
}

func (vm *Machine) count() error {
	vm.steps++
	if vm.stepLimit > 0 && vm.steps > vm.stepLimit {
		return fmt.Errorf("step limit of %d instructions exceeded", vm.stepLimit)
	}
	return nil
}

func (vm *Machine) step(inst llvm.Instruction) error {
	if err := vm.count(); err != nil {
		return err
	}

	switch i := inst.(type) {
	case *llvm.InstPhi:
		// resolved on block entry
	case *llvm.InstAlloca:
		vm.slots[i] = 0
	case *llvm.InstLoad:
		slot, ok := i.Src.(*llvm.InstAlloca)
		if !ok {
			return fmt.Errorf("load from unsupported address %T", i.Src)
		}
		vm.values[i] = vm.slots[slot]
	case *llvm.InstStore:
		slot, ok := i.Dst.(*llvm.InstAlloca)
		if !ok {
			return fmt.Errorf("store to unsupported address %T", i.Dst)
		}
		vm.slots[slot] = vm.operand(i.Src)
	case *llvm.InstAdd:
		vm.values[i] = wrap32(vm.operand(i.X) + vm.operand(i.Y))
	case *llvm.InstSub:
		vm.values[i] = wrap32(vm.operand(i.X) - vm.operand(i.Y))
	case *llvm.InstMul:
		vm.values[i] = wrap32(vm.operand(i.X) * vm.operand(i.Y))
	case *llvm.InstSDiv:
		y := vm.operand(i.Y)
		if y == 0 {
			return fmt.Errorf("integer division by zero")
		}
		vm.values[i] = wrap32(vm.operand(i.X) / y)
	case *llvm.InstSRem:
		y := vm.operand(i.Y)
		if y == 0 {
			return fmt.Errorf("integer remainder by zero")
		}
		vm.values[i] = wrap32(vm.operand(i.X) % y)
	case *llvm.InstShl:
		vm.values[i] = wrap32(vm.operand(i.X) << uint(vm.operand(i.Y)&31))
	case *llvm.InstAShr:
		vm.values[i] = wrap32(vm.operand(i.X) >> uint(vm.operand(i.Y)&31))
	case *llvm.InstAnd:
		vm.values[i] = vm.operand(i.X) & vm.operand(i.Y)
	case *llvm.InstOr:
		vm.values[i] = vm.operand(i.X) | vm.operand(i.Y)
	case *llvm.InstXor:
		vm.values[i] = wrap32(vm.operand(i.X) ^ vm.operand(i.Y))
	case *llvm.InstICmp:
		ok, err := compare(i.Pred, vm.operand(i.X), vm.operand(i.Y))
		if err != nil {
			return err
		}
		vm.values[i] = boolValue(ok)
	case *llvm.InstZExt:
		vm.values[i] = vm.operand(i.From) & 1
	case *llvm.InstSelect:
		if vm.operand(i.Cond) != 0 {
			vm.values[i] = vm.operand(i.ValueTrue)
		} else {
			vm.values[i] = vm.operand(i.ValueFalse)
		}
	case *llvm.InstCall:
		result, err := vm.call(i)
		if err != nil {
			return err
		}
		vm.values[i] = result
	default:
		return fmt.Errorf("unsupported instruction %T", inst)
	}
	return nil
}

func (vm *Machine) call(inst *llvm.InstCall) (int64, error) {
	callee, ok := inst.Callee.(*llvm.Func)
	if !ok {
		return 0, fmt.Errorf("indirect calls are not supported")
	}

	args := make([]int64, len(inst.Args))
	for n, arg := range inst.Args {
		args[n] = vm.operand(arg)
	}

	switch callee.Name() {
	case "putchar":
		if len(args) != 1 {
			return 0, fmt.Errorf("putchar expects 1 argument, got %d", len(args))
		}
		if vm.stdout != nil {
			if _, err := vm.stdout.Write([]byte{byte(args[0])}); err != nil {
				return 0, err
			}
		}
		return args[0], nil
	default:
		return 0, fmt.Errorf("call to unsupported function %s", callee.Name())
	}
}

func (vm *Machine) operand(v value.Value) int64 {
	if c, ok := v.(*constant.Int); ok {
		return c.X.Int64()
	}
	return vm.values[v]
}

func compare(pred enum.IPred, x, y int64) (bool, error) {
	switch pred {
	case enum.IPredEQ:
		return x == y, nil
	case enum.IPredNE:
		return x != y, nil
	case enum.IPredSLT:
		return x < y, nil
	case enum.IPredSLE:
		return x <= y, nil
	case enum.IPredSGT:
		return x > y, nil
	case enum.IPredSGE:
		return x >= y, nil
	default:
		return false, fmt.Errorf("unsupported icmp predicate %s", pred)
	}
}

func wrap32(v int64) int64 {
	return int64(int32(v))
}

func boolValue(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
