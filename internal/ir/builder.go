package ir

import (
	"fmt"

	llvm "github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
)

// Builder is the instruction cursor for one function. At any time it points
// at exactly one basic block of that function; lowering appends there.
type Builder struct {
	fn      *llvm.Func
	block   *llvm.Block
	allocas int
	names   map[string]int
	retired bool
}

// NewBuilder creates a cursor over fn. The cursor has no block until
// PositionAtEnd is called.
func NewBuilder(fn *llvm.Func) *Builder {
	return &Builder{
		fn:    fn,
		names: make(map[string]int),
	}
}

// Func returns the function under construction
func (b *Builder) Func() *llvm.Func { return b.fn }

// Block returns the block new instructions are appended to
func (b *Builder) Block() *llvm.Block { return b.block }

// PositionAtEnd moves the cursor to the end of block
func (b *Builder) PositionAtEnd(block *llvm.Block) {
	b.block = block
}

// Terminated reports whether the current block already has a terminator,
// so no further instruction may be appended to it
func (b *Builder) Terminated() bool {
	return b.block == nil || b.block.Term != nil
}

// AppendBlock adds a new block to the end of the function without moving
// the cursor. Labels are prefix.N, numbered per prefix in creation order.
func (b *Builder) AppendBlock(prefix string) *llvm.Block {
	return b.fn.NewBlock(b.uniqueName(prefix, true))
}

// NewEntryBlock appends the first block of the function and positions the
// cursor on it
func (b *Builder) NewEntryBlock(label string) *llvm.Block {
	block := b.fn.NewBlock(b.uniqueName(label, false))
	b.block = block
	return block
}

// Alloca allocates a stack slot of typ. Slots are hoisted into the entry
// block, after the slots allocated before them, so a declaration inside a
// loop body does not grow the stack on every iteration.
func (b *Builder) Alloca(typ types.Type, name string) *llvm.InstAlloca {
	entry := b.fn.Blocks[0]

	inst := entry.NewAlloca(typ)
	inst.SetName(b.uniqueName(name, false))

	insts := entry.Insts
	copy(insts[b.allocas+1:], insts[b.allocas:len(insts)-1])
	insts[b.allocas] = inst
	b.allocas++

	return inst
}

// Retire detaches the cursor once the function is finished
func (b *Builder) Retire() {
	b.block = nil
	b.retired = true
}

// Retired reports whether Retire was called
func (b *Builder) Retired() bool { return b.retired }

// uniqueName hands out local names. Blocks and values share one LLVM
// namespace, so both go through the same table.
func (b *Builder) uniqueName(base string, numbered bool) string {
	n := b.names[base]
	b.names[base] = n + 1

	if numbered {
		return fmt.Sprintf("%s.%d", base, n)
	}
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s.%d", base, n)
}
