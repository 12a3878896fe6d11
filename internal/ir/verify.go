package ir

import (
	"fmt"

	llvm "github.com/llir/llvm/ir"
)

// Verify checks that fn is well formed: each block is terminated and
// reachable from entry, and branches stay inside fn.
func Verify(fn *llvm.Func) error {
	if len(fn.Blocks) == 0 {
		return fmt.Errorf("function %s has no body", fn.Name())
	}

	owned := make(map[*llvm.Block]bool, len(fn.Blocks))
	for _, block := range fn.Blocks {
		owned[block] = true
	}

	for _, block := range fn.Blocks {
		if block.Term == nil {
			return fmt.Errorf("function %s: block %s has no terminator", fn.Name(), block.Name())
		}
		for _, succ := range block.Term.Succs() {
			if !owned[succ] {
				return fmt.Errorf("function %s: block %s branches to foreign block %s",
					fn.Name(), block.Name(), succ.Name())
			}
		}
	}

	reachable := make(map[*llvm.Block]bool)
	markReachable(fn.Blocks[0], reachable)

	for _, block := range fn.Blocks {
		if !reachable[block] {
			return fmt.Errorf("function %s: block %s is unreachable", fn.Name(), block.Name())
		}
	}

	return nil
}

// markReachable recursively marks blocks reachable from the given block
func markReachable(block *llvm.Block, reachable map[*llvm.Block]bool) {
	if reachable[block] {
		return
	}
	reachable[block] = true

	if block.Term == nil {
		return
	}
	for _, succ := range block.Term.Succs() {
		markReachable(succ, reachable)
	}
}

// Successors returns the blocks a block may branch to
func Successors(block *llvm.Block) []*llvm.Block {
	if block.Term == nil {
		return nil
	}
	return block.Term.Succs()
}
