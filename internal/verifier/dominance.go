package verifier

import "github.com/sokoide/llir/internal/ir"

// computeDominators returns, for every block reachable from fn's entry
// block, its immediate dominator (the entry block is its own immediate
// dominator, the usual sentinel). Unreachable blocks are absent from
// the result. Uses the iterative Cooper/Harvey/Kennedy algorithm over a
// reverse-postorder block numbering, the standard fixed-point
// dominance computation — no dominator-tree library is part of the
// example corpus, so this is hand-written rather than adapted from a
// teacher file (see DESIGN.md).
func computeDominators(fn *ir.Function) map[*ir.BasicBlock]*ir.BasicBlock {
	if len(fn.Blocks) == 0 {
		return nil
	}
	entry := fn.Blocks[0]
	order := reversePostOrder(entry)
	index := make(map[*ir.BasicBlock]int, len(order))
	for i, b := range order {
		index[b] = i
	}
	preds := predecessorMap(fn)

	idom := map[*ir.BasicBlock]*ir.BasicBlock{entry: entry}
	changed := true
	for changed {
		changed = false
		for _, b := range order {
			if b == entry {
				continue
			}
			var newIdom *ir.BasicBlock
			for _, p := range preds[b] {
				if idom[p] == nil {
					continue
				}
				if newIdom == nil {
					newIdom = p
					continue
				}
				newIdom = intersect(newIdom, p, idom, index)
			}
			if newIdom != nil && idom[b] != newIdom {
				idom[b] = newIdom
				changed = true
			}
		}
	}
	return idom
}

func intersect(a, b *ir.BasicBlock, idom map[*ir.BasicBlock]*ir.BasicBlock, index map[*ir.BasicBlock]int) *ir.BasicBlock {
	for a != b {
		for index[a] > index[b] {
			a = idom[a]
		}
		for index[b] > index[a] {
			b = idom[b]
		}
	}
	return a
}

func reversePostOrder(entry *ir.BasicBlock) []*ir.BasicBlock {
	visited := map[*ir.BasicBlock]bool{}
	var post []*ir.BasicBlock
	var visit func(b *ir.BasicBlock)
	visit = func(b *ir.BasicBlock) {
		if visited[b] {
			return
		}
		visited[b] = true
		for _, s := range b.Successors() {
			visit(s)
		}
		post = append(post, b)
	}
	visit(entry)
	out := make([]*ir.BasicBlock, len(post))
	for i, b := range post {
		out[len(post)-1-i] = b
	}
	return out
}

func predecessorMap(fn *ir.Function) map[*ir.BasicBlock][]*ir.BasicBlock {
	preds := map[*ir.BasicBlock][]*ir.BasicBlock{}
	for _, b := range fn.Blocks {
		for _, s := range b.Successors() {
			preds[s] = append(preds[s], b)
		}
	}
	return preds
}

// dominates reports whether def dominates use, given use's function's
// immediate-dominator map. A block not present in idom is unreachable
// from the entry block and is conservatively treated as dominated by
// nothing.
func dominates(def, use *ir.BasicBlock, idom map[*ir.BasicBlock]*ir.BasicBlock) bool {
	if def == use {
		return true
	}
	b := use
	for {
		d, ok := idom[b]
		if !ok {
			return false
		}
		if d == def {
			return true
		}
		if d == b {
			return false // reached the entry block's self-loop sentinel
		}
		b = d
	}
}

// verifyDominance enforces "every use of an SSA value is dominated by
// its definition (or is a phi incoming along that edge)" (§4.4).
// Constants, arguments, globals and functions always dominate every
// use; only Instruction-defined values are checked.
func (v *verifier) verifyDominance(fn *ir.Function, idom map[*ir.BasicBlock]*ir.BasicBlock) {
	posInBlock := map[*ir.Instruction]int{}
	blockOf := map[*ir.Instruction]*ir.BasicBlock{}
	for _, b := range fn.Blocks {
		for i, inst := range b.Instructions {
			posInBlock[inst] = i
			blockOf[inst] = b
		}
	}

	checkUse := func(useInst *ir.Instruction, useBlock *ir.BasicBlock, val ir.Value, predBlock *ir.BasicBlock) {
		defInst, ok := val.(*ir.Instruction)
		if !ok {
			return
		}
		defBlock, known := blockOf[defInst]
		if !known {
			return
		}
		if predBlock != nil {
			if defBlock == predBlock {
				return
			}
			if !dominates(defBlock, predBlock, idom) {
				v.report("dominance", instLoc(fn, useInst),
					"phi incoming value %s does not dominate predecessor %%%s", opName(defInst), predBlock.Name())
			}
			return
		}
		if defBlock == useBlock {
			if posInBlock[defInst] >= posInBlock[useInst] {
				v.report("dominance", instLoc(fn, useInst),
					"use of %s precedes its definition in block %%%s", opName(defInst), useBlock.Name())
			}
			return
		}
		if !dominates(defBlock, useBlock, idom) {
			v.report("dominance", instLoc(fn, useInst),
				"use of %s is not dominated by its definition", opName(defInst))
		}
	}

	for _, b := range fn.Blocks {
		if _, reachable := idom[b]; !reachable {
			continue // unreachable block; dominance is undefined, nothing to check
		}
		for _, inst := range b.Instructions {
			if inst.Op == ir.OpPHI {
				for _, inc := range inst.PHIIncomings() {
					if inc.Block != nil {
						checkUse(inst, b, inc.Value, inc.Block)
					}
				}
				continue
			}
			for _, op := range inst.Operands {
				checkUse(inst, b, op, nil)
			}
		}
	}
}
