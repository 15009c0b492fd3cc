// Package builder is the programmatic construction pathway §9 calls
// "Builder vs. parser pathway": it grows the same *ir.Module graph the
// parser produces, one instruction at a time through a cursor
// positioned at a basic block's end, instead of by recursive-descent
// over source text. Grounded on the teacher's MockLLVMBuilder
// (PositionAtEnd plus one CreateXxx method per opcode, §9); the mock's
// string-keyed MockInstruction log is replaced with real
// *ir.Instruction values appended to real *ir.BasicBlock's, so a
// module built through this package and one built by
// internal/parser share the same graph the verifier walks.
package builder

import (
	"strconv"

	"github.com/sokoide/llir/internal/ir"
)

// Builder positions inserts at the end of one basic block at a time,
// matching the teacher's PositionAtEnd cursor model rather than an
// explicit iterator/insertion-point value.
type Builder struct {
	ctx   *ir.Context
	block *ir.BasicBlock
}

// New returns a Builder with no insertion point set; PositionAtEnd must
// be called before any CreateXxx call.
func New(ctx *ir.Context) *Builder {
	return &Builder{ctx: ctx}
}

// PositionAtEnd moves the insertion cursor to the end of block,
// mirroring the teacher's Builder::position_at_end / PositionAtEnd.
func (b *Builder) PositionAtEnd(block *ir.BasicBlock) {
	b.block = block
}

// insert appends inst to the current block and, if it produces a
// first-class result with no explicit name, assigns the next
// anonymous SSA number from the owning function's counter (§8 property
// 2, the same numbering the parser's local-symbol table hands out).
func (b *Builder) insert(inst *ir.Instruction) *ir.Instruction {
	b.block.AppendInstruction(inst)
	if inst.Name() == "" && inst.Type().Kind() != ir.VoidKind && b.block.Parent != nil {
		fn := b.block.Parent
		inst.SetName(strconv.Itoa(fn.NextAnonValueID))
		fn.NextAnonValueID++
	}
	return inst
}
