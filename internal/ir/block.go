package ir

// BasicBlock owns an ordered sequence of instructions, the last of
// which must be a terminator (enforced by the verifier, not at
// construction time, since the parser must be able to build a block
// incrementally while its terminator is still a pending forward
// reference target for other blocks). BasicBlock is itself a
// first-class Value of type Label (§3).
type BasicBlock struct {
	valueBase
	Parent       *Function
	Instructions []*Instruction
	// insertCursor supports the builder's PositionAtEnd-oriented
	// insertion API (§3 "for fast insertion, a cursor used by the
	// builder").
	insertCursor int
}

func NewBasicBlock(ctx *Context, name string) *BasicBlock {
	return &BasicBlock{valueBase: valueBase{typ: ctx.LabelType(), name: name}}
}

func (b *BasicBlock) ValueKind() ValueKind { return ValBasicBlock }
func (b *BasicBlock) base() *valueBase     { return &b.valueBase }

// AppendInstruction adds inst to the end of the block and updates its
// parent/cursor.
func (b *BasicBlock) AppendInstruction(inst *Instruction) {
	inst.Parent = b
	b.Instructions = append(b.Instructions, inst)
	b.insertCursor = len(b.Instructions)
}

// Terminator returns the block's terminator instruction, or nil if the
// block is (as yet) unterminated — a legitimate transient state during
// parsing.
func (b *BasicBlock) Terminator() *Instruction {
	if len(b.Instructions) == 0 {
		return nil
	}
	last := b.Instructions[len(b.Instructions)-1]
	if last.Op.IsTerminator() {
		return last
	}
	return nil
}

// Successors returns the blocks this block's terminator can transfer
// control to, or nil if unterminated or the terminator has none (ret,
// unreachable, resume).
func (b *BasicBlock) Successors() []*BasicBlock {
	term := b.Terminator()
	if term == nil {
		return nil
	}
	var out []*BasicBlock
	switch term.Op {
	case OpBr:
		for _, op := range term.Operands {
			if bb, ok := op.(*BasicBlock); ok {
				out = append(out, bb)
			}
		}
	case OpSwitch:
		if bb, ok := term.Operands[1].(*BasicBlock); ok {
			out = append(out, bb)
		}
		for _, c := range term.Cases {
			if bb, ok := term.Operands[c.DestOperand].(*BasicBlock); ok {
				out = append(out, bb)
			}
		}
	case OpIndirectBr:
		for _, op := range term.Operands[1:] {
			if bb, ok := op.(*BasicBlock); ok {
				out = append(out, bb)
			}
		}
	case OpInvoke, OpCallBr:
		for _, op := range term.Operands {
			if bb, ok := op.(*BasicBlock); ok {
				out = append(out, bb)
			}
		}
	case OpCatchSwitch:
		handlerEnd := len(term.Operands)
		if term.UnwindDestOperand >= 0 {
			handlerEnd = term.UnwindDestOperand
		}
		for _, op := range term.Operands[1:handlerEnd] {
			if bb, ok := op.(*BasicBlock); ok {
				out = append(out, bb)
			}
		}
		if bb := term.UnwindDestBlock(); bb != nil {
			out = append(out, bb)
		}
	case OpCleanupRet, OpCatchRet:
		if bb := term.UnwindDestBlock(); bb != nil {
			out = append(out, bb)
		}
	}
	return out
}
