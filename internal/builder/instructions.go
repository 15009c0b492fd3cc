package builder

import "github.com/sokoide/llir/internal/ir"

func binary(b *Builder, op ir.Opcode, lhs, rhs ir.Value, name string) *ir.Instruction {
	inst := ir.NewInstruction(op, lhs.Type())
	inst.SetName(name)
	inst.AppendOperand(lhs)
	inst.AppendOperand(rhs)
	return b.insert(inst)
}

func (b *Builder) BuildAdd(lhs, rhs ir.Value, name string) *ir.Instruction { return binary(b, ir.OpAdd, lhs, rhs, name) }
func (b *Builder) BuildFAdd(lhs, rhs ir.Value, name string) *ir.Instruction { return binary(b, ir.OpFAdd, lhs, rhs, name) }
func (b *Builder) BuildSub(lhs, rhs ir.Value, name string) *ir.Instruction { return binary(b, ir.OpSub, lhs, rhs, name) }
func (b *Builder) BuildFSub(lhs, rhs ir.Value, name string) *ir.Instruction { return binary(b, ir.OpFSub, lhs, rhs, name) }
func (b *Builder) BuildMul(lhs, rhs ir.Value, name string) *ir.Instruction { return binary(b, ir.OpMul, lhs, rhs, name) }
func (b *Builder) BuildFMul(lhs, rhs ir.Value, name string) *ir.Instruction { return binary(b, ir.OpFMul, lhs, rhs, name) }
func (b *Builder) BuildUDiv(lhs, rhs ir.Value, name string) *ir.Instruction { return binary(b, ir.OpUDiv, lhs, rhs, name) }
func (b *Builder) BuildSDiv(lhs, rhs ir.Value, name string) *ir.Instruction { return binary(b, ir.OpSDiv, lhs, rhs, name) }
func (b *Builder) BuildFDiv(lhs, rhs ir.Value, name string) *ir.Instruction { return binary(b, ir.OpFDiv, lhs, rhs, name) }
func (b *Builder) BuildURem(lhs, rhs ir.Value, name string) *ir.Instruction { return binary(b, ir.OpURem, lhs, rhs, name) }
func (b *Builder) BuildSRem(lhs, rhs ir.Value, name string) *ir.Instruction { return binary(b, ir.OpSRem, lhs, rhs, name) }
func (b *Builder) BuildShl(lhs, rhs ir.Value, name string) *ir.Instruction { return binary(b, ir.OpShl, lhs, rhs, name) }
func (b *Builder) BuildLShr(lhs, rhs ir.Value, name string) *ir.Instruction { return binary(b, ir.OpLShr, lhs, rhs, name) }
func (b *Builder) BuildAShr(lhs, rhs ir.Value, name string) *ir.Instruction { return binary(b, ir.OpAShr, lhs, rhs, name) }
func (b *Builder) BuildAnd(lhs, rhs ir.Value, name string) *ir.Instruction { return binary(b, ir.OpAnd, lhs, rhs, name) }
func (b *Builder) BuildOr(lhs, rhs ir.Value, name string) *ir.Instruction  { return binary(b, ir.OpOr, lhs, rhs, name) }
func (b *Builder) BuildXor(lhs, rhs ir.Value, name string) *ir.Instruction { return binary(b, ir.OpXor, lhs, rhs, name) }

// BuildAlloca emits `alloca <elemType>`, one slot sized for elemType.
func (b *Builder) BuildAlloca(elemType ir.Type, name string) *ir.Instruction {
	inst := ir.NewInstruction(ir.OpAlloca, b.ctx.Pointer(0))
	inst.SetName(name)
	inst.AllocaType = elemType
	return b.insert(inst)
}

// BuildLoad emits `load <t>, ptr <ptr>`.
func (b *Builder) BuildLoad(t ir.Type, ptr ir.Value, name string) *ir.Instruction {
	inst := ir.NewInstruction(ir.OpLoad, t)
	inst.SetName(name)
	inst.AppendOperand(ptr)
	return b.insert(inst)
}

// BuildStore emits `store <value>, ptr <ptr>`; store has no result.
func (b *Builder) BuildStore(value, ptr ir.Value) *ir.Instruction {
	inst := ir.NewInstruction(ir.OpStore, b.ctx.VoidType())
	inst.AppendOperand(value)
	inst.AppendOperand(ptr)
	return b.insert(inst)
}

// BuildGEP emits `getelementptr <elemType>, ptr <ptr>, <indices...>`.
func (b *Builder) BuildGEP(elemType ir.Type, ptr ir.Value, indices []ir.Value, name string) *ir.Instruction {
	inst := ir.NewInstruction(ir.OpGetElementPtr, b.ctx.Pointer(0))
	inst.SetName(name)
	inst.GEPSourceType = elemType
	inst.AppendOperand(ptr)
	for _, idx := range indices {
		inst.AppendOperand(idx)
	}
	return b.insert(inst)
}

// BuildICmp emits `icmp <pred> <lhs>, <rhs>`, producing i1 (or the
// widened vector-of-i1 when lhs is a vector).
func (b *Builder) BuildICmp(pred ir.IntPredicate, lhs, rhs ir.Value, name string) *ir.Instruction {
	inst := ir.NewInstruction(ir.OpICmp, icmpResultType(b.ctx, lhs.Type()))
	inst.SetName(name)
	inst.IntPred = pred
	inst.AppendOperand(lhs)
	inst.AppendOperand(rhs)
	return b.insert(inst)
}

// BuildFCmp emits `fcmp <pred> <lhs>, <rhs>`.
func (b *Builder) BuildFCmp(pred ir.FloatPredicate, lhs, rhs ir.Value, name string) *ir.Instruction {
	inst := ir.NewInstruction(ir.OpFCmp, icmpResultType(b.ctx, lhs.Type()))
	inst.SetName(name)
	inst.FloatPred = pred
	inst.AppendOperand(lhs)
	inst.AppendOperand(rhs)
	return b.insert(inst)
}

func icmpResultType(ctx *ir.Context, operandType ir.Type) ir.Type {
	if vt, ok := operandType.(*ir.VectorType); ok {
		return ctx.Vector(ctx.Integer(1), vt.Len, vt.Scalable)
	}
	return ctx.Integer(1)
}

// BuildSelect emits `select <cond>, <then>, <else>`.
func (b *Builder) BuildSelect(cond, then, els ir.Value, name string) *ir.Instruction {
	inst := ir.NewInstruction(ir.OpSelect, then.Type())
	inst.SetName(name)
	inst.AppendOperand(cond)
	inst.AppendOperand(then)
	inst.AppendOperand(els)
	return b.insert(inst)
}

// BuildPHI starts an empty phi; incoming pairs are added afterward
// with Instruction.AddIncoming since they are commonly only known once
// sibling blocks exist.
func (b *Builder) BuildPHI(t ir.Type, name string) *ir.Instruction {
	inst := ir.NewInstruction(ir.OpPHI, t)
	inst.SetName(name)
	return b.insert(inst)
}

// BuildCall emits a direct call to callee with args.
func (b *Builder) BuildCall(callee *ir.Function, args []ir.Value, name string) *ir.Instruction {
	inst := ir.NewInstruction(ir.OpCall, callee.Sig.Ret)
	inst.SetName(name)
	inst.CallConv = callee.CallConv
	inst.AppendOperand(callee)
	for _, a := range args {
		inst.AppendOperand(a)
	}
	return b.insert(inst)
}

// BuildBr emits an unconditional branch and terminates the current
// block.
func (b *Builder) BuildBr(dest *ir.BasicBlock) *ir.Instruction {
	inst := ir.NewInstruction(ir.OpBr, b.ctx.VoidType())
	inst.AppendOperand(dest)
	return b.insert(inst)
}

// BuildCondBr emits a conditional branch and terminates the current
// block.
func (b *Builder) BuildCondBr(cond ir.Value, then, els *ir.BasicBlock) *ir.Instruction {
	inst := ir.NewInstruction(ir.OpBr, b.ctx.VoidType())
	inst.AppendOperand(cond)
	inst.AppendOperand(then)
	inst.AppendOperand(els)
	return b.insert(inst)
}

// BuildRet emits `ret <type> <value>` and terminates the current
// block.
func (b *Builder) BuildRet(value ir.Value) *ir.Instruction {
	inst := ir.NewInstruction(ir.OpRet, b.ctx.VoidType())
	inst.AppendOperand(value)
	return b.insert(inst)
}

// BuildRetVoid emits `ret void` and terminates the current block.
func (b *Builder) BuildRetVoid() *ir.Instruction {
	inst := ir.NewInstruction(ir.OpRet, b.ctx.VoidType())
	return b.insert(inst)
}

// BuildUnreachable emits `unreachable` and terminates the current
// block.
func (b *Builder) BuildUnreachable() *ir.Instruction {
	inst := ir.NewInstruction(ir.OpUnreachable, b.ctx.VoidType())
	return b.insert(inst)
}
