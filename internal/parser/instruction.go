package parser

import (
	"github.com/sokoide/llir/internal/ir"
	"github.com/sokoide/llir/internal/lexer"
)

// parseInstruction parses one instruction inside a basic block (§4.3
// "Instruction grammar"): an optional `%name =` result prefix, then an
// opcode-keyword dispatch into one of the opcode-specific state
// machines below. The built instruction is appended to bb before this
// function returns, so a later operand reference back to it (not legal
// in straight-line code but harmless for phi nodes referencing the
// block) sees a fully linked value.
func (p *Parser) parseInstruction(bb *ir.BasicBlock) error {
	resultName := ""
	hasResult := false
	if p.at(lexer.TokLocalVar) && p.peek.Type == lexer.TokEquals {
		resultName = p.cur.Value
		p.advance()
		p.advance()
		hasResult = true
	}

	if !p.at(lexer.TokKeyword) {
		return p.errf("expected instruction opcode, got %s %q", p.cur.Type, p.cur.Value)
	}

	inst, err := p.dispatchOpcode(bb)
	if err != nil {
		return err
	}
	bb.AppendInstruction(inst)

	if inst.Type().Equals(p.ctx.VoidType()) {
		return nil
	}
	name := resultName
	if !hasResult {
		name = p.nextAnonName()
	}
	inst.SetName(name)
	return p.defineLocal(name, inst)
}

func (p *Parser) dispatchOpcode(bb *ir.BasicBlock) (*ir.Instruction, error) {
	switch {
	case p.atKeyword("ret"):
		return p.parseRet()
	case p.atKeyword("br"):
		return p.parseBr()
	case p.atKeyword("switch"):
		return p.parseSwitch()
	case p.atKeyword("indirectbr"):
		return p.parseIndirectBr()
	case p.atKeyword("invoke"):
		return p.parseInvoke()
	case p.atKeyword("callbr"):
		return p.parseCallBr()
	case p.atKeyword("resume"):
		return p.parseResume()
	case p.atKeyword("unreachable"):
		p.advance()
		return ir.NewInstruction(ir.OpUnreachable, p.ctx.VoidType()), nil
	case p.atKeyword("cleanupret"):
		return p.parseCleanupRet()
	case p.atKeyword("catchret"):
		return p.parseCatchRet()
	case p.atKeyword("catchswitch"):
		return p.parseCatchSwitch()
	case p.atKeyword("catchpad"):
		return p.parseCatchPad()
	case p.atKeyword("cleanuppad"):
		return p.parseCleanupPad()
	case p.atKeyword("landingpad"):
		return p.parseLandingPad()
	case p.atKeyword("alloca"):
		return p.parseAlloca()
	case p.atKeyword("load"):
		return p.parseLoad()
	case p.atKeyword("store"):
		return p.parseStore()
	case p.atKeyword("fence"):
		return p.parseFence()
	case p.atKeyword("cmpxchg"):
		return p.parseCmpXchg()
	case p.atKeyword("atomicrmw"):
		return p.parseAtomicRMW()
	case p.atKeyword("getelementptr"):
		return p.parseGEP()
	case p.atKeyword("icmp"):
		return p.parseICmp()
	case p.atKeyword("fcmp"):
		return p.parseFCmp()
	case p.atKeyword("phi"):
		return p.parsePhi()
	case p.atKeyword("select"):
		return p.parseSelect()
	case p.atKeyword("call"), p.atKeyword("tail"), p.atKeyword("musttail"), p.atKeyword("notail"):
		return p.parseCall()
	case p.atKeyword("va_arg"):
		return p.parseVAArg()
	case p.atKeyword("extractvalue"):
		return p.parseExtractValue()
	case p.atKeyword("insertvalue"):
		return p.parseInsertValue()
	case p.atKeyword("extractelement"):
		return p.parseExtractElement()
	case p.atKeyword("insertelement"):
		return p.parseInsertElement()
	case p.atKeyword("shufflevector"):
		return p.parseShuffleVector()
	default:
		if _, ok := binaryOps[p.cur.Value]; ok {
			return p.parseBinOp()
		}
		if _, ok := castOps[p.cur.Value]; ok {
			return p.parseCast()
		}
		return nil, p.errf("unknown opcode %q", p.cur.Value)
	}
}

var binaryOps = map[string]ir.Opcode{
	"add": ir.OpAdd, "fadd": ir.OpFAdd, "sub": ir.OpSub, "fsub": ir.OpFSub,
	"mul": ir.OpMul, "fmul": ir.OpFMul, "udiv": ir.OpUDiv, "sdiv": ir.OpSDiv,
	"fdiv": ir.OpFDiv, "urem": ir.OpURem, "srem": ir.OpSRem, "frem": ir.OpFRem,
	"shl": ir.OpShl, "lshr": ir.OpLShr, "ashr": ir.OpAShr, "and": ir.OpAnd,
	"or": ir.OpOr, "xor": ir.OpXor,
}

var castOps = map[string]ir.Opcode{
	"trunc": ir.OpTrunc, "zext": ir.OpZExt, "sext": ir.OpSExt,
	"fptrunc": ir.OpFPTrunc, "fpext": ir.OpFPExt, "fptoui": ir.OpFPToUI,
	"fptosi": ir.OpFPToSI, "uitofp": ir.OpUIToFP, "sitofp": ir.OpSIToFP,
	"ptrtoint": ir.OpPtrToInt, "inttoptr": ir.OpIntToPtr, "bitcast": ir.OpBitCast,
	"addrspacecast": ir.OpAddrSpaceCast,
}

// parseTypedValue parses `<type> <value>` where value is a local
// reference, a global reference, or a constant literal — the single
// most common operand shape in the instruction grammar.
func (p *Parser) parseTypedValue() (ir.Type, ir.Value, error) {
	t, err := p.parseType()
	if err != nil {
		return nil, nil, err
	}
	v, err := p.parseValueOfType(t)
	if err != nil {
		return nil, nil, err
	}
	return t, v, nil
}

func (p *Parser) parseValueOfType(t ir.Type) (ir.Value, error) {
	if p.at(lexer.TokLocalVar) {
		name := p.cur.Value
		p.advance()
		return p.useLocal(name, t), nil
	}
	if t.Equals(p.ctx.MetadataTy()) {
		return p.parseMetadataValue(t)
	}
	return p.parseConstant(t)
}

// parseLabelOperand parses `label %name`, returning either the already
// bound *ir.BasicBlock or a typed forward-reference placeholder that
// will be rewritten once the block is reached (§4.3 "Forward
// references").
func (p *Parser) parseLabelOperand() (ir.Value, error) {
	if err := p.expectKeyword("label"); err != nil {
		return nil, err
	}
	tok, err := p.expect(lexer.TokLocalVar)
	if err != nil {
		return nil, err
	}
	return p.useLocal(tok.Value, p.ctx.LabelType()), nil
}

// parseFastMathFlags consumes zero or more of `fast`/`nnan`/`ninf`/
// `nsz`/`arcp`/`contract`/`afn`/`reassoc`.
func (p *Parser) parseFastMathFlags() ir.FastMathFlags {
	var flags ir.FastMathFlags
	for p.at(lexer.TokKeyword) {
		switch p.cur.Value {
		case "fast":
			flags |= ir.FMFFast
		case "nnan":
			flags |= ir.FMFNNaN
		case "ninf":
			flags |= ir.FMFNInf
		case "nsz":
			flags |= ir.FMFNSZ
		case "arcp":
			flags |= ir.FMFArcp
		case "contract":
			flags |= ir.FMFContract
		case "afn":
			flags |= ir.FMFAFN
		case "reassoc":
			flags |= ir.FMFReassoc
		default:
			return flags
		}
		p.advance()
	}
	return flags
}

// parseOverflowExactFlags consumes and discards `nuw`/`nsw`/`exact`
// qualifiers; this front end tracks operand types and values but not
// poison-on-overflow semantics, so the flags are accepted for grammar
// compatibility and dropped rather than stored.
func (p *Parser) parseOverflowExactFlags() {
	for p.atKeyword("nuw") || p.atKeyword("nsw") || p.atKeyword("exact") {
		p.advance()
	}
}

func (p *Parser) parseSyncScope() string {
	if !p.atKeyword("syncscope") {
		return ""
	}
	p.advance()
	if _, err := p.expect(lexer.TokLParen); err != nil {
		return ""
	}
	s, err := p.expect(lexer.TokStringLit)
	if err != nil {
		return ""
	}
	p.expect(lexer.TokRParen)
	return s.Value
}

var orderingKeywords = map[string]ir.AtomicOrdering{
	"unordered": ir.OrderUnordered, "monotonic": ir.OrderMonotonic,
	"acquire": ir.OrderAcquire, "release": ir.OrderRelease,
	"acq_rel": ir.OrderAcqRel, "seq_cst": ir.OrderSeqCst,
}

func (p *Parser) parseOrdering() (ir.AtomicOrdering, bool) {
	if p.at(lexer.TokKeyword) {
		if o, ok := orderingKeywords[p.cur.Value]; ok {
			p.advance()
			return o, true
		}
	}
	return ir.OrderNotAtomic, false
}

// parseTrailingClauses consumes the order-insensitive
// trailing clause run `[, align N] [, addrspace(N)] [, !meta !N]*` that
// alloca/load/store/... all share (§4.3 "Order of trailing clauses...
// is not fixed; any subset may appear, each at most once").
func (p *Parser) parseTrailingClauses(mem *ir.MemInfo, metaOut *map[string]*ir.MDNode) error {
	for p.at(lexer.TokComma) {
		p.advance()
		switch {
		case p.atKeyword("align"):
			p.advance()
			n, err := p.expectIntLit()
			if err != nil {
				return err
			}
			if mem != nil {
				mem.Align = uint32(n)
			}
		case p.atKeyword("addrspace"):
			p.advance()
			if _, err := p.expect(lexer.TokLParen); err != nil {
				return err
			}
			n, err := p.expectIntLit()
			if err != nil {
				return err
			}
			if _, err := p.expect(lexer.TokRParen); err != nil {
				return err
			}
			if mem != nil {
				mem.AddrSpace = uint32(n)
				mem.HasAddrSpace = true
			}
		case p.at(lexer.TokMetadataVar) && !p.cur.IsNumericName:
			k, node, err := p.parseMetadataAttachment()
			if err != nil {
				return err
			}
			if *metaOut == nil {
				*metaOut = map[string]*ir.MDNode{}
			}
			(*metaOut)[k] = node
		default:
			return p.errf("unexpected trailing clause %q", p.cur.Value)
		}
	}
	return nil
}

// ---- Terminators ----

func (p *Parser) parseRet() (*ir.Instruction, error) {
	p.advance()
	inst := ir.NewInstruction(ir.OpRet, p.ctx.VoidType())
	if p.atKeyword("void") {
		p.advance()
		return inst, nil
	}
	_, v, err := p.parseTypedValue()
	if err != nil {
		return nil, err
	}
	inst.AppendOperand(v)
	return inst, nil
}

func (p *Parser) parseBr() (*ir.Instruction, error) {
	p.advance()
	inst := ir.NewInstruction(ir.OpBr, p.ctx.VoidType())
	if p.atKeyword("label") {
		dest, err := p.parseLabelOperand()
		if err != nil {
			return nil, err
		}
		inst.AppendOperand(dest)
		return inst, nil
	}
	_, cond, err := p.parseTypedValue()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokComma); err != nil {
		return nil, err
	}
	trueDest, err := p.parseLabelOperand()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokComma); err != nil {
		return nil, err
	}
	falseDest, err := p.parseLabelOperand()
	if err != nil {
		return nil, err
	}
	inst.AppendOperand(cond)
	inst.AppendOperand(trueDest)
	inst.AppendOperand(falseDest)
	return inst, nil
}

func (p *Parser) parseSwitch() (*ir.Instruction, error) {
	p.advance()
	inst := ir.NewInstruction(ir.OpSwitch, p.ctx.VoidType())
	_, cond, err := p.parseTypedValue()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokComma); err != nil {
		return nil, err
	}
	def, err := p.parseLabelOperand()
	if err != nil {
		return nil, err
	}
	inst.AppendOperand(cond)
	inst.AppendOperand(def)
	if _, err := p.expect(lexer.TokLBracket); err != nil {
		return nil, err
	}
	for !p.at(lexer.TokRBracket) {
		_, caseVal, err := p.parseTypedValue()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokComma); err != nil {
			return nil, err
		}
		dest, err := p.parseLabelOperand()
		if err != nil {
			return nil, err
		}
		valIdx := len(inst.Operands)
		inst.AppendOperand(caseVal)
		destIdx := len(inst.Operands)
		inst.AppendOperand(dest)
		inst.Cases = append(inst.Cases, ir.SwitchCase{ValOperand: valIdx, DestOperand: destIdx})
	}
	if _, err := p.expect(lexer.TokRBracket); err != nil {
		return nil, err
	}
	return inst, nil
}

func (p *Parser) parseIndirectBr() (*ir.Instruction, error) {
	p.advance()
	inst := ir.NewInstruction(ir.OpIndirectBr, p.ctx.VoidType())
	_, addr, err := p.parseTypedValue()
	if err != nil {
		return nil, err
	}
	inst.AppendOperand(addr)
	if _, err := p.expect(lexer.TokComma); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokLBracket); err != nil {
		return nil, err
	}
	for !p.at(lexer.TokRBracket) {
		dest, err := p.parseLabelOperand()
		if err != nil {
			return nil, err
		}
		inst.AppendOperand(dest)
		if p.at(lexer.TokComma) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.TokRBracket); err != nil {
		return nil, err
	}
	return inst, nil
}

func (p *Parser) parseResume() (*ir.Instruction, error) {
	p.advance()
	inst := ir.NewInstruction(ir.OpResume, p.ctx.VoidType())
	_, v, err := p.parseTypedValue()
	if err != nil {
		return nil, err
	}
	inst.AppendOperand(v)
	return inst, nil
}

// parseUnwindDest parses the shared `unwind to caller | unwind label
// %x` suffix used by cleanupret/catchswitch.
func (p *Parser) parseUnwindDest() (dest ir.Value, toCaller bool, err error) {
	if err := p.expectKeyword("unwind"); err != nil {
		return nil, false, err
	}
	if p.atKeyword("to") {
		p.advance()
		if err := p.expectKeyword("caller"); err != nil {
			return nil, false, err
		}
		return nil, true, nil
	}
	d, err := p.parseLabelOperand()
	return d, false, err
}

func (p *Parser) parseCleanupRet() (*ir.Instruction, error) {
	p.advance()
	inst := ir.NewInstruction(ir.OpCleanupRet, p.ctx.VoidType())
	if err := p.expectKeyword("from"); err != nil {
		return nil, err
	}
	padTok, err := p.expect(lexer.TokLocalVar)
	if err != nil {
		return nil, err
	}
	inst.AppendOperand(p.useLocal(padTok.Value, p.ctx.TokenTy()))
	if _, err := p.expect(lexer.TokComma); err != nil {
		return nil, err
	}
	dest, toCaller, err := p.parseUnwindDest()
	if err != nil {
		return nil, err
	}
	inst.ToCaller = toCaller
	if !toCaller {
		inst.UnwindDestOperand = len(inst.Operands)
		inst.AppendOperand(dest)
	}
	return inst, nil
}

func (p *Parser) parseCatchRet() (*ir.Instruction, error) {
	p.advance()
	inst := ir.NewInstruction(ir.OpCatchRet, p.ctx.VoidType())
	if err := p.expectKeyword("from"); err != nil {
		return nil, err
	}
	padTok, err := p.expect(lexer.TokLocalVar)
	if err != nil {
		return nil, err
	}
	inst.AppendOperand(p.useLocal(padTok.Value, p.ctx.TokenTy()))
	if _, err := p.expect(lexer.TokComma); err != nil {
		return nil, err
	}
	dest, err := p.parseLabelOperand()
	if err != nil {
		return nil, err
	}
	inst.UnwindDestOperand = len(inst.Operands)
	inst.AppendOperand(dest)
	return inst, nil
}

func (p *Parser) parseCatchSwitch() (*ir.Instruction, error) {
	p.advance()
	inst := ir.NewInstruction(ir.OpCatchSwitch, p.ctx.TokenTy())
	if err := p.expectKeyword("within"); err != nil {
		return nil, err
	}
	if p.atKeyword("none") {
		p.advance()
		inst.AppendOperand(ir.NewConstantNull(p.ctx.TokenTy()))
	} else {
		tok, err := p.expect(lexer.TokLocalVar)
		if err != nil {
			return nil, err
		}
		inst.AppendOperand(p.useLocal(tok.Value, p.ctx.TokenTy()))
	}
	if _, err := p.expect(lexer.TokLBracket); err != nil {
		return nil, err
	}
	for !p.at(lexer.TokRBracket) {
		dest, err := p.parseLabelOperand()
		if err != nil {
			return nil, err
		}
		inst.AppendOperand(dest)
		if p.at(lexer.TokComma) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.TokRBracket); err != nil {
		return nil, err
	}
	dest, toCaller, err := p.parseUnwindDest()
	if err != nil {
		return nil, err
	}
	inst.ToCaller = toCaller
	if !toCaller {
		inst.UnwindDestOperand = len(inst.Operands)
		inst.AppendOperand(dest)
	}
	return inst, nil
}

func (p *Parser) parsePadArgs() ([]ir.Value, error) {
	if _, err := p.expect(lexer.TokLBracket); err != nil {
		return nil, err
	}
	var args []ir.Value
	if !p.at(lexer.TokRBracket) {
		for {
			_, v, err := p.parseTypedValue()
			if err != nil {
				return nil, err
			}
			args = append(args, v)
			if p.at(lexer.TokComma) {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(lexer.TokRBracket); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parseCatchPad() (*ir.Instruction, error) {
	p.advance()
	inst := ir.NewInstruction(ir.OpCatchPad, p.ctx.TokenTy())
	if err := p.expectKeyword("within"); err != nil {
		return nil, err
	}
	tok, err := p.expect(lexer.TokLocalVar)
	if err != nil {
		return nil, err
	}
	inst.AppendOperand(p.useLocal(tok.Value, p.ctx.TokenTy()))
	args, err := p.parsePadArgs()
	if err != nil {
		return nil, err
	}
	for _, a := range args {
		inst.AppendOperand(a)
	}
	return inst, nil
}

func (p *Parser) parseCleanupPad() (*ir.Instruction, error) {
	p.advance()
	inst := ir.NewInstruction(ir.OpCleanupPad, p.ctx.TokenTy())
	if err := p.expectKeyword("within"); err != nil {
		return nil, err
	}
	if p.atKeyword("none") {
		p.advance()
		inst.AppendOperand(ir.NewConstantNull(p.ctx.TokenTy()))
	} else {
		tok, err := p.expect(lexer.TokLocalVar)
		if err != nil {
			return nil, err
		}
		inst.AppendOperand(p.useLocal(tok.Value, p.ctx.TokenTy()))
	}
	args, err := p.parsePadArgs()
	if err != nil {
		return nil, err
	}
	for _, a := range args {
		inst.AppendOperand(a)
	}
	return inst, nil
}

func (p *Parser) parseLandingPad() (*ir.Instruction, error) {
	p.advance()
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	inst := ir.NewInstruction(ir.OpLandingPad, t)
	if p.atKeyword("cleanup") {
		inst.LandingPadCleanup = true
		p.advance()
	}
	for p.atKeyword("catch") || p.atKeyword("filter") {
		isCatch := p.atKeyword("catch")
		p.advance()
		_, v, err := p.parseTypedValue()
		if err != nil {
			return nil, err
		}
		idx := len(inst.Operands)
		inst.AppendOperand(v)
		inst.Clauses = append(inst.Clauses, ir.LandingPadClause{Catch: isCatch, OperandIndex: idx})
	}
	return inst, nil
}

// ---- Memory ----

func (p *Parser) parseAlloca() (*ir.Instruction, error) {
	p.advance()
	mem := &ir.MemInfo{}
	if p.atKeyword("inalloca") {
		mem.InAlloca = true
		p.advance()
	}
	allocTy, err := p.parseType()
	if err != nil {
		return nil, err
	}
	inst := ir.NewInstruction(ir.OpAlloca, p.ctx.Pointer(0))
	inst.AllocaType = allocTy
	inst.Mem = mem
	if p.at(lexer.TokComma) && p.peekAtTypeStart() {
		p.advance()
		_, count, err := p.parseTypedValue()
		if err != nil {
			return nil, err
		}
		inst.AppendOperand(count)
	}
	var meta map[string]*ir.MDNode
	if err := p.parseTrailingClauses(mem, &meta); err != nil {
		return nil, err
	}
	inst.Metadata = meta
	if mem.HasAddrSpace {
		inst.SetType(p.ctx.Pointer(mem.AddrSpace))
	}
	return inst, nil
}

// peekAtTypeStart reports whether the token after a comma looks like
// the start of a type (as opposed to a bare trailing-clause keyword
// such as `align`/`addrspace`/a metadata bang), disambiguating
// alloca's optional `, <type> <count>` clause from its other trailing
// clauses.
func (p *Parser) peekAtTypeStart() bool {
	switch p.peek.Type {
	case lexer.TokIntType, lexer.TokLBracket, lexer.TokLess, lexer.TokLBrace, lexer.TokLocalVar:
		return true
	case lexer.TokKeyword:
		switch p.peek.Value {
		case "align", "addrspace":
			return false
		}
		return true
	}
	return false
}

func (p *Parser) parseLoad() (*ir.Instruction, error) {
	p.advance()
	mem := &ir.MemInfo{}
	if p.atKeyword("atomic") {
		mem.Atomic = true
		p.advance()
	}
	if p.atKeyword("volatile") {
		mem.Volatile = true
		p.advance()
	}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokComma); err != nil {
		return nil, err
	}
	_, ptr, err := p.parseTypedValue()
	if err != nil {
		return nil, err
	}
	mem.SyncScope = p.parseSyncScope()
	if mem.Atomic {
		ord, ok := p.parseOrdering()
		if !ok {
			return nil, p.errf("expected atomic ordering after 'load atomic'")
		}
		mem.Ordering = ord
	}
	inst := ir.NewInstruction(ir.OpLoad, t)
	inst.Mem = mem
	inst.AppendOperand(ptr)
	var meta map[string]*ir.MDNode
	if err := p.parseTrailingClauses(mem, &meta); err != nil {
		return nil, err
	}
	inst.Metadata = meta
	return inst, nil
}

func (p *Parser) parseStore() (*ir.Instruction, error) {
	p.advance()
	mem := &ir.MemInfo{}
	if p.atKeyword("atomic") {
		mem.Atomic = true
		p.advance()
	}
	if p.atKeyword("volatile") {
		mem.Volatile = true
		p.advance()
	}
	_, val, err := p.parseTypedValue()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokComma); err != nil {
		return nil, err
	}
	_, ptr, err := p.parseTypedValue()
	if err != nil {
		return nil, err
	}
	mem.SyncScope = p.parseSyncScope()
	if mem.Atomic {
		ord, ok := p.parseOrdering()
		if !ok {
			return nil, p.errf("expected atomic ordering after 'store atomic'")
		}
		mem.Ordering = ord
	}
	inst := ir.NewInstruction(ir.OpStore, p.ctx.VoidType())
	inst.Mem = mem
	inst.AppendOperand(val)
	inst.AppendOperand(ptr)
	var meta map[string]*ir.MDNode
	if err := p.parseTrailingClauses(mem, &meta); err != nil {
		return nil, err
	}
	inst.Metadata = meta
	return inst, nil
}

func (p *Parser) parseFence() (*ir.Instruction, error) {
	p.advance()
	mem := &ir.MemInfo{Atomic: true}
	mem.SyncScope = p.parseSyncScope()
	ord, ok := p.parseOrdering()
	if !ok {
		return nil, p.errf("expected ordering after 'fence'")
	}
	mem.Ordering = ord
	inst := ir.NewInstruction(ir.OpFence, p.ctx.VoidType())
	inst.Mem = mem
	return inst, nil
}

func (p *Parser) parseCmpXchg() (*ir.Instruction, error) {
	p.advance()
	mem := &ir.MemInfo{Atomic: true}
	if p.atKeyword("weak") {
		mem.Weak = true
		p.advance()
	}
	if p.atKeyword("volatile") {
		mem.Volatile = true
		p.advance()
	}
	_, ptr, err := p.parseTypedValue()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokComma); err != nil {
		return nil, err
	}
	cmpTy, cmp, err := p.parseTypedValue()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokComma); err != nil {
		return nil, err
	}
	_, newVal, err := p.parseTypedValue()
	if err != nil {
		return nil, err
	}
	mem.SyncScope = p.parseSyncScope()
	successOrd, ok := p.parseOrdering()
	if !ok {
		return nil, p.errf("expected success ordering in 'cmpxchg'")
	}
	failOrd, ok := p.parseOrdering()
	if !ok {
		return nil, p.errf("expected failure ordering in 'cmpxchg'")
	}
	mem.Ordering = successOrd
	mem.FailOrder = failOrd
	resultTy := p.ctx.StructLiteral([]ir.Type{cmpTy, p.ctx.Integer(1)}, false)
	inst := ir.NewInstruction(ir.OpCmpXchg, resultTy)
	inst.Mem = mem
	inst.AppendOperand(ptr)
	inst.AppendOperand(cmp)
	inst.AppendOperand(newVal)
	var meta map[string]*ir.MDNode
	if err := p.parseTrailingClauses(mem, &meta); err != nil {
		return nil, err
	}
	inst.Metadata = meta
	return inst, nil
}

var rmwOpKeywords = map[string]ir.AtomicRMWOp{
	"xchg": ir.RMWXchg, "add": ir.RMWAdd, "sub": ir.RMWSub, "and": ir.RMWAnd,
	"nand": ir.RMWNand, "or": ir.RMWOr, "xor": ir.RMWXor, "max": ir.RMWMax,
	"min": ir.RMWMin, "umax": ir.RMWUMax, "umin": ir.RMWUMin,
	"fadd": ir.RMWFAdd, "fsub": ir.RMWFSub,
}

func (p *Parser) parseAtomicRMW() (*ir.Instruction, error) {
	p.advance()
	mem := &ir.MemInfo{Atomic: true}
	if p.atKeyword("volatile") {
		mem.Volatile = true
		p.advance()
	}
	opTok, err := p.expect(lexer.TokKeyword)
	if err != nil {
		return nil, err
	}
	rmwOp, ok := rmwOpKeywords[opTok.Value]
	if !ok {
		return nil, p.errf("unknown atomicrmw operation %q", opTok.Value)
	}
	_, ptr, err := p.parseTypedValue()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokComma); err != nil {
		return nil, err
	}
	valTy, val, err := p.parseTypedValue()
	if err != nil {
		return nil, err
	}
	mem.SyncScope = p.parseSyncScope()
	ord, ok := p.parseOrdering()
	if !ok {
		return nil, p.errf("expected ordering in 'atomicrmw'")
	}
	mem.Ordering = ord
	mem.RMWOp = rmwOp
	inst := ir.NewInstruction(ir.OpAtomicRMW, valTy)
	inst.Mem = mem
	inst.AppendOperand(ptr)
	inst.AppendOperand(val)
	var meta map[string]*ir.MDNode
	if err := p.parseTrailingClauses(mem, &meta); err != nil {
		return nil, err
	}
	inst.Metadata = meta
	return inst, nil
}

// parseGEP parses `getelementptr [inbounds] <pointee-ty>, ptr %p,
// <index-list>` (§4.3 "Pointee type is required").
func (p *Parser) parseGEP() (*ir.Instruction, error) {
	p.advance()
	inBounds := false
	if p.atKeyword("inbounds") {
		inBounds = true
		p.advance()
	}
	srcTy, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokComma); err != nil {
		return nil, err
	}
	baseTy, base, err := p.parseTypedValue()
	if err != nil {
		return nil, err
	}
	inst := ir.NewInstruction(ir.OpGetElementPtr, baseTy)
	inst.GEPSourceType = srcTy
	inst.GEPInBounds = inBounds
	inst.AppendOperand(base)
	for p.at(lexer.TokComma) {
		p.advance()
		_, idx, err := p.parseTypedValue()
		if err != nil {
			return nil, err
		}
		inst.AppendOperand(idx)
	}
	return inst, nil
}

// ---- Casts ----

func (p *Parser) parseCast() (*ir.Instruction, error) {
	op := castOps[p.cur.Value]
	p.advance()
	fromTy, v, err := p.parseTypedValue()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("to"); err != nil {
		return nil, err
	}
	toTy, err := p.parseType()
	if err != nil {
		return nil, err
	}
	inst := ir.NewInstruction(op, toTy)
	inst.CastFromType = fromTy
	inst.CastToType = toTy
	inst.AppendOperand(v)
	return inst, nil
}

// ---- Binary ----

func (p *Parser) parseBinOp() (*ir.Instruction, error) {
	op := binaryOps[p.cur.Value]
	p.advance()
	p.parseOverflowExactFlags()
	fmf := p.parseFastMathFlags()
	t, v1, err := p.parseTypedValue()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokComma); err != nil {
		return nil, err
	}
	v2, err := p.parseValueOfType(t)
	if err != nil {
		return nil, err
	}
	inst := ir.NewInstruction(op, t)
	inst.FastMath = fmf
	inst.AppendOperand(v1)
	inst.AppendOperand(v2)
	return inst, nil
}

var intPredKeywords = map[string]ir.IntPredicate{
	"eq": ir.IntEQ, "ne": ir.IntNE, "ugt": ir.IntUGT, "uge": ir.IntUGE,
	"ult": ir.IntULT, "ule": ir.IntULE, "sgt": ir.IntSGT, "sge": ir.IntSGE,
	"slt": ir.IntSLT, "sle": ir.IntSLE,
}

var floatPredKeywords = map[string]ir.FloatPredicate{
	"false": ir.FloatFalse, "oeq": ir.FloatOEQ, "ogt": ir.FloatOGT,
	"oge": ir.FloatOGE, "olt": ir.FloatOLT, "ole": ir.FloatOLE,
	"one": ir.FloatONE, "ord": ir.FloatORD, "ueq": ir.FloatUEQ,
	"ugt": ir.FloatUGT, "uge": ir.FloatUGE, "ult": ir.FloatULT,
	"ule": ir.FloatULE, "une": ir.FloatUNE, "uno": ir.FloatUNO,
	"true": ir.FloatTrue,
}

// i1OrVectorOf returns i1 for a scalar comparison, or a vector of i1
// matching the element count of a vector-typed operand.
func (p *Parser) i1OrVectorOf(t ir.Type) ir.Type {
	i1 := p.ctx.Integer(1)
	if vt, ok := t.(*ir.VectorType); ok {
		return p.ctx.Vector(i1, vt.Len, vt.Scalable)
	}
	return i1
}

func (p *Parser) parseICmp() (*ir.Instruction, error) {
	p.advance()
	predTok, err := p.expect(lexer.TokKeyword)
	if err != nil {
		return nil, err
	}
	pred, ok := intPredKeywords[predTok.Value]
	if !ok {
		return nil, p.errf("unknown icmp predicate %q", predTok.Value)
	}
	t, v1, err := p.parseTypedValue()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokComma); err != nil {
		return nil, err
	}
	v2, err := p.parseValueOfType(t)
	if err != nil {
		return nil, err
	}
	inst := ir.NewInstruction(ir.OpICmp, p.i1OrVectorOf(t))
	inst.IntPred = pred
	inst.AppendOperand(v1)
	inst.AppendOperand(v2)
	return inst, nil
}

func (p *Parser) parseFCmp() (*ir.Instruction, error) {
	p.advance()
	fmf := p.parseFastMathFlags()
	predTok, err := p.expect(lexer.TokKeyword)
	if err != nil {
		return nil, err
	}
	pred, ok := floatPredKeywords[predTok.Value]
	if !ok {
		return nil, p.errf("unknown fcmp predicate %q", predTok.Value)
	}
	t, v1, err := p.parseTypedValue()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokComma); err != nil {
		return nil, err
	}
	v2, err := p.parseValueOfType(t)
	if err != nil {
		return nil, err
	}
	inst := ir.NewInstruction(ir.OpFCmp, p.i1OrVectorOf(t))
	inst.FloatPred = pred
	inst.FastMath = fmf
	inst.AppendOperand(v1)
	inst.AppendOperand(v2)
	return inst, nil
}

func (p *Parser) parsePhi() (*ir.Instruction, error) {
	p.advance()
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	inst := ir.NewInstruction(ir.OpPHI, t)
	for {
		if _, err := p.expect(lexer.TokLBracket); err != nil {
			return nil, err
		}
		val, err := p.parseValueOfType(t)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokComma); err != nil {
			return nil, err
		}
		labelTok, err := p.expect(lexer.TokLocalVar)
		if err != nil {
			return nil, err
		}
		block := p.useLocal(labelTok.Value, p.ctx.LabelType())
		if _, err := p.expect(lexer.TokRBracket); err != nil {
			return nil, err
		}
		// block may still be a *ir.ForwardRef at this point (the
		// predecessor label hasn't been reached yet), so the pair is
		// appended directly rather than through AddIncoming, which
		// only accepts an already-resolved *ir.BasicBlock.
		inst.AppendOperand(val)
		inst.AppendOperand(block)
		if p.at(lexer.TokComma) {
			p.advance()
			continue
		}
		break
	}
	return inst, nil
}

func (p *Parser) parseSelect() (*ir.Instruction, error) {
	p.advance()
	p.parseFastMathFlags()
	_, cond, err := p.parseTypedValue()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokComma); err != nil {
		return nil, err
	}
	trueTy, trueVal, err := p.parseTypedValue()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokComma); err != nil {
		return nil, err
	}
	_, falseVal, err := p.parseTypedValue()
	if err != nil {
		return nil, err
	}
	inst := ir.NewInstruction(ir.OpSelect, trueTy)
	inst.AppendOperand(cond)
	inst.AppendOperand(trueVal)
	inst.AppendOperand(falseVal)
	return inst, nil
}

func (p *Parser) parseVAArg() (*ir.Instruction, error) {
	p.advance()
	_, list, err := p.parseTypedValue()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokComma); err != nil {
		return nil, err
	}
	resultTy, err := p.parseType()
	if err != nil {
		return nil, err
	}
	inst := ir.NewInstruction(ir.OpVAArg, resultTy)
	inst.AppendOperand(list)
	return inst, nil
}

func (p *Parser) parseExtractValue() (*ir.Instruction, error) {
	p.advance()
	aggTy, agg, err := p.parseTypedValue()
	if err != nil {
		return nil, err
	}
	var indices []uint32
	for p.at(lexer.TokComma) {
		p.advance()
		n, err := p.expectIntLit()
		if err != nil {
			return nil, err
		}
		indices = append(indices, uint32(n))
	}
	resultTy := walkAggregateIndices(aggTy, indices)
	inst := ir.NewInstruction(ir.OpExtractValue, resultTy)
	inst.Indices = indices
	inst.AppendOperand(agg)
	return inst, nil
}

func (p *Parser) parseInsertValue() (*ir.Instruction, error) {
	p.advance()
	aggTy, agg, err := p.parseTypedValue()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokComma); err != nil {
		return nil, err
	}
	_, elt, err := p.parseTypedValue()
	if err != nil {
		return nil, err
	}
	var indices []uint32
	for p.at(lexer.TokComma) {
		p.advance()
		n, err := p.expectIntLit()
		if err != nil {
			return nil, err
		}
		indices = append(indices, uint32(n))
	}
	inst := ir.NewInstruction(ir.OpInsertValue, aggTy)
	inst.Indices = indices
	inst.AppendOperand(agg)
	inst.AppendOperand(elt)
	return inst, nil
}

// walkAggregateIndices resolves extractvalue's result type by walking
// nested struct/array types along the index path; an out-of-range or
// non-aggregate index yields the aggregate type itself rather than a
// parse failure — the verifier, not the parser, rejects malformed
// indices.
func walkAggregateIndices(t ir.Type, indices []uint32) ir.Type {
	cur := t
	for _, idx := range indices {
		switch tt := cur.(type) {
		case *ir.StructType:
			if int(idx) >= len(tt.Fields) {
				return cur
			}
			cur = tt.Fields[idx]
		case *ir.ArrayType:
			cur = tt.ElemType
		default:
			return cur
		}
	}
	return cur
}

func (p *Parser) parseExtractElement() (*ir.Instruction, error) {
	p.advance()
	vecTy, vec, err := p.parseTypedValue()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokComma); err != nil {
		return nil, err
	}
	_, idx, err := p.parseTypedValue()
	if err != nil {
		return nil, err
	}
	elemTy := vecTy
	if vt, ok := vecTy.(*ir.VectorType); ok {
		elemTy = vt.ElemType
	}
	inst := ir.NewInstruction(ir.OpExtractElement, elemTy)
	inst.AppendOperand(vec)
	inst.AppendOperand(idx)
	return inst, nil
}

func (p *Parser) parseInsertElement() (*ir.Instruction, error) {
	p.advance()
	vecTy, vec, err := p.parseTypedValue()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokComma); err != nil {
		return nil, err
	}
	_, elt, err := p.parseTypedValue()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokComma); err != nil {
		return nil, err
	}
	_, idx, err := p.parseTypedValue()
	if err != nil {
		return nil, err
	}
	inst := ir.NewInstruction(ir.OpInsertElement, vecTy)
	inst.AppendOperand(vec)
	inst.AppendOperand(elt)
	inst.AppendOperand(idx)
	return inst, nil
}

func (p *Parser) parseShuffleVector() (*ir.Instruction, error) {
	p.advance()
	vecTy, v1, err := p.parseTypedValue()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokComma); err != nil {
		return nil, err
	}
	v2val, err := p.parseValueOfType(vecTy)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokComma); err != nil {
		return nil, err
	}
	maskTy, maskConst, err := p.parseTypedValue()
	if err != nil {
		return nil, err
	}
	elemTy := vecTy
	if vt, ok := vecTy.(*ir.VectorType); ok {
		elemTy = vt.ElemType
	}
	maskLen := uint64(0)
	if vt, ok := maskTy.(*ir.VectorType); ok {
		maskLen = vt.Len
	}
	resultTy := p.ctx.Vector(elemTy, maskLen, false)
	inst := ir.NewInstruction(ir.OpShuffleVector, resultTy)
	inst.AppendOperand(v1)
	inst.AppendOperand(v2val)
	inst.Mask = constAggregateToMask(maskConst)
	return inst, nil
}

func constAggregateToMask(c ir.Value) []int32 {
	agg, ok := c.(*ir.ConstantAggregate)
	if !ok {
		return nil
	}
	mask := make([]int32, len(agg.Elems))
	for i, e := range agg.Elems {
		if ci, ok := e.(*ir.ConstantInt); ok {
			mask[i] = int32(ci.Val.Int64())
		} else {
			mask[i] = -1 // `undef` mask element
		}
	}
	return mask
}

// ---- Call family ----

func (p *Parser) parseCallArgs() ([]ir.Value, error) {
	if _, err := p.expect(lexer.TokLParen); err != nil {
		return nil, err
	}
	var args []ir.Value
	if !p.at(lexer.TokRParen) {
		for {
			t, err := p.parseType()
			if err != nil {
				return nil, err
			}
			if _, err := p.parseParamAttrList(); err != nil {
				return nil, err
			}
			v, err := p.parseValueOfType(t)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
			if p.at(lexer.TokComma) {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(lexer.TokRParen); err != nil {
		return nil, err
	}
	return args, nil
}

// parseCallee resolves the callee operand of call/invoke/callbr: either
// a direct `@name` reference to a (possibly forward-referenced)
// Function, or a `%name` indirect pointer value.
func (p *Parser) parseCallee(calleeTy ir.Type) (ir.Value, error) {
	if p.at(lexer.TokGlobalVar) {
		return p.parseGlobalConstantRef(calleeTy)
	}
	tok, err := p.expect(lexer.TokLocalVar)
	if err != nil {
		return nil, err
	}
	return p.useLocal(tok.Value, calleeTy), nil
}

func (p *Parser) parseCallSiteFnAttrs(inst *ir.Instruction) error {
	for p.at(lexer.TokAttrGroupID) || (p.at(lexer.TokKeyword) && isFuncAttrKeyword(p.cur.Value)) {
		if p.at(lexer.TokAttrGroupID) {
			inst.FnAttrs = append(inst.FnAttrs, p.attrGroups[p.cur.Value]...)
			p.advance()
			continue
		}
		fa, err := p.parseOneFuncAttr()
		if err != nil {
			return err
		}
		inst.FnAttrs = append(inst.FnAttrs, fa)
	}
	return nil
}

// parseCallSignature parses the shared `[fast-math] [cconv] [ret-attrs]
// <ret-ty> [(sig)] ` prefix shared by call/invoke/callbr, returning the
// instruction's result type, whether it is a pointer-call form, and the
// pointer-call signature type when it is (§4.3 call: "When the return
// type is a function type in parentheses, the callee is treated as a
// pointer call.").
func (p *Parser) parseCallSignature() (resultTy ir.Type, isPointerCall bool, sig *ir.FunctionType, cconv ir.CallingConv, retAttrs []ir.Attribute, fmf ir.FastMathFlags, err error) {
	fmf = p.parseFastMathFlags()
	cconv = ir.CC_C
	if p.at(lexer.TokKeyword) {
		if cc, ok := callingConvKeywords[p.cur.Value]; ok {
			cconv = cc
			p.advance()
		}
	}
	retAttrs, err = p.parseParamAttrList()
	if err != nil {
		return
	}
	retTy, rerr := p.parseType()
	if rerr != nil {
		err = rerr
		return
	}
	if p.at(lexer.TokLParen) {
		t, terr := p.parseFunctionType(retTy)
		if terr != nil {
			err = terr
			return
		}
		sig = t.(*ir.FunctionType)
		resultTy = sig.Ret
		isPointerCall = true
		return
	}
	resultTy = retTy
	return
}

func (p *Parser) parseCall() (*ir.Instruction, error) {
	tail := ir.TailNone
	switch {
	case p.atKeyword("musttail"):
		tail = ir.MustTail
		p.advance()
	case p.atKeyword("notail"):
		tail = ir.NoTail
		p.advance()
	case p.atKeyword("tail"):
		tail = ir.TailHint
		p.advance()
	}
	if err := p.expectKeyword("call"); err != nil {
		return nil, err
	}
	resultTy, isPtrCall, sig, cconv, retAttrs, fmf, err := p.parseCallSignature()
	if err != nil {
		return nil, err
	}
	callee, err := p.parseCallee(p.ctx.Pointer(0))
	if err != nil {
		return nil, err
	}
	args, err := p.parseCallArgs()
	if err != nil {
		return nil, err
	}
	inst := ir.NewInstruction(ir.OpCall, resultTy)
	inst.Tail = tail
	inst.CallConv = cconv
	inst.RetAttrs = retAttrs
	inst.FastMath = fmf
	inst.IsPointerCall = isPtrCall
	if sig != nil {
		inst.CalleeType = sig
	}
	inst.AppendOperand(callee)
	for _, a := range args {
		inst.AppendOperand(a)
	}
	if err := p.parseCallSiteFnAttrs(inst); err != nil {
		return nil, err
	}
	var meta map[string]*ir.MDNode
	for p.at(lexer.TokComma) {
		p.advance()
		k, node, err := p.parseMetadataAttachment()
		if err != nil {
			return nil, err
		}
		if meta == nil {
			meta = map[string]*ir.MDNode{}
		}
		meta[k] = node
	}
	inst.Metadata = meta
	return inst, nil
}

func (p *Parser) parseInvoke() (*ir.Instruction, error) {
	p.advance()
	resultTy, isPtrCall, sig, cconv, retAttrs, fmf, err := p.parseCallSignature()
	if err != nil {
		return nil, err
	}
	callee, err := p.parseCallee(p.ctx.Pointer(0))
	if err != nil {
		return nil, err
	}
	args, err := p.parseCallArgs()
	if err != nil {
		return nil, err
	}
	inst := ir.NewInstruction(ir.OpInvoke, resultTy)
	inst.CallConv = cconv
	inst.RetAttrs = retAttrs
	inst.FastMath = fmf
	inst.IsPointerCall = isPtrCall
	if sig != nil {
		inst.CalleeType = sig
	}
	inst.AppendOperand(callee)
	for _, a := range args {
		inst.AppendOperand(a)
	}
	if err := p.parseCallSiteFnAttrs(inst); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("to"); err != nil {
		return nil, err
	}
	normalDest, err := p.parseLabelOperand()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("unwind"); err != nil {
		return nil, err
	}
	unwindDest, err := p.parseLabelOperand()
	if err != nil {
		return nil, err
	}
	inst.AppendOperand(normalDest)
	inst.AppendOperand(unwindDest)
	return inst, nil
}

func (p *Parser) parseCallBr() (*ir.Instruction, error) {
	p.advance()
	resultTy, isPtrCall, sig, cconv, retAttrs, fmf, err := p.parseCallSignature()
	if err != nil {
		return nil, err
	}
	callee, err := p.parseCallee(p.ctx.Pointer(0))
	if err != nil {
		return nil, err
	}
	args, err := p.parseCallArgs()
	if err != nil {
		return nil, err
	}
	inst := ir.NewInstruction(ir.OpCallBr, resultTy)
	inst.CallConv = cconv
	inst.RetAttrs = retAttrs
	inst.FastMath = fmf
	inst.IsPointerCall = isPtrCall
	if sig != nil {
		inst.CalleeType = sig
	}
	inst.AppendOperand(callee)
	for _, a := range args {
		inst.AppendOperand(a)
	}
	if err := p.expectKeyword("to"); err != nil {
		return nil, err
	}
	def, err := p.parseLabelOperand()
	if err != nil {
		return nil, err
	}
	inst.AppendOperand(def)
	inst.IndirectOperandsStart = len(inst.Operands)
	if _, err := p.expect(lexer.TokLBracket); err != nil {
		return nil, err
	}
	for !p.at(lexer.TokRBracket) {
		d, err := p.parseLabelOperand()
		if err != nil {
			return nil, err
		}
		inst.AppendOperand(d)
		if p.at(lexer.TokComma) {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.TokRBracket); err != nil {
		return nil, err
	}
	return inst, nil
}
