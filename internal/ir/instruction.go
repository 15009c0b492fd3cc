package ir

// Opcode tags the opcode-specific state machine the parser drives
// per-instruction (§4.3).
type Opcode int

const (
	// Terminators
	OpRet Opcode = iota
	OpBr
	OpSwitch
	OpIndirectBr
	OpInvoke
	OpCallBr
	OpResume
	OpUnreachable
	OpCleanupRet
	OpCatchRet
	OpCatchSwitch

	// Binary / bitwise
	OpAdd
	OpFAdd
	OpSub
	OpFSub
	OpMul
	OpFMul
	OpUDiv
	OpSDiv
	OpFDiv
	OpURem
	OpSRem
	OpFRem
	OpShl
	OpLShr
	OpAShr
	OpAnd
	OpOr
	OpXor

	// Memory
	OpAlloca
	OpLoad
	OpStore
	OpGetElementPtr
	OpFence
	OpCmpXchg
	OpAtomicRMW

	// Casts
	OpTrunc
	OpZExt
	OpSExt
	OpFPTrunc
	OpFPExt
	OpFPToUI
	OpFPToSI
	OpUIToFP
	OpSIToFP
	OpPtrToInt
	OpIntToPtr
	OpBitCast
	OpAddrSpaceCast

	// Other
	OpICmp
	OpFCmp
	OpPHI
	OpSelect
	OpCall
	OpVAArg
	OpLandingPad
	OpCatchPad
	OpCleanupPad
	OpExtractElement
	OpInsertElement
	OpShuffleVector
	OpExtractValue
	OpInsertValue
)

// terminatorOps is consulted by the verifier's "exactly one terminator
// per block, terminator appears nowhere else" rule (§4.4).
var terminatorOps = map[Opcode]bool{
	OpRet: true, OpBr: true, OpSwitch: true, OpIndirectBr: true,
	OpInvoke: true, OpCallBr: true, OpResume: true, OpUnreachable: true,
	OpCleanupRet: true, OpCatchRet: true, OpCatchSwitch: true,
}

func (op Opcode) IsTerminator() bool { return terminatorOps[op] }

// MemInfo carries the shared load/store/cmpxchg/atomicrmw atomic
// qualifier state (§4.3 load/store/cmpxchg illustrative cases).
type MemInfo struct {
	Atomic     bool
	Volatile   bool
	Weak       bool // cmpxchg only
	SyncScope  string
	Ordering   AtomicOrdering // load/store/atomicrmw ordering, or cmpxchg success ordering
	FailOrder  AtomicOrdering // cmpxchg failure ordering
	Align      uint32
	AddrSpace  uint32
	HasAddrSpace bool
	InAlloca   bool // alloca only
	RMWOp      AtomicRMWOp
}

// SwitchCase is one `i32 N, label %dest` arm. ValOperand and
// DestOperand index into Instruction.Operands (so forward-referenced
// destinations rewrite correctly) rather than holding a second owning
// pointer.
type SwitchCase struct {
	ValOperand  int
	DestOperand int
}

// LandingPadClause is one `catch <type> <value>` or `filter <array
// type> <value>` clause; OperandIndex points at the clause value inside
// Instruction.Operands.
type LandingPadClause struct {
	Catch        bool // false means `filter`
	OperandIndex int
}

// Instruction is every non-terminator and terminator instruction kind,
// following §9's "tagged sum with shared header" guidance: Op selects
// the active view, Operands is the single canonical list of Value
// references (so forward-reference rewriting via RewriteAllUsesWith
// never has to chase a second copy of a pointer), and opcode-specific
// non-Value state lives in the pointer fields below, set only for the
// opcodes that use them.
type Instruction struct {
	valueBase
	Op       Opcode
	Operands []Value
	Parent   *BasicBlock
	Metadata map[string]*MDNode // e.g. "dbg" -> !N

	// Memory / atomics (alloca, load, store, cmpxchg, atomicrmw, fence)
	Mem *MemInfo

	// getelementptr
	GEPSourceType Type
	GEPInBounds   bool

	// alloca
	AllocaType Type

	// icmp / fcmp
	IntPred   IntPredicate
	FloatPred FloatPredicate
	FastMath  FastMathFlags

	// call / invoke / callbr
	CallConv   CallingConv
	Tail       TailKind
	RetAttrs   []Attribute
	FnAttrs    []FuncAttr
	CalleeType Type // for pointer-call forms, §4.3 call's parenthesised signature case
	IsPointerCall bool

	// switch
	Cases []SwitchCase

	// callbr
	IndirectOperandsStart int

	// phi: Operands laid out [val0, block0, val1, block1, ...]

	// cast ops
	CastFromType Type
	CastToType   Type

	// landingpad
	LandingPadCleanup bool
	Clauses           []LandingPadClause

	// cleanupret / catchret / catchswitch unwind destination: appended
	// to Operands like any other block reference (so a forward label
	// reference resolves the same way br's targets do);
	// UnwindDestOperand indexes it, or is -1 when ToCaller is set.
	UnwindDestOperand int
	ToCaller          bool

	// extractvalue / insertvalue
	Indices []uint32

	// shufflevector
	Mask []int32
}

func newInstruction(op Opcode, t Type) *Instruction {
	return &Instruction{valueBase: valueBase{typ: t}, Op: op, UnwindDestOperand: -1}
}

// UnwindDestBlock resolves the cleanupret/catchret/catchswitch unwind
// destination from Operands, or nil when ToCaller or not yet resolved.
func (i *Instruction) UnwindDestBlock() *BasicBlock {
	if i.UnwindDestOperand < 0 || i.UnwindDestOperand >= len(i.Operands) {
		return nil
	}
	bb, _ := i.Operands[i.UnwindDestOperand].(*BasicBlock)
	return bb
}

// NewInstruction is the §4.3 parser/builder entry point for
// constructing a bare instruction of the given opcode and result type;
// callers fill in the opcode-specific fields and append operands with
// AppendOperand afterward.
func NewInstruction(op Opcode, t Type) *Instruction {
	return newInstruction(op, t)
}

func (i *Instruction) ValueKind() ValueKind   { return ValInstruction }
func (i *Instruction) base() *valueBase       { return &i.valueBase }

// SetType overrides the result type computed at construction time; used
// by alloca's trailing `addrspace(N)` clause, which is only known after
// the instruction already exists.
func (i *Instruction) SetType(t Type) { i.typ = t }
func (i *Instruction) Operand(idx int) Value  { return i.Operands[idx] }
func (i *Instruction) NumOperands() int       { return len(i.Operands) }
func (i *Instruction) SetOperand(idx int, v Value) {
	i.Operands[idx] = v
}

// AppendOperand adds v to Operands and records the use.
func (i *Instruction) AppendOperand(v Value) {
	i.Operands = append(i.Operands, v)
	AddUse(v, i, len(i.Operands)-1)
}

// PHIIncoming is a convenience view over a phi's [val, block] operand
// pairs.
type PHIIncoming struct {
	Value Value
	Block *BasicBlock
}

func (i *Instruction) PHIIncomings() []PHIIncoming {
	out := make([]PHIIncoming, 0, len(i.Operands)/2)
	for n := 0; n+1 < len(i.Operands); n += 2 {
		bb, _ := i.Operands[n+1].(*BasicBlock)
		out = append(out, PHIIncoming{Value: i.Operands[n], Block: bb})
	}
	return out
}

func (i *Instruction) AddIncoming(v Value, block *BasicBlock) {
	i.AppendOperand(v)
	i.AppendOperand(block)
}

// SwitchDefault / SwitchCond are convenience views: Operands is laid
// out [cond, default, case0val, case0dest, ...].
func (i *Instruction) SwitchCond() Value    { return i.Operands[0] }
func (i *Instruction) SwitchDefault() Value { return i.Operands[1] }
