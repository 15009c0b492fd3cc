package ir

import "math/big"

// Constant marks Values that are owned by the Context (not by a
// function/block) and live until the Context does (§3 Lifecycles).
// Constants are not uniqued: every constructor below allocates a fresh
// value, so two constants with the same kind, type and payload are
// distinct objects and compare unequal by pointer.
type Constant interface {
	Value
	isConstant()
}

type constBase struct {
	valueBase
}

func (c *constBase) isConstant() {}
func (c *constBase) ValueKind() ValueKind { return ValConstant }
func (c *constBase) base() *valueBase     { return &c.valueBase }

// ConstantInt is an arbitrary-precision integer constant (§3).
type ConstantInt struct {
	constBase
	Val *big.Int
}

func NewConstantInt(t Type, v *big.Int) *ConstantInt {
	return &ConstantInt{constBase: constBase{valueBase{typ: t}}, Val: v}
}

// ConstantFP stores the IEEE bit pattern verbatim, per §3 ("floating
// point (IEEE bit pattern)") — this avoids any lossy round-trip through
// a Go float64 for fp128/x86_fp80 values the lexer decodes from hex
// literals.
type ConstantFP struct {
	constBase
	Bits uint64 // low 64 bits of the IEEE pattern
	Hi   uint64 // high bits, used only for 80/128-bit formats
}

func NewConstantFP(t Type, bits, hi uint64) *ConstantFP {
	return &ConstantFP{constBase: constBase{valueBase{typ: t}}, Bits: bits, Hi: hi}
}

// ConstantNull is `null`: valid for pointer types.
type ConstantNull struct{ constBase }

func NewConstantNull(t Type) *ConstantNull {
	return &ConstantNull{constBase{valueBase{typ: t}}}
}

// ConstantZeroInitializer is `zeroinitializer`: valid for any
// aggregate/vector/scalar type, recursively zero.
type ConstantZeroInitializer struct{ constBase }

func NewConstantZeroInitializer(t Type) *ConstantZeroInitializer {
	return &ConstantZeroInitializer{constBase{valueBase{typ: t}}}
}

// ConstantUndef is `undef`.
type ConstantUndef struct{ constBase }

func NewConstantUndef(t Type) *ConstantUndef {
	return &ConstantUndef{constBase{valueBase{typ: t}}}
}

// ConstantPoison is `poison`.
type ConstantPoison struct{ constBase }

func NewConstantPoison(t Type) *ConstantPoison {
	return &ConstantPoison{constBase{valueBase{typ: t}}}
}

// ConstantDataArray stores a literal byte array such as the `c"..."`
// char-array syntax, kept as raw bytes rather than per-element
// ConstantInt(i8) to match the "constant data array" scenario in §8
// ("one global of array type [4 x i8], initializer is a constant data
// array with bytes ...").
type ConstantDataArray struct {
	constBase
	Bytes []byte
}

func NewConstantDataArray(t Type, bytes []byte) *ConstantDataArray {
	return &ConstantDataArray{constBase{valueBase{typ: t}}, append([]byte(nil), bytes...)}
}

// ConstantAggregate is a constant array/struct/vector built from nested
// constant operands (as opposed to ConstantDataArray's packed bytes).
type ConstantAggregate struct {
	constBase
	Elems []Constant
}

func NewConstantAggregate(t Type, elems []Constant) *ConstantAggregate {
	return &ConstantAggregate{constBase{valueBase{typ: t}}, elems}
}

func (c *ConstantAggregate) Operand(i int) Value      { return c.Elems[i] }
func (c *ConstantAggregate) NumOperands() int         { return len(c.Elems) }
func (c *ConstantAggregate) SetOperand(i int, v Value) {
	cv, ok := v.(Constant)
	if !ok {
		panic("ir: ConstantAggregate operand must be a Constant")
	}
	c.Elems[i] = cv
}

// ConstExprOp enumerates the constant-expression opcodes named in §3
// ("getelementptr, bitcast, ptrtoint, inttoptr, trunc/zext/sext/…,
// add/sub/mul/…").
type ConstExprOp int

const (
	CEGetElementPtr ConstExprOp = iota
	CEBitCast
	CEPtrToInt
	CEIntToPtr
	CETrunc
	CEZExt
	CESExt
	CEFPTrunc
	CEFPExt
	CEAdd
	CESub
	CEMul
	CEAnd
	CEOr
	CEXor
	CEShl
	CELShr
	CEAShr
)

// ConstantExpr is a constant folded eagerly only at the syntax level —
// `getelementptr`/`bitcast`/... applied to constant operands, parsed
// into a value but never evaluated by this front end (no constant
// folding pass is in scope).
type ConstantExpr struct {
	constBase
	Op        ConstExprOp
	Operands_ []Value
	// GEPSourceType is the pointee type named by a getelementptr
	// constant expression's first operand (§4.3 "Pointee type is
	// required").
	GEPSourceType Type
	InBounds      bool
}

func NewConstantExpr(t Type, op ConstExprOp, operands []Value) *ConstantExpr {
	ce := &ConstantExpr{constBase: constBase{valueBase{typ: t}}, Op: op, Operands_: operands}
	for i, o := range operands {
		AddUse(o, ce, i)
	}
	return ce
}

func (c *ConstantExpr) Operand(i int) Value { return c.Operands_[i] }
func (c *ConstantExpr) NumOperands() int    { return len(c.Operands_) }
func (c *ConstantExpr) SetOperand(i int, v Value) {
	c.Operands_[i] = v
}

// BlockAddress is `blockaddress(@fn, %bb)`.
type BlockAddress struct {
	constBase
	Func  *Function
	Block *BasicBlock
}

func NewBlockAddress(t Type, fn *Function, bb *BasicBlock) *BlockAddress {
	return &BlockAddress{constBase{valueBase{typ: t}}, fn, bb}
}

// MetadataAsValue wraps a Metadata node so it can appear as an operand
// in value position (e.g. the third operand of `llvm.dbg.value`), per
// §3 "metadata-as-value".
type MetadataAsValue struct {
	constBase
	MD Metadata
}

func NewMetadataAsValue(t Type, md Metadata) *MetadataAsValue {
	return &MetadataAsValue{constBase{valueBase{typ: t}}, md}
}
