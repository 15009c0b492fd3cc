package parser_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokoide/llir/internal/infrastructure"
	"github.com/sokoide/llir/internal/ir"
	"github.com/sokoide/llir/internal/parser"
)

func parseOK(t *testing.T, src string) *ir.Module {
	t.Helper()
	ctx := ir.NewContext()
	reporter := infrastructure.NewConsoleErrorReporter(io.Discard)
	mod, err := parser.New("test.ll", src, ctx, reporter).ParseModule("test")
	require.NoError(t, err)
	return mod
}

func parseErr(t *testing.T, src string) error {
	t.Helper()
	ctx := ir.NewContext()
	reporter := infrastructure.NewConsoleErrorReporter(io.Discard)
	_, err := parser.New("test.ll", src, ctx, reporter).ParseModule("test")
	require.Error(t, err)
	return err
}

// §8 end-to-end scenario: minimal function with one terminator.
func TestParseMinimalFunction(t *testing.T) {
	mod := parseOK(t, "define void @main() {\nentry:\n  ret void\n}")
	require.Len(t, mod.Functions, 1)
	fn := mod.Functions[0]
	assert.Equal(t, "main", fn.Name())
	require.Len(t, fn.Blocks, 1)
	bb := fn.Blocks[0]
	assert.Equal(t, "entry", bb.Name())
	require.Len(t, bb.Instructions, 1)
	assert.Equal(t, ir.OpRet, bb.Instructions[0].Op)
}

// §8 end-to-end scenario: char-array global initializer preserves raw
// bytes through the \xx escape decoding.
func TestParseCharArrayGlobal(t *testing.T) {
	mod := parseOK(t, `@spell_order = global [4 x i8] c"\FF\00\F7\00"`)
	g, ok := mod.GetGlobal("spell_order")
	require.True(t, ok, "global spell_order not found")
	arrTy, ok := g.ValueType.(*ir.ArrayType)
	require.True(t, ok, "want array type, got %T", g.ValueType)
	assert.EqualValues(t, 4, arrTy.Len)
	data, ok := g.Initializer.(*ir.ConstantDataArray)
	require.True(t, ok, "want ConstantDataArray initializer, got %T", g.Initializer)
	assert.Equal(t, []byte{0xFF, 0x00, 0xF7, 0x00}, data.Bytes)
}

// §8 end-to-end scenario: a negative literal assigned to i32 round-trips
// through its exact two's-complement bit pattern.
func TestParseNegativeIntegerConstant(t *testing.T) {
	mod := parseOK(t, "define i32 @foo() {\nret i32 -2147483648\n}")
	fn := mod.Functions[0]
	ret := fn.Blocks[0].Instructions[0]
	ci, ok := ret.Operand(0).(*ir.ConstantInt)
	require.True(t, ok, "want ConstantInt operand, got %T", ret.Operand(0))
	assert.EqualValues(t, -2147483648, ci.Val.Int64())
}

// §8 property 2: anonymous SSA values and blocks number in textual
// order of first definition when no explicit names are given.
func TestAnonymousSSANumbering(t *testing.T) {
	mod := parseOK(t, `define i32 @f(i32 %a, i32 %b) {
  %1 = add i32 %a, %b
  %2 = mul i32 %1, %1
  ret i32 %2
}`)
	fn := mod.Functions[0]
	bb := fn.Blocks[0]
	assert.Equal(t, "1", bb.Instructions[0].Name())
	assert.Equal(t, "2", bb.Instructions[1].Name())
}

// §8 property 4: the trailing clauses of alloca may appear in any
// order and parse to the same in-memory instruction.
func TestAllocaTrailingClauseOrderInsensitive(t *testing.T) {
	a := parseOK(t, "define void @f() {\n  %p = alloca i32, align 4, addrspace(1)\n  ret void\n}")
	b := parseOK(t, "define void @f() {\n  %p = alloca i32, addrspace(1), align 4\n  ret void\n}")

	instA := a.Functions[0].Blocks[0].Instructions[0]
	instB := b.Functions[0].Blocks[0].Instructions[0]
	assert.Equal(t, instA.Mem.Align, instB.Mem.Align)
	assert.EqualValues(t, 4, instA.Mem.Align)
	assert.Equal(t, instA.Mem.AddrSpace, instB.Mem.AddrSpace)
	assert.EqualValues(t, 1, instA.Mem.AddrSpace)
}

// §8 concrete scenario: cmpxchg weak with distinct success/failure
// orderings and no syncscope.
func TestCmpXchgWeak(t *testing.T) {
	mod := parseOK(t, `define void @f(ptr %x) {
  %r = cmpxchg weak ptr %x, i32 13, i32 0 seq_cst monotonic
  ret void
}`)
	inst := mod.Functions[0].Blocks[0].Instructions[0]
	require.Equal(t, ir.OpCmpXchg, inst.Op)
	assert.True(t, inst.Mem.Weak)
	assert.Equal(t, ir.OrderSeqCst, inst.Mem.Ordering)
	assert.Equal(t, ir.OrderMonotonic, inst.Mem.FailOrder)
	assert.Empty(t, inst.Mem.SyncScope)
}

// §8 concrete scenario: byref(T) attribute attaches its type operand.
func TestByrefParameterAttribute(t *testing.T) {
	mod := parseOK(t, "define void @test(ptr byref([64 x i8])) {\n  ret void\n}")
	fn := mod.Functions[0]
	require.Len(t, fn.Args, 1)
	arg := fn.Args[0]
	var found *ir.Attribute
	for i := range arg.Attrs {
		if arg.Attrs[i].Kind == ir.AttrByRef {
			found = &arg.Attrs[i]
		}
	}
	require.NotNil(t, found, "byref attribute not found on sole parameter")
	arrTy, ok := found.Type.(*ir.ArrayType)
	require.True(t, ok)
	assert.EqualValues(t, 64, arrTy.Len)
}

// §8 property 3: forward references to functions across the module
// resolve without leaving placeholders.
func TestForwardReferenceResolution(t *testing.T) {
	mod := parseOK(t, `define void @a() {
  call void @b()
  ret void
}
define void @b() {
  ret void
}`)
	callInst := mod.Functions[0].Blocks[0].Instructions[0]
	callee, ok := callInst.Operand(0).(*ir.Function)
	require.True(t, ok, "want callee operand to be *ir.Function, got %T", callInst.Operand(0))
	assert.Equal(t, "b", callee.Name())
}

// §7: an unresolved forward reference at end-of-function is a hard
// error.
func TestUnresolvedLocalForwardReferenceIsError(t *testing.T) {
	parseErr(t, "define void @f() {\n  br label %nonexistent\n}")
}

// §4.1 lexer termination regression: `load atomic ... ordering, align`
// must not loop.
func TestLoadAtomicOrderingThenAlign(t *testing.T) {
	mod := parseOK(t, "define void @f(ptr %x) {\n  %v = load atomic i32, ptr %x unordered, align 4\n  ret void\n}")
	inst := mod.Functions[0].Blocks[0].Instructions[0]
	require.Equal(t, ir.OpLoad, inst.Op)
	assert.True(t, inst.Mem.Atomic)
	assert.Equal(t, ir.OrderUnordered, inst.Mem.Ordering)
	assert.EqualValues(t, 4, inst.Mem.Align)
}
