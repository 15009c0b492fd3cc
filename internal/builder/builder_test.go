package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokoide/llir/internal/ir"
	"github.com/sokoide/llir/internal/verifier"
)

// §9 "Builder vs. parser pathway": a module built entirely through
// Builder must be well-formed by the same verifier the parser path
// uses, with no special-casing.
func TestBuilderProducesVerifiableModule(t *testing.T) {
	ctx := ir.NewContext()
	mod := ir.NewModule("test", ctx)

	i32 := ctx.Integer(32)
	sig := &ir.FunctionType{Ret: i32, Params: []ir.Type{i32, i32}}
	fn := ir.NewFunction(ctx, "add", sig)
	entry := ir.NewBasicBlock(ctx, "entry")
	fn.AppendBlock(entry)
	mod.AddFunction(fn)

	b := New(ctx)
	b.PositionAtEnd(entry)
	sum := b.BuildAdd(fn.Args[0], fn.Args[1], "")
	b.BuildRet(sum)

	assert.Equal(t, "0", sum.Name(), "want first anonymous value named 0")
	require.NotNil(t, entry.Terminator())
	assert.Equal(t, ir.OpRet, entry.Terminator().Op)

	assert.Empty(t, verifier.Verify(mod))
}

// A block left without a terminator is caught by the verifier even
// when built programmatically rather than parsed.
func TestBuilderMissingTerminatorCaught(t *testing.T) {
	ctx := ir.NewContext()
	mod := ir.NewModule("test", ctx)

	sig := &ir.FunctionType{Ret: ctx.VoidType()}
	fn := ir.NewFunction(ctx, "f", sig)
	entry := ir.NewBasicBlock(ctx, "entry")
	fn.AppendBlock(entry)
	mod.AddFunction(fn)

	b := New(ctx)
	b.PositionAtEnd(entry)
	b.BuildAlloca(ctx.Integer(32), "p")

	assert.NotEmpty(t, verifier.Verify(mod), "want a terminator diagnostic for an unterminated block")
}
