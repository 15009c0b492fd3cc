package verifier_test

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sokoide/llir/internal/infrastructure"
	"github.com/sokoide/llir/internal/ir"
	"github.com/sokoide/llir/internal/parser"
	"github.com/sokoide/llir/internal/verifier"
)

func mustParse(t *testing.T, src string) *ir.Module {
	t.Helper()
	ctx := ir.NewContext()
	reporter := infrastructure.NewConsoleErrorReporter(io.Discard)
	mod, err := parser.New("test.ll", src, ctx, reporter).ParseModule("test")
	require.NoError(t, err)
	return mod
}

// §8 end-to-end scenario: a minimal well-formed module passes.
func TestVerifyMinimalModulePasses(t *testing.T) {
	mod := mustParse(t, "define void @main() {\nentry:\n  ret void\n}")
	assert.Empty(t, verifier.Verify(mod))
}

// §8 final concrete scenario: a getelementptr index walking through a
// pointer level is rejected.
func TestVerifyGEPThroughPointerRejected(t *testing.T) {
	mod := mustParse(t, `define void @f(ptr %X) {
  %g = getelementptr {i32, ptr}, ptr %X, i32 0, i32 1, i32 0
  ret void
}`)
	diags := verifier.Verify(mod)
	require.NotEmpty(t, diags, "want at least one diagnostic for indexing through a pointer")
	found := false
	for _, d := range diags {
		if d.Kind == "gep-through-pointer" {
			found = true
		}
	}
	assert.True(t, found, "want a gep-through-pointer diagnostic, got %v", diags)
}

// §4.4: every basic block must end in exactly one terminator; a block
// with none is a violation a hand-built module can contain directly
// (bypassing the parser's fall-through check), exercising the
// verifier's own rule independently of the parser's.
func TestVerifyMissingTerminatorReported(t *testing.T) {
	ctx := ir.NewContext()
	mod := ir.NewModule("test", ctx)
	sig := &ir.FunctionType{Ret: ctx.VoidType()}
	fn := ir.NewFunction(ctx, "f", sig)
	bb := ir.NewBasicBlock(ctx, "entry")
	fn.AppendBlock(bb)
	alloca := ir.NewInstruction(ir.OpAlloca, ctx.Pointer(0))
	alloca.AllocaType = ctx.Integer(32)
	alloca.Mem = &ir.MemInfo{}
	bb.AppendInstruction(alloca)
	mod.AddFunction(fn)

	assert.NotEmpty(t, verifier.Verify(mod), "want a terminator-missing diagnostic")
}

// §8 property 6: a module violating K distinct rules yields at least K
// diagnostics.
func TestVerifyAccumulatesMultipleDiagnostics(t *testing.T) {
	mod := mustParse(t, `define void @f(ptr %X) {
  %g = getelementptr {i32, ptr}, ptr %X, i32 0, i32 1, i32 0
  %h = getelementptr {i32, ptr}, ptr %X, i32 0, i32 1, i32 0
  ret void
}`)
	assert.GreaterOrEqual(t, len(verifier.Verify(mod)), 2)
}
