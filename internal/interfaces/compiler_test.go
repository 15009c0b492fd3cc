package interfaces

import (
	"testing"

	"github.com/sokoide/llir/internal/ir"
	"github.com/sokoide/llir/internal/lexer"
	"github.com/sokoide/llir/internal/parser"
	"github.com/sokoide/llir/internal/verifier"
)

// Compile-time checks that the concrete packages satisfy these
// contracts, the way the teacher's interfaces package was exercised
// against its lexer/parser implementations.
var (
	_ Lexer  = (*lexer.Lexer)(nil)
	_ Parser = (*parser.Parser)(nil)
)

func TestVerifierFuncSatisfiesVerifier(t *testing.T) {
	var v Verifier = VerifierFunc(verifier.Verify)

	ctx := ir.NewContext()
	mod := ir.NewModule("test", ctx)
	sig := &ir.FunctionType{Ret: ctx.VoidType()}
	fn := ir.NewFunction(ctx, "f", sig)
	bb := ir.NewBasicBlock(ctx, "entry")
	fn.AppendBlock(bb)
	ret := ir.NewInstruction(ir.OpRet, ctx.VoidType())
	bb.AppendInstruction(ret)
	mod.AddFunction(fn)

	if diags := v.Verify(mod); len(diags) != 0 {
		t.Fatalf("want no diagnostics for a minimal well-formed module, got %v", diags)
	}
}
