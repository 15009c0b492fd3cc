// Package verifier walks a built *ir.Module and reports every §4.4
// well-formedness violation it finds without stopping at the first one
// and without mutating the module, the same "walk a built program and
// accumulate diagnostics" shape the teacher's semantic.Analyzer uses
// over StaticLang ASTs, generalized here onto LLVM IR's rule set.
package verifier

import (
	"fmt"

	"github.com/sokoide/llir/internal/ir"
)

// Verify runs every rule in this package over mod and returns the
// diagnostics found, in no particular order (§4.4: "an unordered set
// of diagnostics rather than stopping at the first").  A nil/empty
// result means mod is well-formed.
func Verify(mod *ir.Module) []ir.VerifierDiagnostic {
	v := &verifier{mod: mod}
	v.verifyModuleFlags()
	for _, fn := range mod.Functions {
		v.verifyFunction(fn)
	}
	return v.diags
}

type verifier struct {
	mod   *ir.Module
	diags []ir.VerifierDiagnostic
}

func (v *verifier) report(kind, locationHint, format string, args ...any) {
	v.diags = append(v.diags, ir.VerifierDiagnostic{
		Kind:         kind,
		LocationHint: locationHint,
		Message:      fmt.Sprintf(format, args...),
	})
}

// verifyFunction runs every per-function and per-instruction rule over
// fn. Signature-level rules (calling convention, argument attributes)
// apply to declarations too; the body-shaped rules (terminators,
// dominance) only make sense once fn has blocks.
func (v *verifier) verifyFunction(fn *ir.Function) {
	v.verifyCallingConvention(fn)
	v.verifyArgumentAttrs(fn)
	if fn.IsDeclaration || len(fn.Blocks) == 0 {
		return
	}
	for _, bb := range fn.Blocks {
		v.verifyTerminator(fn, bb)
		for idx, inst := range bb.Instructions {
			v.verifyInstruction(fn, bb, inst, idx)
		}
	}
	idom := computeDominators(fn)
	v.verifyDominance(fn, idom)
}

// verifyTerminator enforces "every basic block ends in exactly one
// terminator; terminators appear nowhere else" (§4.4).
func (v *verifier) verifyTerminator(fn *ir.Function, bb *ir.BasicBlock) {
	loc := blockLoc(fn, bb)
	if len(bb.Instructions) == 0 {
		v.report("terminator", loc, "block %q has no instructions", bb.Name())
		return
	}
	for i, inst := range bb.Instructions {
		last := i == len(bb.Instructions)-1
		if inst.Op.IsTerminator() && !last {
			v.report("terminator", loc, "terminator %s appears before the end of block %q", opName(inst), bb.Name())
		}
		if !inst.Op.IsTerminator() && last {
			v.report("terminator", loc, "block %q does not end in a terminator", bb.Name())
		}
	}
}

func blockLoc(fn *ir.Function, bb *ir.BasicBlock) string {
	return fmt.Sprintf("%s:%s", fn.Name(), bb.Name())
}

func instLoc(fn *ir.Function, inst *ir.Instruction) string {
	if inst.Parent != nil {
		return fmt.Sprintf("%s:%s:%s", fn.Name(), inst.Parent.Name(), inst.Name())
	}
	return fmt.Sprintf("%s:%s", fn.Name(), inst.Name())
}

func opName(inst *ir.Instruction) string {
	if inst.Name() != "" {
		return "%" + inst.Name()
	}
	return fmt.Sprintf("<opcode %d>", inst.Op)
}

// verifyCallingConvention enforces the calling-convention-specific
// rule §4.4 names as representative: amdgpu_kernel functions must
// return void, tolerant of every form the parser itself accepts.
func (v *verifier) verifyCallingConvention(fn *ir.Function) {
	if fn.CallConv == ir.CC_AMDGPU_KERNEL && fn.Sig.Ret.Kind() != ir.VoidKind {
		v.report("calling-convention", fn.Name(),
			"amdgpu_kernel function must return void, got %s", fn.Sig.Ret.String())
	}
}

// verifyArgumentAttrs enforces the attribute–type compatibility rule
// (§4.4) on a function's declared parameters: byref/byval/sret/
// inalloca/preallocated are valid only on pointer-typed parameters;
// elementtype may appear on integer or pointer parameters.
func (v *verifier) verifyArgumentAttrs(fn *ir.Function) {
	for _, arg := range fn.Args {
		for _, a := range arg.Attrs {
			switch a.Kind {
			case ir.AttrByRef, ir.AttrByVal, ir.AttrSRet, ir.AttrInAlloca, ir.AttrPreallocated:
				if arg.Type().Kind() != ir.PointerKind {
					v.report("attr-type", fn.Name(),
						"%s attribute on parameter %d is only valid on pointer-typed parameters, got %s",
						attrKindName(a.Kind), arg.Index, arg.Type().String())
				}
			case ir.AttrElementType:
				if k := arg.Type().Kind(); k != ir.IntegerKind && k != ir.PointerKind {
					v.report("attr-type", fn.Name(),
						"elementtype attribute on parameter %d is only valid on integer or pointer parameters, got %s",
						arg.Index, arg.Type().String())
				}
			}
		}
	}
}
