package verifier

import "github.com/sokoide/llir/internal/ir"

// moduleFlagBehaviors are the legal first-element values of a
// `!llvm.module.flags` entry (§4.4: "behavior ∈ {Error=1, ..., Min=8}").
const (
	behaviorError = 1
	behaviorMin   = 1
	behaviorMax   = 8
)

// verifyModuleFlags checks §4.4's module-flag rule: every entry in
// `!llvm.module.flags` is a `{behavior:i32, key:MDString, value}`
// triple, behavior is in range, and two entries sharing a key conflict
// if either uses Error behavior (the SUPPLEMENTED duplicate-Error-key
// check).
func (v *verifier) verifyModuleFlags() {
	nm := v.findNamedMetadata("llvm.module.flags")
	if nm == nil {
		return
	}
	seenBehavior := map[string]int64{}
	for _, entry := range nm.Operands {
		tup, ok := entry.Resolved.(*ir.MDTuple)
		if !ok || len(tup.Operands) != 3 {
			v.report("module-flags", "!llvm.module.flags",
				"module flag entry must be a 3-element {behavior, key, value} tuple")
			continue
		}
		behavior, ok := behaviorOf(tup.Operands[0])
		if !ok || behavior < behaviorMin || behavior > behaviorMax {
			v.report("module-flags", "!llvm.module.flags",
				"module flag behavior must be an i32 constant in [1, 8]")
			continue
		}
		key, ok := tup.Operands[1].(*ir.MDString)
		if !ok {
			v.report("module-flags", "!llvm.module.flags",
				"module flag key must be a metadata string")
			continue
		}
		if prev, exists := seenBehavior[key.Val]; exists && (behavior == behaviorError || prev == behaviorError) {
			v.report("module-flags", "!llvm.module.flags",
				"module flag key %q is defined more than once with Error behavior", key.Val)
		}
		seenBehavior[key.Val] = behavior
	}
}

func behaviorOf(md ir.Metadata) (int64, bool) {
	vam, ok := md.(*ir.ValueAsMetadata)
	if !ok {
		return 0, false
	}
	ci, ok := vam.V.(*ir.ConstantInt)
	if !ok {
		return 0, false
	}
	return ci.Val.Int64(), true
}

func (v *verifier) findNamedMetadata(name string) *ir.NamedMetadata {
	for _, nm := range v.mod.NamedMetadata {
		if nm.Name == name {
			return nm
		}
	}
	return nil
}
