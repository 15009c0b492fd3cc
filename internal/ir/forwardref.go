package ir

// ForwardRef is the typed placeholder the parser installs the moment it
// sees a `@name`, `%name`/`%N`, or `!N` reference whose definition
// hasn't been parsed yet (§4.3 "Forward references"). Every use of the
// placeholder is recorded the normal way through AddUse, so resolving
// the reference is one RewriteAllUsesWith call once the real Value
// shows up — no separate fixup list to walk.
type ForwardRef struct {
	valueBase
	// Kind distinguishes local-value, global-value and metadata
	// placeholders purely for diagnostics; it plays no role in
	// resolution, which is name/id keyed in the parser's symbol
	// tables.
	Kind string
}

func NewForwardRef(kind string, typ Type, name string) *ForwardRef {
	return &ForwardRef{valueBase: valueBase{typ: typ, name: name}, Kind: kind}
}

func (f *ForwardRef) ValueKind() ValueKind { return ValForwardRef }
func (f *ForwardRef) base() *valueBase     { return &f.valueBase }

// isConstant lets a ForwardRef stand in for an ir.Constant wherever a
// forward-referenced global or function is used in constant position
// (an initializer, a constant expression operand) before its real
// definition has been parsed.
func (f *ForwardRef) isConstant() {}
