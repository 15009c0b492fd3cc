package ir

// ValueKind tags the polymorphic Value hierarchy (§9 "Polymorphic Value
// hierarchy": a tagged sum with a shared header, not virtual dispatch).
type ValueKind int

const (
	ValArgument ValueKind = iota
	ValBasicBlock
	ValFunction
	ValGlobalVariable
	ValInstruction
	ValConstant
	ValForwardRef
)

// Value is anything that can be an operand: constants, arguments,
// instructions, basic blocks (first class, type Label), functions and
// globals (first class, type Pointer).
type Value interface {
	ValueKind() ValueKind
	Type() Type
	Name() string
	SetName(string)
	// Uses lists every User currently referencing this Value. Builders
	// and the parser's forward-reference rewriter both append to this
	// list; nothing ever removes an entry except RewriteAllUsesWith, which
	// moves entries wholesale to the real definition.
	Uses() []*Use
	addUse(u *Use)
}

// Use is one operand slot: which User holds a reference, and which
// operand index within that User. RewriteAllUsesWith walks a value's
// Uses() and overwrites each slot, which is how forward-reference
// resolution (§4.3 "Forward references") and placeholder rewriting both
// work without walking the whole module.
type Use struct {
	User  User
	Index int
}

// User is any Value that can hold operand references to other Values
// (instructions, constant expressions, global initializers). SetOperand
// lets RewriteAllUsesWith overwrite a single slot in place.
type User interface {
	Value
	Operand(i int) Value
	SetOperand(i int, v Value)
	NumOperands() int
}

// valueBase is the common header every concrete Value embeds, matching
// §3's "common fields type, optional_name (local or global), uses" and
// the teacher's BaseNode embedding pattern.
type valueBase struct {
	typ  Type
	name string
	uses []*Use
}

func (v *valueBase) Type() Type       { return v.typ }
func (v *valueBase) Name() string     { return v.name }
func (v *valueBase) SetName(n string) { v.name = n }
func (v *valueBase) Uses() []*Use     { return v.uses }
func (v *valueBase) addUse(u *Use)    { v.uses = append(v.uses, u) }

// RewriteAllUsesWith redirects every recorded use of old to new and
// clears old's use list, the mechanism behind §8 property 3
// ("Forward-ref closure": after a successful parse no placeholder
// remains reachable).
func RewriteAllUsesWith(old, new Value) {
	base := valueBaseOf(old)
	if base == nil {
		return
	}
	for _, u := range base.uses {
		u.User.SetOperand(u.Index, new)
		if nb := valueBaseOf(new); nb != nil {
			nb.addUse(u)
		}
	}
	base.uses = nil
}

// valueBaseOf extracts the embedded valueBase header via the
// baseHolder interface concrete Value types implement; it's an internal
// escape hatch so RewriteAllUsesWith doesn't need a type switch over
// every concrete kind.
type baseHolder interface {
	base() *valueBase
}

func valueBaseOf(v Value) *valueBase {
	if bh, ok := v.(baseHolder); ok {
		return bh.base()
	}
	return nil
}

// AddUse records that user references v at operand index idx. Called by
// every User constructor/mutator that stores a Value operand.
func AddUse(v Value, user User, idx int) {
	v.addUse(&Use{User: user, Index: idx})
}
