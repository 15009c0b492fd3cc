package ir

import (
	"fmt"

	"github.com/pkg/errors"
)

// Context is the process-local registry described in §3: it owns the
// interned type table, the primitive singletons, and the symbol pool
// used for attribute/opcode keyword interning. Two values are "in the
// same context" iff they were produced through the same *Context;
// nothing in this package checks that invariant at runtime (callers who
// mix Contexts get undefined comparisons, same as the reference
// implementation), matching the teacher's DefaultTypeRegistry which
// likewise assumes single-registry discipline.
//
// The interner is append-only during a parse: intern() never removes or
// mutates an existing entry, so a Type handle obtained from a Context
// remains valid for that Context's lifetime (§5).
type Context struct {
	voidType     *simpleType
	labelType    *simpleType
	tokenType    *simpleType
	metadataType *simpleType
	x86amxType   *simpleType

	floats map[TypeKind]*FloatingType
	ints   map[uint32]*IntegerType
	ptrs   map[uint32]*PointerType

	// arrays/vectors key on a string form of (elem, len[, scalable]) —
	// structural hash-consing without needing a generic composite key
	// type.
	arrays  map[string]*ArrayType
	vectors map[string]*VectorType

	literalStructs   map[string]*StructType
	identifiedStructs map[string]*StructType
	funcTypes        map[string]*FunctionType

	symbols map[string]string // interned attribute/opcode keyword pool
}

// NewContext creates a fresh registry. Each parse that must not share
// uniquing state with another parse should use its own Context.
func NewContext() *Context {
	ctx := &Context{
		voidType:          &simpleType{kind: VoidKind},
		labelType:         &simpleType{kind: LabelKind},
		tokenType:         &simpleType{kind: TokenKind},
		metadataType:      &simpleType{kind: MetadataKind},
		x86amxType:        &simpleType{kind: X86AmxKind},
		floats:            make(map[TypeKind]*FloatingType),
		ints:              make(map[uint32]*IntegerType),
		ptrs:              make(map[uint32]*PointerType),
		arrays:            make(map[string]*ArrayType),
		vectors:           make(map[string]*VectorType),
		literalStructs:    make(map[string]*StructType),
		identifiedStructs: make(map[string]*StructType),
		funcTypes:         make(map[string]*FunctionType),
		symbols:           make(map[string]string),
	}
	return ctx
}

func (c *Context) VoidType() Type     { return c.voidType }
func (c *Context) LabelType() Type    { return c.labelType }
func (c *Context) TokenTy() Type      { return c.tokenType }
func (c *Context) MetadataTy() Type   { return c.metadataType }
func (c *Context) X86AmxType() Type   { return c.x86amxType }

// Float returns the uniqued floating point type of the given kind
// (HalfKind, BFloatKind, FloatKind, DoubleKind, X86FP80Kind, FP128Kind
// or PPCFP128Kind).
func (c *Context) Float(kind TypeKind) Type {
	if t, ok := c.floats[kind]; ok {
		return t
	}
	t := &FloatingType{kind: kind}
	c.floats[kind] = t
	return t
}

// Integer returns the uniqued i<bits> type. bits must be in [1,
// MaxIntegerBits]; IntegerChecked returns an error for an out-of-range
// width instead — Integer panics on programmer error the same way the
// teacher's type constructors assume validated input.
func (c *Context) Integer(bits uint32) Type {
	t, err := c.IntegerChecked(bits)
	if err != nil {
		panic(err)
	}
	return t
}

func (c *Context) IntegerChecked(bits uint32) (Type, error) {
	if bits < 1 || bits > MaxIntegerBits {
		return nil, errors.Errorf("integer bit-width %d out of range [1, %d]", bits, MaxIntegerBits)
	}
	if t, ok := c.ints[bits]; ok {
		return t, nil
	}
	t := &IntegerType{Bits: bits}
	c.ints[bits] = t
	return t, nil
}

// Pointer returns the uniqued opaque ptr type for the given address
// space.
func (c *Context) Pointer(addrSpace uint32) Type {
	if t, ok := c.ptrs[addrSpace]; ok {
		return t
	}
	t := &PointerType{AddrSpace: addrSpace}
	c.ptrs[addrSpace] = t
	return t
}

// Array returns the uniqued [len x elem] type.
func (c *Context) Array(elem Type, length uint64) Type {
	key := fmt.Sprintf("%p:%d", elemIdentity(elem), length)
	if t, ok := c.arrays[key]; ok {
		return t
	}
	t := &ArrayType{ElemType: elem, Len: length}
	c.arrays[key] = t
	return t
}

// Vector returns the uniqued <len x elem> or <vscale x len x elem> type.
func (c *Context) Vector(elem Type, length uint64, scalable bool) Type {
	key := fmt.Sprintf("%p:%d:%v", elemIdentity(elem), length, scalable)
	if t, ok := c.vectors[key]; ok {
		return t
	}
	t := &VectorType{ElemType: elem, Len: length, Scalable: scalable}
	c.vectors[key] = t
	return t
}

// StructLiteral returns the uniqued hash-consed literal struct type for
// the given field list; literal structs are compared and uniqued
// structurally, never by name.
func (c *Context) StructLiteral(fields []Type, packed bool) Type {
	key := structKey(fields, packed)
	if t, ok := c.literalStructs[key]; ok {
		return t
	}
	t := &StructType{Fields: append([]Type(nil), fields...), Packed: packed, HasBody: true}
	c.literalStructs[key] = t
	return t
}

// StructIdentified looks up or creates the nominal identified struct
// type with the given name. Repeated calls with the same name return
// the same handle regardless of body state (§4.2 "lookup-or-create").
func (c *Context) StructIdentified(name string) Type {
	if t, ok := c.identifiedStructs[name]; ok {
		return t
	}
	t := &StructType{Name: name}
	c.identifiedStructs[name] = t
	return t
}

// ErrBodyAlreadySet is returned by SetStructBody when a conflicting
// body is set twice for the same identified struct name.
var ErrBodyAlreadySet = errors.New("struct body already set")

// SetStructBody is the one-shot §4.2 operation: the first call on a
// name installs the body; a second call with a structurally identical
// body is a permitted no-op (idempotent); a second call with a
// different body fails with ErrBodyAlreadySet.
func (c *Context) SetStructBody(name string, fields []Type, packed bool) error {
	t, ok := c.identifiedStructs[name]
	if !ok {
		t = &StructType{Name: name}
		c.identifiedStructs[name] = t
	}
	if !t.HasBody {
		t.Fields = append([]Type(nil), fields...)
		t.Packed = packed
		t.HasBody = true
		return nil
	}
	if t.Packed == packed && sameFields(t.Fields, fields) {
		return nil
	}
	return errors.Wrapf(ErrBodyAlreadySet, "identified struct %%%s", name)
}

// Function returns the uniqued function signature type.
func (c *Context) Function(ret Type, params []Type, vararg bool) Type {
	key := funcKey(ret, params, vararg)
	if t, ok := c.funcTypes[key]; ok {
		return t
	}
	t := &FunctionType{Ret: ret, Params: append([]Type(nil), params...), VarArg: vararg}
	c.funcTypes[key] = t
	return t
}

// Intern is the general §4.2 entry point used by the parser when the
// concrete type shape isn't known until runtime (e.g. decoding a type
// keyword token into a constructor call). It simply dispatches to the
// typed constructors above.
func (c *Context) Intern(key TypeKey) Type {
	switch key.Kind {
	case VoidKind:
		return c.voidType
	case LabelKind:
		return c.labelType
	case TokenKind:
		return c.tokenType
	case MetadataKind:
		return c.metadataType
	case X86AmxKind:
		return c.x86amxType
	case HalfKind, BFloatKind, FloatKind, DoubleKind, X86FP80Kind, FP128Kind, PPCFP128Kind:
		return c.Float(key.Kind)
	case IntegerKind:
		return c.Integer(key.Bits)
	case PointerKind:
		return c.Pointer(key.AddrSpace)
	case ArrayKind:
		return c.Array(key.Elem, key.Len)
	case VectorKind:
		return c.Vector(key.Elem, key.Len, key.Scalable)
	case StructKind:
		if key.Name != "" {
			return c.StructIdentified(key.Name)
		}
		return c.StructLiteral(key.Fields, key.Packed)
	case FunctionKind:
		return c.Function(key.Elem, key.Fields, key.VarArg)
	default:
		panic(fmt.Sprintf("ir: unknown TypeKey kind %v", key.Kind))
	}
}

// Symbol interns a string in the Context's string pool, returning the
// canonical instance so repeated attribute/opcode names share storage
// (§3 Context ownership (c)).
func (c *Context) Symbol(s string) string {
	if v, ok := c.symbols[s]; ok {
		return v
	}
	c.symbols[s] = s
	return s
}

// TypeKey is a structural description of a type used by Intern; it
// exists so callers (chiefly the parser) can build up a type
// description before knowing which Context constructor to call.
type TypeKey struct {
	Kind     TypeKind
	Bits     uint32
	AddrSpace uint32
	Elem     Type
	Len      uint64
	Scalable bool
	Name     string
	Fields   []Type
	Packed   bool
	VarArg   bool
}

func elemIdentity(t Type) any {
	return t
}

func sameFields(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equals(b[i]) {
			return false
		}
	}
	return true
}

func structKey(fields []Type, packed bool) string {
	s := fmt.Sprintf("packed=%v", packed)
	for _, f := range fields {
		s += fmt.Sprintf(":%p", elemIdentity(f))
	}
	return s
}

func funcKey(ret Type, params []Type, vararg bool) string {
	s := fmt.Sprintf("%p:%v", elemIdentity(ret), vararg)
	for _, p := range params {
		s += fmt.Sprintf(":%p", elemIdentity(p))
	}
	return s
}
