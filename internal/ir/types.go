package ir

import (
	"fmt"
	"strings"
)

// TypeKind tags the variant of Type, mirroring the teacher's
// BasicTypeKind enum but over LLVM's full type lattice instead of
// StaticLang's five primitives.
type TypeKind int

const (
	VoidKind TypeKind = iota
	LabelKind
	TokenKind
	MetadataKind
	IntegerKind
	HalfKind
	BFloatKind
	FloatKind
	DoubleKind
	X86FP80Kind
	FP128Kind
	PPCFP128Kind
	X86AmxKind
	PointerKind
	ArrayKind
	VectorKind
	StructKind
	FunctionKind
)

// Type is a hash-consed LLVM type handle. Two Type values produced by
// intern()-family calls on the same Context with equal keys are the
// same handle (interface value wrapping the same pointer); identified
// structs are the one exception — they are keyed, and compared, by
// name rather than by structural shape.
type Type interface {
	Kind() TypeKind
	String() string
	// Equals reports definitional equality within one Context. Two
	// Type handles from different Contexts are never equal.
	Equals(other Type) bool
	// IsSized reports whether the verifier may treat a value of this
	// type as occupying a concrete amount of storage (used for
	// alloca/array/vector element legality).
	IsSized() bool
	// IsFirstClass reports whether a value can have this type (Void and
	// Function are not first class; an opaque struct is).
	IsFirstClass() bool
}

// VoidType, LabelType, TokenType, MetadataType and X86AmxType are
// singleton primitive types; one instance per Context.
type simpleType struct {
	kind TypeKind
}

func (t *simpleType) Kind() TypeKind { return t.kind }

func (t *simpleType) String() string {
	switch t.kind {
	case VoidKind:
		return "void"
	case LabelKind:
		return "label"
	case TokenKind:
		return "token"
	case MetadataKind:
		return "metadata"
	case X86AmxKind:
		return "x86_amx"
	default:
		return "<unknown>"
	}
}

func (t *simpleType) Equals(other Type) bool {
	o, ok := other.(*simpleType)
	return ok && o.kind == t.kind
}

func (t *simpleType) IsSized() bool {
	return t.kind == X86AmxKind
}

func (t *simpleType) IsFirstClass() bool {
	return t.kind != VoidKind
}

// FloatingType identifies which IEEE-ish floating point flavor a
// FloatingType carries.
type FloatingType struct {
	kind TypeKind // one of Half/BFloat/Float/Double/X86FP80/FP128/PPC_FP128
}

func (t *FloatingType) Kind() TypeKind { return t.kind }

func (t *FloatingType) String() string {
	switch t.kind {
	case HalfKind:
		return "half"
	case BFloatKind:
		return "bfloat"
	case FloatKind:
		return "float"
	case DoubleKind:
		return "double"
	case X86FP80Kind:
		return "x86_fp80"
	case FP128Kind:
		return "fp128"
	case PPCFP128Kind:
		return "ppc_fp128"
	default:
		return "<unknown-float>"
	}
}

func (t *FloatingType) Equals(other Type) bool {
	o, ok := other.(*FloatingType)
	return ok && o.kind == t.kind
}

func (t *FloatingType) IsSized() bool      { return true }
func (t *FloatingType) IsFirstClass() bool { return true }

// Bits reports the size, in bits, of the float's in-memory
// representation (16 for half/bfloat, 80 for x86_fp80, 128 for
// fp128/ppc_fp128).
func (t *FloatingType) Bits() int {
	switch t.kind {
	case HalfKind, BFloatKind:
		return 16
	case FloatKind:
		return 32
	case DoubleKind:
		return 64
	case X86FP80Kind:
		return 80
	case FP128Kind, PPCFP128Kind:
		return 128
	default:
		return 0
	}
}

// IntegerType is LLVM's arbitrary-width integer type, i1..i8388607.
type IntegerType struct {
	Bits uint32
}

const MaxIntegerBits = 1<<23 - 1

func (t *IntegerType) Kind() TypeKind { return IntegerKind }
func (t *IntegerType) String() string { return fmt.Sprintf("i%d", t.Bits) }

func (t *IntegerType) Equals(other Type) bool {
	o, ok := other.(*IntegerType)
	return ok && o.Bits == t.Bits
}

func (t *IntegerType) IsSized() bool      { return true }
func (t *IntegerType) IsFirstClass() bool { return true }

// PointerType is always opaque: it carries only an address space, no
// pointee (§3 Type invariants).
type PointerType struct {
	AddrSpace uint32
}

func (t *PointerType) Kind() TypeKind { return PointerKind }

func (t *PointerType) String() string {
	if t.AddrSpace == 0 {
		return "ptr"
	}
	return fmt.Sprintf("ptr addrspace(%d)", t.AddrSpace)
}

func (t *PointerType) Equals(other Type) bool {
	o, ok := other.(*PointerType)
	return ok && o.AddrSpace == t.AddrSpace
}

func (t *PointerType) IsSized() bool      { return true }
func (t *PointerType) IsFirstClass() bool { return true }

// ArrayType is a fixed-length homogeneous aggregate.
type ArrayType struct {
	ElemType Type
	Len      uint64
}

func (t *ArrayType) Kind() TypeKind { return ArrayKind }
func (t *ArrayType) String() string { return fmt.Sprintf("[%d x %s]", t.Len, t.ElemType.String()) }

func (t *ArrayType) Equals(other Type) bool {
	o, ok := other.(*ArrayType)
	return ok && o.Len == t.Len && o.ElemType.Equals(t.ElemType)
}

func (t *ArrayType) IsSized() bool      { return t.ElemType.IsSized() }
func (t *ArrayType) IsFirstClass() bool { return true }

// VectorType is a fixed (or scalable) width SIMD aggregate.
type VectorType struct {
	ElemType  Type
	Len       uint64
	Scalable  bool
}

func (t *VectorType) Kind() TypeKind { return VectorKind }

func (t *VectorType) String() string {
	if t.Scalable {
		return fmt.Sprintf("<vscale x %d x %s>", t.Len, t.ElemType.String())
	}
	return fmt.Sprintf("<%d x %s>", t.Len, t.ElemType.String())
}

func (t *VectorType) Equals(other Type) bool {
	o, ok := other.(*VectorType)
	return ok && o.Len == t.Len && o.Scalable == t.Scalable && o.ElemType.Equals(t.ElemType)
}

func (t *VectorType) IsSized() bool      { return t.ElemType.IsSized() }
func (t *VectorType) IsFirstClass() bool { return true }

// StructType is either a hash-consed literal (compared structurally) or
// a nominal identified struct (compared by name, body set at most once
// — Opaque is the legal terminal "no body yet" state).
type StructType struct {
	// Name is non-empty for identified structs; empty for literals.
	Name     string
	Fields   []Type
	Packed   bool
	// HasBody is false for an identified struct with no body set
	// (the §4.2 "Opaque" terminal state). Literal structs always have
	// a body (possibly empty).
	HasBody bool
}

func (t *StructType) Kind() TypeKind { return StructKind }

func (t *StructType) String() string {
	if t.Name != "" {
		return "%" + t.Name
	}
	return t.bodyString()
}

func (t *StructType) bodyString() string {
	if !t.HasBody {
		return "opaque"
	}
	fields := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		fields[i] = f.String()
	}
	body := "{ " + strings.Join(fields, ", ") + " }"
	if len(t.Fields) == 0 {
		body = "{}"
	}
	if t.Packed {
		return "<" + body + ">"
	}
	return body
}

// Equals compares identified structs by name (nominal identity) and
// literal structs structurally, per §3.
func (t *StructType) Equals(other Type) bool {
	o, ok := other.(*StructType)
	if !ok {
		return false
	}
	if t.Name != "" || o.Name != "" {
		return t.Name == o.Name
	}
	if t.Packed != o.Packed || len(t.Fields) != len(o.Fields) {
		return false
	}
	for i, f := range t.Fields {
		if !f.Equals(o.Fields[i]) {
			return false
		}
	}
	return true
}

func (t *StructType) IsSized() bool {
	if !t.HasBody {
		return false
	}
	for _, f := range t.Fields {
		if !f.IsSized() {
			return false
		}
	}
	return true
}

func (t *StructType) IsFirstClass() bool { return true }

// FunctionType is the signature of a function value; it is never
// itself first-class (only Pointer-to-Function is), matching §3.
type FunctionType struct {
	Ret     Type
	Params  []Type
	VarArg  bool
}

func (t *FunctionType) Kind() TypeKind { return FunctionKind }

func (t *FunctionType) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.String()
	}
	if t.VarArg {
		params = append(params, "...")
	}
	return fmt.Sprintf("%s (%s)", t.Ret.String(), strings.Join(params, ", "))
}

func (t *FunctionType) Equals(other Type) bool {
	o, ok := other.(*FunctionType)
	if !ok || t.VarArg != o.VarArg || len(t.Params) != len(o.Params) {
		return false
	}
	if !t.Ret.Equals(o.Ret) {
		return false
	}
	for i, p := range t.Params {
		if !p.Equals(o.Params[i]) {
			return false
		}
	}
	return true
}

func (t *FunctionType) IsSized() bool      { return false }
func (t *FunctionType) IsFirstClass() bool { return false }
