package ir

import "testing"

// §8 property 1: interner idempotence — two calls with the same type
// key return the same handle.
func TestIntegerInterningIdempotent(t *testing.T) {
	ctx := NewContext()
	a := ctx.Integer(32)
	b := ctx.Integer(32)
	if a != b {
		t.Fatalf("want same *IntegerType handle for i32, got distinct handles")
	}
	if ctx.Integer(64) == a {
		t.Fatalf("i64 must not alias i32's handle")
	}
}

func TestArrayAndVectorInterningIdempotent(t *testing.T) {
	ctx := NewContext()
	i8 := ctx.Integer(8)
	a1 := ctx.Array(i8, 4)
	a2 := ctx.Array(i8, 4)
	if a1 != a2 {
		t.Fatalf("want same handle for [4 x i8] on repeated calls")
	}
	if ctx.Array(i8, 8) == a1 {
		t.Fatalf("[8 x i8] must not alias [4 x i8]'s handle")
	}
	v1 := ctx.Vector(i8, 4, false)
	v2 := ctx.Vector(i8, 4, false)
	if v1 != v2 {
		t.Fatalf("want same handle for <4 x i8> on repeated calls")
	}
	if ctx.Vector(i8, 4, true) == v1 {
		t.Fatalf("scalable <vscale x 4 x i8> must not alias the fixed-length handle")
	}
}

// Literal structs are uniqued structurally: two calls with equal field
// lists return the same handle even though no name identifies them.
func TestLiteralStructHashConsing(t *testing.T) {
	ctx := NewContext()
	i32 := ctx.Integer(32)
	ptr := ctx.Pointer(0)
	s1 := ctx.StructLiteral([]Type{i32, ptr}, false)
	s2 := ctx.StructLiteral([]Type{i32, ptr}, false)
	if s1 != s2 {
		t.Fatalf("want same handle for structurally-equal literal structs")
	}
	if ctx.StructLiteral([]Type{i32, ptr}, true) == s1 {
		t.Fatalf("packed variant must not alias the unpacked handle")
	}
}

// Identified structs compare by name, never by body (§3 invariant).
func TestIdentifiedStructComparesByName(t *testing.T) {
	ctx := NewContext()
	a := ctx.StructIdentified("Foo")
	b := ctx.StructIdentified("Foo")
	if a != b {
		t.Fatalf("want same handle for repeated lookups of %%Foo")
	}
	if err := ctx.SetStructBody("Foo", []Type{ctx.Integer(32)}, false); err != nil {
		t.Fatalf("first SetStructBody must succeed: %v", err)
	}
	// Same body again is idempotent.
	if err := ctx.SetStructBody("Foo", []Type{ctx.Integer(32)}, false); err != nil {
		t.Fatalf("repeating the same body must be a no-op, got: %v", err)
	}
	// Conflicting body fails.
	if err := ctx.SetStructBody("Foo", []Type{ctx.Integer(64)}, false); err == nil {
		t.Fatalf("want ErrBodyAlreadySet for a conflicting second body")
	}
}

// An opaque identified struct (no body ever set) is a legal terminal
// state.
func TestOpaqueIdentifiedStructIsLegal(t *testing.T) {
	ctx := NewContext()
	t1 := ctx.StructIdentified("Opaque")
	st, ok := t1.(*StructType)
	if !ok {
		t.Fatalf("want *StructType, got %T", t1)
	}
	if st.HasBody {
		t.Fatalf("want no body set on a freshly looked-up identified struct")
	}
}

func TestIntegerBitWidthOutOfRange(t *testing.T) {
	ctx := NewContext()
	if _, err := ctx.IntegerChecked(0); err == nil {
		t.Fatalf("want error for 0-bit integer")
	}
	if _, err := ctx.IntegerChecked(MaxIntegerBits + 1); err == nil {
		t.Fatalf("want error for integer width beyond MaxIntegerBits")
	}
}
