package typesystem

import "testing"

func TestSubtypeReflexive(t *testing.T) {
	types := []Type{
		Null, Integer, Float, Char, Bool, String,
		Array(Integer),
		Array(Array(String)),
		Map(String, Integer),
		Heap(Float),
		Or(Integer, Float),
		Abra("Point"),
	}
	for _, ty := range types {
		if !IsSubtype(ty, ty) {
			t.Errorf("%s should be a subtype of itself", ty)
		}
	}
}

func TestNullCompatibleBothWays(t *testing.T) {
	types := []Type{
		Integer, String, Array(Integer), Map(String, Integer),
		Heap(Bool), Or(Integer, Float), Abra("Point"),
	}
	for _, ty := range types {
		if !IsSubtype(Null, ty) {
			t.Errorf("null should be a subtype of %s", ty)
		}
		if !IsSubtype(ty, Null) {
			t.Errorf("%s should be a subtype of null", ty)
		}
	}
}

func TestUnionRules(t *testing.T) {
	num := Or(Integer, Float)
	if !IsSubtype(Integer, num) {
		t.Error("integer <: (float | integer) via either branch")
	}
	if !IsSubtype(Float, num) {
		t.Error("float <: (float | integer)")
	}
	if IsSubtype(Bool, num) {
		t.Error("bool is not in (integer | float)")
	}
	// union on the left requires both branches
	if !IsSubtype(Or(Integer, Float), Or(Float, Or(Integer, Bool))) {
		t.Error("(integer | float) <: (float | (integer | bool))")
	}
	if IsSubtype(Or(Integer, Bool), num) {
		t.Error("(integer | bool) has a branch outside (integer | float)")
	}
}

func TestCovariance(t *testing.T) {
	intOrFloat := Or(Integer, Float)
	if !IsSubtype(Array(Integer), Array(intOrFloat)) {
		t.Error("arrays should be covariant in their element")
	}
	if IsSubtype(Array(intOrFloat), Array(Integer)) {
		t.Error("array covariance should not reverse")
	}
	if !IsSubtype(Heap(Integer), Heap(intOrFloat)) {
		t.Error("boxes should be covariant in their element")
	}
}

func TestMapVariance(t *testing.T) {
	intOrFloat := Or(Integer, Float)
	// values covariant
	if !IsSubtype(Map(String, Integer), Map(String, intOrFloat)) {
		t.Error("map values should be covariant")
	}
	// keys invariant
	if IsSubtype(Map(Integer, Bool), Map(intOrFloat, Bool)) {
		t.Error("map keys must be invariant, widening should fail")
	}
	if IsSubtype(Map(intOrFloat, Bool), Map(Integer, Bool)) {
		t.Error("map keys must be invariant, narrowing should fail")
	}
}

func TestNominalAbra(t *testing.T) {
	if !IsSubtype(Abra("Point"), Abra("Point")) {
		t.Error("same class name should relate")
	}
	if IsSubtype(Abra("Point"), Abra("Vector")) {
		t.Error("different class names must not relate")
	}
	if IsSubtype(Abra("Point"), Integer) {
		t.Error("classes and primitives must not relate")
	}
}

func TestCrossKindIncompatibility(t *testing.T) {
	pairs := [][2]Type{
		{Integer, Float},
		{Integer, String},
		{Array(Integer), Map(Integer, Integer)},
		{Array(Integer), Heap(Integer)},
		{Integer, Array(Integer)},
	}
	for _, p := range pairs {
		if IsSubtype(p[0], p[1]) {
			t.Errorf("%s should not be a subtype of %s", p[0], p[1])
		}
	}
}

func TestRendering(t *testing.T) {
	tests := []struct {
		ty   Type
		want string
	}{
		{Integer, "integer"},
		{Array(Integer), "[integer]"},
		{Map(String, Integer), "<string -> integer>"},
		{Heap(Float), "Box<float>"},
		{Or(Integer, Float), "(integer | float)"},
		{Abra("Point"), "Point"},
		{Null, "null"},
	}
	for _, tt := range tests {
		if got := tt.ty.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestSignatureRendering(t *testing.T) {
	sig := FunctionSignature{
		Name:   "sqrt",
		Params: []Type{Or(Float, Integer)},
		Return: Float,
	}
	if got := sig.String(); got != "sqrt((float | integer)) -> float" {
		t.Errorf("String() = %q", got)
	}
}
