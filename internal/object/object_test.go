package object

import (
	"errors"
	"testing"

	"github.com/abra-lang/abra/internal/typesystem"
)

func TestCastToBool(t *testing.T) {
	tests := []struct {
		in   Value
		want bool
	}{
		{Integer(0), false},
		{Integer(7), true},
		{Integer(-1), true},
		{Float(0), false},
		{Float(0.5), true},
		{Char(0), false},
		{Char('a'), true},
		{String(""), false},
		{String("x"), true},
		{Bool(true), true},
		{Bool(false), false},
	}
	for _, tt := range tests {
		got, err := tt.in.CastToBool()
		if err != nil {
			t.Fatalf("CastToBool(%v): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("CastToBool(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCastMatrix(t *testing.T) {
	tests := []struct {
		in   Value
		to   typesystem.Type
		want Value
	}{
		{Integer(65), typesystem.Char, Char('A')},
		{Integer(3), typesystem.Float, Float(3)},
		{Float(3.9), typesystem.Integer, Integer(3)},
		{Char('A'), typesystem.Integer, Integer(65)},
		{Bool(true), typesystem.Integer, Integer(1)},
		{String("42"), typesystem.Integer, Integer(42)},
		{String("2.5"), typesystem.Float, Float(2.5)},
		{Integer(42), typesystem.String, String("42")},
		{Bool(false), typesystem.String, String("false")},
	}
	for _, tt := range tests {
		got, err := tt.in.Cast(tt.to)
		if err != nil {
			t.Fatalf("Cast(%v, %s): %v", tt.in, tt.to, err)
		}
		if got != tt.want {
			t.Errorf("Cast(%v, %s) = %v, want %v", tt.in, tt.to, got, tt.want)
		}
	}
}

func TestCastErrors(t *testing.T) {
	if _, err := String("nope").Cast(typesystem.Integer); !errors.Is(err, ErrBadCast) {
		t.Errorf("parsing a non-numeric string should fail, got %v", err)
	}
	if _, err := Null().Cast(typesystem.Bool); !errors.Is(err, ErrBadCast) {
		t.Errorf("casting null should fail, got %v", err)
	}
}

func TestArithPromotion(t *testing.T) {
	got, err := Sub(Integer(5), Integer(2))
	if err != nil {
		t.Fatal(err)
	}
	if got != Integer(3) {
		t.Fatalf("5 - 2 = %v, want 3", got)
	}

	got, err = Add(Integer(1), Float(0.5))
	if err != nil {
		t.Fatal(err)
	}
	if got != Float(1.5) {
		t.Fatalf("1 + 0.5 = %v, want 1.5", got)
	}

	got, err = Add(String("ab"), String("cd"))
	if err != nil {
		t.Fatal(err)
	}
	if got != String("abcd") {
		t.Fatalf("string concat = %v", got)
	}

	if _, err := Div(Integer(1), Integer(0)); !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("integer division by zero: got %v", err)
	}
	if _, err := Div(Float(1), Float(0)); !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("float division by zero: got %v", err)
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b Value
		want int
	}{
		{Integer(1), Integer(2), -1},
		{Integer(2), Integer(2), 0},
		{Float(2.5), Integer(2), 1},
		{Char('a'), Char('b'), -1},
		{String("abc"), String("abd"), -1},
	}
	for _, tt := range tests {
		got, err := Compare(tt.a, tt.b)
		if err != nil {
			t.Fatalf("Compare(%v, %v): %v", tt.a, tt.b, err)
		}
		if got != tt.want {
			t.Errorf("Compare(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
	if _, err := Compare(Bool(true), Bool(false)); err == nil {
		t.Error("bools should not be ordered")
	}
}

func TestEqualNumericCrossKind(t *testing.T) {
	if !Equal(Integer(2), Float(2)) {
		t.Error("2 should equal 2.0")
	}
	if Equal(Integer(2), String("2")) {
		t.Error("2 should not equal \"2\"")
	}
}

func TestHeapBoxAndTombstone(t *testing.T) {
	h := NewHeap(nil)
	ref, err := h.Alloc(typesystem.Heap(typesystem.Integer), []Value{Integer(41)})
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Set(ref, Null(), Integer(42)); err != nil {
		t.Fatal(err)
	}
	got, err := h.Get(ref, Null())
	if err != nil {
		t.Fatal(err)
	}
	if got != Integer(42) {
		t.Fatalf("box reads %v, want 42", got)
	}

	if err := h.Delete(ref); err != nil {
		t.Fatal(err)
	}
	if _, err := h.Get(ref, Null()); !errors.Is(err, ErrNullDereference) {
		t.Errorf("get after delete: got %v", err)
	}
	if err := h.Set(ref, Null(), Integer(1)); !errors.Is(err, ErrNullDereference) {
		t.Errorf("set after delete: got %v", err)
	}
	if err := h.Delete(ref); !errors.Is(err, ErrNullDereference) {
		t.Errorf("double delete: got %v", err)
	}
}

func TestHeapArrayBounds(t *testing.T) {
	h := NewHeap(nil)
	ref, err := h.Alloc(typesystem.Array(typesystem.Integer), []Value{Integer(1), Integer(2), Integer(3)})
	if err != nil {
		t.Fatal(err)
	}

	// constructor arguments keep source order
	first, err := h.Get(ref, Integer(0))
	if err != nil {
		t.Fatal(err)
	}
	if first != Integer(1) {
		t.Fatalf("a[0] = %v, want 1", first)
	}

	n, err := h.Len(ref)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("len = %d, want 3", n)
	}

	if _, err := h.Get(ref, Integer(3)); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("read past end: got %v", err)
	}
	if _, err := h.Get(ref, Integer(-1)); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("negative index: got %v", err)
	}
	if err := h.Set(ref, Integer(3), Integer(9)); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("write past end: got %v", err)
	}
}

func TestHeapMap(t *testing.T) {
	h := NewHeap(nil)
	ref, err := h.Alloc(typesystem.Map(typesystem.String, typesystem.Integer),
		[]Value{String("a"), Integer(1), String("b"), Integer(2)})
	if err != nil {
		t.Fatal(err)
	}

	got, err := h.Get(ref, String("b"))
	if err != nil {
		t.Fatal(err)
	}
	if got != Integer(2) {
		t.Fatalf("m[b] = %v, want 2", got)
	}

	if _, err := h.Get(ref, String("zzz")); !errors.Is(err, ErrMapKeyNotFound) {
		t.Errorf("missing key: got %v", err)
	}

	// writes insert new keys
	if err := h.Set(ref, String("c"), Integer(3)); err != nil {
		t.Fatal(err)
	}
	n, _ := h.Len(ref)
	if n != 3 {
		t.Fatalf("len after insert = %d, want 3", n)
	}

	if got := h.FormatValue(RefValue(ref)); got != "{a: 1, b: 2, c: 3}" {
		t.Errorf("FormatValue = %q", got)
	}
}

func TestHeapInstanceDefaults(t *testing.T) {
	classes := map[string]*ClassDefinition{
		"Point": {
			Name: "Point",
			Fields: map[string]Field{
				"x": {Type: typesystem.Integer, Default: Integer(0)},
				"y": {Type: typesystem.Integer, Default: Integer(0)},
			},
			FieldOrder: []string{"x", "y"},
		},
	}
	h := NewHeap(classes)
	ref, err := h.Alloc(typesystem.Abra("Point"), nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := h.Set(ref, String("x"), Integer(5)); err != nil {
		t.Fatal(err)
	}
	got, err := h.Get(ref, String("x"))
	if err != nil {
		t.Fatal(err)
	}
	if got != Integer(5) {
		t.Fatalf("p.x = %v, want 5", got)
	}
	if _, err := h.Get(ref, String("z")); err == nil {
		t.Error("reading an undeclared field should fail")
	}
	if err := h.Set(ref, String("z"), Integer(1)); err == nil {
		t.Error("writing an undeclared field should fail")
	}

	if got := h.FormatValue(RefValue(ref)); got != "Point{x: 5, y: 0}" {
		t.Errorf("FormatValue = %q", got)
	}
}

func TestRefIdentity(t *testing.T) {
	h := NewHeap(nil)
	a, _ := h.Alloc(typesystem.Array(typesystem.Integer), []Value{Integer(1)})
	b, _ := h.Alloc(typesystem.Array(typesystem.Integer), []Value{Integer(1)})
	if Equal(RefValue(a), RefValue(b)) {
		t.Error("distinct allocations with equal contents must not compare equal")
	}
	if !Equal(RefValue(a), RefValue(a)) {
		t.Error("a ref must equal itself")
	}
}

func TestFormatValueNested(t *testing.T) {
	h := NewHeap(nil)
	inner, _ := h.Alloc(typesystem.Array(typesystem.Integer), []Value{Integer(1), Integer(2)})
	outer, _ := h.Alloc(typesystem.Array(typesystem.Array(typesystem.Integer)), []Value{RefValue(inner)})
	if got := h.FormatValue(RefValue(outer)); got != "[[1, 2]]" {
		t.Errorf("FormatValue = %q", got)
	}
}
