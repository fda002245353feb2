// Package typesystem defines the Abra type model: a closed union of type
// forms and the structural subtyping relation the checker, compiler and VM
// all share.
package typesystem

import (
	"fmt"
	"strings"
)

// Type is the interface for all types in the system. The variant set is
// closed: Null, the five primitives, the three composites, Or unions and
// nominal Abra class references.
type Type interface {
	String() string
	isType()
}

// NullType is both the type of the null literal and the error-recovery type
// the checker produces when it cannot determine anything better.
type NullType struct{}

func (NullType) isType()        {}
func (NullType) String() string { return "null" }

// Primitive is one of the five scalar types.
type Primitive uint8

const (
	IntegerKind Primitive = iota
	FloatKind
	CharKind
	BoolKind
	StringKind
)

func (Primitive) isType() {}

func (p Primitive) String() string {
	switch p {
	case IntegerKind:
		return "integer"
	case FloatKind:
		return "float"
	case CharKind:
		return "char"
	case BoolKind:
		return "bool"
	case StringKind:
		return "string"
	}
	return fmt.Sprintf("primitive(%d)", uint8(p))
}

// ArrayType is a covariant sequence of Elem.
type ArrayType struct{ Elem Type }

func (ArrayType) isType()          {}
func (t ArrayType) String() string { return "[" + t.Elem.String() + "]" }

// MapType is invariant in Key and covariant in Value.
type MapType struct{ Key, Value Type }

func (MapType) isType() {}
func (t MapType) String() string {
	return "<" + t.Key.String() + " -> " + t.Value.String() + ">"
}

// HeapType is a single heap-boxed cell of Elem, covariant.
type HeapType struct{ Elem Type }

func (HeapType) isType()          {}
func (t HeapType) String() string { return "Box<" + t.Elem.String() + ">" }

// OrType is a two-way union. Wider unions nest.
type OrType struct{ Left, Right Type }

func (OrType) isType() {}
func (t OrType) String() string {
	return "(" + t.Left.String() + " | " + t.Right.String() + ")"
}

// AbraType is a nominal reference to a user-defined class.
type AbraType struct{ Name string }

func (AbraType) isType()          {}
func (t AbraType) String() string { return t.Name }

// Convenient singletons for the scalar types.
var (
	Null    = NullType{}
	Integer = IntegerKind
	Float   = FloatKind
	Char    = CharKind
	Bool    = BoolKind
	String  = StringKind
)

// Array returns the array type of elem.
func Array(elem Type) Type { return ArrayType{Elem: elem} }

// Map returns the map type from key to value.
func Map(key, value Type) Type { return MapType{Key: key, Value: value} }

// Heap returns the heap-boxed type of elem.
func Heap(elem Type) Type { return HeapType{Elem: elem} }

// Or returns the union of left and right.
func Or(left, right Type) Type { return OrType{Left: left, Right: right} }

// Abra returns the nominal type naming a user-defined class.
func Abra(name string) Type { return AbraType{Name: name} }

// IsSubtype reports whether sub <: super under the structural lattice:
//
//   - reflexive for every construction;
//   - Null is compatible with any type, in both directions;
//   - S <: (T1 | T2) iff S <: T1 or S <: T2;
//   - (S1 | S2) <: T iff S1 <: T and S2 <: T;
//   - arrays and boxes are covariant in their element type;
//   - maps are invariant in keys, covariant in values;
//   - Abra types relate by name only.
func IsSubtype(sub, super Type) bool {
	if sub == super {
		return true
	}
	if _, ok := sub.(NullType); ok {
		return true
	}
	if _, ok := super.(NullType); ok {
		return true
	}
	if or, ok := super.(OrType); ok {
		return IsSubtype(sub, or.Left) || IsSubtype(sub, or.Right)
	}
	if or, ok := sub.(OrType); ok {
		return IsSubtype(or.Left, super) && IsSubtype(or.Right, super)
	}

	switch s := sub.(type) {
	case Primitive:
		o, ok := super.(Primitive)
		return ok && s == o
	case AbraType:
		o, ok := super.(AbraType)
		return ok && s.Name == o.Name
	case ArrayType:
		o, ok := super.(ArrayType)
		return ok && IsSubtype(s.Elem, o.Elem)
	case MapType:
		o, ok := super.(MapType)
		return ok && IsSubtype(s.Key, o.Key) && IsSubtype(o.Key, s.Key) &&
			IsSubtype(s.Value, o.Value)
	case HeapType:
		o, ok := super.(HeapType)
		return ok && IsSubtype(s.Elem, o.Elem)
	}
	return false
}

// FunctionSignature describes a callable: its name, the ordered parameter
// types and the return type. User functions and inbuilt natives share this
// shape and a single call namespace.
type FunctionSignature struct {
	Name   string
	Params []Type
	Return Type
}

func (s FunctionSignature) String() string {
	var sb strings.Builder
	sb.WriteString(s.Name)
	sb.WriteByte('(')
	for i, p := range s.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteString(") -> ")
	sb.WriteString(s.Return.String())
	return sb.String()
}
