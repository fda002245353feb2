package ast

import (
	"strconv"

	"github.com/abra-lang/abra/internal/typesystem"
)

// StaticKind tags the variant held by a StaticValue.
type StaticKind uint8

const (
	StaticNull StaticKind = iota
	StaticInteger
	StaticFloat
	StaticChar
	StaticBool
	StaticString
)

// StaticValue is the compile-time-constructible subset of runtime values:
// the literals a parser can produce and an instruction can carry. It never
// holds a heap reference.
type StaticValue struct {
	Kind  StaticKind
	Int   int64
	Float float64
	Char  rune
	Bool  bool
	Str   string
}

// NullValue returns the null literal.
func NullValue() StaticValue { return StaticValue{Kind: StaticNull} }

// IntegerValue returns an integer literal.
func IntegerValue(v int64) StaticValue { return StaticValue{Kind: StaticInteger, Int: v} }

// FloatValue returns a float literal.
func FloatValue(v float64) StaticValue { return StaticValue{Kind: StaticFloat, Float: v} }

// CharValue returns a char literal.
func CharValue(v rune) StaticValue { return StaticValue{Kind: StaticChar, Char: v} }

// BoolValue returns a bool literal.
func BoolValue(v bool) StaticValue { return StaticValue{Kind: StaticBool, Bool: v} }

// StringValue returns a string literal.
func StringValue(v string) StaticValue { return StaticValue{Kind: StaticString, Str: v} }

// Type maps the literal to its primitive type.
func (v StaticValue) Type() typesystem.Type {
	switch v.Kind {
	case StaticInteger:
		return typesystem.Integer
	case StaticFloat:
		return typesystem.Float
	case StaticChar:
		return typesystem.Char
	case StaticBool:
		return typesystem.Bool
	case StaticString:
		return typesystem.String
	}
	return typesystem.Null
}

func (v StaticValue) String() string {
	switch v.Kind {
	case StaticInteger:
		return strconv.FormatInt(v.Int, 10)
	case StaticFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case StaticChar:
		return string(v.Char)
	case StaticBool:
		return strconv.FormatBool(v.Bool)
	case StaticString:
		return v.Str
	}
	return "null"
}
