// Package object implements the runtime value union and the heap object
// model: identity-addressed, mutably-shared allocations (boxed scalars,
// arrays, maps and class instances) owned by a VM instance.
package object

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/abra-lang/abra/internal/ast"
	"github.com/abra-lang/abra/internal/typesystem"
)

var (
	ErrBadCast   = errors.New("bad cast")
	errWrongKind = errors.New("unexpected value kind")
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindInteger
	KindFloat
	KindChar
	KindBool
	KindString
	KindRef
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindChar:
		return "char"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindRef:
		return "ref"
	}
	return "null"
}

// Value is the runtime tagged union. It is a small comparable struct so it
// can serve directly as a map key; a Ref holds a handle to heap state, never
// the state itself.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Char  rune
	Bool  bool
	Str   string
	Ref   Ref
}

// Null returns the null value.
func Null() Value { return Value{Kind: KindNull} }

// Integer wraps a 64-bit integer.
func Integer(v int64) Value { return Value{Kind: KindInteger, Int: v} }

// Float wraps a 64-bit float.
func Float(v float64) Value { return Value{Kind: KindFloat, Float: v} }

// Char wraps a character.
func Char(v rune) Value { return Value{Kind: KindChar, Char: v} }

// Bool wraps a boolean.
func Bool(v bool) Value { return Value{Kind: KindBool, Bool: v} }

// String wraps a string.
func String(v string) Value { return Value{Kind: KindString, Str: v} }

// RefValue wraps a heap handle.
func RefValue(r Ref) Value { return Value{Kind: KindRef, Ref: r} }

// FromStatic converts a compile-time literal into a runtime value.
func FromStatic(v ast.StaticValue) Value {
	switch v.Kind {
	case ast.StaticInteger:
		return Integer(v.Int)
	case ast.StaticFloat:
		return Float(v.Float)
	case ast.StaticChar:
		return Char(v.Char)
	case ast.StaticBool:
		return Bool(v.Bool)
	case ast.StaticString:
		return String(v.Str)
	}
	return Null()
}

// DefaultFor returns the zero value for a primitive type. Composite, Abra
// and union types have no direct default; they must be instantiated on the
// heap instead.
func DefaultFor(t typesystem.Type) (Value, error) {
	switch tt := t.(type) {
	case typesystem.NullType:
		return Null(), nil
	case typesystem.Primitive:
		switch tt {
		case typesystem.Integer:
			return Integer(0), nil
		case typesystem.Float:
			return Float(0), nil
		case typesystem.Char:
			return Char(0), nil
		case typesystem.Bool:
			return Bool(false), nil
		case typesystem.String:
			return String(""), nil
		}
	}
	return Null(), fmt.Errorf("no default value for type '%s'", t)
}

// Type maps a non-reference value to its static type. Reference values are
// typed by the heap (see Heap.TypeOf).
func (v Value) Type() typesystem.Type {
	switch v.Kind {
	case KindInteger:
		return typesystem.Integer
	case KindFloat:
		return typesystem.Float
	case KindChar:
		return typesystem.Char
	case KindBool:
		return typesystem.Bool
	case KindString:
		return typesystem.String
	}
	return typesystem.Null
}

func (v Value) String() string {
	switch v.Kind {
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindChar:
		return string(v.Char)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindString:
		return v.Str
	case KindRef:
		return fmt.Sprintf("Ref<%s>", v.Ref.ID)
	}
	return "null"
}

// ExpectInt returns the integer payload or fails.
func (v Value) ExpectInt() (int64, error) {
	if v.Kind != KindInteger {
		return 0, fmt.Errorf("%w: expected integer, found %s", errWrongKind, v.Kind)
	}
	return v.Int, nil
}

// ExpectFloat returns the float payload or fails.
func (v Value) ExpectFloat() (float64, error) {
	if v.Kind != KindFloat {
		return 0, fmt.Errorf("%w: expected float, found %s", errWrongKind, v.Kind)
	}
	return v.Float, nil
}

// ExpectBool returns the bool payload or fails.
func (v Value) ExpectBool() (bool, error) {
	if v.Kind != KindBool {
		return false, fmt.Errorf("%w: expected bool, found %s", errWrongKind, v.Kind)
	}
	return v.Bool, nil
}

// ExpectRef returns the heap handle or fails.
func (v Value) ExpectRef() (Ref, error) {
	if v.Kind != KindRef {
		return Ref{}, fmt.Errorf("%w: expected ref, found %s", errWrongKind, v.Kind)
	}
	return v.Ref, nil
}

// CastToBool coerces any primitive to a truth value: non-zero numbers,
// non-NUL chars and non-empty strings are true. References are not
// boolean-coercible.
func (v Value) CastToBool() (bool, error) {
	switch v.Kind {
	case KindBool:
		return v.Bool, nil
	case KindInteger:
		return v.Int != 0, nil
	case KindFloat:
		return v.Float != 0, nil
	case KindChar:
		return v.Char != 0, nil
	case KindString:
		return len(v.Str) != 0, nil
	}
	return false, fmt.Errorf("%w: cannot coerce %s to bool", ErrBadCast, v.Kind)
}

// CastToInt coerces any primitive to an integer, parsing strings.
func (v Value) CastToInt() (int64, error) {
	switch v.Kind {
	case KindInteger:
		return v.Int, nil
	case KindFloat:
		return int64(v.Float), nil
	case KindChar:
		return int64(v.Char), nil
	case KindBool:
		if v.Bool {
			return 1, nil
		}
		return 0, nil
	case KindString:
		n, err := strconv.ParseInt(v.Str, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: cannot coerce string %q to integer", ErrBadCast, v.Str)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%w: cannot coerce %s to integer", ErrBadCast, v.Kind)
}

// CastToFloat coerces any primitive to a float, parsing strings.
func (v Value) CastToFloat() (float64, error) {
	switch v.Kind {
	case KindFloat:
		return v.Float, nil
	case KindInteger:
		return float64(v.Int), nil
	case KindChar:
		return float64(v.Char), nil
	case KindBool:
		if v.Bool {
			return 1, nil
		}
		return 0, nil
	case KindString:
		f, err := strconv.ParseFloat(v.Str, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: cannot coerce string %q to float", ErrBadCast, v.Str)
		}
		return f, nil
	}
	return 0, fmt.Errorf("%w: cannot coerce %s to float", ErrBadCast, v.Kind)
}

// Cast coerces the value to a primitive target type. Only primitive targets
// are valid; composite, Abra, union and null targets fail.
func (v Value) Cast(to typesystem.Type) (Value, error) {
	p, ok := to.(typesystem.Primitive)
	if !ok {
		return Null(), fmt.Errorf("%w: cannot cast to type '%s'", ErrBadCast, to)
	}
	switch p {
	case typesystem.Bool:
		b, err := v.CastToBool()
		if err != nil {
			return Null(), err
		}
		return Bool(b), nil
	case typesystem.Integer:
		n, err := v.CastToInt()
		if err != nil {
			return Null(), err
		}
		return Integer(n), nil
	case typesystem.Float:
		f, err := v.CastToFloat()
		if err != nil {
			return Null(), err
		}
		return Float(f), nil
	case typesystem.Char:
		n, err := v.CastToInt()
		if err != nil {
			return Null(), err
		}
		return Char(rune(n)), nil
	case typesystem.String:
		if v.Kind == KindRef {
			return Null(), fmt.Errorf("%w: cannot stringify a ref", ErrBadCast)
		}
		return String(v.String()), nil
	}
	return Null(), fmt.Errorf("%w: cannot cast to type '%s'", ErrBadCast, to)
}
