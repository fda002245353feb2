package object

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrDivisionByZero = errors.New("division by zero")
	errBadOperands    = errors.New("invalid operand types")
)

// numeric promotion: integer op float runs in float space.
func promote(a, b Value) (float64, float64, bool) {
	var x, y float64
	switch a.Kind {
	case KindInteger:
		x = float64(a.Int)
	case KindFloat:
		x = a.Float
	default:
		return 0, 0, false
	}
	switch b.Kind {
	case KindInteger:
		y = float64(b.Int)
	case KindFloat:
		y = b.Float
	default:
		return 0, 0, false
	}
	return x, y, a.Kind == KindFloat || b.Kind == KindFloat
}

// Add computes a + b. Both integers stay integer, any float promotes, and
// two strings concatenate.
func Add(a, b Value) (Value, error) {
	if a.Kind == KindString && b.Kind == KindString {
		return String(a.Str + b.Str), nil
	}
	if a.Kind == KindInteger && b.Kind == KindInteger {
		return Integer(a.Int + b.Int), nil
	}
	if a.IsNumeric() && b.IsNumeric() {
		x, y, _ := promote(a, b)
		return Float(x + y), nil
	}
	return Null(), fmt.Errorf("%w: cannot add %s and %s", errBadOperands, a.Kind, b.Kind)
}

// Sub computes a - b.
func Sub(a, b Value) (Value, error) {
	if a.Kind == KindInteger && b.Kind == KindInteger {
		return Integer(a.Int - b.Int), nil
	}
	if a.IsNumeric() && b.IsNumeric() {
		x, y, _ := promote(a, b)
		return Float(x - y), nil
	}
	return Null(), fmt.Errorf("%w: cannot subtract %s from %s", errBadOperands, b.Kind, a.Kind)
}

// Mul computes a * b.
func Mul(a, b Value) (Value, error) {
	if a.Kind == KindInteger && b.Kind == KindInteger {
		return Integer(a.Int * b.Int), nil
	}
	if a.IsNumeric() && b.IsNumeric() {
		x, y, _ := promote(a, b)
		return Float(x * y), nil
	}
	return Null(), fmt.Errorf("%w: cannot multiply %s and %s", errBadOperands, a.Kind, b.Kind)
}

// Div computes a / b; integer division truncates, and a zero divisor is a
// runtime error in both spaces.
func Div(a, b Value) (Value, error) {
	if a.Kind == KindInteger && b.Kind == KindInteger {
		if b.Int == 0 {
			return Null(), ErrDivisionByZero
		}
		return Integer(a.Int / b.Int), nil
	}
	if a.IsNumeric() && b.IsNumeric() {
		x, y, _ := promote(a, b)
		if y == 0 {
			return Null(), ErrDivisionByZero
		}
		return Float(x / y), nil
	}
	return Null(), fmt.Errorf("%w: cannot divide %s by %s", errBadOperands, a.Kind, b.Kind)
}

// Mod computes a % b; float operands use math.Mod.
func Mod(a, b Value) (Value, error) {
	if a.Kind == KindInteger && b.Kind == KindInteger {
		if b.Int == 0 {
			return Null(), ErrDivisionByZero
		}
		return Integer(a.Int % b.Int), nil
	}
	if a.IsNumeric() && b.IsNumeric() {
		x, y, _ := promote(a, b)
		if y == 0 {
			return Null(), ErrDivisionByZero
		}
		return Float(math.Mod(x, y)), nil
	}
	return Null(), fmt.Errorf("%w: cannot take %s modulo %s", errBadOperands, a.Kind, b.Kind)
}

// Neg computes -a for numeric operands.
func Neg(a Value) (Value, error) {
	switch a.Kind {
	case KindInteger:
		return Integer(-a.Int), nil
	case KindFloat:
		return Float(-a.Float), nil
	}
	return Null(), fmt.Errorf("%w: cannot negate %s", errBadOperands, a.Kind)
}

// IsNumeric reports whether the value is an integer or float.
func (v Value) IsNumeric() bool {
	return v.Kind == KindInteger || v.Kind == KindFloat
}

// Equal reports structural equality for scalars and identity for refs.
// Mixed integer/float operands compare numerically; any other kind
// mismatch is simply unequal.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		if a.IsNumeric() && b.IsNumeric() {
			x, y, _ := promote(a, b)
			return x == y
		}
		return false
	}
	switch a.Kind {
	case KindNull:
		return true
	case KindInteger:
		return a.Int == b.Int
	case KindFloat:
		return a.Float == b.Float
	case KindChar:
		return a.Char == b.Char
	case KindBool:
		return a.Bool == b.Bool
	case KindString:
		return a.Str == b.Str
	case KindRef:
		return a.Ref.ID == b.Ref.ID
	}
	return false
}

// Compare orders two values, returning a negative, zero or positive result.
// Numbers order numerically with promotion, chars by code point and strings
// lexicographically; everything else is unordered.
func Compare(a, b Value) (int, error) {
	if a.IsNumeric() && b.IsNumeric() {
		if a.Kind == KindInteger && b.Kind == KindInteger {
			switch {
			case a.Int < b.Int:
				return -1, nil
			case a.Int > b.Int:
				return 1, nil
			}
			return 0, nil
		}
		x, y, _ := promote(a, b)
		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		}
		return 0, nil
	}
	if a.Kind == KindChar && b.Kind == KindChar {
		switch {
		case a.Char < b.Char:
			return -1, nil
		case a.Char > b.Char:
			return 1, nil
		}
		return 0, nil
	}
	if a.Kind == KindString && b.Kind == KindString {
		switch {
		case a.Str < b.Str:
			return -1, nil
		case a.Str > b.Str:
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("%w: cannot order %s and %s", errBadOperands, a.Kind, b.Kind)
}
