// Package inbuilt defines the native functions available to every Abra
// program. The analyzer seeds its function table from Signatures and the VM
// dispatches CALLs through Registry before looking at user code.
package inbuilt

import (
	"fmt"
	"io"
	"math"

	"github.com/abra-lang/abra/internal/object"
	"github.com/abra-lang/abra/internal/typesystem"
)

// Machine is the slice of the VM a native body is allowed to touch.
type Machine interface {
	Push(object.Value) error
	Pop() (object.Value, error)
	Heap() *object.Heap
	Output() io.Writer
	ReadLine() (string, error)
}

// Func pairs a native's type signature with its body. A body pops exactly
// argc values; pushing nothing means the call produced null.
type Func struct {
	Signature typesystem.FunctionSignature
	Body      func(m Machine, argc int) error
}

// number is the operand type shared by the math natives.
var number = typesystem.Or(typesystem.Float, typesystem.Integer)

// Registry returns the native function table keyed by call name.
func Registry() map[string]Func {
	return map[string]Func{
		"print": {
			Signature: typesystem.FunctionSignature{
				Name:   "print",
				Params: []typesystem.Type{typesystem.Null},
				Return: typesystem.Null,
			},
			Body: func(m Machine, argc int) error {
				v, err := m.Pop()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(m.Output(), m.Heap().FormatValue(v))
				return err
			},
		},
		"input": {
			Signature: typesystem.FunctionSignature{
				Name:   "input",
				Params: nil,
				Return: typesystem.String,
			},
			Body: func(m Machine, argc int) error {
				line, err := m.ReadLine()
				if err != nil {
					return err
				}
				return m.Push(object.String(line))
			},
		},
		"sqrt": {
			Signature: typesystem.FunctionSignature{
				Name:   "sqrt",
				Params: []typesystem.Type{number},
				Return: typesystem.Float,
			},
			Body: mathNative("sqrt", math.Sqrt),
		},
		"exp": {
			Signature: typesystem.FunctionSignature{
				Name:   "exp",
				Params: []typesystem.Type{number},
				Return: typesystem.Float,
			},
			Body: mathNative("exp", math.Exp),
		},
		"delete": {
			Signature: typesystem.FunctionSignature{
				Name:   "delete",
				Params: []typesystem.Type{typesystem.Null},
				Return: typesystem.Null,
			},
			Body: func(m Machine, argc int) error {
				v, err := m.Pop()
				if err != nil {
					return err
				}
				ref, err := v.ExpectRef()
				if err != nil {
					return fmt.Errorf("delete: %w", err)
				}
				return m.Heap().Delete(ref)
			},
		},
	}
}

// mathNative wraps a float function; integer arguments are widened so the
// result is always a float, matching the declared return type.
func mathNative(name string, fn func(float64) float64) func(Machine, int) error {
	return func(m Machine, argc int) error {
		v, err := m.Pop()
		if err != nil {
			return err
		}
		f, err := v.CastToFloat()
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return m.Push(object.Float(fn(f)))
	}
}

// Signatures lists the native signatures for the checker's global scope.
func Signatures() []typesystem.FunctionSignature {
	reg := Registry()
	sigs := make([]typesystem.FunctionSignature, 0, len(reg))
	for _, f := range reg {
		sigs = append(sigs, f.Signature)
	}
	return sigs
}

// Names lists the native call names for label resolution.
func Names() map[string]bool {
	names := make(map[string]bool)
	for name := range Registry() {
		names[name] = true
	}
	return names
}
