package object

import "github.com/abra-lang/abra/internal/typesystem"

// Field describes one declared class field together with its default.
type Field struct {
	Type    typesystem.Type
	Default Value
}

// ClassDefinition is the runtime schema for a user-defined class. The
// analyzer exports one per class; the heap consults it when instancing and
// the compiler when resolving method calls.
type ClassDefinition struct {
	Name       string
	Fields     map[string]Field
	FieldOrder []string
	Methods    map[string]typesystem.FunctionSignature
}

// FieldType returns a field's declared type, if it exists.
func (c *ClassDefinition) FieldType(name string) (typesystem.Type, bool) {
	f, ok := c.Fields[name]
	if !ok {
		return nil, false
	}
	return f.Type, true
}
