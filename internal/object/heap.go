package object

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/abra-lang/abra/internal/typesystem"
)

var (
	ErrNullDereference = errors.New("null dereference")
	ErrIndexOutOfRange = errors.New("index out of bounds")
	ErrMapKeyNotFound  = errors.New("map key not found")
)

// Ref is a handle to one heap allocation. Slots are never reused, and the
// uuid gives every allocation a distinct identity for equality checks.
type Ref struct {
	Slot int
	ID   uuid.UUID
}

type cellKind uint8

const (
	cellBox cellKind = iota
	cellArray
	cellMap
	cellInstance
)

type cell struct {
	kind cellKind
	typ  typesystem.Type
	dead bool

	box    Value
	arr    []Value
	mp     map[Value]Value
	keys   []Value // map insertion order
	class  string
	fields map[string]Value
}

// Heap is the allocation arena for one VM instance. Deleting an allocation
// tombstones its slot; any later access through a stale ref reports a null
// dereference rather than touching recycled state.
type Heap struct {
	cells   []*cell
	classes map[string]*ClassDefinition
}

// NewHeap returns an empty heap that instantiates classes from the given
// schemas.
func NewHeap(classes map[string]*ClassDefinition) *Heap {
	if classes == nil {
		classes = map[string]*ClassDefinition{}
	}
	return &Heap{classes: classes}
}

// Class looks up a registered class schema.
func (h *Heap) Class(name string) (*ClassDefinition, bool) {
	c, ok := h.classes[name]
	return c, ok
}

func (h *Heap) push(c *cell) Ref {
	h.cells = append(h.cells, c)
	return Ref{Slot: len(h.cells) - 1, ID: uuid.New()}
}

// Alloc creates a heap object of the given static type from constructor
// arguments in source order. Boxes take zero or one argument, arrays take
// their elements, maps take alternating key/value pairs, and class
// instances are populated from their field defaults.
func (h *Heap) Alloc(t typesystem.Type, args []Value) (Ref, error) {
	switch tt := t.(type) {
	case typesystem.HeapType:
		v := Value{}
		switch len(args) {
		case 0:
			d, err := DefaultFor(tt.Elem)
			if err != nil {
				return Ref{}, err
			}
			v = d
		case 1:
			v = args[0]
		default:
			return Ref{}, fmt.Errorf("box of '%s' takes at most one argument, got %d", tt.Elem, len(args))
		}
		return h.push(&cell{kind: cellBox, typ: tt, box: v}), nil

	case typesystem.Primitive:
		return h.Alloc(typesystem.Heap(tt), args)

	case typesystem.ArrayType:
		elems := make([]Value, len(args))
		copy(elems, args)
		return h.push(&cell{kind: cellArray, typ: tt, arr: elems}), nil

	case typesystem.MapType:
		if len(args)%2 != 0 {
			return Ref{}, fmt.Errorf("map literal needs key/value pairs, got %d values", len(args))
		}
		c := &cell{kind: cellMap, typ: tt, mp: make(map[Value]Value, len(args)/2)}
		for i := 0; i < len(args); i += 2 {
			k, v := args[i], args[i+1]
			if _, seen := c.mp[k]; !seen {
				c.keys = append(c.keys, k)
			}
			c.mp[k] = v
		}
		return h.push(c), nil

	case typesystem.AbraType:
		def, ok := h.classes[tt.Name]
		if !ok {
			return Ref{}, fmt.Errorf("unknown class '%s'", tt.Name)
		}
		fields := make(map[string]Value, len(def.Fields))
		for name, f := range def.Fields {
			fields[name] = f.Default
		}
		return h.push(&cell{kind: cellInstance, typ: tt, class: tt.Name, fields: fields}), nil
	}
	return Ref{}, fmt.Errorf("cannot allocate value of type '%s'", t)
}

func (h *Heap) cell(r Ref) (*cell, error) {
	if r.Slot < 0 || r.Slot >= len(h.cells) {
		return nil, ErrNullDereference
	}
	c := h.cells[r.Slot]
	if c == nil || c.dead {
		return nil, ErrNullDereference
	}
	return c, nil
}

// Get reads from an allocation: a null offset reads a box, an integer
// offset indexes an array, a map offset is the key, and a string offset
// names an instance field.
func (h *Heap) Get(r Ref, offset Value) (Value, error) {
	c, err := h.cell(r)
	if err != nil {
		return Null(), err
	}
	switch c.kind {
	case cellBox:
		return c.box, nil
	case cellArray:
		i, err := offset.ExpectInt()
		if err != nil {
			return Null(), err
		}
		if i < 0 || int(i) >= len(c.arr) {
			return Null(), ErrIndexOutOfRange
		}
		return c.arr[i], nil
	case cellMap:
		v, ok := c.mp[offset]
		if !ok {
			return Null(), ErrMapKeyNotFound
		}
		return v, nil
	case cellInstance:
		if offset.Kind != KindString {
			return Null(), fmt.Errorf("field access needs a name, got %s", offset.Kind)
		}
		v, ok := c.fields[offset.Str]
		if !ok {
			return Null(), fmt.Errorf("no field '%s' on class '%s'", offset.Str, c.class)
		}
		return v, nil
	}
	return Null(), ErrNullDereference
}

// Set writes into an allocation under the same offset rules as Get. Array
// writes are bounds-checked; map writes insert missing keys.
func (h *Heap) Set(r Ref, offset, val Value) error {
	c, err := h.cell(r)
	if err != nil {
		return err
	}
	switch c.kind {
	case cellBox:
		c.box = val
		return nil
	case cellArray:
		i, err := offset.ExpectInt()
		if err != nil {
			return err
		}
		if i < 0 || int(i) >= len(c.arr) {
			return ErrIndexOutOfRange
		}
		c.arr[i] = val
		return nil
	case cellMap:
		if _, seen := c.mp[offset]; !seen {
			c.keys = append(c.keys, offset)
		}
		c.mp[offset] = val
		return nil
	case cellInstance:
		if offset.Kind != KindString {
			return fmt.Errorf("field access needs a name, got %s", offset.Kind)
		}
		if _, ok := c.fields[offset.Str]; !ok {
			return fmt.Errorf("no field '%s' on class '%s'", offset.Str, c.class)
		}
		c.fields[offset.Str] = val
		return nil
	}
	return ErrNullDereference
}

// Delete tombstones an allocation. Deleting twice, or touching the slot
// afterwards, reports a null dereference.
func (h *Heap) Delete(r Ref) error {
	c, err := h.cell(r)
	if err != nil {
		return err
	}
	c.dead = true
	c.arr, c.mp, c.keys, c.fields = nil, nil, nil, nil
	return nil
}

// Len returns the element count of an array or map allocation.
func (h *Heap) Len(r Ref) (int64, error) {
	c, err := h.cell(r)
	if err != nil {
		return 0, err
	}
	switch c.kind {
	case cellArray:
		return int64(len(c.arr)), nil
	case cellMap:
		return int64(len(c.mp)), nil
	}
	return 0, fmt.Errorf("value of type '%s' has no length", c.typ)
}

// TypeOf reports the static type an allocation was created with.
func (h *Heap) TypeOf(r Ref) (typesystem.Type, error) {
	c, err := h.cell(r)
	if err != nil {
		return nil, err
	}
	return c.typ, nil
}

// IsLive reports whether the ref still points at an undeleted allocation.
func (h *Heap) IsLive(r Ref) bool {
	_, err := h.cell(r)
	return err == nil
}

// Size reports how many slots the heap has ever allocated, dead or alive.
func (h *Heap) Size() int { return len(h.cells) }

// FormatValue renders a value for display, following refs into the heap:
// arrays as [..], maps as {k: v} in insertion order, boxes transparently
// and instances as Name{field: value} in declaration order.
func (h *Heap) FormatValue(v Value) string {
	if v.Kind != KindRef {
		return v.String()
	}
	c, err := h.cell(v.Ref)
	if err != nil {
		return "null"
	}
	var b strings.Builder
	switch c.kind {
	case cellBox:
		return h.FormatValue(c.box)
	case cellArray:
		b.WriteByte('[')
		for i, e := range c.arr {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(h.FormatValue(e))
		}
		b.WriteByte(']')
	case cellMap:
		b.WriteByte('{')
		for i, k := range c.keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(h.FormatValue(k))
			b.WriteString(": ")
			b.WriteString(h.FormatValue(c.mp[k]))
		}
		b.WriteByte('}')
	case cellInstance:
		b.WriteString(c.class)
		b.WriteByte('{')
		names := h.fieldOrder(c)
		for i, name := range names {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(name)
			b.WriteString(": ")
			b.WriteString(h.FormatValue(c.fields[name]))
		}
		b.WriteByte('}')
	}
	return b.String()
}

func (h *Heap) fieldOrder(c *cell) []string {
	if def, ok := h.classes[c.class]; ok && len(def.FieldOrder) == len(c.fields) {
		return def.FieldOrder
	}
	names := make([]string, 0, len(c.fields))
	for name := range c.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
