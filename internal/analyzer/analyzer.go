// Package analyzer performs two-pass semantic analysis over a parsed
// program: pass one collects class schemas and function signatures, pass two
// checks every statement body against them. Diagnostics accumulate instead
// of aborting, so one run surfaces every problem at once.
package analyzer

import (
	"github.com/abra-lang/abra/internal/ast"
	"github.com/abra-lang/abra/internal/inbuilt"
	"github.com/abra-lang/abra/internal/object"
	"github.com/abra-lang/abra/internal/typesystem"
)

// scope maps visible variable names to their declared types. Branch bodies
// check against a clone so their bindings never leak upward.
type scope map[string]typesystem.Type

func (s scope) clone() scope {
	out := make(scope, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Checker holds the two analysis namespaces and the accumulated messages.
type Checker struct {
	items     []ast.Item
	messages  []Message
	classes   map[string]*object.ClassDefinition
	functions map[string]typesystem.FunctionSignature
}

// New builds a checker over the program, with the function namespace
// pre-seeded from the native registry.
func New(items []ast.Item) *Checker {
	functions := make(map[string]typesystem.FunctionSignature)
	for _, sig := range inbuilt.Signatures() {
		functions[sig.Name] = sig
	}
	return &Checker{
		items:     items,
		classes:   make(map[string]*object.ClassDefinition),
		functions: functions,
	}
}

// Check runs both analysis passes and returns every accumulated message.
func (c *Checker) Check() []Message {
	c.collect()
	c.checkBodies()
	return c.messages
}

// Classes exposes the collected class schemas for the heap and compiler.
func (c *Checker) Classes() map[string]*object.ClassDefinition { return c.classes }

// Functions exposes the full call namespace, natives included.
func (c *Checker) Functions() map[string]typesystem.FunctionSignature { return c.functions }

// Messages returns the diagnostics accumulated so far.
func (c *Checker) Messages() []Message { return c.messages }

func (c *Checker) report(m Message) {
	c.messages = append(c.messages, m)
}

func signatureOf(fn *ast.Function) typesystem.FunctionSignature {
	params := make([]typesystem.Type, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.Type
	}
	return typesystem.FunctionSignature{Name: fn.Name, Params: params, Return: fn.Return}
}

// collect is pass one: record every class schema and function signature so
// later bodies can reference items declared anywhere in the program.
func (c *Checker) collect() {
	for _, item := range c.items {
		switch it := item.(type) {
		case *ast.Class:
			def := &object.ClassDefinition{
				Name:    it.Name,
				Fields:  make(map[string]object.Field),
				Methods: make(map[string]typesystem.FunctionSignature),
			}
			for _, f := range it.Fields {
				def.Fields[f.Name] = object.Field{Type: f.Type, Default: object.FromStatic(f.Default)}
				def.FieldOrder = append(def.FieldOrder, f.Name)
			}
			for _, m := range it.Methods {
				if _, dup := def.Methods[m.Name]; dup {
					c.report(errorf("Duplicate method definition: '%s' in class '%s'", m.Name, it.Name))
					continue
				}
				def.Methods[m.Name] = signatureOf(m)
			}
			if _, dup := c.classes[it.Name]; dup {
				c.report(errorf("Duplicate class definition: %s", it.Name))
				continue
			}
			c.classes[it.Name] = def
		case *ast.Function:
			if _, dup := c.functions[it.Name]; dup {
				c.report(errorf("Duplicate global function definition: %s", it.Name))
				continue
			}
			c.functions[it.Name] = signatureOf(it)
		}
	}
}

// checkBodies is pass two: type-check every function and method body.
// Method scopes are seeded with the class fields before the parameters, so
// a parameter shadowing a field is an error.
func (c *Checker) checkBodies() {
	for _, item := range c.items {
		switch it := item.(type) {
		case *ast.Class:
			def, ok := c.classes[it.Name]
			if !ok {
				continue
			}
			for _, m := range it.Methods {
				vars := make(scope, len(def.Fields)+len(m.Params))
				for name, f := range def.Fields {
					vars[name] = f.Type
				}
				for _, p := range m.Params {
					if _, taken := vars[p.Name]; taken {
						c.report(errorf("Parameter '%s' in method '%s::%s' shadows a class member.",
							p.Name, it.Name, m.Name))
					}
					vars[p.Name] = p.Type
				}
				c.checkBlock(m.Body, vars, m.Return)
			}
		case *ast.Function:
			vars := make(scope, len(it.Params))
			for _, p := range it.Params {
				vars[p.Name] = p.Type
			}
			c.checkBlock(it.Body, vars, it.Return)
		}
	}
}
