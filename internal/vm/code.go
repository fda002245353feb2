package vm

import (
	"fmt"

	"github.com/abra-lang/abra/internal/ast"
	"github.com/abra-lang/abra/internal/object"
	"github.com/abra-lang/abra/internal/typesystem"
)

// Instruction is one bytecode slot. A single struct covers every opcode;
// which fields are meaningful depends on Op.
type Instruction struct {
	Op   Opcode
	Sym  string          // label, call target or variable name
	Idx  int             // resolved jump target or relative offset
	Argc int             // CALL / INSTANCE argument count
	Val  ast.StaticValue // PUSH literal
	Type typesystem.Type // DEFVAR / INSTANCE / CAST target type
	Flag bool            // RET carries a value
}

// LabelEntry binds a symbolic name to an instruction index.
type LabelEntry struct {
	Name  string
	Index int
}

// Code is the compiler's output artifact: the instruction sequence, its
// label table and the class schemas the runtime needs for instancing.
// After Resolve the jumps carry absolute indices and the label table
// remains for diagnostics and disassembly only.
type Code struct {
	Bytecode []Instruction
	Labels   []LabelEntry
	Classes  map[string]*object.ClassDefinition
}

// LabelIndex finds the instruction index a label is bound to.
func (c *Code) LabelIndex(name string) (int, bool) {
	for _, l := range c.Labels {
		if l.Name == name {
			return l.Index, true
		}
	}
	return 0, false
}

// NativeCallTarget marks a CALL that dispatches to an inbuilt function
// instead of a label.
const NativeCallTarget = -1

// Resolve rewrites symbolic control flow into absolute indices: label jumps
// become absolute jumps and every CALL is stamped with its target index, or
// with NativeCallTarget when it names an inbuilt. Unknown or ambiguous
// labels fail here, before anything runs.
func (c *Code) Resolve(natives map[string]bool) error {
	targets := make(map[string]int, len(c.Labels))
	for _, l := range c.Labels {
		if _, dup := targets[l.Name]; dup {
			return fmt.Errorf("duplicate label '%s'", l.Name)
		}
		if l.Index < 0 || l.Index > len(c.Bytecode) {
			return fmt.Errorf("label '%s' points outside the bytecode (%d)", l.Name, l.Index)
		}
		targets[l.Name] = l.Index
	}

	for i := range c.Bytecode {
		ins := &c.Bytecode[i]
		switch ins.Op {
		case OpJmpTo, OpJitL:
			idx, ok := targets[ins.Sym]
			if !ok {
				return fmt.Errorf("unresolved label '%s' at instruction %d", ins.Sym, i)
			}
			ins.Idx = idx
			if ins.Op == OpJmpTo {
				ins.Op = OpJmpAbs
			} else {
				ins.Op = OpJitA
			}
		case OpCall:
			if natives[ins.Sym] {
				ins.Idx = NativeCallTarget
				continue
			}
			idx, ok := targets[ins.Sym]
			if !ok {
				return fmt.Errorf("unresolved call target '%s' at instruction %d", ins.Sym, i)
			}
			ins.Idx = idx
		}
	}
	return nil
}
