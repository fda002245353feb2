package vm

import (
	"fmt"
	"strings"
)

// FormatInstruction renders one instruction for disassembly output.
func FormatInstruction(ins Instruction) string {
	switch ins.Op {
	case OpPush:
		return fmt.Sprintf("%s %s", ins.Op, ins.Val)
	case OpJmpTo, OpJitL:
		return fmt.Sprintf("%s %s", ins.Op, ins.Sym)
	case OpJmpAbs, OpJitA:
		return fmt.Sprintf("%s %d", ins.Op, ins.Idx)
	case OpJmpRel, OpJitR:
		return fmt.Sprintf("%s %+d", ins.Op, ins.Idx)
	case OpCall:
		return fmt.Sprintf("%s %s/%d", ins.Op, ins.Sym, ins.Argc)
	case OpRet:
		if ins.Flag {
			return fmt.Sprintf("%s value", ins.Op)
		}
		return ins.Op.String()
	case OpDefVar:
		return fmt.Sprintf("%s %s: %s", ins.Op, ins.Sym, ins.Type)
	case OpDropVar, OpSaveVarLocal, OpGetVarLocal, OpSaveVarGlobal, OpGetVarGlobal:
		return fmt.Sprintf("%s %s", ins.Op, ins.Sym)
	case OpInstance:
		return fmt.Sprintf("%s %s/%d", ins.Op, ins.Type, ins.Argc)
	case OpCast:
		return fmt.Sprintf("%s %s", ins.Op, ins.Type)
	}
	return ins.Op.String()
}

// Disassemble renders the whole program with label lines interleaved at
// their bound indices.
func Disassemble(code *Code) string {
	byIndex := make(map[int][]string)
	for _, l := range code.Labels {
		byIndex[l.Index] = append(byIndex[l.Index], l.Name)
	}
	var b strings.Builder
	for i, ins := range code.Bytecode {
		for _, name := range byIndex[i] {
			fmt.Fprintf(&b, "%d | %s:\n", i, name)
		}
		fmt.Fprintf(&b, "%d | %s\n", i, FormatInstruction(ins))
	}
	for _, name := range byIndex[len(code.Bytecode)] {
		fmt.Fprintf(&b, "%d | %s:\n", len(code.Bytecode), name)
	}
	return b.String()
}
