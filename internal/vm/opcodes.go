// Package vm lowers a checked program to bytecode and executes it on a
// register/stack machine with an explicit heap arena.
package vm

// Opcode identifies one bytecode instruction.
type Opcode uint8

const (
	OpPush Opcode = iota
	OpPop
	OpDup
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNeg
	OpAnd
	OpOr
	OpXor
	OpNot
	OpEquals
	OpLesser
	OpGreater
	OpEqLess
	OpEqGreat
	OpLength
	OpShow
	OpJmpTo  // jump to label
	OpJmpAbs // jump to absolute index
	OpJmpRel // jump relative to current index
	OpJitL   // jump to label if popped bool is true
	OpJitA   // absolute conditional jump
	OpJitR   // relative conditional jump
	OpCall
	OpRet
	OpExit
	OpDefVar
	OpDropVar
	OpSaveVarLocal
	OpGetVarLocal
	OpSaveVarGlobal
	OpGetVarGlobal
	OpInstance
	OpGetFromRef
	OpSaveToRef
	OpCast
)

var opcodeNames = [...]string{
	OpPush:          "PUSH",
	OpPop:           "POP",
	OpDup:           "DUP",
	OpAdd:           "ADD",
	OpSub:           "SUB",
	OpMul:           "MUL",
	OpDiv:           "DIV",
	OpMod:           "MOD",
	OpNeg:           "NEG",
	OpAnd:           "AND",
	OpOr:            "OR",
	OpXor:           "XOR",
	OpNot:           "NOT",
	OpEquals:        "EQUALS",
	OpLesser:        "LESSER",
	OpGreater:       "GREATER",
	OpEqLess:        "EQLESS",
	OpEqGreat:       "EQGREAT",
	OpLength:        "LENGTH",
	OpShow:          "SHOW",
	OpJmpTo:         "JMPTO",
	OpJmpAbs:        "JMPABS",
	OpJmpRel:        "JMPREL",
	OpJitL:          "JITL",
	OpJitA:          "JITA",
	OpJitR:          "JITR",
	OpCall:          "CALL",
	OpRet:           "RET",
	OpExit:          "EXIT",
	OpDefVar:        "DEFVAR",
	OpDropVar:       "DROPVAR",
	OpSaveVarLocal:  "SAVEVARLOCAL",
	OpGetVarLocal:   "GETVARLOCAL",
	OpSaveVarGlobal: "SAVEVARGLOBAL",
	OpGetVarGlobal:  "GETVARGLOBAL",
	OpInstance:      "INSTANCE",
	OpGetFromRef:    "GETFROMREF",
	OpSaveToRef:     "SAVETOREF",
	OpCast:          "CAST",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return "UNKNOWN"
}
