// Package config holds the machine constants and the project options file.
package config

const (
	// DefaultStackSize is the operand stack capacity of a machine.
	DefaultStackSize = 1028

	// RegisterCount is the size of the register bank.
	RegisterCount = 16

	// RegisterStackIndex is the reserved register holding the stack index.
	RegisterStackIndex = 10

	// RegisterInstruction is the reserved register holding the instruction
	// pointer.
	RegisterInstruction = 11

	// CompiledExt is the file extension of persisted bytecode.
	CompiledExt = ".abrac"
)
