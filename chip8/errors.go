package chip8

import "fmt"

// AddressOverflowError is returned when the address register is advanced
// past the end of memory.
type AddressOverflowError struct {
	Address uint32
}

func (e *AddressOverflowError) Error() string {
	return fmt.Sprintf("address register overflow: $%04X exceeds memory", e.Address)
}

// MemoryAccessError is returned when an instruction reads or writes
// outside the 4K address space.
type MemoryAccessError struct {
	Address uint16
	Len     int
}

func (e *MemoryAccessError) Error() string {
	return fmt.Sprintf("memory access out of range: $%04X+%d", e.Address, e.Len)
}

// IllegalOpcodeError is returned for an instruction word that does not
// decode to any supported operation.
type IllegalOpcodeError struct {
	Address uint16
	Opcode  Opcode
}

func (e *IllegalOpcodeError) Error() string {
	return fmt.Sprintf("illegal opcode %s at $%03X", e.Opcode, e.Address)
}

// ROMSizeError is returned when a program does not fit above ProgramOffset.
type ROMSizeError struct {
	Size int
}

func (e *ROMSizeError) Error() string {
	return fmt.Sprintf("rom of %d bytes exceeds %d bytes of program memory", e.Size, MemorySize-ProgramOffset)
}
