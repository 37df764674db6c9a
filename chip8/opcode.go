package chip8

import "fmt"

// Opcode is one fetched 16-bit instruction word. The accessors extract the
// fields used by the instruction set; they are plain masks and shifts over
// the raw value, so any field may be read in any order.
//
//	ID   bits 15-12  instruction family
//	X    bits 11-8   register index
//	Y    bits 7-4    register index
//	N    bits 3-0    nibble (sprite height, sub-selector in family 8)
//	KK   bits 7-0    immediate byte (sub-selector in families 0, E, F)
//	NNN  bits 11-0   12-bit address
type Opcode uint16

func (op Opcode) ID() uint8 {
	return uint8(op >> 12)
}

func (op Opcode) X() uint8 {
	return uint8(op>>8) & 0x0f
}

func (op Opcode) Y() uint8 {
	return uint8(op>>4) & 0x0f
}

func (op Opcode) N() uint8 {
	return uint8(op) & 0x0f
}

func (op Opcode) KK() uint8 {
	return uint8(op)
}

func (op Opcode) NNN() uint16 {
	return uint16(op) & 0x0fff
}

func (op Opcode) String() string {
	return fmt.Sprintf("%04X", uint16(op))
}

func opcodeFromBytes(hi, lo uint8) Opcode {
	return Opcode(uint16(hi)<<8 | uint16(lo))
}
