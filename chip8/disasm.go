package chip8

import "fmt"

// Disassemble returns the assembly mnemonic for op. Words that do not decode
// to an instruction are shown as data.
func Disassemble(op Opcode) string {
	x := op.X()
	y := op.Y()
	nn := op.KK()
	nnn := op.NNN()

	switch op.ID() {
	case 0x0:
		switch op {
		case 0x00E0:
			return "CLS"
		case 0x00EE:
			return "RET"
		}
		return fmt.Sprintf("SYS  #%03X", nnn)
	case 0x1:
		return fmt.Sprintf("JP   #%03X", nnn)
	case 0x2:
		return fmt.Sprintf("CALL #%03X", nnn)
	case 0x3:
		return fmt.Sprintf("SE   V%X,#%02X", x, nn)
	case 0x4:
		return fmt.Sprintf("SNE  V%X,#%02X", x, nn)
	case 0x5:
		return fmt.Sprintf("SE   V%X,V%X", x, y)
	case 0x6:
		return fmt.Sprintf("LD   V%X,#%02X", x, nn)
	case 0x7:
		return fmt.Sprintf("ADD  V%X,#%02X", x, nn)
	case 0x8:
		if m, ok := aluMnemonics[op.N()]; ok {
			switch op.N() {
			case 0x6, 0xE:
				return fmt.Sprintf("%-4s V%X", m, x)
			}
			return fmt.Sprintf("%-4s V%X,V%X", m, x, y)
		}
	case 0x9:
		return fmt.Sprintf("SNE  V%X,V%X", x, y)
	case 0xA:
		return fmt.Sprintf("LD   I,#%03X", nnn)
	case 0xB:
		return fmt.Sprintf("JP   V0,#%03X", nnn)
	case 0xC:
		return fmt.Sprintf("RND  V%X,#%02X", x, nn)
	case 0xD:
		return fmt.Sprintf("DRW  V%X,V%X,%d", x, y, op.N())
	case 0xE:
		switch nn {
		case 0x9E:
			return fmt.Sprintf("SKP  V%X", x)
		case 0xA1:
			return fmt.Sprintf("SKNP V%X", x)
		}
	case 0xF:
		if f, ok := miscFormats[nn]; ok {
			return fmt.Sprintf(f, x)
		}
	}
	return fmt.Sprintf("DW   #%04X", uint16(op))
}

var aluMnemonics = map[uint8]string{
	0x0: "LD",
	0x1: "OR",
	0x2: "AND",
	0x3: "XOR",
	0x4: "ADD",
	0x5: "SUB",
	0x6: "SHR",
	0x7: "SUBN",
	0xE: "SHL",
}

var miscFormats = map[uint8]string{
	0x07: "LD   V%X,DT",
	0x0A: "LD   V%X,K",
	0x15: "LD   DT,V%X",
	0x18: "LD   ST,V%X",
	0x1E: "ADD  I,V%X",
	0x29: "LD   F,V%X",
	0x33: "LD   B,V%X",
	0x55: "LD   [I],V%X",
	0x65: "LD   V%X,[I]",
}
