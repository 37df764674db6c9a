package termui

import (
	"bytes"
	"fmt"

	"github.com/tuboc/chipeite/chip8"
)

// halfBlocks is indexed by top | bottom<<1.
var halfBlocks = [4]string{" ", "▀", "▄", "█"}

// renderFrame draws the framebuffer as DisplayH/2 lines of DisplayW cells.
func renderFrame(fb *chip8.FrameBuffer) []byte {
	var b bytes.Buffer
	for y := 0; y < chip8.DisplayH; y += 2 {
		for x := range chip8.DisplayW {
			i := 0
			if fb.At(x, y) {
				i |= 1
			}
			if fb.At(x, y+1) {
				i |= 2
			}
			b.WriteString(halfBlocks[i])
		}
		b.WriteString("\r\n")
	}
	return b.Bytes()
}

func statusLine(m *chip8.Machine) string {
	return fmt.Sprintf("PC=$%03X I=$%03X DT=%02X ST=%02X  keys 0-9 a-f, esc quits",
		m.PC(), m.Registers().I(), m.Timers().Delay(), m.Timers().Sound())
}

// parseInput extracts keypad keys from raw terminal input. Escape sequences
// such as arrow keys are skipped; a lone escape or ctrl-C asks to quit.
func parseInput(b []byte) (keys []chip8.Key, quit bool) {
	for i := 0; i < len(b); i++ {
		c := b[i]
		switch {
		case c == 0x1b && i+1 < len(b) && b[i+1] == '[':
			i += 2
			for i < len(b) && (b[i] < 0x40 || b[i] > 0x7e) {
				i++
			}
		case c == 0x1b || c == 0x03:
			quit = true
		default:
			if k, err := chip8.ParseKey(string(c)); err == nil {
				keys = append(keys, k)
			}
		}
	}
	return keys, quit
}
