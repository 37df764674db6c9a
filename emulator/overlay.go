package emulator

import (
	"fmt"

	"github.com/tuboc/chipeite/chip8"
	"github.com/veandco/go-sdl2/sdl"
)

// keypadRows is the physical layout of the keypad, as drawn in the overlay.
var keypadRows = [4][4]chip8.Key{
	{0x1, 0x2, 0x3, 0xc},
	{0x4, 0x5, 0x6, 0xd},
	{0x7, 0x8, 0x9, 0xe},
	{0xa, 0x0, 0xb, 0xf},
}

func (e *Emulator) drawDebugInfo() {
	emulatorW, emulatorH := e.windowSize()
	e.renderer.SetDrawColor(32, 32, 32, 255)
	e.renderer.FillRect(&sdl.Rect{X: 0, Y: emulatorH, W: emulatorW, H: InformationH})

	top := int(emulatorH)

	// draw opcodes history
	for i, h := range e.machine.History() {
		e.drawText(h.String(), 0, top+i*FontSize)
	}

	// draw v registers
	offsetX := int(emulatorW)/2 + 48
	for i, v := range e.machine.Registers().V() {
		e.drawText(fmt.Sprintf("V%X = %02X", i, v), offsetX, top+i*FontSize)
	}

	// draw other registers
	offsetX = int(emulatorW) - FontSize*9
	timers := e.machine.Timers()
	e.drawText(fmt.Sprintf("DT = %02X", timers.Delay()), offsetX, top+FontSize*0)
	e.drawText(fmt.Sprintf("ST = %02X", timers.Sound()), offsetX, top+FontSize*1)
	e.drawText(fmt.Sprintf("SP = %02X", e.machine.Stack().Depth()), offsetX, top+FontSize*2)
	e.drawText(fmt.Sprintf(" I = %04X", e.machine.Registers().I()), offsetX, top+FontSize*3)

	// draw key inputs
	for i, line := range keypadLines(*e.machine.Keys()) {
		e.drawText(line, offsetX, top+FontSize*(5+i))
	}
}

func keypadLines(keys chip8.KeyState) [4]string {
	var lines [4]string
	for r, row := range keypadRows {
		prefix := "     "
		if r == 0 {
			prefix = "KEYS "
		}
		s := prefix
		for _, k := range row {
			if keys.IsSet(k) {
				s += "1"
			} else {
				s += "0"
			}
		}
		lines[r] = s
	}
	return lines
}

func (e *Emulator) drawText(s string, x, y int) {
	for i, v := range []byte(s) {
		v -= byte(' ')
		fx := FontSize * (int32(v) % FontPerW)
		fy := FontSize * (int32(v) / FontPerW)
		e.renderer.Copy(e.font,
			&sdl.Rect{X: fx, Y: fy, W: FontSize, H: FontSize},
			&sdl.Rect{X: int32(x + i*FontSize), Y: int32(y), W: FontSize, H: FontSize})
	}
}
