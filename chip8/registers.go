package chip8

import "fmt"

const (
	RegisterCount = 16
	VF            = 0x0f // carry, borrow and collision flag
)

// Registers holds V0-VF and the 16-bit address register I.
type Registers struct {
	v [RegisterCount]uint8
	i uint16
}

// Get returns Vx. An index outside 0-15 can only come from a decoder bug
// and panics.
func (r *Registers) Get(x uint8) uint8 {
	checkRegister(x)
	return r.v[x]
}

// Set stores value in Vx. An index outside 0-15 panics.
func (r *Registers) Set(x, value uint8) {
	checkRegister(x)
	r.v[x] = value
}

func (r *Registers) I() uint16 {
	return r.i
}

func (r *Registers) SetI(addr uint16) {
	r.i = addr
}

// V returns a copy of V0-VF.
func (r *Registers) V() [RegisterCount]uint8 {
	return r.v
}

func (r *Registers) setFlag(b bool) {
	if b {
		r.v[VF] = 1
	} else {
		r.v[VF] = 0
	}
}

func checkRegister(x uint8) {
	if int(x) >= RegisterCount {
		panic(fmt.Sprintf("chip8: register index %d out of range", x))
	}
}
