package chip8

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisters(t *testing.T) {
	var r Registers
	for i := uint8(0); i < RegisterCount; i++ {
		r.Set(i, i*3)
	}
	for i := uint8(0); i < RegisterCount; i++ {
		assert.Equal(t, i*3, r.Get(i))
	}

	r.SetI(0xfff)
	assert.Equal(t, uint16(0xfff), r.I())
}

func TestRegistersOutOfRange(t *testing.T) {
	var r Registers
	assert.Panics(t, func() { r.Get(16) })
	assert.Panics(t, func() { r.Set(0x20, 1) })
}
