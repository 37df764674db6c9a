package chip8

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackCapacity(t *testing.T) {
	var s Stack
	for i := 0; i < StackDepth; i++ {
		require.NoError(t, s.Call(uint16(0x200+2*i)))
	}
	assert.Equal(t, StackDepth, s.Depth())

	assert.ErrorIs(t, s.Call(0x300), ErrStackOverflow)
	assert.Equal(t, StackDepth, s.Depth())
}

func TestStackEmptyReturn(t *testing.T) {
	var s Stack
	_, err := s.Ret()
	assert.ErrorIs(t, err, ErrStackUnderflow)
	assert.Equal(t, 0, s.Depth())
}

func TestStackOrder(t *testing.T) {
	var s Stack
	require.NoError(t, s.Call(0x202))
	require.NoError(t, s.Call(0x310))
	assert.Equal(t, []uint16{0x202, 0x310}, s.Frames())

	addr, err := s.Ret()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x310), addr)

	addr, err = s.Ret()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x202), addr)
}
