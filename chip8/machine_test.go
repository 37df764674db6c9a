package chip8

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoadsFontAndROM(t *testing.T) {
	rom := program(0x1200)
	m, _ := newTestMachine(t, rom)

	font, err := m.ReadMemory(FontOffset, len(characterSprites))
	require.NoError(t, err)
	assert.Equal(t, characterSprites, font)

	code, err := m.ReadMemory(ProgramOffset, 2)
	require.NoError(t, err)
	assert.Equal(t, rom, code)

	assert.Equal(t, uint16(ProgramOffset), m.PC())
}

func TestNewRejectsLargeROM(t *testing.T) {
	_, err := New(make([]byte, MemorySize-ProgramOffset+1))

	var sizeErr *ROMSizeError
	assert.ErrorAs(t, err, &sizeErr)

	_, err = New(make([]byte, MemorySize-ProgramOffset))
	assert.NoError(t, err)
}

func TestReset(t *testing.T) {
	// LD V1,#AA; CALL 0x200
	m, _ := newTestMachine(t, program(0x61AA, 0x2200))
	ctx := context.Background()
	require.NoError(t, m.Step(ctx))
	require.NoError(t, m.Step(ctx))
	m.Keys().Set(4)
	m.FrameBuffer().Write(0, 0, []byte{0xff})

	m.Reset()

	assert.Equal(t, uint16(ProgramOffset), m.PC())
	assert.Equal(t, uint8(0), m.Registers().Get(1))
	assert.Equal(t, 0, m.Stack().Depth())
	assert.Equal(t, KeyState(0), *m.Keys())
	assert.False(t, m.FrameBuffer().At(0, 0))
	assert.Empty(t, m.History())
	assert.Equal(t, uint64(0), m.Cycles())
}

func TestLoad(t *testing.T) {
	m, _ := newTestMachine(t, program(0x1200))
	require.NoError(t, m.Step(context.Background()))

	require.NoError(t, m.Load(program(0x00E0, 0x00EE)))
	assert.Equal(t, uint64(0), m.Cycles())

	code, err := m.ReadMemory(ProgramOffset, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xE0, 0x00, 0xEE}, code)

	// a shorter image leaves no trace of the previous one
	require.NoError(t, m.Load([]byte{0xA1}))
	code, err = m.ReadMemory(ProgramOffset, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xA1, 0x00}, code)

	var sizeErr *ROMSizeError
	assert.ErrorAs(t, m.Load(make([]byte, MemorySize)), &sizeErr)
}

func TestHistory(t *testing.T) {
	// JP 0x200
	m, _ := newTestMachine(t, program(0x1200))
	ctx := context.Background()

	require.NoError(t, m.Step(ctx))
	h := m.History()
	require.Len(t, h, 1)
	assert.Equal(t, "200-1200 JP   #200", h[0].String())

	for i := 0; i < OpHistoryNum+4; i++ {
		require.NoError(t, m.Step(ctx))
	}
	assert.Len(t, m.History(), OpHistoryNum)
	assert.Equal(t, uint64(OpHistoryNum+5), m.Cycles())
}

func TestFetchOutOfRange(t *testing.T) {
	m, _ := newTestMachine(t, nil)

	_, err := m.Fetch(MemorySize - 1)
	var access *MemoryAccessError
	assert.ErrorAs(t, err, &access)

	op, err := m.Fetch(MemorySize - 2)
	require.NoError(t, err)
	assert.Equal(t, Opcode(0), op)
}

func TestJumpPastMemoryFailsOnFetch(t *testing.T) {
	// LD V0,#FF; JP V0,#FFF
	m, _ := newTestMachine(t, program(0x60FF, 0xBFFF))
	ctx := context.Background()
	require.NoError(t, m.Step(ctx))
	require.NoError(t, m.Step(ctx))
	assert.Equal(t, uint16(0x10FE), m.PC())

	var access *MemoryAccessError
	assert.ErrorAs(t, m.Step(ctx), &access)
}

func TestSkipAdvancesFour(t *testing.T) {
	// SE V0,#00 always holds on a fresh machine
	m, _ := newTestMachine(t, program(0x3000))
	require.NoError(t, m.Step(context.Background()))
	assert.Equal(t, uint16(ProgramOffset+4), m.PC())
}
