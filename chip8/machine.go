// Package chip8 implements the CHIP-8 virtual machine: instruction decoding,
// the register file, call stack, display, keypad state and the 60 Hz timers.
//
// A Machine executes one instruction per Step. Hosts supply a Keypad for the
// blocking key-wait instruction and a Beeper for the sound timer, render the
// FrameBuffer and translate their own key events into KeyState updates.
package chip8

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

const (
	MemorySize      = 4096
	ProgramOffset   = 0x200
	FontOffset      = 0x000
	FontSpriteBytes = 5
	OpHistoryNum    = 16
)

var characterSprites = []uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Keypad supplies key presses to the wait-for-key instruction. WaitKey
// blocks until a key is pressed or ctx is done.
type Keypad interface {
	WaitKey(ctx context.Context) (Key, error)
}

// Beeper is told when the tone should start and stop.
type Beeper interface {
	StartBeep()
	StopBeep()
}

// HistoryEntry is one executed instruction.
type HistoryEntry struct {
	Address uint16
	Opcode  Opcode
}

func (h HistoryEntry) String() string {
	return fmt.Sprintf("%03X-%04X %s", h.Address, uint16(h.Opcode), Disassemble(h.Opcode))
}

// Machine is the CHIP-8 CPU together with all the state it owns.
type Machine struct {
	mem    [MemorySize]uint8
	pc     uint16
	regs   Registers
	stack  Stack
	fb     FrameBuffer
	keys   KeyState
	timers Timers
	cycles uint64

	rom    []byte
	keypad Keypad
	beeper Beeper
	rand   *rand.Rand
	now    func() time.Time

	history      [OpHistoryNum]HistoryEntry
	historyIndex int
	historyLen   int
}

// An Option configures a Machine.
type Option func(*Machine)

func WithKeypad(k Keypad) Option {
	return func(m *Machine) { m.keypad = k }
}

func WithBeeper(b Beeper) Option {
	return func(m *Machine) { m.beeper = b }
}

// WithRand sets the source for the random-byte instruction.
func WithRand(r *rand.Rand) Option {
	return func(m *Machine) { m.rand = r }
}

// WithClock sets the time source driving the timers.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// New creates a machine with rom loaded at ProgramOffset.
func New(rom []byte, opts ...Option) (*Machine, error) {
	if len(rom) > MemorySize-ProgramOffset {
		return nil, &ROMSizeError{Size: len(rom)}
	}

	m := &Machine{
		rom:    append([]byte(nil), rom...),
		keypad: blockingKeypad{},
		beeper: nopBeeper{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rand == nil {
		m.rand = rand.New(rand.NewSource(m.now().UnixNano()))
	}

	m.Reset()
	return m, nil
}

// Load replaces the ROM and resets the machine.
func (m *Machine) Load(rom []byte) error {
	if len(rom) > MemorySize-ProgramOffset {
		return &ROMSizeError{Size: len(rom)}
	}
	m.rom = append(m.rom[:0], rom...)
	m.Reset()
	return nil
}

// Reset restores the boot state and reloads the ROM.
func (m *Machine) Reset() {
	m.mem = [MemorySize]uint8{}
	copy(m.mem[FontOffset:], characterSprites)
	copy(m.mem[ProgramOffset:], m.rom)

	m.pc = ProgramOffset
	m.regs = Registers{}
	m.stack = Stack{}
	m.fb.Reset()
	m.keys = 0
	m.timers = newTimers(m.now)
	m.cycles = 0
	m.history = [OpHistoryNum]HistoryEntry{}
	m.historyIndex = 0
	m.historyLen = 0
}

// Step executes one instruction and then ticks the timers. On error the
// program counter is left pointing at the failed instruction.
func (m *Machine) Step(ctx context.Context) error {
	pc := m.pc
	op, err := m.Fetch(pc)
	if err != nil {
		return err
	}
	m.pc += 2

	if err := m.execOpcode(ctx, pc, op); err != nil {
		m.pc = pc
		return fmt.Errorf("executing %s at $%03X: %w", op, pc, err)
	}

	m.record(pc, op)
	m.cycles++
	m.tickTimers()
	return nil
}

// Fetch reads the instruction word at addr.
func (m *Machine) Fetch(addr uint16) (Opcode, error) {
	if int(addr)+2 > MemorySize {
		return 0, &MemoryAccessError{Address: addr, Len: 2}
	}
	return opcodeFromBytes(m.mem[addr], m.mem[addr+1]), nil
}

func (m *Machine) tickTimers() {
	report, ok := m.timers.Tick()
	if ok && report.SoundExpired() {
		m.beeper.StopBeep()
	}
}

func (m *Machine) record(pc uint16, op Opcode) {
	m.history[m.historyIndex] = HistoryEntry{Address: pc, Opcode: op}
	m.historyIndex = (m.historyIndex + 1) % OpHistoryNum
	if m.historyLen < OpHistoryNum {
		m.historyLen++
	}
}

// History returns the most recently executed instructions, oldest first.
func (m *Machine) History() []HistoryEntry {
	h := make([]HistoryEntry, 0, m.historyLen)
	start := (m.historyIndex - m.historyLen + OpHistoryNum) % OpHistoryNum
	for i := 0; i < m.historyLen; i++ {
		h = append(h, m.history[(start+i)%OpHistoryNum])
	}
	return h
}

// memory returns mem[addr:addr+n], failing if the range leaves the 4K space.
func (m *Machine) memory(addr uint16, n int) ([]uint8, error) {
	if int(addr)+n > MemorySize {
		return nil, &MemoryAccessError{Address: addr, Len: n}
	}
	return m.mem[addr : int(addr)+n], nil
}

// ReadMemory returns a copy of n bytes starting at addr.
func (m *Machine) ReadMemory(addr uint16, n int) ([]byte, error) {
	b, err := m.memory(addr, n)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), b...), nil
}

func (m *Machine) PC() uint16 { return m.pc }
func (m *Machine) Cycles() uint64 { return m.cycles }
func (m *Machine) Registers() *Registers { return &m.regs }
func (m *Machine) Stack() *Stack { return &m.stack }
func (m *Machine) FrameBuffer() *FrameBuffer { return &m.fb }
func (m *Machine) Keys() *KeyState { return &m.keys }
func (m *Machine) Timers() *Timers { return &m.timers }

// blockingKeypad is used when no host keypad is attached: the key wait
// blocks until the context ends.
type blockingKeypad struct{}

func (blockingKeypad) WaitKey(ctx context.Context) (Key, error) {
	<-ctx.Done()
	return 0, ctx.Err()
}

type nopBeeper struct{}

func (nopBeeper) StartBeep() {}
func (nopBeeper) StopBeep()  {}
