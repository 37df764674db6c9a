package emulator

import (
	"context"
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuboc/chipeite/chip8"
	"github.com/veandco/go-sdl2/sdl"
)

func TestOptionsDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	assert.Equal(t, DefaultScale, o.Scale)
	assert.Equal(t, DefaultHz, o.Hz)
	assert.Equal(t, 8, o.cyclesPerFrame())

	o = Options{Scale: 4, Hz: 30}.withDefaults()
	assert.Equal(t, 4, o.Scale)
	assert.Equal(t, 1, o.cyclesPerFrame())
}

func TestKeyMapCoversKeypad(t *testing.T) {
	seen := map[chip8.Key]bool{}
	for _, k := range scanCode2Key {
		seen[k] = true
	}
	assert.Len(t, seen, chip8.KeyCount)

	k, ok := lookupKey(sdl.SCANCODE_B)
	assert.True(t, ok)
	assert.Equal(t, chip8.Key(0x0), k)

	_, ok = lookupKey(sdl.SCANCODE_SPACE)
	assert.False(t, ok)
}

func TestSquareWave(t *testing.T) {
	w := newSquareWave(AudioFrequency)
	b := w.frame(AudioFrequency / VBlankFrequency)
	assert.Len(t, b, 4*735)

	first := math.Float32frombits(binary.LittleEndian.Uint32(b))
	assert.Equal(t, float32(ToneVolume), first)

	highs, lows := 0, 0
	for i := 0; i < len(b); i += 4 {
		switch math.Float32frombits(binary.LittleEndian.Uint32(b[i:])) {
		case ToneVolume:
			highs++
		case -ToneVolume:
			lows++
		default:
			t.Fatalf("unexpected sample at %d", i/4)
		}
	}
	assert.InDelta(t, highs, lows, 60)
}

func TestKeypadLines(t *testing.T) {
	var keys chip8.KeyState
	keys.Set(0x1)
	keys.Set(0xf)

	lines := keypadLines(keys)
	assert.Equal(t, "KEYS 1000", lines[0])
	assert.Equal(t, "     0000", lines[1])
	assert.Equal(t, "     0001", lines[3])
}

func keyDown(scancode int) hostEvent {
	return hostEvent{kind: eventKeyDown, scancode: scancode}
}

func keyUp(scancode int) hostEvent {
	return hostEvent{kind: eventKeyUp, scancode: scancode}
}

// eventQueue replays events and then times out forever.
type eventQueue struct {
	events []hostEvent
	idles  int
}

func (q *eventQueue) next() (hostEvent, bool) {
	if len(q.events) == 0 {
		return hostEvent{}, false
	}
	ev := q.events[0]
	q.events = q.events[1:]
	return ev, true
}

func (q *eventQueue) idle() {
	q.idles++
}

func TestHandleKeypadKeys(t *testing.T) {
	var keys chip8.KeyState
	c := newControls(&keys, false)

	k, pressed := c.handle(keyDown(sdl.SCANCODE_4), false)
	assert.True(t, pressed)
	assert.Equal(t, chip8.Key(0x1), k)
	assert.True(t, keys.IsSet(0x1))

	repeat := keyDown(sdl.SCANCODE_4)
	repeat.repeat = true
	_, pressed = c.handle(repeat, false)
	assert.False(t, pressed)
	assert.True(t, keys.IsSet(0x1))

	c.handle(keyUp(sdl.SCANCODE_4), false)
	assert.False(t, keys.IsSet(0x1))
}

func TestHandleControlKeys(t *testing.T) {
	var keys chip8.KeyState
	c := newControls(&keys, false)

	c.handle(keyDown(sdl.SCANCODE_SPACE), false)
	assert.True(t, c.stepMode)
	assert.Equal(t, 0, c.steps)

	c.handle(keyDown(sdl.SCANCODE_SPACE), false)
	c.handle(keyDown(sdl.SCANCODE_SPACE), false)
	assert.Equal(t, 2, c.steps)

	c.handle(keyDown(sdl.SCANCODE_RETURN), false)
	assert.False(t, c.stepMode)
	assert.Equal(t, 0, c.steps)

	c.handle(keyDown(sdl.SCANCODE_Z), false)
	assert.True(t, c.reset)

	c.handle(hostEvent{kind: eventFocusLost}, false)
	assert.False(t, c.focus)
	c.handle(hostEvent{kind: eventFocusGained}, false)
	assert.True(t, c.focus)

	assert.True(t, c.running)
	c.handle(keyDown(sdl.SCANCODE_ESCAPE), false)
	assert.False(t, c.running)

	c = newControls(&keys, false)
	c.handle(hostEvent{kind: eventQuit}, false)
	assert.False(t, c.running)
}

func TestCyclesPerFrame(t *testing.T) {
	var keys chip8.KeyState
	c := newControls(&keys, false)
	assert.Equal(t, 8, c.cycles(8))

	c.focus = false
	assert.Equal(t, 0, c.cycles(8))

	c = newControls(&keys, true)
	assert.Equal(t, 0, c.cycles(8))
	c.handle(keyDown(sdl.SCANCODE_SPACE), false)
	assert.Equal(t, 1, c.cycles(8))
	assert.Equal(t, 0, c.cycles(8))
}

func TestWaitKeyReturnsKeypadKey(t *testing.T) {
	var keys chip8.KeyState
	c := newControls(&keys, false)
	q := &eventQueue{events: []hostEvent{
		keyDown(sdl.SCANCODE_SPACE),
		keyUp(sdl.SCANCODE_M),
		keyDown(sdl.SCANCODE_M),
	}}

	k, err := c.waitKey(context.Background(), q.next, q.idle)
	require.NoError(t, err)
	assert.Equal(t, chip8.Key(0xf), k)
	assert.False(t, c.stepMode)
}

func TestWaitKeyIgnoresStepRequests(t *testing.T) {
	var keys chip8.KeyState
	c := newControls(&keys, true)
	q := &eventQueue{events: []hostEvent{
		keyDown(sdl.SCANCODE_SPACE),
		keyDown(sdl.SCANCODE_SPACE),
		keyDown(sdl.SCANCODE_R),
	}}

	k, err := c.waitKey(context.Background(), q.next, q.idle)
	require.NoError(t, err)
	assert.Equal(t, chip8.Key(0x4), k)
	assert.Equal(t, 0, c.steps)
}

func TestWaitKeyQuit(t *testing.T) {
	var keys chip8.KeyState
	c := newControls(&keys, false)
	q := &eventQueue{events: []hostEvent{{kind: eventQuit}}}

	_, err := c.waitKey(context.Background(), q.next, q.idle)
	assert.ErrorIs(t, err, ErrQuit)

	c = newControls(&keys, false)
	q = &eventQueue{events: []hostEvent{keyDown(sdl.SCANCODE_ESCAPE)}}
	_, err = c.waitKey(context.Background(), q.next, q.idle)
	assert.ErrorIs(t, err, ErrQuit)
}

func TestWaitKeyCancelled(t *testing.T) {
	var keys chip8.KeyState
	c := newControls(&keys, false)
	ctx, cancel := context.WithCancel(context.Background())

	q := &eventQueue{}
	idle := func() {
		q.idle()
		if q.idles == 3 {
			cancel()
		}
	}

	_, err := c.waitKey(ctx, q.next, idle)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, q.idles)
}

// queueKeypad feeds a machine's key wait from an event queue.
type queueKeypad struct {
	ctl *controls
	q   *eventQueue
}

func (k queueKeypad) WaitKey(ctx context.Context) (chip8.Key, error) {
	return k.ctl.waitKey(ctx, k.q.next, k.q.idle)
}

func TestResetDuringKeyWaitAbortsInstruction(t *testing.T) {
	var c controls
	q := &eventQueue{events: []hostEvent{
		keyDown(sdl.SCANCODE_SPACE),
		keyDown(sdl.SCANCODE_Z),
	}}

	// LD V3,K; JP 0x200
	m, err := chip8.New([]byte{0xF3, 0x0A, 0x12, 0x00}, chip8.WithKeypad(queueKeypad{ctl: &c, q: q}))
	require.NoError(t, err)
	c = newControls(m.Keys(), true)

	err = m.Step(context.Background())
	assert.ErrorIs(t, err, errReset)
	assert.Equal(t, uint16(chip8.ProgramOffset), m.PC())
	assert.Equal(t, uint64(0), m.Cycles())
	assert.Empty(t, m.History())
	assert.Equal(t, 0, c.steps)
	assert.True(t, c.reset)
}
