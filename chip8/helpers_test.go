package chip8

import (
	"context"
	"encoding/binary"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

type fakeKeypad struct {
	keys  []Key
	calls int
}

func (k *fakeKeypad) WaitKey(ctx context.Context) (Key, error) {
	k.calls++
	if len(k.keys) == 0 {
		<-ctx.Done()
		return 0, ctx.Err()
	}
	key := k.keys[0]
	k.keys = k.keys[1:]
	return key, nil
}

type fakeBeeper struct {
	starts, stops int
}

func (b *fakeBeeper) StartBeep() { b.starts++ }
func (b *fakeBeeper) StopBeep()  { b.stops++ }

// program assembles opcodes into a big-endian ROM image.
func program(ops ...uint16) []byte {
	b := make([]byte, 2*len(ops))
	for i, op := range ops {
		binary.BigEndian.PutUint16(b[2*i:], op)
	}
	return b
}

func newTestMachine(t *testing.T, rom []byte, opts ...Option) (*Machine, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	opts = append([]Option{WithClock(clock.Now), WithRand(rand.New(rand.NewSource(1)))}, opts...)
	m, err := New(rom, opts...)
	require.NoError(t, err)
	return m, clock
}
