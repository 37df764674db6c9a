package chip8

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimersNoFrameElapsed(t *testing.T) {
	clock := newFakeClock()
	timers := newTimers(clock.Now)
	timers.SetDelay(5)

	clock.Advance(FramePeriod - time.Nanosecond)
	_, ok := timers.Tick()

	assert.False(t, ok)
	assert.Equal(t, uint8(5), timers.Delay())
}

func TestTimersSaturate(t *testing.T) {
	clock := newFakeClock()
	timers := newTimers(clock.Now)
	timers.SetDelay(5)

	clock.Advance(time.Second)
	report, ok := timers.Tick()

	require.True(t, ok)
	assert.Equal(t, 60, report.Frames)
	assert.True(t, report.DelayWasRunning)
	assert.False(t, report.SoundWasRunning)
	assert.True(t, report.DelayExpired())
	assert.Equal(t, uint8(0), timers.Delay())
	assert.Equal(t, uint8(0), timers.Sound())
}

func TestTimersCountDown(t *testing.T) {
	clock := newFakeClock()
	timers := newTimers(clock.Now)
	timers.SetDelay(10)
	timers.SetSound(3)

	clock.Advance(2 * FramePeriod)
	report, ok := timers.Tick()

	require.True(t, ok)
	assert.Equal(t, 2, report.Frames)
	assert.Equal(t, uint8(8), report.Delay)
	assert.Equal(t, uint8(1), report.Sound)
	assert.False(t, report.SoundExpired())

	clock.Advance(FramePeriod)
	report, ok = timers.Tick()

	require.True(t, ok)
	assert.True(t, report.SoundExpired())
	assert.Equal(t, uint8(7), timers.Delay())
}

func TestTimersCarryRemainder(t *testing.T) {
	clock := newFakeClock()
	timers := newTimers(clock.Now)
	timers.SetDelay(10)

	clock.Advance(FramePeriod + FramePeriod/2)
	report, ok := timers.Tick()
	require.True(t, ok)
	assert.Equal(t, 1, report.Frames)

	// the leftover half frame counts towards the next tick
	clock.Advance(FramePeriod / 2)
	report, ok = timers.Tick()
	require.True(t, ok)
	assert.Equal(t, 1, report.Frames)
	assert.Equal(t, uint8(8), timers.Delay())
}

func TestTimersLongPauseClamped(t *testing.T) {
	clock := newFakeClock()
	timers := newTimers(clock.Now)
	timers.SetDelay(200)
	timers.SetSound(255)

	clock.Advance(time.Hour)
	report, ok := timers.Tick()

	require.True(t, ok)
	assert.Equal(t, 255, report.Frames)
	assert.Equal(t, uint8(0), timers.Delay())
	assert.Equal(t, uint8(0), timers.Sound())

	// the pause is fully consumed
	clock.Advance(FramePeriod / 2)
	_, ok = timers.Tick()
	assert.False(t, ok)
}

func TestTimersIdleTickReportsNotRunning(t *testing.T) {
	clock := newFakeClock()
	timers := newTimers(clock.Now)

	clock.Advance(FramePeriod)
	report, ok := timers.Tick()

	require.True(t, ok)
	assert.False(t, report.DelayWasRunning)
	assert.False(t, report.SoundExpired())
}
