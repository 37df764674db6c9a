package chip8

import (
	"math"
	"time"
)

// FramePeriod is the interval at which the delay and sound timers count down.
const FramePeriod = time.Second / 60

// TimerReport describes one countdown step.
type TimerReport struct {
	Frames          int  // frames applied to the counters, at most 255
	DelayWasRunning bool // delay was non-zero before the step
	SoundWasRunning bool // sound was non-zero before the step
	Delay, Sound    uint8
}

// SoundExpired reports whether this step brought the sound timer to zero.
func (r TimerReport) SoundExpired() bool {
	return r.SoundWasRunning && r.Sound == 0
}

// DelayExpired reports whether this step brought the delay timer to zero.
func (r TimerReport) DelayExpired() bool {
	return r.DelayWasRunning && r.Delay == 0
}

// Timers are the delay and sound countdown registers. They are driven by
// wall-clock time rather than by executed cycles.
type Timers struct {
	delay    uint8
	sound    uint8
	lastTick time.Time
	now      func() time.Time
}

func newTimers(now func() time.Time) Timers {
	if now == nil {
		now = time.Now
	}
	return Timers{lastTick: now(), now: now}
}

func (t *Timers) Delay() uint8 { return t.delay }
func (t *Timers) Sound() uint8 { return t.sound }

func (t *Timers) SetDelay(v uint8) { t.delay = v }
func (t *Timers) SetSound(v uint8) { t.sound = v }

// Tick counts both timers down by the number of whole frames elapsed since
// the previous tick. It returns false and leaves the timers untouched when
// less than one frame has passed.
//
// The last tick time advances by a whole number of frame periods so the
// remainder carries into the next tick. Pauses longer than 255 frames are
// applied as 255 frames, which empties both counters.
func (t *Timers) Tick() (TimerReport, bool) {
	now := t.now()
	frames := now.Sub(t.lastTick) / FramePeriod
	if frames <= 0 {
		return TimerReport{}, false
	}
	t.lastTick = t.lastTick.Add(frames * FramePeriod)

	n := int(min(int64(frames), math.MaxUint8))
	report := TimerReport{
		Frames:          n,
		DelayWasRunning: t.delay != 0,
		SoundWasRunning: t.sound != 0,
	}
	t.delay = saturatingSub(t.delay, n)
	t.sound = saturatingSub(t.sound, n)
	report.Delay = t.delay
	report.Sound = t.sound
	return report, true
}

func saturatingSub(v uint8, n int) uint8 {
	if int(v) <= n {
		return 0
	}
	return v - uint8(n)
}
