package emulator

import (
	"context"
	"errors"

	"github.com/tuboc/chipeite/chip8"
	"github.com/veandco/go-sdl2/sdl"
)

// errReset aborts a key wait so the machine can be reset between
// instructions.
var errReset = errors.New("reset requested")

type eventKind int

const (
	eventNone eventKind = iota
	eventQuit
	eventKeyDown
	eventKeyUp
	eventFocusLost
	eventFocusGained
)

// hostEvent is the part of an SDL event the emulator reacts to.
type hostEvent struct {
	kind     eventKind
	scancode int
	repeat   bool
}

func translateEvent(event sdl.Event) hostEvent {
	switch ev := event.(type) {
	case *sdl.QuitEvent:
		return hostEvent{kind: eventQuit}
	case *sdl.KeyboardEvent:
		kind := eventKeyUp
		if ev.Type == sdl.KEYDOWN {
			kind = eventKeyDown
		}
		return hostEvent{kind: kind, scancode: int(ev.Keysym.Scancode), repeat: ev.Repeat != 0}
	case *sdl.WindowEvent:
		switch ev.Event {
		case sdl.WINDOWEVENT_FOCUS_LOST:
			return hostEvent{kind: eventFocusLost}
		case sdl.WINDOWEVENT_FOCUS_GAINED:
			return hostEvent{kind: eventFocusGained}
		}
	}
	return hostEvent{}
}

// controls is the host state driven by input events. Machine state is
// never touched here beyond the key mask; steps and resets are queued and
// carried out by the frame loop between instructions.
type controls struct {
	keys *chip8.KeyState

	running  bool
	focus    bool
	stepMode bool
	steps    int
	reset    bool
}

func newControls(keys *chip8.KeyState, stepMode bool) controls {
	return controls{
		keys:     keys,
		running:  true,
		focus:    true,
		stepMode: stepMode,
	}
}

// handle applies one event and reports a keypad key going down. While the
// machine waits for a key, step requests are ignored.
func (c *controls) handle(ev hostEvent, waiting bool) (chip8.Key, bool) {
	switch ev.kind {
	case eventQuit:
		c.running = false

	case eventKeyDown:
		if k, ok := lookupKey(ev.scancode); ok {
			c.keys.Set(k)
			return k, !ev.repeat
		}
		switch ev.scancode {
		case sdl.SCANCODE_SPACE:
			if waiting {
				break
			}
			if c.stepMode {
				c.steps++
			} else {
				c.stepMode = true
			}
		case sdl.SCANCODE_RETURN:
			c.stepMode = false
			c.steps = 0
		case sdl.SCANCODE_Z:
			c.reset = true
		case sdl.SCANCODE_ESCAPE:
			c.running = false
		}

	case eventKeyUp:
		if k, ok := lookupKey(ev.scancode); ok {
			c.keys.Unset(k)
		}

	case eventFocusLost:
		c.focus = false

	case eventFocusGained:
		c.focus = true
	}
	return 0, false
}

// cycles returns how many instructions to run in the coming frame and
// consumes pending single steps.
func (c *controls) cycles(perFrame int) int {
	switch {
	case c.stepMode:
		n := c.steps
		c.steps = 0
		return n
	case c.focus:
		return perFrame
	default:
		return 0
	}
}

// waitKey pulls events from next until a keypad key goes down. idle is
// called whenever next times out without an event.
func (c *controls) waitKey(ctx context.Context, next func() (hostEvent, bool), idle func()) (chip8.Key, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		ev, ok := next()
		if !ok {
			idle()
			continue
		}
		if k, pressed := c.handle(ev, true); pressed {
			return k, nil
		}
		if !c.running {
			return 0, ErrQuit
		}
		if c.reset {
			return 0, errReset
		}
	}
}
