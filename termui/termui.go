// Package termui runs a CHIP-8 machine inside a text terminal. Two display
// rows share one character cell using half-block glyphs, and keys 0-9 and
// a-f drive the keypad.
package termui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/beevik/term"
	"github.com/retroenv/retrogolib/log"
	"github.com/tuboc/chipeite/chip8"
)

const (
	DefaultHz = 480

	// holdFrames is how long a key stays down after its last byte arrived.
	// Terminals report no key release, so auto-repeat keeps it held.
	holdFrames = 6

	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
	clearScreen = "\x1b[2J"
	cursorHome  = "\x1b[H"
	clearLine   = "\x1b[K"
)

var (
	// ErrQuit is returned when escape or ctrl-C is typed.
	ErrQuit = errors.New("quit requested")

	errNotTerminal = errors.New("standard input is not a terminal")
)

type Terminal struct {
	machine *chip8.Machine
	logger  *log.Logger
	hz      int

	in  *os.File
	fd  int
	out *bufio.Writer

	held    [chip8.KeyCount]int
	quit    bool
	beeping bool
	buf     [64]byte
}

// New creates a terminal host around a fresh machine loaded with rom.
func New(logger *log.Logger, rom []byte, hz int, opts ...chip8.Option) (*Terminal, error) {
	if hz <= 0 {
		hz = DefaultHz
	}
	t := &Terminal{
		logger: logger,
		hz:     hz,
		in:     os.Stdin,
		fd:     int(os.Stdin.Fd()),
		out:    bufio.NewWriter(os.Stdout),
	}

	opts = append([]chip8.Option{chip8.WithKeypad(t), chip8.WithBeeper(t)}, opts...)
	machine, err := chip8.New(rom, opts...)
	if err != nil {
		return nil, err
	}
	t.machine = machine
	return t, nil
}

// Machine returns the emulated machine.
func (t *Terminal) Machine() *chip8.Machine {
	return t.machine
}

// Run puts the terminal into raw input mode and executes the machine until
// ctx is done, the user quits or the program fails.
func (t *Terminal) Run(ctx context.Context) error {
	if !term.IsTerminal(t.fd) {
		return errNotTerminal
	}
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && (w < chip8.DisplayW || h < chip8.DisplayH/2+1) {
		t.logger.Warn("Terminal is smaller than the display", log.Int("width", w), log.Int("height", h))
	}

	state, err := term.MakeRawInput(t.fd)
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	defer func() {
		t.out.WriteString(showCursor + "\r\n")
		t.out.Flush()
		if err := term.Restore(t.fd, state); err != nil {
			t.logger.Error("Restoring terminal failed", log.Err(err))
		}
	}()

	t.out.WriteString(hideCursor + clearScreen)

	ticker := time.NewTicker(chip8.FramePeriod)
	defer ticker.Stop()

	perFrame := max(1, t.hz/60)
	for {
		if _, err := t.readKeys(0); err != nil {
			return err
		}
		if t.quit {
			return ErrQuit
		}

		for range perFrame {
			if err := t.machine.Step(ctx); err != nil {
				return err
			}
		}

		t.releaseKeys()
		t.draw()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// WaitKey blocks until a keypad key is typed, redrawing while it waits.
func (t *Terminal) WaitKey(ctx context.Context) (chip8.Key, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		keys, err := t.readKeys(chip8.FramePeriod)
		if err != nil {
			return 0, err
		}
		if t.quit {
			return 0, ErrQuit
		}
		if len(keys) > 0 {
			return keys[0], nil
		}

		t.releaseKeys()
		t.draw()
	}
}

// StartBeep rings the terminal bell.
func (t *Terminal) StartBeep() {
	if !t.beeping {
		t.beeping = true
		t.out.WriteString("\a")
	}
}

func (t *Terminal) StopBeep() {
	t.beeping = false
}

// readKeys waits up to timeout for input and applies any typed keys.
func (t *Terminal) readKeys(timeout time.Duration) ([]chip8.Key, error) {
	ready, err := pollInput(t.fd, timeout)
	if err != nil || !ready {
		return nil, err
	}

	n, err := t.in.Read(t.buf[:])
	if err != nil {
		return nil, fmt.Errorf("reading keys: %w", err)
	}

	keys, quit := parseInput(t.buf[:n])
	t.quit = t.quit || quit
	t.pressKeys(keys)
	return keys, nil
}

func (t *Terminal) pressKeys(keys []chip8.Key) {
	for _, k := range keys {
		t.machine.Keys().Set(k)
		t.held[k] = holdFrames
	}
}

// releaseKeys counts down held keys and lifts those that expired.
func (t *Terminal) releaseKeys() {
	for k, n := range t.held {
		if n == 0 {
			continue
		}
		t.held[k] = n - 1
		if n == 1 {
			t.machine.Keys().Unset(chip8.Key(k))
		}
	}
}

func (t *Terminal) draw() {
	t.out.WriteString(cursorHome)
	t.out.Write(renderFrame(t.machine.FrameBuffer()))
	fmt.Fprintf(t.out, "%s%s\r\n", statusLine(t.machine), clearLine)
	if err := t.out.Flush(); err != nil {
		t.logger.Error("Writing frame failed", log.Err(err))
	}
}
