// Package emulator runs a CHIP-8 machine in an SDL2 window with sound and
// keyboard input.
package emulator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/retroenv/retrogolib/log"
	"github.com/tuboc/chipeite/chip8"
	"github.com/veandco/go-sdl2/img"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	VBlankFrequency = 60
	InformationH    = 256
	FontSize        = 16
	FontPerW        = 32

	waitKeyPollMs = 1000 / VBlankFrequency
)

// ErrQuit is returned when the window is closed.
var ErrQuit = errors.New("quit requested")

type Emulator struct {
	machine *chip8.Machine
	logger  *log.Logger
	opts    Options

	window     *sdl.Window
	renderer   *sdl.Renderer
	audio      sdl.AudioDeviceID
	sampleRate int
	tone       *squareWave
	font       *sdl.Texture

	ctl     controls
	beeping bool
}

func initRenderer(w, h int32) (*sdl.Window, *sdl.Renderer, error) {
	window, err := sdl.CreateWindow("chipeite", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, w, h, sdl.WINDOW_SHOWN)
	if err != nil {
		return nil, nil, fmt.Errorf("creating window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		return nil, nil, fmt.Errorf("creating renderer: %w", err)
	}

	// workaround for https://bugzilla.libsdl.org/show_bug.cgi?id=4272
	// 	or update sdl2 to 2.0.9
	window.Hide()
	sdl.PumpEvents()
	window.Show()

	return window, renderer, nil
}

func initFont(r *sdl.Renderer, path string) (*sdl.Texture, error) {
	surface, err := img.Load(path)
	if err != nil {
		return nil, err
	}
	defer surface.Free()

	texture, err := r.CreateTextureFromSurface(surface)
	if err != nil {
		return nil, err
	}

	texture.SetBlendMode(sdl.BLENDMODE_ADD)

	return texture, nil
}

// New opens the window and audio device and loads rom into a fresh machine.
func New(logger *log.Logger, rom []byte, opts Options) (*Emulator, error) {
	opts = opts.withDefaults()
	e := &Emulator{
		logger: logger,
		opts:   opts,
	}

	machine, err := chip8.New(rom, chip8.WithKeypad(e), chip8.WithBeeper(e))
	if err != nil {
		return nil, err
	}
	e.machine = machine
	e.ctl = newControls(machine.Keys(), opts.StepMode)

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("initializing sdl: %w", err)
	}

	w, h := e.windowSize()
	e.window, e.renderer, err = initRenderer(w, h)
	if err != nil {
		sdl.Quit()
		return nil, err
	}

	e.audio, e.sampleRate, err = initAudio()
	if err != nil {
		// a silent emulator is still usable
		logger.Warn("Opening audio device failed", log.Err(err))
	} else {
		e.tone = newSquareWave(e.sampleRate)
	}

	if opts.FontPath != "" {
		e.font, err = initFont(e.renderer, opts.FontPath)
		if err != nil {
			logger.Warn("Loading overlay font failed", log.String("path", opts.FontPath), log.Err(err))
		}
	}
	if e.font != nil {
		e.window.SetSize(w, h+InformationH)
	}

	logger.Debug("Emulator initialized",
		log.Int("scale", opts.Scale),
		log.Int("hz", opts.Hz),
		log.Int("rom_size", len(rom)))
	return e, nil
}

func (e *Emulator) windowSize() (int32, int32) {
	return int32(chip8.DisplayW * e.opts.Scale), int32(chip8.DisplayH * e.opts.Scale)
}

// Machine returns the emulated machine.
func (e *Emulator) Machine() *chip8.Machine {
	return e.machine
}

// Run executes the machine until the window is closed, ctx is done or the
// program fails. Instructions run in bursts of Hz/60 between frames; in
// step mode each press of space runs one instruction.
// Closing the window returns ErrQuit.
func (e *Emulator) Run(ctx context.Context) error {
	defer e.destroy()

	ticker := time.NewTicker(chip8.FramePeriod)
	defer ticker.Stop()

	perVblankCycle := e.opts.cyclesPerFrame()
	for e.ctl.running {
		e.pollEvents()
		if e.ctl.reset {
			e.reset()
		}

		for n := e.ctl.cycles(perVblankCycle); n > 0 && e.ctl.running; n-- {
			err := e.machine.Step(ctx)
			if errors.Is(err, errReset) {
				e.reset()
				break
			}
			if err != nil {
				return err
			}
		}

		e.draw()
		e.queueTone()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return ErrQuit
}

func (e *Emulator) destroy() {
	if e.beeping {
		e.StopBeep()
	}
	if e.audio != 0 {
		sdl.CloseAudioDevice(e.audio)
	}
	if e.font != nil {
		e.font.Destroy()
	}
	e.renderer.Destroy()
	e.window.Destroy()
	sdl.Quit()
}

func (e *Emulator) reset() {
	pc := e.machine.PC()
	e.StopBeep()
	e.machine.Reset()
	e.ctl.reset = false
	e.ctl.steps = 0
	e.logger.Info("Machine reset", log.Hex("pc", pc))
}

// WaitKey blocks until a keypad key is pressed, keeping the window
// responsive and redrawn meanwhile. Quitting returns ErrQuit and a reset
// request aborts the wait so the reset happens between instructions.
func (e *Emulator) WaitKey(ctx context.Context) (chip8.Key, error) {
	e.draw()
	return e.ctl.waitKey(ctx, waitEvent, func() {
		e.draw()
		e.queueTone()
	})
}

func waitEvent() (hostEvent, bool) {
	event := sdl.WaitEventTimeout(waitKeyPollMs)
	if event == nil {
		return hostEvent{}, false
	}
	return translateEvent(event), true
}

func (e *Emulator) draw() {
	e.renderer.SetDrawColor(0, 0, 0, 255)
	e.renderer.Clear()

	// chip8 display
	scale := int32(e.opts.Scale)
	e.renderer.SetDrawColor(0, 255, 0, 255)
	for p := range e.machine.FrameBuffer().Pixels() {
		if p.On {
			e.renderer.FillRect(&sdl.Rect{X: int32(p.X) * scale, Y: int32(p.Y) * scale, W: scale, H: scale})
		}
	}

	if e.font != nil {
		e.drawDebugInfo()
	}

	e.renderer.Present()
}

func (e *Emulator) pollEvents() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		e.ctl.handle(translateEvent(event), false)
	}
}
