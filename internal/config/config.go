// Package config handles command line parsing and application setup.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/retroenv/retrogolib/log"
	"github.com/tuboc/chipeite/emulator"
)

// Frontend selects how the machine is presented.
type Frontend int

const (
	FrontendSDL Frontend = iota
	FrontendTerminal
	FrontendMonitor
)

// Flags are the parsed command line options.
type Flags struct {
	ROM      string
	Frontend Frontend
	Debug    bool
	Quiet    bool
	Emulator emulator.Options
}

// ErrUsage is returned when the command line does not name a ROM.
var ErrUsage = errors.New("no rom file given")

// ParseFlags parses args, not including the program name. The ROM may be
// given with -f or as the first positional argument.
func ParseFlags(name string, args []string, output io.Writer) (Flags, *flag.FlagSet, error) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(output)

	var f Flags
	var term, monitor bool
	flags.StringVar(&f.ROM, "f", "", "chip8 image file path")
	flags.IntVar(&f.Emulator.Scale, "scale", emulator.DefaultScale, "window pixels per chip8 pixel")
	flags.IntVar(&f.Emulator.Hz, "hz", emulator.DefaultHz, "instructions executed per second")
	flags.BoolVar(&f.Emulator.StepMode, "s", false, "start with stepMode")
	flags.StringVar(&f.Emulator.FontPath, "font", "", "font atlas png enabling the debug overlay")
	flags.BoolVar(&term, "term", false, "run in the terminal instead of a window")
	flags.BoolVar(&monitor, "monitor", false, "start the interactive debugger console")
	flags.BoolVar(&f.Debug, "debug", false, "enable debug logging")
	flags.BoolVar(&f.Quiet, "quiet", false, "only log errors")

	if err := flags.Parse(args); err != nil {
		return f, flags, err
	}

	if f.ROM == "" && flags.NArg() > 0 {
		f.ROM = flags.Arg(0)
	}
	if f.ROM == "" {
		return f, flags, ErrUsage
	}

	switch {
	case term && monitor:
		return f, flags, fmt.Errorf("-term and -monitor are mutually exclusive")
	case term:
		f.Frontend = FrontendTerminal
	case monitor:
		f.Frontend = FrontendMonitor
	}
	return f, flags, nil
}

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
