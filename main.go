// Package main implements the command line entry point of the chipeite
// CHIP-8 emulator.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
	"github.com/tuboc/chipeite/emulator"
	"github.com/tuboc/chipeite/internal/config"
	"github.com/tuboc/chipeite/monitor"
	"github.com/tuboc/chipeite/termui"
)

func init() {
	// SDL calls must come from the main thread.
	runtime.LockOSThread()
}

func main() {
	opts, flags, err := config.ParseFlags(os.Args[0], os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		if errors.Is(err, config.ErrUsage) {
			fmt.Fprintf(os.Stderr, "usage: %s [options] <rom>\n", os.Args[0])
			flags.PrintDefaults()
			os.Exit(1)
		}
		config.CreateLogger(opts.Debug, opts.Quiet).Fatal(err.Error())
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)

	rom, err := os.ReadFile(opts.ROM)
	if err != nil {
		logger.Fatal("Reading ROM failed", log.String("file", opts.ROM), log.Err(err))
	}
	logger.Debug("ROM loaded", log.String("file", opts.ROM), log.Int("size", len(rom)))

	switch opts.Frontend {
	case config.FrontendMonitor:
		err = runMonitor(logger, rom)
	case config.FrontendTerminal:
		err = runTerminal(logger, rom, opts)
	default:
		err = runWindow(logger, rom, opts)
	}

	switch {
	case err == nil, errors.Is(err, emulator.ErrQuit), errors.Is(err, termui.ErrQuit):
	case errors.Is(err, context.Canceled):
		logger.Info("Emulation cancelled")
	default:
		logger.Fatal("Emulation failed", log.Err(err))
	}
}

func runWindow(logger *log.Logger, rom []byte, opts config.Flags) error {
	emu, err := emulator.New(logger, rom, opts.Emulator)
	if err != nil {
		return err
	}
	return emu.Run(app.Context())
}

func runTerminal(logger *log.Logger, rom []byte, opts config.Flags) error {
	t, err := termui.New(logger, rom, opts.Emulator.Hz)
	if err != nil {
		return err
	}
	return t.Run(app.Context())
}

func runMonitor(logger *log.Logger, rom []byte) error {
	m, err := monitor.New(logger, rom)
	if err != nil {
		return err
	}

	// Break on Ctrl-C.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	defer signal.Stop(c)
	go func() {
		for range c {
			m.Break()
		}
	}()

	m.RunCommands(context.Background(), os.Stdin, os.Stdout, true)
	return nil
}
