// Package monitor implements an interactive debugger console for a CHIP-8
// machine. Commands are read line by line and may be abbreviated to any
// unique prefix.
package monitor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/retroenv/retrogolib/log"
	"github.com/tuboc/chipeite/chip8"
)

const (
	defaultDisasmLines = 10
	defaultDumpBytes   = 64
	dumpBytesPerLine   = 16
)

var errQuit = errors.New("exiting monitor")

// Monitor drives a machine from text commands.
type Monitor struct {
	machine *chip8.Machine
	logger  *log.Logger

	ctx         context.Context
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool
	lastCmd     *selection

	breakpoints    map[uint16]struct{}
	nextDisasmAddr uint16
	nextDumpAddr   uint16
	beeping        bool
	halt           atomic.Bool
}

// New creates a monitor around a fresh machine loaded with rom. The monitor
// acts as the machine's keypad and beeper; opts are applied after that.
func New(logger *log.Logger, rom []byte, opts ...chip8.Option) (*Monitor, error) {
	m := &Monitor{
		logger:      logger,
		breakpoints: make(map[uint16]struct{}),
	}

	opts = append([]chip8.Option{chip8.WithKeypad(m), chip8.WithBeeper(m)}, opts...)
	machine, err := chip8.New(rom, opts...)
	if err != nil {
		return nil, err
	}
	m.machine = machine
	m.nextDisasmAddr = machine.PC()
	m.nextDumpAddr = machine.PC()
	return m, nil
}

// Machine returns the debugged machine.
func (m *Monitor) Machine() *chip8.Machine {
	return m.machine
}

// RunCommands accepts monitor commands from a reader and outputs the results
// to a writer. If the commands are interactive, a prompt is displayed while
// the monitor waits for the next command to be entered.
func (m *Monitor) RunCommands(ctx context.Context, r io.Reader, w io.Writer, interactive bool) {
	m.ctx = ctx
	m.input = bufio.NewScanner(r)
	m.output = bufio.NewWriter(w)
	m.interactive = interactive

	m.displayPC()

	for {
		m.prompt()

		line, err := m.getLine()
		if err != nil {
			break
		}

		var c selection
		if strings.TrimSpace(line) != "" {
			c, err = lookup(line)
			switch {
			case errors.Is(err, errNotFound):
				m.println("Command not found.")
				continue
			case errors.Is(err, errAmbiguous):
				m.println("Command is ambiguous.")
				continue
			case err != nil:
				m.printf("ERROR: %v.\n", err)
				continue
			}
		} else if m.lastCmd != nil {
			c = *m.lastCmd
		}

		if c.command == nil {
			continue
		}
		m.lastCmd = &c

		if err := c.command.handler(m, c); err != nil {
			break
		}
	}
	m.flush()
}

// Break interrupts a running machine at the next instruction boundary.
func (m *Monitor) Break() {
	m.halt.Store(true)
}

// WaitKey reads a hexadecimal key from the command input.
func (m *Monitor) WaitKey(ctx context.Context) (chip8.Key, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		m.printf("Waiting for key (0-F): ")
		line, err := m.getLine()
		if err != nil {
			return 0, err
		}
		k, err := chip8.ParseKey(strings.TrimSpace(line))
		if err != nil {
			m.printf("%v\n", err)
			continue
		}
		return k, nil
	}
}

func (m *Monitor) StartBeep() {
	if !m.beeping {
		m.beeping = true
		m.logger.Debug("Sound started", log.Hex("pc", m.machine.PC()), log.Int("cycle", int(m.machine.Cycles())))
	}
}

func (m *Monitor) StopBeep() {
	if m.beeping {
		m.beeping = false
		m.logger.Debug("Sound stopped", log.Hex("pc", m.machine.PC()), log.Int("cycle", int(m.machine.Cycles())))
	}
}

func (m *Monitor) print(args ...any) {
	fmt.Fprint(m.output, args...)
}

func (m *Monitor) printf(format string, args ...any) {
	fmt.Fprintf(m.output, format, args...)
	m.flush()
}

func (m *Monitor) println(args ...any) {
	fmt.Fprintln(m.output, args...)
	m.flush()
}

func (m *Monitor) flush() {
	m.output.Flush()
}

func (m *Monitor) getLine() (string, error) {
	if m.input.Scan() {
		return m.input.Text(), nil
	}
	if m.input.Err() != nil {
		return "", m.input.Err()
	}
	return "", io.EOF
}

func (m *Monitor) prompt() {
	if m.interactive {
		m.printf("* ")
	}
}

func (m *Monitor) displayPC() {
	pc := m.machine.PC()
	op, err := m.machine.Fetch(pc)
	if err != nil {
		m.printf("%03X-???? (%v)\n", pc, err)
		return
	}
	m.println(chip8.HistoryEntry{Address: pc, Opcode: op})
}

// step executes one instruction, reporting failures to the output.
func (m *Monitor) step() bool {
	if err := m.machine.Step(m.ctx); err != nil {
		m.printf("ERROR: %v.\n", err)
		return false
	}
	return true
}

func (m *Monitor) atBreakpoint() bool {
	_, ok := m.breakpoints[m.machine.PC()]
	return ok
}
