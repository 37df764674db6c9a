package monitor

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/beevik/prefixtree/v2"
	"github.com/tuboc/chipeite/chip8"
)

type command struct {
	name     string
	shortcut string
	brief    string
	usage    string
	handler  func(*Monitor, selection) error
	subs     []*command
	subtree  *prefixtree.Tree[*command]
}

type selection struct {
	command *command
	args    []string
}

var (
	errNotFound  = prefixtree.ErrPrefixNotFound
	errAmbiguous = prefixtree.ErrPrefixAmbiguous

	commands  []*command
	cmdTree   = prefixtree.New[*command]()
	shortcuts = make(map[string]*command)
)

func init() {
	commands = []*command{
		{name: "help", shortcut: "?", brief: "Display help", usage: "help [<command>]", handler: (*Monitor).cmdHelp},
		{name: "step", shortcut: "s", brief: "Execute instructions", usage: "step [<count>]", handler: (*Monitor).cmdStep},
		{name: "run", shortcut: "r", brief: "Run until a breakpoint or break", usage: "run [<count>]", handler: (*Monitor).cmdRun},
		{name: "registers", brief: "Display register contents", usage: "registers", handler: (*Monitor).cmdRegisters},
		{name: "memory", shortcut: "m", brief: "Dump memory", usage: "memory <address> [<bytes>]", handler: (*Monitor).cmdMemory},
		{name: "disassemble", shortcut: "d", brief: "Disassemble instructions", usage: "disassemble [<address>] [<lines>]", handler: (*Monitor).cmdDisassemble},
		{name: "breakpoint", shortcut: "b", brief: "Breakpoint commands", usage: "breakpoint add|remove|list", subs: []*command{
			{name: "add", brief: "Add a breakpoint", usage: "breakpoint add <address>", handler: (*Monitor).cmdBreakpointAdd},
			{name: "remove", brief: "Remove a breakpoint", usage: "breakpoint remove <address>", handler: (*Monitor).cmdBreakpointRemove},
			{name: "list", brief: "List breakpoints", usage: "breakpoint list", handler: (*Monitor).cmdBreakpointList},
		}},
		{name: "key", brief: "Keypad commands", usage: "key press|release <key>", subs: []*command{
			{name: "press", brief: "Hold a keypad key down", usage: "key press <key>", handler: (*Monitor).cmdKeyPress},
			{name: "release", brief: "Release a keypad key", usage: "key release <key>", handler: (*Monitor).cmdKeyRelease},
		}},
		{name: "display", brief: "Show the screen", usage: "display", handler: (*Monitor).cmdDisplay},
		{name: "load", brief: "Load a ROM image and reset", usage: "load <filename>", handler: (*Monitor).cmdLoad},
		{name: "reset", brief: "Reset the machine", usage: "reset", handler: (*Monitor).cmdReset},
		{name: "quit", brief: "Quit the monitor", usage: "quit", handler: (*Monitor).cmdQuit},
	}

	for _, c := range commands {
		cmdTree.Add(c.name, c)
		if c.shortcut != "" {
			shortcuts[c.shortcut] = c
		}
		if c.subs == nil {
			continue
		}
		c.handler = (*Monitor).cmdGroup
		c.subtree = prefixtree.New[*command]()
		for _, s := range c.subs {
			c.subtree.Add(s.name, s)
		}
	}
}

// lookup resolves a command line to a command and its arguments.
func lookup(line string) (selection, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return selection{}, errNotFound
	}

	name := strings.ToLower(fields[0])
	c, ok := shortcuts[name]
	if !ok {
		var err error
		if c, err = cmdTree.FindValue(name); err != nil {
			return selection{}, err
		}
	}
	args := fields[1:]

	if c.subtree != nil && len(args) > 0 {
		sub, err := c.subtree.FindValue(strings.ToLower(args[0]))
		if err != nil {
			return selection{}, err
		}
		return selection{command: sub, args: args[1:]}, nil
	}
	return selection{command: c, args: args}, nil
}

func (m *Monitor) displayHelpText(c *command) {
	m.printf("Usage: %s\n", c.usage)
}

func (m *Monitor) displayCommands(cmds []*command) {
	for _, c := range cmds {
		name := c.name
		if c.shortcut != "" {
			name = fmt.Sprintf("%s (%s)", c.name, c.shortcut)
		}
		m.printf("    %-18s %s\n", name, c.brief)
	}
}

func (m *Monitor) cmdHelp(c selection) error {
	if len(c.args) == 0 {
		m.println("Commands:")
		m.displayCommands(commands)
		return nil
	}

	s, err := lookup(strings.Join(c.args, " "))
	if err != nil {
		m.println("Command not found.")
		return nil
	}
	m.println(s.command.brief + ".")
	m.displayHelpText(s.command)
	if s.command.subs != nil {
		m.displayCommands(s.command.subs)
	}
	return nil
}

func (m *Monitor) cmdGroup(c selection) error {
	m.displayHelpText(c.command)
	m.displayCommands(c.command.subs)
	return nil
}

func (m *Monitor) cmdStep(c selection) error {
	count, ok := m.countArg(c.args, 0, 1)
	if !ok {
		return nil
	}

	for range count {
		if !m.step() {
			break
		}
	}
	m.nextDisasmAddr = m.machine.PC()
	m.displayPC()
	return nil
}

func (m *Monitor) cmdRun(c selection) error {
	limit, ok := m.countArg(c.args, 0, 0)
	if !ok {
		return nil
	}
	if limit == 0 {
		m.printf("Running from $%03X. Press ctrl-C to break.\n", m.machine.PC())
	}

	m.halt.Store(false)
	for n := 0; limit == 0 || n < limit; n++ {
		if m.halt.Load() || m.ctx.Err() != nil {
			m.println("Break.")
			break
		}
		if !m.step() {
			break
		}
		if m.atBreakpoint() {
			m.printf("Breakpoint at $%03X.\n", m.machine.PC())
			break
		}
	}

	m.nextDisasmAddr = m.machine.PC()
	m.displayPC()
	return nil
}

func (m *Monitor) cmdRegisters(c selection) error {
	regs := m.machine.Registers()
	timers := m.machine.Timers()
	stack := m.machine.Stack()

	m.printf("PC=$%03X I=$%03X SP=%d DT=%02X ST=%02X CY=%d\n",
		m.machine.PC(), regs.I(), stack.Depth(), timers.Delay(), timers.Sound(), m.machine.Cycles())

	v := regs.V()
	for row := 0; row < chip8.RegisterCount; row += 8 {
		for i := row; i < row+8; i++ {
			m.print(fmt.Sprintf("V%X=%02X ", i, v[i]))
		}
		m.println()
	}

	if frames := stack.Frames(); len(frames) > 0 {
		m.print("Stack:")
		for _, f := range frames {
			m.print(fmt.Sprintf(" $%03X", f))
		}
		m.println()
	}
	return nil
}

func (m *Monitor) cmdMemory(c selection) error {
	if len(c.args) < 1 {
		m.displayHelpText(c.command)
		return nil
	}

	var addr uint16
	if c.args[0] == "$" {
		addr = m.nextDumpAddr
	} else {
		a, err := parseAddr(c.args[0])
		if err != nil {
			m.printf("%v\n", err)
			return nil
		}
		addr = a
	}

	n, ok := m.countArg(c.args, 1, defaultDumpBytes)
	if !ok {
		return nil
	}
	n = min(n, chip8.MemorySize-int(addr))

	data, err := m.machine.ReadMemory(addr, n)
	if err != nil {
		m.printf("%v\n", err)
		return nil
	}
	for off := 0; off < len(data); off += dumpBytesPerLine {
		line := data[off:min(off+dumpBytesPerLine, len(data))]
		m.print(fmt.Sprintf("$%03X:", int(addr)+off))
		for _, b := range line {
			m.print(fmt.Sprintf(" %02X", b))
		}
		m.println()
	}

	m.nextDumpAddr = uint16((int(addr) + n) % chip8.MemorySize)
	m.lastCmd.args = []string{"$", strconv.Itoa(n)}
	return nil
}

func (m *Monitor) cmdDisassemble(c selection) error {
	addr := m.nextDisasmAddr
	if len(c.args) > 0 {
		a, err := parseAddr(c.args[0])
		if err != nil {
			m.printf("%v\n", err)
			return nil
		}
		addr = a
	}

	lines, ok := m.countArg(c.args, 1, defaultDisasmLines)
	if !ok {
		return nil
	}

	for range lines {
		op, err := m.machine.Fetch(addr)
		if err != nil {
			break
		}

		marker := "  "
		if addr == m.machine.PC() {
			marker = "> "
		}
		if _, ok := m.breakpoints[addr]; ok {
			marker = marker[:1] + "*"
		}
		m.printf("%s%s\n", marker, chip8.HistoryEntry{Address: addr, Opcode: op})
		addr += 2
	}

	m.nextDisasmAddr = addr
	m.lastCmd.args = nil
	return nil
}

func (m *Monitor) cmdBreakpointAdd(c selection) error {
	if len(c.args) < 1 {
		m.displayHelpText(c.command)
		return nil
	}

	addr, err := parseAddr(c.args[0])
	if err != nil {
		m.printf("%v\n", err)
		return nil
	}

	m.breakpoints[addr] = struct{}{}
	m.printf("Breakpoint added at $%03X.\n", addr)
	return nil
}

func (m *Monitor) cmdBreakpointRemove(c selection) error {
	if len(c.args) < 1 {
		m.displayHelpText(c.command)
		return nil
	}

	addr, err := parseAddr(c.args[0])
	if err != nil {
		m.printf("%v\n", err)
		return nil
	}

	if _, ok := m.breakpoints[addr]; !ok {
		m.printf("No breakpoint was set on $%03X.\n", addr)
		return nil
	}
	delete(m.breakpoints, addr)
	m.printf("Breakpoint at $%03X removed.\n", addr)
	return nil
}

func (m *Monitor) cmdBreakpointList(c selection) error {
	m.println("Addr")
	m.println("----")
	for _, addr := range slices.Sorted(maps.Keys(m.breakpoints)) {
		m.printf("$%03X\n", addr)
	}
	return nil
}

func (m *Monitor) cmdKeyPress(c selection) error {
	k, ok := m.keyArg(c)
	if ok {
		m.machine.Keys().Set(k)
		m.printf("Key %s pressed.\n", k)
	}
	return nil
}

func (m *Monitor) cmdKeyRelease(c selection) error {
	k, ok := m.keyArg(c)
	if ok {
		m.machine.Keys().Unset(k)
		m.printf("Key %s released.\n", k)
	}
	return nil
}

func (m *Monitor) cmdDisplay(c selection) error {
	fb := m.machine.FrameBuffer()
	var sb strings.Builder
	for y := range chip8.DisplayH {
		sb.Reset()
		for x := range chip8.DisplayW {
			if fb.At(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		m.print(sb.String(), "\n")
	}
	m.flush()
	return nil
}

func (m *Monitor) cmdLoad(c selection) error {
	if len(c.args) < 1 {
		m.displayHelpText(c.command)
		return nil
	}

	rom, err := os.ReadFile(c.args[0])
	if err != nil {
		m.printf("%v\n", err)
		return nil
	}
	m.StopBeep()
	if err := m.machine.Load(rom); err != nil {
		m.printf("%v\n", err)
		return nil
	}

	m.printf("Loaded '%s' (%d bytes).\n", c.args[0], len(rom))
	m.nextDisasmAddr = m.machine.PC()
	m.displayPC()
	return nil
}

func (m *Monitor) cmdReset(c selection) error {
	m.StopBeep()
	m.machine.Reset()
	m.nextDisasmAddr = m.machine.PC()
	m.displayPC()
	return nil
}

func (m *Monitor) cmdQuit(c selection) error {
	return errQuit
}

// countArg parses args[i] as a positive decimal count, returning def when
// the argument is absent.
func (m *Monitor) countArg(args []string, i, def int) (int, bool) {
	if len(args) <= i {
		return def, true
	}
	n, err := strconv.Atoi(args[i])
	if err != nil || n <= 0 {
		m.printf("Invalid count '%s'.\n", args[i])
		return 0, false
	}
	return n, true
}

func (m *Monitor) keyArg(c selection) (chip8.Key, bool) {
	if len(c.args) < 1 {
		m.displayHelpText(c.command)
		return 0, false
	}
	k, err := chip8.ParseKey(c.args[0])
	if err != nil {
		m.printf("%v\n", err)
		return 0, false
	}
	return k, true
}

// parseAddr parses a hexadecimal address, optionally prefixed by $, # or 0x.
func parseAddr(s string) (uint16, error) {
	h := strings.TrimPrefix(strings.TrimPrefix(strings.TrimPrefix(s, "$"), "#"), "0x")
	v, err := strconv.ParseUint(h, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address '%s'", s)
	}
	if v >= chip8.MemorySize {
		return 0, fmt.Errorf("address $%X is outside memory", v)
	}
	return uint16(v), nil
}
