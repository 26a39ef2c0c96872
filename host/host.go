// Copyright 2018 Brett Vickers.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host allows you to create a "host" that emulates a computer system
// with a 6502 CPU, 64K of memory, a built-in debugger, and a Lua scripting
// interface.
//
// Within the host it is possible to load machine code into memory, run or
// call it, debug and step through it, measure the number of CPU cycles
// elapsed, set address and data breakpoints, raise interrupts, dump and
// disassemble the contents of memory, and manipulate CPU registers and
// memory.
package host

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/beevik/cmd"
	"github.com/hev6502/hev6502/cpu"
	"github.com/hev6502/hev6502/disasm"
	"github.com/pkg/errors"
)

// ErrQuit is returned by RunCommands when the quit command is executed.
var ErrQuit = errors.New("exiting program")

type displayFlags uint8

const (
	displayRegisters displayFlags = 1 << iota
	displayCycles

	displayAll = displayRegisters | displayCycles
)

type state byte

const (
	stateProcessingCommands state = iota
	stateRunning
	stateBreakpoint
	stateStepOverBreakpoint
	stateHalted
	stateFault
	stateInterrupted
)

var stateNames = []string{
	stateProcessingCommands: "break",
	stateRunning:            "running",
	stateBreakpoint:         "breakpoint",
	stateStepOverBreakpoint: "breakpoint",
	stateHalted:             "halt",
	stateFault:              "fault",
	stateInterrupted:        "break",
}

func (s state) String() string {
	return stateNames[s]
}

// A Host represents a fully emulated 6502 system, 64K of memory, a built-in
// debugger, and other useful tools.
type Host struct {
	input        *bufio.Scanner
	output       *bufio.Writer
	interactive  bool
	mem          *cpu.FlatMemory
	cpu          *cpu.CPU
	debugger     *cpu.Debugger
	lastCmd      *cmd.Selection
	state        state
	stepOverAddr int
	settings     *settings
	scriptQuit   bool // a Lua script executed the quit command

	// Break may be called from another goroutine. It only raises
	// breakReq and cancels the running context; the command goroutine
	// owns everything else.
	breakReq atomic.Bool
	mu       sync.Mutex
	cancel   context.CancelFunc
}

// New creates a new 6502 host environment.
func New() *Host {
	h := &Host{
		output:       bufio.NewWriter(io.Discard),
		state:        stateProcessingCommands,
		stepOverAddr: -1,
		settings:     newSettings(),
	}

	// Create the emulated CPU and memory.
	h.mem = cpu.NewFlatMemory()
	h.cpu = cpu.NewCPU(h.mem)

	// Create a CPU debugger and attach it to the CPU.
	h.debugger = cpu.NewDebugger(newDebugHandler(h))
	h.cpu.AttachDebugger(h.debugger)

	return h
}

// RunCommands accepts host commands from a reader and outputs the results
// to a writer. If the commands are interactive, a prompt is displayed while
// the host waits for the the next command to be entered. RunCommands
// returns ErrQuit if a quit command was executed, and nil when the reader
// is exhausted.
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) error {
	h.input = bufio.NewScanner(r)
	h.output = bufio.NewWriter(w)
	h.interactive = interactive

	if interactive {
		h.println()
	}

	h.displayPC()

	for {
		h.prompt()

		line, err := h.getLine()
		if err != nil {
			return nil
		}

		if err := h.execute(strings.TrimSpace(line)); err != nil {
			h.flush()
			return err
		}
	}
}

// SetOutput directs host output outside of RunCommands to w.
func (h *Host) SetOutput(w io.Writer) {
	h.output = bufio.NewWriter(w)
}

// LoadFile loads a raw binary image into memory at 'addr' and sets the
// program counter to it.
func (h *Host) LoadFile(filename string, addr uint16) error {
	return h.load(filename, addr)
}

// RunScript executes a Lua script against the host. It returns ErrQuit if
// the script executed a quit command.
func (h *Host) RunScript(filename string) error {
	return h.runScript(filename)
}

// Break interrupts a running CPU. It is safe to call from any goroutine,
// such as a signal handler. The interruption is reported by the command
// loop once the CPU has stopped.
func (h *Host) Break() {
	h.breakReq.Store(true)

	h.mu.Lock()
	if h.cancel != nil {
		h.cancel()
	}
	h.mu.Unlock()
}

// Execute a single command line. An empty line repeats the last command.
func (h *Host) execute(line string) error {
	var sel cmd.Selection
	if line != "" {
		var err error
		sel, err = cmds.Lookup(line)
		switch {
		case err == cmd.ErrNotFound:
			h.println("Command not found.")
			return nil
		case err == cmd.ErrAmbiguous:
			h.println("Command is ambiguous.")
			return nil
		case err != nil:
			h.printf("ERROR: %v.\n", err)
			return nil
		}
	} else if h.lastCmd != nil {
		sel = *h.lastCmd
	}

	if sel.Command == nil {
		return nil
	}

	c, ok := sel.Command.Data.(*hostCommand)
	if !ok {
		// A command group was selected without one of its commands.
		if g := findGroup(strings.Fields(line)[0]); g != nil {
			h.displayGroup(g)
		}
		return nil
	}

	h.lastCmd = &sel
	return c.handler(h, sel)
}

func (h *Host) printf(format string, args ...any) {
	fmt.Fprintf(h.output, format, args...)
	h.flush()
}

func (h *Host) println(args ...any) {
	fmt.Fprintln(h.output, args...)
	h.flush()
}

func (h *Host) flush() {
	h.output.Flush()
}

func (h *Host) getLine() (string, error) {
	if h.input.Scan() {
		return h.input.Text(), nil
	}
	if h.input.Err() != nil {
		return "", h.input.Err()
	}
	return "", io.EOF
}

func (h *Host) prompt() {
	if h.interactive {
		h.printf("* ")
	}
}

func (h *Host) displayPC() {
	if h.interactive {
		d, _ := h.disassemble(h.cpu.Reg.PC, displayAll)
		h.println(d)
	}
}

func (h *Host) cmdHelp(c cmd.Selection) error {
	if len(c.Args) == 0 {
		h.displayCommands()
		return nil
	}

	if g := findGroup(strings.ToLower(c.Args[0])); g != nil && len(c.Args) == 1 {
		h.displayGroup(g)
		return nil
	}

	s, err := cmds.Lookup(strings.Join(c.Args, " "))
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}
	if s.Command == nil {
		return nil
	}
	hc, ok := s.Command.Data.(*hostCommand)
	if !ok {
		return nil
	}

	if hc.usage != "" {
		h.printf("Syntax: %s\n\n", hc.usage)
	}
	switch {
	case hc.description != "":
		h.printf("Description:\n%s\n\n", indentWrap(3, hc.description))
	case hc.brief != "":
		h.printf("Description:\n%s.\n\n", indentWrap(3, hc.brief))
	}
	return nil
}

func (h *Host) cmdBreakpointList(c cmd.Selection) error {
	h.println("Addr  Enabled")
	h.println("----- -------")
	for _, b := range h.debugger.GetBreakpoints() {
		h.printf("$%04X %v\n", b.Address, !b.Disabled)
	}
	return nil
}

func (h *Host) cmdBreakpointAdd(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c)
		return nil
	}

	addr, err := h.parseAddr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.debugger.AddBreakpoint(addr)
	h.printf("Breakpoint added at $%04X.\n", addr)
	return nil
}

func (h *Host) cmdBreakpointRemove(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c)
		return nil
	}

	addr, err := h.parseAddr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	if h.debugger.GetBreakpoint(addr) == nil {
		h.printf("No breakpoint was set on $%04X.\n", addr)
		return nil
	}

	h.debugger.RemoveBreakpoint(addr)
	h.printf("Breakpoint at $%04X removed.\n", addr)
	return nil
}

func (h *Host) cmdBreakpointEnable(c cmd.Selection) error {
	return h.enableBreakpoint(c, true)
}

func (h *Host) cmdBreakpointDisable(c cmd.Selection) error {
	return h.enableBreakpoint(c, false)
}

func (h *Host) enableBreakpoint(c cmd.Selection, enable bool) error {
	if len(c.Args) < 1 {
		h.displayUsage(c)
		return nil
	}

	addr, err := h.parseAddr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	b := h.debugger.GetBreakpoint(addr)
	if b == nil {
		h.printf("No breakpoint was set on $%04X.\n", addr)
		return nil
	}

	b.Disabled = !enable
	h.printf("Breakpoint at $%04X %s.\n", addr, enabledString(enable))
	return nil
}

func (h *Host) cmdDataBreakpointList(c cmd.Selection) error {
	h.println("Addr  Enabled  Value")
	h.println("----- -------  -----")
	for _, b := range h.debugger.GetDataBreakpoints() {
		if b.Conditional {
			h.printf("$%04X %-5v    $%02X\n", b.Address, !b.Disabled, b.Value)
		} else {
			h.printf("$%04X %-5v    <none>\n", b.Address, !b.Disabled)
		}
	}
	return nil
}

func (h *Host) cmdDataBreakpointAdd(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c)
		return nil
	}

	addr, err := h.parseAddr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	if len(c.Args) > 1 {
		value, err := h.parseByte(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.debugger.AddConditionalDataBreakpoint(addr, value)
		h.printf("Conditional data breakpoint added at $%04X for value $%02X.\n", addr, value)
	} else {
		h.debugger.AddDataBreakpoint(addr)
		h.printf("Data breakpoint added at $%04X.\n", addr)
	}

	return nil
}

func (h *Host) cmdDataBreakpointRemove(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c)
		return nil
	}

	addr, err := h.parseAddr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	if h.debugger.GetDataBreakpoint(addr) == nil {
		h.printf("No data breakpoint was set on $%04X.\n", addr)
		return nil
	}

	h.debugger.RemoveDataBreakpoint(addr)
	h.printf("Data breakpoint at $%04X removed.\n", addr)
	return nil
}

func (h *Host) cmdDataBreakpointEnable(c cmd.Selection) error {
	return h.enableDataBreakpoint(c, true)
}

func (h *Host) cmdDataBreakpointDisable(c cmd.Selection) error {
	return h.enableDataBreakpoint(c, false)
}

func (h *Host) enableDataBreakpoint(c cmd.Selection, enable bool) error {
	if len(c.Args) < 1 {
		h.displayUsage(c)
		return nil
	}

	addr, err := h.parseAddr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	b := h.debugger.GetDataBreakpoint(addr)
	if b == nil {
		h.printf("No data breakpoint was set on $%04X.\n", addr)
		return nil
	}

	b.Disabled = !enable
	h.printf("Data breakpoint at $%04X %s.\n", addr, enabledString(enable))
	return nil
}

func (h *Host) cmdCall(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c)
		return nil
	}

	addr, err := h.parseAddr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.cpu.Call(addr)
	h.printf("Calling $%04X. Press ctrl-C to break.\n", addr)
	h.run()
	return nil
}

func (h *Host) cmdDisassemble(c cmd.Selection) error {
	if len(c.Args) == 0 {
		c.Args = []string{"$"}
	}

	var addr uint16
	switch c.Args[0] {
	case "$":
		addr = h.settings.NextDisasmAddr
		if addr == 0 {
			addr = h.cpu.Reg.PC
		}

	default:
		a, err := h.parseAddr(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr = a
	}

	lines := h.settings.DisasmLines
	if len(c.Args) > 1 {
		l, err := h.parseValue(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		lines = l
	}

	for i := 0; i < lines; i++ {
		d, next := h.disassemble(addr, 0)
		h.println(d)
		addr = next
	}

	h.settings.NextDisasmAddr = addr
	h.lastCmd.Args = []string{"$", fmt.Sprintf("%d", lines)}
	return nil
}

func (h *Host) cmdIRQ(c cmd.Selection) error {
	if h.cpu.IRQ() == 0 {
		h.println("IRQ ignored while interrupts are disabled.")
		return nil
	}
	h.printf("IRQ raised. Vectored to $%04X.\n", h.cpu.Reg.PC)
	h.displayPC()
	return nil
}

func (h *Host) cmdNMI(c cmd.Selection) error {
	h.cpu.NMI()
	h.printf("NMI raised. Vectored to $%04X.\n", h.cpu.Reg.PC)
	h.displayPC()
	return nil
}

func (h *Host) cmdLoad(c cmd.Selection) error {
	if len(c.Args) < 2 {
		h.displayUsage(c)
		return nil
	}

	addr, err := h.parseAddr(c.Args[1])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	if err := h.load(c.Args[0], addr); err != nil {
		h.printf("%v.\n", err)
	}
	return nil
}

func (h *Host) cmdMemoryDump(c cmd.Selection) error {
	if len(c.Args) == 0 {
		c.Args = []string{"$"}
	}

	var addr uint16
	switch c.Args[0] {
	case "$":
		addr = h.settings.NextMemDumpAddr
		if addr == 0 {
			addr = h.cpu.Reg.PC
		}

	default:
		a, err := h.parseAddr(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr = a
	}

	bytes := uint16(h.settings.MemDumpBytes)
	if len(c.Args) >= 2 {
		var err error
		bytes, err = h.parseAddr(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
	}

	h.dumpMemory(addr, bytes)

	h.settings.NextMemDumpAddr = addr + bytes
	h.lastCmd.Args = []string{"$", fmt.Sprintf("%d", bytes)}
	return nil
}

func (h *Host) cmdMemorySet(c cmd.Selection) error {
	if len(c.Args) < 2 {
		h.displayUsage(c)
		return nil
	}

	addr, err := h.parseAddr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	b := make([]byte, 0, len(c.Args)-1)
	for _, s := range c.Args[1:] {
		v, err := h.parseByte(s)
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		b = append(b, v)
	}

	h.mem.StoreBytes(addr, b)
	h.printf("Stored %d byte(s) at $%04X.\n", len(b), addr)
	return nil
}

func (h *Host) cmdQuit(c cmd.Selection) error {
	return ErrQuit
}

func (h *Host) cmdRegister(c cmd.Selection) error {
	if len(c.Args) == 0 {
		d, _ := h.disassemble(h.cpu.Reg.PC, displayAll)
		h.println(d)
		return nil
	}

	if len(c.Args) < 2 {
		h.displayUsage(c)
		return nil
	}

	r, err := lookupRegister(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	var v int
	if r.size == 0 {
		var b bool
		b, err = stringToBool(c.Args[1])
		if b {
			v = 1
		}
	} else {
		v, err = h.parseValue(c.Args[1])
	}
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	r.set(&h.cpu.Reg, v)
	name := strings.ToUpper(r.name)
	switch r.size {
	case 0:
		h.printf("Flag %s set to %v.\n", name, v != 0)
	case 1:
		h.printf("Register %s set to $%02X.\n", name, r.get(&h.cpu.Reg))
	default:
		h.printf("Register %s set to $%04X.\n", name, r.get(&h.cpu.Reg))
		h.settings.NextDisasmAddr = h.cpu.Reg.PC
	}
	return nil
}

func (h *Host) cmdReset(c cmd.Selection) error {
	h.mem.SetResetVectorAddr(h.settings.ResetVector)
	h.cpu.Reset()
	h.settings.NextDisasmAddr = h.cpu.Reg.PC
	h.printf("CPU reset. PC=$%04X.\n", h.cpu.Reg.PC)
	return nil
}

func (h *Host) cmdRun(c cmd.Selection) error {
	if len(c.Args) > 0 {
		pc, err := h.parseAddr(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.cpu.SetPC(pc)
	}

	h.printf("Running from $%04X. Press ctrl-C to break.\n", h.cpu.Reg.PC)
	h.run()
	return nil
}

func (h *Host) cmdScript(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage(c)
		return nil
	}

	err := h.runScript(c.Args[0])
	if errors.Is(err, ErrQuit) {
		return err
	}
	if err != nil {
		h.printf("%v\n", err)
	}
	return nil
}

func (h *Host) cmdSet(c cmd.Selection) error {
	switch len(c.Args) {
	case 0:
		h.println("Variables:")
		h.settings.Display(h.output)
		h.flush()

	case 1:
		h.displayUsage(c)

	default:
		key, value := c.Args[0], strings.Join(c.Args[1:], " ")

		var err error
		switch h.settings.Kind(key) {
		case reflect.Invalid:
			err = errors.Errorf("setting '%s' not found", key)
		case reflect.Bool:
			var b bool
			b, err = stringToBool(value)
			if err == nil {
				err = h.settings.Set(key, b)
			}
		default:
			var v int
			v, err = h.parseValue(value)
			if err == nil {
				err = h.settings.Set(key, v)
			}
		}

		if err == nil {
			h.printf("%s updated.\n", h.settings.Name(key))
		} else {
			h.printf("%v\n", err)
		}

		h.onSettingsUpdate()
	}

	return nil
}

func (h *Host) cmdStepIn(c cmd.Selection) error {
	count := h.parseCount(c.Args)
	start := h.cpu.Cycles

	// Step the CPU count times.
	h.startRunning()
	for i := count - 1; i >= 0 && h.running(); i-- {
		h.step()
		switch {
		case i == h.settings.MaxStepLines:
			h.println("...")
		case i < h.settings.MaxStepLines:
			h.displayPC()
		}
	}
	h.finish(start)
	return nil
}

func (h *Host) cmdStepOver(c cmd.Selection) error {
	count := h.parseCount(c.Args)
	start := h.cpu.Cycles

	// Step over the next instruction count times.
	h.startRunning()
	for i := count - 1; i >= 0 && h.running(); i-- {
		h.stepOver()
		switch {
		case i == h.settings.MaxStepLines:
			h.println("...")
		case i < h.settings.MaxStepLines:
			h.displayPC()
		}
	}
	h.finish(start)
	return nil
}

func (h *Host) cmdStepOut(c cmd.Selection) error {
	start := h.cpu.Cycles
	sp := h.cpu.Reg.SP

	// Step until an RTS or RTI returns from the current stack frame.
	h.startRunning()
	for h.running() {
		inst := h.cpu.GetInstruction(h.cpu.Reg.PC)
		before := h.cpu.Reg.SP
		h.step()
		if (inst.Op == cpu.OpRTS || inst.Op == cpu.OpRTI) && before >= sp {
			break
		}
	}
	if h.state == stateRunning {
		h.displayPC()
	}
	h.finish(start)
	return nil
}

// Load a raw binary file into memory at 'addr' and set the program counter
// to it.
func (h *Host) load(filename string, addr uint16) error {
	b, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrapf(err, "failed to load '%s'", filepath.Base(filename))
	}
	if len(b) == 0 {
		return errors.Errorf("'%s' is empty", filepath.Base(filename))
	}
	if int(addr)+len(b) > 0x10000 {
		return errors.Errorf("'%s' does not fit in memory at $%04X", filepath.Base(filename), addr)
	}

	h.mem.StoreBytes(addr, b)
	h.cpu.SetPC(addr)
	h.settings.NextDisasmAddr = addr
	h.printf("Loaded '%s' to $%04X..$%04X.\n", filepath.Base(filename), addr, int(addr)+len(b)-1)
	return nil
}

// Run the CPU until it halts, faults, hits a breakpoint or is interrupted.
// Return the state that stopped it and the number of cycles consumed.
func (h *Host) run() (stop state, cycles uint64) {
	start := h.cpu.Cycles

	h.startRunning()
	if h.settings.Trace || h.hasBreakpoints() {
		for h.running() {
			if h.settings.Trace {
				d, _ := h.disassemble(h.cpu.Reg.PC, displayAll)
				h.println(d)
			}
			h.step()
		}
	} else {
		h.runUninterrupted()
	}

	stop = h.state
	h.finish(start)
	return stop, h.cpu.Cycles - start
}

// Run the CPU without per-instruction host involvement. Only a halt, a
// fault or Break stops it.
func (h *Host) runUninterrupted() {
	ctx, cancel := context.WithCancel(context.Background())
	h.mu.Lock()
	h.cancel = cancel
	h.mu.Unlock()

	// A break requested before the cancel func was published.
	if h.breakReq.Load() {
		cancel()
	}

	_, err := h.cpu.Run(ctx)

	h.mu.Lock()
	h.cancel = nil
	h.mu.Unlock()
	cancel()

	switch {
	case err == nil:
		h.state = stateHalted
	case errors.Is(err, context.Canceled):
		h.breakReq.Store(false)
		h.state = stateInterrupted
	default:
		h.fault(err)
	}
}

// Enter the running state, discarding any break requested while the host
// was idle.
func (h *Host) startRunning() {
	h.breakReq.Store(false)
	h.state = stateRunning
}

// Report whether the CPU should keep running. A pending break request
// moves the host into the interrupted state.
func (h *Host) running() bool {
	if h.state == stateRunning && h.breakReq.Swap(false) {
		h.state = stateInterrupted
	}
	return h.state == stateRunning
}

// Finish a run or step command, reporting a halt or break if one
// occurred.
func (h *Host) finish(start uint64) {
	switch h.state {
	case stateHalted:
		h.printf("Halted after %d cycles.\n", h.cpu.Cycles-start)
	case stateInterrupted:
		h.printf("Interrupted at $%04X after %d cycles.\n", h.cpu.Reg.PC, h.cpu.Cycles-start)
		h.displayPC()
	}
	h.state = stateProcessingCommands
	h.settings.NextDisasmAddr = h.cpu.Reg.PC
}

func (h *Host) fault(err error) {
	h.state = stateFault
	h.printf("%v.\n", err)
	h.displayPC()
}

func (h *Host) step() {
	r, err := h.cpu.Step()
	switch {
	case err != nil:
		h.fault(err)
	case r.Halt:
		h.state = stateHalted
	}
}

func (h *Host) stepOver() {
	// JSR instructions need to be handled specially.
	inst := h.cpu.GetInstruction(h.cpu.Reg.PC)
	if inst.Op != cpu.OpJSR {
		h.step()
		return
	}

	// Place a step-over breakpoint on the instruction following the JSR.
	// Either borrow an already existing breakpoint on that instruction, or
	// create a temporary one.
	next := h.cpu.Reg.PC + uint16(inst.Length)
	tmpBreakpointCreated := false
	b := h.debugger.GetBreakpoint(next)
	if b == nil {
		b = h.debugger.AddBreakpoint(next)
		tmpBreakpointCreated = true
	}
	disabled := b.Disabled
	b.Disabled = false
	h.stepOverAddr = int(next)

	// Run until interrupted.
	for h.running() {
		h.step()
	}
	h.stepOverAddr = -1
	b.Disabled = disabled

	// If we were interrupted by the temporary step-over breakpoint,
	// then continue as normal.
	if h.state == stateStepOverBreakpoint {
		h.state = stateRunning
	}

	// Remove the temporarily created breakpoint.
	if tmpBreakpointCreated {
		h.debugger.RemoveBreakpoint(next)
	}
}

func (h *Host) hasBreakpoints() bool {
	return len(h.debugger.GetBreakpoints()) > 0 || len(h.debugger.GetDataBreakpoints()) > 0
}

func (h *Host) onSettingsUpdate() {
	h.mem.SetResetVectorAddr(h.settings.ResetVector)
}

// Parse a numeric value. The '.' and 'pc' identifiers stand for the current
// program counter.
func (h *Host) parseValue(s string) (int, error) {
	switch strings.ToLower(s) {
	case ".", "pc":
		return int(h.cpu.Reg.PC), nil
	}
	return parseNumber(s, h.settings.HexMode)
}

func (h *Host) parseAddr(s string) (uint16, error) {
	v, err := h.parseValue(s)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > 0xffff {
		return 0, errors.Errorf("address '%s' out of range", s)
	}
	return uint16(v), nil
}

func (h *Host) parseByte(s string) (byte, error) {
	v, err := h.parseValue(s)
	if err != nil {
		return 0, err
	}
	if v < -128 || v > 0xff {
		return 0, errors.Errorf("byte value '%s' out of range", s)
	}
	return byte(v), nil
}

// Parse an optional step count argument.
func (h *Host) parseCount(args []string) int {
	if len(args) > 0 {
		if n, err := h.parseValue(args[0]); err == nil && n > 0 {
			return n
		}
	}
	return 1
}

func (h *Host) disassemble(addr uint16, flags displayFlags) (str string, next uint16) {
	var line string
	line, next = disasm.Disassemble(h.mem, addr)

	str = fmt.Sprintf("%04X-   %-8s    %-11s", addr, disasm.Bytes(h.mem, addr), line)

	if (flags & displayRegisters) != 0 {
		str += " " + registerString(&h.cpu.Reg)
	}

	if (flags & displayCycles) != 0 {
		str += fmt.Sprintf(" C=%d", h.cpu.Cycles)
	}

	return strings.TrimRight(str, " "), next
}

func (h *Host) dumpMemory(addr0, bytes uint16) {
	if bytes == 0 {
		return
	}

	addr1 := addr0 + bytes - 1
	if addr1 < addr0 {
		addr1 = 0xffff
	}

	buf := []byte("    -" + strings.Repeat(" ", 35))

	// Don't align display for short dumps.
	if addr1-addr0 < 8 {
		addrToBuf(addr0, buf[0:4])
		for a, c1, c2 := addr0, 6, 32; a <= addr1 && a >= addr0; a, c1, c2 = a+1, c1+3, c2+1 {
			m := h.mem.LoadByte(a)
			byteToBuf(m, buf[c1:c1+2])
			buf[c2] = toPrintableChar(m)
		}
		h.println(strings.TrimRight(string(buf), " "))
		return
	}

	// Align addr0 and addr1 to 8-byte boundaries.
	start := uint32(addr0) & 0xfff8
	stop := (uint32(addr1) + 8) & 0xffff8
	if stop > 0x10000 {
		stop = 0x10000
	}

	a := uint16(start)
	for r := start; r < stop; r += 8 {
		addrToBuf(a, buf[0:4])
		for c1, c2 := 6, 32; c1 < 29; c1, c2, a = c1+3, c2+1, a+1 {
			if a >= addr0 && a <= addr1 {
				m := h.mem.LoadByte(a)
				byteToBuf(m, buf[c1:c1+2])
				buf[c2] = toPrintableChar(m)
			} else {
				buf[c1] = ' '
				buf[c1+1] = ' '
				buf[c2] = ' '
			}
		}
		h.println(strings.TrimRight(string(buf), " "))
	}
}

func (h *Host) displayUsage(c cmd.Selection) {
	if hc, ok := c.Command.Data.(*hostCommand); ok && hc.usage != "" {
		h.printf("Syntax: %s\n", hc.usage)
	} else {
		h.println("<no help text>")
	}
}

func (h *Host) displayCommands() {
	h.println("hev6502 commands:")
	for _, g := range commandGroups {
		if g.name == "" {
			for _, c := range g.commands {
				if c.brief != "" {
					h.printf("    %-15s  %s\n", c.name, c.brief)
				}
			}
		} else {
			h.printf("    %-15s  %s\n", g.name, g.brief)
		}
	}
}

func (h *Host) displayGroup(g *commandGroup) {
	h.printf("%s:\n", g.brief)
	for _, c := range g.commands {
		h.printf("    %-15s  %s\n", c.name, c.brief)
	}
}

func enabledString(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
