package host

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hev6502/hev6502/cpu"
)

func runHost(t *testing.T, h *Host, commands ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(commands, "\n") + "\n")
	if err := h.RunCommands(in, &out, false); err != nil {
		t.Fatalf("RunCommands returned %v", err)
	}
	return out.String()
}

func expectOutput(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func expectByte(t *testing.T, h *Host, addr uint16, v byte) {
	t.Helper()
	if got := h.mem.LoadByte(addr); got != v {
		t.Errorf("mem[$%04X] incorrect. exp: $%02X, got: $%02X", addr, v, got)
	}
}

func TestMemorySetDump(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"memory set $1000 $41 $42 $43",
		"memory dump $1000 3",
	)
	expectOutput(t, out,
		"Stored 3 byte(s) at $1000.",
		"1000- 41 42 43",
		"ABC",
	)
	expectByte(t, h, 0x1000, 0x41)
	expectByte(t, h, 0x1002, 0x43)
}

func TestCommandNotFound(t *testing.T) {
	out := runHost(t, New(), "frobnicate")
	expectOutput(t, out, "Command not found.")
}

func TestRegisterCommand(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"register a $12",
		"register carry on",
		"register pc $2000",
	)
	expectOutput(t, out,
		"Register A set to $12.",
		"Flag CARRY set to true.",
		"Register PC set to $2000.",
	)
	if h.cpu.Reg.A != 0x12 {
		t.Errorf("A incorrect. exp: $12, got: $%02X", h.cpu.Reg.A)
	}
	if !h.cpu.Reg.Carry() {
		t.Error("carry flag not set")
	}
	if h.cpu.Reg.PC != 0x2000 {
		t.Errorf("PC incorrect. exp: $2000, got: $%04X", h.cpu.Reg.PC)
	}
}

func TestCallHalt(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"memory set $1000 $a9 $05 $60", // LDA #$05; RTS
		"call $1000",
	)
	expectOutput(t, out, "Calling $1000.", "Halted after 8 cycles.")
	if h.cpu.Reg.A != 0x05 {
		t.Errorf("A incorrect. exp: $05, got: $%02X", h.cpu.Reg.A)
	}
	if h.state != stateProcessingCommands {
		t.Errorf("host state incorrect. exp: break, got: %v", h.state)
	}
}

func TestRunFault(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"memory set $1000 $02",
		"run $1000",
	)
	expectOutput(t, out, "invalid opcode $02 at $1000.")
	if h.cpu.Reg.PC != 0x1000 {
		t.Errorf("PC incorrect. exp: $1000, got: $%04X", h.cpu.Reg.PC)
	}
}

func TestBreakpointCommands(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"breakpoint add $1002",
		"breakpoint list",
		"breakpoint disable $1002",
		"breakpoint enable $1002",
		"breakpoint remove $1002",
		"breakpoint remove $1002",
	)
	expectOutput(t, out,
		"Breakpoint added at $1002.",
		"$1002 true",
		"Breakpoint at $1002 disabled.",
		"Breakpoint at $1002 enabled.",
		"Breakpoint at $1002 removed.",
		"No breakpoint was set on $1002.",
	)
	if len(h.debugger.GetBreakpoints()) != 0 {
		t.Error("breakpoint list not empty")
	}
}

func TestBreakpointHit(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"memory set $1000 $a9 $01 $a9 $02 $60", // LDA #$01; LDA #$02; RTS
		"breakpoint add $1002",
		"call $1000",
	)
	expectOutput(t, out, "Breakpoint hit at $1002.")
	if h.cpu.Reg.A != 0x01 {
		t.Errorf("A incorrect. exp: $01, got: $%02X", h.cpu.Reg.A)
	}
	if strings.Contains(out, "Halted") {
		t.Errorf("CPU halted at breakpoint:\n%s", out)
	}

	out = runHost(t, h, "run")
	expectOutput(t, out, "Running from $1002.", "Halted after 8 cycles.")
	if h.cpu.Reg.A != 0x02 {
		t.Errorf("A incorrect. exp: $02, got: $%02X", h.cpu.Reg.A)
	}
}

func TestDataBreakpoint(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"memory set $1000 $a9 $07 $8d $00 $20 $60", // LDA #$07; STA $2000; RTS
		"databreakpoint add $2000 $07",
		"databreakpoint list",
		"call $1000",
	)
	expectOutput(t, out,
		"Conditional data breakpoint added at $2000 for value $07.",
		"$2000 true     $07",
		"Data breakpoint hit on address $2000.",
		"STA $2000",
	)
	expectByte(t, h, 0x2000, 0x07)

	out = runHost(t, h,
		"databreakpoint disable $2000",
		"databreakpoint remove $2000",
	)
	expectOutput(t, out,
		"Data breakpoint at $2000 disabled.",
		"Data breakpoint at $2000 removed.",
	)
}

func TestStepOver(t *testing.T) {
	h := New()
	runHost(t, h,
		"memory set $1000 $20 $00 $11 $ea", // JSR $1100; NOP
		"memory set $1100 $e8 $60",         // INX; RTS
		"register pc $1000",
		"step over",
	)
	if h.cpu.Reg.PC != 0x1003 {
		t.Errorf("PC incorrect. exp: $1003, got: $%04X", h.cpu.Reg.PC)
	}
	if h.cpu.Reg.X != 0x01 {
		t.Errorf("X incorrect. exp: $01, got: $%02X", h.cpu.Reg.X)
	}
	if len(h.debugger.GetBreakpoints()) != 0 {
		t.Error("temporary step-over breakpoint was not removed")
	}
}

// Break is called from another goroutine while the command goroutine runs
// the CPU in an endless loop, on both the stepping and uninterrupted paths.
func TestBreakWhileRunning(t *testing.T) {
	tests := []struct {
		name     string
		commands string
	}{
		{"stepping", "breakpoint add $2000\nrun $1000\n"},
		{"trace", "set trace on\nrun $1000\n"},
		{"uninterrupted", "run $1000\n"},
		{"step over", "register pc $1000\nstep over 100000000\n"},
	}

	for _, test := range tests {
		h := New()
		h.mem.StoreBytes(0x1000, []byte{0x4c, 0x00, 0x10}) // JMP $1000

		var out bytes.Buffer
		done := make(chan error)
		go func() {
			done <- h.RunCommands(strings.NewReader(test.commands), &out, false)
		}()

		timeout := time.After(10 * time.Second)
	wait:
		for {
			select {
			case err := <-done:
				if err != nil {
					t.Fatalf("%s: RunCommands returned %v", test.name, err)
				}
				break wait
			case <-timeout:
				t.Fatalf("%s: CPU was not interrupted", test.name)
			case <-time.After(time.Millisecond):
				h.Break()
			}
		}

		expectOutput(t, out.String(), "Interrupted at $1000")
		if h.state != stateProcessingCommands {
			t.Errorf("%s: host state incorrect. exp: break, got: %v", test.name, h.state)
		}
	}
}

func TestBreakWhileIdle(t *testing.T) {
	h := New()
	h.Break()
	out := runHost(t, h,
		"memory set $1000 $a9 $05 $60", // LDA #$05; RTS
		"call $1000",
	)
	expectOutput(t, out, "Halted after 8 cycles.")
}

func TestSetCommand(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"set hexmode on",
		"memory set 1000 ff",
		"set memdump 32",
		"set bogus 1",
	)
	expectOutput(t, out,
		"HexMode updated.",
		"MemDumpBytes updated.",
		"setting 'bogus' not found",
	)
	expectByte(t, h, 0x1000, 0xff)
	if h.settings.MemDumpBytes != 0x32 {
		t.Errorf("MemDumpBytes incorrect. exp: $32, got: $%X", h.settings.MemDumpBytes)
	}
}

func TestResetVectorSetting(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"memory set $fffe $00 $30",
		"set resetvector $fffe",
		"reset",
	)
	expectOutput(t, out, "CPU reset. PC=$3000.")
}

func TestInterruptCommands(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"memory set $fffe $00 $40",
		"memory set $fffa $00 $50",
		"irq",
		"irq",
		"nmi",
	)
	expectOutput(t, out,
		"IRQ raised. Vectored to $4000.",
		"IRQ ignored while interrupts are disabled.",
		"NMI raised. Vectored to $5000.",
	)
	if h.cpu.Cycles != 14 {
		t.Errorf("cycles incorrect. exp: 14, got: %d", h.cpu.Cycles)
	}
}

func TestQuit(t *testing.T) {
	h := New()
	in := strings.NewReader("memory set $1000 1\nquit\nmemory set $1001 2\n")
	var out bytes.Buffer
	if err := h.RunCommands(in, &out, false); err != ErrQuit {
		t.Fatalf("RunCommands returned %v, expected ErrQuit", err)
	}
	expectByte(t, h, 0x1000, 1)
	expectByte(t, h, 0x1001, 0)
}

func TestLoad(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "prog.bin")
	if err := os.WriteFile(filename, []byte{0xa9, 0x2a, 0x60}, 0o644); err != nil {
		t.Fatal(err)
	}

	h := New()
	var out bytes.Buffer
	h.output = bufio.NewWriter(&out)

	if err := h.load(filename, 0x2000); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	expectOutput(t, out.String(), "Loaded 'prog.bin' to $2000..$2002.")
	expectByte(t, h, 0x2001, 0x2a)
	if h.cpu.Reg.PC != 0x2000 {
		t.Errorf("PC incorrect. exp: $2000, got: $%04X", h.cpu.Reg.PC)
	}

	if err := h.load(filename, 0xfffe); err == nil {
		t.Error("load past the end of memory succeeded")
	}
	if err := h.load(filepath.Join(t.TempDir(), "missing.bin"), 0x2000); err == nil {
		t.Error("load of missing file succeeded")
	}
}

func TestDisassembleCommand(t *testing.T) {
	h := New()
	out := runHost(t, h,
		"memory set $1000 $a9 $05 $8d $00 $20",
		"disassemble $1000 2",
	)
	expectOutput(t, out, "1000-   A9 05", "LDA #$05", "1002-   8D 00 20", "STA $2000")
	if h.settings.NextDisasmAddr != 0x1005 {
		t.Errorf("next disassembly address incorrect. exp: $1005, got: $%04X", h.settings.NextDisasmAddr)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		s       string
		hexMode bool
		v       int
	}{
		{"10", false, 10},
		{"10", true, 16},
		{"$ff", false, 255},
		{"0x1F", false, 31},
		{"%101", false, 5},
		{"-1", false, -1},
		{"-$10", false, -16},
	}

	for _, tt := range tests {
		v, err := parseNumber(tt.s, tt.hexMode)
		if err != nil {
			t.Errorf("parseNumber(%q) failed: %v", tt.s, err)
			continue
		}
		if v != tt.v {
			t.Errorf("parseNumber(%q) incorrect. exp: %d, got: %d", tt.s, tt.v, v)
		}
	}

	for _, s := range []string{"", "$", "zz", "%102"} {
		if _, err := parseNumber(s, false); err == nil {
			t.Errorf("parseNumber(%q) succeeded", s)
		}
	}
}

func TestStringToBool(t *testing.T) {
	for _, s := range []string{"1", "true", "ON"} {
		if b, err := stringToBool(s); err != nil || !b {
			t.Errorf("stringToBool(%q) = %v, %v", s, b, err)
		}
	}
	for _, s := range []string{"0", "False", "off"} {
		if b, err := stringToBool(s); err != nil || b {
			t.Errorf("stringToBool(%q) = %v, %v", s, b, err)
		}
	}
	if _, err := stringToBool("maybe"); err == nil {
		t.Error("stringToBool(\"maybe\") succeeded")
	}
}

func TestLookupRegister(t *testing.T) {
	var r cpu.Registers
	r.Init()

	for _, name := range []string{"a", "X", "sp", "pc", "ca", "neg"} {
		reg, err := lookupRegister(name)
		if err != nil {
			t.Errorf("lookupRegister(%q) failed: %v", name, err)
			continue
		}
		reg.set(&r, 1)
		if reg.get(&r) != 1 {
			t.Errorf("register %s did not hold its value", reg.name)
		}
	}
	if !r.Carry() || !r.Negative() {
		t.Errorf("flags not set. got: %v", r.PS)
	}

	for _, name := range []string{"p", "q"} {
		if _, err := lookupRegister(name); err == nil {
			t.Errorf("lookupRegister(%q) succeeded", name)
		}
	}
}
