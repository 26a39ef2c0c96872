package host

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runTestScript(t *testing.T, h *Host, src string) (string, error) {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "test.lua")
	if err := os.WriteFile(filename, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	h.output = bufio.NewWriter(&out)
	err := h.runScript(filename)
	return out.String(), err
}

func TestScriptMemoryAndRegisters(t *testing.T) {
	h := New()
	out, err := runTestScript(t, h, `
poke(0x1000, 0xa9)
poke(0x1001, 0x2a)
poke(0x1002, 0x60)
local cycles, stop = call(0x1000)
print(reg("a"), stop, cycles)
setreg("x", 7)
setreg("carry", true)
print(reg("carry"), peek(0x1001))
`)
	if err != nil {
		t.Fatalf("script failed: %v", err)
	}
	expectOutput(t, out,
		"Halted after 8 cycles.",
		"42\thalt\t8",
		"true\t42",
	)
	if h.cpu.Reg.X != 7 {
		t.Errorf("X incorrect. exp: 7, got: %d", h.cpu.Reg.X)
	}
	if !h.cpu.Reg.Carry() {
		t.Error("carry flag not set")
	}
}

func TestScriptStep(t *testing.T) {
	h := New()
	out, err := runTestScript(t, h, `
cmd("memory set $1000 $e8 $e8 $60")
setreg("pc", 0x1000)
local c, halted = step(2)
print(c, halted, reg("x"), cycles())
`)
	if err != nil {
		t.Fatalf("script failed: %v", err)
	}
	expectOutput(t, out, "Stored 3 byte(s) at $1000.", "4\tfalse\t2\t4")
	if h.cpu.Reg.PC != 0x1002 {
		t.Errorf("PC incorrect. exp: $1002, got: $%04X", h.cpu.Reg.PC)
	}
}

func TestScriptErrors(t *testing.T) {
	h := New()
	_, err := runTestScript(t, h, `poke(0x10000, 1)`)
	if err == nil {
		t.Fatal("out-of-range poke succeeded")
	}
	if !strings.Contains(err.Error(), "script 'test.lua' failed") {
		t.Errorf("unexpected error: %v", err)
	}

	_, err = runTestScript(t, h, `reg("q")`)
	if err == nil {
		t.Error("unknown register lookup succeeded")
	}

	_, err = runTestScript(t, h, `
cmd("memory set $1000 $02")
setreg("pc", 0x1000)
step()
`)
	if err == nil || !strings.Contains(err.Error(), "invalid opcode $02") {
		t.Errorf("expected invalid opcode error, got %v", err)
	}
}

func TestScriptQuit(t *testing.T) {
	h := New()
	_, err := runTestScript(t, h, `
poke(0x2000, 1)
cmd("quit")
poke(0x2001, 1)
`)
	if err != ErrQuit {
		t.Fatalf("expected ErrQuit, got %v", err)
	}
	expectByte(t, h, 0x2000, 1)
	expectByte(t, h, 0x2001, 0)
}

func TestScriptErrorMentioningQuit(t *testing.T) {
	h := New()
	for _, src := range []string{
		`error("exiting program")`,
		`error("please quit")`,
	} {
		_, err := runTestScript(t, h, src)
		if err == nil || err == ErrQuit {
			t.Errorf("script %s returned %v", src, err)
		}
	}

	// A quit caught by pcall still ends the run.
	_, err := runTestScript(t, h, `pcall(cmd, "quit")`)
	if err != ErrQuit {
		t.Errorf("expected ErrQuit, got %v", err)
	}
}
