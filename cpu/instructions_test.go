package cpu_test

import (
	"testing"

	"github.com/hev6502/hev6502/cpu"
)

func TestInstructionSet(t *testing.T) {
	set := cpu.GetInstructionSet()
	if set != cpu.GetInstructionSet() {
		t.Error("instruction set rebuilt")
	}

	valid := 0
	for i := 0; i < 256; i++ {
		inst := set.Lookup(byte(i))
		if inst.Opcode != byte(i) {
			t.Errorf("opcode $%02X stored as $%02X", i, inst.Opcode)
		}
		if !inst.Valid() {
			if inst.Length != 1 || inst.Name != "???" {
				t.Errorf("invalid opcode $%02X has name %q length %d", i, inst.Name, inst.Length)
			}
			continue
		}
		valid++
		if inst.Name != inst.Op.String() {
			t.Errorf("opcode $%02X name mismatch: %s != %s", i, inst.Name, inst.Op)
		}
		if inst.Length < 1 || inst.Length > 3 {
			t.Errorf("opcode $%02X has length %d", i, inst.Length)
		}
		if inst.Cycles < 2 || inst.Cycles > 7 {
			t.Errorf("opcode $%02X has %d cycles", i, inst.Cycles)
		}
	}
	if valid != 151 {
		t.Errorf("valid opcode count incorrect. exp: 151, got: %d", valid)
	}
}

func TestInstructionVariants(t *testing.T) {
	set := cpu.GetInstructionSet()

	tests := []struct {
		name  string
		count int
	}{
		{"lda", 8},
		{"STA", 7},
		{"jmp", 2},
		{"BRK", 1},
		{"XYZ", 0},
	}

	for _, test := range tests {
		if n := len(set.GetInstructions(test.name)); n != test.count {
			t.Errorf("%s variants incorrect. exp: %d, got: %d", test.name, test.count, n)
		}
	}

	inst := set.Lookup(0xbd)
	if inst.Op != cpu.OpLDA || inst.Mode != cpu.ABX || inst.Extra != cpu.ExtraPageCross {
		t.Errorf("LDA abs,X incorrect: %+v", inst)
	}
	inst = set.Lookup(0xf0)
	if inst.Op != cpu.OpBEQ || inst.Mode != cpu.REL || inst.Extra != cpu.ExtraBranch || inst.Length != 2 {
		t.Errorf("BEQ incorrect: %+v", inst)
	}
}

func TestInstructionSetImmutable(t *testing.T) {
	set := cpu.GetInstructionSet()

	inst := set.Lookup(0xa9)
	inst.Cycles = 99
	inst.Op = cpu.OpNOP
	if got := set.Lookup(0xa9); got.Cycles != 2 || got.Op != cpu.OpLDA {
		t.Errorf("instruction set modified through lookup: %+v", got)
	}

	variants := set.GetInstructions("lda")
	variants[0].Mode = cpu.ACC
	variants[1].Cycles = 99
	for _, v := range set.GetInstructions("lda") {
		if v.Cycles == 99 || v.Mode == cpu.ACC {
			t.Errorf("instruction set modified through variants: %+v", v)
		}
	}

	c := runCPU(t, 1, 0xa9, 0x01) // LDA #$01
	expectCycles(t, c, 2)
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		ps  cpu.Status
		exp string
	}{
		{0, "nv-bdizc"},
		{cpu.Flags, "NV-BDIZC"},
		{cpu.Carry | cpu.Negative, "Nv-bdizC"},
	}

	for _, test := range tests {
		if s := test.ps.String(); s != test.exp {
			t.Errorf("status string incorrect. exp: %s, got: %s", test.exp, s)
		}
	}
}

func TestPackUnpack(t *testing.T) {
	var r cpu.Registers
	r.Init()

	if p := r.Pack(); p != 0x20 {
		t.Errorf("empty status packed as $%02X", p)
	}

	for v := 0; v < 256; v++ {
		r.Unpack(byte(v))
		if r.PS.Has(cpu.Reserved) {
			t.Errorf("unpack of $%02X kept the reserved bit", v)
		}
		if p := r.Pack(); p != byte(v)|0x20 {
			t.Errorf("round trip of $%02X produced $%02X", v, p)
		}
	}
}
