// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"strings"
	"sync"
)

// An Op identifies the operation performed by an instruction. Every
// documented 6502 mnemonic has exactly one Op; OpInvalid marks opcodes
// with no operation assigned.
type Op byte

// All operations
const (
	OpInvalid Op = iota
	OpADC
	OpAND
	OpASL
	OpBCC
	OpBCS
	OpBEQ
	OpBIT
	OpBMI
	OpBNE
	OpBPL
	OpBRK
	OpBVC
	OpBVS
	OpCLC
	OpCLD
	OpCLI
	OpCLV
	OpCMP
	OpCPX
	OpCPY
	OpDEC
	OpDEX
	OpDEY
	OpEOR
	OpINC
	OpINX
	OpINY
	OpJMP
	OpJSR
	OpLDA
	OpLDX
	OpLDY
	OpLSR
	OpNOP
	OpORA
	OpPHA
	OpPHP
	OpPLA
	OpPLP
	OpROL
	OpROR
	OpRTI
	OpRTS
	OpSBC
	OpSEC
	OpSED
	OpSEI
	OpSTA
	OpSTX
	OpSTY
	OpTAX
	OpTAY
	OpTSX
	OpTXA
	OpTXS
	OpTYA
	opCount
)

var opNames = [opCount]string{
	"???",
	"ADC", "AND", "ASL", "BCC", "BCS", "BEQ", "BIT", "BMI",
	"BNE", "BPL", "BRK", "BVC", "BVS", "CLC", "CLD", "CLI",
	"CLV", "CMP", "CPX", "CPY", "DEC", "DEX", "DEY", "EOR",
	"INC", "INX", "INY", "JMP", "JSR", "LDA", "LDX", "LDY",
	"LSR", "NOP", "ORA", "PHA", "PHP", "PLA", "PLP", "ROL",
	"ROR", "RTI", "RTS", "SBC", "SEC", "SED", "SEI", "STA",
	"STX", "STY", "TAX", "TAY", "TSX", "TXA", "TXS", "TYA",
}

// String returns the all-caps mnemonic of the operation.
func (op Op) String() string {
	if op >= opCount {
		return opNames[OpInvalid]
	}
	return opNames[op]
}

// Mode describes a memory addressing mode.
type Mode byte

// All possible memory addressing modes
const (
	IMM Mode = iota // Immediate
	IMP             // Implied (no operand)
	REL             // Relative
	ZPG             // Zero Page
	ZPX             // Zero Page,X
	ZPY             // Zero Page,Y
	ABS             // Absolute
	ABX             // Absolute,X
	ABY             // Absolute,Y
	IND             // (Indirect)
	IDX             // (Indirect,X)
	IDY             // (Indirect),Y
	ACC             // Accumulator (no operand)
)

// Combined size of opcode and operand for each addressing mode.
var modeLength = [...]byte{
	IMM: 2, IMP: 1, REL: 2, ZPG: 2, ZPX: 2, ZPY: 2,
	ABS: 3, ABX: 3, ABY: 3, IND: 3, IDX: 2, IDY: 2, ACC: 1,
}

// Extra describes when an instruction may cost more than its base cycles.
type Extra byte

const (
	// ExtraNone instructions always take their base cycle count.
	ExtraNone Extra = iota

	// ExtraPageCross instructions take one more cycle when indexing crosses
	// a page boundary.
	ExtraPageCross

	// ExtraBranch instructions take one more cycle when the branch is
	// taken, and another when the target lies on a different page.
	ExtraBranch
)

// Opcode data for an (opcode, mode) pair
type opcodeData struct {
	op     Op    // operation
	mode   Mode  // addressing mode
	opcode byte  // opcode hex value
	cycles byte  // number of CPU cycles to execute command
	extra  Extra // extra cycle class
}

const (
	xn = ExtraNone
	xp = ExtraPageCross
	xb = ExtraBranch
)

// All valid (opcode, mode) pairs
var data = []opcodeData{
	{OpLDA, IMM, 0xa9, 2, xn},
	{OpLDA, ZPG, 0xa5, 3, xn},
	{OpLDA, ZPX, 0xb5, 4, xn},
	{OpLDA, ABS, 0xad, 4, xn},
	{OpLDA, ABX, 0xbd, 4, xp},
	{OpLDA, ABY, 0xb9, 4, xp},
	{OpLDA, IDX, 0xa1, 6, xn},
	{OpLDA, IDY, 0xb1, 5, xp},

	{OpLDX, IMM, 0xa2, 2, xn},
	{OpLDX, ZPG, 0xa6, 3, xn},
	{OpLDX, ZPY, 0xb6, 4, xn},
	{OpLDX, ABS, 0xae, 4, xn},
	{OpLDX, ABY, 0xbe, 4, xp},

	{OpLDY, IMM, 0xa0, 2, xn},
	{OpLDY, ZPG, 0xa4, 3, xn},
	{OpLDY, ZPX, 0xb4, 4, xn},
	{OpLDY, ABS, 0xac, 4, xn},
	{OpLDY, ABX, 0xbc, 4, xp},

	{OpSTA, ZPG, 0x85, 3, xn},
	{OpSTA, ZPX, 0x95, 4, xn},
	{OpSTA, ABS, 0x8d, 4, xn},
	{OpSTA, ABX, 0x9d, 5, xn},
	{OpSTA, ABY, 0x99, 5, xn},
	{OpSTA, IDX, 0x81, 6, xn},
	{OpSTA, IDY, 0x91, 6, xn},

	{OpSTX, ZPG, 0x86, 3, xn},
	{OpSTX, ZPY, 0x96, 4, xn},
	{OpSTX, ABS, 0x8e, 4, xn},

	{OpSTY, ZPG, 0x84, 3, xn},
	{OpSTY, ZPX, 0x94, 4, xn},
	{OpSTY, ABS, 0x8c, 4, xn},

	{OpADC, IMM, 0x69, 2, xn},
	{OpADC, ZPG, 0x65, 3, xn},
	{OpADC, ZPX, 0x75, 4, xn},
	{OpADC, ABS, 0x6d, 4, xn},
	{OpADC, ABX, 0x7d, 4, xp},
	{OpADC, ABY, 0x79, 4, xp},
	{OpADC, IDX, 0x61, 6, xn},
	{OpADC, IDY, 0x71, 5, xp},

	{OpSBC, IMM, 0xe9, 2, xn},
	{OpSBC, ZPG, 0xe5, 3, xn},
	{OpSBC, ZPX, 0xf5, 4, xn},
	{OpSBC, ABS, 0xed, 4, xn},
	{OpSBC, ABX, 0xfd, 4, xp},
	{OpSBC, ABY, 0xf9, 4, xp},
	{OpSBC, IDX, 0xe1, 6, xn},
	{OpSBC, IDY, 0xf1, 5, xp},

	{OpCMP, IMM, 0xc9, 2, xn},
	{OpCMP, ZPG, 0xc5, 3, xn},
	{OpCMP, ZPX, 0xd5, 4, xn},
	{OpCMP, ABS, 0xcd, 4, xn},
	{OpCMP, ABX, 0xdd, 4, xp},
	{OpCMP, ABY, 0xd9, 4, xp},
	{OpCMP, IDX, 0xc1, 6, xn},
	{OpCMP, IDY, 0xd1, 5, xp},

	{OpCPX, IMM, 0xe0, 2, xn},
	{OpCPX, ZPG, 0xe4, 3, xn},
	{OpCPX, ABS, 0xec, 4, xn},

	{OpCPY, IMM, 0xc0, 2, xn},
	{OpCPY, ZPG, 0xc4, 3, xn},
	{OpCPY, ABS, 0xcc, 4, xn},

	{OpBIT, ZPG, 0x24, 3, xn},
	{OpBIT, ABS, 0x2c, 4, xn},

	{OpCLC, IMP, 0x18, 2, xn},
	{OpSEC, IMP, 0x38, 2, xn},
	{OpCLI, IMP, 0x58, 2, xn},
	{OpSEI, IMP, 0x78, 2, xn},
	{OpCLD, IMP, 0xd8, 2, xn},
	{OpSED, IMP, 0xf8, 2, xn},
	{OpCLV, IMP, 0xb8, 2, xn},

	{OpBCC, REL, 0x90, 2, xb},
	{OpBCS, REL, 0xb0, 2, xb},
	{OpBEQ, REL, 0xf0, 2, xb},
	{OpBNE, REL, 0xd0, 2, xb},
	{OpBMI, REL, 0x30, 2, xb},
	{OpBPL, REL, 0x10, 2, xb},
	{OpBVC, REL, 0x50, 2, xb},
	{OpBVS, REL, 0x70, 2, xb},

	{OpBRK, IMP, 0x00, 7, xn},

	{OpAND, IMM, 0x29, 2, xn},
	{OpAND, ZPG, 0x25, 3, xn},
	{OpAND, ZPX, 0x35, 4, xn},
	{OpAND, ABS, 0x2d, 4, xn},
	{OpAND, ABX, 0x3d, 4, xp},
	{OpAND, ABY, 0x39, 4, xp},
	{OpAND, IDX, 0x21, 6, xn},
	{OpAND, IDY, 0x31, 5, xp},

	{OpORA, IMM, 0x09, 2, xn},
	{OpORA, ZPG, 0x05, 3, xn},
	{OpORA, ZPX, 0x15, 4, xn},
	{OpORA, ABS, 0x0d, 4, xn},
	{OpORA, ABX, 0x1d, 4, xp},
	{OpORA, ABY, 0x19, 4, xp},
	{OpORA, IDX, 0x01, 6, xn},
	{OpORA, IDY, 0x11, 5, xp},

	{OpEOR, IMM, 0x49, 2, xn},
	{OpEOR, ZPG, 0x45, 3, xn},
	{OpEOR, ZPX, 0x55, 4, xn},
	{OpEOR, ABS, 0x4d, 4, xn},
	{OpEOR, ABX, 0x5d, 4, xp},
	{OpEOR, ABY, 0x59, 4, xp},
	{OpEOR, IDX, 0x41, 6, xn},
	{OpEOR, IDY, 0x51, 5, xp},

	{OpINC, ZPG, 0xe6, 5, xn},
	{OpINC, ZPX, 0xf6, 6, xn},
	{OpINC, ABS, 0xee, 6, xn},
	{OpINC, ABX, 0xfe, 7, xn},

	{OpDEC, ZPG, 0xc6, 5, xn},
	{OpDEC, ZPX, 0xd6, 6, xn},
	{OpDEC, ABS, 0xce, 6, xn},
	{OpDEC, ABX, 0xde, 7, xn},

	{OpINX, IMP, 0xe8, 2, xn},
	{OpINY, IMP, 0xc8, 2, xn},

	{OpDEX, IMP, 0xca, 2, xn},
	{OpDEY, IMP, 0x88, 2, xn},

	{OpJMP, ABS, 0x4c, 3, xn},
	{OpJMP, IND, 0x6c, 5, xn},

	{OpJSR, ABS, 0x20, 6, xn},
	{OpRTS, IMP, 0x60, 6, xn},

	{OpRTI, IMP, 0x40, 6, xn},

	{OpNOP, IMP, 0xea, 2, xn},

	{OpTAX, IMP, 0xaa, 2, xn},
	{OpTXA, IMP, 0x8a, 2, xn},
	{OpTAY, IMP, 0xa8, 2, xn},
	{OpTYA, IMP, 0x98, 2, xn},
	{OpTXS, IMP, 0x9a, 2, xn},
	{OpTSX, IMP, 0xba, 2, xn},

	{OpPHA, IMP, 0x48, 3, xn},
	{OpPLA, IMP, 0x68, 4, xn},
	{OpPHP, IMP, 0x08, 3, xn},
	{OpPLP, IMP, 0x28, 4, xn},

	{OpASL, ACC, 0x0a, 2, xn},
	{OpASL, ZPG, 0x06, 5, xn},
	{OpASL, ZPX, 0x16, 6, xn},
	{OpASL, ABS, 0x0e, 6, xn},
	{OpASL, ABX, 0x1e, 7, xn},

	{OpLSR, ACC, 0x4a, 2, xn},
	{OpLSR, ZPG, 0x46, 5, xn},
	{OpLSR, ZPX, 0x56, 6, xn},
	{OpLSR, ABS, 0x4e, 6, xn},
	{OpLSR, ABX, 0x5e, 7, xn},

	{OpROL, ACC, 0x2a, 2, xn},
	{OpROL, ZPG, 0x26, 5, xn},
	{OpROL, ZPX, 0x36, 6, xn},
	{OpROL, ABS, 0x2e, 6, xn},
	{OpROL, ABX, 0x3e, 7, xn},

	{OpROR, ACC, 0x6a, 2, xn},
	{OpROR, ZPG, 0x66, 5, xn},
	{OpROR, ZPX, 0x76, 6, xn},
	{OpROR, ABS, 0x6e, 6, xn},
	{OpROR, ABX, 0x7e, 7, xn},
}

// An Instruction describes a CPU instruction, including its name,
// its addressing mode, its opcode value, its operand size, and its CPU cycle
// cost.
type Instruction struct {
	Name   string // all-caps name of the instruction
	Op     Op     // operation performed
	Mode   Mode   // addressing mode
	Opcode byte   // hexadecimal opcode value
	Length byte   // combined size of opcode and operand, in bytes
	Cycles byte   // base number of CPU cycles to execute the instruction
	Extra  Extra  // conditions that add cycles to the base count
}

// Valid returns true if the instruction has an operation assigned.
func (inst Instruction) Valid() bool {
	return inst.Op != OpInvalid
}

// An InstructionSet defines the set of all possible instructions that
// can run on the emulated CPU.
type InstructionSet struct {
	instructions [256]Instruction  // all instructions by opcode
	variants     map[string][]byte // opcodes of each instruction's variants
}

// Lookup retrieves a copy of the CPU instruction corresponding to the
// requested opcode. The set itself cannot be modified through it.
func (s *InstructionSet) Lookup(opcode byte) Instruction {
	return s.instructions[opcode]
}

// GetInstructions returns copies of all CPU instructions whose name
// matches the provided string.
func (s *InstructionSet) GetInstructions(name string) []Instruction {
	v := s.variants[strings.ToUpper(name)]
	insts := make([]Instruction, len(v))
	for i, opcode := range v {
		insts[i] = s.instructions[opcode]
	}
	return insts
}

// Create the instruction set.
func newInstructionSet() *InstructionSet {
	set := &InstructionSet{
		variants: make(map[string][]byte),
	}

	// Every opcode starts out invalid.
	for i := range set.instructions {
		set.instructions[i] = Instruction{
			Name:   OpInvalid.String(),
			Op:     OpInvalid,
			Mode:   IMP,
			Opcode: byte(i),
			Length: modeLength[IMP],
		}
	}

	for _, d := range data {
		inst := &set.instructions[d.opcode]
		if inst.Valid() {
			panic("duplicate opcode")
		}

		inst.Name = d.op.String()
		inst.Op = d.op
		inst.Mode = d.mode
		inst.Length = modeLength[d.mode]
		inst.Cycles = d.cycles
		inst.Extra = d.extra

		set.variants[inst.Name] = append(set.variants[inst.Name], d.opcode)
	}
	return set
}

var (
	instructionSet     *InstructionSet
	instructionSetOnce sync.Once
)

// GetInstructionSet returns the 6502 instruction set. It is built on first
// use and never modified afterwards.
func GetInstructionSet() *InstructionSet {
	instructionSetOnce.Do(func() {
		instructionSet = newInstructionSet()
	})
	return instructionSet
}
