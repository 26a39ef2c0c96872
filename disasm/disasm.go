// Copyright 2014 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disasm implements a 6502 instruction set
// disassembler.
package disasm

import (
	"fmt"
	"strings"

	"github.com/hev6502/hev6502/cpu"
)

// Disassembler formatting for addressing modes
var modeFormat = []string{
	"#$%s",    // IMM
	"",        // IMP
	"$%s",     // REL
	"$%s",     // ZPG
	"$%s,X",   // ZPX
	"$%s,Y",   // ZPY
	"$%s",     // ABS
	"$%s,X",   // ABX
	"$%s,Y",   // ABY
	"($%s)",   // IND
	"($%s,X)", // IDX
	"($%s),Y", // IDY
	"A",       // ACC
}

var hex = "0123456789ABCDEF"

// Return a hexadecimal string representation of the little-endian byte
// slice, most significant byte first.
func hexString(b []byte) string {
	hexlen := len(b) * 2
	hexbuf := make([]byte, hexlen)
	j := hexlen - 1
	for _, n := range b {
		hexbuf[j] = hex[n&0xf]
		hexbuf[j-1] = hex[n>>4]
		j -= 2
	}
	return string(hexbuf)
}

// Load 'n' bytes of memory starting at 'addr'.
func loadBytes(m cpu.Memory, addr uint16, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = m.LoadByte(addr + uint16(i))
	}
	return b
}

// Disassemble the machine code in memory 'm' at address 'addr'. Return a
// 'line' string representing the disassembled instruction and a 'next'
// address that starts the following line of machine code.
func Disassemble(m cpu.Memory, addr uint16) (line string, next uint16) {
	opcode := m.LoadByte(addr)
	inst := cpu.GetInstructionSet().Lookup(opcode)
	operand := loadBytes(m, addr+1, int(inst.Length)-1)
	if inst.Mode == cpu.REL {
		// Convert relative offset to absolute address.
		braddr := addr + uint16(inst.Length) + uint16(int8(operand[0]))
		operand = []byte{byte(braddr), byte(braddr >> 8)}
	}

	format := modeFormat[inst.Mode]
	switch {
	case format == "":
		line = inst.Name
	case strings.Contains(format, "%s"):
		line = inst.Name + " " + fmt.Sprintf(format, hexString(operand))
	default:
		line = inst.Name + " " + format
	}
	next = addr + uint16(inst.Length)
	return line, next
}

// Bytes returns the machine code bytes of the instruction at 'addr' as
// space-separated hexadecimal pairs.
func Bytes(m cpu.Memory, addr uint16) string {
	inst := cpu.GetInstructionSet().Lookup(m.LoadByte(addr))
	b := loadBytes(m, addr, int(inst.Length))
	s := make([]string, len(b))
	for i, v := range b {
		s[i] = hexString([]byte{v})
	}
	return strings.Join(s, " ")
}
