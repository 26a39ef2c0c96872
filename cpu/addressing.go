// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// An operand is the result of resolving an instruction's addressing mode.
// Immediate instructions carry their value; memory instructions carry the
// effective address. Accumulator and implied instructions carry neither.
type operand struct {
	mode        Mode
	addr        uint16 // effective address (or branch target)
	value       byte   // immediate value
	pageCrossed bool   // indexing crossed a page boundary
}

// Resolve the operand of an instruction using addressing mode 'mode'. The
// operand bytes start at 'pc', the address immediately following the
// opcode. Return the resolved operand and the number of operand bytes
// consumed. Registers are never modified.
func (cpu *CPU) resolve(mode Mode, pc uint16) (op operand, n uint16) {
	mem := cpu.Mem
	op.mode = mode

	switch mode {
	case IMP, ACC:
		return op, 0

	case IMM:
		op.value = mem.LoadByte(pc)
		return op, 1

	case ZPG:
		op.addr = uint16(mem.LoadByte(pc))
		return op, 1

	case ZPX:
		op.addr = offsetZeroPage(mem.LoadByte(pc), cpu.Reg.X)
		return op, 1

	case ZPY:
		op.addr = offsetZeroPage(mem.LoadByte(pc), cpu.Reg.Y)
		return op, 1

	case ABS:
		op.addr = mem.LoadAddress(pc)
		return op, 2

	case ABX:
		op.addr, op.pageCrossed = offsetAddress(mem.LoadAddress(pc), cpu.Reg.X)
		return op, 2

	case ABY:
		op.addr, op.pageCrossed = offsetAddress(mem.LoadAddress(pc), cpu.Reg.Y)
		return op, 2

	case IND:
		// The NMOS 6502 never carries into the pointer's high byte, so
		// JMP ($12FF) takes its target from $12FF and $1200.
		ptr := mem.LoadAddress(pc)
		op.addr = loadAddressInPage(mem, ptr)
		return op, 2

	case IDX:
		zp := offsetZeroPage(mem.LoadByte(pc), cpu.Reg.X)
		op.addr = loadAddressInPage(mem, zp)
		return op, 1

	case IDY:
		zp := uint16(mem.LoadByte(pc))
		base := loadAddressInPage(mem, zp)
		op.addr, op.pageCrossed = offsetAddress(base, cpu.Reg.Y)
		return op, 1

	case REL:
		offset := int8(mem.LoadByte(pc))
		next := pc + 1
		op.addr = next + uint16(offset)
		op.pageCrossed = (next & 0xff00) != (op.addr & 0xff00)
		return op, 1

	default:
		panic("Invalid addressing mode")
	}
}

// Load a byte value using the resolved operand.
func (cpu *CPU) load(op operand) byte {
	switch op.mode {
	case IMM:
		return op.value
	case ACC:
		return cpu.Reg.A
	case IMP, REL:
		panic("Invalid addressing mode")
	default:
		return cpu.Mem.LoadByte(op.addr)
	}
}

// Store a byte value using the resolved operand.
func (cpu *CPU) store(op operand, v byte) {
	switch op.mode {
	case ACC:
		cpu.Reg.A = v
	case IMM, IMP, REL:
		panic("Invalid addressing mode")
	default:
		cpu.storeByte(cpu, op.addr, v)
	}
}
