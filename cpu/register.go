// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import "strings"

// Status holds the processor status flags as a set of bits.
type Status byte

// Bits assigned to the processor status byte
const (
	Carry            Status = 1 << 0 // C
	Zero             Status = 1 << 1 // Z
	InterruptDisable Status = 1 << 2 // I
	Decimal          Status = 1 << 3 // D
	Break            Status = 1 << 4 // B
	Reserved         Status = 1 << 5 // unused, always 1 when packed
	Overflow         Status = 1 << 6 // V
	Negative         Status = 1 << 7 // N (sign)
)

// Flags is the set of all real status flags.
const Flags = Carry | Zero | InterruptDisable | Decimal | Break | Overflow | Negative

// Has returns true if every flag in f is set.
func (s Status) Has(f Status) bool {
	return s&f == f
}

// Set turns the flags in f on or off.
func (s *Status) Set(f Status, on bool) {
	if on {
		*s |= f
	} else {
		*s &^= f
	}
}

// String returns the status in NV-BDIZC notation. Set flags are shown in
// upper case and clear flags in lower case.
func (s Status) String() string {
	const names = "czidb-vn"
	var b strings.Builder
	for i := 7; i >= 0; i-- {
		c := names[i]
		switch {
		case c == '-':
		case s&(1<<uint(i)) != 0:
			c -= 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Registers contains the state of all 6502 registers.
type Registers struct {
	A  byte   // accumulator
	X  byte   // X indexing register
	Y  byte   // Y indexing register
	SP byte   // stack pointer ($100 + SP = stack memory location)
	PC uint16 // program counter
	PS Status // processor status flags
}

// Init initializes all registers. A, X, Y = 0. SP = 0xff. PC = 0. PS = 0.
func (r *Registers) Init() {
	r.A = 0
	r.X = 0
	r.Y = 0
	r.SP = 0xff
	r.PC = 0
	r.PS = 0
}

// Pack folds the status flags into a status byte. The reserved bit is
// always set.
func (r *Registers) Pack() byte {
	return byte(r.PS&Flags | Reserved)
}

// Unpack restores all status flags from a status byte. The reserved bit is
// ignored.
func (r *Registers) Unpack(ps byte) {
	r.PS = Status(ps) & Flags
}

// Carry returns the carry flag.
func (r *Registers) Carry() bool { return r.PS.Has(Carry) }

// Zero returns the zero flag.
func (r *Registers) Zero() bool { return r.PS.Has(Zero) }

// InterruptDisable returns the interrupt disable flag.
func (r *Registers) InterruptDisable() bool { return r.PS.Has(InterruptDisable) }

// Decimal returns the decimal mode flag.
func (r *Registers) Decimal() bool { return r.PS.Has(Decimal) }

// Break returns the break flag.
func (r *Registers) Break() bool { return r.PS.Has(Break) }

// Overflow returns the overflow flag.
func (r *Registers) Overflow() bool { return r.PS.Has(Overflow) }

// Negative returns the negative (sign) flag.
func (r *Registers) Negative() bool { return r.PS.Has(Negative) }

// SetCarry sets or clears the carry flag.
func (r *Registers) SetCarry(on bool) { r.PS.Set(Carry, on) }

// SetZero sets or clears the zero flag.
func (r *Registers) SetZero(on bool) { r.PS.Set(Zero, on) }

// SetInterruptDisable sets or clears the interrupt disable flag.
func (r *Registers) SetInterruptDisable(on bool) { r.PS.Set(InterruptDisable, on) }

// SetDecimal sets or clears the decimal mode flag.
func (r *Registers) SetDecimal(on bool) { r.PS.Set(Decimal, on) }

// SetBreak sets or clears the break flag.
func (r *Registers) SetBreak(on bool) { r.PS.Set(Break, on) }

// SetOverflow sets or clears the overflow flag.
func (r *Registers) SetOverflow(on bool) { r.PS.Set(Overflow, on) }

// SetNegative sets or clears the negative (sign) flag.
func (r *Registers) SetNegative(on bool) { r.PS.Set(Negative, on) }

func boolToByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}
