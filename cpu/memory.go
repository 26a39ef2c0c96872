// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// Interrupt vectors
const (
	VectorNMI   uint16 = 0xfffa
	VectorReset uint16 = 0xfffc
	VectorIRQ   uint16 = 0xfffe
	VectorBRK   uint16 = 0xfffe
)

// The Memory interface presents an interface to the CPU through which all
// memory accesses occur.
type Memory interface {
	// LoadByte loads a single byte from the address and returns it.
	LoadByte(addr uint16) byte

	// StoreByte stores a byte to the requested address.
	StoreByte(addr uint16, v byte)

	// LoadAddress loads a little-endian 16-bit value from the requested
	// address. The low byte comes from addr and the high byte from addr+1.
	LoadAddress(addr uint16) uint16

	// ResetVector returns the address the CPU starts executing from after
	// a reset.
	ResetVector() uint16
}

// FlatMemory represents an entire 16-bit address space as a singular
// 64K buffer.
type FlatMemory struct {
	b           [64 * 1024]byte
	resetVector uint16
}

// NewFlatMemory creates a new 16-bit memory space.
func NewFlatMemory() *FlatMemory {
	return &FlatMemory{resetVector: VectorReset}
}

// LoadByte loads a single byte from the address and returns it.
func (m *FlatMemory) LoadByte(addr uint16) byte {
	return m.b[addr]
}

// LoadBytes loads multiple bytes from the address and stores them into
// the buffer 'b'. Reads past the end of memory wrap to address 0.
func (m *FlatMemory) LoadBytes(addr uint16, b []byte) {
	for i := range b {
		b[i] = m.b[addr]
		addr++
	}
}

// LoadAddress loads a 16-bit address value from the requested address and
// returns it.
func (m *FlatMemory) LoadAddress(addr uint16) uint16 {
	return uint16(m.b[addr]) | uint16(m.b[addr+1])<<8
}

// StoreByte stores a byte at the requested address.
func (m *FlatMemory) StoreByte(addr uint16, v byte) {
	m.b[addr] = v
}

// StoreBytes stores multiple bytes to the requested address. Writes past
// the end of memory wrap to address 0.
func (m *FlatMemory) StoreBytes(addr uint16, b []byte) {
	for _, v := range b {
		m.b[addr] = v
		addr++
	}
}

// StoreAddress stores a 16-bit address value to the requested address.
func (m *FlatMemory) StoreAddress(addr uint16, v uint16) {
	m.b[addr] = byte(v)
	m.b[addr+1] = byte(v >> 8)
}

// ResetVector returns the address stored at the reset vector location.
func (m *FlatMemory) ResetVector() uint16 {
	return m.LoadAddress(m.resetVector)
}

// ResetVectorAddr returns the location of the reset vector.
func (m *FlatMemory) ResetVectorAddr() uint16 {
	return m.resetVector
}

// SetResetVectorAddr moves the reset vector location. Programs built for
// hosts that seed the program counter from $FFFE instead of $FFFC need this.
func (m *FlatMemory) SetResetVectorAddr(addr uint16) {
	m.resetVector = addr
}

// Return the offset address 'addr' + 'offset'. If the offset
// crossed a page boundary, return 'pageCrossed' as true.
func offsetAddress(addr uint16, offset byte) (newAddr uint16, pageCrossed bool) {
	newAddr = addr + uint16(offset)
	pageCrossed = ((newAddr & 0xff00) != (addr & 0xff00))
	return newAddr, pageCrossed
}

// Offset a zero-page address 'addr' by 'offset'. If the address
// exceeds the zero-page address space, wrap it.
func offsetZeroPage(addr byte, offset byte) uint16 {
	return uint16(addr + offset)
}

// Load a 16-bit address whose two bytes both come from the page containing
// 'addr'. The high byte of a pointer stored at $xxFF comes from $xx00.
func loadAddressInPage(m Memory, addr uint16) uint16 {
	hi := addr&0xff00 | uint16(byte(addr)+1)
	return uint16(m.LoadByte(addr)) | uint16(m.LoadByte(hi))<<8
}

// Given a 1-byte stack pointer register, return the stack
// corresponding memory address.
func stackAddress(offset byte) uint16 {
	return uint16(0x100) + uint16(offset)
}
