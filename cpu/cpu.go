// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cpu implements a 6502 CPU instruction
// set and emulator.
package cpu

import "context"

// HaltAddr is the return address that ends execution. When RTS or RTI
// pulls it from the stack, the CPU reports a halt instead of jumping.
const HaltAddr uint16 = 0xffff

// CPU represents a single 6502 CPU. It contains a pointer to the
// memory associated with the CPU.
type CPU struct {
	Reg         Registers // CPU registers
	Mem         Memory    // assigned memory
	Cycles      uint64    // total executed CPU cycles
	LastPC      uint16    // Previous program counter
	instSet     *InstructionSet
	deltaCycles int
	halt        bool
	debugger    *Debugger
	storeByte   func(cpu *CPU, addr uint16, v byte)
}

// StepResult describes the outcome of executing a single instruction.
type StepResult struct {
	Cycles int  // CPU cycles consumed by the instruction
	Halt   bool // the instruction returned to HaltAddr
}

// NewCPU creates an emulated 6502 CPU bound to the specified memory. The
// program counter is loaded from the memory's reset vector.
func NewCPU(m Memory) *CPU {
	cpu := &CPU{
		Mem:       m,
		instSet:   GetInstructionSet(),
		storeByte: (*CPU).storeByteNormal,
	}

	cpu.Reset()
	return cpu
}

// SetPC updates the CPU program counter to 'addr'.
func (cpu *CPU) SetPC(addr uint16) {
	cpu.Reg.PC = addr
}

// GetInstruction returns the instruction opcode at the requested address.
func (cpu *CPU) GetInstruction(addr uint16) Instruction {
	opcode := cpu.Mem.LoadByte(addr)
	return cpu.instSet.Lookup(opcode)
}

// NextAddr returns the address of the next instruction following the
// instruction at addr.
func (cpu *CPU) NextAddr(addr uint16) uint16 {
	inst := cpu.GetInstruction(addr)
	return addr + uint16(inst.Length)
}

// Step the cpu by one instruction. If the opcode at the program counter is
// invalid, an *InvalidOpcodeError is returned and the CPU is unchanged.
func (cpu *CPU) Step() (StepResult, error) {
	// Grab the next opcode at the current PC
	pc := cpu.Reg.PC
	opcode := cpu.Mem.LoadByte(pc)

	// Look up the instruction data for the opcode
	inst := cpu.instSet.Lookup(opcode)
	if !inst.Valid() {
		return StepResult{}, &InvalidOpcodeError{Addr: pc, Opcode: opcode}
	}

	// Resolve the operand (if any) and advance the PC past it
	op, n := cpu.resolve(inst.Mode, pc+1)
	cpu.LastPC = pc
	cpu.Reg.PC = pc + 1 + n

	// Execute the instruction
	cpu.deltaCycles = 0
	cpu.halt = false
	cpu.execute(&inst, op)

	// Update the CPU cycle counter, with special-case logic
	// to handle a page boundary crossing
	cycles := int(inst.Cycles) + cpu.deltaCycles
	if inst.Extra == ExtraPageCross && op.pageCrossed {
		cycles++
	}
	cpu.Cycles += uint64(cycles)

	// Update the debugger so it handle breakpoints.
	if cpu.debugger != nil {
		cpu.debugger.onUpdatePC(cpu, cpu.Reg.PC)
	}

	return StepResult{Cycles: cycles, Halt: cpu.halt}, nil
}

// Run steps the CPU until an instruction halts it, an invalid opcode is
// fetched, or the context is done. The context is checked between
// instructions. Run returns the number of cycles it consumed.
func (cpu *CPU) Run(ctx context.Context) (uint64, error) {
	start := cpu.Cycles
	for {
		if err := ctx.Err(); err != nil {
			return cpu.Cycles - start, err
		}
		r, err := cpu.Step()
		if err != nil {
			return cpu.Cycles - start, err
		}
		if r.Halt {
			return cpu.Cycles - start, nil
		}
	}
}

// Call prepares the CPU to run the subroutine at 'addr' as if it had been
// called with JSR from outside the program. When the subroutine returns
// with RTS, the CPU halts.
func (cpu *CPU) Call(addr uint16) {
	cpu.pushAddress(HaltAddr)
	cpu.Reg.PC = addr
}

// Reset initializes the registers and loads the program counter from the
// memory's reset vector.
func (cpu *CPU) Reset() {
	cpu.Reg.Init()
	cpu.Reg.PC = cpu.Mem.ResetVector()
}

// IRQ raises a maskable interrupt request. It is ignored while the
// InterruptDisable flag is set. IRQ returns the cycles consumed.
func (cpu *CPU) IRQ() int {
	if cpu.Reg.InterruptDisable() {
		return 0
	}
	cpu.handleInterrupt(false, VectorIRQ)
	cpu.Cycles += 7
	return 7
}

// NMI raises a non-maskable interrupt and returns the cycles consumed.
func (cpu *CPU) NMI() int {
	cpu.handleInterrupt(false, VectorNMI)
	cpu.Cycles += 7
	return 7
}

// AttachDebugger attaches a debugger to the CPU. The debugger receives
// notifications whenever the CPU executes an instruction or stores a byte
// to memory.
func (cpu *CPU) AttachDebugger(debugger *Debugger) {
	cpu.debugger = debugger
	cpu.storeByte = (*CPU).storeByteDebugger
}

// DetachDebugger detaches the currently debugger from the CPU.
func (cpu *CPU) DetachDebugger() {
	cpu.debugger = nil
	cpu.storeByte = (*CPU).storeByteNormal
}

// Dispatch the instruction to its operation handler.
func (cpu *CPU) execute(inst *Instruction, op operand) {
	switch inst.Op {
	case OpADC:
		cpu.adc(op)
	case OpAND:
		cpu.and(op)
	case OpASL:
		cpu.asl(op)
	case OpBCC:
		cpu.branchIf(op, !cpu.Reg.Carry())
	case OpBCS:
		cpu.branchIf(op, cpu.Reg.Carry())
	case OpBEQ:
		cpu.branchIf(op, cpu.Reg.Zero())
	case OpBIT:
		cpu.bit(op)
	case OpBMI:
		cpu.branchIf(op, cpu.Reg.Negative())
	case OpBNE:
		cpu.branchIf(op, !cpu.Reg.Zero())
	case OpBPL:
		cpu.branchIf(op, !cpu.Reg.Negative())
	case OpBRK:
		cpu.brk()
	case OpBVC:
		cpu.branchIf(op, !cpu.Reg.Overflow())
	case OpBVS:
		cpu.branchIf(op, cpu.Reg.Overflow())
	case OpCLC:
		cpu.Reg.SetCarry(false)
	case OpCLD:
		cpu.Reg.SetDecimal(false)
	case OpCLI:
		cpu.Reg.SetInterruptDisable(false)
	case OpCLV:
		cpu.Reg.SetOverflow(false)
	case OpCMP:
		cpu.compare(cpu.Reg.A, cpu.load(op))
	case OpCPX:
		cpu.compare(cpu.Reg.X, cpu.load(op))
	case OpCPY:
		cpu.compare(cpu.Reg.Y, cpu.load(op))
	case OpDEC:
		cpu.dec(op)
	case OpDEX:
		cpu.Reg.X--
		cpu.updateNZ(cpu.Reg.X)
	case OpDEY:
		cpu.Reg.Y--
		cpu.updateNZ(cpu.Reg.Y)
	case OpEOR:
		cpu.eor(op)
	case OpINC:
		cpu.inc(op)
	case OpINX:
		cpu.Reg.X++
		cpu.updateNZ(cpu.Reg.X)
	case OpINY:
		cpu.Reg.Y++
		cpu.updateNZ(cpu.Reg.Y)
	case OpJMP:
		cpu.Reg.PC = op.addr
	case OpJSR:
		cpu.jsr(op)
	case OpLDA:
		cpu.Reg.A = cpu.load(op)
		cpu.updateNZ(cpu.Reg.A)
	case OpLDX:
		cpu.Reg.X = cpu.load(op)
		cpu.updateNZ(cpu.Reg.X)
	case OpLDY:
		cpu.Reg.Y = cpu.load(op)
		cpu.updateNZ(cpu.Reg.Y)
	case OpLSR:
		cpu.lsr(op)
	case OpNOP:
		// Do nothing
	case OpORA:
		cpu.ora(op)
	case OpPHA:
		cpu.push(cpu.Reg.A)
	case OpPHP:
		cpu.push(cpu.Reg.Pack())
	case OpPLA:
		cpu.Reg.A = cpu.pop()
		cpu.updateNZ(cpu.Reg.A)
	case OpPLP:
		cpu.Reg.Unpack(cpu.pop())
	case OpROL:
		cpu.rol(op)
	case OpROR:
		cpu.ror(op)
	case OpRTI:
		cpu.rti()
	case OpRTS:
		cpu.rts()
	case OpSBC:
		cpu.sbc(op)
	case OpSEC:
		cpu.Reg.SetCarry(true)
	case OpSED:
		cpu.Reg.SetDecimal(true)
	case OpSEI:
		cpu.Reg.SetInterruptDisable(true)
	case OpSTA:
		cpu.store(op, cpu.Reg.A)
	case OpSTX:
		cpu.store(op, cpu.Reg.X)
	case OpSTY:
		cpu.store(op, cpu.Reg.Y)
	case OpTAX:
		cpu.Reg.X = cpu.Reg.A
		cpu.updateNZ(cpu.Reg.X)
	case OpTAY:
		cpu.Reg.Y = cpu.Reg.A
		cpu.updateNZ(cpu.Reg.Y)
	case OpTSX:
		cpu.Reg.X = cpu.Reg.SP
		cpu.updateNZ(cpu.Reg.X)
	case OpTXA:
		cpu.Reg.A = cpu.Reg.X
		cpu.updateNZ(cpu.Reg.A)
	case OpTXS:
		cpu.Reg.SP = cpu.Reg.X
	case OpTYA:
		cpu.Reg.A = cpu.Reg.Y
		cpu.updateNZ(cpu.Reg.A)
	default:
		panic("unhandled operation " + inst.Name)
	}
}

// Take a branch to the operand's target if 'cond' holds.
func (cpu *CPU) branchIf(op operand, cond bool) {
	if !cond {
		return
	}
	cpu.Reg.PC = op.addr
	cpu.deltaCycles++
	if op.pageCrossed {
		cpu.deltaCycles++
	}
}

// Store the byte value 'v' add the address 'addr'.
func (cpu *CPU) storeByteNormal(addr uint16, v byte) {
	cpu.Mem.StoreByte(addr, v)
}

// Store the byte value 'v' add the address 'addr'.
func (cpu *CPU) storeByteDebugger(addr uint16, v byte) {
	cpu.debugger.onDataStore(cpu, addr, v)
	cpu.Mem.StoreByte(addr, v)
}

// Push a value 'v' onto the stack.
func (cpu *CPU) push(v byte) {
	cpu.storeByte(cpu, stackAddress(cpu.Reg.SP), v)
	cpu.Reg.SP--
}

// Push the address 'addr' onto the stack.
func (cpu *CPU) pushAddress(addr uint16) {
	cpu.push(byte(addr >> 8))
	cpu.push(byte(addr))
}

// Pop a value from the stack and return it.
func (cpu *CPU) pop() byte {
	cpu.Reg.SP++
	return cpu.Mem.LoadByte(stackAddress(cpu.Reg.SP))
}

// Pop a 16-bit address off the stack.
func (cpu *CPU) popAddress() uint16 {
	lo := cpu.pop()
	hi := cpu.pop()
	return uint16(lo) | (uint16(hi) << 8)
}

// Update the Zero and Negative flags based on the value of 'v'.
func (cpu *CPU) updateNZ(v byte) {
	cpu.Reg.PS.Set(Zero, v == 0)
	cpu.Reg.PS.Set(Negative, (v&0x80) != 0)
}

// Handle an interrupt by storing the program counter and status flags on
// the stack. Then switch the program counter to the requested address.
// Only a BRK leaves the break bit set in the stacked status.
func (cpu *CPU) handleInterrupt(brk bool, vector uint16) {
	cpu.pushAddress(cpu.Reg.PC)
	cpu.Reg.SetBreak(brk)
	cpu.push(cpu.Reg.Pack())
	cpu.Reg.SetInterruptDisable(true)
	cpu.Reg.PC = cpu.Mem.LoadAddress(vector)
}

// Add with carry
func (cpu *CPU) adc(op operand) {
	cpu.addWithCarry(cpu.load(op))
}

// Subtract with carry. In binary mode this is an add of the operand's
// ones' complement, with the carry acting as "not borrow".
func (cpu *CPU) sbc(op operand) {
	cpu.addWithCarry(^cpu.load(op))
}

func (cpu *CPU) addWithCarry(m byte) {
	acc := uint32(cpu.Reg.A)
	add := uint32(m)
	carry := uint32(boolToByte(cpu.Reg.Carry()))

	v := acc + add + carry
	cpu.Reg.SetCarry(v > 0xff)
	cpu.Reg.SetOverflow((^(acc^add) & (acc ^ v) & 0x80) != 0)

	cpu.Reg.A = byte(v)
	cpu.updateNZ(cpu.Reg.A)
}

// Boolean AND
func (cpu *CPU) and(op operand) {
	cpu.Reg.A &= cpu.load(op)
	cpu.updateNZ(cpu.Reg.A)
}

// Boolean OR
func (cpu *CPU) ora(op operand) {
	cpu.Reg.A |= cpu.load(op)
	cpu.updateNZ(cpu.Reg.A)
}

// Boolean XOR
func (cpu *CPU) eor(op operand) {
	cpu.Reg.A ^= cpu.load(op)
	cpu.updateNZ(cpu.Reg.A)
}

// Arithmetic Shift Left
func (cpu *CPU) asl(op operand) {
	v := cpu.load(op)
	cpu.Reg.SetCarry((v & 0x80) == 0x80)
	v = v << 1
	cpu.updateNZ(v)
	cpu.store(op, v)
}

// Logical Shift Right
func (cpu *CPU) lsr(op operand) {
	v := cpu.load(op)
	cpu.Reg.SetCarry((v & 1) == 1)
	v = v >> 1
	cpu.updateNZ(v)
	cpu.store(op, v)
}

// Rotate Left
func (cpu *CPU) rol(op operand) {
	tmp := cpu.load(op)
	v := (tmp << 1) | boolToByte(cpu.Reg.Carry())
	cpu.Reg.SetCarry((tmp & 0x80) != 0)
	cpu.updateNZ(v)
	cpu.store(op, v)
}

// Rotate Right
func (cpu *CPU) ror(op operand) {
	tmp := cpu.load(op)
	v := (tmp >> 1) | (boolToByte(cpu.Reg.Carry()) << 7)
	cpu.Reg.SetCarry((tmp & 1) != 0)
	cpu.updateNZ(v)
	cpu.store(op, v)
}

// Bit Test
func (cpu *CPU) bit(op operand) {
	v := cpu.load(op)
	cpu.Reg.SetZero((v & cpu.Reg.A) == 0)
	cpu.Reg.SetNegative((v & 0x80) != 0)
	cpu.Reg.SetOverflow((v & 0x40) != 0)
}

// Compare a register to a value. The register is left unchanged.
func (cpu *CPU) compare(reg, v byte) {
	cpu.Reg.SetCarry(reg >= v)
	cpu.updateNZ(reg - v)
}

// Decrement memory value
func (cpu *CPU) dec(op operand) {
	v := cpu.load(op) - 1
	cpu.updateNZ(v)
	cpu.store(op, v)
}

// Increment memory value
func (cpu *CPU) inc(op operand) {
	v := cpu.load(op) + 1
	cpu.updateNZ(v)
	cpu.store(op, v)
}

// Break. The byte following the BRK opcode is skipped, so the pushed
// return address is the BRK address plus two.
func (cpu *CPU) brk() {
	cpu.Reg.PC++
	cpu.handleInterrupt(true, VectorBRK)
}

// Jump to subroutine
func (cpu *CPU) jsr(op operand) {
	cpu.pushAddress(cpu.Reg.PC - 1)
	cpu.Reg.PC = op.addr
}

// Return from Interrupt. The break bit in the stacked status only marks
// how the interrupt was entered, so it is not restored.
func (cpu *CPU) rti() {
	v := cpu.pop()
	cpu.Reg.Unpack(v &^ byte(Break))
	addr := cpu.popAddress()
	if addr == HaltAddr {
		cpu.Reg.PC = HaltAddr
		cpu.halt = true
		return
	}
	cpu.Reg.PC = addr
}

// Return from Subroutine
func (cpu *CPU) rts() {
	addr := cpu.popAddress()
	if addr == HaltAddr {
		cpu.Reg.PC = HaltAddr
		cpu.halt = true
		return
	}
	cpu.Reg.PC = addr + 1
}
