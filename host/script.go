// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	lua "github.com/yuin/gopher-lua"
)

// Run the Lua script in 'filename' against the host.
func (h *Host) runScript(filename string) error {
	L := lua.NewState()
	defer L.Close()

	h.registerScriptFuncs(L)

	h.scriptQuit = false
	err := L.DoFile(filename)
	if h.scriptQuit {
		h.scriptQuit = false
		return ErrQuit
	}
	if err != nil {
		return errors.Wrapf(err, "script '%s' failed", filepath.Base(filename))
	}
	return nil
}

func (h *Host) registerScriptFuncs(L *lua.LState) {
	funcs := map[string]lua.LGFunction{
		"print":  h.luaPrint,
		"peek":   h.luaPeek,
		"poke":   h.luaPoke,
		"reg":    h.luaReg,
		"setreg": h.luaSetReg,
		"cycles": h.luaCycles,
		"step":   h.luaStep,
		"run":    h.luaRun,
		"call":   h.luaCall,
		"cmd":    h.luaCmd,
	}
	for name, fn := range funcs {
		L.SetGlobal(name, L.NewFunction(fn))
	}
}

// print(...) writes its arguments to the host output.
func (h *Host) luaPrint(L *lua.LState) int {
	top := L.GetTop()
	s := make([]string, top)
	for i := 1; i <= top; i++ {
		s[i-1] = L.Get(i).String()
	}
	h.println(strings.Join(s, "\t"))
	return 0
}

func checkAddr(L *lua.LState, n int) uint16 {
	v := L.CheckInt(n)
	if v < 0 || v > 0xffff {
		L.ArgError(n, "address out of range")
	}
	return uint16(v)
}

// peek(addr) returns the byte stored at addr.
func (h *Host) luaPeek(L *lua.LState) int {
	addr := checkAddr(L, 1)
	L.Push(lua.LNumber(h.mem.LoadByte(addr)))
	return 1
}

// poke(addr, value) stores a byte at addr.
func (h *Host) luaPoke(L *lua.LState) int {
	addr := checkAddr(L, 1)
	v := L.CheckInt(2)
	if v < -128 || v > 0xff {
		L.ArgError(2, "byte value out of range")
	}
	h.mem.StoreByte(addr, byte(v))
	return 0
}

// reg(name) returns the value of a register, or a boolean for a status
// flag.
func (h *Host) luaReg(L *lua.LState) int {
	r, err := lookupRegister(L.CheckString(1))
	if err != nil {
		L.ArgError(1, err.Error())
	}

	v := r.get(&h.cpu.Reg)
	if r.size == 0 {
		L.Push(lua.LBool(v != 0))
	} else {
		L.Push(lua.LNumber(v))
	}
	return 1
}

// setreg(name, value) changes a register or status flag.
func (h *Host) luaSetReg(L *lua.LState) int {
	r, err := lookupRegister(L.CheckString(1))
	if err != nil {
		L.ArgError(1, err.Error())
	}

	var v int
	switch lv := L.CheckAny(2).(type) {
	case lua.LBool:
		if lv {
			v = 1
		}
	case lua.LNumber:
		v = int(lv)
	default:
		L.ArgError(2, "number or boolean expected")
	}
	r.set(&h.cpu.Reg, v)
	return 0
}

// cycles() returns the total number of cycles executed by the CPU.
func (h *Host) luaCycles(L *lua.LState) int {
	L.Push(lua.LNumber(h.cpu.Cycles))
	return 1
}

// step([count]) executes up to count instructions. It returns the cycles
// consumed and whether the CPU halted.
func (h *Host) luaStep(L *lua.LState) int {
	count := L.OptInt(1, 1)

	cycles, halted := 0, false
	for i := 0; i < count && !halted; i++ {
		r, err := h.cpu.Step()
		if err != nil {
			L.RaiseError("%v", err)
		}
		cycles += r.Cycles
		halted = r.Halt
	}
	h.state = stateProcessingCommands

	L.Push(lua.LNumber(cycles))
	L.Push(lua.LBool(halted))
	return 2
}

// run([addr]) runs the CPU and returns the cycles consumed and the reason
// it stopped.
func (h *Host) luaRun(L *lua.LState) int {
	if L.GetTop() >= 1 {
		h.cpu.SetPC(checkAddr(L, 1))
	}
	return h.luaPushRun(L)
}

// call(addr) calls the subroutine at addr and returns the cycles consumed
// and the reason the CPU stopped.
func (h *Host) luaCall(L *lua.LState) int {
	h.cpu.Call(checkAddr(L, 1))
	return h.luaPushRun(L)
}

func (h *Host) luaPushRun(L *lua.LState) int {
	stop, cycles := h.run()
	L.Push(lua.LNumber(cycles))
	L.Push(lua.LString(stop.String()))
	return 2
}

// cmd(line) executes a host command.
func (h *Host) luaCmd(L *lua.LState) int {
	if err := h.execute(L.CheckString(1)); err != nil {
		if errors.Is(err, ErrQuit) {
			h.scriptQuit = true
		}
		L.RaiseError("%v", err)
	}
	return 0
}
