// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"strings"

	"github.com/beevik/prefixtree/v2"
	"github.com/hev6502/hev6502/cpu"
	"github.com/pkg/errors"
)

// A register describes a CPU register or status flag that the host can
// read and modify by name.
type register struct {
	name string
	size int // 0 for a status flag, otherwise the width in bytes
	get  func(r *cpu.Registers) int
	set  func(r *cpu.Registers, v int)
}

func flagRegister(name string, f cpu.Status) *register {
	return &register{
		name: name,
		get: func(r *cpu.Registers) int {
			if r.PS.Has(f) {
				return 1
			}
			return 0
		},
		set: func(r *cpu.Registers, v int) { r.PS.Set(f, v != 0) },
	}
}

var registerTree = prefixtree.New[*register]()

func init() {
	regs := []*register{
		{
			name: "a", size: 1,
			get: func(r *cpu.Registers) int { return int(r.A) },
			set: func(r *cpu.Registers, v int) { r.A = byte(v) },
		},
		{
			name: "x", size: 1,
			get: func(r *cpu.Registers) int { return int(r.X) },
			set: func(r *cpu.Registers, v int) { r.X = byte(v) },
		},
		{
			name: "y", size: 1,
			get: func(r *cpu.Registers) int { return int(r.Y) },
			set: func(r *cpu.Registers, v int) { r.Y = byte(v) },
		},
		{
			name: "sp", size: 1,
			get: func(r *cpu.Registers) int { return int(r.SP) },
			set: func(r *cpu.Registers, v int) { r.SP = byte(v) },
		},
		{
			name: "ps", size: 1,
			get: func(r *cpu.Registers) int { return int(r.Pack()) },
			set: func(r *cpu.Registers, v int) { r.Unpack(byte(v)) },
		},
		{
			name: "pc", size: 2,
			get: func(r *cpu.Registers) int { return int(r.PC) },
			set: func(r *cpu.Registers, v int) { r.PC = uint16(v) },
		},
		flagRegister("carry", cpu.Carry),
		flagRegister("zero", cpu.Zero),
		flagRegister("interrupt", cpu.InterruptDisable),
		flagRegister("decimal", cpu.Decimal),
		flagRegister("break", cpu.Break),
		flagRegister("overflow", cpu.Overflow),
		flagRegister("negative", cpu.Negative),
	}
	for _, r := range regs {
		registerTree.Add(r.name, r)
	}
}

// Look up a register or status flag by the shortest unambiguous prefix of
// its name.
func lookupRegister(name string) (*register, error) {
	r, err := registerTree.FindValue(strings.ToLower(name))
	if err != nil {
		return nil, errors.Wrapf(err, "register '%s'", name)
	}
	return r, nil
}
