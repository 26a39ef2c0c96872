// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrInvalidOpcode = errors.New("invalid opcode")
)

// An InvalidOpcodeError is returned when the CPU fetches an opcode with no
// operation assigned to it. The CPU state is left as it was before the
// fetch, so Addr is also the current program counter.
type InvalidOpcodeError struct {
	Addr   uint16 // address of the offending opcode
	Opcode byte   // the opcode byte
}

func (e *InvalidOpcodeError) Error() string {
	return fmt.Sprintf("invalid opcode $%02X at $%04X", e.Opcode, e.Addr)
}

// Unwrap returns ErrInvalidOpcode.
func (e *InvalidOpcodeError) Unwrap() error {
	return ErrInvalidOpcode
}
