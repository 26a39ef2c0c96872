// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import "github.com/hev6502/hev6502/cpu"

// The debugHandler receives notifications from the cpu debugger and
// stops the host's run loop when a breakpoint is hit.
type debugHandler struct {
	host *Host
}

func newDebugHandler(h *Host) *debugHandler {
	return &debugHandler{host: h}
}

func (d *debugHandler) OnBreakpoint(c *cpu.CPU, b *cpu.Breakpoint) {
	h := d.host

	// The step-over breakpoint ends the step silently.
	if h.stepOverAddr == int(b.Address) {
		h.state = stateStepOverBreakpoint
		return
	}

	h.state = stateBreakpoint
	h.printf("Breakpoint hit at $%04X.\n", b.Address)
	h.displayPC()
}

func (d *debugHandler) OnDataBreakpoint(c *cpu.CPU, b *cpu.DataBreakpoint) {
	h := d.host
	h.printf("Data breakpoint hit on address $%04X.\n", b.Address)

	h.state = stateBreakpoint

	// The store happens before the instruction completes, so show the
	// instruction responsible for it.
	if c.Reg.PC != c.LastPC {
		line, _ := h.disassemble(c.LastPC, displayAll)
		h.println(line)
	}
}
