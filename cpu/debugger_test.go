package cpu_test

import (
	"testing"

	"github.com/hev6502/hev6502/cpu"
)

type recorder struct {
	breakpoints     []uint16
	dataBreakpoints []uint16
}

func (r *recorder) OnBreakpoint(c *cpu.CPU, b *cpu.Breakpoint) {
	r.breakpoints = append(r.breakpoints, b.Address)
}

func (r *recorder) OnDataBreakpoint(c *cpu.CPU, b *cpu.DataBreakpoint) {
	r.dataBreakpoints = append(r.dataBreakpoints, b.Address)
}

func TestBreakpoints(t *testing.T) {
	c := loadCPU(t,
		0xa9, 0x05, // LDA #$05
		0xea,             // NOP
		0x8d, 0x00, 0x20, // STA $2000
		0x8d, 0x01, 0x20, // STA $2001
	)

	r := &recorder{}
	d := cpu.NewDebugger(r)
	c.AttachDebugger(d)

	d.AddBreakpoint(0x1002)
	d.AddBreakpoint(0x1003).Disabled = true
	d.AddConditionalDataBreakpoint(0x2000, 0x05)
	d.AddConditionalDataBreakpoint(0x2001, 0x06)

	stepCPU(t, c, 4)

	if len(r.breakpoints) != 1 || r.breakpoints[0] != 0x1002 {
		t.Errorf("breakpoints incorrect. got: %v", r.breakpoints)
	}
	if len(r.dataBreakpoints) != 1 || r.dataBreakpoints[0] != 0x2000 {
		t.Errorf("data breakpoints incorrect. got: %v", r.dataBreakpoints)
	}

	c.DetachDebugger()
	c.SetPC(origin)
	stepCPU(t, c, 1)
	if len(r.breakpoints) != 1 {
		t.Error("detached debugger still notified")
	}
}

func TestBreakpointList(t *testing.T) {
	d := cpu.NewDebugger(nil)
	d.AddBreakpoint(0x3000)
	d.AddBreakpoint(0x1000)
	d.AddBreakpoint(0x2000)
	d.RemoveBreakpoint(0x2000)

	bps := d.GetBreakpoints()
	if len(bps) != 2 || bps[0].Address != 0x1000 || bps[1].Address != 0x3000 {
		t.Errorf("breakpoint list incorrect")
	}
	if d.GetBreakpoint(0x2000) != nil {
		t.Error("removed breakpoint still present")
	}

	d.AddDataBreakpoint(0x20)
	d.AddDataBreakpoint(0x10)
	dbps := d.GetDataBreakpoints()
	if len(dbps) != 2 || dbps[0].Address != 0x10 {
		t.Errorf("data breakpoint list incorrect")
	}
	d.RemoveDataBreakpoint(0x10)
	if d.GetDataBreakpoint(0x10) != nil {
		t.Error("removed data breakpoint still present")
	}
}
