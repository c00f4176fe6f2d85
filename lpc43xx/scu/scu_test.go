package scu

import (
	"testing"

	"lpcgo/core"
)

func TestEnableDisable(t *testing.T) {
	regs := NewRegisters()
	m := regs.Mux(2, 10)

	m.Enable(Func4)
	if got := m.Value(); got != 0x4|EZI|ZIF {
		t.Fatalf("Enable wrote %#x", got)
	}
	if !m.IsFunction(Func4) {
		t.Error("IsFunction(Func4) = false after Enable(Func4)")
	}
	if m.IsFunction(Func0) {
		t.Error("IsFunction(Func0) = true after Enable(Func4)")
	}
	if m.FloatingState() != core.PullUp {
		t.Errorf("Enable left floating state %v, want PullUp", m.FloatingState())
	}

	m.SetDrive(DriveHigh)
	m.Disable()
	if got := m.Value(); got != EPUN {
		t.Errorf("Disable wrote %#x, want %#x", got, uint32(EPUN))
	}
	if m.FloatingState() != core.PullNone {
		t.Errorf("Disable left floating state %v", m.FloatingState())
	}
	if m.Drive() != DriveNormal {
		t.Errorf("Disable left drive %d", m.Drive())
	}
}

func TestSelectBypassesGPIOPattern(t *testing.T) {
	m := NewRegisters().Mux(6, 4)
	m.Select(Func2)
	if m.Function() != Func2 {
		t.Errorf("Function() = %d, want 2", m.Function())
	}
	if m.IsFunction(Func2) {
		t.Error("peripheral selection must not look like active GPIO")
	}
}

func TestFloatingStateRoundTrip(t *testing.T) {
	m := NewRegisters().Mux(1, 0)
	m.Enable(Func0)
	for _, s := range []core.FloatingState{core.PullUp, core.PullDown, core.PullNone, core.PullUp} {
		m.SetFloatingState(s)
		if got := m.FloatingState(); got != s {
			t.Errorf("SetFloatingState(%v) then FloatingState() = %v", s, got)
		}
		if !m.IsFunction(Func0) {
			t.Errorf("SetFloatingState(%v) disturbed the function bits", s)
		}
	}
}

func TestIndependentPullBits(t *testing.T) {
	m := NewRegisters().Mux(1, 0)
	m.ClearPullUp()
	m.ClearPullDown()
	if m.FloatingState() != core.PullNone {
		t.Fatalf("both cleared: %v", m.FloatingState())
	}

	m.SetPullUp()
	m.SetPullDown()
	if got := m.Value() & (EPD | EPUN); got != EPD {
		t.Fatalf("both enabled should leave EPD set and EPUN clear, got %#x", got)
	}
	if m.FloatingState() != core.PullDown {
		t.Errorf("both enabled reports %v, want PullDown", m.FloatingState())
	}

	m.ClearPullDown()
	if m.FloatingState() != core.PullUp {
		t.Errorf("after ClearPullDown: %v, want PullUp", m.FloatingState())
	}
}

func TestInterruptPinSelect(t *testing.T) {
	regs := NewRegisters()
	regs.SelectInterruptPin(3, 1, 9)
	regs.SelectInterruptPin(1, 0, 8)
	regs.SelectInterruptPin(6, 7, 25)

	tests := []struct {
		ch, port, bit uint8
	}{
		{3, 1, 9},
		{1, 0, 8},
		{6, 7, 25},
		{0, 0, 0},
	}
	for _, tt := range tests {
		port, bit := regs.InterruptPin(tt.ch)
		if port != tt.port || bit != tt.bit {
			t.Errorf("channel %d wired to GPIO%d[%d], want GPIO%d[%d]", tt.ch, port, bit, tt.port, tt.bit)
		}
	}
	if got := regs.PINTSEL[0].Get(); got != 0x29<<24|0x08<<8 {
		t.Errorf("PINTSEL0 = %#x", got)
	}
}

func TestMuxOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for port 16")
		}
	}()
	NewRegisters().Mux(16, 0)
}
