package scu

import (
	"lpcgo/core"
	"lpcgo/internal/volatile"
)

// Mux is the SFSP register of one silicon pin. Whole-register writes are a
// single store; field updates are read-modify-write and run masked.
type Mux struct {
	reg *volatile.Register32
}

// Enable selects fn with the input buffer on and the glitch filter off.
// The pulls return to their reset state (pull-up only).
func (m Mux) Enable(fn Function) {
	m.reg.Set(uint32(fn)&0x7 | EZI | ZIF)
}

// Disable is the low-power idle state: function 0, both pulls off, input
// buffer off, glitch filter on, normal drive.
func (m Mux) Disable() {
	m.reg.Set(EPUN)
}

// Select routes an alternate peripheral function to the pin, bypassing
// the GPIO defaults.
func (m Mux) Select(fn Function) {
	m.reg.Set(uint32(fn) & 0x7)
}

func (m Mux) SetPullUp()     { m.update(EPUN, 0) }
func (m Mux) ClearPullUp()   { m.update(0, EPUN) }
func (m Mux) SetPullDown()   { m.update(0, EPD) }
func (m Mux) ClearPullDown() { m.update(EPD, 0) }

// SetFloatingState programs both pull bits in one masked update.
func (m Mux) SetFloatingState(s core.FloatingState) {
	switch s {
	case core.PullUp:
		m.update(EPUN|EPD, 0)
	case core.PullDown:
		m.update(0, EPUN|EPD)
	default:
		m.update(EPD, EPUN)
	}
}

// FloatingState decodes the pull bits. With both resistors enabled the
// pin reports PullDown.
func (m Mux) FloatingState() core.FloatingState {
	v := m.reg.Get()
	switch {
	case v&EPD != 0:
		return core.PullDown
	case v&EPUN == 0:
		return core.PullUp
	}
	return core.PullNone
}

// IsFunction reports whether the register holds the active-GPIO pattern
// that Enable(fn) writes. Pulls and drive strength are ignored.
func (m Mux) IsFunction(fn Function) bool {
	return m.reg.Get()&gpioPattern == uint32(fn)&0x7|EZI|ZIF
}

func (m Mux) Function() Function {
	return Function(volatile.Field(m.reg.Get(), modeShift, modeWidth))
}

func (m Mux) SetDrive(d Drive) {
	core.Atomic(func() {
		m.reg.ReplaceBits(uint32(d), 0x3, ehdShift)
	})
}

func (m Mux) Drive() Drive {
	return Drive(volatile.Field(m.reg.Get(), ehdShift, ehdWidth))
}

// Value returns the raw register.
func (m Mux) Value() uint32 {
	return m.reg.Get()
}

func (m Mux) update(clear, set uint32) {
	core.Atomic(func() {
		m.reg.Set(m.reg.Get()&^clear | set)
	})
}
