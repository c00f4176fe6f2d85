// Package scu drives the LPC43xx system control unit: the per-pin SFSP
// mux registers and the PINTSEL selectors that wire GPIO bits to the pin
// interrupt channels.
package scu

import (
	"lpcgo/core"
	"lpcgo/internal/volatile"
)

// Base is the SCU base address.
const Base = 0x40086000

const (
	Ports       = 16
	PinsPerPort = 32
)

// Function is the value of the SFSP MODE field.
type Function uint8

const (
	Func0 Function = iota
	Func1
	Func2
	Func3
	Func4
	Func5
	Func6
	Func7
)

// Drive is the EHD drive-strength setting of a high-drive pin.
type Drive uint8

const (
	DriveNormal Drive = iota // 4 mA
	DriveMedium              // 8 mA
	DriveHigh                // 14 mA
	DriveUltra               // 20 mA
)

// SFSP fields
const (
	modeShift = 0
	modeWidth = 3

	EPD  = 1 << 3 // pull-down enabled when set
	EPUN = 1 << 4 // pull-up disabled when set
	EHS  = 1 << 5 // slow slew when set
	EZI  = 1 << 6 // input buffer enabled when set
	ZIF  = 1 << 7 // glitch filter disabled when set

	ehdShift = 8
	ehdWidth = 2
)

var gpioPattern = volatile.Mask[uint32](modeShift, modeWidth) | EZI | ZIF

// Registers is the SCU block. Only the parts this package drives are named.
type Registers struct {
	SFSP    [Ports][PinsPerPort]volatile.Register32 // 0x000, 0x80 per port
	_       [0xE00 - 0x800]byte
	PINTSEL [2]volatile.Register32 // 0xE00, 0xE04
}

// NewRegisters allocates a detached register file, used by the host build
// and tests in place of the peripheral.
func NewRegisters() *Registers {
	return new(Registers)
}

// Mux returns the mux register of silicon pin P<port>_<pin>.
func (r *Registers) Mux(port, pin uint8) Mux {
	if port >= Ports || pin >= PinsPerPort {
		panic("scu: no SFSP register for P" + hexDigit(port) + "_" + core.Itoa(int(pin)))
	}
	return Mux{reg: &r.SFSP[port][pin]}
}

// SelectInterruptPin wires pin interrupt channel ch to GPIO<port>[bit].
func (r *Registers) SelectInterruptPin(ch, port, bit uint8) {
	reg, shift := r.pintsel(ch)
	sel := uint32(port&0x7)<<5 | uint32(bit&0x1F)
	core.Atomic(func() {
		reg.ReplaceBits(sel, 0xFF, shift)
	})
}

// InterruptPin returns the GPIO port and bit channel ch is wired to.
func (r *Registers) InterruptPin(ch uint8) (port, bit uint8) {
	reg, shift := r.pintsel(ch)
	sel := volatile.Field(reg.Get(), shift, 8)
	return uint8(sel >> 5), uint8(sel & 0x1F)
}

func (r *Registers) pintsel(ch uint8) (*volatile.Register32, uint8) {
	if ch >= 8 {
		panic("scu: no PINTSEL field for channel " + core.Itoa(int(ch)))
	}
	return &r.PINTSEL[ch/4], (ch % 4) * 8
}

func hexDigit(v uint8) string {
	return string("0123456789ABCDEF"[v&0xF])
}
