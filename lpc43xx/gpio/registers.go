// Package gpio implements the LPC43xx GPIO ports and the pin objects that
// combine the SCU mux, the GPIO data registers and the pin interrupt
// channels behind the core pin capabilities.
package gpio

import (
	"lpcgo/core"
	"lpcgo/internal/volatile"
)

// Base is the GPIO_PORT base address.
const Base = 0x400F4000

const (
	// PortCount is the number of logical GPIO ports.
	PortCount = 8
	// SlotsPerPort is the number of addressable bits per port.
	SlotsPerPort = 31
)

// Registers is the GPIO_PORT block. B, W, PIN, MPIN and SET/CLR/NOT are
// views of the same pins: B and DIR serve single-pin access, the port-wide
// registers serve Port, WriteMasked and the Set/Clear/ToggleBits helpers.
type Registers struct {
	B    [PortCount][32]volatile.Register8 // 0x0000 byte pin registers
	_    [0x1000 - PortCount*32]byte
	W    [PortCount][32]volatile.Register32 // 0x1000 word pin registers
	_    [0x2000 - 0x1000 - PortCount*32*4]byte
	DIR  [PortCount]volatile.Register32 // 0x2000
	_    [24]uint32
	MASK [PortCount]volatile.Register32 // 0x2080
	_    [24]uint32
	PIN  [PortCount]volatile.Register32 // 0x2100
	_    [24]uint32
	MPIN [PortCount]volatile.Register32 // 0x2180
	_    [24]uint32
	SET  [PortCount]volatile.Register32 // 0x2200
	_    [24]uint32
	CLR  [PortCount]volatile.Register32 // 0x2280
	_    [24]uint32
	NOT  [PortCount]volatile.Register32 // 0x2300
}

// NewRegisters allocates a detached register file for the host build.
func NewRegisters() *Registers {
	return new(Registers)
}

// Bank accesses the GPIO data registers, one bit or one port at a time.
type Bank struct {
	regs *Registers
}

func NewBank(regs *Registers) *Bank {
	return &Bank{regs: regs}
}

// Read reports the level of GPIO<port>[bit].
func (b *Bank) Read(port, bit uint8) bool {
	return b.regs.B[port][bit].Get() != 0
}

// Write drives GPIO<port>[bit]. The byte register only touches that bit,
// so no masking is needed.
func (b *Bank) Write(port, bit uint8, high bool) {
	if high {
		b.regs.B[port][bit].Set(1)
	} else {
		b.regs.B[port][bit].Set(0)
	}
}

// Toggle inverts GPIO<port>[bit] and returns the new level.
func (b *Bank) Toggle(port, bit uint8) bool {
	v := !b.Read(port, bit)
	b.Write(port, bit, v)
	return v
}

// SetDirection changes exactly one DIR bit. The port-wide register is
// shared with every other pin of the port, so the update runs masked.
func (b *Bank) SetDirection(port, bit uint8, output bool) {
	dir := &b.regs.DIR[port]
	var v uint32
	if output {
		v = 1
	}
	core.Atomic(func() {
		dir.ReplaceBits(v, 1, bit)
	})
}

// IsOutput reports the DIR bit of GPIO<port>[bit].
func (b *Bank) IsOutput(port, bit uint8) bool {
	return b.regs.DIR[port].HasBits(volatile.Bit[uint32](bit))
}

// Direction returns the whole DIR register of a port.
func (b *Bank) Direction(port uint8) uint32 {
	return b.regs.DIR[port].Get()
}

// Port returns the levels of every pin of a port (PIN).
func (b *Bank) Port(port uint8) uint32 {
	b.sample(port)
	return b.regs.PIN[port].Get()
}

// WritePort loads v into the output latches of the whole port. Only pins
// configured as outputs follow it.
func (b *Bank) WritePort(port uint8, v uint32) {
	b.regs.PIN[port].Set(v)
	b.latch(port, func(uint32) uint32 { return v })
}

// Mask returns the MASK register of a port. A set bit hides that pin from
// MaskedPort and WriteMasked.
func (b *Bank) Mask(port uint8) uint32 {
	return b.regs.MASK[port].Get()
}

func (b *Bank) SetMask(port uint8, m uint32) {
	b.regs.MASK[port].Set(m)
}

// MaskedPort reads MPIN: the pin levels with masked bits read as zero.
func (b *Bank) MaskedPort(port uint8) uint32 {
	b.sample(port)
	return b.regs.MPIN[port].Get()
}

// WriteMasked writes MPIN: latches whose MASK bit is clear take v.
func (b *Bank) WriteMasked(port uint8, v uint32) {
	mask := b.regs.MASK[port].Get()
	b.regs.MPIN[port].Set(v)
	b.latch(port, func(old uint32) uint32 { return old&mask | v&^mask })
}

// SetBits drives the selected outputs high (SET).
func (b *Bank) SetBits(port uint8, bits uint32) {
	b.regs.SET[port].Set(bits)
	b.latch(port, func(old uint32) uint32 { return old | bits })
}

// ClearBits drives the selected outputs low (CLR).
func (b *Bank) ClearBits(port uint8, bits uint32) {
	b.regs.CLR[port].Set(bits)
	b.latch(port, func(old uint32) uint32 { return old &^ bits })
}

// ToggleBits inverts the selected outputs (NOT).
func (b *Bank) ToggleBits(port uint8, bits uint32) {
	b.regs.NOT[port].Set(bits)
	b.latch(port, func(old uint32) uint32 { return old ^ bits })
}

// Update writes value into the bits of a port selected by mask in one
// MPIN store. MASK is shared by the whole port, so it is swapped and
// restored with interrupts masked.
func (b *Bank) Update(port uint8, mask, value uint32) {
	core.Atomic(func() {
		saved := b.Mask(port)
		b.SetMask(port, ^mask)
		b.WriteMasked(port, value)
		b.SetMask(port, saved)
	})
}
