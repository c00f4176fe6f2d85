//go:build !tinygo

package gpio

// The host register file is plain memory, so the aliasing between the byte
// registers and the port-wide ones is modeled here. B holds the pin
// levels. PIN and MPIN are refreshed from B before a port-wide read, and a
// port-wide write is folded back into B for the pins configured as
// outputs.

// sample refreshes PIN and MPIN of port from the byte registers.
func (b *Bank) sample(port uint8) {
	r := b.regs
	var v uint32
	for bit := range r.B[port] {
		if r.B[port][bit].Get() != 0 {
			v |= 1 << bit
		}
	}
	r.PIN[port].Set(v)
	r.MPIN[port].Set(v &^ r.MASK[port].Get())
}

// latch applies a port-wide write: update maps the current levels to the
// written latch values. SET, CLR and NOT read back as zero afterwards.
func (b *Bank) latch(port uint8, update func(levels uint32) uint32) {
	b.sample(port)
	r := b.regs
	old := r.PIN[port].Get()
	dir := r.DIR[port].Get()
	v := old&^dir | update(old)&dir
	for bit := range r.B[port] {
		r.B[port][bit].Set(uint8(v >> bit & 1))
	}
	r.PIN[port].Set(v)
	r.MPIN[port].Set(v &^ r.MASK[port].Get())
	r.SET[port].Set(0)
	r.CLR[port].Set(0)
	r.NOT[port].Set(0)
}
