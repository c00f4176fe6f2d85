package gpio

import (
	"lpcgo/core"
	"lpcgo/lpc43xx/pinint"
	"lpcgo/lpc43xx/scu"
)

// Port holds the pins of one logical GPIO port. Membership is fixed at
// construction.
type Port struct {
	index uint8
	pins  [SlotsPerPort]*Pin
}

// At returns pin i of the port. An empty or out-of-range slot means the
// board description is wrong and panics.
func (p *Port) At(i int) *Pin {
	if i < 0 || i >= SlotsPerPort || p.pins[i] == nil {
		panic("gpio: no pin at " + gpioName(p.index, uint8(i)))
	}
	return p.pins[i]
}

// Lookup returns pin i if the slot is populated.
func (p *Port) Lookup(i int) (*Pin, bool) {
	if i < 0 || i >= SlotsPerPort || p.pins[i] == nil {
		return nil, false
	}
	return p.pins[i], true
}

// Wired returns a mask of the populated slots.
func (p *Port) Wired() uint32 {
	var m uint32
	for i, pin := range p.pins {
		if pin != nil {
			m |= 1 << i
		}
	}
	return m
}

// Ports is the set of GPIO ports of a chip.
type Ports [PortCount]Port

// NewPorts builds the ports described by table. The table is validated
// first; mgr receives the ports as its resolver.
func NewPorts(table []Identity, bank *Bank, sel *scu.Registers, mgr *pinint.Manager) *Ports {
	Validate(table)
	ps := new(Ports)
	for i := range ps {
		ps[i].index = uint8(i)
	}
	for _, id := range table {
		ps[id.Port].pins[id.Bit] = &Pin{
			id:   id,
			mux:  sel.Mux(id.SiliconPort, id.SiliconPin),
			bank: bank,
			irq:  mgr,
		}
	}
	mgr.SetResolver(ps)
	return ps
}

// Port returns GPIO port n.
func (ps *Ports) Port(n int) *Port {
	if n < 0 || n >= PortCount {
		panic("gpio: no port GPIO" + core.Itoa(n))
	}
	return &ps[n]
}

// Pin returns GPIO<port>[bit] or panics.
func (ps *Ports) Pin(port, bit uint8) *Pin {
	return ps.Port(int(port)).At(int(bit))
}

// Lookup returns GPIO<port>[bit] if it exists.
func (ps *Ports) Lookup(port, bit uint8) (*Pin, bool) {
	if port >= PortCount {
		return nil, false
	}
	return ps[port].Lookup(int(bit))
}

// Wired returns the mask of pins the board has on GPIO port n; zero for a
// port outside the chip.
func (ps *Ports) Wired(port uint8) uint32 {
	if port >= PortCount {
		return 0
	}
	return ps[port].Wired()
}

// Resolve implements pinint.Resolver.
func (ps *Ports) Resolve(port, bit uint8) (pinint.Listener, bool) {
	p, ok := ps.Lookup(port, bit)
	if !ok {
		return nil, false
	}
	return p, true
}

// Each calls fn for every populated pin in port/bit order.
func (ps *Ports) Each(fn func(*Pin)) {
	for i := range ps {
		for _, p := range ps[i].pins {
			if p != nil {
				fn(p)
			}
		}
	}
}
