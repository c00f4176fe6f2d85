// Package pinint manages the eight LPC43xx GPIO pin interrupt channels.
//
// A channel is wired to one GPIO port/bit through the SCU PINTSEL
// registers, detects edges through the GPIO_PIN_INT block, and is delivered
// through its own NVIC line (PIN_INT0..PIN_INT7). Each channel moves through
// Unbound, Bound and Armed:
//
//	Bind           any     -> Bound (an armed channel may only be rebound
//	                                 to the pin it already watches)
//	ConfigureEdge  Bound   -> Bound
//	Arm            Bound   -> Armed
//	Disarm         Armed   -> Bound
package pinint

import (
	"sync/atomic"

	"lpcgo/core"
	"lpcgo/cortexm"
	"lpcgo/internal/volatile"
	"lpcgo/lpc43xx/scu"
)

// Base is the GPIO_PIN_INT base address.
const Base = 0x40087000

const (
	// NumChannels is the number of pin interrupt channels.
	NumChannels = 8
	// FirstIRQ is the NVIC number of PIN_INT0; channel n uses FirstIRQ+n.
	FirstIRQ = 32
)

// Registers is the GPIO_PIN_INT block.
type Registers struct {
	ISEL  volatile.Register32 // 0x00 0 = edge, 1 = level
	IENR  volatile.Register32 // 0x04 rising edge enables
	SIENR volatile.Register32 // 0x08
	CIENR volatile.Register32 // 0x0C
	IENF  volatile.Register32 // 0x10 falling edge enables
	SIENF volatile.Register32 // 0x14
	CIENF volatile.Register32 // 0x18
	RISE  volatile.Register32 // 0x1C
	FALL  volatile.Register32 // 0x20
	IST   volatile.Register32 // 0x24
}

// NewRegisters allocates a detached register file for the host build.
func NewRegisters() *Registers {
	return new(Registers)
}

// State is the lifecycle state of a channel.
type State uint8

const (
	Unbound State = iota
	Bound
	Armed
)

func (s State) String() string {
	switch s {
	case Unbound:
		return "Unbound"
	case Bound:
		return "Bound"
	case Armed:
		return "Armed"
	}
	return "State(" + core.Itoa(int(s)) + ")"
}

// Listener receives delivered interrupts. It must clear the channel status
// before running any client code.
type Listener interface {
	HandleInterrupt()
}

// Resolver finds the listener that owns a GPIO port/bit.
type Resolver interface {
	Resolve(port, bit uint8) (Listener, bool)
}

// active counts armed channels across every Manager. Power management
// reads it to decide whether deep sleep would lose a wake-up edge.
var active atomic.Uint32

// ActiveCount returns the number of armed pin interrupts.
func ActiveCount() uint32 {
	return active.Load()
}

// Manager owns the channel state machine.
type Manager struct {
	regs     *Registers
	sel      *scu.Registers
	nvic     *cortexm.NVIC
	resolver Resolver

	bound uint8 // bitmap of channels with a wiring
	armed uint8 // bitmap of armed channels
}

// New returns a Manager over the given register blocks. All channels start
// Unbound and disarmed.
func New(regs *Registers, sel *scu.Registers, nvic *cortexm.NVIC) *Manager {
	m := &Manager{regs: regs, sel: sel, nvic: nvic}
	m.attach()
	return m
}

// SetResolver installs the pin lookup used at delivery time.
func (m *Manager) SetResolver(r Resolver) {
	m.resolver = r
}

func check(ch uint8) uint8 {
	if ch >= NumChannels {
		panic("pinint: no channel " + core.Itoa(int(ch)))
	}
	return 1 << ch
}

// Bind wires channel ch to GPIO<port>[bit]. Rebinding an armed channel to a
// different pin is a fault: its in-flight edges would be attributed to the
// new pin. Disarm first.
func (m *Manager) Bind(ch, port, bit uint8) {
	mask := check(ch)
	if port >= 8 || bit >= 32 {
		panic("pinint: GPIO" + core.Itoa(int(port)) + "[" + core.Itoa(int(bit)) + "] cannot be selected")
	}
	core.Atomic(func() {
		if m.armed&mask != 0 {
			p, b := m.sel.InterruptPin(ch)
			if p != port || b != bit {
				panic("pinint: channel " + core.Itoa(int(ch)) + " rebound while armed")
			}
		}
		m.sel.SelectInterruptPin(ch, port, bit)
		m.bound |= mask
	})
}

// Binding returns the pin channel ch is wired to.
func (m *Manager) Binding(ch uint8) (port, bit uint8, ok bool) {
	mask := check(ch)
	if m.bound&mask == 0 {
		return 0, 0, false
	}
	port, bit = m.sel.InterruptPin(ch)
	return port, bit, true
}

// ConfigureEdge clears any stale status, selects edge detection and enables
// the requested edges. It does not arm the channel.
func (m *Manager) ConfigureEdge(ch uint8, edge core.InterruptEdge) {
	mask := uint32(check(ch))
	core.Atomic(func() {
		clearStatus(m.regs, mask)
		m.regs.ISEL.ClearBits(mask)
		disableRising(m.regs, mask)
		disableFalling(m.regs, mask)
		switch edge {
		case core.RisingEdge:
			enableRising(m.regs, mask)
		case core.FallingEdge:
			enableFalling(m.regs, mask)
		default:
			enableRising(m.regs, mask)
			enableFalling(m.regs, mask)
		}
	})
}

// Arm clears any stale request for the channel's NVIC line and enables it.
func (m *Manager) Arm(ch uint8) {
	mask := check(ch)
	irq := uint32(FirstIRQ) + uint32(ch)
	core.Atomic(func() {
		if m.bound&mask == 0 {
			panic("pinint: arming unbound channel " + core.Itoa(int(ch)))
		}
		if m.armed&mask == 0 {
			m.armed |= mask
			active.Add(1)
		}
		m.nvic.ClearPending(irq)
		m.nvic.Enable(irq)
	})
	port, bit := m.sel.InterruptPin(ch)
	core.RecordEvent(core.EvtArm, ch, uint32(port), uint32(bit))
}

// Disarm masks the channel's NVIC line. Wiring and edge configuration are
// kept. An interrupt the controller already handed to the main loop is
// still delivered.
func (m *Manager) Disarm(ch uint8) {
	mask := check(ch)
	irq := uint32(FirstIRQ) + uint32(ch)
	core.Atomic(func() {
		m.nvic.ClearPending(irq)
		m.nvic.Disable(irq)
		if m.armed&mask != 0 {
			m.armed &^= mask
			active.Add(^uint32(0))
		}
	})
	core.RecordEvent(core.EvtDisarm, ch, 0, 0)
}

// ClearStatus acknowledges a detected edge on channel ch.
func (m *Manager) ClearStatus(ch uint8) {
	clearStatus(m.regs, uint32(check(ch)))
}

// Status reports whether channel ch has an unacknowledged edge.
func (m *Manager) Status(ch uint8) bool {
	return m.regs.IST.HasBits(uint32(check(ch)))
}

// State returns the lifecycle state of channel ch.
func (m *Manager) State(ch uint8) State {
	mask := check(ch)
	switch {
	case m.armed&mask != 0:
		return Armed
	case m.bound&mask != 0:
		return Bound
	}
	return Unbound
}

// Channel maps an NVIC number back to its channel.
func Channel(irq uint32) (uint8, bool) {
	if irq < FirstIRQ || irq >= FirstIRQ+NumChannels {
		return 0, false
	}
	return uint8(irq - FirstIRQ), true
}

// Handle delivers the interrupt of NVIC line irq to the pin its channel is
// bound to.
func (m *Manager) Handle(irq uint32) {
	ch, ok := Channel(irq)
	if !ok {
		panic("pinint: interrupt " + core.Itoa(int(irq)) + " is not a pin interrupt")
	}
	port, bit, ok := m.Binding(ch)
	if !ok {
		panic("pinint: interrupt on unbound channel " + core.Itoa(int(ch)))
	}
	var l Listener
	if m.resolver != nil {
		l, ok = m.resolver.Resolve(port, bit)
	}
	if l == nil || !ok {
		panic("pinint: channel " + core.Itoa(int(ch)) + " bound to unknown pin")
	}
	l.HandleInterrupt()
}

// IsArmed reports whether NVIC line irq belongs to an armed channel; the
// dispatcher re-enables a serviced line only in that case.
func (m *Manager) IsArmed(irq uint32) bool {
	ch, ok := Channel(irq)
	return ok && m.armed&(1<<ch) != 0
}
