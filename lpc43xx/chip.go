// Package lpc43xx ties the LPC43xx pin subsystem together: the GPIO ports,
// the pin interrupt channels and the interrupt dispatch loop a scheduler
// polls.
package lpc43xx

import (
	"lpcgo/core"
	"lpcgo/cortexm"
	"lpcgo/lpc43xx/gpio"
	"lpcgo/lpc43xx/pinint"
	"lpcgo/lpc43xx/scu"
)

// InterruptHandler services a routed NVIC line on the main loop.
type InterruptHandler interface {
	Handle(irq uint32)
	// IsArmed reports whether the line should be unmasked again once
	// Handle returns.
	IsArmed(irq uint32) bool
}

// Hardware bundles the register blocks a Chip drives.
type Hardware struct {
	GPIO   *gpio.Registers
	SCU    *scu.Registers
	PinInt *pinint.Registers
	NVIC   *cortexm.NVIC
}

// Chip is the pin subsystem of one LPC43xx.
type Chip struct {
	NVIC   *cortexm.NVIC
	SCU    *scu.Registers
	Bank   *gpio.Bank
	Ports  *gpio.Ports
	PinInt *pinint.Manager

	routes [IRQ_max]InterruptHandler
}

var (
	_ core.PinLookup  = (*Chip)(nil)
	_ core.PortAccess = (*Chip)(nil)
)

// New builds the chip over hw with the pins described by table. The eight
// pin interrupt lines are routed to the channel manager; every other line
// is unrouted until Route is called for it.
func New(hw Hardware, table []gpio.Identity) *Chip {
	c := &Chip{
		NVIC: hw.NVIC,
		SCU:  hw.SCU,
		Bank: gpio.NewBank(hw.GPIO),
	}
	c.PinInt = pinint.New(hw.PinInt, hw.SCU, hw.NVIC)
	c.Ports = gpio.NewPorts(table, c.Bank, hw.SCU, c.PinInt)
	for ch := uint32(0); ch < pinint.NumChannels; ch++ {
		c.Route(IRQ_PIN_INT0+ch, c.PinInt)
	}
	return c
}

// Route installs h as the handler of NVIC line irq. A line can be routed
// once.
func (c *Chip) Route(irq uint32, h InterruptHandler) {
	if irq >= IRQ_max {
		panic("lpc43xx: no interrupt " + core.Itoa(int(irq)))
	}
	if c.routes[irq] != nil {
		panic("lpc43xx: interrupt " + core.Itoa(int(irq)) + " routed twice")
	}
	c.routes[irq] = h
}

// HasPendingInterrupts reports whether ServicePendingInterrupts has work:
// a deferred hardware interrupt or a pending deferred call.
func (c *Chip) HasPendingInterrupts() bool {
	return c.NVIC.HasPending() || core.HasDeferredCalls()
}

// ServicePendingInterrupts drains deferred calls and deferred interrupts
// until neither is left. Each interrupt is dispatched to its route, its
// pending flag is cleared, and its line is unmasked again if the handler
// still wants it. An unrouted interrupt is a fatal fault.
func (c *Chip) ServicePendingInterrupts() {
	for {
		if core.ServiceDeferredCall() {
			continue
		}
		irq, ok := c.NVIC.NextPending()
		if !ok {
			return
		}
		var h InterruptHandler
		if irq < IRQ_max {
			h = c.routes[irq]
		}
		if h == nil {
			// Completed and left masked: the fault is raised once, and
			// later passes still reach the console.
			c.NVIC.Complete(irq)
			core.DumpEvents()
			panic("lpc43xx: unhandled interrupt " + core.Itoa(int(irq)))
		}
		core.RecordEvent(core.EvtIRQDispatch, uint8(irq), 0, 0)
		c.dispatch(irq, h)
	}
}

// dispatch runs the route of irq and completes the line. A handler that
// panics leaves its line masked.
func (c *Chip) dispatch(irq uint32, h InterruptHandler) {
	handled := false
	defer func() {
		c.NVIC.Complete(irq)
		if handled && h.IsArmed(irq) {
			c.NVIC.Enable(irq)
		}
	}()
	h.Handle(irq)
	handled = true
}

// Sleep waits for the next interrupt. Whether a deeper sleep state is safe
// (see pinint.ActiveCount) is the caller's decision.
func (c *Chip) Sleep() {
	cortexm.WaitForInterrupt()
}

// Atomic runs body with interrupts masked.
func (c *Chip) Atomic(body func()) {
	core.Atomic(body)
}

// Pin returns GPIO<port>[bit], panicking if the board has no such pin.
func (c *Chip) Pin(port, bit uint8) *gpio.Pin {
	return c.Ports.Pin(port, bit)
}

// Lookup implements core.PinLookup.
func (c *Chip) Lookup(port, bit uint8) (core.Pin, bool) {
	p, ok := c.Ports.Lookup(port, bit)
	if !ok {
		return nil, false
	}
	return p, true
}

// ReadPort implements core.PortAccess.
func (c *Chip) ReadPort(port uint8) (uint32, bool) {
	if port >= gpio.PortCount {
		return 0, false
	}
	return c.Bank.Port(port), true
}

// WritePort implements core.PortAccess. The mask may only name bits the
// board wires.
func (c *Chip) WritePort(port uint8, mask, value uint32) (uint32, bool) {
	if port >= gpio.PortCount || mask&^c.Ports.Wired(port) != 0 {
		return 0, false
	}
	c.Bank.Update(port, mask, value)
	return c.Bank.Port(port), true
}

// Quiesce disarms every pin interrupt and parks every GPIO pin in its
// low-power state. Pins handed to another peripheral, such as the console
// UART, keep their function. Used on emergency stop.
func (c *Chip) Quiesce() {
	c.Ports.Each(func(p *gpio.Pin) {
		if p.HasInterruptChannel() {
			p.DisableInterrupts()
		}
		if p.Configuration() != core.Function {
			p.Deactivate()
		}
	})
}
