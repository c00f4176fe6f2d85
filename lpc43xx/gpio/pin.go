package gpio

import (
	"lpcgo/core"
	"lpcgo/lpc43xx/pinint"
	"lpcgo/lpc43xx/scu"
)

// Pin is one GPIO-capable pin. It keeps no copy of its configuration: every
// query reads the registers back. The only mutable field is the client.
type Pin struct {
	id     Identity
	mux    scu.Mux
	bank   *Bank
	irq    *pinint.Manager
	client core.InterruptClient
}

var _ core.Pin = (*Pin)(nil)

// Identity returns the static description of the pin.
func (p *Pin) Identity() Identity {
	return p.id
}

func (p *Pin) String() string {
	return p.id.GPIOName()
}

// Enable routes the GPIO function to the pin with the input buffer on.
func (p *Pin) Enable() {
	p.mux.Enable(p.id.Function)
}

// SelectFunction hands the pin to peripheral function fn.
func (p *Pin) SelectFunction(fn uint8) {
	p.mux.Select(scu.Function(fn))
}

// Deactivate puts the pin in its low-power idle state.
func (p *Pin) Deactivate() {
	p.mux.Disable()
}

func (p *Pin) MakeOutput() core.Configuration {
	p.Enable()
	p.bank.SetDirection(p.id.Port, p.id.Bit, true)
	return core.Output
}

func (p *Pin) MakeInput() core.Configuration {
	p.Enable()
	p.bank.SetDirection(p.id.Port, p.id.Bit, false)
	return core.Input
}

// DisableOutput turns the pin into an input; the port has no output-only
// disable.
func (p *Pin) DisableOutput() core.Configuration {
	p.MakeInput()
	return p.Configuration()
}

// DisableInput is a no-op: the input buffer stays on while the pin is GPIO.
func (p *Pin) DisableInput() core.Configuration {
	return p.Configuration()
}

func (p *Pin) SetFloatingState(s core.FloatingState) {
	p.mux.SetFloatingState(s)
}

func (p *Pin) FloatingState() core.FloatingState {
	return p.mux.FloatingState()
}

// Configuration combines the mux state with the DIR bit. A single direction
// bit never yields InputOutput or Other; they exist for the capability
// contract.
func (p *Pin) Configuration() core.Configuration {
	isGPIO := p.mux.IsFunction(p.id.Function)
	output := p.bank.IsOutput(p.id.Port, p.id.Bit)
	input := !output
	switch {
	case !isGPIO:
		return core.Function
	case input && output:
		return core.InputOutput
	case output:
		return core.Output
	case input:
		return core.Input
	}
	return core.Other
}

func (p *Pin) IsInput() bool {
	c := p.Configuration()
	return c == core.Input || c == core.InputOutput
}

func (p *Pin) IsOutput() bool {
	c := p.Configuration()
	return c == core.Output || c == core.InputOutput
}

func (p *Pin) Read() bool {
	return p.bank.Read(p.id.Port, p.id.Bit)
}

func (p *Pin) Set() {
	p.bank.Write(p.id.Port, p.id.Bit, true)
}

func (p *Pin) Clear() {
	p.bank.Write(p.id.Port, p.id.Bit, false)
}

func (p *Pin) Toggle() bool {
	return p.bank.Toggle(p.id.Port, p.id.Bit)
}

// SetClient replaces the client notified by HandleInterrupt.
func (p *Pin) SetClient(c core.InterruptClient) {
	core.Atomic(func() {
		p.client = c
	})
}

// HasInterruptChannel reports whether the pin owns a pin interrupt channel.
func (p *Pin) HasInterruptChannel() bool {
	_, ok := p.id.Channel.Get()
	return ok
}

func (p *Pin) channel() uint8 {
	ch, ok := p.id.Channel.Get()
	if !ok {
		panic("gpio: " + p.id.GPIOName() + " has no interrupt channel")
	}
	return ch
}

// EnableInterrupts wires the pin's channel to it, selects the edges and
// arms the channel. A pin without a channel panics before any register is
// touched.
func (p *Pin) EnableInterrupts(edge core.InterruptEdge) {
	ch := p.channel()
	p.irq.Bind(ch, p.id.Port, p.id.Bit)
	p.irq.ConfigureEdge(ch, edge)
	p.irq.Arm(ch)
}

func (p *Pin) DisableInterrupts() {
	p.irq.Disarm(p.channel())
}

// IsPending is not supported by this port.
func (p *Pin) IsPending() bool {
	panic("gpio: IsPending is not implemented")
}

// HandleInterrupt acknowledges the channel and then notifies the client, so
// an edge arriving while the client runs is latched again.
func (p *Pin) HandleInterrupt() {
	ch := p.channel()
	p.irq.ClearStatus(ch)
	core.RecordEvent(core.EvtPinFired, ch, uint32(p.id.Port), uint32(p.id.Bit))
	if c := p.client; c != nil {
		c.Fired()
	}
}
