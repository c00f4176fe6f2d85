package lpc43xx

import (
	"strings"
	"testing"

	"lpcgo/core"
	"lpcgo/lpc43xx/gpio"
	"lpcgo/lpc43xx/pinint"
)

// Button pins of the EDU-CIAA table and their channels.
var buttons = []struct {
	port, bit, ch uint8
}{
	{0, 4, 0},
	{0, 8, 1},
	{0, 9, 2},
	{1, 9, 3},
}

type countingClient struct {
	fired    int
	statusOK bool
	check    func() bool
}

func (c *countingClient) Fired() {
	c.fired++
	if c.check != nil && !c.check() {
		c.statusOK = false
	}
}

func expectPanic(t *testing.T, want string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic containing %q", want)
		}
		msg, _ := r.(string)
		if !strings.Contains(msg, want) {
			t.Fatalf("panic %q does not contain %q", msg, want)
		}
	}()
	fn()
}

func TestConfigurationFollowsDirection(t *testing.T) {
	c := NewSimulated(gpio.EDUCIAA)
	c.Ports.Each(func(p *gpio.Pin) {
		if got := p.MakeOutput(); got != core.Output {
			t.Errorf("%v: MakeOutput returned %v", p, got)
		}
		if got := p.Configuration(); got != core.Output {
			t.Errorf("%v: after MakeOutput configuration is %v", p, got)
		}
		if got := p.MakeInput(); got != core.Input {
			t.Errorf("%v: MakeInput returned %v", p, got)
		}
		if got := p.Configuration(); got != core.Input {
			t.Errorf("%v: after MakeInput configuration is %v", p, got)
		}

		p.Enable()
		p.MakeOutput()
		if got := p.DisableOutput(); got != core.Input {
			t.Errorf("%v: DisableOutput gave %v, want Input", p, got)
		}
	})
}

func TestDirectionTouchesOneBit(t *testing.T) {
	c := NewSimulated(gpio.EDUCIAA)
	c.Pin(1, 0).MakeOutput()
	c.Pin(1, 9).MakeOutput()
	c.Pin(1, 0).MakeInput()
	if got := c.Bank.Direction(1); got != 1<<9 {
		t.Errorf("DIR1 = %#x, want %#x", got, 1<<9)
	}
}

func TestSelectFunctionReportsFunction(t *testing.T) {
	c := NewSimulated(gpio.EDUCIAA)
	p := c.Pin(5, 0)
	p.MakeOutput()
	p.SelectFunction(1)
	if got := p.Configuration(); got != core.Function {
		t.Errorf("configuration after SelectFunction = %v, want Function", got)
	}
	p.Deactivate()
	if got := p.Configuration(); got != core.Function {
		t.Errorf("configuration after Deactivate = %v, want Function", got)
	}
}

func TestToggleInvolution(t *testing.T) {
	c := NewSimulated(gpio.EDUCIAA)
	c.Ports.Each(func(p *gpio.Pin) {
		p.MakeOutput()
		for _, start := range []bool{false, true} {
			if start {
				p.Set()
			} else {
				p.Clear()
			}
			if got := p.Toggle(); got == start {
				t.Errorf("%v: Toggle from %v returned %v", p, start, got)
			}
			p.Toggle()
			if p.Read() != start {
				t.Errorf("%v: two toggles did not restore %v", p, start)
			}
		}
	})
}

func TestFloatingStateRoundTrip(t *testing.T) {
	c := NewSimulated(gpio.EDUCIAA)
	p := c.Pin(0, 4)
	p.MakeInput()
	for _, s := range []core.FloatingState{core.PullUp, core.PullDown, core.PullNone} {
		p.SetFloatingState(s)
		if got := p.FloatingState(); got != s {
			t.Errorf("SetFloatingState(%v) read back %v", s, got)
		}
	}
}

func TestEmptySlotPanics(t *testing.T) {
	c := NewSimulated(gpio.EDUCIAA)
	expectPanic(t, "no pin at GPIO0[16]", func() {
		c.Ports.Port(0).At(16)
	})
	expectPanic(t, "no pin at GPIO1[30]", func() {
		c.Pin(1, 30)
	})
	if _, ok := c.Lookup(0, 16); ok {
		t.Error("Lookup found a pin in an empty slot")
	}
}

func TestRisingEdgeFiresOnce(t *testing.T) {
	c := NewSimulated(gpio.EDUCIAA)
	p := c.Pin(0, 4)
	p.MakeInput()
	client := &countingClient{statusOK: true, check: func() bool { return !c.PinInt.Status(0) }}
	p.SetClient(client)
	p.EnableInterrupts(core.RisingEdge)

	c.Drive(0, 4, true)
	if !c.HasPendingInterrupts() {
		t.Fatal("rising edge left nothing to service")
	}
	c.ServicePendingInterrupts()

	if client.fired != 1 {
		t.Errorf("client fired %d times, want 1", client.fired)
	}
	if !client.statusOK {
		t.Error("status flag was still set when the client ran")
	}
	if c.PinInt.Status(0) {
		t.Error("status flag left set")
	}
	if c.HasPendingInterrupts() {
		t.Error("work left after service")
	}

	c.Drive(0, 4, false)
	c.ServicePendingInterrupts()
	if client.fired != 1 {
		t.Errorf("falling edge fired a rising-edge client (%d)", client.fired)
	}
	if !c.NVIC.IsEnabled(IRQ_PIN_INT0) {
		t.Error("armed line was not re-enabled after service")
	}
}

func TestDisarmSuppressesEdges(t *testing.T) {
	c := NewSimulated(gpio.EDUCIAA)
	p := c.Pin(0, 8)
	client := &countingClient{}
	p.SetClient(client)
	p.EnableInterrupts(core.EitherEdge)
	p.DisableInterrupts()

	c.Drive(0, 8, true)
	c.Drive(0, 8, false)
	if c.HasPendingInterrupts() {
		t.Fatal("disarmed channel produced work")
	}
	c.ServicePendingInterrupts()
	if client.fired != 0 {
		t.Errorf("disarmed pin fired %d times", client.fired)
	}
	if got := c.PinInt.State(1); got != pinint.Bound {
		t.Errorf("channel state after disarm = %v, want Bound", got)
	}

	p.EnableInterrupts(core.EitherEdge)
	c.ServicePendingInterrupts()
	if client.fired != 0 {
		t.Error("edges seen while disarmed were delivered after re-arming")
	}
}

func TestEitherEdgeOnChannel3(t *testing.T) {
	c := NewSimulated(gpio.EDUCIAA)
	c.Drive(1, 9, true)

	p := c.Pin(1, 9)
	p.MakeInput()
	client := &countingClient{statusOK: true, check: func() bool { return !c.PinInt.Status(3) }}
	p.SetClient(client)
	p.EnableInterrupts(core.EitherEdge)
	if port, bit, ok := c.PinInt.Binding(3); !ok || port != 1 || bit != 9 {
		t.Fatalf("channel 3 bound to GPIO%d[%d] (%v)", port, bit, ok)
	}

	c.Drive(1, 9, false)
	c.ServicePendingInterrupts()
	c.Drive(1, 9, true)
	c.ServicePendingInterrupts()

	if client.fired != 2 {
		t.Errorf("client fired %d times, want 2", client.fired)
	}
	if !client.statusOK {
		t.Error("status flag was set while the client ran")
	}
	if c.PinInt.Status(3) || c.NVIC.IsPending(IRQ_PIN_INT3) {
		t.Error("a flag was left set")
	}
}

func TestEdgeDuringClientIsRedelivered(t *testing.T) {
	c := NewSimulated(gpio.EDUCIAA)
	p := c.Pin(0, 9)
	var fired int
	p.SetClient(core.InterruptClientFunc(func() {
		fired++
		if fired == 1 {
			c.Drive(0, 9, false)
		}
	}))
	p.EnableInterrupts(core.EitherEdge)

	c.Drive(0, 9, true)
	c.ServicePendingInterrupts()
	if fired != 2 {
		t.Errorf("fired %d times, want 2", fired)
	}
}

func TestDisarmInClientKeepsLineMasked(t *testing.T) {
	c := NewSimulated(gpio.EDUCIAA)
	p := c.Pin(0, 4)
	p.SetClient(core.InterruptClientFunc(p.DisableInterrupts))
	p.EnableInterrupts(core.RisingEdge)

	c.Drive(0, 4, true)
	c.ServicePendingInterrupts()
	if c.NVIC.IsEnabled(IRQ_PIN_INT0) {
		t.Error("line re-enabled after the client disarmed it")
	}
}

func TestUnassignedChannelFaultsBeforeRegisterWrites(t *testing.T) {
	c := NewSimulated(gpio.EDUCIAA)
	p := c.Pin(0, 0)
	if p.HasInterruptChannel() {
		t.Fatal("GPIO0[0] should have no channel")
	}
	pintsel := [2]uint32{c.SCU.PINTSEL[0].Get(), c.SCU.PINTSEL[1].Get()}
	before := pinint.ActiveCount()

	expectPanic(t, "has no interrupt channel", func() {
		p.EnableInterrupts(core.RisingEdge)
	})
	expectPanic(t, "has no interrupt channel", p.DisableInterrupts)

	if c.SCU.PINTSEL[0].Get() != pintsel[0] || c.SCU.PINTSEL[1].Get() != pintsel[1] {
		t.Error("PINTSEL written before the fault")
	}
	for ch := uint8(0); ch < pinint.NumChannels; ch++ {
		if c.PinInt.State(ch) != pinint.Unbound {
			t.Errorf("channel %d left %v", ch, c.PinInt.State(ch))
		}
	}
	if pinint.ActiveCount() != before {
		t.Error("active counter changed")
	}
}

func TestIsPendingPanics(t *testing.T) {
	c := NewSimulated(gpio.EDUCIAA)
	expectPanic(t, "not implemented", func() {
		c.Pin(0, 4).IsPending()
	})
}

func TestUnroutedInterruptFaults(t *testing.T) {
	c := NewSimulated(gpio.EDUCIAA)
	c.NVIC.Enable(IRQ_TIMER0)
	c.NVIC.SetPending(IRQ_TIMER0)
	if !c.HasPendingInterrupts() {
		t.Fatal("deferred TIMER0 not reported")
	}
	expectPanic(t, "unhandled interrupt 12", c.ServicePendingInterrupts)

	// The faulting line is retired, so the next pass has nothing to do.
	if c.HasPendingInterrupts() || c.NVIC.IsPending(IRQ_TIMER0) {
		t.Fatal("TIMER0 still pending after the fault")
	}
	if c.NVIC.IsEnabled(IRQ_TIMER0) {
		t.Error("TIMER0 unmasked after the fault")
	}
	c.ServicePendingInterrupts()
}

type panickingRoute struct{ calls int }

func (r *panickingRoute) Handle(irq uint32)       { r.calls++; panic("route failed") }
func (r *panickingRoute) IsArmed(irq uint32) bool { return true }

func TestPanickingRouteIsRetired(t *testing.T) {
	c := NewSimulated(gpio.EDUCIAA)
	r := &panickingRoute{}
	c.Route(IRQ_RITIMER, r)
	c.NVIC.Enable(IRQ_RITIMER)
	c.NVIC.SetPending(IRQ_RITIMER)

	expectPanic(t, "route failed", c.ServicePendingInterrupts)
	c.ServicePendingInterrupts()
	if r.calls != 1 {
		t.Fatalf("route ran %d times, want 1", r.calls)
	}
	if c.NVIC.IsEnabled(IRQ_RITIMER) || c.NVIC.IsDeferred(IRQ_RITIMER) {
		t.Error("failed line left armed or deferred")
	}
}

type recordingRoute struct {
	handled []uint32
	armed   bool
}

func (r *recordingRoute) Handle(irq uint32)       { r.handled = append(r.handled, irq) }
func (r *recordingRoute) IsArmed(irq uint32) bool { return r.armed }

func TestRouteExtendsDispatch(t *testing.T) {
	c := NewSimulated(gpio.EDUCIAA)
	r := &recordingRoute{armed: true}
	c.Route(IRQ_RITIMER, r)
	expectPanic(t, "routed twice", func() { c.Route(IRQ_RITIMER, r) })
	expectPanic(t, "routed twice", func() { c.Route(IRQ_PIN_INT2, r) })

	c.NVIC.Enable(IRQ_RITIMER)
	c.NVIC.SetPending(IRQ_RITIMER)
	c.ServicePendingInterrupts()
	if len(r.handled) != 1 || r.handled[0] != IRQ_RITIMER {
		t.Fatalf("handled %v", r.handled)
	}
	if c.NVIC.IsPending(IRQ_RITIMER) {
		t.Error("pending flag not cleared after dispatch")
	}
	if !c.NVIC.IsEnabled(IRQ_RITIMER) {
		t.Error("armed route not re-enabled")
	}
}

func TestDeferredCallsAreServiced(t *testing.T) {
	c := NewSimulated(gpio.EDUCIAA)
	var ran int
	task := core.RegisterDeferredCall(func() { ran++ })
	task.Set()
	task.Set()
	if !c.HasPendingInterrupts() {
		t.Fatal("pending deferred call not reported")
	}
	c.ServicePendingInterrupts()
	if ran != 1 {
		t.Errorf("task ran %d times, want 1", ran)
	}
	if c.HasPendingInterrupts() {
		t.Error("work left after service")
	}
}

func TestActiveCountTracksArmedChannels(t *testing.T) {
	c := NewSimulated(gpio.EDUCIAA)
	base := pinint.ActiveCount()

	for _, b := range buttons {
		c.Pin(b.port, b.bit).EnableInterrupts(core.FallingEdge)
	}
	c.Pin(0, 4).EnableInterrupts(core.RisingEdge)
	if got := pinint.ActiveCount() - base; got != uint32(len(buttons)) {
		t.Errorf("active = %d, want %d", got, len(buttons))
	}

	c.Quiesce()
	if got := pinint.ActiveCount(); got != base {
		t.Errorf("active after Quiesce = %d, want %d", got, base)
	}
	c.Pin(0, 4).DisableInterrupts()
	if got := pinint.ActiveCount(); got != base {
		t.Error("disarming a disarmed channel moved the counter")
	}
}

func TestQuiesceKeepsPeripheralPins(t *testing.T) {
	c := NewSimulated(gpio.EDUCIAA)
	led := c.Pin(5, 0)
	led.MakeOutput()
	led.Set()
	uartTX := c.Pin(3, 9) // P7_1
	uartTX.SelectFunction(6)

	c.Quiesce()

	if got := c.SCU.Mux(2, 0).Value(); got != 0x10 {
		t.Errorf("P2_0 SFSP = %#x after Quiesce, want parked", got)
	}
	if c.SCU.Mux(7, 1).Function() != 6 {
		t.Errorf("P7_1 lost its peripheral function")
	}
}

func TestAtomicRestoresOnPanic(t *testing.T) {
	c := NewSimulated(gpio.EDUCIAA)
	expectPanic(t, "boom", func() {
		c.Atomic(func() { panic("boom") })
	})
	ran := false
	c.Atomic(func() { ran = true })
	if !ran {
		t.Error("Atomic body not run")
	}
}

func TestPortAccess(t *testing.T) {
	c := NewSimulated(gpio.EDUCIAA)
	c.Pin(5, 0).MakeOutput()
	c.Pin(5, 1).MakeOutput()
	c.Drive(5, 3, true) // input held high

	levels, ok := c.WritePort(5, 0b0011, 0b0001)
	if !ok || levels != 0b1001 {
		t.Fatalf("WritePort = %#b, %v; want %#b", levels, ok, 0b1001)
	}
	if got, _ := c.ReadPort(5); got != levels || !c.Pin(5, 0).Read() || c.Pin(5, 1).Read() {
		t.Errorf("ReadPort = %#b after write", got)
	}
	if c.Bank.Mask(5) != 0 {
		t.Errorf("MASK5 = %#x, not restored", c.Bank.Mask(5))
	}

	if _, ok := c.WritePort(5, 1<<31, 0); ok {
		t.Error("write to an unwired bit accepted")
	}
	if _, ok := c.ReadPort(gpio.PortCount); ok {
		t.Error("read of a missing port accepted")
	}
}
