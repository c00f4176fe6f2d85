// Pin command service: exposes the board's GPIO pins to the host.
//
// Every pin command is answered with exactly one response: gpio_state with
// the pin level after the command, or gpio_error with a wire error code.
// Requests from the host never fault the firmware; unknown pins and pins
// without an interrupt channel are rejected with gpio_error. After a
// shutdown, commands that would drive or re-arm a pin are refused until the
// host resets the firmware; reads and parking are still served.
package core

import (
	"lpcgo/protocol"
)

// pinEvent is an interrupt observed on a pin, waiting to be sent.
type pinEvent struct {
	port, bit uint8
	level     bool
}

const pinEventQueueSize = 16

var (
	pinEvents        [pinEventQueueSize]pinEvent
	pinEventHead     uint8
	pinEventCount    uint8
	pinEventsDropped uint32
	pinEventsLogged  uint32
	pinEventTask     DeferredCall
	pinEventTaskSet  bool
)

// InitGPIOCommands registers the pin commands and their responses.
func InitGPIOCommands() {
	RegisterCommand("gpio_output", "port=%c bit=%c", handleGPIOOutput)
	RegisterCommand("gpio_input", "port=%c bit=%c pull=%c", handleGPIOInput)
	RegisterCommand("gpio_set", "port=%c bit=%c", handleGPIOSet)
	RegisterCommand("gpio_clear", "port=%c bit=%c", handleGPIOClear)
	RegisterCommand("gpio_toggle", "port=%c bit=%c", handleGPIOToggle)
	RegisterCommand("gpio_read", "port=%c bit=%c", handleGPIORead)
	RegisterCommand("gpio_enable_interrupt", "port=%c bit=%c edge=%c", handleGPIOEnableInterrupt)
	RegisterCommand("gpio_disable_interrupt", "port=%c bit=%c", handleGPIODisableInterrupt)
	RegisterCommand("gpio_disable", "port=%c bit=%c", handleGPIODisable)
	RegisterCommand("gpio_count", "", handleGPIOCount)
	RegisterCommand("gpio_read_port", "port=%c", handleGPIOReadPort)
	RegisterCommand("gpio_write_port", "port=%c mask=%u value=%u", handleGPIOWritePort)

	RegisterResponse("gpio_state", "port=%c bit=%c value=%c")
	RegisterResponse("gpio_event", "port=%c bit=%c value=%c")
	RegisterResponse("gpio_error", "port=%c bit=%c code=%c")
	RegisterResponse("gpio_count_response", "count=%c")
	RegisterResponse("gpio_port_state", "port=%c value=%u")

	RegisterEnumeration("pin_pull", []string{"none", "up", "down"})
	RegisterEnumeration("pin_edge", []string{"rising", "falling", "either"})

	if !pinEventTaskSet {
		pinEventTask = RegisterDeferredCall(flushPinEvents)
		pinEventTaskSet = true
	}
}

// pinRequest decodes the port/bit pair every pin command starts with and
// resolves it. ok is false when a gpio_error has already been sent.
func pinRequest(data *[]byte) (port, bit uint8, pin Pin, ok bool, err error) {
	var p, b uint32
	if err := protocol.DecodeArgs(data, &p, &b); err != nil {
		return 0, 0, nil, false, err
	}
	if p > 0xFF || b > 0xFF {
		port, bit = saturate(p), saturate(b)
		sendPinError(port, bit, ErrUnknownPin)
		return port, bit, nil, false, nil
	}
	port, bit = uint8(p), uint8(b)
	pin, found := MustPins().Lookup(port, bit)
	if !found {
		sendPinError(port, bit, ErrUnknownPin)
		return port, bit, nil, false, nil
	}
	return port, bit, pin, true, nil
}

// saturate clamps an out-of-range address to 255 for the error report.
func saturate(v uint32) uint8 {
	if v > 0xFF {
		return 0xFF
	}
	return uint8(v)
}

// changeRequest resolves a pin for a command that changes its state. Such
// commands are refused after a shutdown until the host resets.
func changeRequest(data *[]byte) (port, bit uint8, pin Pin, ok bool, err error) {
	port, bit, pin, ok, err = pinRequest(data)
	if ok && IsShutdown() {
		sendPinError(port, bit, ErrShutdown)
		ok = false
	}
	return port, bit, pin, ok, err
}

func sendPinState(port, bit uint8, level bool) {
	SendResponse("gpio_state", func(output protocol.OutputBuffer) {
		protocol.EncodeVLQUint(output, uint32(port))
		protocol.EncodeVLQUint(output, uint32(bit))
		protocol.EncodeVLQUint(output, boolToUint(level))
	})
}

func sendPinError(port, bit uint8, err error) {
	SendResponse("gpio_error", func(output protocol.OutputBuffer) {
		protocol.EncodeVLQUint(output, uint32(port))
		protocol.EncodeVLQUint(output, uint32(bit))
		protocol.EncodeVLQUint(output, WireCode(err))
	})
}

func handleGPIOOutput(data *[]byte) error {
	port, bit, pin, ok, err := changeRequest(data)
	if !ok {
		return err
	}
	pin.MakeOutput()
	sendPinState(port, bit, pin.Read())
	return nil
}

func handleGPIOInput(data *[]byte) error {
	port, bit, pin, ok, err := changeRequest(data)
	if !ok {
		return err
	}
	pull, err := protocol.DecodeVLQUint(data)
	if err != nil {
		return err
	}
	if pull > uint32(PullDown) {
		sendPinError(port, bit, ErrInvalidParams)
		return nil
	}
	pin.MakeInput()
	pin.SetFloatingState(FloatingState(pull))
	sendPinState(port, bit, pin.Read())
	return nil
}

// writeRequest resolves a pin that must currently be an output.
func writeRequest(data *[]byte) (port, bit uint8, pin Pin, ok bool, err error) {
	port, bit, pin, ok, err = changeRequest(data)
	if ok && !pin.IsOutput() {
		sendPinError(port, bit, ErrNotOutput)
		ok = false
	}
	return port, bit, pin, ok, err
}

func handleGPIOSet(data *[]byte) error {
	port, bit, pin, ok, err := writeRequest(data)
	if !ok {
		return err
	}
	pin.Set()
	sendPinState(port, bit, pin.Read())
	return nil
}

func handleGPIOClear(data *[]byte) error {
	port, bit, pin, ok, err := writeRequest(data)
	if !ok {
		return err
	}
	pin.Clear()
	sendPinState(port, bit, pin.Read())
	return nil
}

func handleGPIOToggle(data *[]byte) error {
	port, bit, pin, ok, err := writeRequest(data)
	if !ok {
		return err
	}
	sendPinState(port, bit, pin.Toggle())
	return nil
}

func handleGPIORead(data *[]byte) error {
	port, bit, pin, ok, err := pinRequest(data)
	if !ok {
		return err
	}
	sendPinState(port, bit, pin.Read())
	return nil
}

func handleGPIOEnableInterrupt(data *[]byte) error {
	port, bit, pin, ok, err := changeRequest(data)
	if !ok {
		return err
	}
	edge, err := protocol.DecodeVLQUint(data)
	if err != nil {
		return err
	}
	if edge > uint32(EitherEdge) {
		sendPinError(port, bit, ErrInvalidParams)
		return nil
	}
	if !pin.HasInterruptChannel() {
		sendPinError(port, bit, ErrNoChannel)
		return nil
	}
	pin.SetClient(&pinEventClient{port: port, bit: bit, pin: pin})
	pin.EnableInterrupts(InterruptEdge(edge))
	sendPinState(port, bit, pin.Read())
	return nil
}

func handleGPIODisableInterrupt(data *[]byte) error {
	port, bit, pin, ok, err := pinRequest(data)
	if !ok {
		return err
	}
	if !pin.HasInterruptChannel() {
		sendPinError(port, bit, ErrNoChannel)
		return nil
	}
	pin.DisableInterrupts()
	pin.SetClient(nil)
	sendPinState(port, bit, pin.Read())
	return nil
}

// handleGPIODisable parks a pin in its low-power state, dropping any
// interrupt subscription first.
func handleGPIODisable(data *[]byte) error {
	port, bit, pin, ok, err := pinRequest(data)
	if !ok {
		return err
	}
	if pin.HasInterruptChannel() {
		pin.DisableInterrupts()
	}
	pin.SetClient(nil)
	pin.Deactivate()
	sendPinState(port, bit, pin.Read())
	return nil
}

func handleGPIOCount(data *[]byte) error {
	n := CountPins(MustPins())
	SendResponse("gpio_count_response", func(output protocol.OutputBuffer) {
		protocol.EncodeVLQUint(output, uint32(n))
	})
	return nil
}

// WholePort is the bit reported in a gpio_error answering a port-wide
// command.
const WholePort = 0xFF

// portRequest decodes the port a port-wide command names. ok is false when
// a gpio_error has already been sent.
func portRequest(data *[]byte) (port uint8, ports PortAccess, ok bool, err error) {
	p, err := protocol.DecodeVLQUint(data)
	if err != nil {
		return 0, nil, false, err
	}
	ports, hasPorts := MustPins().(PortAccess)
	if p > 0xFF || !hasPorts {
		sendPinError(saturate(p), WholePort, ErrUnknownPin)
		return saturate(p), nil, false, nil
	}
	return uint8(p), ports, true, nil
}

func sendPortState(port uint8, levels uint32) {
	SendResponse("gpio_port_state", func(output protocol.OutputBuffer) {
		protocol.EncodeVLQUint(output, uint32(port))
		protocol.EncodeVLQUint(output, levels)
	})
}

func handleGPIOReadPort(data *[]byte) error {
	port, ports, ok, err := portRequest(data)
	if !ok {
		return err
	}
	levels, found := ports.ReadPort(port)
	if !found {
		sendPinError(port, WholePort, ErrUnknownPin)
		return nil
	}
	sendPortState(port, levels)
	return nil
}

// handleGPIOWritePort drives the bits selected by mask in one store. Bits
// of pins that are not outputs are latched but do not change level.
func handleGPIOWritePort(data *[]byte) error {
	port, ports, ok, err := portRequest(data)
	if !ok {
		return err
	}
	var mask, value uint32
	if err := protocol.DecodeArgs(data, &mask, &value); err != nil {
		return err
	}
	if IsShutdown() {
		sendPinError(port, WholePort, ErrShutdown)
		return nil
	}
	levels, found := ports.WritePort(port, mask, value)
	if !found {
		sendPinError(port, WholePort, ErrUnknownPin)
		return nil
	}
	sendPortState(port, levels)
	return nil
}

// CountPins returns the number of pins l resolves across the GPIO address
// space.
func CountPins(l PinLookup) int {
	n := 0
	for port := 0; port < 8; port++ {
		for bit := 0; bit < 32; bit++ {
			if _, ok := l.Lookup(uint8(port), uint8(bit)); ok {
				n++
			}
		}
	}
	return n
}

// pinEventClient queues an event each time its pin's interrupt fires.
type pinEventClient struct {
	port, bit uint8
	pin       Pin
}

func (c *pinEventClient) Fired() {
	queuePinEvent(pinEvent{port: c.port, bit: c.bit, level: c.pin.Read()})
}

func queuePinEvent(evt pinEvent) {
	Atomic(func() {
		if pinEventCount == pinEventQueueSize {
			pinEventsDropped++
			return
		}
		pinEvents[(pinEventHead+pinEventCount)%pinEventQueueSize] = evt
		pinEventCount++
	})
	if pinEventTaskSet {
		pinEventTask.Set()
	}
}

func popPinEvent() (evt pinEvent, ok bool) {
	Atomic(func() {
		if pinEventCount == 0 {
			return
		}
		evt, ok = pinEvents[pinEventHead], true
		pinEventHead = (pinEventHead + 1) % pinEventQueueSize
		pinEventCount--
	})
	return evt, ok
}

// flushPinEvents sends every queued event as gpio_event.
func flushPinEvents() {
	for {
		evt, ok := popPinEvent()
		if !ok {
			break
		}
		SendResponse("gpio_event", func(output protocol.OutputBuffer) {
			protocol.EncodeVLQUint(output, uint32(evt.port))
			protocol.EncodeVLQUint(output, uint32(evt.bit))
			protocol.EncodeVLQUint(output, boolToUint(evt.level))
		})
	}
	if n := PinEventsDropped(); n != pinEventsLogged {
		DebugPrintln("[GPIO] dropped " + utoa(n-pinEventsLogged) + " pin events")
		pinEventsLogged = n
	}
}

// PinEventsDropped returns how many pin events were lost to a full queue.
func PinEventsDropped() uint32 {
	var n uint32
	Atomic(func() { n = pinEventsDropped })
	return n
}
