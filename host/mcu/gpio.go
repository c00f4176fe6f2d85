package mcu

import (
	"fmt"

	"lpcgo/core"
)

// PinError is a gpio_error reply.
type PinError struct {
	Port, Bit uint8
	Code      core.Code
}

func (e *PinError) Error() string {
	if e.Bit == core.WholePort {
		return fmt.Sprintf("GPIO%d: %s", e.Port, e.Code)
	}
	return fmt.Sprintf("GPIO%d[%d]: %s", e.Port, e.Bit, e.Code)
}

// Unwrap lets errors.Is match the firmware error code.
func (e *PinError) Unwrap() error {
	return e.Code
}

// Pull names a pin_pull value.
type Pull string

const (
	PullNone Pull = "none"
	PullUp   Pull = "up"
	PullDown Pull = "down"
)

// Edge names a pin_edge value.
type Edge string

const (
	Rising  Edge = "rising"
	Falling Edge = "falling"
	Either  Edge = "either"
)

// pinCall sends a gpio command and waits for the gpio_state or gpio_error
// that answers it.
func (m *MCU) pinCall(name string, port, bit uint8, extra ...uint32) (bool, error) {
	args := append([]uint32{uint32(port), uint32(bit)}, extra...)
	if err := m.Send(name, args...); err != nil {
		return false, err
	}
	r, err := m.Await(func(r Response) bool {
		return (r.Name == "gpio_state" || r.Name == "gpio_error") &&
			r.Get("port") == uint32(port) && r.Get("bit") == uint32(bit)
	})
	if err != nil {
		return false, fmt.Errorf("%s GPIO%d[%d]: %w", name, port, bit, err)
	}
	if r.Name == "gpio_error" {
		return false, pinError(r)
	}
	return r.Get("value") != 0, nil
}

func pinError(r Response) *PinError {
	code, ok := core.CodeFromWire(r.Get("code"))
	if !ok {
		code = core.Code(fmt.Sprintf("error %d", r.Get("code")))
	}
	return &PinError{Port: uint8(r.Get("port")), Bit: uint8(r.Get("bit")), Code: code}
}

// portCall sends a port-wide command and waits for its gpio_port_state or
// gpio_error.
func (m *MCU) portCall(name string, port uint8, extra ...uint32) (uint32, error) {
	args := append([]uint32{uint32(port)}, extra...)
	if err := m.Send(name, args...); err != nil {
		return 0, err
	}
	r, err := m.Await(func(r Response) bool {
		if r.Get("port") != uint32(port) {
			return false
		}
		return r.Name == "gpio_port_state" ||
			r.Name == "gpio_error" && r.Get("bit") == core.WholePort
	})
	if err != nil {
		return 0, fmt.Errorf("%s GPIO%d: %w", name, port, err)
	}
	if r.Name == "gpio_error" {
		return 0, pinError(r)
	}
	return r.Get("value"), nil
}

// ReadPort returns the levels of every pin of a GPIO port.
func (m *MCU) ReadPort(port uint8) (uint32, error) {
	return m.portCall("gpio_read_port", port)
}

// WritePort stores value into the bits of port selected by mask in one
// write and returns the resulting levels. Bits of pins that are not
// outputs keep their level.
func (m *MCU) WritePort(port uint8, mask, value uint32) (uint32, error) {
	return m.portCall("gpio_write_port", port, mask, value)
}

// Output makes the pin an output and returns its level.
func (m *MCU) Output(port, bit uint8) (bool, error) {
	return m.pinCall("gpio_output", port, bit)
}

// Input makes the pin an input with the given pull and returns its level.
func (m *MCU) Input(port, bit uint8, pull Pull) (bool, error) {
	v, err := m.enum("pin_pull", string(pull))
	if err != nil {
		return false, err
	}
	return m.pinCall("gpio_input", port, bit, v)
}

func (m *MCU) Set(port, bit uint8) (bool, error) {
	return m.pinCall("gpio_set", port, bit)
}

func (m *MCU) Clear(port, bit uint8) (bool, error) {
	return m.pinCall("gpio_clear", port, bit)
}

func (m *MCU) Toggle(port, bit uint8) (bool, error) {
	return m.pinCall("gpio_toggle", port, bit)
}

func (m *MCU) Read(port, bit uint8) (bool, error) {
	return m.pinCall("gpio_read", port, bit)
}

// EnableInterrupt arms the pin's interrupt channel. Reports arrive on
// Events.
func (m *MCU) EnableInterrupt(port, bit uint8, edge Edge) (bool, error) {
	v, err := m.enum("pin_edge", string(edge))
	if err != nil {
		return false, err
	}
	return m.pinCall("gpio_enable_interrupt", port, bit, v)
}

func (m *MCU) DisableInterrupt(port, bit uint8) (bool, error) {
	return m.pinCall("gpio_disable_interrupt", port, bit)
}

// Disable parks the pin in its low-power state.
func (m *MCU) Disable(port, bit uint8) (bool, error) {
	return m.pinCall("gpio_disable", port, bit)
}

// Count returns the number of GPIO pins the board exposes.
func (m *MCU) Count() (int, error) {
	r, err := m.Call("gpio_count", "gpio_count_response")
	if err != nil {
		return 0, err
	}
	return int(r.Get("count")), nil
}

func (m *MCU) enum(name, label string) (uint32, error) {
	d := m.dict.Load()
	if d == nil {
		return 0, ErrNoDictionary
	}
	return d.Enum(name, label)
}
