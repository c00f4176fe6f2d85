// Package mcu is the host-side client of the pin command firmware.
package mcu

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"lpcgo/host/serial"
	"lpcgo/protocol"
)

// IDs fixed before the dictionary is known.
const (
	identifyResponseID = 0
	identifyID         = 1
)

// identifyChunk is the dictionary bytes requested per identify; it keeps
// each identify_response inside one frame.
const identifyChunk = 40

var ErrNoDictionary = errors.New("mcu: dictionary not loaded")

// Event is an unsolicited pin interrupt report.
type Event struct {
	Port, Bit uint8
	High      bool
}

// MCU is a connection to one board.
type MCU struct {
	transport *protocol.HostTransport

	// Timeout bounds each wait for an ACK or a response.
	Timeout time.Duration

	dict atomic.Pointer[Dictionary]
	raw  []byte

	events   chan Event
	debug    atomic.Pointer[func(string)]
	shutdown atomic.Pointer[string]
}

// Open connects to the board on the serial device described by cfg.
func Open(cfg *serial.Config) (*MCU, error) {
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := port.Flush(); err != nil {
		port.Close()
		return nil, fmt.Errorf("flush %s: %w", cfg.Device, err)
	}
	return New(port), nil
}

// New runs the protocol over an already open link.
func New(port io.ReadWriteCloser) *MCU {
	m := &MCU{
		transport: protocol.NewHostTransport(port),
		Timeout:   time.Second,
		events:    make(chan Event, 64),
	}
	m.transport.SetResponseHandler(m.handleResponse)
	return m
}

// Close ends the session and closes the link.
func (m *MCU) Close() error {
	return m.transport.Close()
}

// Events delivers pin interrupt reports. Reports are dropped while the
// channel is full.
func (m *MCU) Events() <-chan Event {
	return m.events
}

// OnDebug installs a sink for the firmware's debug messages.
func (m *MCU) OnDebug(fn func(string)) {
	m.debug.Store(&fn)
}

// ShutdownReason returns the reason of the last shutdown report, if any.
func (m *MCU) ShutdownReason() (string, bool) {
	p := m.shutdown.Load()
	if p == nil {
		return "", false
	}
	return *p, true
}

// Dictionary returns the loaded dictionary or nil.
func (m *MCU) Dictionary() *Dictionary {
	return m.dict.Load()
}

// RawDictionary returns the dictionary JSON as retrieved.
func (m *MCU) RawDictionary() []byte {
	return m.raw
}

// Identify downloads and parses the dictionary.
func (m *MCU) Identify() (*Dictionary, error) {
	var buf bytes.Buffer
	for offset := uint32(0); ; {
		chunk, err := m.identifyChunk(offset)
		if err != nil {
			return nil, fmt.Errorf("identify at offset %d: %w", offset, err)
		}
		buf.Write(chunk)
		offset += uint32(len(chunk))
		if len(chunk) < identifyChunk {
			break
		}
	}
	d, err := ParseDictionary(buf.Bytes())
	if err != nil {
		return nil, err
	}
	m.raw = buf.Bytes()
	m.dict.Store(d)
	return d, nil
}

func (m *MCU) identifyChunk(offset uint32) ([]byte, error) {
	err := m.transport.SendCommandWithTimeout(identifyID, func(out protocol.OutputBuffer) {
		protocol.EncodeVLQUint(out, offset)
		protocol.EncodeVLQUint(out, identifyChunk)
	}, m.Timeout)
	if err != nil {
		return nil, err
	}
	deadline := time.Now().Add(m.Timeout)
	for {
		msg, err := m.transport.ReceiveResponse(time.Until(deadline))
		if err != nil {
			return nil, err
		}
		data := msg.Payload
		id, err := protocol.DecodeVLQUint(&data)
		if err != nil || id != identifyResponseID {
			continue
		}
		got, err := protocol.DecodeVLQUint(&data)
		if err != nil {
			return nil, err
		}
		if got != offset {
			continue
		}
		return protocol.DecodeVLQBytes(&data)
	}
}

// Send sends command name with integer arguments and waits for its ACK.
func (m *MCU) Send(name string, args ...uint32) error {
	d := m.dict.Load()
	if d == nil {
		return ErrNoDictionary
	}
	id, enc, err := d.Encode(name, args...)
	if err != nil {
		return err
	}
	if err := m.transport.SendCommandWithTimeout(id, enc, m.Timeout); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Await returns the first queued response accepted by match. Other
// responses are discarded.
func (m *MCU) Await(match func(Response) bool) (Response, error) {
	d := m.dict.Load()
	if d == nil {
		return Response{}, ErrNoDictionary
	}
	deadline := time.Now().Add(m.Timeout)
	for {
		msg, err := m.transport.ReceiveResponse(time.Until(deadline))
		if err != nil {
			return Response{}, err
		}
		r, err := d.Decode(msg.Payload)
		if err != nil {
			continue
		}
		if match(r) {
			return r, nil
		}
	}
}

// Call sends a command and waits for a response named reply.
func (m *MCU) Call(name, reply string, args ...uint32) (Response, error) {
	if err := m.Send(name, args...); err != nil {
		return Response{}, err
	}
	r, err := m.Await(func(r Response) bool { return r.Name == reply })
	if err != nil {
		return Response{}, fmt.Errorf("%s: waiting for %s: %w", name, reply, err)
	}
	return r, nil
}

// Reset asks the firmware to restart and starts a new session.
func (m *MCU) Reset() error {
	if err := m.Send("reset"); err != nil {
		return err
	}
	m.transport.Reset()
	return nil
}

// handleResponse runs on the read loop and peels off the unsolicited
// reports.
func (m *MCU) handleResponse(cmdID uint16, data *[]byte) error {
	d := m.dict.Load()
	if d == nil {
		return nil
	}
	payload := *data
	r, err := d.decodeArgs(cmdID, &payload)
	if err != nil {
		return err
	}
	switch r.Name {
	case "gpio_event":
		ev := Event{Port: uint8(r.Get("port")), Bit: uint8(r.Get("bit")), High: r.Get("value") != 0}
		select {
		case m.events <- ev:
		default:
		}
	case "debug_message":
		if fn := m.debug.Load(); fn != nil {
			(*fn)(string(r.Data["msg"]))
		}
	case "shutdown":
		reason := string(r.Data["reason"])
		m.shutdown.Store(&reason)
	}
	return nil
}

// Status is the firmware's answer to get_config.
type Status struct {
	IsConfig   bool
	CRC        uint32
	IsShutdown bool
}

func (m *MCU) Status() (Status, error) {
	r, err := m.Call("get_config", "config")
	if err != nil {
		return Status{}, err
	}
	return Status{
		IsConfig:   r.Get("is_config") != 0,
		CRC:        r.Get("crc"),
		IsShutdown: r.Get("is_shutdown") != 0,
	}, nil
}

// EmergencyStop shuts the firmware down and returns the reported reason.
func (m *MCU) EmergencyStop() (string, error) {
	r, err := m.Call("emergency_stop", "shutdown")
	if err != nil {
		return "", err
	}
	return string(r.Data["reason"]), nil
}
