// Package console runs the host protocol over a byte-oriented UART. It is
// polled from the firmware main loop: no goroutines, no interrupts.
package console

import (
	"lpcgo/core"
	"lpcgo/protocol"

	"tinygo.org/x/drivers"
)

const (
	// InputSize holds a few maximum-size frames.
	InputSize = 4 * protocol.MessageLengthMax

	// maxWriteFailures is how many failed or stalled writes in a row mark
	// the link as dropped.
	maxWriteFailures = 10
)

// Service owns the receive buffer, the output scratch area and the
// transport for one UART.
type Service struct {
	uart      drivers.UART
	in        *protocol.StreamBuffer
	out       *protocol.ScratchOutput
	transport *protocol.Transport
	chunk     [32]byte

	writeFailures uint32
	disconnected  bool

	// Counters for diagnostics.
	Received    uint32
	Overruns    uint32
	ReadErrors  uint32
	Dropped     uint32
	Disconnects uint32
}

// New returns a service dispatching to handler. Pass core.DispatchCommand
// to serve the global command registry.
func New(uart drivers.UART, handler protocol.CommandHandler) *Service {
	s := &Service{
		uart: uart,
		in:   protocol.NewStreamBuffer(InputSize),
		out:  protocol.NewScratchOutput(),
	}
	s.transport = protocol.NewTransport(s.out, handler)
	s.transport.SetFlushCallback(s.Flush)
	s.transport.SetResetCallback(func() {
		s.in.Reset()
		core.ResetFirmwareState()
	})
	s.transport.SetErrorCallback(func(cmdID uint16, err error) {
		core.DebugPrintln("[CONSOLE] command " + core.Itoa(int(cmdID)) + ": " + err.Error())
	})
	return s
}

// Install makes s the responder for core.SendResponse and the sink for
// debug output.
func (s *Service) Install() {
	core.SetGlobalTransport(s.transport)
	core.SetDebugWriter(s.DebugWriter)
}

// Transport exposes the protocol transport, e.g. to count bad frames.
func (s *Service) Transport() *protocol.Transport {
	return s.transport
}

// Poll moves buffered UART bytes into the decoder, runs any complete
// commands and flushes their responses. It reports whether any byte was
// read.
func (s *Service) Poll() bool {
	read := false
	for s.uart.Buffered() > 0 {
		free := s.in.Free()
		if free == 0 {
			break
		}
		buf := s.chunk[:]
		if free < len(buf) {
			buf = buf[:free]
		}
		n, err := s.uart.Read(buf)
		if n > 0 {
			read = true
			s.Received += uint32(n)
			if s.disconnected {
				s.reconnect()
			}
			s.in.Write(buf[:n])
		}
		if err != nil {
			s.ReadErrors++
			break
		}
		if n == 0 {
			break
		}
	}

	if !s.in.IsEmpty() {
		s.transport.Receive(s.in)
		if s.in.Free() == 0 {
			// Full of bytes that never formed a frame.
			s.Overruns++
			s.in.Reset()
		}
	}
	s.Flush()
	return read
}

// Flush writes queued output to the UART. After repeated failed writes the
// link is treated as dropped and queued output is discarded.
func (s *Service) Flush() {
	result := s.out.Result()
	written := 0
	for written < len(result) {
		n, err := s.uart.Write(result[written:])
		if err != nil || n == 0 {
			s.writeFailures++
			if s.writeFailures >= maxWriteFailures {
				s.drop()
			}
			return
		}
		written += n
	}
	s.writeFailures = 0
	s.out.Reset()
}

// Pending returns the number of output bytes not yet written.
func (s *Service) Pending() int {
	return len(s.out.Result())
}

// DebugWriter ships msg to the host as a debug_message response. It has the
// shape of core.DebugWriter.
func (s *Service) DebugWriter(msg string) {
	if s.disconnected {
		return
	}
	if s.out.Free() < len(msg)+protocol.MessageLengthMin+2 {
		s.Flush()
	}
	core.SendResponse("debug_message", func(output protocol.OutputBuffer) {
		protocol.EncodeVLQString(output, msg)
	})
}

func (s *Service) drop() {
	s.Dropped += uint32(len(s.out.Result()))
	s.out.Reset()
	s.in.Reset()
	s.writeFailures = 0
	s.disconnected = true
	s.Disconnects++
}

// reconnect starts a fresh session once the host talks again.
func (s *Service) reconnect() {
	s.disconnected = false
	s.in.Reset()
	s.out.Reset()
	s.transport.Reset()
}
