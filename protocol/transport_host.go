package protocol

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

// ErrClosed is returned by calls on a closed HostTransport.
var ErrClosed = errors.New("protocol: transport closed")

// ResponseHandler is called from the read loop for every response frame.
// data starts after the command ID.
type ResponseHandler func(cmdID uint16, data *[]byte) error

// HostTransport is the host side of the link: it sends one command frame at
// a time, waits for the matching ACK, and queues responses for the caller.
type HostTransport struct {
	port io.ReadWriteCloser
	dec  Decoder

	// mu serializes command frames; seq only changes under it.
	mu  sync.Mutex
	seq uint8

	in        *StreamBuffer
	acks      chan Message
	responses chan Message

	handlerMu sync.RWMutex
	handler   ResponseHandler

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewHostTransport starts reading from port in the background.
func NewHostTransport(port io.ReadWriteCloser) *HostTransport {
	t := &HostTransport{
		port:      port,
		seq:       MessageDest,
		in:        NewStreamBuffer(4 * MessageLengthMax),
		acks:      make(chan Message, 1),
		responses: make(chan Message, 32),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go t.readLoop()
	return t
}

// SendCommand sends one command and waits up to two seconds for its ACK.
func (t *HostTransport) SendCommand(cmdID uint16, args func(output OutputBuffer)) error {
	return t.SendCommandWithTimeout(cmdID, args, 2*time.Second)
}

// SendCommandWithTimeout sends one command and waits for its ACK. A NAK
// (an ACK for a different sequence) is reported as an error and the
// sequence is resynchronized to what the firmware expects.
func (t *HostTransport) SendCommandWithTimeout(cmdID uint16, args func(output OutputBuffer), timeout time.Duration) error {
	payload := NewScratchOutput()
	EncodeVLQUint(payload, uint32(cmdID))
	if args != nil {
		args(payload)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	frame, err := AppendFrame(nil, t.seq, payload.Result())
	if err != nil {
		return fmt.Errorf("command %d: %d byte payload exceeds %d: %w",
			cmdID, payload.CurPosition(), MessagePayloadMax, err)
	}
	t.drainAcks()
	if _, err := t.port.Write(frame); err != nil {
		return fmt.Errorf("write command %d: %w", cmdID, err)
	}

	want := NextSequence(t.seq)
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case ack := <-t.acks:
		if ack.Sequence != want {
			t.seq = ack.Sequence
			return fmt.Errorf("command %d: NAK, firmware expects sequence %#02x", cmdID, ack.Sequence)
		}
		t.seq = want
		return nil
	case <-timer.C:
		return fmt.Errorf("command %d: no ACK after %v", cmdID, timeout)
	case <-t.stop:
		return ErrClosed
	}
}

func (t *HostTransport) drainAcks() {
	for {
		select {
		case <-t.acks:
		default:
			return
		}
	}
}

// ReceiveResponse returns the next queued response frame.
func (t *HostTransport) ReceiveResponse(timeout time.Duration) (Message, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case msg := <-t.responses:
		return msg, nil
	case <-timer.C:
		return Message{}, fmt.Errorf("no response after %v", timeout)
	case <-t.stop:
		return Message{}, ErrClosed
	}
}

// SetResponseHandler installs a callback run for every response before it
// is queued.
func (t *HostTransport) SetResponseHandler(handler ResponseHandler) {
	t.handlerMu.Lock()
	t.handler = handler
	t.handlerMu.Unlock()
}

func (t *HostTransport) readLoop() {
	defer close(t.done)
	buf := make([]byte, 256)
	for {
		n, err := t.port.Read(buf)
		if n > 0 {
			t.feed(buf[:n])
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			select {
			case <-t.stop:
				return
			case <-time.After(10 * time.Millisecond):
			}
		}
		select {
		case <-t.stop:
			return
		default:
		}
	}
}

func (t *HostTransport) feed(data []byte) {
	for len(data) > 0 {
		n := t.in.Write(data)
		data = data[n:]
		used := t.dec.Decode(t.in.Data(), t.dispatch, nil)
		t.in.Pop(used)
		if n == 0 && used == 0 {
			// A full buffer without a frame in it is garbage.
			t.in.Reset()
			t.dec.Desynchronize()
		}
	}
}

func (t *HostTransport) dispatch(msg Message) {
	// Payload aliases the stream buffer.
	msg.Payload = append([]byte(nil), msg.Payload...)
	if msg.IsAck() {
		select {
		case t.acks <- msg:
		default:
		}
		return
	}

	t.handlerMu.RLock()
	h := t.handler
	t.handlerMu.RUnlock()
	if h != nil {
		data := msg.Payload
		if cmdID, err := DecodeVLQUint(&data); err == nil {
			_ = h(uint16(cmdID), &data)
		}
	}

	for {
		select {
		case t.responses <- msg:
			return
		default:
		}
		// Drop the oldest response rather than stall the reader.
		select {
		case <-t.responses:
		default:
		}
	}
}

// Close stops the read loop and closes the port.
func (t *HostTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.stop)
		err = t.port.Close()
		<-t.done
	})
	return err
}

// Reset restarts the sequence and discards queued frames.
func (t *HostTransport) Reset() {
	t.mu.Lock()
	t.seq = MessageDest
	t.mu.Unlock()
	t.dec.Reset()
	t.drainAcks()
	for {
		select {
		case <-t.responses:
		default:
			return
		}
	}
}

// Sequence returns the sequence byte of the next command.
func (t *HostTransport) Sequence() uint8 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.seq
}

// BadFrames returns the number of frames dropped for framing or CRC
// errors.
func (t *HostTransport) BadFrames() uint32 {
	return t.dec.Errors.Load()
}
