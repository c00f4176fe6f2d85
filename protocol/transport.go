package protocol

import "sync/atomic"

// CommandHandler decodes and runs one command. It consumes its own
// arguments from data.
type CommandHandler func(cmdID uint16, data *[]byte) error

// Transport is the firmware side of the link. It acknowledges every frame
// from the host, dispatches in-sequence frames to the handler and encodes
// responses into an output buffer the main loop flushes.
type Transport struct {
	dec Decoder

	// nextSequence is the sequence byte expected from the host. ACKs and
	// responses carry the same value.
	nextSequence atomic.Uint32

	output        OutputBuffer
	handler       CommandHandler
	errorCallback func(cmdID uint16, err error)
	resetCallback func()
	flushCallback func()
}

// NewTransport returns a synchronized transport expecting sequence 0x10.
func NewTransport(output OutputBuffer, handler CommandHandler) *Transport {
	t := &Transport{output: output, handler: handler}
	t.nextSequence.Store(MessageDest)
	return t
}

// Receive decodes whatever complete frames input holds and pops them.
func (t *Transport) Receive(input InputBuffer) {
	n := t.dec.Decode(input.Data(), t.receiveFrame, t.encodeAckNak)
	if n > 0 {
		input.Pop(n)
	}
}

func (t *Transport) receiveFrame(msg Message) {
	expected := uint8(t.nextSequence.Load())
	if msg.Sequence == MessageDest && expected != MessageDest {
		// The host restarted its sequence: treat it as a new session.
		t.nextSequence.Store(MessageDest)
		expected = MessageDest
		if t.resetCallback != nil {
			t.resetCallback()
		}
	}
	if msg.Sequence == expected {
		t.nextSequence.Store(uint32(NextSequence(msg.Sequence)))
		t.parseFrame(msg.Payload)
	}
	// An out-of-sequence frame is answered with the expected sequence,
	// which the host reads as a NAK.
	t.encodeAckNak()
}

// parseFrame runs every command in a payload. A malformed command ID or a
// panicking handler desynchronizes the link; a handler error is reported
// and the rest of the frame is dropped.
func (t *Transport) parseFrame(frame []byte) {
	defer func() {
		if r := recover(); r != nil {
			t.dec.Desynchronize()
		}
	}()
	for len(frame) > 0 {
		cmdID, err := DecodeVLQUint(&frame)
		if err != nil {
			t.dec.Desynchronize()
			return
		}
		if t.handler == nil {
			return
		}
		if err := t.handler(uint16(cmdID), &frame); err != nil {
			if t.errorCallback != nil {
				t.errorCallback(uint16(cmdID), err)
			}
			return
		}
	}
}

// encodeAckNak queues an empty frame carrying the expected sequence and
// flushes it at once: the host waits for the ACK before it reads
// responses.
func (t *Transport) encodeAckNak() {
	var buf [MessageLengthMin]byte
	frame, _ := AppendFrame(buf[:0], uint8(t.nextSequence.Load()), nil)
	t.output.Output(frame)
	if t.flushCallback != nil {
		t.flushCallback()
	}
}

// EncodeFrame queues one frame whose payload is written by frameData.
func (t *Transport) EncodeFrame(frameData func(output OutputBuffer)) {
	cursor := t.output.CurPosition()
	t.output.Output([]byte{0, uint8(t.nextSequence.Load())})
	frameData(t.output)
	t.output.Update(cursor, uint8(len(t.output.DataSince(cursor))+MessageTrailerSize))
	crc := CRC16(t.output.DataSince(cursor))
	t.output.Output([]byte{byte(crc >> 8), byte(crc), MessageValueSync})
}

// SendCommand queues a frame holding one command or response.
func (t *Transport) SendCommand(cmdID uint16, args func(output OutputBuffer)) {
	t.EncodeFrame(func(output OutputBuffer) {
		EncodeVLQUint(output, uint32(cmdID))
		if args != nil {
			args(output)
		}
	})
}

// Reset drops the session state, e.g. after the host reopens the port.
func (t *Transport) Reset() {
	t.dec.Reset()
	t.nextSequence.Store(MessageDest)
	if t.resetCallback != nil {
		t.resetCallback()
	}
}

// BadFrames returns the number of frames dropped for framing or CRC
// errors.
func (t *Transport) BadFrames() uint32 {
	return t.dec.Errors.Load()
}

// SetResetCallback installs a hook run when the host starts a new session.
func (t *Transport) SetResetCallback(callback func()) {
	t.resetCallback = callback
}

// SetFlushCallback installs a hook that pushes queued output to the wire.
func (t *Transport) SetFlushCallback(callback func()) {
	t.flushCallback = callback
}

// SetErrorCallback installs a hook for handler errors.
func (t *Transport) SetErrorCallback(callback func(cmdID uint16, err error)) {
	t.errorCallback = callback
}
