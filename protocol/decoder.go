package protocol

import (
	"errors"
	"sync/atomic"
)

var (
	ErrBadFrame = errors.New("protocol: malformed frame")
	ErrBadCRC   = errors.New("protocol: frame CRC mismatch")
)

// ScanFrame decodes the frame at the start of data. It returns n == 0 and a
// nil error when data holds only part of a frame. The payload aliases data.
func ScanFrame(data []byte) (msg Message, n int, err error) {
	if len(data) < MessageLengthMin {
		return Message{}, 0, nil
	}
	msgLen := int(data[MessagePositionLen])
	if msgLen < MessageLengthMin || msgLen > MessageLengthMax {
		return Message{}, 0, ErrBadFrame
	}
	seq := data[MessagePositionSeq]
	if seq&^MessageSeqMask != MessageDest {
		return Message{}, 0, ErrBadFrame
	}
	if len(data) < msgLen {
		return Message{}, 0, nil
	}
	if data[msgLen-MessageTrailerSync] != MessageValueSync {
		return Message{}, 0, ErrBadFrame
	}
	crc := uint16(data[msgLen-MessageTrailerCRC])<<8 | uint16(data[msgLen-MessageTrailerCRC+1])
	if crc != CRC16(data[:msgLen-MessageTrailerSize]) {
		return Message{}, 0, ErrBadCRC
	}
	return Message{
		Length:   uint8(msgLen),
		Sequence: seq,
		Payload:  data[MessageHeaderSize : msgLen-MessageTrailerSize],
		CRC:      crc,
	}, msgLen, nil
}

// Decoder splits a byte stream into frames. After a bad frame it drops
// bytes up to and including the next sync byte before decoding again.
type Decoder struct {
	lost atomic.Bool

	// Errors counts bad frames seen since creation.
	Errors atomic.Uint32
}

// Synchronized reports whether the decoder is aligned on frame boundaries.
func (d *Decoder) Synchronized() bool {
	return !d.lost.Load()
}

// Desynchronize forces a resync, used when a frame decoded cleanly but
// its contents could not be processed.
func (d *Decoder) Desynchronize() {
	d.lost.Store(true)
}

// Reset returns the decoder to the synchronized state.
func (d *Decoder) Reset() {
	d.lost.Store(false)
}

// Decode calls frame for every complete frame in data and resynced each
// time alignment is recovered. It returns the number of bytes consumed;
// the rest is an incomplete frame to retry with more data.
func (d *Decoder) Decode(data []byte, frame func(Message), resynced func()) int {
	total := len(data)
	for len(data) > 0 {
		if d.lost.Load() {
			i := indexSync(data)
			if i < 0 {
				data = nil
				break
			}
			data = data[i+1:]
			d.lost.Store(false)
			if resynced != nil {
				resynced()
			}
			continue
		}
		if data[0] == MessageValueSync {
			data = data[1:]
			continue
		}
		msg, n, err := ScanFrame(data)
		if err != nil {
			d.Errors.Add(1)
			d.lost.Store(true)
			continue
		}
		if n == 0 {
			break
		}
		data = data[n:]
		frame(msg)
	}
	return total - len(data)
}

func indexSync(data []byte) int {
	for i, b := range data {
		if b == MessageValueSync {
			return i
		}
	}
	return -1
}

// AppendFrame appends a complete frame with sequence byte seq around
// payload.
func AppendFrame(dst []byte, seq uint8, payload []byte) ([]byte, error) {
	msgLen := MessageLengthMin + len(payload)
	if msgLen > MessageLengthMax {
		return dst, ErrBadFrame
	}
	start := len(dst)
	dst = append(dst, byte(msgLen), seq)
	dst = append(dst, payload...)
	return appendTrailer(dst, start), nil
}
