// Package protocol implements the Klipper-style framed serial protocol used
// between the pin firmware and its host tools.
//
// A frame is
//
//	[len][0x10|seq][payload ...][crc hi][crc lo][0x7E]
//
// where len counts the whole frame and the CRC covers the header and
// payload. Payloads are sequences of VLQ-encoded command IDs followed by
// their arguments. A frame with an empty payload is an ACK (or NAK) that
// carries the next sequence number the sender expects.
package protocol

// Version is the protocol implementation version reported in the
// dictionary.
const Version = "0.2.0"

const (
	MessageHeaderSize  = 2
	MessageTrailerSize = 3
	MessageLengthMin   = MessageHeaderSize + MessageTrailerSize
	MessageLengthMax   = 64
	MessagePayloadMax  = MessageLengthMax - MessageLengthMin

	MessagePositionLen = 0
	MessagePositionSeq = 1
	MessageTrailerCRC  = 3
	MessageTrailerSync = 1

	MessageValueSync = 0x7E
	MessageDest      = 0x10
	MessageSeqMask   = 0x0F

	// OutputMax bounds the bytes a firmware transport queues between
	// flushes.
	OutputMax = 512
)

// Message is one decoded frame.
type Message struct {
	Length   uint8
	Sequence uint8
	Payload  []byte // between header and trailer
	CRC      uint16
}

// IsAck reports whether the frame carries no payload.
func (m Message) IsAck() bool {
	return len(m.Payload) == 0
}

// NextSequence returns the sequence byte that follows seq.
func NextSequence(seq uint8) uint8 {
	return ((seq + 1) & MessageSeqMask) | MessageDest
}
