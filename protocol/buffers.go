package protocol

// InputBuffer is a byte stream the transport consumes from the front.
type InputBuffer interface {
	Data() []byte
	Available() int
	Pop(n int)
}

// OutputBuffer is an append-only byte sink that allows patching bytes
// already written, which frame encoding needs for the length field.
type OutputBuffer interface {
	Output(data []byte)
	CurPosition() int
	Update(pos int, val byte)
	DataSince(pos int) []byte
}

// SliceInputBuffer is an InputBuffer over a fixed slice.
type SliceInputBuffer struct {
	data []byte
}

func NewSliceInputBuffer(data []byte) *SliceInputBuffer {
	return &SliceInputBuffer{data: data}
}

func (s *SliceInputBuffer) Data() []byte   { return s.data }
func (s *SliceInputBuffer) Available() int { return len(s.data) }

func (s *SliceInputBuffer) Pop(n int) {
	if n > len(s.data) {
		n = len(s.data)
	}
	s.data = s.data[n:]
}

// ScratchOutput is an OutputBuffer backed by a fixed array. Writes past the
// end are truncated.
type ScratchOutput struct {
	buf [OutputMax]byte
	pos int
}

func NewScratchOutput() *ScratchOutput {
	return &ScratchOutput{}
}

func (s *ScratchOutput) Output(data []byte) {
	s.pos += copy(s.buf[s.pos:], data)
}

func (s *ScratchOutput) CurPosition() int { return s.pos }

func (s *ScratchOutput) Update(pos int, val byte) {
	if pos < s.pos {
		s.buf[pos] = val
	}
}

func (s *ScratchOutput) DataSince(pos int) []byte {
	if pos > s.pos {
		return nil
	}
	return s.buf[pos:s.pos]
}

// Result returns everything written since the last Reset.
func (s *ScratchOutput) Result() []byte { return s.buf[:s.pos] }

func (s *ScratchOutput) Reset() { s.pos = 0 }

// Free returns the space left before output is truncated.
func (s *ScratchOutput) Free() int { return len(s.buf) - s.pos }

// StreamBuffer collects received bytes until whole frames can be decoded.
// Unread bytes are kept contiguous: when the tail runs out of room they are
// moved to the front, so Data never copies.
type StreamBuffer struct {
	buf        []byte
	start, end int
}

// NewStreamBuffer returns a buffer holding at most capacity unread bytes.
func NewStreamBuffer(capacity int) *StreamBuffer {
	return &StreamBuffer{buf: make([]byte, capacity)}
}

// Write appends as much of data as fits and returns the count taken.
func (b *StreamBuffer) Write(data []byte) int {
	if len(b.buf)-b.end < len(data) && b.start > 0 {
		b.end = copy(b.buf, b.buf[b.start:b.end])
		b.start = 0
	}
	n := copy(b.buf[b.end:], data)
	b.end += n
	return n
}

// Data returns the unread bytes. The slice is valid until the next Write.
func (b *StreamBuffer) Data() []byte { return b.buf[b.start:b.end] }

func (b *StreamBuffer) Available() int { return b.end - b.start }

// Free returns how many bytes the next Write can take.
func (b *StreamBuffer) Free() int { return len(b.buf) - b.Available() }

// Pop discards n unread bytes.
func (b *StreamBuffer) Pop(n int) {
	if n >= b.Available() {
		b.Reset()
		return
	}
	b.start += n
}

func (b *StreamBuffer) IsEmpty() bool { return b.start == b.end }

func (b *StreamBuffer) Reset() {
	b.start, b.end = 0, 0
}
