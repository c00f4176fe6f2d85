package protocol

import (
	"bytes"
	"testing"
)

func TestSliceInputBuffer(t *testing.T) {
	buf := NewSliceInputBuffer([]byte{1, 2, 3, 4, 5})
	buf.Pop(2)
	if buf.Available() != 3 || buf.Data()[0] != 3 {
		t.Errorf("after Pop(2): %v", buf.Data())
	}
	buf.Pop(10)
	if buf.Available() != 0 {
		t.Errorf("over-pop left %d bytes", buf.Available())
	}
}

func TestScratchOutput(t *testing.T) {
	s := NewScratchOutput()
	s.Output([]byte{1, 2, 3})
	s.Output([]byte{4, 5})
	if s.CurPosition() != 5 {
		t.Fatalf("position %d, want 5", s.CurPosition())
	}

	s.Update(0, 99)
	s.Update(7, 42)
	if !bytes.Equal(s.Result(), []byte{99, 2, 3, 4, 5}) {
		t.Errorf("result %v", s.Result())
	}
	if got := s.DataSince(2); !bytes.Equal(got, []byte{3, 4, 5}) {
		t.Errorf("DataSince(2) = %v", got)
	}
	if s.DataSince(6) != nil {
		t.Error("DataSince past end should be nil")
	}

	s.Reset()
	if s.CurPosition() != 0 || s.Free() != OutputMax {
		t.Error("Reset did not empty the buffer")
	}
}

func TestScratchOutputTruncates(t *testing.T) {
	s := NewScratchOutput()
	s.Output(make([]byte, OutputMax-1))
	s.Output([]byte{1, 2, 3})
	if s.CurPosition() != OutputMax {
		t.Errorf("position %d, want %d", s.CurPosition(), OutputMax)
	}
}

func TestStreamBuffer(t *testing.T) {
	b := NewStreamBuffer(8)
	if !b.IsEmpty() {
		t.Fatal("new buffer not empty")
	}
	if n := b.Write([]byte{1, 2, 3, 4, 5, 6}); n != 6 {
		t.Fatalf("wrote %d", n)
	}
	b.Pop(4)
	if !bytes.Equal(b.Data(), []byte{5, 6}) {
		t.Fatalf("data %v", b.Data())
	}

	// Needs compaction to fit.
	if n := b.Write([]byte{7, 8, 9, 10, 11}); n != 5 {
		t.Fatalf("wrote %d after compaction", n)
	}
	if !bytes.Equal(b.Data(), []byte{5, 6, 7, 8, 9, 10, 11}) {
		t.Errorf("data %v", b.Data())
	}
	if b.Free() != 1 {
		t.Errorf("free %d, want 1", b.Free())
	}
	if n := b.Write([]byte{12, 13}); n != 1 {
		t.Errorf("full buffer took %d bytes", n)
	}

	b.Pop(100)
	if !b.IsEmpty() || b.Free() != 8 {
		t.Error("over-pop did not reset")
	}
}
