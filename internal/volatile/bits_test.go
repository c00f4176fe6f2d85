package volatile

import "testing"

func TestMaskAndField(t *testing.T) {
	tests := []struct {
		shift, width uint8
		mask         uint32
	}{
		{0, 3, 0x7},
		{3, 1, 0x8},
		{8, 2, 0x300},
		{5, 3, 0xE0},
	}
	for _, tt := range tests {
		if got := Mask[uint32](tt.shift, tt.width); got != tt.mask {
			t.Errorf("Mask(%d, %d) = %#x, want %#x", tt.shift, tt.width, got, tt.mask)
		}
	}

	v := uint32(0xA5)
	if got := Field(v, 5, 3); got != 5 {
		t.Errorf("Field(0xA5, 5, 3) = %d, want 5", got)
	}
	if got := WithField(v, 0, 5, 0x1F); got != 0xBF {
		t.Errorf("WithField(0xA5, 0, 5, 0x1F) = %#x, want 0xBF", got)
	}
	if got := WithField[uint8](0xFF, 3, 1, 0); got != 0xF7 {
		t.Errorf("WithField(0xFF, 3, 1, 0) = %#x, want 0xF7", got)
	}
}

func TestRegister32(t *testing.T) {
	var r Register32
	r.SetBits(Bit[uint32](4) | Bit[uint32](6))
	if !r.HasBits(Bit[uint32](4)) {
		t.Fatal("bit 4 not set")
	}
	r.ClearBits(Bit[uint32](4))
	if r.Get() != 0x40 {
		t.Errorf("Get() = %#x, want 0x40", r.Get())
	}
	r.ReplaceBits(0x3, 0x7, 0)
	if r.Get() != 0x43 {
		t.Errorf("after ReplaceBits Get() = %#x, want 0x43", r.Get())
	}
}
