//go:build !tinygo

package volatile

// Register8 is an 8-bit register cell backed by ordinary memory.
type Register8 struct {
	Reg uint8
}

func (r *Register8) Get() uint8 { return r.Reg }

func (r *Register8) Set(v uint8) { r.Reg = v }

func (r *Register8) SetBits(v uint8) { r.Reg |= v }

func (r *Register8) ClearBits(v uint8) { r.Reg &^= v }

func (r *Register8) HasBits(v uint8) bool { return r.Reg&v > 0 }

// ReplaceBits replaces the bits selected by mask<<pos with value<<pos.
func (r *Register8) ReplaceBits(value, mask uint8, pos uint8) {
	r.Reg = r.Reg&^(mask<<pos) | value<<pos
}

// Register32 is a 32-bit register cell backed by ordinary memory.
type Register32 struct {
	Reg uint32
}

func (r *Register32) Get() uint32 { return r.Reg }

func (r *Register32) Set(v uint32) { r.Reg = v }

func (r *Register32) SetBits(v uint32) { r.Reg |= v }

func (r *Register32) ClearBits(v uint32) { r.Reg &^= v }

func (r *Register32) HasBits(v uint32) bool { return r.Reg&v > 0 }

// ReplaceBits replaces the bits selected by mask<<pos with value<<pos.
func (r *Register32) ReplaceBits(value, mask uint32, pos uint8) {
	r.Reg = r.Reg&^(mask<<pos) | value<<pos
}
