package gpio

import (
	"strings"
	"testing"

	"lpcgo/cortexm"
	"lpcgo/lpc43xx/pinint"
	"lpcgo/lpc43xx/scu"
)

func expectPanic(t *testing.T, want string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic containing %q", want)
		}
		if msg, _ := r.(string); !strings.Contains(msg, want) {
			t.Fatalf("panic %q does not contain %q", msg, want)
		}
	}()
	fn()
}

func newPorts(table []Identity) (*Ports, *Registers, *scu.Registers) {
	regs := NewRegisters()
	sel := scu.NewRegisters()
	mgr := pinint.New(pinint.NewRegisters(), sel, cortexm.NewNVIC())
	return NewPorts(table, NewBank(regs), sel, mgr), regs, sel
}

func TestBoardTable(t *testing.T) {
	Validate(EDUCIAA)

	channels := 0
	for _, id := range EDUCIAA {
		if _, ok := id.Channel.Get(); ok {
			channels++
		}
	}
	if channels != 4 {
		t.Errorf("board assigns %d channels, want 4", channels)
	}

	ps, _, _ := newPorts(EDUCIAA)
	n := 0
	ps.Each(func(*Pin) { n++ })
	if n != len(EDUCIAA) {
		t.Errorf("Each visited %d pins, table has %d", n, len(EDUCIAA))
	}
	if got := ps.Pin(1, 9).Identity().Name(); got != "P1_6" {
		t.Errorf("GPIO1[9] is on %s, want P1_6", got)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name  string
		table []Identity
		want  string
	}{
		{
			name: "duplicate address",
			table: []Identity{
				{0, 0, scu.Func0, 0, 0, pinint.Unassigned},
				{0, 1, scu.Func0, 0, 0, pinint.Unassigned},
			},
			want: "GPIO0[0] listed twice",
		},
		{
			name: "duplicate channel",
			table: []Identity{
				{0, 0, scu.Func0, 0, 0, pinint.Assign(2)},
				{0, 1, scu.Func0, 0, 1, pinint.Assign(2)},
			},
			want: "channel 2 assigned twice",
		},
		{
			name:  "port out of range",
			table: []Identity{{0, 0, scu.Func0, 8, 0, pinint.Unassigned}},
			want:  "maps outside",
		},
		{
			name:  "bit out of range",
			table: []Identity{{0, 0, scu.Func0, 0, 31, pinint.Unassigned}},
			want:  "maps outside",
		},
		{
			name:  "no sfsp",
			table: []Identity{{16, 0, scu.Func0, 0, 0, pinint.Unassigned}},
			want:  "no SFSP register",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectPanic(t, tt.want, func() { Validate(tt.table) })
		})
	}
}

func TestPortLookup(t *testing.T) {
	ps, _, _ := newPorts(EDUCIAA)
	if _, ok := ps.Lookup(0, 16); ok {
		t.Error("GPIO0[16] should be empty")
	}
	if _, ok := ps.Lookup(8, 0); ok {
		t.Error("GPIO8 should not exist")
	}
	if _, ok := ps.Port(0).Lookup(-1); ok {
		t.Error("negative slot found")
	}
	p, ok := ps.Lookup(0, 4)
	if !ok || p.String() != "GPIO0[4]" {
		t.Fatalf("Lookup(0, 4) = %v, %v", p, ok)
	}
	expectPanic(t, "no pin at GPIO0[16]", func() { ps.Port(0).At(16) })
	expectPanic(t, "no port GPIO9", func() { ps.Port(9) })
}

func TestResolveReturnsListener(t *testing.T) {
	ps, _, _ := newPorts(EDUCIAA)
	l, ok := ps.Resolve(0, 8)
	if !ok {
		t.Fatal("Resolve(0, 8) failed")
	}
	if l.(*Pin) != ps.Pin(0, 8) {
		t.Error("Resolve returned a different pin")
	}
	if _, ok := ps.Resolve(0, 16); ok {
		t.Error("Resolve found an empty slot")
	}
}

func TestBankDirectionAndLevel(t *testing.T) {
	regs := NewRegisters()
	b := NewBank(regs)

	b.SetDirection(3, 5, true)
	b.SetDirection(3, 7, true)
	b.SetDirection(3, 5, false)
	if got := b.Direction(3); got != 1<<7 {
		t.Errorf("DIR3 = %#x, want %#x", got, 1<<7)
	}
	if b.IsOutput(3, 5) || !b.IsOutput(3, 7) {
		t.Error("IsOutput disagrees with DIR3")
	}

	b.Write(2, 1, true)
	if !b.Read(2, 1) || b.Read(2, 0) {
		t.Error("write to GPIO2[1] not isolated")
	}
	if b.Toggle(2, 1) {
		t.Error("Toggle from high returned high")
	}
	if !b.Toggle(2, 1) {
		t.Error("Toggle from low returned low")
	}
}

func TestBankPortWideAccess(t *testing.T) {
	regs := NewRegisters()
	b := NewBank(regs)
	for _, bit := range []uint8{0, 1, 2, 8} {
		b.SetDirection(5, bit, true)
	}
	b.Write(5, 4, true) // input held high from outside

	b.SetBits(5, 1<<0|1<<2|1<<4)
	if got := b.Port(5); got != 1<<0|1<<2|1<<4 {
		t.Fatalf("PIN5 after SET = %#x", got)
	}
	if regs.SET[5].Get() != 0 {
		t.Error("SET reads back nonzero")
	}
	b.ToggleBits(5, 1<<0|1<<1)
	b.ClearBits(5, 1<<2|1<<4)
	if got := b.Port(5); got != 1<<1|1<<4 {
		t.Fatalf("PIN5 after NOT/CLR = %#x, input bit 4 must not follow", got)
	}
	if !b.Read(5, 1) || b.Read(5, 0) {
		t.Error("byte view disagrees with PIN")
	}

	b.WritePort(5, 1<<8|1<<2)
	if got := b.Port(5); got != 1<<8|1<<2|1<<4 {
		t.Fatalf("PIN5 after WritePort = %#x", got)
	}
	if b.Port(6) != 0 {
		t.Error("write leaked into port 6")
	}
}

func TestBankMaskedAccess(t *testing.T) {
	regs := NewRegisters()
	b := NewBank(regs)
	for bit := uint8(0); bit < 4; bit++ {
		b.SetDirection(3, bit, true)
	}
	b.WritePort(3, 0b1010)

	b.SetMask(3, 0b0011)
	if got := b.MaskedPort(3); got != 0b1000 {
		t.Errorf("MPIN3 = %#b, want masked bits read as zero", got)
	}
	b.WriteMasked(3, 0b0101)
	if got := b.Port(3); got != 0b0110 {
		t.Errorf("PIN3 after MPIN write = %#b, want %#b", got, 0b0110)
	}

	b.SetMask(3, 0xF0)
	b.Update(3, 0b0001, 0b1111)
	if got := b.Port(3); got != 0b0111 {
		t.Errorf("PIN3 after Update = %#b, want only bit 0 changed", got)
	}
	if b.Mask(3) != 0xF0 {
		t.Errorf("MASK3 = %#x, not restored", b.Mask(3))
	}
}

func TestPinMuxEnable(t *testing.T) {
	ps, _, sel := newPorts(EDUCIAA)
	p := ps.Pin(5, 0)
	p.MakeInput()
	mux := sel.Mux(2, 0)
	if !mux.IsFunction(scu.Func4) {
		t.Errorf("P2_0 function = %v, want Func4", mux.Function())
	}
	if mux.Value()&(scu.EZI|scu.ZIF) != scu.EZI|scu.ZIF {
		t.Errorf("input buffer bits not set: %#x", mux.Value())
	}
	p.Deactivate()
	if mux.Value() != scu.EPUN {
		t.Errorf("deactivated mux = %#x, want %#x", mux.Value(), scu.EPUN)
	}
}

func TestClientReceivesDelivery(t *testing.T) {
	regs := pinint.NewRegisters()
	sel := scu.NewRegisters()
	mgr := pinint.New(regs, sel, cortexm.NewNVIC())
	ps := NewPorts(EDUCIAA, NewBank(NewRegisters()), sel, mgr)

	p := ps.Pin(0, 9)
	var fired int
	p.SetClient(clientFunc(func() {
		fired++
		if regs.IST.HasBits(1 << 2) {
			t.Error("status set while client runs")
		}
	}))
	regs.IST.SetBits(1 << 2)
	p.HandleInterrupt()
	if fired != 1 {
		t.Errorf("fired %d times, want 1", fired)
	}

	p.SetClient(nil)
	p.HandleInterrupt()
	if fired != 1 {
		t.Error("cleared client still notified")
	}
}

type clientFunc func()

func (f clientFunc) Fired() { f() }
