package usart

import (
	"testing"

	"lpcgo/lpc43xx/scu"
)

func TestDivisors(t *testing.T) {
	cases := []struct {
		clock, baud uint32
		dl          uint16
		divAdd, mul uint8
	}{
		{12000000, 115200, 4, 5, 8},
		{12000000, 9600, 71, 1, 10},
		{204000000, 115200, 83, 1, 3},
		{12000000, 250000, 3, 0, 1},
	}
	for _, c := range cases {
		dl, divAdd, mul, ok := Divisors(c.clock, c.baud)
		if !ok || dl != c.dl || divAdd != c.divAdd || mul != c.mul {
			t.Errorf("Divisors(%d, %d) = %d %d/%d %v, want %d %d/%d",
				c.clock, c.baud, dl, divAdd, mul, ok, c.dl, c.divAdd, c.mul)
		}
	}
}

func TestDivisorsRejectUnreachable(t *testing.T) {
	if _, _, _, ok := Divisors(12000000, 0); ok {
		t.Errorf("baud 0 accepted")
	}
	if _, _, _, ok := Divisors(12000000, 1000000); ok {
		t.Errorf("baud above clock/16 accepted")
	}
}

func TestConfigure(t *testing.T) {
	regs := NewRegisters()
	pins := scu.NewRegisters()
	u := New(regs)
	if err := u.Configure(pins, EDUCIAAConsole); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if regs.DATA.Get() != 4 || regs.IER.Get() != 0 {
		t.Errorf("divisor latch = %d/%d, want 4/0", regs.DATA.Get(), regs.IER.Get())
	}
	if regs.LCR.Get() != LCR_WLS8 {
		t.Errorf("LCR = %#x, want 8N1 with DLAB clear", regs.LCR.Get())
	}
	if regs.FDR.Get() != 8<<4|5 {
		t.Errorf("FDR = %#x", regs.FDR.Get())
	}
	if !regs.FCR.HasBits(FCR_FIFOEN) {
		t.Errorf("FIFOs not enabled")
	}
	for _, p := range []Pin{EDUCIAAConsole.TX, EDUCIAAConsole.RX} {
		mux := pins.Mux(p.Port, p.Pin)
		if !mux.IsFunction(scu.Func6) || mux.Value()&scu.EZI == 0 {
			t.Errorf("P%d_%d mux = %#x", p.Port, p.Pin, mux.Value())
		}
	}
}

func TestConfigureBadBaud(t *testing.T) {
	cfg := EDUCIAAConsole
	cfg.BaudRate = 0
	if err := New(NewRegisters()).Configure(scu.NewRegisters(), cfg); err != ErrInvalidBaud {
		t.Fatalf("err = %v, want ErrInvalidBaud", err)
	}
}

func TestReadPolls(t *testing.T) {
	regs := NewRegisters()
	u := New(regs)
	buf := make([]byte, 4)
	if u.Buffered() != 0 {
		t.Fatalf("Buffered with RDR clear")
	}
	if n, err := u.Read(buf); n != 0 || err != nil {
		t.Fatalf("Read = %d, %v on empty receiver", n, err)
	}

	// The register file cannot pop a FIFO, so a single-byte read is used.
	regs.LSR.Set(LSR_RDR | LSR_FE)
	regs.DATA.Set('x')
	if u.Buffered() != 1 {
		t.Fatalf("Buffered = %d", u.Buffered())
	}
	if n, _ := u.Read(buf[:1]); n != 1 || buf[0] != 'x' {
		t.Fatalf("Read = %d %q", n, buf[:1])
	}
	if u.LineErrors != 1 {
		t.Errorf("LineErrors = %d", u.LineErrors)
	}
}

func TestWrite(t *testing.T) {
	regs := NewRegisters()
	u := New(regs)
	if n, err := u.Write([]byte("ab")); n != 0 || err != ErrTxTimeout {
		t.Fatalf("Write with THRE clear = %d, %v", n, err)
	}
	regs.LSR.Set(LSR_THRE)
	if n, err := u.Write([]byte("ab")); n != 2 || err != nil {
		t.Fatalf("Write = %d, %v", n, err)
	}
	if regs.DATA.Get() != 'b' {
		t.Errorf("THR = %q", regs.DATA.Get())
	}
}

func TestRxInterruptEnable(t *testing.T) {
	regs := NewRegisters()
	u := New(regs)
	u.EnableRxInterrupt()
	if regs.IER.Get() != IER_RBRIE {
		t.Fatalf("IER = %#x", regs.IER.Get())
	}
	u.DisableRxInterrupt()
	if regs.IER.Get() != 0 {
		t.Fatalf("IER = %#x after disable", regs.IER.Get())
	}
}
