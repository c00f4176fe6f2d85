// Package usart is a polled driver for the LPC43xx USART blocks. It covers
// what a protocol console needs: baud setup, 8N1 framing, FIFOs and
// byte-at-a-time transfer. It satisfies drivers.UART.
package usart

import (
	"errors"

	"lpcgo/internal/volatile"
	"lpcgo/lpc43xx/scu"
)

// Peripheral base addresses.
const (
	USART0Base = 0x40081000
	UART1Base  = 0x40082000
	USART2Base = 0x400C1000
	USART3Base = 0x400C2000
)

// IRCFrequency is the reset clock of every USART base clock.
const IRCFrequency = 12000000

// Registers is a USART block. DATA is RBR on read, THR on write and DLL
// while LCR.DLAB is set; IER doubles as DLM the same way.
type Registers struct {
	DATA volatile.Register32 // 0x00
	IER  volatile.Register32 // 0x04
	FCR  volatile.Register32 // 0x08, IIR on read
	LCR  volatile.Register32 // 0x0C
	_    [4]byte
	LSR  volatile.Register32 // 0x14
	_    [4]byte
	SCR  volatile.Register32 // 0x1C
	ACR  volatile.Register32 // 0x20
	ICR  volatile.Register32 // 0x24
	FDR  volatile.Register32 // 0x28
}

// NewRegisters allocates a detached register file for tests.
func NewRegisters() *Registers {
	return new(Registers)
}

// LCR bits
const (
	LCR_WLS8 = 0x3 << 0
	LCR_DLAB = 1 << 7
)

// IER bits
const (
	IER_RBRIE = 1 << 0
)

// FCR bits
const (
	FCR_FIFOEN   = 1 << 0
	FCR_RXFIFORS = 1 << 1
	FCR_TXFIFORS = 1 << 2
)

// LSR bits
const (
	LSR_RDR  = 1 << 0
	LSR_OE   = 1 << 1
	LSR_PE   = 1 << 2
	LSR_FE   = 1 << 3
	LSR_BI   = 1 << 4
	LSR_THRE = 1 << 5

	lsrErrors = LSR_OE | LSR_PE | LSR_FE | LSR_BI
)

// txSpin bounds the wait for room in the transmit holding register.
const txSpin = 100000

var (
	ErrTxTimeout   = errors.New("usart: transmitter stalled")
	ErrInvalidBaud = errors.New("usart: baud rate not reachable")
)

// Pin names a silicon pin and the SCU function that routes the USART to it.
type Pin struct {
	Port, Pin uint8
	Function  scu.Function
}

// Config selects the line speed and pins. A zero Clock means the 12 MHz
// IRC the base clock runs from after reset.
type Config struct {
	BaudRate uint32
	Clock    uint32
	TX, RX   Pin
}

// EDUCIAAConsole is USART2 on P7_1/P7_2, bridged to USB by the on-board
// FTDI.
var EDUCIAAConsole = Config{
	BaudRate: 115200,
	TX:       Pin{Port: 7, Pin: 1, Function: scu.Func6},
	RX:       Pin{Port: 7, Pin: 2, Function: scu.Func6},
}

// UART is one configured USART.
type UART struct {
	regs *Registers

	// LineErrors counts received bytes flagged with overrun, parity,
	// framing or break.
	LineErrors uint32
}

// New wraps a register block. Call Configure before use.
func New(regs *Registers) *UART {
	return &UART{regs: regs}
}

// Configure muxes the pins, programs the divisors and enables the FIFOs.
func (u *UART) Configure(pins *scu.Registers, cfg Config) error {
	clock := cfg.Clock
	if clock == 0 {
		clock = IRCFrequency
	}
	dl, divAdd, mul, ok := Divisors(clock, cfg.BaudRate)
	if !ok {
		return ErrInvalidBaud
	}

	pins.Mux(cfg.TX.Port, cfg.TX.Pin).Enable(cfg.TX.Function)
	pins.Mux(cfg.RX.Port, cfg.RX.Pin).Enable(cfg.RX.Function)

	u.regs.LCR.Set(LCR_DLAB)
	u.regs.DATA.Set(uint32(dl & 0xFF))
	u.regs.IER.Set(uint32(dl >> 8))
	u.regs.LCR.Set(LCR_WLS8)
	u.regs.FDR.Set(uint32(mul)<<4 | uint32(divAdd))
	u.regs.FCR.Set(FCR_FIFOEN | FCR_RXFIFORS | FCR_TXFIFORS)
	return nil
}

// Divisors finds the divisor latch and fractional divider that give the
// closest rate to baud:
//
//	baud = clock / (16 * dl * (1 + divAdd/mul))
func Divisors(clock, baud uint32) (dl uint16, divAdd, mul uint8, ok bool) {
	if baud == 0 || clock < 16*baud {
		return 0, 0, 0, false
	}
	bestErr := uint64(baud)
	for m := uint64(1); m <= 15; m++ {
		for d := uint64(0); d < m; d++ {
			den := 16 * uint64(baud) * (m + d)
			latch := (uint64(clock)*m + den/2) / den
			if latch == 0 || latch > 0xFFFF || (d > 0 && latch < 3) {
				continue
			}
			actual := uint64(clock) * m / (16 * latch * (m + d))
			diff := actual - uint64(baud)
			if actual < uint64(baud) {
				diff = uint64(baud) - actual
			}
			if diff < bestErr {
				bestErr = diff
				dl, divAdd, mul, ok = uint16(latch), uint8(d), uint8(m), true
			}
		}
	}
	return dl, divAdd, mul, ok
}

// EnableRxInterrupt asserts the USART line while received data is waiting.
// The line deasserts once the receiver is drained.
func (u *UART) EnableRxInterrupt() {
	u.regs.IER.SetBits(IER_RBRIE)
}

func (u *UART) DisableRxInterrupt() {
	u.regs.IER.ClearBits(IER_RBRIE)
}

// Buffered reports whether a received byte is waiting. The hardware FIFO
// depth is not visible, so the count is at most one.
func (u *UART) Buffered() int {
	if u.regs.LSR.HasBits(LSR_RDR) {
		return 1
	}
	return 0
}

// Read drains received bytes without blocking.
func (u *UART) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		lsr := u.regs.LSR.Get()
		if lsr&LSR_RDR == 0 {
			break
		}
		if lsr&lsrErrors != 0 {
			u.LineErrors++
		}
		p[n] = byte(u.regs.DATA.Get())
		n++
	}
	return n, nil
}

// Write sends p, spinning on the transmit holding register.
func (u *UART) Write(p []byte) (int, error) {
	for i, b := range p {
		if err := u.WriteByte(b); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

func (u *UART) WriteByte(b byte) error {
	for i := 0; !u.regs.LSR.HasBits(LSR_THRE); i++ {
		if i == txSpin {
			return ErrTxTimeout
		}
	}
	u.regs.DATA.Set(uint32(b))
	return nil
}
