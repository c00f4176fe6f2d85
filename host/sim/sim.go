// Package sim runs the firmware's command stack against the simulated
// EDU-CIAA chip model, so host tools can be exercised without a board.
// The firmware side is served by one goroutine, the way the real main
// loop owns the chip.
package sim

import (
	"bytes"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"lpcgo/console"
	"lpcgo/core"
	"lpcgo/lpc43xx"
	"lpcgo/lpc43xx/gpio"
	"lpcgo/lpc43xx/pinint"
)

// Board is a running simulated board. The firmware keeps its state in
// package globals, so only one Board can run at a time.
type Board struct {
	chip *lpc43xx.Chip
	con  *console.Service
	uart *pipeUART

	host, mcu net.Conn

	rx      chan []byte
	actions chan func()
	stop    chan struct{}
	done    chan struct{}

	closeOnce sync.Once
}

var (
	active   atomic.Pointer[Board]
	hookOnce sync.Once
)

// pipeUART presents the firmware end of the pipe as a drivers.UART.
// Received bytes are staged by the loop goroutine.
type pipeUART struct {
	rx   bytes.Buffer
	conn net.Conn
}

func (u *pipeUART) Read(p []byte) (int, error)  { return u.rx.Read(p) }
func (u *pipeUART) Buffered() int               { return u.rx.Len() }
func (u *pipeUART) Write(p []byte) (int, error) { return u.conn.Write(p) }

// New boots a simulated board. It panics if another Board is running.
func New() *Board {
	host, mcu := net.Pipe()
	b := &Board{
		chip:    lpc43xx.NewSimulated(gpio.EDUCIAA),
		uart:    &pipeUART{conn: mcu},
		host:    host,
		mcu:     mcu,
		rx:      make(chan []byte, 16),
		actions: make(chan func()),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	if !active.CompareAndSwap(nil, b) {
		panic("sim: a board is already running")
	}

	core.SetPinLookup(b.chip)
	hookOnce.Do(func() {
		core.RegisterShutdownHook(func() {
			if cur := active.Load(); cur != nil {
				cur.chip.Quiesce()
			}
		})
	})
	core.ResetFirmwareState()
	core.InitCoreCommands()
	core.InitGPIOCommands()
	core.RegisterConstant("MCU", "lpc4337-sim")
	core.RegisterConstant("BOARD", "edu-ciaa")
	core.RegisterConstant("PIN_INT_CHANNELS", uint32(pinint.NumChannels))
	core.RegisterConstant("GPIO_PINS", uint32(core.CountPins(b.chip)))
	core.GetGlobalDictionary().BuildDictionary()

	b.con = console.New(b.uart, core.DispatchCommand)
	b.con.Install()
	core.SetResetHandler(b.reset)

	go b.readLoop()
	go b.loop()
	return b
}

// Port returns the host end of the console link.
func (b *Board) Port() io.ReadWriteCloser {
	return b.host
}

// Drive applies an external level to GPIO<port>[bit], as a button or a
// wire on the header would.
func (b *Board) Drive(port, bit uint8, high bool) {
	b.Do(func(c *lpc43xx.Chip) {
		c.Drive(port, bit, high)
	})
}

// Do runs fn on the firmware goroutine and waits for it. Pending
// interrupts are serviced afterwards.
func (b *Board) Do(fn func(*lpc43xx.Chip)) {
	ran := make(chan struct{})
	select {
	case b.actions <- func() { fn(b.chip); close(ran) }:
		<-ran
	case <-b.stop:
	}
}

// Close stops the firmware goroutine and closes both ends of the link.
func (b *Board) Close() error {
	b.closeOnce.Do(func() {
		close(b.stop)
		b.host.Close()
		b.mcu.Close()
		<-b.done
		core.SetGlobalTransport(nil)
		active.Store(nil)
	})
	return nil
}

func (b *Board) readLoop() {
	buf := make([]byte, 256)
	for {
		n, err := b.mcu.Read(buf)
		if n > 0 {
			select {
			case b.rx <- append([]byte(nil), buf[:n]...):
			case <-b.stop:
				return
			}
		}
		if err != nil {
			return
		}
	}
}

func (b *Board) loop() {
	defer close(b.done)
	for {
		select {
		case data := <-b.rx:
			b.uart.rx.Write(data)
		case fn := <-b.actions:
			fn()
		case <-b.stop:
			return
		}
		b.service()
	}
}

// service is one pass of the firmware main loop.
func (b *Board) service() {
	defer func() {
		if r := recover(); r != nil {
			core.DumpEvents()
			if msg, ok := r.(string); ok {
				core.TryShutdown(msg)
			} else {
				core.TryShutdown("panic")
			}
			b.con.Flush()
		}
	}()
	for {
		b.chip.ServicePendingInterrupts()
		if !b.con.Poll() && !b.chip.HasPendingInterrupts() {
			break
		}
	}
	core.CheckPendingReset()
}

// reset replaces the chip with a freshly booted one.
func (b *Board) reset() {
	b.chip.Quiesce()
	b.chip = lpc43xx.NewSimulated(gpio.EDUCIAA)
	core.SetPinLookup(b.chip)
	core.ResetFirmwareState()
	b.con.Transport().Reset()
}
