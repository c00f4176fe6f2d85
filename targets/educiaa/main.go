//go:build tinygo

// Firmware for the EDU-CIAA board: serves pin commands over the USB debug
// UART.
package main

import (
	"device/arm"
	"runtime/interrupt"

	"lpcgo/console"
	"lpcgo/core"
	"lpcgo/lpc43xx"
	"lpcgo/lpc43xx/pinint"
	"lpcgo/lpc43xx/usart"
)

var chip *lpc43xx.Chip

// consoleWake routes the USART2 line. The interrupt only wakes the core;
// the main loop drains the receiver, which drops the line again.
type consoleWake struct{}

func (consoleWake) Handle(irq uint32)       {}
func (consoleWake) IsArmed(irq uint32) bool { return true }

func main() {
	chip = lpc43xx.Init()
	core.SetPinLookup(chip)
	core.RegisterShutdownHook(chip.Quiesce)

	core.InitCoreCommands()
	core.InitGPIOCommands()

	core.RegisterConstant("MCU", "lpc4337")
	core.RegisterConstant("BOARD", "edu-ciaa")
	core.RegisterConstant("PIN_INT_CHANNELS", uint32(pinint.NumChannels))
	core.RegisterConstant("GPIO_PINS", uint32(core.CountPins(chip)))
	core.GetGlobalDictionary().BuildDictionary()

	uart := usart.New(usart.USART2())
	if err := uart.Configure(chip.SCU, usart.EDUCIAAConsole); err != nil {
		// Nothing to report over.
		for {
			arm.Asm("wfi")
		}
	}
	con := console.New(uart, core.DispatchCommand)
	con.Install()

	chip.Route(lpc43xx.IRQ_USART2, consoleWake{})
	interrupt.New(lpc43xx.IRQ_USART2, func(interrupt.Interrupt) { chip.NVIC.Defer(lpc43xx.IRQ_USART2) })
	uart.EnableRxInterrupt()
	chip.NVIC.Enable(lpc43xx.IRQ_USART2)

	core.SetResetHandler(func() {
		// Let the ACK reach the host first.
		con.Flush()
		arm.SystemReset()
	})

	for {
		run(con)
	}
}

// run is one pass of the main loop. A panic from a command handler or a
// pin client shuts the firmware down and is reported to the host; the loop
// keeps serving the console.
func run(con *console.Service) {
	defer func() {
		if r := recover(); r != nil {
			core.DumpEvents()
			if msg, ok := r.(string); ok {
				core.TryShutdown(msg)
			} else {
				core.TryShutdown("panic")
			}
			con.Flush()
		}
	}()

	chip.ServicePendingInterrupts()
	busy := con.Poll()
	core.CheckPendingReset()

	if busy {
		return
	}
	// Checked with interrupts masked: an interrupt taken between the check
	// and WFI would otherwise not wake the core. WFI still returns on a
	// masked pending line.
	chip.Atomic(func() {
		if !chip.HasPendingInterrupts() {
			chip.Sleep()
		}
	})
}
