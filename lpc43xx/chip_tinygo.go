//go:build tinygo

package lpc43xx

import (
	"runtime/interrupt"

	"lpcgo/cortexm"
	"lpcgo/lpc43xx/gpio"
	"lpcgo/lpc43xx/pinint"
	"lpcgo/lpc43xx/scu"
)

var chip *Chip

// Init builds the EDU-CIAA chip over the real peripherals and installs the
// generic handler on the pin interrupt vectors. Call it once, before any
// pin interrupt is armed.
func Init() *Chip {
	if chip != nil {
		return chip
	}
	chip = New(Hardware{
		GPIO:   gpio.Hardware(),
		SCU:    scu.Hardware(),
		PinInt: pinint.Hardware(),
		NVIC:   cortexm.NewNVIC(),
	}, gpio.EDUCIAA)

	// interrupt.New needs a constant number per call.
	interrupt.New(IRQ_PIN_INT0, func(interrupt.Interrupt) { chip.NVIC.Defer(IRQ_PIN_INT0) })
	interrupt.New(IRQ_PIN_INT1, func(interrupt.Interrupt) { chip.NVIC.Defer(IRQ_PIN_INT1) })
	interrupt.New(IRQ_PIN_INT2, func(interrupt.Interrupt) { chip.NVIC.Defer(IRQ_PIN_INT2) })
	interrupt.New(IRQ_PIN_INT3, func(interrupt.Interrupt) { chip.NVIC.Defer(IRQ_PIN_INT3) })
	interrupt.New(IRQ_PIN_INT4, func(interrupt.Interrupt) { chip.NVIC.Defer(IRQ_PIN_INT4) })
	interrupt.New(IRQ_PIN_INT5, func(interrupt.Interrupt) { chip.NVIC.Defer(IRQ_PIN_INT5) })
	interrupt.New(IRQ_PIN_INT6, func(interrupt.Interrupt) { chip.NVIC.Defer(IRQ_PIN_INT6) })
	interrupt.New(IRQ_PIN_INT7, func(interrupt.Interrupt) { chip.NVIC.Defer(IRQ_PIN_INT7) })
	return chip
}
