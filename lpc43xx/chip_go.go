//go:build !tinygo

package lpc43xx

import (
	"lpcgo/cortexm"
	"lpcgo/lpc43xx/gpio"
	"lpcgo/lpc43xx/pinint"
	"lpcgo/lpc43xx/scu"
)

// NewSimulated builds a chip over in-memory register files.
func NewSimulated(table []gpio.Identity) *Chip {
	return New(Hardware{
		GPIO:   gpio.NewRegisters(),
		SCU:    scu.NewRegisters(),
		PinInt: pinint.NewRegisters(),
		NVIC:   cortexm.NewNVIC(),
	}, table)
}

// Drive applies an external level to GPIO<port>[bit] and runs the pin
// interrupt edge detectors for the change.
func (c *Chip) Drive(port, bit uint8, high bool) {
	prev := c.Bank.Read(port, bit)
	c.Bank.Write(port, bit, high)
	c.PinInt.SimulateLevel(port, bit, prev, high)
}
