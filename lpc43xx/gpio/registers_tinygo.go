//go:build tinygo

package gpio

import "unsafe"

// Hardware returns the GPIO_PORT peripheral.
func Hardware() *Registers {
	return (*Registers)(unsafe.Pointer(uintptr(Base)))
}

// The silicon keeps B, PIN, MPIN and SET/CLR/NOT coherent by itself.

func (b *Bank) sample(port uint8) {}

func (b *Bank) latch(port uint8, update func(levels uint32) uint32) {}
