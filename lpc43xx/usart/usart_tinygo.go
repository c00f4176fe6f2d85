//go:build tinygo

package usart

import "unsafe"

// USART2 returns the USART2 register block.
func USART2() *Registers {
	return (*Registers)(unsafe.Pointer(uintptr(USART2Base)))
}
