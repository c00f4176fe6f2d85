//go:build tinygo

package scu

import "unsafe"

// Hardware returns the SCU peripheral.
func Hardware() *Registers {
	return (*Registers)(unsafe.Pointer(uintptr(Base)))
}
