//go:build tinygo

package pinint

import "unsafe"

// Hardware returns the GPIO_PIN_INT peripheral.
func Hardware() *Registers {
	return (*Registers)(unsafe.Pointer(uintptr(Base)))
}

// The enable registers have set and clear aliases; IST is write-one-to-clear
// and, in edge mode, clears RISE and FALL along with it.

func enableRising(r *Registers, mask uint32)   { r.SIENR.Set(mask) }
func disableRising(r *Registers, mask uint32)  { r.CIENR.Set(mask) }
func enableFalling(r *Registers, mask uint32)  { r.SIENF.Set(mask) }
func disableFalling(r *Registers, mask uint32) { r.CIENF.Set(mask) }
func clearStatus(r *Registers, mask uint32)    { r.IST.Set(mask) }

func (m *Manager) attach() {}
