//go:build tinygo

package cortexm

import (
	"unsafe"

	"lpcgo/internal/volatile"
)

const nvicBase = 0xE000E100

type nvicRegs struct {
	ISER [16]volatile.Register32 // 0x000
	_    [16]uint32
	ICER [16]volatile.Register32 // 0x080
	_    [16]uint32
	ISPR [16]volatile.Register32 // 0x100
	_    [16]uint32
	ICPR [16]volatile.Register32 // 0x180
}

type nvicHW struct {
	regs *nvicRegs
}

// NewNVIC returns the controller backed by the system control space.
func NewNVIC() *NVIC {
	return &NVIC{hw: nvicHW{regs: (*nvicRegs)(unsafe.Pointer(uintptr(nvicBase)))}}
}

// The set/clear registers ignore zero bits, so plain stores are safe.

func (n *NVIC) enable(irq uint32) {
	w, b := split(irq)
	n.hw.regs.ISER[w].Set(b)
}

func (n *NVIC) disable(irq uint32) {
	w, b := split(irq)
	n.hw.regs.ICER[w].Set(b)
}

func (n *NVIC) setPending(irq uint32) {
	w, b := split(irq)
	n.hw.regs.ISPR[w].Set(b)
}

func (n *NVIC) clearPending(irq uint32) {
	w, b := split(irq)
	n.hw.regs.ICPR[w].Set(b)
}

func (n *NVIC) isEnabled(irq uint32) bool {
	w, b := split(irq)
	return n.hw.regs.ISER[w].Get()&b != 0
}

func (n *NVIC) isPending(irq uint32) bool {
	w, b := split(irq)
	return n.hw.regs.ISPR[w].Get()&b != 0
}
