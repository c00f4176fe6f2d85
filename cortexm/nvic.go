// Package cortexm drives the ARMv7-M nested vectored interrupt controller
// and the deferred-service model layered on top of it.
//
// Interrupt handlers never run driver code. The generic handler masks its
// line and marks it deferred; the main loop later picks the line up with
// NextPending, dispatches it, and calls Complete. The pending flag stays
// set until then, so the line cannot re-enter while it is being serviced.
package cortexm

import "sync/atomic"

// MaxIRQ bounds the interrupt numbers tracked by the controller.
const MaxIRQ = 64

const words = MaxIRQ / 32

// NVIC is the interrupt controller plus the deferred-line bitmap.
type NVIC struct {
	hw       nvicHW
	deferred [words]atomic.Uint32
}

func split(irq uint32) (int, uint32) {
	if irq >= MaxIRQ {
		panic("cortexm: interrupt number out of range")
	}
	return int(irq >> 5), 1 << (irq & 0x1F)
}

// Enable unmasks irq at the controller.
func (n *NVIC) Enable(irq uint32) { n.enable(irq) }

// Disable masks irq at the controller.
func (n *NVIC) Disable(irq uint32) { n.disable(irq) }

// SetPending forces irq pending.
func (n *NVIC) SetPending(irq uint32) { n.setPending(irq) }

// ClearPending drops a pending request for irq.
func (n *NVIC) ClearPending(irq uint32) { n.clearPending(irq) }

func (n *NVIC) IsEnabled(irq uint32) bool { return n.isEnabled(irq) }

func (n *NVIC) IsPending(irq uint32) bool { return n.isPending(irq) }

// Defer is the body of the generic interrupt handler. It masks irq and
// queues it for the main loop, leaving its pending flag set.
func (n *NVIC) Defer(irq uint32) {
	w, b := split(irq)
	n.disable(irq)
	for {
		old := n.deferred[w].Load()
		if n.deferred[w].CompareAndSwap(old, old|b) {
			return
		}
	}
}

// IsDeferred reports whether irq is waiting for the main loop.
func (n *NVIC) IsDeferred(irq uint32) bool {
	w, b := split(irq)
	return n.deferred[w].Load()&b != 0
}

// NextPending returns the lowest-numbered deferred interrupt.
func (n *NVIC) NextPending() (uint32, bool) {
	for w := range n.deferred {
		v := n.deferred[w].Load()
		if v == 0 {
			continue
		}
		for bit := uint32(0); bit < 32; bit++ {
			if v&(1<<bit) != 0 {
				return uint32(w)*32 + bit, true
			}
		}
	}
	return 0, false
}

// HasPending reports whether any interrupt is waiting for the main loop.
func (n *NVIC) HasPending() bool {
	for w := range n.deferred {
		if n.deferred[w].Load() != 0 {
			return true
		}
	}
	return false
}

// Complete ends service of irq: the pending flag and the deferred mark are
// cleared. The line stays masked until the caller enables it again.
func (n *NVIC) Complete(irq uint32) {
	w, b := split(irq)
	n.clearPending(irq)
	for {
		old := n.deferred[w].Load()
		if n.deferred[w].CompareAndSwap(old, old&^b) {
			return
		}
	}
}
