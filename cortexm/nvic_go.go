//go:build !tinygo

package cortexm

// nvicHW models the controller in memory. A line whose pending flag is set
// while it is enabled runs the generic handler (Defer) immediately, the way
// the core would take the exception at the next instruction boundary.
type nvicHW struct {
	enabled [words]uint32
	pending [words]uint32
	sources [MaxIRQ]func() bool
}

// NewNVIC returns an in-memory controller model.
func NewNVIC() *NVIC {
	return &NVIC{}
}

// SetSource attaches a level-sensitive request line to irq. While asserted
// reports true the pending flag re-latches after every ClearPending.
func (n *NVIC) SetSource(irq uint32, asserted func() bool) {
	split(irq)
	n.hw.sources[irq] = asserted
}

func (n *NVIC) enable(irq uint32) {
	w, b := split(irq)
	n.hw.enabled[w] |= b
	n.take(irq)
}

func (n *NVIC) disable(irq uint32) {
	w, b := split(irq)
	n.hw.enabled[w] &^= b
}

func (n *NVIC) setPending(irq uint32) {
	w, b := split(irq)
	n.hw.pending[w] |= b
	n.take(irq)
}

func (n *NVIC) clearPending(irq uint32) {
	w, b := split(irq)
	n.hw.pending[w] &^= b
	if src := n.hw.sources[irq]; src != nil && src() {
		n.hw.pending[w] |= b
		n.take(irq)
	}
}

func (n *NVIC) isEnabled(irq uint32) bool {
	w, b := split(irq)
	return n.hw.enabled[w]&b != 0
}

func (n *NVIC) isPending(irq uint32) bool {
	w, b := split(irq)
	return n.hw.pending[w]&b != 0
}

func (n *NVIC) take(irq uint32) {
	if n.isEnabled(irq) && n.isPending(irq) {
		n.Defer(irq)
	}
}
