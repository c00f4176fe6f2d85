//go:build !tinygo

package pinint

// The register file is plain memory on the host, so the set/clear aliases
// and the write-one-to-clear status are applied to the backing registers
// directly.

func enableRising(r *Registers, mask uint32)   { r.IENR.SetBits(mask) }
func disableRising(r *Registers, mask uint32)  { r.IENR.ClearBits(mask) }
func enableFalling(r *Registers, mask uint32)  { r.IENF.SetBits(mask) }
func disableFalling(r *Registers, mask uint32) { r.IENF.ClearBits(mask) }

func clearStatus(r *Registers, mask uint32) {
	r.IST.ClearBits(mask)
	r.RISE.ClearBits(mask)
	r.FALL.ClearBits(mask)
}

// attach connects each channel's status bit to its NVIC line as a level
// source, as the PIN_INT outputs are on the chip.
func (m *Manager) attach() {
	for ch := uint32(0); ch < NumChannels; ch++ {
		mask := uint32(1) << ch
		m.nvic.SetSource(FirstIRQ+ch, func() bool {
			return m.regs.IST.HasBits(mask)
		})
	}
}

// SimulateLevel runs the edge detectors for a level change on
// GPIO<port>[bit] from prev to next. Every bound channel watching that pin
// latches the edge if it is enabled for it and raises its NVIC line.
func (m *Manager) SimulateLevel(port, bit uint8, prev, next bool) {
	if prev == next {
		return
	}
	for ch := uint8(0); ch < NumChannels; ch++ {
		p, b, ok := m.Binding(ch)
		if !ok || p != port || b != bit {
			continue
		}
		mask := uint32(1) << ch
		if m.regs.ISEL.HasBits(mask) {
			continue
		}
		latched := false
		if next && m.regs.IENR.HasBits(mask) {
			m.regs.RISE.SetBits(mask)
			latched = true
		}
		if !next && m.regs.IENF.HasBits(mask) {
			m.regs.FALL.SetBits(mask)
			latched = true
		}
		if latched {
			m.regs.IST.SetBits(mask)
			m.nvic.SetPending(FirstIRQ + uint32(ch))
		}
	}
}
