//go:build tinygo

package cortexm

import "device/arm"

// WaitForInterrupt halts the core until an unmasked interrupt is pending.
func WaitForInterrupt() {
	arm.Asm("wfi")
}
