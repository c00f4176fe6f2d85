//go:build !tinygo

package cortexm

import "runtime"

// WaitForInterrupt yields the goroutine; there is no core to halt.
func WaitForInterrupt() {
	runtime.Gosched()
}
