//go:build tinygo

package volatile

import "runtime/volatile"

type (
	Register8  = volatile.Register8
	Register32 = volatile.Register32
)
