// Package volatile provides register cells for memory-mapped peripherals.
//
// TinyGo builds alias the runtime/volatile types so every access is a real
// volatile load or store. Regular Go builds back the same API with plain
// memory so register blocks can be allocated and inspected in tests.
package volatile

import "golang.org/x/exp/constraints"

// Bit returns a value with only bit n set.
func Bit[T constraints.Unsigned](n uint8) T {
	return T(1) << n
}

// Mask returns width consecutive set bits starting at shift.
func Mask[T constraints.Unsigned](shift, width uint8) T {
	return (T(1)<<width - 1) << shift
}

// Field extracts a width-bit field at shift from v.
func Field[T constraints.Unsigned](v T, shift, width uint8) T {
	return (v >> shift) & (T(1)<<width - 1)
}

// WithField returns v with the width-bit field at shift replaced by f.
func WithField[T constraints.Unsigned](v T, shift, width uint8, f T) T {
	m := Mask[T](shift, width)
	return v&^m | (f<<shift)&m
}
