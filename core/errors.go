package core

import "errors"

// Code is a stable, wire-facing error identifier. It is a comparable
// string newtype that implements error, so handlers can return it directly.
type Code string

func (c Code) Error() string { return string(c) }

const (
	ErrUnknownPin     Code = "unknown_pin"
	ErrNoChannel      Code = "no_interrupt_channel"
	ErrInvalidParams  Code = "invalid_params"
	ErrUnknownCommand Code = "unknown_command"
	ErrNotOutput      Code = "not_output"
	ErrShutdown       Code = "shutdown"
)

// wireCodes fixes the number each Code is reported as in gpio_error.
// Order is part of the host protocol; append only.
var wireCodes = [...]Code{
	"", // 0 is reserved for "no error"
	ErrUnknownPin,
	ErrNoChannel,
	ErrInvalidParams,
	ErrUnknownCommand,
	ErrNotOutput,
	ErrShutdown,
}

// WireCode returns the protocol number for err. Errors that carry no
// known Code report as ErrInvalidParams.
func WireCode(err error) uint32 {
	var c Code
	if !errors.As(err, &c) {
		c = ErrInvalidParams
	}
	for i := 1; i < len(wireCodes); i++ {
		if wireCodes[i] == c {
			return uint32(i)
		}
	}
	return WireCode(ErrInvalidParams)
}

// CodeFromWire maps a protocol number back to its Code.
func CodeFromWire(n uint32) (Code, bool) {
	if n == 0 || int(n) >= len(wireCodes) {
		return "", false
	}
	return wireCodes[n], true
}
