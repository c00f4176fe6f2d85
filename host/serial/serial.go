// Package serial opens the host end of the firmware console.
package serial

import (
	"io"
	"time"
)

// Port is an open console connection.
type Port interface {
	io.ReadWriteCloser

	// Flush discards bytes received but not yet read.
	Flush() error
}

// Config describes the serial line.
type Config struct {
	// Device path, e.g. "/dev/ttyUSB1" or "COM3".
	Device string

	// Baud must match the firmware's USART setting.
	Baud int

	// ReadTimeout bounds each Read; zero blocks.
	ReadTimeout time.Duration
}

// DefaultBaud is the EDU-CIAA console rate.
const DefaultBaud = 115200

// DefaultConfig returns the console settings for device.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        DefaultBaud,
		ReadTimeout: 100 * time.Millisecond,
	}
}
