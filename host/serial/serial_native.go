package serial

import (
	"errors"
	"fmt"

	"github.com/tarm/serial"
)

// NativePort is a tty opened through tarm/serial.
type NativePort struct {
	port *serial.Port
	cfg  *Config
}

// Open opens the serial device named by cfg.
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, errors.New("serial: nil config")
	}
	if cfg.Device == "" {
		return nil, errors.New("serial: no device given")
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Device, err)
	}
	return &NativePort{port: port, cfg: cfg}, nil
}

func (p *NativePort) Read(b []byte) (int, error) {
	return p.port.Read(b)
}

func (p *NativePort) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

func (p *NativePort) Close() error {
	if p.port == nil {
		return nil
	}
	return p.port.Close()
}

// Flush drops unread input, e.g. boot noise from before the session.
func (p *NativePort) Flush() error {
	return p.port.Flush()
}

// Device returns the path the port was opened on.
func (p *NativePort) Device() string {
	return p.cfg.Device
}
