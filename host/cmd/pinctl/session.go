package main

import (
	"errors"
	"fmt"
	"time"

	"lpcgo/host/boards"
	"lpcgo/host/mcu"
	"lpcgo/host/serial"
	"lpcgo/host/sim"
)

// simDevice selects the in-process simulated board.
const simDevice = "sim"

// session holds the flags and the open connection. The shell reuses one
// session for every line.
type session struct {
	device  string
	baud    int
	board   string
	timeout time.Duration
	verbose bool
	force   bool

	mcu *mcu.MCU
	sim *sim.Board
	pcb boards.Board
}

func (s *session) loadBoard() error {
	if s.pcb.Name != "" {
		return nil
	}
	b, err := boards.Find(s.board)
	if err != nil {
		return err
	}
	s.pcb = b
	return nil
}

// connect opens the link and downloads the dictionary once.
func (s *session) connect() error {
	if s.mcu != nil {
		return nil
	}
	if err := s.loadBoard(); err != nil {
		return err
	}

	var m *mcu.MCU
	if s.device == simDevice {
		s.sim = sim.New()
		m = mcu.New(s.sim.Port())
	} else {
		cfg := serial.DefaultConfig(s.device)
		cfg.Baud = s.baud
		var err error
		if m, err = mcu.Open(cfg); err != nil {
			return err
		}
	}
	m.Timeout = s.timeout
	if s.verbose {
		m.OnDebug(func(msg string) { fmt.Println("[mcu]", msg) })
	}
	if _, err := m.Identify(); err != nil {
		m.Close()
		s.closeSim()
		return fmt.Errorf("identify %s: %w", s.device, err)
	}
	s.mcu = m
	return nil
}

func (s *session) close() {
	if s.mcu != nil {
		s.mcu.Close()
		s.mcu = nil
	}
	s.closeSim()
}

func (s *session) closeSim() {
	if s.sim != nil {
		s.sim.Close()
		s.sim = nil
	}
}

var errReserved = errors.New("pin is reserved; use --force")

// pin resolves a pin argument. Pins the board reserves for its own use
// are refused for anything but reading unless --force is given.
func (s *session) pin(name string, write bool) (boards.Pin, error) {
	if err := s.loadBoard(); err != nil {
		return boards.Pin{}, err
	}
	p, err := s.pcb.Resolve(name)
	if err != nil {
		return boards.Pin{}, err
	}
	if write && p.Reserved && !s.force {
		return boards.Pin{}, fmt.Errorf("%s: %w", p.Label, errReserved)
	}
	return p, nil
}

// checkPortWrite refuses a port-wide write that covers a reserved pin unless
// --force is given.
func (s *session) checkPortWrite(port uint8, mask uint32) error {
	if s.force {
		return nil
	}
	if err := s.loadBoard(); err != nil {
		return err
	}
	for _, p := range s.pcb.Pins {
		if p.Reserved && p.Port == port && mask&(1<<p.Bit) != 0 {
			return fmt.Errorf("%s: %w", p.Label, errReserved)
		}
	}
	return nil
}
