// Package boards maps the silk-screen labels of supported boards to GPIO
// port/bit addresses.
package boards

import (
	_ "embed"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

//go:embed educiaa.yaml
var rawEDUCIAA []byte

var ErrUnknownPin = errors.New("unknown pin")

// Pin is one labeled board pin.
type Pin struct {
	Label     string `yaml:"label"`
	Port      uint8  `yaml:"port"`
	Bit       uint8  `yaml:"bit"`
	Silicon   string `yaml:"pin"`
	Interrupt bool   `yaml:"interrupt"`
	Reserved  bool   `yaml:"reserved"`
}

func (p Pin) String() string {
	return fmt.Sprintf("%s (GPIO%d[%d], %s)", p.Label, p.Port, p.Bit, p.Silicon)
}

// Board is a parsed board description.
type Board struct {
	Name string `yaml:"name"`
	MCU  string `yaml:"mcu"`
	Pins []Pin  `yaml:"pins"`
}

var boards []Board

// All returns the known boards.
func All() []Board {
	return boards
}

// Find returns the board called name.
func Find(name string) (Board, error) {
	i := slices.IndexFunc(boards, func(b Board) bool {
		return strings.EqualFold(b.Name, name)
	})
	if i < 0 {
		return Board{}, fmt.Errorf("unknown board %q", name)
	}
	return boards[i], nil
}

// Parse decodes a board description.
func Parse(data []byte) (Board, error) {
	var b Board
	if err := yaml.Unmarshal(data, &b); err != nil {
		return Board{}, fmt.Errorf("parse board: %w", err)
	}
	if b.Name == "" {
		return Board{}, errors.New("parse board: missing name")
	}
	for i, p := range b.Pins {
		if p.Label == "" {
			return Board{}, fmt.Errorf("parse board %s: pin %d has no label", b.Name, i)
		}
		if p.Port > 7 || p.Bit > 31 {
			return Board{}, fmt.Errorf("parse board %s: %s maps outside GPIO0-7", b.Name, p.Label)
		}
		dup := slices.IndexFunc(b.Pins[:i], func(q Pin) bool {
			return strings.EqualFold(q.Label, p.Label)
		})
		if dup >= 0 {
			return Board{}, fmt.Errorf("parse board %s: %s listed twice", b.Name, p.Label)
		}
	}
	return b, nil
}

var gpioRef = regexp.MustCompile(`^(?i:gpio)([0-7])\[([0-9]{1,2})\]$`)

// Resolve accepts a board label (case-insensitive), a raw "GPIOp[b]"
// reference or a "p:b" pair.
func (b Board) Resolve(name string) (Pin, error) {
	i := slices.IndexFunc(b.Pins, func(p Pin) bool {
		return strings.EqualFold(p.Label, name)
	})
	if i >= 0 {
		return b.Pins[i], nil
	}

	var ps, bs string
	if m := gpioRef.FindStringSubmatch(name); m != nil {
		ps, bs = m[1], m[2]
	} else if before, after, ok := strings.Cut(name, ":"); ok {
		ps, bs = before, after
	} else {
		return Pin{}, fmt.Errorf("%w: %q", ErrUnknownPin, name)
	}
	port, err1 := strconv.ParseUint(ps, 10, 8)
	bit, err2 := strconv.ParseUint(bs, 10, 8)
	if err1 != nil || err2 != nil || port > 7 || bit > 31 {
		return Pin{}, fmt.Errorf("%w: %q", ErrUnknownPin, name)
	}
	if p, ok := b.At(uint8(port), uint8(bit)); ok {
		return p, nil
	}
	return Pin{Label: fmt.Sprintf("GPIO%d[%d]", port, bit), Port: uint8(port), Bit: uint8(bit)}, nil
}

// At returns the labeled pin at GPIO<port>[bit], if any.
func (b Board) At(port, bit uint8) (Pin, bool) {
	i := slices.IndexFunc(b.Pins, func(p Pin) bool {
		return p.Port == port && p.Bit == bit
	})
	if i < 0 {
		return Pin{}, false
	}
	return b.Pins[i], true
}

func init() {
	b, err := Parse(rawEDUCIAA)
	if err != nil {
		panic(err)
	}
	boards = append(boards, b)
}
