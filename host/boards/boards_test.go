package boards

import (
	"errors"
	"testing"
)

func TestEDUCIAA(t *testing.T) {
	b, err := Find("EDU-CIAA")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if b.MCU != "lpc4337" {
		t.Errorf("MCU = %q", b.MCU)
	}
	buttons := 0
	for _, p := range b.Pins {
		if p.Interrupt {
			buttons++
		}
	}
	if buttons != 4 {
		t.Errorf("%d interrupt pins, want 4", buttons)
	}
}

func TestResolve(t *testing.T) {
	b, _ := Find("edu-ciaa")
	cases := []struct {
		name      string
		port, bit uint8
		label     string
	}{
		{"TEC1", 0, 4, "TEC1"},
		{"ledr", 5, 0, "LEDR"},
		{"GPIO1[9]", 1, 9, "TEC4"},
		{"gpio2[3]", 2, 3, "GPIO2[3]"},
		{"5:2", 5, 2, "LEDB"},
		{"7:31", 7, 31, "GPIO7[31]"},
	}
	for _, c := range cases {
		p, err := b.Resolve(c.name)
		if err != nil {
			t.Errorf("Resolve(%q): %v", c.name, err)
			continue
		}
		if p.Port != c.port || p.Bit != c.bit || p.Label != c.label {
			t.Errorf("Resolve(%q) = %+v", c.name, p)
		}
	}
}

func TestResolveRejects(t *testing.T) {
	b, _ := Find("edu-ciaa")
	for _, name := range []string{"", "LED9", "GPIO8[1]", "GPIO1[32]", "8:0", "1:x", "1:2:3"} {
		if _, err := b.Resolve(name); !errors.Is(err, ErrUnknownPin) {
			t.Errorf("Resolve(%q) err = %v, want ErrUnknownPin", name, err)
		}
	}
}

func TestParseValidates(t *testing.T) {
	cases := map[string]string{
		"no name":   "pins: []",
		"no label":  "name: x\npins:\n  - {port: 0, bit: 1}",
		"bad port":  "name: x\npins:\n  - {label: A, port: 8, bit: 1}",
		"duplicate": "name: x\npins:\n  - {label: A, port: 0, bit: 1}\n  - {label: a, port: 0, bit: 2}",
		"not yaml":  "name: [",
	}
	for what, doc := range cases {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Errorf("%s: Parse succeeded", what)
		}
	}
}

func TestFindUnknown(t *testing.T) {
	if _, err := Find("nucleo"); err == nil {
		t.Fatal("Find(nucleo) succeeded")
	}
}
