package core

import (
	"encoding/json"
	"testing"
)

func TestDictionaryJSON(t *testing.T) {
	reg := NewCommandRegistry()
	reg.Register("identify_response", "offset=%u data=%*s", nil)
	reg.Register("identify", "offset=%u count=%c", func(*[]byte) error { return nil })
	reg.Register("gpio_read", "port=%c bit=%c", func(*[]byte) error { return nil })

	d := NewDictionary(reg)
	d.SetVersion("test-1")
	d.AddConstant("MCU", "lpc4337")
	d.AddConstant("PIN_INT_CHANNELS", uint8(8))
	d.AddEnumeration("pin_edge", []string{"rising", "", "either"})

	var parsed struct {
		Version      string                    `json:"version"`
		Config       map[string]string         `json:"config"`
		Commands     map[string]int            `json:"commands"`
		Responses    map[string]int            `json:"responses"`
		Enumerations map[string]map[string]int `json:"enumerations"`
	}
	if err := json.Unmarshal(d.Generate(), &parsed); err != nil {
		t.Fatalf("invalid JSON %s: %v", d.Generate(), err)
	}
	if parsed.Version != "test-1" {
		t.Errorf("version %q", parsed.Version)
	}
	if parsed.Config["MCU"] != "lpc4337" || parsed.Config["PIN_INT_CHANNELS"] != "8" {
		t.Errorf("config %v", parsed.Config)
	}
	if parsed.Commands["gpio_read port=%c bit=%c"] != 2 || len(parsed.Commands) != 2 {
		t.Errorf("commands %v", parsed.Commands)
	}
	if parsed.Responses["identify_response offset=%u data=%*s"] != 0 {
		t.Errorf("responses %v", parsed.Responses)
	}
	edge := parsed.Enumerations["pin_edge"]
	if len(edge) != 2 || edge["either"] != 2 {
		t.Errorf("enumeration %v", edge)
	}
}

func TestDictionaryEscapesControlCharacters(t *testing.T) {
	d := NewDictionary(NewCommandRegistry())
	odd := "a\x01\a\v\x7f\"q\"\\ñ"
	d.AddConstant("ODD", odd)
	d.AddEnumeration("labels", []string{"tab\there"})

	var parsed struct {
		Config       map[string]string         `json:"config"`
		Enumerations map[string]map[string]int `json:"enumerations"`
	}
	if err := json.Unmarshal(d.Generate(), &parsed); err != nil {
		t.Fatalf("invalid JSON %s: %v", d.Generate(), err)
	}
	if parsed.Config["ODD"] != odd {
		t.Errorf("ODD = %q, want %q", parsed.Config["ODD"], odd)
	}
	if _, ok := parsed.Enumerations["labels"]["tab\there"]; !ok {
		t.Errorf("enumeration %v", parsed.Enumerations["labels"])
	}
}

func TestDictionaryCacheInvalidation(t *testing.T) {
	d := NewDictionary(NewCommandRegistry())
	first := string(d.Generate())
	d.AddConstant("X", 1)
	if string(d.Generate()) == first {
		t.Error("constant not published")
	}
}

func TestDictionaryChunks(t *testing.T) {
	d := NewDictionary(NewCommandRegistry())
	d.AddConstant("LONG", "0123456789012345678901234567890123456789")
	full := d.Generate()

	var got []byte
	for off := uint32(0); ; {
		c := d.GetChunk(off, 16)
		got = append(got, c...)
		off += uint32(len(c))
		if len(c) < 16 {
			break
		}
	}
	if string(got) != string(full) {
		t.Error("chunks do not reassemble")
	}
	if c := d.GetChunk(uint32(len(full)), 16); len(c) != 0 {
		t.Errorf("chunk past end has %d bytes", len(c))
	}
}
