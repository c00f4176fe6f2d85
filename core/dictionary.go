package core

import (
	"strconv"
	"sync"

	"golang.org/x/exp/slices"

	"lpcgo/protocol"
)

// Constant is a named value published in the dictionary's "config" object.
type Constant struct {
	Name  string
	Value interface{} // string, int, uint8, uint32 or bool
}

// Enumeration maps symbolic names to their wire values, e.g. pin names.
type Enumeration struct {
	Name   string
	Values []string // index is the wire value; "" entries are skipped
}

// Dictionary is the JSON description of the firmware's messages that the
// host downloads with identify.
type Dictionary struct {
	mu            sync.RWMutex
	constants     map[string]*Constant
	enumerations  map[string]*Enumeration
	commandReg    *CommandRegistry
	version       string
	buildVersions string
	cached        []byte
}

var globalDictionary = NewDictionary(globalRegistry)

func NewDictionary(reg *CommandRegistry) *Dictionary {
	return &Dictionary{
		constants:     make(map[string]*Constant),
		enumerations:  make(map[string]*Enumeration),
		commandReg:    reg,
		version:       "lpcgo-" + protocol.Version,
		buildVersions: "go-tinygo",
	}
}

func GetGlobalDictionary() *Dictionary {
	return globalDictionary
}

// RegisterConstant adds a constant to the global dictionary.
func RegisterConstant(name string, value interface{}) {
	globalDictionary.AddConstant(name, value)
}

// RegisterEnumeration adds an enumeration to the global dictionary.
func RegisterEnumeration(name string, values []string) {
	globalDictionary.AddEnumeration(name, values)
}

func (d *Dictionary) AddConstant(name string, value interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.constants[name] = &Constant{Name: name, Value: value}
	d.cached = nil
}

func (d *Dictionary) AddEnumeration(name string, values []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enumerations[name] = &Enumeration{Name: name, Values: slices.Clone(values)}
	d.cached = nil
}

func (d *Dictionary) SetVersion(version string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.version = version
	d.cached = nil
}

func (d *Dictionary) SetBuildVersions(versions string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buildVersions = versions
	d.cached = nil
}

// BuildDictionary renders and caches the dictionary. Call it once every
// command is registered; later registrations are not published until the
// next call.
func (d *Dictionary) BuildDictionary() {
	commands, responses := d.messages()
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cached = d.render(commands, responses)
	DebugPrintln("[DICT] built " + itoa(len(d.cached)) + " bytes")
}

// Generate returns the cached dictionary, rendering it if needed.
func (d *Dictionary) Generate() []byte {
	d.mu.RLock()
	cached := d.cached
	d.mu.RUnlock()
	if cached != nil {
		return cached
	}
	d.BuildDictionary()
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cached
}

// GetChunk returns up to count bytes of the dictionary starting at offset.
// A chunk shorter than count marks the end.
func (d *Dictionary) GetChunk(offset uint32, count uint8) []byte {
	data := d.Generate()
	if offset >= uint32(len(data)) {
		return nil
	}
	end := offset + uint32(count)
	if end > uint32(len(data)) {
		end = uint32(len(data))
	}
	return slices.Clone(data[offset:end])
}

// messages splits the registry into commands and responses. It takes the
// registry lock, so it runs before the dictionary lock is taken.
func (d *Dictionary) messages() (commands, responses []*Command) {
	d.commandReg.Each(func(c *Command) {
		if c.Handler != nil {
			commands = append(commands, c)
		} else {
			responses = append(responses, c)
		}
	})
	return commands, responses
}

// render builds the JSON by hand; encoding/json is too heavy for the
// firmware image. Keys are emitted in sorted order so the output is
// stable.
func (d *Dictionary) render(commands, responses []*Command) []byte {
	out := make([]byte, 0, 2048)
	out = append(out, `{"version":`...)
	out = appendJSONString(out, d.version)
	out = append(out, `,"build_versions":`...)
	out = appendJSONString(out, d.buildVersions)

	out = append(out, `,"config":{`...)
	names := make([]string, 0, len(d.constants))
	for name := range d.constants {
		names = append(names, name)
	}
	slices.Sort(names)
	for i, name := range names {
		if i > 0 {
			out = append(out, ',')
		}
		out = appendJSONString(out, name)
		out = append(out, ':')
		out = appendJSONString(out, valueToString(d.constants[name].Value))
	}

	out = append(out, `},"commands":`...)
	out = appendMessages(out, commands)
	out = append(out, `,"responses":`...)
	out = appendMessages(out, responses)

	if len(d.enumerations) > 0 {
		out = append(out, `,"enumerations":{`...)
		names = names[:0]
		for name := range d.enumerations {
			names = append(names, name)
		}
		slices.Sort(names)
		for i, name := range names {
			if i > 0 {
				out = append(out, ',')
			}
			out = appendJSONString(out, name)
			out = append(out, ":{"...)
			first := true
			for v, label := range d.enumerations[name].Values {
				if label == "" {
					continue
				}
				if !first {
					out = append(out, ',')
				}
				first = false
				out = appendJSONString(out, label)
				out = append(out, ':')
				out = strconv.AppendInt(out, int64(v), 10)
			}
			out = append(out, '}')
		}
		out = append(out, '}')
	}
	return append(out, '}')
}

const hexDigits = "0123456789abcdef"

// appendJSONString appends v as a JSON string. Control characters use the
// \u00XX form; other bytes are copied as is.
func appendJSONString(out []byte, v string) []byte {
	out = append(out, '"')
	for i := 0; i < len(v); i++ {
		c := v[i]
		switch {
		case c == '"' || c == '\\':
			out = append(out, '\\', c)
		case c < 0x20 || c == 0x7F:
			out = append(out, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xF])
		default:
			out = append(out, c)
		}
	}
	return append(out, '"')
}

// appendMessages writes {"signature":id,...}; msgs are already in ID order.
func appendMessages(out []byte, msgs []*Command) []byte {
	out = append(out, '{')
	for i, c := range msgs {
		if i > 0 {
			out = append(out, ',')
		}
		out = appendJSONString(out, c.Signature())
		out = append(out, ':')
		out = strconv.AppendUint(out, uint64(c.ID), 10)
	}
	return append(out, '}')
}
