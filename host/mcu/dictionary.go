package mcu

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"lpcgo/protocol"
)

// Dictionary is the firmware's self-description, as served by identify.
type Dictionary struct {
	Version       string                    `json:"version"`
	BuildVersions string                    `json:"build_versions"`
	Config        map[string]string         `json:"config"`
	Commands      map[string]int            `json:"commands"`
	Responses     map[string]int            `json:"responses"`
	Enumerations  map[string]map[string]int `json:"enumerations,omitempty"`

	byName map[string]*Message
	byID   map[uint16]*Message
}

// Message is one command or response signature.
type Message struct {
	ID       uint16
	Name     string
	Params   []Param
	Response bool
}

// Param is one "name=%fmt" field of a signature.
type Param struct {
	Name   string
	Format string
}

// IsBytes reports whether the field is a length-prefixed byte string.
func (p Param) IsBytes() bool {
	return strings.HasSuffix(p.Format, "s")
}

// ParseDictionary decodes the dictionary JSON and indexes its messages.
func ParseDictionary(data []byte) (*Dictionary, error) {
	d := &Dictionary{}
	if err := json.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("decode dictionary: %w", err)
	}
	d.byName = make(map[string]*Message, len(d.Commands)+len(d.Responses))
	d.byID = make(map[uint16]*Message, len(d.Commands)+len(d.Responses))
	for _, set := range []struct {
		sigs     map[string]int
		response bool
	}{{d.Commands, false}, {d.Responses, true}} {
		for sig, id := range set.sigs {
			msg, err := parseSignature(sig)
			if err != nil {
				return nil, err
			}
			msg.ID = uint16(id)
			msg.Response = set.response
			if _, dup := d.byID[msg.ID]; dup {
				return nil, fmt.Errorf("decode dictionary: ID %d used twice", id)
			}
			d.byName[msg.Name] = msg
			d.byID[msg.ID] = msg
		}
	}
	return d, nil
}

func parseSignature(sig string) (*Message, error) {
	fields := strings.Fields(sig)
	if len(fields) == 0 {
		return nil, fmt.Errorf("decode dictionary: empty signature")
	}
	msg := &Message{Name: fields[0]}
	for _, f := range fields[1:] {
		name, format, ok := strings.Cut(f, "=")
		if !ok || !strings.HasPrefix(format, "%") {
			return nil, fmt.Errorf("decode dictionary: bad field %q in %q", f, sig)
		}
		msg.Params = append(msg.Params, Param{Name: name, Format: format})
	}
	return msg, nil
}

// Lookup returns the message called name.
func (d *Dictionary) Lookup(name string) (*Message, bool) {
	m, ok := d.byName[name]
	return m, ok
}

// Names returns the command (or response) names in ID order.
func (d *Dictionary) Names(responses bool) []string {
	var msgs []*Message
	for _, m := range d.byID {
		if m.Response == responses {
			msgs = append(msgs, m)
		}
	}
	slices.SortFunc(msgs, func(a, b *Message) int { return int(a.ID) - int(b.ID) })
	names := make([]string, len(msgs))
	for i, m := range msgs {
		names[i] = m.Name
	}
	return names
}

// Enum returns the value of label in enumeration name.
func (d *Dictionary) Enum(name, label string) (uint32, error) {
	values, ok := d.Enumerations[name]
	if !ok {
		return 0, fmt.Errorf("no enumeration %q", name)
	}
	v, ok := values[label]
	if !ok {
		return 0, fmt.Errorf("%q is not a %s value", label, name)
	}
	return uint32(v), nil
}

// Response is a decoded response frame.
type Response struct {
	Name string
	Args map[string]uint32
	Data map[string][]byte
}

// Get returns integer argument name, zero if absent.
func (r Response) Get(name string) uint32 {
	return r.Args[name]
}

// Decode parses a response payload that starts with its command ID.
func (d *Dictionary) Decode(payload []byte) (Response, error) {
	id, err := protocol.DecodeVLQUint(&payload)
	if err != nil {
		return Response{}, fmt.Errorf("decode message ID: %w", err)
	}
	return d.decodeArgs(uint16(id), &payload)
}

func (d *Dictionary) decodeArgs(id uint16, data *[]byte) (Response, error) {
	msg, ok := d.byID[id]
	if !ok {
		return Response{}, fmt.Errorf("unknown message ID %d", id)
	}
	r := Response{Name: msg.Name, Args: make(map[string]uint32, len(msg.Params))}
	for _, p := range msg.Params {
		if p.IsBytes() {
			b, err := protocol.DecodeVLQBytes(data)
			if err != nil {
				return Response{}, fmt.Errorf("%s.%s: %w", msg.Name, p.Name, err)
			}
			if r.Data == nil {
				r.Data = make(map[string][]byte)
			}
			r.Data[p.Name] = append([]byte(nil), b...)
			continue
		}
		v, err := protocol.DecodeVLQInt(data)
		if err != nil {
			return Response{}, fmt.Errorf("%s.%s: %w", msg.Name, p.Name, err)
		}
		r.Args[p.Name] = uint32(v)
	}
	return r, nil
}

// Encode returns the argument writer for command name. Only integer
// fields can be sent.
func (d *Dictionary) Encode(name string, args ...uint32) (uint16, func(protocol.OutputBuffer), error) {
	msg, ok := d.byName[name]
	if !ok || msg.Response {
		return 0, nil, fmt.Errorf("unknown command %q", name)
	}
	if len(args) != len(msg.Params) {
		return 0, nil, fmt.Errorf("%s takes %d arguments, got %d", name, len(msg.Params), len(args))
	}
	for _, p := range msg.Params {
		if p.IsBytes() {
			return 0, nil, fmt.Errorf("%s: byte field %s not supported", name, p.Name)
		}
	}
	return msg.ID, func(out protocol.OutputBuffer) {
		for _, v := range args {
			protocol.EncodeVLQUint(out, v)
		}
	}, nil
}
