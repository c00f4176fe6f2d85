package protocol

import "errors"

var (
	ErrInvalidVLQ     = errors.New("protocol: invalid VLQ encoding")
	ErrBufferTooSmall = errors.New("protocol: buffer too small for VLQ")
)

// vlqShifts are the 7-bit groups above the lowest one, most significant
// first. A group is emitted when v falls outside the range the lower
// groups can represent together with the sign-extension rule.
var vlqShifts = [...]uint{28, 21, 14, 7}

// AppendVLQ appends the VLQ encoding of v to dst. Values in [-32, 96) take
// one byte.
func AppendVLQ(dst []byte, v int32) []byte {
	for _, s := range vlqShifts {
		lo := -(int32(1) << (s - 2))
		hi := int32(3) << (s - 2)
		if v < lo || v >= hi {
			dst = append(dst, byte((v>>s)&0x7F)|0x80)
		}
	}
	return append(dst, byte(v&0x7F))
}

// EncodeVLQInt writes v to output.
func EncodeVLQInt(output OutputBuffer, v int32) {
	var buf [5]byte
	output.Output(AppendVLQ(buf[:0], v))
}

// EncodeVLQUint writes v to output. Unsigned values share the signed
// encoding.
func EncodeVLQUint(output OutputBuffer, v uint32) {
	EncodeVLQInt(output, int32(v))
}

// DecodeVLQInt decodes one value and advances data past it.
func DecodeVLQInt(data *[]byte) (int32, error) {
	buf := *data
	if len(buf) == 0 {
		return 0, ErrBufferTooSmall
	}
	c := uint32(buf[0])
	v := c & 0x7F
	if c&0x60 == 0x60 {
		v |= ^uint32(0x1F)
	}
	i := 1
	for c&0x80 != 0 {
		if i >= len(buf) {
			return 0, ErrBufferTooSmall
		}
		if i == 5 {
			return 0, ErrInvalidVLQ
		}
		c = uint32(buf[i])
		i++
		v = v<<7 | c&0x7F
	}
	*data = buf[i:]
	return int32(v), nil
}

// DecodeVLQUint decodes one unsigned value and advances data past it.
func DecodeVLQUint(data *[]byte) (uint32, error) {
	v, err := DecodeVLQInt(data)
	return uint32(v), err
}

// EncodeVLQBytes writes a length-prefixed byte string.
func EncodeVLQBytes(output OutputBuffer, data []byte) {
	EncodeVLQUint(output, uint32(len(data)))
	output.Output(data)
}

// DecodeVLQBytes decodes a length-prefixed byte string. The result aliases
// data.
func DecodeVLQBytes(data *[]byte) ([]byte, error) {
	n, err := DecodeVLQUint(data)
	if err != nil {
		return nil, err
	}
	if uint32(len(*data)) < n {
		return nil, ErrBufferTooSmall
	}
	out := (*data)[:n]
	*data = (*data)[n:]
	return out, nil
}

// EncodeVLQString writes a length-prefixed string.
func EncodeVLQString(output OutputBuffer, s string) {
	EncodeVLQBytes(output, []byte(s))
}

// DecodeVLQString decodes a length-prefixed string.
func DecodeVLQString(data *[]byte) (string, error) {
	b, err := DecodeVLQBytes(data)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeArgs decodes len(dst) unsigned values in order, the common shape of
// a command with only %c/%u parameters.
func DecodeArgs(data *[]byte, dst ...*uint32) error {
	for _, p := range dst {
		v, err := DecodeVLQUint(data)
		if err != nil {
			return err
		}
		*p = v
	}
	return nil
}
