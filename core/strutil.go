package core

// itoa converts an integer to a string without pulling fmt into the
// firmware image
func itoa(n int) string {
	if n < 0 {
		return "-" + utoa(uint32(-n))
	}
	return utoa(uint32(n))
}

// utoa converts an unsigned integer to a string
func utoa(n uint32) string {
	var buf [10]byte
	pos := len(buf)
	for {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
		if n == 0 {
			break
		}
	}
	return string(buf[pos:])
}

// Itoa is the exported form used by target packages for fault messages
func Itoa(n int) string {
	return itoa(n)
}

// valueToString converts a dictionary constant to its string form
func valueToString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return itoa(val)
	case uint8:
		return utoa(uint32(val))
	case uint32:
		return utoa(val)
	case bool:
		if val {
			return "1"
		}
		return "0"
	default:
		return ""
	}
}
