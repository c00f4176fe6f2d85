package gpio

import (
	"lpcgo/core"
	"lpcgo/lpc43xx/pinint"
	"lpcgo/lpc43xx/scu"
)

// Identity binds a physical pin to its GPIO function, its logical GPIO
// address and its interrupt channel, if it has one.
type Identity struct {
	SiliconPort uint8 // P0..PF
	SiliconPin  uint8
	Function    scu.Function // mux value that routes the GPIO to the pin
	Port        uint8        // GPIO port
	Bit         uint8        // GPIO bit
	Channel     pinint.Assignment
}

// Name is the silicon name of the pin, e.g. "P1_6".
func (id Identity) Name() string {
	return "P" + string("0123456789ABCDEF"[id.SiliconPort&0xF]) + "_" + core.Itoa(int(id.SiliconPin))
}

// GPIOName is the logical name of the pin, e.g. "GPIO1[9]".
func (id Identity) GPIOName() string {
	return gpioName(id.Port, id.Bit)
}

func gpioName(port, bit uint8) string {
	return "GPIO" + core.Itoa(int(port)) + "[" + core.Itoa(int(bit)) + "]"
}

// Validate checks a pin table: every GPIO address is in range and used
// once, and no interrupt channel is assigned twice. A violation is a board
// description bug and panics.
func Validate(table []Identity) {
	var seen [PortCount]uint32
	var channels uint8
	for _, id := range table {
		if id.Port >= PortCount || id.Bit >= SlotsPerPort {
			panic("gpio: " + id.Name() + " maps outside the GPIO ports")
		}
		if id.SiliconPort >= scu.Ports || id.SiliconPin >= scu.PinsPerPort {
			panic("gpio: " + id.GPIOName() + " has no SFSP register")
		}
		bit := uint32(1) << id.Bit
		if seen[id.Port]&bit != 0 {
			panic("gpio: " + id.GPIOName() + " listed twice")
		}
		seen[id.Port] |= bit
		if ch, ok := id.Channel.Get(); ok {
			if channels&(1<<ch) != 0 {
				panic("gpio: interrupt channel " + core.Itoa(int(ch)) + " assigned twice")
			}
			channels |= 1 << ch
		}
	}
}
