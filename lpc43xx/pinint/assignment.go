package pinint

import "lpcgo/core"

// Assignment is a pin's interrupt channel, or Unassigned.
type Assignment struct {
	ch uint8
	ok bool
}

// Unassigned is the assignment of a pin without an interrupt channel.
var Unassigned = Assignment{}

// Assign returns the assignment of channel ch.
func Assign(ch uint8) Assignment {
	if ch >= NumChannels {
		panic("pinint: no channel " + core.Itoa(int(ch)))
	}
	return Assignment{ch: ch, ok: true}
}

// Get returns the channel and whether one is assigned.
func (a Assignment) Get() (uint8, bool) {
	return a.ch, a.ok
}

func (a Assignment) String() string {
	if !a.ok {
		return "none"
	}
	return "PIN_INT" + core.Itoa(int(a.ch))
}
