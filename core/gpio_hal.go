package core

// FloatingState selects the pull resistors of an input pin.
type FloatingState uint8

const (
	PullNone FloatingState = iota
	PullUp
	PullDown
)

func (f FloatingState) String() string {
	switch f {
	case PullUp:
		return "PullUp"
	case PullDown:
		return "PullDown"
	case PullNone:
		return "PullNone"
	}
	return "FloatingState(" + itoa(int(f)) + ")"
}

// Configuration classifies what a pin is currently set up to do.
type Configuration uint8

const (
	// Function means a non-GPIO peripheral function owns the pin.
	Function Configuration = iota
	Input
	Output
	InputOutput
	// Other is a contradictory register state that correct direction
	// handling never produces.
	Other
)

func (c Configuration) String() string {
	switch c {
	case Function:
		return "Function"
	case Input:
		return "Input"
	case Output:
		return "Output"
	case InputOutput:
		return "InputOutput"
	case Other:
		return "Other"
	}
	return "Configuration(" + itoa(int(c)) + ")"
}

// InterruptEdge selects which transitions trigger a pin interrupt.
type InterruptEdge uint8

const (
	RisingEdge InterruptEdge = iota
	FallingEdge
	EitherEdge
)

func (e InterruptEdge) String() string {
	switch e {
	case RisingEdge:
		return "RisingEdge"
	case FallingEdge:
		return "FallingEdge"
	case EitherEdge:
		return "EitherEdge"
	}
	return "InterruptEdge(" + itoa(int(e)) + ")"
}

// PinConfigure covers mux and direction setup of a pin.
type PinConfigure interface {
	// Configuration reads the mux and direction registers back.
	Configuration() Configuration
	MakeOutput() Configuration
	DisableOutput() Configuration
	MakeInput() Configuration
	DisableInput() Configuration
	// Deactivate returns the pin to its low-power idle state.
	Deactivate()
	SetFloatingState(FloatingState)
	FloatingState() FloatingState
	IsInput() bool
	IsOutput() bool
	// Enable routes the pin's GPIO function to it.
	Enable()
	// SelectFunction hands the pin to an alternate peripheral function.
	SelectFunction(fn uint8)
}

type PinInput interface {
	Read() bool
}

type PinOutput interface {
	Set()
	Clear()
	// Toggle inverts the output and returns the new level.
	Toggle() bool
}

// InterruptClient is notified when a pin interrupt fires. Fired runs on the
// main loop, never in interrupt context.
type InterruptClient interface {
	Fired()
}

// InterruptClientFunc adapts a plain function to InterruptClient.
type InterruptClientFunc func()

func (f InterruptClientFunc) Fired() { f() }

type PinInterrupt interface {
	// SetClient replaces the single client slot; nil clears it.
	SetClient(InterruptClient)
	EnableInterrupts(InterruptEdge)
	DisableInterrupts()
	IsPending() bool
	// HasInterruptChannel reports whether the pin can be used with
	// EnableInterrupts at all.
	HasInterruptChannel() bool
}

// Pin is the full capability set of a GPIO pin.
type Pin interface {
	PinConfigure
	PinInput
	PinOutput
	PinInterrupt
}

// PinLookup resolves a logical GPIO port/bit address to a pin.
type PinLookup interface {
	Lookup(port, bit uint8) (Pin, bool)
}

// PortAccess is implemented by pin lookups whose GPIO ports can also be
// read and written a word at a time. ok is false for a port the board does
// not have or a mask naming bits it does not wire.
type PortAccess interface {
	ReadPort(port uint8) (levels uint32, ok bool)
	// WritePort stores value into the bits selected by mask and returns the
	// resulting levels.
	WritePort(port uint8, mask, value uint32) (levels uint32, ok bool)
}

// Global singleton used by the pin command service.
var pinLookup PinLookup

// SetPinLookup is called by target code to publish its pins.
func SetPinLookup(l PinLookup) {
	pinLookup = l
}

// MustPins returns the configured lookup or panics if missing.
func MustPins() PinLookup {
	if pinLookup == nil {
		panic("core: pin lookup not configured")
	}
	return pinLookup
}
