package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// Event captures an interrupt-path event for post-mortem analysis
type Event struct {
	Type   uint8  // Event type code
	ID     uint8  // IRQ number, task id or channel
	Seq    uint32 // Monotonic sequence number
	Value1 uint32 // Context-dependent value
	Value2 uint32 // Context-dependent value
}

// Event type codes
const (
	EvtIRQDispatch  = 1 // NVIC interrupt routed to its handler
	EvtDeferredCall = 2 // Deferred task run
	EvtPinFired     = 3 // Pin client notified (v1=port, v2=bit)
	EvtArm          = 4 // Interrupt channel armed (v1=port, v2=bit)
	EvtDisarm       = 5 // Interrupt channel disarmed
)

const (
	EventRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (set by the console)
	debugPrintln DebugWriter = func(s string) {}

	// debugEnabled controls whether DebugPrintln output is active
	debugEnabled bool

	eventRing     [EventRingSize]Event
	eventRingHead uint8
	eventSeq      uint32
)

// SetDebugWriter sets the platform-specific debug output function
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// RecordEvent captures an event in the ring buffer. The ring is shared
// with interrupt context, so the slot update runs masked.
func RecordEvent(eventType, id uint8, value1, value2 uint32) {
	Atomic(func() {
		idx := eventRingHead
		eventSeq++
		eventRing[idx] = Event{
			Type:   eventType,
			ID:     id,
			Seq:    eventSeq,
			Value1: value1,
			Value2: value2,
		}
		eventRingHead = (idx + 1) % EventRingSize
	})
}

// Events returns the recorded events, oldest first.
func Events() []Event {
	out := make([]Event, 0, EventRingSize)
	Atomic(func() {
		start := eventRingHead
		for i := uint8(0); i < EventRingSize; i++ {
			evt := eventRing[(start+i)%EventRingSize]
			if evt.Type == 0 {
				continue
			}
			out = append(out, evt)
		}
	})
	return out
}

func eventName(t uint8) string {
	switch t {
	case EvtIRQDispatch:
		return "IRQ"
	case EvtDeferredCall:
		return "TASK"
	case EvtPinFired:
		return "FIRED"
	case EvtArm:
		return "ARM"
	case EvtDisarm:
		return "DISARM"
	}
	return "UNKNOWN"
}

// DumpEvents writes the event ring through the debug writer regardless of
// the debug enable flag. Call it on the way into a fault.
func DumpEvents() {
	if debugPrintln == nil {
		return
	}
	debugPrintln("[EVENTS] === Event Ring Dump ===")
	for _, evt := range Events() {
		debugPrintln("[EVENTS] " + eventName(evt.Type) +
			" id=" + itoa(int(evt.ID)) +
			" seq=" + utoa(evt.Seq) +
			" v1=" + utoa(evt.Value1) +
			" v2=" + utoa(evt.Value2))
	}
	debugPrintln("[EVENTS] === End Dump ===")
}

// ClearEvents clears the event ring
func ClearEvents() {
	Atomic(func() {
		eventRing = [EventRingSize]Event{}
		eventRingHead = 0
		eventSeq = 0
	})
}
