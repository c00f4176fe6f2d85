package core

import "sync/atomic"

// MaxDeferredCalls is the number of software tasks the deferred-call queue
// can track. Each task owns one bit of the pending mask.
const MaxDeferredCalls = 32

// DeferredCall is a handle for a software task that an interrupt handler
// (or any other context) can schedule to run later on the main loop.
type DeferredCall uint8

var (
	deferredPending  atomic.Uint32
	deferredHandlers [MaxDeferredCalls]func()
	deferredCount    uint8
)

// RegisterDeferredCall allocates a task slot for handler.
// Registration happens during initialization, before interrupts are enabled.
func RegisterDeferredCall(handler func()) DeferredCall {
	if int(deferredCount) >= MaxDeferredCalls {
		panic("core: deferred call table full")
	}
	id := DeferredCall(deferredCount)
	deferredHandlers[id] = handler
	deferredCount++
	return id
}

// Set marks the task pending. Safe to call from interrupt context.
func (d DeferredCall) Set() {
	bit := uint32(1) << d
	for {
		old := deferredPending.Load()
		if old&bit != 0 || deferredPending.CompareAndSwap(old, old|bit) {
			return
		}
	}
}

// IsPending reports whether the task has been set and not yet run.
func (d DeferredCall) IsPending() bool {
	return deferredPending.Load()&(uint32(1)<<d) != 0
}

// HasDeferredCalls reports whether any task is pending.
func HasDeferredCalls() bool {
	return deferredPending.Load() != 0
}

// ServiceDeferredCall runs the lowest-numbered pending task, clearing its
// bit first so it may reschedule itself. It reports false if nothing was
// pending. A pending bit without a handler is a fatal fault.
func ServiceDeferredCall() bool {
	for {
		pending := deferredPending.Load()
		if pending == 0 {
			return false
		}
		id := lowestBit(pending)
		bit := uint32(1) << id
		if !deferredPending.CompareAndSwap(pending, pending&^bit) {
			continue
		}
		handler := deferredHandlers[id]
		if handler == nil {
			panic("core: unhandled task " + itoa(int(id)))
		}
		RecordEvent(EvtDeferredCall, id, 0, 0)
		handler()
		return true
	}
}

// resetDeferredCalls drops every registration; tests use it to start clean.
func resetDeferredCalls() {
	deferredPending.Store(0)
	deferredHandlers = [MaxDeferredCalls]func(){}
	deferredCount = 0
	pinEventTaskSet = false
}

func lowestBit(v uint32) uint8 {
	var n uint8
	for v&1 == 0 {
		v >>= 1
		n++
	}
	return n
}
