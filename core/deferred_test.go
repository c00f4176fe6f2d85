package core

import (
	"strings"
	"testing"
)

func TestDeferredCallsRunLowestFirst(t *testing.T) {
	resetDeferredCalls()
	t.Cleanup(resetDeferredCalls)

	var order []int
	a := RegisterDeferredCall(func() { order = append(order, 0) })
	b := RegisterDeferredCall(func() { order = append(order, 1) })

	if ServiceDeferredCall() {
		t.Fatal("serviced with nothing pending")
	}
	b.Set()
	a.Set()
	a.Set()
	if !a.IsPending() || !b.IsPending() || !HasDeferredCalls() {
		t.Fatal("tasks not pending")
	}
	for ServiceDeferredCall() {
	}
	if len(order) != 2 || order[0] != 0 || order[1] != 1 {
		t.Errorf("ran %v, want [0 1]", order)
	}
	if HasDeferredCalls() {
		t.Error("tasks still pending")
	}
}

func TestDeferredCallCanReschedule(t *testing.T) {
	resetDeferredCalls()
	t.Cleanup(resetDeferredCalls)

	var runs int
	var task DeferredCall
	task = RegisterDeferredCall(func() {
		runs++
		if runs < 3 {
			task.Set()
		}
	})
	task.Set()
	for ServiceDeferredCall() {
	}
	if runs != 3 {
		t.Errorf("runs = %d, want 3", runs)
	}
}

func TestDeferredCallFaults(t *testing.T) {
	resetDeferredCalls()
	t.Cleanup(resetDeferredCalls)

	func() {
		defer func() {
			r := recover()
			if msg, _ := r.(string); !strings.Contains(msg, "unhandled task 5") {
				t.Errorf("panic %v", r)
			}
		}()
		DeferredCall(5).Set()
		ServiceDeferredCall()
	}()

	resetDeferredCalls()
	for i := 0; i < MaxDeferredCalls; i++ {
		RegisterDeferredCall(func() {})
	}
	defer func() {
		if recover() == nil {
			t.Error("registering past the table did not panic")
		}
	}()
	RegisterDeferredCall(func() {})
}
