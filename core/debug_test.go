package core

import (
	"strings"
	"testing"
)

func TestDebugPrintlnGated(t *testing.T) {
	var lines []string
	SetDebugWriter(func(s string) { lines = append(lines, s) })
	t.Cleanup(func() {
		SetDebugWriter(func(string) {})
		SetDebugEnabled(false)
	})

	SetDebugEnabled(false)
	DebugPrintln("hidden")
	SetDebugEnabled(true)
	DebugPrintln("shown")
	if len(lines) != 1 || lines[0] != "shown" {
		t.Errorf("lines %q", lines)
	}
}

func TestEventRingWraps(t *testing.T) {
	ClearEvents()
	t.Cleanup(ClearEvents)
	for i := 0; i < EventRingSize+5; i++ {
		RecordEvent(EvtPinFired, uint8(i), uint32(i), 0)
	}
	evts := Events()
	if len(evts) != EventRingSize {
		t.Fatalf("%d events kept", len(evts))
	}
	if evts[0].Value1 != 5 || evts[len(evts)-1].Value1 != EventRingSize+4 {
		t.Errorf("oldest %d newest %d", evts[0].Value1, evts[len(evts)-1].Value1)
	}
	for i := 1; i < len(evts); i++ {
		if evts[i].Seq != evts[i-1].Seq+1 {
			t.Fatalf("sequence gap at %d", i)
		}
	}
}

func TestDumpEventsIgnoresEnable(t *testing.T) {
	ClearEvents()
	var out []string
	SetDebugWriter(func(s string) { out = append(out, s) })
	SetDebugEnabled(false)
	t.Cleanup(func() {
		SetDebugWriter(func(string) {})
		ClearEvents()
	})

	RecordEvent(EvtArm, 2, 0, 9)
	DumpEvents()
	if len(out) != 3 || !strings.Contains(out[1], "ARM id=2") || !strings.Contains(out[1], "v2=9") {
		t.Errorf("dump %q", out)
	}
}

func TestEnumStrings(t *testing.T) {
	if PullDown.String() != "PullDown" || EitherEdge.String() != "EitherEdge" || InputOutput.String() != "InputOutput" {
		t.Error("enum names")
	}
	if got := Configuration(9).String(); got != "Configuration(9)" {
		t.Errorf("unknown configuration %q", got)
	}
	if Itoa(-42) != "-42" || utoa(0) != "0" {
		t.Error("itoa")
	}
}
