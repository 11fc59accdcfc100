package logic

import (
	"errors"
	"testing"
	"time"
)

func TestDebouncerReturnsImmediatelyStableValue(t *testing.T) {
	mc := &manualClock{now: time.Unix(0, 0)}
	d := NewDebouncer(mc.clock(), DebounceStep, DebounceWindow)

	calls := 0
	read := func() (bool, error) {
		calls++
		return true, nil
	}

	v, err := d.Stabilize(read)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v {
		t.Error("expected true")
	}
	wantCalls := int(DebounceWindow/DebounceStep) + 1
	if calls != wantCalls {
		t.Errorf("got %d reads, want %d", calls, wantCalls)
	}
}

func TestDebouncerRestartsWindowOnInstability(t *testing.T) {
	mc := &manualClock{now: time.Unix(0, 0)}
	d := NewDebouncer(mc.clock(), DebounceStep, DebounceWindow)

	// Flips once after two steps, then stays stable. The flip must reset
	// the stability timer rather than just delaying it.
	readings := []bool{false, false, false, true, true, true, true, true}
	i := 0
	read := func() (bool, error) {
		v := readings[i]
		if i < len(readings)-1 {
			i++
		}
		return v, nil
	}

	v, err := d.Stabilize(read)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v {
		t.Error("expected the debounced value to settle on the final stable reading (true)")
	}
}

func TestDebouncerPulseShorterThanWindowNeverSettlesOnIt(t *testing.T) {
	mc := &manualClock{now: time.Unix(0, 0)}
	d := NewDebouncer(mc.clock(), DebounceStep, DebounceWindow)

	// A single-step glitch back to the original value, then stable.
	readings := []bool{false, true, false, false, false, false, false}
	i := 0
	read := func() (bool, error) {
		v := readings[i]
		if i < len(readings)-1 {
			i++
		}
		return v, nil
	}

	v, err := d.Stabilize(read)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v {
		t.Error("a transient glitch should not be reported as the stable value")
	}
}

func TestDebouncerPropagatesReadError(t *testing.T) {
	mc := &manualClock{now: time.Unix(0, 0)}
	d := NewDebouncer(mc.clock(), DebounceStep, DebounceWindow)

	read := func() (bool, error) { return false, errors.New("boom") }

	if _, err := d.Stabilize(read); err == nil {
		t.Error("expected the read error to propagate")
	}
}
