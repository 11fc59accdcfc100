package logic

import (
	"errors"
	"testing"
	"time"
)

type testInputs struct {
	open, closed bool
	err          error
}

func (t *testInputs) Read() (bool, bool, error) { return t.open, t.closed, t.err }

type testOutputs struct {
	motorOpen, motorClose, lamp bool
	history                     []string
}

func (o *testOutputs) SetMotorOpen(on bool) error {
	o.motorOpen = on
	o.history = append(o.history, event("motor_open", on))
	return nil
}

func (o *testOutputs) SetMotorClose(on bool) error {
	o.motorClose = on
	o.history = append(o.history, event("motor_close", on))
	return nil
}

func (o *testOutputs) SetLamp(on bool) error {
	o.lamp = on
	o.history = append(o.history, event("lamp", on))
	return nil
}

func event(name string, on bool) string {
	if on {
		return name + ":on"
	}
	return name + ":off"
}

type manualClock struct {
	now time.Time
}

func (m *manualClock) clock() Clock {
	return Clock{
		Now:   func() time.Time { return m.now },
		Sleep: func(d time.Duration) { m.now = m.now.Add(d) },
	}
}

func newTestFSM(open, closed bool) (*FSM, *testInputs, *testOutputs, *manualClock) {
	in := &testInputs{open: open, closed: closed}
	out := &testOutputs{}
	mc := &manualClock{now: time.Unix(0, 0)}
	f := NewFSM(mc.clock(), in, out, NewCommandQueue())
	return f, in, out, mc
}

func TestStepInitialClassifiesByLimits(t *testing.T) {
	cases := []struct {
		open, closed bool
		want         GateState
	}{
		{open: false, closed: true, want: StateClosed},
		{open: true, closed: false, want: StateOpen},
		{open: false, closed: false, want: StateUnknown},
	}
	for _, c := range cases {
		f, _, _, _ := newTestFSM(c.open, c.closed)
		if _, err := f.Step(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.State() != c.want {
			t.Errorf("open=%v closed=%v: got %v, want %v", c.open, c.closed, f.State(), c.want)
		}
	}
}

func TestStepEmergencyGuardrailOverridesAnyState(t *testing.T) {
	f, _, out, _ := newTestFSM(true, true)
	f.state = StateOpen
	f.motorOpen = true

	if _, err := f.Step(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.State() != StateError {
		t.Errorf("got %v, want StateError", f.State())
	}
	if f.err != ErrLSInconsistent {
		t.Errorf("got err code %v, want ErrLSInconsistent", f.err)
	}
	if out.motorOpen || out.motorClose {
		t.Error("motor should be stopped under the guardrail")
	}
}

func TestStepClosedOpenCommandStartsOpening(t *testing.T) {
	f, _, out, _ := newTestFSM(false, true)
	f.state = StateClosed
	f.queue.TryEnqueue(CmdOpen)

	if _, err := f.Step(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.State() != StateOpening {
		t.Fatalf("got %v, want StateOpening", f.State())
	}
	if !out.motorOpen || out.motorClose {
		t.Errorf("motor outputs: open=%v close=%v", out.motorOpen, out.motorClose)
	}
}

func TestStepOpeningReachesLimitStopsMotor(t *testing.T) {
	f, _, out, mc := newTestFSM(true, false)
	f.state = StateOpening
	f.motorOpen = true
	out.motorOpen = true
	f.deadline = mc.now.Add(MotionTimeout)

	if _, err := f.Step(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.State() != StateOpen {
		t.Fatalf("got %v, want StateOpen", f.State())
	}
	if out.motorOpen || out.motorClose {
		t.Error("motor should be de-energized on reaching the limit")
	}
}

func TestStepOpeningTimesOutToError(t *testing.T) {
	f, _, _, mc := newTestFSM(false, false)
	f.state = StateOpening
	f.deadline = mc.now.Add(-1 * time.Millisecond)

	if _, err := f.Step(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.State() != StateError {
		t.Fatalf("got %v, want StateError", f.State())
	}
	if f.err != ErrTimeoutOpen {
		t.Errorf("got err code %v, want ErrTimeoutOpen", f.err)
	}
}

func TestStepOpeningAtDeadlineBoundaryIsNotTimeout(t *testing.T) {
	f, _, _, mc := newTestFSM(false, false)
	f.state = StateOpening
	f.deadline = mc.now

	if _, err := f.Step(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.State() != StateOpening {
		t.Errorf("deadline exactly now should not time out yet: got %v", f.State())
	}
}

func TestStepOpeningLimitReachedExactlyAtDeadlineIsNotError(t *testing.T) {
	f, _, _, mc := newTestFSM(true, false)
	f.state = StateOpening
	f.deadline = mc.now

	if _, err := f.Step(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.State() != StateOpen {
		t.Errorf("position check must win over a simultaneous deadline: got %v", f.State())
	}
}

func TestMotorReversalHonorsBrakeGap(t *testing.T) {
	f, _, out, mc := newTestFSM(false, false)
	f.state = StateOpening
	f.motorOpen = true
	out.motorOpen = true
	f.deadline = mc.now.Add(MotionTimeout)
	f.queue.TryEnqueue(CmdClose)

	before := mc.now
	if _, err := f.Step(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.State() != StateClosing {
		t.Fatalf("got %v, want StateClosing", f.State())
	}
	if mc.now.Sub(before) < BrakeGap {
		t.Errorf("expected at least a brake gap of clock advance, got %v", mc.now.Sub(before))
	}
	want := []string{"motor_open:off", "motor_close:on"}
	if len(out.history) != len(want) {
		t.Fatalf("history: got %v, want %v", out.history, want)
	}
	for i, w := range want {
		if out.history[i] != w {
			t.Errorf("history[%d]: got %q, want %q", i, out.history[i], w)
		}
	}
	if out.motorOpen || !out.motorClose {
		t.Errorf("final outputs: open=%v close=%v", out.motorOpen, out.motorClose)
	}
}

func TestStepConsumesAtMostOneCommandPerCycle(t *testing.T) {
	f, _, _, _ := newTestFSM(false, true)
	f.state = StateClosed
	f.queue.TryEnqueue(CmdLampOn)
	f.queue.TryEnqueue(CmdLampOff)

	if _, err := f.Step(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.Lamp() {
		t.Error("expected the first queued command (LAMP_ON) to take effect")
	}
	if f.queue.Len() != 1 {
		t.Errorf("expected one command left queued, got %d", f.queue.Len())
	}
}

func TestDispatchErrorWithAmbiguousLimitsAndCommandSkipsUnknown(t *testing.T) {
	f, _, out, _ := newTestFSM(false, false)
	f.state = StateError
	f.err = ErrLSInconsistent
	f.queue.TryEnqueue(CmdOpen)

	if _, err := f.Step(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.State() != StateOpening {
		t.Fatalf("got %v, want StateOpening", f.State())
	}
	if !out.motorOpen {
		t.Error("expected motor to start opening")
	}
}

func TestDispatchErrorWithAmbiguousLimitsAndNoCommandSettlesUnknown(t *testing.T) {
	f, _, _, _ := newTestFSM(false, false)
	f.state = StateError
	f.err = ErrLSInconsistent

	if _, err := f.Step(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.State() != StateUnknown {
		t.Fatalf("got %v, want StateUnknown", f.State())
	}
	if f.err != ErrOK {
		t.Errorf("error code should clear once settled, got %v", f.err)
	}
}

func TestDispatchErrorSingleAssertedLimitRecoversRegardlessOfCommand(t *testing.T) {
	f, _, _, _ := newTestFSM(false, true)
	f.state = StateError
	f.err = ErrLSInconsistent
	f.queue.TryEnqueue(CmdOpen)

	if _, err := f.Step(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.State() != StateClosed {
		t.Fatalf("got %v, want StateClosed", f.State())
	}
	if f.queue.Len() != 1 {
		t.Error("position-based recovery should not consume the pending command")
	}
}

func TestLampCommandHonoredWhileLimitsInconsistent(t *testing.T) {
	f, _, out, _ := newTestFSM(true, true)
	f.state = StateError
	f.err = ErrLSInconsistent
	f.queue.TryEnqueue(CmdLampOn)

	if _, err := f.Step(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.lamp {
		t.Error("expected the lamp command to take effect during the fault")
	}
	if f.State() != StateError {
		t.Errorf("got %v, want StateError", f.State())
	}
	if f.err != ErrLSInconsistent {
		t.Errorf("got err code %v, want ErrLSInconsistent", f.err)
	}
}

func TestMotionCommandIgnoredWhileLimitsInconsistent(t *testing.T) {
	f, _, out, _ := newTestFSM(true, true)
	f.state = StateError
	f.err = ErrLSInconsistent
	f.queue.TryEnqueue(CmdOpen)

	if _, err := f.Step(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.State() != StateError {
		t.Errorf("got %v, want StateError", f.State())
	}
	if out.motorOpen || out.motorClose {
		t.Error("motor must stay de-energized while the limits disagree")
	}
	if f.queue.Len() != 0 {
		t.Error("the command should be consumed, not left queued")
	}
}

func TestLampCommandInErrorWithAmbiguousLimitsKeepsError(t *testing.T) {
	f, _, out, _ := newTestFSM(false, false)
	f.state = StateError
	f.err = ErrTimeoutOpen
	f.queue.TryEnqueue(CmdLampOn)

	if _, err := f.Step(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.lamp {
		t.Error("expected lamp to turn on")
	}
	if f.State() != StateError {
		t.Errorf("lamp command altered gate_state: got %v", f.State())
	}
	if f.err != ErrTimeoutOpen {
		t.Errorf("lamp command altered the error code: got %v", f.err)
	}
}

func TestLampCommandsNeverChangeGateState(t *testing.T) {
	f, _, out, _ := newTestFSM(true, false)
	f.state = StateOpen
	f.queue.TryEnqueue(CmdLampOn)

	if _, err := f.Step(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.State() != StateOpen {
		t.Errorf("lamp command altered gate_state: got %v", f.State())
	}
	if !out.lamp {
		t.Error("expected lamp to turn on")
	}
}

func TestToggleFromStoppedWithBothLimitsOffClosesGate(t *testing.T) {
	f, _, _, _ := newTestFSM(false, false)
	f.state = StateStopped
	f.queue.TryEnqueue(CmdToggle)

	if _, err := f.Step(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.State() != StateClosing {
		t.Errorf("got %v, want StateClosing", f.State())
	}
}

func TestStepPropagatesReadError(t *testing.T) {
	f, in, _, _ := newTestFSM(false, false)
	in.err = errors.New("read failure")

	if _, err := f.Step(); err == nil {
		t.Error("expected Step to propagate the read error")
	}
}

func TestCycleIntervalReflectsMotion(t *testing.T) {
	f, _, _, _ := newTestFSM(false, false)
	f.state = StateOpen
	if got := f.CycleInterval(); got != IdleCycle {
		t.Errorf("got %v, want IdleCycle", got)
	}
	f.state = StateClosing
	if got := f.CycleInterval(); got != MovingCycle {
		t.Errorf("got %v, want MovingCycle", got)
	}
}

func TestTelemetryDueFiresOnceThenWaitsOutThePeriod(t *testing.T) {
	f, _, _, _ := newTestFSM(false, false)
	now := time.Unix(1000, 0)

	if !f.TelemetryDue(now) {
		t.Error("first call should be due")
	}
	if f.TelemetryDue(now.Add(time.Second)) {
		t.Error("should not be due again before the period elapses")
	}
	if !f.TelemetryDue(now.Add(TelemetryPeriod)) {
		t.Error("should be due once the period elapses")
	}
}
