package logic

import "time"

// RawInputs is the minimal raw limit-switch reader the FSM depends on. A
// gpio.Inputs value satisfies this interface structurally — internal/logic
// never imports internal/gpio, keeping this package dependency-free.
type RawInputs interface {
	Read() (limitOpen, limitClosed bool, err error)
}

// RawOutputs is the minimal raw motor/lamp writer the FSM depends on. A
// gpio.Outputs value satisfies this interface structurally.
type RawOutputs interface {
	SetMotorOpen(on bool) error
	SetMotorClose(on bool) error
	SetLamp(on bool) error
}

// FSM is the gate finite state machine. It is the sole owner of the gate
// state, the motor/lamp outputs, and the debounced limit-switch readings.
// It is driven one cycle at a time via Step; callers decide cadence
// (CycleInterval reports the recommended sleep between calls: 20ms idle,
// 10ms moving).
type FSM struct {
	clock   Clock
	inputs  RawInputs
	outputs RawOutputs
	queue   *CommandQueue

	debounceOpen   *Debouncer
	debounceClosed *Debouncer

	state GateState
	err   ErrorCode

	limitOpen   bool
	limitClosed bool
	motorOpen   bool
	motorClose  bool
	lamp        bool

	deadline time.Time

	lastTelemetry time.Time
	haveTelemetry bool
}

// NewFSM creates an FSM in StateInitial with motor de-energized and lamp
// off. The first Step call classifies the gate by reading its limits.
func NewFSM(clock Clock, inputs RawInputs, outputs RawOutputs, queue *CommandQueue) *FSM {
	return &FSM{
		clock:          clock,
		inputs:         inputs,
		outputs:        outputs,
		queue:          queue,
		debounceOpen:   NewDebouncer(clock, DebounceStep, DebounceWindow),
		debounceClosed: NewDebouncer(clock, DebounceStep, DebounceWindow),
		state:          StateInitial,
	}
}

// State returns the current externally-visible gate state.
func (f *FSM) State() GateState { return f.state }

// Snapshot returns a point-in-time status payload.
func (f *FSM) Snapshot() Status {
	return Status{
		State:       f.state,
		LimitOpen:   f.limitOpen,
		LimitClosed: f.limitClosed,
		MotorOpen:   f.motorOpen,
		MotorClose:  f.motorClose,
		Err:         f.err,
	}
}

// Lamp reports the current lamp output state.
func (f *FSM) Lamp() bool { return f.lamp }

// CycleInterval reports the recommended sleep duration between Step calls
// for the current state: 10ms while moving, 20ms otherwise.
func (f *FSM) CycleInterval() time.Duration {
	if f.state == StateOpening || f.state == StateClosing {
		return MovingCycle
	}
	return IdleCycle
}

// TelemetryDue reports whether at least TelemetryPeriod has elapsed since
// the last telemetry publication, and if so resets the internal timer. The
// very first call always reports due, establishing the baseline.
func (f *FSM) TelemetryDue(now time.Time) bool {
	if !f.haveTelemetry || now.Sub(f.lastTelemetry) >= TelemetryPeriod {
		f.lastTelemetry = now
		f.haveTelemetry = true
		return true
	}
	return false
}

// Step runs exactly one FSM cycle: debounce both limits, check the
// emergency joint-assertion guardrail, apply the position-based or
// command-based transition for the current state, and report whether
// gate_state changed. Lamp commands are honored in every state and never
// affect gate_state or motion deadlines.
func (f *FSM) Step() (changed bool, err error) {
	prev := f.state

	openRead := func() (bool, error) {
		o, _, err := f.inputs.Read()
		return o, err
	}
	closedRead := func() (bool, error) {
		_, c, err := f.inputs.Read()
		return c, err
	}

	limitOpen, err := f.debounceOpen.Stabilize(openRead)
	if err != nil {
		return false, err
	}
	limitClosed, err := f.debounceClosed.Stabilize(closedRead)
	if err != nil {
		return false, err
	}
	f.limitOpen, f.limitClosed = limitOpen, limitClosed

	if limitOpen && limitClosed {
		f.enterError(ErrLSInconsistent)
		// Lamp commands are honored even while the fault persists; a
		// motion command is consumed but ignored, since the sensors
		// cannot be trusted to bound the motion.
		if cmd, ok := f.queue.TryDequeue(); ok {
			switch cmd {
			case CmdLampOn:
				f.setLamp(true)
			case CmdLampOff:
				f.setLamp(false)
			}
		}
	} else {
		f.dispatch()
	}

	return f.state != prev, nil
}

func (f *FSM) dispatch() {
	switch f.state {
	case StateInitial:
		f.dispatchInitial()
	case StateOpen:
		f.dispatchOpen()
	case StateClosed:
		f.dispatchClosed()
	case StateStopped:
		f.dispatchStopped()
	case StateUnknown:
		f.dispatchUnknown()
	case StateOpening:
		f.dispatchOpening()
	case StateClosing:
		f.dispatchClosing()
	case StateError:
		f.dispatchError()
	default:
		f.err = ErrStateGuardrail
		f.state = StateError
	}
}

// dispatchInitial classifies the gate once at startup. It never consumes
// commands.
func (f *FSM) dispatchInitial() {
	switch {
	case f.limitClosed && !f.limitOpen:
		f.state = StateClosed
	case f.limitOpen && !f.limitClosed:
		f.state = StateOpen
	default:
		f.state = StateUnknown
	}
}

func (f *FSM) dispatchOpen() {
	switch {
	case f.limitClosed && !f.limitOpen:
		f.state = StateClosed
	case !f.limitOpen && !f.limitClosed:
		f.state = StateUnknown
	default:
		cmd, ok := f.queue.TryDequeue()
		if !ok {
			return
		}
		switch cmd {
		case CmdClose, CmdToggle:
			f.motorCloseDir()
			f.armDeadline()
			f.state = StateClosing
		case CmdLampOn:
			f.setLamp(true)
		case CmdLampOff:
			f.setLamp(false)
		}
	}
}

func (f *FSM) dispatchClosed() {
	switch {
	case f.limitOpen && !f.limitClosed:
		f.state = StateOpen
	case !f.limitOpen && !f.limitClosed:
		f.state = StateUnknown
	default:
		cmd, ok := f.queue.TryDequeue()
		if !ok {
			return
		}
		switch cmd {
		case CmdOpen, CmdToggle:
			f.motorOpenDir()
			f.armDeadline()
			f.state = StateOpening
		case CmdLampOn:
			f.setLamp(true)
		case CmdLampOff:
			f.setLamp(false)
		}
	}
}

func (f *FSM) dispatchStopped() {
	switch {
	case f.limitOpen && !f.limitClosed:
		f.state = StateOpen
	case f.limitClosed && !f.limitOpen:
		f.state = StateClosed
	default:
		cmd, ok := f.queue.TryDequeue()
		if !ok {
			return
		}
		switch cmd {
		case CmdOpen:
			f.motorOpenDir()
			f.armDeadline()
			f.state = StateOpening
		case CmdClose:
			f.motorCloseDir()
			f.armDeadline()
			f.state = StateClosing
		case CmdToggle:
			if f.limitClosed {
				f.motorOpenDir()
				f.armDeadline()
				f.state = StateOpening
			} else {
				f.motorCloseDir()
				f.armDeadline()
				f.state = StateClosing
			}
		case CmdLampOn:
			f.setLamp(true)
		case CmdLampOff:
			f.setLamp(false)
		}
	}
}

func (f *FSM) dispatchUnknown() {
	switch {
	case f.limitOpen && !f.limitClosed:
		f.state = StateOpen
	case f.limitClosed && !f.limitOpen:
		f.state = StateClosed
	default:
		cmd, ok := f.queue.TryDequeue()
		if !ok {
			return
		}
		switch cmd {
		case CmdOpen, CmdToggle:
			f.motorOpenDir()
			f.armDeadline()
			f.state = StateOpening
		case CmdClose:
			f.motorCloseDir()
			f.armDeadline()
			f.state = StateClosing
		case CmdLampOn:
			f.setLamp(true)
		case CmdLampOff:
			f.setLamp(false)
		}
	}
}

func (f *FSM) dispatchOpening() {
	switch {
	case f.limitOpen && !f.limitClosed:
		f.motorStop()
		f.state = StateOpen
	case f.clock.Now().After(f.deadline):
		f.motorStop()
		f.enterError(ErrTimeoutOpen)
	default:
		cmd, ok := f.queue.TryDequeue()
		if !ok {
			return
		}
		switch cmd {
		case CmdStop:
			f.motorStop()
			f.state = StateStopped
		case CmdClose:
			f.motorCloseDir()
			f.armDeadline()
			f.state = StateClosing
		case CmdToggle:
			f.motorStop()
			f.state = StateStopped
		case CmdLampOn:
			f.setLamp(true)
		case CmdLampOff:
			f.setLamp(false)
		}
	}
}

func (f *FSM) dispatchClosing() {
	switch {
	case f.limitClosed && !f.limitOpen:
		f.motorStop()
		f.state = StateClosed
	case f.clock.Now().After(f.deadline):
		f.motorStop()
		f.enterError(ErrTimeoutClose)
	default:
		cmd, ok := f.queue.TryDequeue()
		if !ok {
			return
		}
		switch cmd {
		case CmdStop:
			f.motorStop()
			f.state = StateStopped
		case CmdOpen:
			f.motorOpenDir()
			f.armDeadline()
			f.state = StateOpening
		case CmdToggle:
			f.motorStop()
			f.state = StateStopped
		case CmdLampOn:
			f.setLamp(true)
		case CmdLampOff:
			f.setLamp(false)
		}
	}
}

// dispatchError leaves ERROR only when the sensors become consistent or
// an explicit motion command arrives: a single asserted limit recovers
// automatically regardless of pending commands; with both limits off
// (truly ambiguous) an explicit motion command drives straight into
// OPENING/CLOSING, and only absent such a command does ERROR settle into
// UNKNOWN. A lamp command changes the lamp alone and keeps ERROR.
func (f *FSM) dispatchError() {
	switch {
	case f.limitClosed && !f.limitOpen:
		f.state = StateClosed
		f.err = ErrOK
	case f.limitOpen && !f.limitClosed:
		f.state = StateOpen
		f.err = ErrOK
	default:
		cmd, ok := f.queue.TryDequeue()
		if ok {
			switch cmd {
			case CmdOpen, CmdToggle:
				f.motorOpenDir()
				f.armDeadline()
				f.state = StateOpening
				f.err = ErrOK
				return
			case CmdClose:
				f.motorCloseDir()
				f.armDeadline()
				f.state = StateClosing
				f.err = ErrOK
				return
			case CmdLampOn:
				f.setLamp(true)
				return
			case CmdLampOff:
				f.setLamp(false)
				return
			}
		}
		f.state = StateUnknown
		f.err = ErrOK
	}
}

func (f *FSM) enterError(code ErrorCode) {
	f.motorStop()
	f.err = code
	f.state = StateError
}

func (f *FSM) armDeadline() {
	f.deadline = f.clock.Now().Add(MotionTimeout)
}

// motorStop de-energizes both motor directions.
func (f *FSM) motorStop() {
	f.outputs.SetMotorOpen(false)
	f.outputs.SetMotorClose(false)
	f.motorOpen = false
	f.motorClose = false
}

// motorOpenDir de-energizes the close direction, waits out the brake gap,
// then energizes the open direction. Direction changes are never
// instantaneous.
func (f *FSM) motorOpenDir() {
	f.outputs.SetMotorClose(false)
	f.motorClose = false
	f.clock.Sleep(BrakeGap)
	f.outputs.SetMotorOpen(true)
	f.motorOpen = true
}

// motorCloseDir is the mirror of motorOpenDir.
func (f *FSM) motorCloseDir() {
	f.outputs.SetMotorOpen(false)
	f.motorOpen = false
	f.clock.Sleep(BrakeGap)
	f.outputs.SetMotorClose(true)
	f.motorClose = true
}

func (f *FSM) setLamp(on bool) {
	f.outputs.SetLamp(on)
	f.lamp = on
}
