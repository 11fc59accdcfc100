package gpio

import "errors"

// Sample represents a single limit-switch reading (already in logical form).
type Sample struct {
	Open   bool // true = limit-open switch asserted
	Closed bool // true = limit-closed switch asserted
}

// FakeInputs is a test double that returns scripted limit-switch readings.
type FakeInputs struct {
	// Samples contains scripted samples to return.
	// Each call to Read() consumes the next sample.
	Samples []Sample

	// index tracks current position in Samples.
	index int

	// Closed tracks if Close was called.
	Closed bool

	// ReadError, if set, is returned by Read().
	ReadError error
}

// NewFakeInputs creates a FakeInputs with the given samples.
func NewFakeInputs(samples []Sample) *FakeInputs {
	return &FakeInputs{Samples: samples}
}

// Read returns the next scripted sample. If samples are exhausted, the last
// sample is returned repeatedly.
func (f *FakeInputs) Read() (bool, bool, error) {
	if f.ReadError != nil {
		return false, false, f.ReadError
	}
	if len(f.Samples) == 0 {
		return false, false, errors.New("gpio: no samples configured")
	}
	s := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return s.Open, s.Closed, nil
}

// Close marks the fake as closed.
func (f *FakeInputs) Close() error {
	f.Closed = true
	return nil
}

// Push appends a sample to be returned by a future Read call once the
// existing scripted samples are exhausted one at a time. Used by tests that
// drive the FSM interactively.
func (f *FakeInputs) Push(s Sample) {
	f.Samples = append(f.Samples, s)
}

// Reset rewinds the reader to the beginning of Samples.
func (f *FakeInputs) Reset() {
	f.index = 0
	f.Closed = false
}

// FakeOutputs is a test double that records motor/lamp writes.
type FakeOutputs struct {
	MotorOpen  bool
	MotorClose bool
	Lamp       bool

	// History records every write in order, for assertions about sequencing
	// (e.g. the brake-gap contract: motor de-energized before re-energized).
	History []OutputEvent

	Closed bool

	// WriteError, if set, is returned by every setter.
	WriteError error
}

// OutputEvent records one output write.
type OutputEvent struct {
	Output string // "motor_open", "motor_close", "lamp"
	On     bool
}

// NewFakeOutputs creates a FakeOutputs with all outputs de-energized.
func NewFakeOutputs() *FakeOutputs {
	return &FakeOutputs{}
}

func (o *FakeOutputs) SetMotorOpen(on bool) error {
	if o.WriteError != nil {
		return o.WriteError
	}
	o.MotorOpen = on
	o.History = append(o.History, OutputEvent{"motor_open", on})
	return nil
}

func (o *FakeOutputs) SetMotorClose(on bool) error {
	if o.WriteError != nil {
		return o.WriteError
	}
	o.MotorClose = on
	o.History = append(o.History, OutputEvent{"motor_close", on})
	return nil
}

func (o *FakeOutputs) SetLamp(on bool) error {
	if o.WriteError != nil {
		return o.WriteError
	}
	o.Lamp = on
	o.History = append(o.History, OutputEvent{"lamp", on})
	return nil
}

func (o *FakeOutputs) Close() error {
	o.Closed = true
	return nil
}
