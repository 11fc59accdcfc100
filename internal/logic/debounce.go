package logic

import "time"

// Debouncer filters transient contact bounce on a single logical signal by
// requiring a reading to be stable for a minimum window, resampled in
// short steps; on instability the stability timer restarts. This mirrors
// the original firmware's blocking debounce_read() loop, translated into an
// injectable-clock form so it can be exercised deterministically in tests.
type Debouncer struct {
	clock  Clock
	step   time.Duration
	window time.Duration
}

// NewDebouncer creates a Debouncer sampling every step until a reading has
// been stable for window.
func NewDebouncer(clock Clock, step, window time.Duration) *Debouncer {
	return &Debouncer{clock: clock, step: step, window: window}
}

// Stabilize blocks, resampling read every step, until the returned value has
// remained unchanged for at least window, then returns that value. Any error
// from read aborts immediately.
func (d *Debouncer) Stabilize(read func() (bool, error)) (bool, error) {
	stable, err := read()
	if err != nil {
		return false, err
	}
	var elapsed time.Duration
	for elapsed < d.window {
		d.clock.Sleep(d.step)
		v, err := read()
		if err != nil {
			return false, err
		}
		if v != stable {
			stable = v
			elapsed = 0
			continue
		}
		elapsed += d.step
	}
	return stable, nil
}
