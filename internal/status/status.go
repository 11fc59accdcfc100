// Package status provides a thread-safe status tracker read by the
// broker publisher and the provisioning portal.
package status

import (
	"sync"

	"github.com/meridian-iot/gatekeeper/internal/logic"
)

// sentinelState is distinct from every real GateState so the very first
// update always reports as changed.
const sentinelState = logic.GateState(-1)

// Snapshot is a point-in-time, read-only copy of gate status.
type Snapshot struct {
	State       logic.GateState
	LimitOpen   bool
	LimitClosed bool
	MotorOpen   bool
	MotorClose  bool
	Err         logic.ErrorCode
}

// Tracker holds the latest gate Snapshot behind a RWMutex so the FSM task
// (sole writer) and readers (HTTP portal, broker publisher) never race.
type Tracker struct {
	mu           sync.RWMutex
	snap         Snapshot
	prevReported logic.GateState
}

// NewTracker creates a Tracker with the change-detection sentinel armed.
func NewTracker() *Tracker {
	return &Tracker{prevReported: sentinelState}
}

// Update records a new Snapshot and reports whether gate_state changed
// since the last reported value.
func (t *Tracker) Update(s logic.Status) (snap Snapshot, changed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap = Snapshot{
		State:       s.State,
		LimitOpen:   s.LimitOpen,
		LimitClosed: s.LimitClosed,
		MotorOpen:   s.MotorOpen,
		MotorClose:  s.MotorClose,
		Err:         s.Err,
	}
	changed = t.snap.State != t.prevReported
	if changed {
		t.prevReported = t.snap.State
	}
	return t.snap, changed
}

// Snapshot returns the latest recorded status.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snap
}
