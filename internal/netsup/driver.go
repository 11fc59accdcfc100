// Package netsup implements the Connectivity Supervisor: it owns the
// Wi-Fi lifecycle, choosing between provisioning (AP+STA) and operational
// (STA-only) boot modes and enforcing the 30s connect watchdog.
package netsup

import "time"

// Event is a Wi-Fi driver event, delivered asynchronously on the
// driver's event channel.
type Event int

const (
	// EventGotIP fires once the station acquires an address.
	EventGotIP Event = iota
	// EventDisconnected fires on any station disconnect, including the
	// very first failed connection attempt.
	EventDisconnected
)

// Driver is the contract the Supervisor requires from the underlying
// Wi-Fi stack. No Wi-Fi AP/STA SDK exists in the Go ecosystem with this
// shape, so production wiring (hostnet.go) necessarily stubs this out;
// Supervisor logic is exercised against Fake in tests.
type Driver interface {
	// StartAP brings up an access point with the given SSID/password
	// (empty password means an open network) on the given channel.
	StartAP(ssid, password string, channel int) error
	// StopAP tears down the access point.
	StopAP() error

	// ConfigureStation sets the station's target credentials.
	ConfigureStation(ssid, password string) error
	// Connect initiates a station connection attempt.
	Connect() error
	// Disconnect tears down any active station connection.
	Disconnect() error

	// Events returns the channel on which the driver delivers Wi-Fi
	// events. It is read continuously for the supervisor's lifetime.
	Events() <-chan Event
}

// Clock abstracts time for deterministic tests, mirroring internal/logic's
// Clock shape.
type Clock struct {
	Now   func() time.Time
	After func(time.Duration) <-chan time.Time
}

// RealClock returns a Clock backed by the real wall clock.
func RealClock() Clock {
	return Clock{Now: time.Now, After: time.After}
}
