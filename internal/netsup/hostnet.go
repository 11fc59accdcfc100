package netsup

import "errors"

// ErrUnsupported is returned by every HostDriver method: no Go-ecosystem
// library exposes a Wi-Fi AP/STA control surface equivalent to the
// original firmware's driver. The real collaborator is platform hardware
// this module cannot drive from a general-purpose OS process, the same
// situation internal/gpio handles with stub.go.
var ErrUnsupported = errors.New("netsup: no Wi-Fi AP/STA driver available on this platform")

// HostDriver is the production Driver. It always fails; a real deployment
// supplies a platform-specific Driver (e.g. a vendor SDK binding) in its
// place at bootstrap.
type HostDriver struct {
	events chan Event
}

// NewHostDriver returns a HostDriver. Its Events channel is never written
// to; callers relying on real connectivity must substitute a different
// Driver implementation.
func NewHostDriver() *HostDriver {
	return &HostDriver{events: make(chan Event)}
}

func (h *HostDriver) StartAP(ssid, password string, channel int) error { return ErrUnsupported }
func (h *HostDriver) StopAP() error                                    { return ErrUnsupported }
func (h *HostDriver) ConfigureStation(ssid, password string) error     { return ErrUnsupported }
func (h *HostDriver) Connect() error                                   { return ErrUnsupported }
func (h *HostDriver) Disconnect() error                                { return ErrUnsupported }
func (h *HostDriver) Events() <-chan Event                             { return h.events }
