//go:build !linux

package gpio

import "errors"

// ErrUnsupported is returned by the real GPIO implementations on platforms
// without a Linux GPIO character device.
var ErrUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealInputs is not available on non-Linux platforms.
type RealInputs struct{}

// NewRealInputs returns an error on non-Linux platforms.
func NewRealInputs(pinOpen, pinClosed int) (*RealInputs, error) {
	return nil, ErrUnsupported
}

// Read is not implemented on non-Linux platforms.
func (r *RealInputs) Read() (bool, bool, error) {
	return false, false, ErrUnsupported
}

// Close is not implemented on non-Linux platforms.
func (r *RealInputs) Close() error {
	return nil
}

// RealOutputs is not available on non-Linux platforms.
type RealOutputs struct{}

// NewRealOutputs returns an error on non-Linux platforms.
func NewRealOutputs(pinMotorOpen, pinMotorClose, pinLamp int) (*RealOutputs, error) {
	return nil, ErrUnsupported
}

// SetMotorOpen is not implemented on non-Linux platforms.
func (o *RealOutputs) SetMotorOpen(on bool) error { return ErrUnsupported }

// SetMotorClose is not implemented on non-Linux platforms.
func (o *RealOutputs) SetMotorClose(on bool) error { return ErrUnsupported }

// SetLamp is not implemented on non-Linux platforms.
func (o *RealOutputs) SetLamp(on bool) error { return ErrUnsupported }

// Close is not implemented on non-Linux platforms.
func (o *RealOutputs) Close() error { return nil }
