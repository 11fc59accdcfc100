//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealInputs reads the limit switches from actual hardware using the Linux
// GPIO character device.
type RealInputs struct {
	chip     *gpiocdev.Chip
	openPin  *gpiocdev.Line
	closePin *gpiocdev.Line
}

// NewRealInputs creates a GPIO input reader for the two limit switches.
func NewRealInputs(pinOpen, pinClosed int) (*RealInputs, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	openLine, err := chip.RequestLine(pinOpen, gpiocdev.AsInput)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request limit-open pin %d: %w", pinOpen, err)
	}

	closeLine, err := chip.RequestLine(pinClosed, gpiocdev.AsInput)
	if err != nil {
		openLine.Close()
		chip.Close()
		return nil, fmt.Errorf("request limit-closed pin %d: %w", pinClosed, err)
	}

	return &RealInputs{
		chip:     chip,
		openPin:  openLine,
		closePin: closeLine,
	}, nil
}

// Read returns the logical states of the limit switches.
// Raw GPIO is active-low: raw 0 = asserted, raw 1 = not asserted.
func (r *RealInputs) Read() (bool, bool, error) {
	openRaw, err := r.openPin.Value()
	if err != nil {
		return false, false, fmt.Errorf("read limit-open pin: %w", err)
	}

	closeRaw, err := r.closePin.Value()
	if err != nil {
		return false, false, fmt.Errorf("read limit-closed pin: %w", err)
	}

	return openRaw == 0, closeRaw == 0, nil
}

// Close releases GPIO resources.
func (r *RealInputs) Close() error {
	var errs []error
	if r.openPin != nil {
		if err := r.openPin.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close limit-open pin: %w", err))
		}
	}
	if r.closePin != nil {
		if err := r.closePin.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close limit-closed pin: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealOutputs drives the motor and lamp outputs via the Linux GPIO
// character device.
type RealOutputs struct {
	chip      *gpiocdev.Chip
	motorOpen *gpiocdev.Line
	motorClose *gpiocdev.Line
	lamp      *gpiocdev.Line
}

// NewRealOutputs creates a GPIO output driver for motor and lamp pins.
// All outputs start de-energized.
func NewRealOutputs(pinMotorOpen, pinMotorClose, pinLamp int) (*RealOutputs, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	open, err := chip.RequestLine(pinMotorOpen, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request motor-open pin %d: %w", pinMotorOpen, err)
	}
	closeLine, err := chip.RequestLine(pinMotorClose, gpiocdev.AsOutput(0))
	if err != nil {
		open.Close()
		chip.Close()
		return nil, fmt.Errorf("request motor-close pin %d: %w", pinMotorClose, err)
	}
	lamp, err := chip.RequestLine(pinLamp, gpiocdev.AsOutput(0))
	if err != nil {
		open.Close()
		closeLine.Close()
		chip.Close()
		return nil, fmt.Errorf("request lamp pin %d: %w", pinLamp, err)
	}

	return &RealOutputs{
		chip:       chip,
		motorOpen:  open,
		motorClose: closeLine,
		lamp:       lamp,
	}, nil
}

func boolToValue(on bool) int {
	if on {
		return 1
	}
	return 0
}

// SetMotorOpen energizes or de-energizes the "open" direction output.
func (o *RealOutputs) SetMotorOpen(on bool) error {
	if err := o.motorOpen.SetValue(boolToValue(on)); err != nil {
		return fmt.Errorf("set motor-open: %w", err)
	}
	return nil
}

// SetMotorClose energizes or de-energizes the "close" direction output.
func (o *RealOutputs) SetMotorClose(on bool) error {
	if err := o.motorClose.SetValue(boolToValue(on)); err != nil {
		return fmt.Errorf("set motor-close: %w", err)
	}
	return nil
}

// SetLamp turns the warning lamp on or off.
func (o *RealOutputs) SetLamp(on bool) error {
	if err := o.lamp.SetValue(boolToValue(on)); err != nil {
		return fmt.Errorf("set lamp: %w", err)
	}
	return nil
}

// Close de-energizes all outputs and releases GPIO resources.
func (o *RealOutputs) Close() error {
	var errs []error
	if o.motorOpen != nil {
		o.motorOpen.SetValue(0)
		if err := o.motorOpen.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close motor-open pin: %w", err))
		}
	}
	if o.motorClose != nil {
		o.motorClose.SetValue(0)
		if err := o.motorClose.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close motor-close pin: %w", err))
		}
	}
	if o.lamp != nil {
		o.lamp.SetValue(0)
		if err := o.lamp.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close lamp pin: %w", err))
		}
	}
	if o.chip != nil {
		if err := o.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
