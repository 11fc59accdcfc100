// Package gpio provides GPIO access for the gate controller with hardware
// abstraction. The real implementation uses the Linux GPIO character
// device. The fake implementation allows testing without hardware.
package gpio

// Inputs reads the two limit-switch states.
//
// The raw GPIO values are active-low by convention: raw active (0) means
// logically asserted. Implementations invert the raw signal so that callers
// always see logical values.
type Inputs interface {
	// Read returns the logical asserted states of the open and closed
	// limit switches: (limitOpen, limitClosed, error).
	Read() (limitOpen, limitClosed bool, err error)

	// Close releases GPIO resources.
	Close() error
}

// Outputs drives the motor direction outputs and the warning lamp.
//
// Callers must never assert both motor outputs simultaneously; Outputs
// implementations are not required to guard against it (that invariant is
// the FSM's responsibility, see internal/logic).
type Outputs interface {
	// SetMotorOpen energizes or de-energizes the "open" direction output.
	SetMotorOpen(on bool) error

	// SetMotorClose energizes or de-energizes the "close" direction output.
	SetMotorClose(on bool) error

	// SetLamp turns the warning lamp on or off.
	SetLamp(on bool) error

	// Close releases GPIO resources, leaving outputs de-energized.
	Close() error
}

// Pin definitions (BCM numbering), matching the original firmware's wiring.
const (
	DefaultPinLimitOpen   = 34 // LSA — fully-open limit switch
	DefaultPinLimitClosed = 35 // LSC — fully-closed limit switch
	DefaultPinMotorOpen   = 13 // MOTOR_A
	DefaultPinMotorClose  = 12 // MOTOR_C
	DefaultPinLamp        = 2  // LAMP
)
