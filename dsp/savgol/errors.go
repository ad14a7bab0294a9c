package savgol

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration reports an unusable window, degree or
	// derivative order.
	ErrInvalidConfiguration = errors.New("savgol: invalid configuration")

	// ErrInsufficientLength is returned when the input is shorter than the window.
	ErrInsufficientLength = errors.New("savgol: input shorter than window")

	// ErrLengthMismatch is returned when dst and src lengths differ.
	ErrLengthMismatch = errors.New("savgol: buffer length mismatch")

	errDesign = errors.New("savgol: least-squares design failed")
)

// Validate reports whether window and degree describe a usable filter:
// window must be a positive odd integer and 0 <= degree < window.
func Validate(window, degree int) error {
	if window <= 0 || window%2 == 0 {
		return fmt.Errorf("%w: window must be a positive odd integer: %d", ErrInvalidConfiguration, window)
	}
	if degree < 0 || degree >= window {
		return fmt.Errorf("%w: degree must be in [0, %d): %d", ErrInvalidConfiguration, window, degree)
	}
	return nil
}

func validateDesign(window, degree, deriv int) error {
	if err := Validate(window, degree); err != nil {
		return err
	}
	if deriv < 0 {
		return fmt.Errorf("%w: derivative order must be >= 0: %d", ErrInvalidConfiguration, deriv)
	}
	return nil
}
