package peak

import "errors"

var (
	// ErrInvalidConfiguration reports unusable run parameters.
	ErrInvalidConfiguration = errors.New("peak: invalid configuration")

	// ErrMisalignedInputs reports tracks that cannot be compared index by index.
	ErrMisalignedInputs = errors.New("peak: misaligned inputs")
)
