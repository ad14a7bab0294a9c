package conv

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

// Errors returned by convolution functions.
var (
	ErrEmptyInput     = errors.New("conv: empty input")
	ErrEmptyKernel    = errors.New("conv: empty kernel")
	ErrLengthMismatch = errors.New("conv: buffer length mismatch")
	ErrKernelTooLong  = errors.New("conv: kernel longer than input")
)

// Method selects the algorithm used by [CorrelateValidTo].
type Method int

const (
	// MethodDirect evaluates every output as a dot product over the input.
	// Flat (all-zero) input regions produce exact zeros.
	MethodDirect Method = iota

	// MethodFFT uses overlap-add block convolution. Faster for long kernels,
	// but rounding noise of order 1e-16 * max|x| appears in every output.
	MethodFFT
)

// String returns the method name.
func (m Method) String() string {
	switch m {
	case MethodDirect:
		return "direct"
	case MethodFFT:
		return "fft"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ValidLen returns the number of outputs of a valid-mode correlation of a
// signal of length n with a kernel of length m, or 0 if m > n.
func ValidLen(n, m int) int {
	if m > n || m == 0 {
		return 0
	}
	return n - m + 1
}

// CorrelateValid slides kernel over signal without reversing it and returns
// only the positions where the kernel fully overlaps the signal:
//
//	y[i] = sum_{k=0}^{M-1} kernel[k] * signal[i+k],  i = 0 .. N-M
func CorrelateValid(signal, kernel []float64, method Method) ([]float64, error) {
	if err := validate(signal, kernel); err != nil {
		return nil, err
	}
	dst := make([]float64, ValidLen(len(signal), len(kernel)))
	if err := CorrelateValidTo(dst, signal, kernel, method); err != nil {
		return nil, err
	}
	return dst, nil
}

// CorrelateValidTo is like [CorrelateValid] but writes into dst, which must
// have length ValidLen(len(signal), len(kernel)).
func CorrelateValidTo(dst, signal, kernel []float64, method Method) error {
	if err := validate(signal, kernel); err != nil {
		return err
	}
	want := ValidLen(len(signal), len(kernel))
	if len(dst) != want {
		return fmt.Errorf("%w: expected %d, got %d", ErrLengthMismatch, want, len(dst))
	}

	switch method {
	case MethodFFT:
		return correlateValidFFT(dst, signal, kernel)
	default:
		directValid(dst, signal, kernel)
		return nil
	}
}

func validate(signal, kernel []float64) error {
	if len(signal) == 0 {
		return ErrEmptyInput
	}
	if len(kernel) == 0 {
		return ErrEmptyKernel
	}
	if len(kernel) > len(signal) {
		return fmt.Errorf("%w: kernel %d, input %d", ErrKernelTooLong, len(kernel), len(signal))
	}
	return nil
}

// directValid computes each output with a SIMD dot product.
func directValid(dst, signal, kernel []float64) {
	m := len(kernel)
	for i := range dst {
		dst[i] = vecmath.DotProduct(signal[i:i+m], kernel)
	}
}

// correlateValidFFT builds a one-shot overlap-add correlator.
func correlateValidFFT(dst, signal, kernel []float64) error {
	oa, err := NewOverlapAdd(kernel, 0)
	if err != nil {
		return err
	}
	return oa.CorrelateValidTo(dst, signal)
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
