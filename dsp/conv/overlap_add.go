package conv

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// OverlapAdd computes the valid-mode correlation of a signal with a fixed
// kernel by FFT block convolution.
//
// The signal is cut into blocks of BlockSize samples. Each block is
// zero-padded to FFTSize, multiplied in the frequency domain with the
// spectrum of the reversed kernel and transformed back. Block results are
// added into the output at their offset; samples that fall before the first
// or after the last full overlap are dropped instead of being stored.
//
// An OverlapAdd reuses internal buffers and is not safe for concurrent use.
type OverlapAdd struct {
	// kernelFFT is the spectrum of the reversed, zero-padded kernel.
	kernelFFT []complex128

	kernelLen int
	blockSize int
	fftSize   int // blockSize + kernelLen - 1, rounded up to a power of 2

	plan *algofft.Plan[complex128]
	buf  []complex128
}

// NewOverlapAdd prepares a correlator for kernel. If blockSize is 0, a size
// is chosen from the kernel length.
func NewOverlapAdd(kernel []float64, blockSize int) (*OverlapAdd, error) {
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}
	m := len(kernel)

	if blockSize <= 0 {
		blockSize = max(nextPowerOf2(8*m), 4096)
	}
	fftSize := nextPowerOf2(blockSize + m - 1)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	oa := &OverlapAdd{
		kernelFFT: make([]complex128, fftSize),
		kernelLen: m,
		blockSize: blockSize,
		fftSize:   fftSize,
		plan:      plan,
		buf:       make([]complex128, fftSize),
	}

	// Correlation is convolution with the time-reversed kernel.
	for i, v := range kernel {
		oa.buf[m-1-i] = complex(v, 0)
	}
	if err := plan.Forward(oa.kernelFFT, oa.buf); err != nil {
		return nil, fmt.Errorf("conv: failed to compute kernel FFT: %w", err)
	}
	return oa, nil
}

// BlockSize returns the input block size.
func (oa *OverlapAdd) BlockSize() int {
	return oa.blockSize
}

// FFTSize returns the FFT size used internally.
func (oa *OverlapAdd) FFTSize() int {
	return oa.fftSize
}

// KernelLen returns the kernel length.
func (oa *OverlapAdd) KernelLen() int {
	return oa.kernelLen
}

// CorrelateValid returns the valid-mode correlation of signal with the kernel.
func (oa *OverlapAdd) CorrelateValid(signal []float64) ([]float64, error) {
	if len(signal) < oa.kernelLen {
		return nil, fmt.Errorf("%w: kernel %d, input %d", ErrKernelTooLong, oa.kernelLen, len(signal))
	}
	dst := make([]float64, ValidLen(len(signal), oa.kernelLen))
	if err := oa.CorrelateValidTo(dst, signal); err != nil {
		return nil, err
	}
	return dst, nil
}

// CorrelateValidTo writes the valid-mode correlation of signal with the
// kernel into dst, which must have length ValidLen(len(signal), KernelLen()).
//
//	dst[i] = sum_{k=0}^{M-1} kernel[k] * signal[i+k]
func (oa *OverlapAdd) CorrelateValidTo(dst, signal []float64) error {
	if len(signal) == 0 {
		return ErrEmptyInput
	}
	m := oa.kernelLen
	if m > len(signal) {
		return fmt.Errorf("%w: kernel %d, input %d", ErrKernelTooLong, m, len(signal))
	}
	if want := ValidLen(len(signal), m); len(dst) != want {
		return fmt.Errorf("%w: expected %d, got %d", ErrLengthMismatch, want, len(dst))
	}

	for i := range dst {
		dst[i] = 0
	}

	// Full-convolution index f maps to valid output f-(m-1).
	shift := m - 1
	for start := 0; start < len(signal); start += oa.blockSize {
		end := min(start+oa.blockSize, len(signal))

		for i := range oa.buf {
			oa.buf[i] = 0
		}
		for i, v := range signal[start:end] {
			oa.buf[i] = complex(v, 0)
		}

		if err := oa.plan.Forward(oa.buf, oa.buf); err != nil {
			return fmt.Errorf("conv: forward FFT failed: %w", err)
		}
		for i := range oa.buf {
			oa.buf[i] *= oa.kernelFFT[i]
		}
		if err := oa.plan.Inverse(oa.buf, oa.buf); err != nil {
			return fmt.Errorf("conv: inverse FFT failed: %w", err)
		}

		lo := max(shift-start, 0)
		hi := min(end-start+m-1, len(dst)+shift-start)
		for i := lo; i < hi; i++ {
			dst[start+i-shift] += real(oa.buf[i])
		}
	}
	return nil
}
