package savgol

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-sgpeak/dsp/conv"
)

// Apply filters x and returns a new slice of the same length.
func (k *Kernel) Apply(x []float64, method conv.Method) ([]float64, error) {
	dst := make([]float64, len(x))
	if err := k.ApplyTo(dst, x, method); err != nil {
		return nil, err
	}
	return dst, nil
}

// ApplyTo filters x into dst. Both slices must have the same length and must
// not overlap. x must be at least Window samples long.
func (k *Kernel) ApplyTo(dst, x []float64, method conv.Method) error {
	n := len(x)
	if len(dst) != n {
		return fmt.Errorf("%w: dst %d, src %d", ErrLengthMismatch, len(dst), n)
	}
	if n < k.window {
		return fmt.Errorf("%w: %d samples, window %d", ErrInsufficientLength, n, k.window)
	}

	if k.deriv > k.degree {
		for i := range dst {
			dst[i] = 0
		}
		return nil
	}

	q := k.HalfWidth()
	if err := conv.CorrelateValidTo(dst[q:n-q], x, k.center, method); err != nil {
		return fmt.Errorf("savgol: interior: %w", err)
	}

	head := x[:k.window]
	tail := x[n-k.window:]
	for j := 0; j < q; j++ {
		dst[j] = vecmath.DotProduct(k.lead[j], head)
		dst[n-q+j] = vecmath.DotProduct(k.trail[j], tail)
	}
	return nil
}

// Option configures how kernels are applied.
type Option func(*config)

type config struct {
	method conv.Method
}

// WithMethod selects the sliding dot product algorithm. The default,
// conv.MethodDirect, returns exact zeros on all-zero input regions.
func WithMethod(m conv.Method) Option {
	return func(c *config) {
		c.method = m
	}
}

// WithFFT is shorthand for WithMethod(conv.MethodFFT).
func WithFFT() Option {
	return WithMethod(conv.MethodFFT)
}

func applyOptions(opts []Option) config {
	cfg := config{method: conv.MethodDirect}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Smooth designs a kernel and applies it to x in one call.
//
// deriv selects the output: 0 for the smoothed value, 1 for the first
// derivative, and so on.
func Smooth(x []float64, window, degree, deriv int, opts ...Option) ([]float64, error) {
	k, err := Design(window, degree, deriv)
	if err != nil {
		return nil, err
	}
	return k.Apply(x, applyOptions(opts).method)
}

// Smoother holds matched value and first-derivative kernels for one
// window/degree pair.
type Smoother struct {
	value  *Kernel
	slope  *Kernel
	method conv.Method
}

// NewSmoother designs both kernels for window and degree.
func NewSmoother(window, degree int, opts ...Option) (*Smoother, error) {
	value, err := Design(window, degree, 0)
	if err != nil {
		return nil, err
	}
	slope, err := Design(window, degree, 1)
	if err != nil {
		return nil, err
	}
	return &Smoother{
		value:  value,
		slope:  slope,
		method: applyOptions(opts).method,
	}, nil
}

// Smooth returns the smoothed value of x at every index.
func (s *Smoother) Smooth(x []float64) ([]float64, error) {
	return s.value.Apply(x, s.method)
}

// Derivative returns the smoothed first derivative of x at every index.
func (s *Smoother) Derivative(x []float64) ([]float64, error) {
	return s.slope.Apply(x, s.method)
}

// Window returns the smoothing window length.
func (s *Smoother) Window() int { return s.value.window }

// Degree returns the polynomial degree.
func (s *Smoother) Degree() int { return s.value.degree }

// HalfWidth returns (window-1)/2.
func (s *Smoother) HalfWidth() int { return s.value.HalfWidth() }

// Method returns the dot product algorithm in use.
func (s *Smoother) Method() conv.Method { return s.method }
