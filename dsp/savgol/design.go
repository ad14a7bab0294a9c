package savgol

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Kernel holds Savitzky–Golay correlation weights.
//
// center is applied to x[i-q : i+q+1] for interior outputs. lead[j] is
// applied to x[:window] to produce output j, trail[j] to x[n-window:] to
// produce output n-q+j.
type Kernel struct {
	window int
	degree int
	deriv  int

	center []float64
	lead   [][]float64
	trail  [][]float64
}

// Design computes the weights for a window-point, degree-polynomial filter
// returning the deriv-th derivative (0 = smoothed value). Sample spacing is 1.
//
// A derivative order above the polynomial degree yields an all-zero kernel.
func Design(window, degree, deriv int) (*Kernel, error) {
	if err := validateDesign(window, degree, deriv); err != nil {
		return nil, err
	}

	q := (window - 1) / 2
	k := &Kernel{
		window: window,
		degree: degree,
		deriv:  deriv,
		center: make([]float64, window),
		lead:   make([][]float64, q),
		trail:  make([][]float64, q),
	}
	for j := 0; j < q; j++ {
		k.lead[j] = make([]float64, window)
		k.trail[j] = make([]float64, window)
	}
	if deriv > degree {
		return k, nil
	}

	// Offsets are scaled to [-1, 1] before fitting.
	scale := float64(max(q, 1))
	pinv, err := fitOperator(window, degree, scale)
	if err != nil {
		return nil, err
	}

	evalRow(k.center, pinv, 0, deriv, scale)
	for j := 0; j < q; j++ {
		evalRow(k.lead[j], pinv, float64(j-q)/scale, deriv, scale)
		evalRow(k.trail[j], pinv, float64(j+1)/scale, deriv, scale)
	}
	return k, nil
}

// fitOperator returns the (degree+1) x window matrix P such that P*y holds
// the coefficients of the least-squares polynomial through y, in powers of
// u = (k-q)/scale.
func fitOperator(window, degree int, scale float64) (*mat.Dense, error) {
	q := (window - 1) / 2
	m := degree + 1

	a := mat.NewDense(window, m, nil)
	for k := 0; k < window; k++ {
		u := float64(k-q) / scale
		p := 1.0
		for j := 0; j < m; j++ {
			a.Set(k, j, p)
			p *= u
		}
	}

	ones := make([]float64, window)
	for i := range ones {
		ones[i] = 1
	}

	var pinv mat.Dense
	if err := pinv.Solve(a, mat.NewDiagDense(window, ones)); err != nil {
		return nil, fmt.Errorf("%w: window %d, degree %d: %v", errDesign, window, degree, err)
	}
	return &pinv, nil
}

// evalRow writes into dst the weights that evaluate the deriv-th derivative
// of the fitted polynomial at scaled offset u.
func evalRow(dst []float64, pinv *mat.Dense, u float64, deriv int, scale float64) {
	m, _ := pinv.Dims()
	chain := math.Pow(scale, -float64(deriv))
	for n := deriv; n < m; n++ {
		f := fallingFactorial(n, deriv) * math.Pow(u, float64(n-deriv)) * chain
		if f == 0 {
			continue
		}
		floats.AddScaled(dst, f, pinv.RawRowView(n))
	}
}

// fallingFactorial returns n*(n-1)*...*(n-k+1).
func fallingFactorial(n, k int) float64 {
	r := 1.0
	for i := 0; i < k; i++ {
		r *= float64(n - i)
	}
	return r
}

// Window returns the kernel length.
func (k *Kernel) Window() int { return k.window }

// Degree returns the polynomial degree.
func (k *Kernel) Degree() int { return k.degree }

// Deriv returns the derivative order.
func (k *Kernel) Deriv() int { return k.deriv }

// HalfWidth returns (window-1)/2.
func (k *Kernel) HalfWidth() int { return (k.window - 1) / 2 }

// Coefficients returns a copy of the interior weights, ordered from offset
// -HalfWidth to +HalfWidth.
func (k *Kernel) Coefficients() []float64 {
	c := make([]float64, len(k.center))
	copy(c, k.center)
	return c
}

// EdgeCoefficients returns a copy of the weights producing output j of a
// sequence of length n, for j within HalfWidth of either end. ok is false
// for interior indices or n < Window.
func (k *Kernel) EdgeCoefficients(j, n int) (coeffs []float64, ok bool) {
	q := k.HalfWidth()
	if n < k.window || j < 0 || j >= n {
		return nil, false
	}
	var src []float64
	switch {
	case j < q:
		src = k.lead[j]
	case j >= n-q:
		src = k.trail[j-(n-q)]
	default:
		return nil, false
	}
	c := make([]float64, len(src))
	copy(c, src)
	return c, true
}
