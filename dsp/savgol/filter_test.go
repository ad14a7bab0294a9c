package savgol

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-sgpeak/dsp/conv"
	"github.com/cwbudde/algo-sgpeak/internal/testutil"
)

// referenceSmooth fits each window independently and evaluates the fitted
// polynomial (or its derivative) at the output position.
func referenceSmooth(t *testing.T, x []float64, window, degree, deriv int) []float64 {
	t.Helper()
	n := len(x)
	q := (window - 1) / 2
	out := make([]float64, n)

	fit := func(start int) *mat.VecDense {
		a := mat.NewDense(window, degree+1, nil)
		for k := 0; k < window; k++ {
			p := 1.0
			for j := 0; j <= degree; j++ {
				a.Set(k, j, p)
				p *= float64(k)
			}
		}
		var c mat.VecDense
		if err := c.SolveVec(a, mat.NewVecDense(window, append([]float64(nil), x[start:start+window]...))); err != nil {
			t.Fatalf("reference fit: %v", err)
		}
		return &c
	}
	eval := func(c *mat.VecDense, at float64) float64 {
		v := 0.0
		for j := deriv; j <= degree; j++ {
			f := 1.0
			for i := 0; i < deriv; i++ {
				f *= float64(j - i)
			}
			p := 1.0
			for i := 0; i < j-deriv; i++ {
				p *= at
			}
			v += f * p * c.AtVec(j)
		}
		return v
	}

	for i := 0; i < n; i++ {
		start := i - q
		switch {
		case i < q:
			start = 0
		case i >= n-q:
			start = n - window
		}
		out[i] = eval(fit(start), float64(i-start))
	}
	return out
}

func TestApply_MatchesReferenceFit(t *testing.T) {
	x := testutil.DeterministicNoise(3, 2, 64)
	cases := []struct{ window, degree, deriv int }{
		{5, 1, 0},
		{5, 1, 1},
		{11, 3, 0},
		{11, 3, 1},
		{9, 2, 2},
		{21, 0, 0},
	}
	for _, c := range cases {
		k, err := Design(c.window, c.degree, c.deriv)
		if err != nil {
			t.Fatalf("Design%v: %v", c, err)
		}
		got, err := k.Apply(x, conv.MethodDirect)
		if err != nil {
			t.Fatalf("Apply%v: %v", c, err)
		}
		want := referenceSmooth(t, x, c.window, c.degree, c.deriv)
		testutil.RequireSliceNearlyEqual(t, got, want, 1e-9)
	}
}

func TestApply_ConstantIsPreserved(t *testing.T) {
	x := testutil.DC(-1.25, 500)
	for _, degree := range []int{0, 1, 2, 3} {
		got, err := Smooth(x, 151, degree, 0)
		if err != nil {
			t.Fatalf("Smooth: %v", err)
		}
		testutil.RequireSliceNearlyEqual(t, got, x, 1e-9)
	}
}

func TestApply_LengthPreserved(t *testing.T) {
	for _, n := range []int{151, 152, 301, 1000} {
		x := testutil.DeterministicNoise(int64(n), 1, n)
		for deriv := 0; deriv <= 1; deriv++ {
			got, err := Smooth(x, 151, 1, deriv)
			if err != nil {
				t.Fatalf("Smooth(n=%d): %v", n, err)
			}
			if len(got) != n {
				t.Fatalf("len = %d, want %d", len(got), n)
			}
			testutil.RequireFinite(t, got)
		}
	}
}

func TestApply_RampDerivativeIsSlope(t *testing.T) {
	x := testutil.Ramp(3, 0.75, 800)
	for _, degree := range []int{1, 2, 3} {
		got, err := Smooth(x, 151, degree, 1)
		if err != nil {
			t.Fatalf("Smooth: %v", err)
		}
		testutil.RequireSliceNearlyEqual(t, got, testutil.DC(0.75, len(x)), 1e-9)
	}
}

func TestApply_PolynomialPassesThrough(t *testing.T) {
	x := testutil.Polynomial([]float64{1, -0.5, 0.01}, 200)
	got, err := Smooth(x, 21, 2, 0)
	if err != nil {
		t.Fatalf("Smooth: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, got, x, 1e-7)
}

func TestApply_FFTMatchesDirect(t *testing.T) {
	x := testutil.DeterministicNoise(5, 4, 30000)
	direct, err := Smooth(x, 151, 2, 1)
	if err != nil {
		t.Fatalf("direct: %v", err)
	}
	fft, err := Smooth(x, 151, 2, 1, WithFFT())
	if err != nil {
		t.Fatalf("fft: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, fft, direct, 1e-9)
}

func TestApply_Errors(t *testing.T) {
	if _, err := Smooth(make([]float64, 100), 151, 1, 0); !errors.Is(err, ErrInsufficientLength) {
		t.Errorf("short input: got %v, want ErrInsufficientLength", err)
	}
	if _, err := Smooth(make([]float64, 100), 4, 1, 0); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("even window: got %v, want ErrInvalidConfiguration", err)
	}

	k, err := Design(3, 1, 0)
	if err != nil {
		t.Fatalf("Design: %v", err)
	}
	if err := k.ApplyTo(make([]float64, 4), make([]float64, 5), conv.MethodDirect); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("dst mismatch: got %v, want ErrLengthMismatch", err)
	}
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	x := testutil.DeterministicNoise(9, 1, 300)
	orig := append([]float64(nil), x...)
	if _, err := Smooth(x, 31, 2, 1); err != nil {
		t.Fatalf("Smooth: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, x, orig, 0)
}

func TestSmoother(t *testing.T) {
	s, err := NewSmoother(151, 1)
	if err != nil {
		t.Fatalf("NewSmoother: %v", err)
	}
	if s.Window() != 151 || s.Degree() != 1 || s.HalfWidth() != 75 || s.Method() != conv.MethodDirect {
		t.Fatalf("unexpected smoother parameters")
	}

	x := testutil.Ramp(0, 2, 400)
	v, err := s.Smooth(x)
	if err != nil {
		t.Fatalf("Smooth: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, v, x, 1e-9)

	d, err := s.Derivative(x)
	if err != nil {
		t.Fatalf("Derivative: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, d, testutil.DC(2, len(x)), 1e-9)

	if _, err := NewSmoother(8, 1); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("even window: got %v", err)
	}
	f, err := NewSmoother(5, 1, WithFFT())
	if err != nil || f.Method() != conv.MethodFFT {
		t.Fatalf("WithFFT not applied: %v", err)
	}
}
