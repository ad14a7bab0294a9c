package testutil

import (
	"math"
	"math/rand"
)

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ramp generates intercept + slope*i.
func Ramp(intercept, slope float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = intercept + slope*float64(i)
	}
	return out
}

// Polynomial evaluates sum_k coeffs[k] * i^k at every index.
func Polynomial(coeffs []float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		x := float64(i)
		p := 1.0
		for _, c := range coeffs {
			out[i] += c * p
			p *= x
		}
	}
	return out
}

// HannBump returns a zero signal with one raised-cosine bump of the given
// amplitude centred on center. Samples further than halfWidth from the
// centre are exactly zero.
func HannBump(length, center, halfWidth int, amplitude float64) []float64 {
	out := make([]float64, length)
	AddHannBump(out, center, halfWidth, amplitude)
	return out
}

// AddHannBump adds a raised-cosine bump to dst in place.
func AddHannBump(dst []float64, center, halfWidth int, amplitude float64) {
	if halfWidth <= 0 {
		return
	}
	lo := max(center-halfWidth+1, 0)
	hi := min(center+halfWidth-1, len(dst)-1)
	for i := lo; i <= hi; i++ {
		u := float64(i-center) / float64(halfWidth)
		dst[i] += amplitude * 0.5 * (1 + math.Cos(math.Pi*u))
	}
}

// GaussianBump returns amplitude * exp(-(i-center)^2 / (2 sigma^2)).
func GaussianBump(length, center int, sigma, amplitude float64) []float64 {
	out := make([]float64, length)
	for i := range out {
		d := float64(i - center)
		out[i] = amplitude * math.Exp(-d*d/(2*sigma*sigma))
	}
	return out
}
