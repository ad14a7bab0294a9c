package peak

import (
	"fmt"

	"github.com/cwbudde/algo-sgpeak/dsp/savgol"
)

// Peak is a detected local maximum.
type Peak struct {
	// Position is the absolute coordinate: array index + start offset.
	Position int
	// Value is the smoothed primary value at Position.
	Value float64
}

// Detector runs smoothing, candidate search and threshold filtering with a
// fixed Config. A Detector is safe for concurrent use.
type Detector struct {
	cfg      Config
	smoother *savgol.Smoother
}

// NewDetector validates cfg and designs its smoothing kernels.
func NewDetector(cfg Config, opts ...savgol.Option) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s, err := savgol.NewSmoother(cfg.Window, cfg.Degree, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	return &Detector{cfg: cfg, smoother: s}, nil
}

// Config returns the detector configuration.
func (d *Detector) Config() Config {
	return d.cfg
}

// Smoother returns the value/derivative smoother shared by all tracks.
func (d *Detector) Smoother() *savgol.Smoother {
	return d.smoother
}

// SmoothAux smooths an auxiliary track in value mode. Tracks shorter than
// the smoothing window come back as-is; Find never reads them because
// such tracks have an empty scan range.
func (d *Detector) SmoothAux(x []float64) ([]float64, error) {
	if len(x) < d.cfg.Window {
		return x, nil
	}
	return d.smoother.Smooth(x)
}

// Find returns the admitted peaks of primary in increasing position order.
//
// aux1 and aux2 must already be smoothed with the same window and degree
// (see SmoothAux) and must have the same length as primary. A primary track
// shorter than 4q+1 yields no peaks and no error.
func (d *Detector) Find(primary, aux1, aux2 []float64, startOffset int) ([]Peak, error) {
	if len(aux1) != len(primary) || len(aux2) != len(primary) {
		return nil, fmt.Errorf("%w: primary %d, aux %d and %d samples",
			ErrMisalignedInputs, len(primary), len(aux1), len(aux2))
	}
	if len(primary) < d.cfg.MinLength() {
		return []Peak{}, nil
	}

	s, err := d.smoother.Smooth(primary)
	if err != nil {
		return nil, err
	}
	slope, err := d.smoother.Derivative(primary)
	if err != nil {
		return nil, err
	}

	idx := admit(s, slope, aux1, aux2, d.cfg)
	peaks := make([]Peak, len(idx))
	for i, r := range idx {
		peaks[i] = Peak{Position: r + startOffset, Value: s[r]}
	}
	return peaks, nil
}

// Find is a one-shot form of Detector.Find that also smooths aux1 and aux2.
func Find(primary, aux1, aux2 []float64, cfg Config, startOffset int) ([]Peak, error) {
	d, err := NewDetector(cfg)
	if err != nil {
		return nil, err
	}
	sa1, err := d.SmoothAux(aux1)
	if err != nil {
		return nil, err
	}
	sa2, err := d.SmoothAux(aux2)
	if err != nil {
		return nil, err
	}
	return d.Find(primary, sa1, sa2, startOffset)
}

// candidates returns, in scan order, the index of the smoothed maximum near
// every falling zero crossing of slope.
func candidates(s, slope []float64, q int) []int {
	var out []int
	hi := min(len(s)-1-2*q, len(s)-2)
	for i := 2 * q; i <= hi; i++ {
		if slope[i] >= 0 && slope[i+1] < 0 {
			out = append(out, argmax(s[i-q:i+q+1])+i-q)
		}
	}
	return out
}

// admit filters candidates by threshold and drops a candidate that resolves
// to the same index as the previously admitted one.
func admit(s, slope, aux1, aux2 []float64, cfg Config) []int {
	var out []int
	for _, r := range candidates(s, slope, cfg.HalfWidth()) {
		if !(s[r] > cfg.PrimaryThreshold && aux1[r] > cfg.AuxThreshold && aux2[r] > cfg.AuxThreshold) {
			continue
		}
		if len(out) > 0 && out[len(out)-1] == r {
			continue
		}
		out = append(out, r)
	}
	return out
}

// argmax returns the index of the first maximum.
func argmax(x []float64) int {
	best := 0
	for i := 1; i < len(x); i++ {
		if x[i] > x[best] {
			best = i
		}
	}
	return best
}
