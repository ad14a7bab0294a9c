package peak

import "fmt"

// Merge collapses peaks that lie within window positions of a stronger peak.
//
// For every input peak p, in input order, the neighbourhood is the set of
// input peaks with position in [p.Position-window, p.Position+window]. Its
// representative is the peak of maximum value; among equal values the lowest
// position wins, which for the position-sorted output of Find is also the
// first in input order. The representative is appended unless a peak at the
// same position is already in the result, so the output keeps discovery
// order and is not sorted.
//
// Peak counts after thresholding are small, so the quadratic scan is fine.
func Merge(peaks []Peak, window int) ([]Peak, error) {
	if window < 0 {
		return nil, fmt.Errorf("%w: merge window must be >= 0: %d", ErrInvalidConfiguration, window)
	}

	out := make([]Peak, 0, len(peaks))
	seen := make(map[int]struct{}, len(peaks))
	for _, p := range peaks {
		lo, hi := p.Position-window, p.Position+window
		best := -1
		for j, c := range peaks {
			if c.Position < lo || c.Position > hi {
				continue
			}
			if best < 0 || c.Value > peaks[best].Value ||
				(c.Value == peaks[best].Value && c.Position < peaks[best].Position) {
				best = j
			}
		}

		rep := peaks[best]
		if _, dup := seen[rep.Position]; dup {
			continue
		}
		seen[rep.Position] = struct{}{}
		out = append(out, rep)
	}
	return out, nil
}

// MergeXY is Merge over parallel position and value slices.
func MergeXY(positions []int, values []float64, window int) ([]int, []float64, error) {
	if len(positions) != len(values) {
		return nil, nil, fmt.Errorf("%w: %d positions, %d values", ErrMisalignedInputs, len(positions), len(values))
	}
	peaks := make([]Peak, len(positions))
	for i := range positions {
		peaks[i] = Peak{Position: positions[i], Value: values[i]}
	}

	merged, err := Merge(peaks, window)
	if err != nil {
		return nil, nil, err
	}

	outX := make([]int, len(merged))
	outY := make([]float64, len(merged))
	for i, p := range merged {
		outX[i] = p.Position
		outY[i] = p.Value
	}
	return outX, outY, nil
}

// Merge applies the package-level Merge with the detector's merge window.
func (d *Detector) Merge(peaks []Peak) []Peak {
	// MergeWindow was validated by NewDetector.
	out, _ := Merge(peaks, d.cfg.MergeWindow)
	return out
}
