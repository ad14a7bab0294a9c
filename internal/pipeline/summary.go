package pipeline

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/cwbudde/algo-sgpeak/dsp/peak"
)

// Summary describes the value and spacing distribution of a peak set.
type Summary struct {
	Count  int
	Mean   float64
	Median float64
	Max    float64
	P90    float64
	// MeanSpacing is the mean distance between neighbouring peaks in
	// position order; zero with fewer than two peaks.
	MeanSpacing float64
}

// Summarize computes a Summary. An empty set gives the zero Summary.
func Summarize(peaks []peak.Peak) Summary {
	s := Summary{Count: len(peaks)}
	if len(peaks) == 0 {
		return s
	}

	values := make(stats.Float64Data, len(peaks))
	positions := make([]int, len(peaks))
	for i, p := range peaks {
		values[i] = p.Value
		positions[i] = p.Position
	}

	s.Mean, _ = stats.Mean(values)
	s.Median, _ = stats.Median(values)
	s.Max, _ = stats.Max(values)
	if p90, err := stats.Percentile(values, 90); err == nil {
		s.P90 = p90
	} else {
		// Too few values for the 90th percentile rank.
		s.P90 = s.Max
	}

	if len(positions) > 1 {
		sort.Ints(positions)
		gaps := make(stats.Float64Data, len(positions)-1)
		for i := 1; i < len(positions); i++ {
			gaps[i-1] = float64(positions[i] - positions[i-1])
		}
		s.MeanSpacing, _ = stats.Mean(gaps)
	}
	return s
}
