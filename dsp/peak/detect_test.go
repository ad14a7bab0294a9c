package peak

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/cwbudde/algo-sgpeak/dsp/savgol"
	"github.com/cwbudde/algo-sgpeak/internal/testutil"
)

func newTestDetector(t *testing.T, opts ...Option) *Detector {
	t.Helper()
	d, err := NewDetector(ApplyOptions(opts...))
	if err != nil {
		t.Fatalf("NewDetector: %v", err)
	}
	return d
}

func smoothedDC(t *testing.T, d *Detector, value float64, n int) []float64 {
	t.Helper()
	s, err := d.SmoothAux(testutil.DC(value, n))
	if err != nil {
		t.Fatalf("SmoothAux: %v", err)
	}
	return s
}

func TestFind_SingleBump(t *testing.T) {
	d := newTestDetector(t, WithWindow(21), WithDegree(2))
	primary := testutil.HannBump(2000, 1000, 200, 5)
	aux := smoothedDC(t, d, 1, len(primary))

	peaks, err := d.Find(primary, aux, aux, 300)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(peaks) != 1 {
		t.Fatalf("got %d peaks, want 1: %v", len(peaks), peaks)
	}
	if peaks[0].Position != 1300 {
		t.Errorf("position: got %d, want 1300", peaks[0].Position)
	}
	testutil.RequireNearlyEqual(t, "value", peaks[0].Value, 5, 0.01)
}

func TestFind_GaussianBump(t *testing.T) {
	d := newTestDetector(t, WithWindow(51), WithDegree(2))
	primary := testutil.GaussianBump(4000, 2000, 150, 3)
	aux := smoothedDC(t, d, 1, len(primary))

	peaks, err := d.Find(primary, aux, aux, 0)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(peaks) != 1 {
		t.Fatalf("got %d peaks, want 1: %v", len(peaks), peaks)
	}

	s, err := d.Smoother().Smooth(primary)
	if err != nil {
		t.Fatalf("Smooth: %v", err)
	}
	if want := testutil.ArgMax(s); peaks[0].Position != want || want != 2000 {
		t.Errorf("position: got %d, smoothed maximum at %d, want 2000", peaks[0].Position, want)
	}
	testutil.RequireNearlyEqual(t, "value", peaks[0].Value, s[2000], 0)
}

func TestFind_TwoBumps(t *testing.T) {
	d := newTestDetector(t, WithWindow(31), WithDegree(1))
	primary := testutil.HannBump(4000, 1000, 300, 3)
	testutil.AddHannBump(primary, 2800, 300, 6)
	aux := smoothedDC(t, d, 1, len(primary))

	peaks, err := d.Find(primary, aux, aux, 0)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(peaks) != 2 {
		t.Fatalf("got %d peaks, want 2: %v", len(peaks), peaks)
	}
	if peaks[0].Position != 1000 || peaks[1].Position != 2800 {
		t.Errorf("positions: got %d and %d, want 1000 and 2800", peaks[0].Position, peaks[1].Position)
	}
	if peaks[0].Value >= peaks[1].Value {
		t.Errorf("values out of order: %v", peaks)
	}
}

func TestFind_AuxiliaryThreshold(t *testing.T) {
	d := newTestDetector(t, WithWindow(21), WithDegree(2), WithThresholds(0, 0.5))
	primary := testutil.HannBump(2000, 1000, 200, 5)
	high := smoothedDC(t, d, 1, len(primary))
	low := testutil.DC(0.5, len(primary))

	tests := []struct {
		name       string
		aux1, aux2 []float64
		want       int
	}{
		{"both above", high, high, 1},
		{"first at threshold", low, high, 0},
		{"second at threshold", high, low, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			peaks, err := d.Find(primary, tt.aux1, tt.aux2, 0)
			if err != nil {
				t.Fatalf("Find: %v", err)
			}
			if len(peaks) != tt.want {
				t.Fatalf("got %d peaks, want %d", len(peaks), tt.want)
			}
		})
	}
}

func TestFind_PrimaryThresholdIsStrict(t *testing.T) {
	primary := testutil.HannBump(2000, 1000, 200, 5)
	aux := testutil.DC(1, len(primary))

	cfg := ApplyOptions(WithWindow(21), WithDegree(2))
	peaks, err := Find(primary, aux, aux, cfg, 0)
	if err != nil || len(peaks) != 1 {
		t.Fatalf("baseline: %v %v", peaks, err)
	}

	cfg.PrimaryThreshold = peaks[0].Value
	peaks, err = Find(primary, aux, aux, cfg, 0)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(peaks) != 0 {
		t.Fatalf("value equal to threshold was admitted: %v", peaks)
	}
}

func TestFind_FlatInputHasNoPeaks(t *testing.T) {
	for _, value := range []float64{0, 2.5} {
		primary := testutil.DC(value, 1000)
		aux := testutil.DC(1, len(primary))
		peaks, err := Find(primary, aux, aux, ApplyOptions(WithWindow(21)), 0)
		if err != nil {
			t.Fatalf("Find: %v", err)
		}
		if value == 0 && len(peaks) != 0 {
			t.Fatalf("zero track produced peaks: %v", peaks)
		}
		for _, p := range peaks {
			if p.Value > value+1e-9 {
				t.Fatalf("flat track produced a peak above its level: %v", p)
			}
		}
	}
}

func TestFind_ShortInputIsEmpty(t *testing.T) {
	cfg := ApplyOptions(WithWindow(21))
	for _, n := range []int{0, 5, 21, cfg.MinLength() - 1} {
		x := testutil.HannBump(n, n/2, 10, 1)
		aux := testutil.DC(1, n)
		peaks, err := Find(x, aux, aux, cfg, 0)
		if err != nil {
			t.Fatalf("n=%d: unexpected error %v", n, err)
		}
		if len(peaks) != 0 {
			t.Fatalf("n=%d: got %v, want none", n, peaks)
		}
	}
}

func TestFind_MinimumLengthScansOneIndex(t *testing.T) {
	// q = 1, so 4q+1 = 5 samples leave exactly index 2 in the scan range.
	d := newTestDetector(t, WithWindow(3), WithDegree(2))
	primary := []float64{0, 1, 4, 2, 0}
	aux := []float64{1, 1, 1, 1, 1}

	peaks, err := d.Find(primary, aux, aux, 10)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(peaks) != 1 || peaks[0].Position != 12 {
		t.Fatalf("got %v, want one peak at 12", peaks)
	}
	testutil.RequireNearlyEqual(t, "value", peaks[0].Value, 4, 1e-12)
}

func TestFind_Misaligned(t *testing.T) {
	d := newTestDetector(t, WithWindow(5))
	_, err := d.Find(make([]float64, 100), make([]float64, 99), make([]float64, 100), 0)
	if !errors.Is(err, ErrMisalignedInputs) {
		t.Fatalf("got %v, want ErrMisalignedInputs", err)
	}
}

func TestNewDetector_InvalidConfig(t *testing.T) {
	tests := []Config{
		ApplyOptions(WithWindow(150)),
		ApplyOptions(WithWindow(5), WithDegree(5)),
		ApplyOptions(WithMergeWindow(-1)),
	}
	for _, cfg := range tests {
		_, err := NewDetector(cfg)
		if !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("%v: got %v, want ErrInvalidConfiguration", cfg, err)
		}
	}
	_, err := NewDetector(ApplyOptions(WithWindow(4)))
	if !errors.Is(err, savgol.ErrInvalidConfiguration) {
		t.Errorf("smoother cause not wrapped: %v", err)
	}
}

func TestCandidates_ScanRange(t *testing.T) {
	// q = 1: only i in [2, 7] is scanned for n = 10.
	s := []float64{0, 5, 0, 0, 0, 0, 0, 0, 5, 0}
	slope := []float64{1, -1, 0, 0, 0, 0, 0, 0, 1, -1}
	if got := candidates(s, slope, 1); len(got) != 0 {
		t.Fatalf("crossings outside the scan range were used: %v", got)
	}

	slope[7] = 1
	slope[8] = -1
	if got := candidates(s, slope, 1); !reflect.DeepEqual(got, []int{8}) {
		t.Fatalf("got %v, want [8]", got)
	}
}

func TestAdmit_DropsRepeatedIndex(t *testing.T) {
	s := []float64{0, 0, 1, 3, 9, 3, 2, 1, 0, 0}
	slope := []float64{0, 0, 0, 1, -1, 1, -1, 0, 0, 0}
	aux := testutil.DC(1, len(s))
	cfg := ApplyOptions(WithWindow(3))

	if got := candidates(s, slope, 1); !reflect.DeepEqual(got, []int{4, 4}) {
		t.Fatalf("candidates: got %v, want [4 4]", got)
	}
	if got := admit(s, slope, aux, aux, cfg); !reflect.DeepEqual(got, []int{4}) {
		t.Fatalf("admit: got %v, want [4]", got)
	}
}

func TestArgmaxFirstWins(t *testing.T) {
	if got := argmax([]float64{1, 4, 4, 2}); got != 1 {
		t.Fatalf("got %d, want 1", got)
	}
	if got := argmax([]float64{math.Inf(-1)}); got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
}

// A 10 kb track starting at position 5000 with one bump of height 10 at
// index 5000 must yield a single peak at absolute position 10000. A 151-point
// linear fit over a raised cosine of half-width 1000 attenuates the top by
// about 0.5%.
func TestFind_EndToEnd(t *testing.T) {
	const (
		n      = 10000
		offset = 5000
	)
	cfg := DefaultConfig()
	primary := testutil.HannBump(n, 5000, 1000, 10)
	aux1 := testutil.DC(1, n)
	aux2 := testutil.DC(2, n)

	peaks, err := Find(primary, aux1, aux2, cfg, offset)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	merged, err := Merge(peaks, cfg.MergeWindow)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(merged) != 1 {
		t.Fatalf("got %d peaks, want 1: %v", len(merged), merged)
	}

	q := cfg.HalfWidth()
	if d := merged[0].Position - 10000; d < -q || d > q {
		t.Errorf("position %d not within %d of 10000", merged[0].Position, q)
	}
	testutil.RequireNearlyEqual(t, "value", merged[0].Value, 10, 0.1)
}
