package peak

import (
	"fmt"

	"github.com/cwbudde/algo-sgpeak/dsp/savgol"
)

// Config holds the run parameters shared by every track of a run.
type Config struct {
	// Window is the smoothing window in samples (odd).
	Window int `json:"window"`
	// Degree is the Savitzky–Golay polynomial degree.
	Degree int `json:"degree"`
	// PrimaryThreshold must be exceeded by the smoothed primary value.
	PrimaryThreshold float64 `json:"primaryThreshold"`
	// AuxThreshold must be exceeded by both smoothed auxiliary values.
	AuxThreshold float64 `json:"auxThreshold"`
	// MergeWindow is the half-width, in positions, of the merge neighbourhood.
	MergeWindow int `json:"mergeWindow"`
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the parameters used for promoter scans.
func DefaultConfig() Config {
	return Config{
		Window:           151,
		Degree:           1,
		PrimaryThreshold: 0,
		AuxThreshold:     0,
		MergeWindow:      100,
	}
}

// WithWindow sets the smoothing window.
func WithWindow(window int) Option {
	return func(c *Config) {
		c.Window = window
	}
}

// WithDegree sets the polynomial degree.
func WithDegree(degree int) Option {
	return func(c *Config) {
		c.Degree = degree
	}
}

// WithThresholds sets the primary and auxiliary thresholds.
func WithThresholds(primary, aux float64) Option {
	return func(c *Config) {
		c.PrimaryThreshold = primary
		c.AuxThreshold = aux
	}
}

// WithMergeWindow sets the merge distance.
func WithMergeWindow(window int) Option {
	return func(c *Config) {
		c.MergeWindow = window
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Validate checks the smoothing parameters and the merge window.
func (c Config) Validate() error {
	if err := savgol.Validate(c.Window, c.Degree); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	if c.MergeWindow < 0 {
		return fmt.Errorf("%w: merge window must be >= 0: %d", ErrInvalidConfiguration, c.MergeWindow)
	}
	return nil
}

// HalfWidth returns q = (Window-1)/2.
func (c Config) HalfWidth() int {
	return (c.Window - 1) / 2
}

// MinLength returns the shortest track with a non-empty scan range, 4q+1.
func (c Config) MinLength() int {
	return 4*c.HalfWidth() + 1
}

func (c Config) String() string {
	return fmt.Sprintf("window=%d degree=%d primary>%g aux>%g merge=%d",
		c.Window, c.Degree, c.PrimaryThreshold, c.AuxThreshold, c.MergeWindow)
}
