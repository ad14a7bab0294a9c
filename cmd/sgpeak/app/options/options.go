package options

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"k8s.io/klog/v2"
	"sigs.k8s.io/yaml"

	"github.com/cwbudde/algo-sgpeak/dsp/peak"
)

// Options hold the command-line options of the find command.
type Options struct {
	// Config holds the detection parameters.
	Config peak.Config
	// OutputDir receives the peak files.
	OutputDir string
	// Jobs is the number of triples processed concurrently.
	Jobs int
	// FFT selects FFT overlap-add smoothing instead of direct dot products.
	FFT bool
	// KeepGoing continues with the remaining triples after a failure.
	KeepGoing bool
	// MetricsFile, if set, receives Prometheus text-format metrics.
	MetricsFile string
	// ConfigFile is an optional YAML file with run parameters.
	ConfigFile string

	flags *pflag.FlagSet
}

// FileConfig is the layout of the --config file. Flags given on the
// command line take precedence over file values.
type FileConfig struct {
	peak.Config `json:",inline"`

	OutputDir string `json:"outputDir,omitempty"`
	Jobs      int    `json:"jobs,omitempty"`
}

// NewOptions builds options with the default detection parameters.
func NewOptions() *Options {
	return &Options{
		Config: peak.DefaultConfig(),
		Jobs:   1,
	}
}

// AddFlags adds flags to the specified FlagSet.
func (o *Options) AddFlags(flags *pflag.FlagSet) {
	o.flags = flags

	flags.IntVar(&o.Config.Window, "window", o.Config.Window, "Savitzky-Golay smoothing window in samples (odd).")
	flags.IntVar(&o.Config.Degree, "degree", o.Config.Degree, "Savitzky-Golay polynomial degree.")
	flags.Float64Var(&o.Config.PrimaryThreshold, "pri-threshold", o.Config.PrimaryThreshold, "Smoothed PRI value a peak must exceed.")
	flags.Float64Var(&o.Config.AuxThreshold, "igi-threshold", o.Config.AuxThreshold, "Smoothed IGI value both auxiliary tracks must exceed at a peak.")
	flags.IntVar(&o.Config.MergeWindow, "merge-window", o.Config.MergeWindow, "Peaks within this many bases of a stronger peak are merged into it.")
	flags.StringVarP(&o.OutputDir, "output-dir", "o", o.OutputDir, "Directory for peak files. Defaults to the working directory.")
	flags.IntVarP(&o.Jobs, "jobs", "j", o.Jobs, "Number of triples processed concurrently.")
	flags.BoolVar(&o.FFT, "fft", o.FFT, "Smooth with FFT overlap-add instead of direct dot products.")
	flags.BoolVar(&o.KeepGoing, "keep-going", o.KeepGoing, "Continue with remaining triples after a failure.")
	flags.StringVar(&o.MetricsFile, "metrics-file", o.MetricsFile, "Write Prometheus text-format run metrics to this file.")
	flags.StringVar(&o.ConfigFile, "config", o.ConfigFile, "YAML file with run parameters; command-line flags override it.")
}

// Complete loads the config file, if any, underneath the explicit flags.
func (o *Options) Complete() error {
	if o.ConfigFile == "" {
		return nil
	}
	fc, err := LoadFileConfig(o.ConfigFile)
	if err != nil {
		return err
	}

	if !o.changed("window") {
		o.Config.Window = fc.Window
	}
	if !o.changed("degree") {
		o.Config.Degree = fc.Degree
	}
	if !o.changed("pri-threshold") {
		o.Config.PrimaryThreshold = fc.PrimaryThreshold
	}
	if !o.changed("igi-threshold") {
		o.Config.AuxThreshold = fc.AuxThreshold
	}
	if !o.changed("merge-window") {
		o.Config.MergeWindow = fc.MergeWindow
	}
	if !o.changed("output-dir") && fc.OutputDir != "" {
		o.OutputDir = fc.OutputDir
	}
	if !o.changed("jobs") && fc.Jobs != 0 {
		o.Jobs = fc.Jobs
	}
	return nil
}

// Validate all required options.
func (o *Options) Validate() error {
	if err := o.Config.Validate(); err != nil {
		return err
	}
	if o.Jobs < 1 {
		return fmt.Errorf("--jobs must be at least 1, got %d", o.Jobs)
	}
	return nil
}

func (o *Options) changed(name string) bool {
	return o.flags != nil && o.flags.Changed(name)
}

// LoadFileConfig reads a YAML run-parameter file. Keys that are absent keep
// their default values; unknown keys are an error.
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	fc := &FileConfig{Config: peak.DefaultConfig()}
	if err := yaml.UnmarshalStrict(data, fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}

	klog.V(4).InfoS("Loaded config file", "path", path, "config", fc.Config.String())
	return fc, nil
}
