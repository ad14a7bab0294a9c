package app

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/cwbudde/algo-sgpeak/cmd/sgpeak/app/options"
	"github.com/cwbudde/algo-sgpeak/dsp/conv"
	"github.com/cwbudde/algo-sgpeak/internal/metrics"
	"github.com/cwbudde/algo-sgpeak/internal/pipeline"
	"github.com/cwbudde/algo-sgpeak/internal/scorefile"
)

// NewFindCommand creates the find subcommand.
func NewFindCommand(ctx context.Context) *cobra.Command {
	opts := options.NewOptions()

	cmd := &cobra.Command{
		Use:   "find [flags] PRI IGI IGI [PRI IGI IGI ...]",
		Short: "Detect and merge peaks in score files",
		Long: `Files are grouped by name: "PRI" marks the primary score, "IGI" the two
auxiliary scores, and "forward" or anything else the strand. The k-th PRI
file of a strand is paired with the (2k)-th and (2k+1)-th IGI files of the
same strand. Output files are named <chromosome>_peak_<strand>.txt.`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Complete(); err != nil {
				return err
			}
			if err := opts.Validate(); err != nil {
				return err
			}
			cmd.SilenceUsage = true

			cmd.Flags().VisitAll(func(flag *pflag.Flag) {
				klog.V(4).InfoS("Flag", "name", flag.Name, "value", flag.Value.String())
			})

			return RunFind(ctx, opts, args)
		},
	}

	opts.AddFlags(cmd.Flags())
	return cmd
}

// RunFind processes all score files named in args.
func RunFind(ctx context.Context, opts *options.Options, args []string) error {
	start := time.Now()

	triples, err := scorefile.GroupTriples(args)
	if err != nil {
		return err
	}
	if err := pipeline.EnsureOutputDir(opts.OutputDir); err != nil {
		return err
	}

	var rec *metrics.Recorder
	if opts.MetricsFile != "" {
		rec = metrics.NewRecorder()
	}

	method := conv.MethodDirect
	if opts.FFT {
		method = conv.MethodFFT
	}

	p, err := pipeline.New(pipeline.Options{
		Config:          opts.Config,
		OutputDir:       opts.OutputDir,
		Jobs:            opts.Jobs,
		Method:          method,
		ContinueOnError: opts.KeepGoing,
		Provenance:      []string{"sgpeak find"},
		Metrics:         rec,
	})
	if err != nil {
		return err
	}
	klog.InfoS("Starting run", "run", p.RunID(), "triples", len(triples), "config", opts.Config.String(), "method", method)

	reports, runErr := p.Run(ctx, triples)

	if err := rec.WriteTextfile(opts.MetricsFile); err != nil {
		klog.ErrorS(err, "Failed to write metrics", "path", opts.MetricsFile)
	}

	written := 0
	for _, r := range reports {
		if r.Err == nil && r.Output != "" {
			written++
		}
	}
	klog.InfoS("Run finished", "run", p.RunID(), "triples", len(triples), "written", written, "elapsed", time.Since(start))
	return runErr
}
