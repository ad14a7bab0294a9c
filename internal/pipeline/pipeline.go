// Package pipeline runs peak detection over PRI/IGI/IGI triples of score
// files and writes one peak file per triple.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/cwbudde/algo-sgpeak/dsp/conv"
	"github.com/cwbudde/algo-sgpeak/dsp/peak"
	"github.com/cwbudde/algo-sgpeak/dsp/savgol"
	"github.com/cwbudde/algo-sgpeak/internal/metrics"
	"github.com/cwbudde/algo-sgpeak/internal/scorefile"
)

// ErrOutputConflict is returned for a triple whose peak file was already
// claimed by another triple of the same run, i.e. both share chromosome
// and strand.
var ErrOutputConflict = errors.New("pipeline: output file claimed by another triple")

// Options configures a Pipeline.
type Options struct {
	Config peak.Config

	// OutputDir receives the peak files. Empty means the working directory.
	OutputDir string

	// Jobs is the number of triples processed concurrently; values below 1
	// mean 1.
	Jobs int

	// Method selects the convolution used for smoothing.
	Method conv.Method

	// ContinueOnError keeps processing the remaining triples after a
	// failure. All failures are returned joined.
	ContinueOnError bool

	// Provenance lines open every peak file, before the input paths.
	Provenance []string

	// RunID tags log lines and peak files. Generated when empty.
	RunID string

	// Metrics may be nil.
	Metrics *metrics.Recorder
}

// Report is the outcome of one triple.
type Report struct {
	Triple     scorefile.Triple
	Output     string
	Chromosome string
	Strand     scorefile.Strand

	Samples  int
	Admitted int
	Merged   int
	Summary  Summary
	Elapsed  time.Duration

	Err error
}

// Pipeline processes triples with one shared detector. Each output file is
// written by at most one triple per Run; later triples mapping to the same
// file fail with ErrOutputConflict and write nothing.
type Pipeline struct {
	opts     Options
	detector *peak.Detector

	mu     sync.Mutex
	claims map[string]string // output path -> primary track path
}

// New validates opts and designs the smoothing kernels.
func New(opts Options) (*Pipeline, error) {
	d, err := peak.NewDetector(opts.Config, savgol.WithMethod(opts.Method))
	if err != nil {
		return nil, err
	}
	if opts.Jobs < 1 {
		opts.Jobs = 1
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	return &Pipeline{opts: opts, detector: d, claims: map[string]string{}}, nil
}

// RunID returns the identifier of this run.
func (p *Pipeline) RunID() string {
	return p.opts.RunID
}

// Run processes all triples and returns one report per triple, in input
// order. Unless ContinueOnError is set, the first failure stops the run and
// triples not yet started report the cancellation.
func (p *Pipeline) Run(ctx context.Context, triples []scorefile.Triple) ([]Report, error) {
	reports := make([]Report, len(triples))

	p.mu.Lock()
	p.claims = map[string]string{}
	p.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Jobs)

	for i, t := range triples {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				reports[i] = Report{Triple: t, Err: err}
				return nil
			}

			rep, err := p.Process(gctx, t)
			reports[i] = rep
			if err != nil && !p.opts.ContinueOnError {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return reports, err
	}
	if err := ctx.Err(); err != nil {
		return reports, err
	}

	var errs []error
	for _, r := range reports {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return reports, errors.Join(errs...)
}

// Process reads one triple, detects and merges its peaks and writes the
// peak file. Errors are wrapped with the triple name and also stored in the
// returned Report.
func (p *Pipeline) Process(ctx context.Context, t scorefile.Triple) (rep Report, err error) {
	start := time.Now()
	rep = Report{Triple: t}

	defer func() {
		rep.Elapsed = time.Since(start)
		if err != nil {
			err = fmt.Errorf("triple %s: %w", t.Name(), err)
			rep.Err = err
			p.opts.Metrics.ObserveFailure(rep.Elapsed)
			klog.ErrorS(err, "Triple failed", "run", p.opts.RunID, "elapsed", rep.Elapsed)
			return
		}
		p.opts.Metrics.ObserveTriple(string(rep.Strand), rep.Samples, rep.Admitted, rep.Merged, rep.Elapsed)
	}()

	klog.V(2).InfoS("Processing triple", "run", p.opts.RunID, "primary", t.Primary, "aux1", t.Aux1, "aux2", t.Aux2)

	tracks := make([]*scorefile.Track, 3)
	for i, path := range t.Files() {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if tracks[i], err = scorefile.ReadTrackFile(path); err != nil {
			return rep, err
		}
	}
	pri := tracks[0]
	if pri.Chromosome == "" {
		return rep, fmt.Errorf("%w: %s has no Chromosome line", scorefile.ErrMalformed, t.Primary)
	}
	klog.V(4).InfoS("Loaded tracks", "run", p.opts.RunID, "triple", t.Name(), "start", pri.Start, "samples", pri.Len())

	admitted, merged, err := p.Detect(pri, tracks[1], tracks[2])
	if err != nil {
		return rep, err
	}

	rep.Chromosome = pri.Chromosome
	rep.Strand = pri.Strand
	if rep.Strand == "" {
		rep.Strand = t.Strand
	}
	rep.Samples = pri.Len()
	rep.Admitted = len(admitted)
	rep.Merged = len(merged)
	rep.Summary = Summarize(merged)
	rep.Output = filepath.Join(p.opts.OutputDir, scorefile.PeakFileName(rep.Chromosome, rep.Strand))
	if err := p.claim(rep.Output, t.Primary); err != nil {
		rep.Output = ""
		return rep, err
	}

	if err := scorefile.WritePeakFile(rep.Output, p.header(t, pri, rep.Strand), merged); err != nil {
		return rep, err
	}

	klog.InfoS("Wrote peak file", "run", p.opts.RunID, "triple", t.Name(), "output", rep.Output,
		"admitted", rep.Admitted, "merged", rep.Merged,
		"maxValue", rep.Summary.Max, "meanSpacing", rep.Summary.MeanSpacing,
		"elapsed", time.Since(start))
	return rep, nil
}

// Detect smooths the auxiliary tracks, finds admitted peaks on the primary
// track and merges them. The three tracks must cover the same positions.
func (p *Pipeline) Detect(pri, aux1, aux2 *scorefile.Track) (admitted, merged []peak.Peak, err error) {
	for _, a := range []*scorefile.Track{aux1, aux2} {
		if a.Start != pri.Start || a.Len() != pri.Len() {
			return nil, nil, fmt.Errorf("%w: %s covers [%d, %d), %s covers [%d, %d)",
				peak.ErrMisalignedInputs, trackName(pri), pri.Start, pri.End(), trackName(a), a.Start, a.End())
		}
	}

	s1, err := p.detector.SmoothAux(aux1.Values)
	if err != nil {
		return nil, nil, err
	}
	s2, err := p.detector.SmoothAux(aux2.Values)
	if err != nil {
		return nil, nil, err
	}

	admitted, err = p.detector.Find(pri.Values, s1, s2, pri.Start)
	if err != nil {
		return nil, nil, err
	}
	return admitted, p.detector.Merge(admitted), nil
}

func (p *Pipeline) header(t scorefile.Triple, pri *scorefile.Track, strand scorefile.Strand) scorefile.Header {
	prov := make([]string, 0, len(p.opts.Provenance)+4)
	prov = append(prov, p.opts.Provenance...)
	prov = append(prov, "Run ID: "+p.opts.RunID)
	prov = append(prov, t.Files()...)
	return scorefile.Header{
		Provenance: prov,
		Chromosome: pri.Chromosome,
		Score:      pri.Score,
		Strand:     strand,
		Config:     p.opts.Config,
	}
}

// claim reserves path for the triple whose primary track is primary.
func (p *Pipeline) claim(path, primary string) error {
	key := filepath.Clean(path)

	p.mu.Lock()
	defer p.mu.Unlock()
	if owner, ok := p.claims[key]; ok {
		return fmt.Errorf("%w: %s is written for %s, %s maps to the same file",
			ErrOutputConflict, path, owner, primary)
	}
	p.claims[key] = primary
	return nil
}

func trackName(t *scorefile.Track) string {
	if t.Source != "" {
		return filepath.Base(t.Source)
	}
	return "track"
}

// EnsureOutputDir creates dir if needed.
func EnsureOutputDir(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("pipeline: output dir %s: %w", dir, err)
	}
	return nil
}
