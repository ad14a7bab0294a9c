// Package metrics collects per-run counters for the peak pipeline and
// exports them in the Prometheus text format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sgpeak"

// Result labels for TriplesTotal.
const (
	ResultSucceeded = "succeeded"
	ResultFailed    = "failed"
)

// Stage labels for PeaksTotal.
const (
	StageAdmitted = "admitted"
	StageMerged   = "merged"
)

// Recorder owns a private registry so that batch runs and tests do not
// share state through the global one. A nil *Recorder discards everything.
type Recorder struct {
	registry *prometheus.Registry

	triples  *prometheus.CounterVec
	peaks    *prometheus.CounterVec
	samples  prometheus.Counter
	duration prometheus.Histogram
}

// NewRecorder builds a Recorder with all collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		triples: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "triples_total",
				Help:      "Processed PRI/IGI/IGI triples by result",
			},
			[]string{"result"},
		),
		peaks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "peaks_total",
				Help:      "Peaks by pipeline stage and strand",
			},
			[]string{"stage", "strand"},
		),
		samples: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "samples_total",
				Help:      "Primary track samples scanned",
			},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "pipeline",
				Name:      "triple_duration_seconds",
				Help:      "Wall time spent on one triple",
				Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
			},
		),
	}
	r.registry.MustRegister(r.triples, r.peaks, r.samples, r.duration)
	return r
}

// Registry exposes the underlying registry, e.g. for an HTTP handler.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveTriple records a successfully processed triple.
func (r *Recorder) ObserveTriple(strand string, samples, admitted, merged int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.triples.WithLabelValues(ResultSucceeded).Inc()
	r.peaks.WithLabelValues(StageAdmitted, strand).Add(float64(admitted))
	r.peaks.WithLabelValues(StageMerged, strand).Add(float64(merged))
	r.samples.Add(float64(samples))
	r.duration.Observe(elapsed.Seconds())
}

// ObserveFailure records a triple that could not be processed.
func (r *Recorder) ObserveFailure(elapsed time.Duration) {
	if r == nil {
		return
	}
	r.triples.WithLabelValues(ResultFailed).Inc()
	r.duration.Observe(elapsed.Seconds())
}

// WriteTextfile writes all metrics to path in the text exposition format,
// suitable for the node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
