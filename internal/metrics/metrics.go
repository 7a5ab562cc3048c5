// Package metrics counts what the pipeline did with each alignment, on a
// private Prometheus registry that can be dumped in text format.
package metrics

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"alnmodel/internal/logmath"
)

// Outcome labels of alnmodel_score_outcomes_total.
const (
	OutcomeZero    = "zero"
	OutcomeEpsilon = "epsilon"
	OutcomeFinite  = "finite"
)

// Recorder is safe for concurrent use. A nil *Recorder records nothing.
type Recorder struct {
	reg      *prometheus.Registry
	hits     *prometheus.CounterVec
	outcomes *prometheus.CounterVec
	logLike  prometheus.Histogram
	missing  prometheus.Counter
}

func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Recorder{
		reg: reg,
		hits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "alnmodel_hits_total",
			Help: "Alignments handed to the error model, by mode.",
		}, []string{"mode"}),
		outcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "alnmodel_score_outcomes_total",
			Help: "Scored alignments by kind of log-likelihood returned.",
		}, []string{"outcome"}),
		logLike: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "alnmodel_walk_log_likelihood",
			Help:    "Finite alignment log-likelihoods.",
			Buckets: []float64{-1000, -500, -200, -100, -50, -20, -10, -5, -1, 0},
		}),
		missing: f.NewCounter(prometheus.CounterOpts{
			Name: "alnmodel_missing_target_total",
			Help: "Alignments whose target is not in the reference set.",
		}),
	}
}

func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// Hit counts one alignment handled in mode ("score" or "train").
func (r *Recorder) Hit(mode string) {
	if r == nil {
		return
	}
	r.hits.WithLabelValues(mode).Inc()
}

// Scored classifies a log-likelihood returned by the model.
func (r *Recorder) Scored(ll float64) {
	if r == nil {
		return
	}
	switch {
	case logmath.IsZero(ll):
		r.outcomes.WithLabelValues(OutcomeZero).Inc()
		return
	case ll == logmath.LogEpsilon:
		r.outcomes.WithLabelValues(OutcomeEpsilon).Inc()
	default:
		r.outcomes.WithLabelValues(OutcomeFinite).Inc()
	}
	if !math.IsInf(ll, 0) && !math.IsNaN(ll) {
		r.logLike.Observe(ll)
	}
}

func (r *Recorder) MissingTarget() {
	if r == nil {
		return
	}
	r.missing.Inc()
}

// WriteText writes every metric in the Prometheus text exposition format.
func (r *Recorder) WriteText(w io.Writer) error {
	mfs, err := r.reg.Gather()
	if err != nil {
		return fmt.Errorf("metrics: gather: %w", err)
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("metrics: write: %w", err)
		}
	}
	return nil
}

// WriteFile writes WriteText output to path.
func (r *Recorder) WriteFile(path string) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.WriteText(fh); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}
