// Package appcore runs the train and score commands once their options are
// parsed. Functions return process exit codes.
package appcore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"alnmodel/internal/cmdutil"
	"alnmodel/internal/config"
	"alnmodel/internal/errmodel"
	"alnmodel/internal/metrics"
	"alnmodel/internal/modelio"
	"alnmodel/internal/pipeline"
	"alnmodel/internal/reference"
	"alnmodel/internal/score"
	"alnmodel/internal/writers"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitRuntime  = 3
	ExitCanceled = 130
)

type Options struct {
	References []string
	Alignments []string
	Settings   config.Settings

	ModelIn    string
	ModelOut   string
	MetricsOut string

	Quiet  bool
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o Options) modelOptions() []errmodel.Option {
	return []errmodel.Option{
		errmodel.WithLogger(o.logger()),
		errmodel.WithTrainOrphansBySide(o.Settings.TrainOrphansBySide),
	}
}

func (o Options) pipelineConfig(rec *metrics.Recorder) pipeline.Config {
	return pipeline.Config{
		Threads: o.Settings.EffectiveThreads(),
		Metrics: rec,
		Logger:  o.logger(),
	}
}

func (o Options) recorder() *metrics.Recorder {
	if o.MetricsOut == "" {
		return nil
	}
	return metrics.New()
}

// WriterFactory starts the result writer of the score command.
type WriterFactory interface {
	Start(out io.Writer, bufSize int) (chan<- score.Result, <-chan error)
}

// Train learns a model from the alignments and saves it to o.ModelOut.
func Train(parent context.Context, stderr io.Writer, o Options) int {
	refs, code := loadReferences(parent, stderr, o)
	if code != ExitOK {
		return code
	}
	m, err := errmodel.New(o.Settings.ModelConfig(), o.modelOptions()...)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitUsage
	}
	m.SetEnabled(!o.Settings.Disable)
	if o.Settings.Disable {
		cmdutil.Warnf(stderr, o.Quiet, "model disabled; %s will hold the untrained prior", o.ModelOut)
	}

	rec := o.recorder()
	log := o.logger()
	for pass := 1; pass <= o.Settings.Passes; pass++ {
		st, err := pipeline.Train(parent, o.pipelineConfig(rec), o.Alignments, refs, m)
		if err != nil {
			return runError(stderr, err)
		}
		log.Info("training pass done", "pass", pass, "groups", st.Groups, "alignments", st.Alignments)
		if pass == 1 {
			reportStats(stderr, o.Quiet, st)
		}
	}
	m.SetBurnedIn(true)

	if err := modelio.Save(o.ModelOut, m); err != nil {
		fmt.Fprintln(stderr, err)
		return ExitRuntime
	}
	return writeMetrics(stderr, o, rec)
}

// Score writes one result per alignment to stdout.
func Score(parent context.Context, stdout, stderr io.Writer, o Options, wf WriterFactory) int {
	outw := bufio.NewWriter(stdout)

	refs, code := loadReferences(parent, stderr, o)
	if code != ExitOK {
		return code
	}
	m, code := scoringModel(stderr, o)
	if code != ExitOK {
		return code
	}

	thr := o.Settings.EffectiveThreads()
	rec := o.recorder()
	inCh, writeErr := wf.Start(outw, thr*4)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	_, st, perr := cmdutil.RunStream(ctx, o.pipelineConfig(rec), o.Alignments, refs, m,
		func(r score.Result) error {
			select {
			case inCh <- r:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	)

	close(inCh)

	if werr := <-writeErr; writers.IsBrokenPipe(werr) {
		return ExitOK
	} else if werr != nil {
		fmt.Fprintln(stderr, werr)
		return ExitRuntime
	}
	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return ExitOK
	} else if e != nil {
		fmt.Fprintln(stderr, e)
		return ExitRuntime
	}

	if perr != nil {
		return runError(stderr, perr)
	}
	reportStats(stderr, o.Quiet, st)
	return writeMetrics(stderr, o, rec)
}

func scoringModel(stderr io.Writer, o Options) (*errmodel.Model, int) {
	var (
		m   *errmodel.Model
		err error
	)
	if o.ModelIn != "" {
		m, err = modelio.Load(o.ModelIn, o.modelOptions()...)
		if err != nil {
			fmt.Fprintln(stderr, err)
			if errors.Is(err, modelio.ErrFormat) {
				return nil, ExitUsage
			}
			return nil, ExitRuntime
		}
		if !m.BurnedIn() {
			cmdutil.Warnf(stderr, o.Quiet, "model %s was not burned in", o.ModelIn)
		}
	} else {
		m, err = errmodel.New(o.Settings.ModelConfig(), o.modelOptions()...)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return nil, ExitUsage
		}
	}
	m.SetEnabled(!o.Settings.Disable)
	return m, ExitOK
}

func loadReferences(ctx context.Context, stderr io.Writer, o Options) (*reference.Set, int) {
	refs, err := reference.Load(ctx, o.References...)
	if err != nil {
		return nil, runError(stderr, err)
	}
	if refs.Len() == 0 {
		cmdutil.Warnf(stderr, o.Quiet, "no transcripts in %v", o.References)
	}
	return refs, ExitOK
}

func reportStats(stderr io.Writer, quiet bool, st pipeline.Stats) {
	if st.MissingTarget > 0 {
		cmdutil.Warnf(stderr, quiet, "%d alignments to targets missing from the reference were skipped", st.MissingTarget)
	}
}

func runError(stderr io.Writer, err error) int {
	if errors.Is(err, context.Canceled) {
		return ExitCanceled
	}
	fmt.Fprintln(stderr, err)
	return ExitRuntime
}

func writeMetrics(stderr io.Writer, o Options, rec *metrics.Recorder) int {
	if rec == nil {
		return ExitOK
	}
	if err := rec.WriteFile(o.MetricsOut); err != nil {
		fmt.Fprintln(stderr, err)
		return ExitRuntime
	}
	return ExitOK
}
