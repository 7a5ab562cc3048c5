package pipeline

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"alnmodel/internal/logmath"
	"alnmodel/internal/metrics"
	"alnmodel/internal/reference"
	"alnmodel/internal/samio"
	"alnmodel/internal/score"
)

// Config controls the pipeline.
type Config struct {
	Threads int // number of worker goroutines (>=1)
	Readers int // BAM decompression goroutines per file (0 = default)

	Metrics *metrics.Recorder // optional
	Logger  *slog.Logger      // optional; slog.Default() when nil
}

// Stats summarizes one pass.
type Stats struct {
	Groups        int64
	Alignments    int64
	MissingTarget int64
}

type counters struct {
	groups, alignments, missing atomic.Int64
}

func (c *counters) stats() Stats {
	return Stats{Groups: c.groups.Load(), Alignments: c.alignments.Load(), MissingTarget: c.missing.Load()}
}

// Score scores every alignment in files and calls visit once per alignment
// from a single goroutine. Results arrive in no particular order.
// It returns the first error encountered (including context cancellation).
func Score(
	ctx context.Context,
	cfg Config,
	files []string,
	refs *reference.Set,
	m Model,
	visit func(score.Result) error,
) (Stats, error) {
	var c counters
	err := run(ctx, cfg, files, func(g samio.Group) []score.Result {
		c.groups.Add(1)
		out := make([]score.Result, 0, len(g.Fragments))
		for _, f := range g.Fragments {
			ref, ok := lookup(cfg, refs, g.Name, f)
			if !ok {
				c.missing.Add(1)
				continue
			}
			c.alignments.Add(1)
			ll := m.Score(f, ref)
			cfg.Metrics.Hit("score")
			cfg.Metrics.Scored(ll)
			out = append(out, score.Result{
				Query:   g.Name,
				Target:  f.Target(),
				Orphan:  f.Orphan.String(),
				LogLike: ll,
				Indel:   m.HasIndel(f),
			})
		}
		return out
	}, visit)
	return c.stats(), err
}

// Train feeds every alignment in files to the model once. The alignments of
// a query share its mass equally: each gets posterior log(1/k) for k
// alignments to known targets, and mass LogOne.
func Train(
	ctx context.Context,
	cfg Config,
	files []string,
	refs *reference.Set,
	m Model,
) (Stats, error) {
	var c counters
	err := run(ctx, cfg, files, func(g samio.Group) []score.Result {
		c.groups.Add(1)
		type job struct {
			f   *samio.Fragment
			ref *reference.Transcript
		}
		jobs := make([]job, 0, len(g.Fragments))
		for _, f := range g.Fragments {
			ref, ok := lookup(cfg, refs, g.Name, f)
			if !ok {
				c.missing.Add(1)
				continue
			}
			jobs = append(jobs, job{f, ref})
		}
		if len(jobs) == 0 {
			return nil
		}
		posterior := math.Log(1 / float64(len(jobs)))
		for _, j := range jobs {
			m.Train(j.f, j.ref, posterior, logmath.LogOne)
			cfg.Metrics.Hit("train")
		}
		c.alignments.Add(int64(len(jobs)))
		return nil
	}, func(score.Result) error { return nil })
	return c.stats(), err
}

func lookup(cfg Config, refs *reference.Set, query string, f *samio.Fragment) (*reference.Transcript, bool) {
	ref, ok := refs.Get(f.Target())
	if !ok {
		cfg.Metrics.MissingTarget()
		logger(cfg).Debug("alignment target not in reference set", "query", query, "target", f.Target())
	}
	return ref, ok
}

func logger(cfg Config) *slog.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return slog.Default()
}

// run wires feeder → workers → collector. process runs on the workers;
// visit runs on the calling goroutine only.
func run(
	parent context.Context,
	cfg Config,
	files []string,
	process func(samio.Group) []score.Result,
	visit func(score.Result) error,
) error {
	threads := max(cfg.Threads, 1)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	jobs := make(chan samio.Group, threads*2)
	results := make(chan []score.Result, threads*2)

	// Feed work
	g.Go(func() error {
		defer close(jobs)
		for _, fn := range files {
			if err := feed(gctx, fn, cfg.Readers, jobs); err != nil {
				return err
			}
		}
		return nil
	})

	// Workers
	var wg sync.WaitGroup
	wg.Add(threads)
	for w := 0; w < threads; w++ {
		g.Go(func() error {
			defer wg.Done()
			for grp := range jobs {
				rs := process(grp)
				if len(rs) == 0 {
					continue
				}
				select {
				case results <- rs:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	// Collector
	var verr error
	for rs := range results {
		if verr != nil {
			continue
		}
		for _, r := range rs {
			if err := visit(r); err != nil {
				verr = err
				cancel()
				break
			}
		}
	}

	err := g.Wait()
	if verr != nil {
		return verr
	}
	if err != nil {
		return err
	}
	return parent.Err()
}

func feed(ctx context.Context, path string, readers int, jobs chan<- samio.Group) error {
	in, err := samio.Open(path, readers)
	if err != nil {
		return err
	}
	defer in.Close()
	return samio.Groups(ctx, in, func(g samio.Group) error {
		select {
		case jobs <- g:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}
