package cmdutil

import (
	"context"

	"alnmodel/internal/pipeline"
	"alnmodel/internal/reference"
	"alnmodel/internal/score"
)

// RunStream runs the scoring pipeline and streams every result via send.
// It returns the number of results sent, the pass statistics and the first
// error encountered.
func RunStream(
	ctx context.Context,
	cfg pipeline.Config,
	files []string,
	refs *reference.Set,
	m pipeline.Model,
	send func(score.Result) error,
) (int, pipeline.Stats, error) {
	total := 0
	st, err := pipeline.Score(ctx, cfg, files, refs, m, func(r score.Result) error {
		if err := send(r); err != nil {
			return err
		}
		total++
		return nil
	})
	return total, st, err
}
