package pipeline

import "alnmodel/internal/errmodel"

// Model is the capability the pipeline needs; *errmodel.Model satisfies it.
type Model interface {
	Score(h errmodel.Hit, ref errmodel.Reference) float64
	Train(h errmodel.Hit, ref errmodel.Reference, posterior, mass float64)
	HasIndel(h errmodel.Hit) bool
}
