// Package score holds the per-alignment result the scoring pass produces.
package score

// Result is the score of one fragment alignment.
type Result struct {
	Query   string
	Target  string
	Orphan  string // "paired" | "left" | "right"
	LogLike float64
	Indel   bool
}
