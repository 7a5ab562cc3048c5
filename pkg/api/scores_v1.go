// pkg/api/scores_v1.go
package api

// ScoreV1 is the stable JSON/JSONL schema for one scored alignment.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type ScoreV1 struct {
	Query  string `json:"query"`
	Target string `json:"target"`
	Orphan string `json:"orphan"` // "paired" | "left" | "right"
	// LogLikelihood is null when the alignment has zero likelihood.
	LogLikelihood *float64 `json:"log_likelihood"`
	Indel         bool     `json:"indel,omitempty"`
}
