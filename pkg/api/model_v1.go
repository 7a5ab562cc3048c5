// pkg/api/model_v1.go
package api

// ModelSchemaV1 tags files written with ModelV1.
const ModelSchemaV1 = "alnmodel/v1"

// ModelV1 is the on-disk form of a trained error model.
type ModelV1 struct {
	Schema     string  `json:"schema"`
	Alpha      float64 `json:"alpha"`
	MaxReadLen int     `json:"max_read_len"`
	Bins       int     `json:"bins"`
	Dim        int     `json:"dim"`
	BurnedIn   bool    `json:"burned_in"`

	// One matrix per position bin, read-order.
	Left  []MatrixV1 `json:"left"`
	Right []MatrixV1 `json:"right"`
}

// MatrixV1 holds natural-log pseudo-counts. Cells is row-major, Dim×Dim.
type MatrixV1 struct {
	Cells   []float64 `json:"cells"`
	RowSums []float64 `json:"row_sums"`
}
