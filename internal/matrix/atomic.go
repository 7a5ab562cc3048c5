// Package matrix provides a log-space count matrix that many goroutines can
// read and increment at once. Every cell and every row total is its own
// atomic word; there is no lock around a row or the whole matrix.
package matrix

import (
	"fmt"
	"math"
	"sync/atomic"

	"alnmodel/internal/logmath"
)

// Atomic is a rows×cols matrix of log counts plus a log total per row.
// At returns the row-normalized log-probability of a cell.
type Atomic struct {
	rows, cols int
	cells      []atomic.Uint64 // float64 bits
	rowSums    []atomic.Uint64 // float64 bits
}

// New returns a matrix whose cells all start at log(alpha), so every
// transition has probability 1/cols before any evidence arrives.
func New(rows, cols int, alpha float64) *Atomic {
	m := &Atomic{
		rows:    rows,
		cols:    cols,
		cells:   make([]atomic.Uint64, rows*cols),
		rowSums: make([]atomic.Uint64, rows),
	}
	cell := math.Float64bits(math.Log(alpha))
	for i := range m.cells {
		m.cells[i].Store(cell)
	}
	sum := math.Float64bits(math.Log(float64(cols) * alpha))
	for i := range m.rowSums {
		m.rowSums[i].Store(sum)
	}
	return m
}

func (m *Atomic) Rows() int { return m.rows }
func (m *Atomic) Cols() int { return m.cols }

// At returns log P(col | row).
func (m *Atomic) At(row, col int) float64 {
	return m.Raw(row, col) - m.RowSum(row)
}

// Raw returns the unnormalized log count stored in a cell.
func (m *Atomic) Raw(row, col int) float64 {
	return math.Float64frombits(m.cells[row*m.cols+col].Load())
}

// RowSum returns the log total of a row.
func (m *Atomic) RowSum(row int) float64 {
	return math.Float64frombits(m.rowSums[row].Load())
}

// Increment adds exp(amt) to a cell and to its row total.
// Concurrent increments of the same cell are all applied; their order only
// affects floating-point rounding.
func (m *Atomic) Increment(row, col int, amt float64) {
	logAddCAS(&m.cells[row*m.cols+col], amt)
	logAddCAS(&m.rowSums[row], amt)
}

func logAddCAS(w *atomic.Uint64, amt float64) {
	for {
		old := w.Load()
		next := math.Float64bits(logmath.Add(math.Float64frombits(old), amt))
		if w.CompareAndSwap(old, next) {
			return
		}
	}
}

// Dump is a point-in-time copy of a matrix. Cells are row-major.
type Dump struct {
	Rows, Cols int
	Cells      []float64
	RowSums    []float64
}

// Snapshot copies the current contents. Cells updated while the copy is taken
// may or may not be included.
func (m *Atomic) Snapshot() Dump {
	d := Dump{
		Rows:    m.rows,
		Cols:    m.cols,
		Cells:   make([]float64, len(m.cells)),
		RowSums: make([]float64, len(m.rowSums)),
	}
	for i := range m.cells {
		d.Cells[i] = math.Float64frombits(m.cells[i].Load())
	}
	for i := range m.rowSums {
		d.RowSums[i] = math.Float64frombits(m.rowSums[i].Load())
	}
	return d
}

// Restore overwrites the matrix with d. The shapes must agree.
func (m *Atomic) Restore(d Dump) error {
	if d.Rows != m.rows || d.Cols != m.cols {
		return fmt.Errorf("matrix: shape %dx%d, want %dx%d", d.Rows, d.Cols, m.rows, m.cols)
	}
	if len(d.Cells) != len(m.cells) || len(d.RowSums) != len(m.rowSums) {
		return fmt.Errorf("matrix: %d cells / %d row sums, want %d / %d",
			len(d.Cells), len(d.RowSums), len(m.cells), len(m.rowSums))
	}
	for i, v := range d.Cells {
		m.cells[i].Store(math.Float64bits(v))
	}
	for i, v := range d.RowSums {
		m.rowSums[i].Store(math.Float64bits(v))
	}
	return nil
}
