// Package modelio saves and loads trained error models as JSON.
package modelio

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"alnmodel/internal/alnstate"
	"alnmodel/internal/errmodel"
	"alnmodel/internal/jsonutil"
	"alnmodel/internal/matrix"
	"alnmodel/pkg/api"
)

// ErrFormat is returned for model files that do not decode to a usable model.
var ErrFormat = errors.New("modelio: bad model file")

// Encode converts m to its wire form.
func Encode(m *errmodel.Model) api.ModelV1 {
	cfg := m.Config()
	out := api.ModelV1{
		Schema:     api.ModelSchemaV1,
		Alpha:      cfg.Alpha,
		MaxReadLen: cfg.MaxReadLen,
		Bins:       cfg.Bins,
		Dim:        alnstate.Dim,
		BurnedIn:   m.BurnedIn(),
		Left:       make([]api.MatrixV1, cfg.Bins),
		Right:      make([]api.MatrixV1, cfg.Bins),
	}
	for b := 0; b < cfg.Bins; b++ {
		out.Left[b] = toAPI(m.Snapshot(errmodel.Left, b))
		out.Right[b] = toAPI(m.Snapshot(errmodel.Right, b))
	}
	return out
}

func toAPI(d matrix.Dump) api.MatrixV1 {
	return api.MatrixV1{Cells: d.Cells, RowSums: d.RowSums}
}

// Decode rebuilds a model from its wire form. opts are passed to errmodel.New.
func Decode(v api.ModelV1, opts ...errmodel.Option) (*errmodel.Model, error) {
	if v.Schema != api.ModelSchemaV1 {
		return nil, fmt.Errorf("%w: schema %q, want %q", ErrFormat, v.Schema, api.ModelSchemaV1)
	}
	if v.Dim != alnstate.Dim {
		return nil, fmt.Errorf("%w: dim %d, want %d", ErrFormat, v.Dim, alnstate.Dim)
	}
	if len(v.Left) != v.Bins || len(v.Right) != v.Bins {
		return nil, fmt.Errorf("%w: %d/%d matrices for %d bins", ErrFormat, len(v.Left), len(v.Right), v.Bins)
	}

	m, err := errmodel.New(errmodel.Config{Alpha: v.Alpha, MaxReadLen: v.MaxReadLen, Bins: v.Bins}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	for _, side := range []struct {
		s    errmodel.Side
		mats []api.MatrixV1
	}{{errmodel.Left, v.Left}, {errmodel.Right, v.Right}} {
		for b, mv := range side.mats {
			d := matrix.Dump{Rows: v.Dim, Cols: v.Dim, Cells: mv.Cells, RowSums: mv.RowSums}
			if err := m.Restore(side.s, b, d); err != nil {
				return nil, fmt.Errorf("%w: %s bin %d: %w", ErrFormat, side.s, b, err)
			}
		}
	}
	m.SetBurnedIn(v.BurnedIn)
	return m, nil
}

// Write encodes m as indented JSON.
func Write(w io.Writer, m *errmodel.Model) error {
	return jsonutil.EncodePretty(w, Encode(m))
}

// Read decodes a model written by Write.
func Read(r io.Reader, opts ...errmodel.Option) (*errmodel.Model, error) {
	var v api.ModelV1
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return Decode(v, opts...)
}

// Save writes m to path, replacing it only once the whole model is written.
func Save(path string, m *errmodel.Model) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".alnmodel-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if err = Write(tmp, m); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write model %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Load reads a model file written by Save.
func Load(path string, opts ...errmodel.Option) (*errmodel.Model, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	m, err := Read(fh, opts...)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", path, err)
	}
	return m, nil
}
