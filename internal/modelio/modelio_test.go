package modelio

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/biogo/hts/sam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alnmodel/internal/errmodel"
	"alnmodel/internal/logmath"
	"alnmodel/internal/reference"
	"alnmodel/pkg/api"
)

type read struct {
	pos   int
	cigar sam.Cigar
	seq   string
}

func (r read) Pos() int          { return r.pos }
func (r read) Cigar() sam.Cigar  { return r.cigar }
func (r read) Len() int          { return len(r.seq) }
func (r read) BaseAt(i int) byte { return r.seq[i] }

type single struct{ r read }

func (s single) IsPaired() bool                        { return false }
func (s single) IsLeftOrphan() bool                    { return true }
func (s single) Mates() (errmodel.Read, errmodel.Read) { return s.r, nil }

func trained(t *testing.T) (*errmodel.Model, errmodel.Hit, errmodel.Reference) {
	t.Helper()
	m, err := errmodel.New(errmodel.Config{Alpha: 0.5, MaxReadLen: 50, Bins: 3})
	require.NoError(t, err)
	ref := &reference.Transcript{Name: "tx", Seq: []byte("ACGTACGTACGT")}
	h := single{read{pos: 1, cigar: sam.Cigar{sam.NewCigarOp(sam.CigarMatch, 3), sam.NewCigarOp(sam.CigarInsertion, 1), sam.NewCigarOp(sam.CigarMatch, 4)}, seq: "CGTTACGT"}}
	m.Train(h, ref, logmath.LogOne, logmath.LogOne)
	m.SetBurnedIn(true)
	return m, h, ref
}

func TestRoundTripPreservesScores(t *testing.T) {
	m, h, ref := trained(t)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, m))
	got, err := Read(&buf)
	require.NoError(t, err)

	assert.Equal(t, m.Config(), got.Config())
	assert.True(t, got.BurnedIn())
	assert.Equal(t, m.Score(h, ref), got.Score(h, ref))
	for b := 0; b < 3; b++ {
		assert.Equal(t, m.Snapshot(errmodel.Left, b), got.Snapshot(errmodel.Left, b))
		assert.Equal(t, m.Snapshot(errmodel.Right, b), got.Snapshot(errmodel.Right, b))
	}
}

func TestSaveLoad(t *testing.T) {
	m, h, ref := trained(t)
	path := filepath.Join(t.TempDir(), "m.json")

	require.NoError(t, Save(path, m))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, m.Score(h, ref), got.Score(h, ref))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeRejectsBadFiles(t *testing.T) {
	m, _, _ := trained(t)

	cases := map[string]func(v *api.ModelV1){
		"schema":       func(v *api.ModelV1) { v.Schema = "other/v9" },
		"dim":          func(v *api.ModelV1) { v.Dim = 10 },
		"bins":         func(v *api.ModelV1) { v.Bins = 4 },
		"short matrix": func(v *api.ModelV1) { v.Right[1].Cells = v.Right[1].Cells[:5] },
		"alpha":        func(v *api.ModelV1) { v.Alpha = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			v := Encode(m)
			mutate(&v)
			_, err := Decode(v)
			assert.ErrorIs(t, err, ErrFormat)
		})
	}
}

func TestReadRejectsGarbage(t *testing.T) {
	_, err := Read(strings.NewReader("{not json"))
	assert.ErrorIs(t, err, ErrFormat)
}

func TestEncodeShape(t *testing.T) {
	m, _, _ := trained(t)
	raw, err := json.Marshal(Encode(m))
	require.NoError(t, err)

	var v map[string]any
	require.NoError(t, json.Unmarshal(raw, &v))
	assert.Equal(t, api.ModelSchemaV1, v["schema"])
	assert.EqualValues(t, 82, v["dim"])
	assert.Len(t, v["left"], 3)
}
