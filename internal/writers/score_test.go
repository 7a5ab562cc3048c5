package writers

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alnmodel/internal/score"
	"alnmodel/pkg/api"
)

var results = []score.Result{
	{Query: "r1", Target: "tx1", Orphan: "paired", LogLike: -12.5, Indel: true},
	{Query: "r2", Target: "tx2", Orphan: "left", LogLike: math.Inf(-1)},
}

func write(t *testing.T, format string, header bool) string {
	t.Helper()
	var buf bytes.Buffer
	in, done := StartScoreWriter(&buf, format, header, 1)
	for _, r := range results {
		in <- r
	}
	close(in)
	require.NoError(t, <-done)
	return buf.String()
}

func TestScoreWriterTSV(t *testing.T) {
	lines := strings.Split(strings.TrimSpace(write(t, FormatTSV, true)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, TSVHeader, lines[0])
	assert.Equal(t, "r1\ttx1\tpaired\t-12.5\ttrue", lines[1])
	assert.Equal(t, "r2\ttx2\tleft\t-inf\tfalse", lines[2])
}

func TestScoreWriterTSVNoHeader(t *testing.T) {
	out := write(t, FormatTSV, false)
	assert.False(t, strings.HasPrefix(out, "query\t"))
}

func TestScoreWriterJSONL(t *testing.T) {
	lines := strings.Split(strings.TrimSpace(write(t, FormatJSONL, false)), "\n")
	require.Len(t, lines, 2)

	var first, second api.ScoreV1
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))

	require.NotNil(t, first.LogLikelihood)
	assert.Equal(t, -12.5, *first.LogLikelihood)
	assert.True(t, first.Indel)
	assert.Nil(t, second.LogLikelihood)
	assert.Contains(t, lines[1], `"log_likelihood":null`)
}

func TestScoreWriterUnknownFormat(t *testing.T) {
	in, done := StartScoreWriter(&bytes.Buffer{}, "xml", false, 1)
	in <- results[0]
	close(in)
	assert.ErrorContains(t, <-done, "unsupported output")
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, syscall.EPIPE }

func TestScoreWriterIgnoresBrokenPipe(t *testing.T) {
	for _, f := range []string{FormatTSV, FormatJSONL} {
		in, done := StartScoreWriter(brokenWriter{}, f, true, 1)
		in <- results[0]
		close(in)
		assert.NoError(t, <-done, f)
	}
}

func TestValidFormat(t *testing.T) {
	assert.True(t, ValidFormat("tsv"))
	assert.True(t, ValidFormat("jsonl"))
	assert.False(t, ValidFormat("json"))
}
