package writers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"alnmodel/internal/jsonlutil"
	"alnmodel/internal/score"
	"alnmodel/pkg/api"
)

// Output formats.
const (
	FormatTSV   = "tsv"
	FormatJSONL = "jsonl"
)

// TSVHeader is the header row of the TSV score output.
const TSVHeader = "query\ttarget\torphan\tlog_likelihood\tindel"

// ValidFormat reports whether StartScoreWriter understands format.
func ValidFormat(format string) bool {
	return format == FormatTSV || format == FormatJSONL
}

// StartScoreWriter spins up a writer goroutine for scored alignments. Close
// the returned channel and wait on the error channel to flush.
func StartScoreWriter(out io.Writer, format string, header bool, bufSize int) (chan<- score.Result, <-chan error) {
	switch format {
	case FormatJSONL:
		return StartScoreJSONLWriter(out, bufSize)
	case FormatTSV:
		return startTSV(out, header, bufSize)
	}
	in := make(chan score.Result, 1)
	errCh := make(chan error, 1)
	go func() {
		for range in {
		}
		errCh <- fmt.Errorf("unsupported output %q", format)
	}()
	return in, errCh
}

// StartScoreJSONLWriter streams each result as one JSON line (v1).
func StartScoreJSONLWriter(out io.Writer, bufSize int) (chan<- score.Result, <-chan error) {
	return jsonlutil.Start[score.Result](out, bufSize,
		func(enc *json.Encoder, r score.Result) error {
			return enc.Encode(ToAPIScore(r))
		},
		IsBrokenPipe,
	)
}

// ToAPIScore converts a result to its wire form.
func ToAPIScore(r score.Result) api.ScoreV1 {
	s := api.ScoreV1{
		Query:  r.Query,
		Target: r.Target,
		Orphan: r.Orphan,
		Indel:  r.Indel,
	}
	if !math.IsInf(r.LogLike, -1) {
		ll := r.LogLike
		s.LogLikelihood = &ll
	}
	return s
}

// FormatRowTSV returns one TSV row without the trailing newline.
func FormatRowTSV(r score.Result) string {
	return r.Query + "\t" + r.Target + "\t" + r.Orphan + "\t" +
		formatLogLike(r.LogLike) + "\t" + strconv.FormatBool(r.Indel)
}

func formatLogLike(v float64) string {
	if math.IsInf(v, -1) {
		return "-inf"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func startTSV(out io.Writer, header bool, bufSize int) (chan<- score.Result, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan score.Result, bufSize)
	errCh := make(chan error, 1)

	go func() {
		bw := bufio.NewWriter(out)
		var err error
		if header {
			_, err = fmt.Fprintln(bw, TSVHeader)
		}
		for r := range in {
			if err != nil {
				continue
			}
			_, err = fmt.Fprintln(bw, FormatRowTSV(r))
		}
		if err == nil {
			err = bw.Flush()
		}
		if IsBrokenPipe(err) {
			err = nil
		}
		errCh <- err
	}()

	return in, errCh
}
