package appcore

import (
	"io"

	"alnmodel/internal/score"
	"alnmodel/internal/writers"
)

// ScoreWriterFactory starts the writer for score results.
type ScoreWriterFactory struct {
	Format string
	Header bool
}

func NewScoreWriterFactory(format string, header bool) ScoreWriterFactory {
	return ScoreWriterFactory{Format: format, Header: header}
}

func (w ScoreWriterFactory) Start(out io.Writer, bufSize int) (chan<- score.Result, <-chan error) {
	return writers.StartScoreWriter(out, w.Format, w.Header, bufSize)
}
