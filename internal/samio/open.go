// Package samio reads SAM/BAM alignments with biogo/hts and groups them into
// the fragments the error model scores and learns from.
package samio

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
)

// RecordReader is satisfied by *sam.Reader, *bam.Reader and *Input.
type RecordReader interface {
	Read() (*sam.Record, error)
}

// Input is an open SAM or BAM file.
type Input struct {
	rr      RecordReader
	header  *sam.Header
	closers []io.Closer
}

var bamMagic = []byte("BAM\x01")

// maxBlock is the largest BGZF block; the BAM magic sits in the first one.
const maxBlock = 64 << 10

// Open opens a SAM or BAM file, or standard input for "-". The format is
// taken from the content, not the name: gzip data that inflates to the BAM
// magic is BAM, any other gzip stream is compressed SAM, and everything else
// is plain SAM.
func Open(path string, readers int) (*Input, error) {
	var (
		src    io.Reader
		closer io.Closer = io.NopCloser(nil)
	)
	if path == "-" {
		src = os.Stdin
	} else {
		fh, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		src, closer = fh, fh
	}
	in, err := open(src, readers)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	in.closers = append(in.closers, closer)
	return in, nil
}

func open(src io.Reader, readers int) (*Input, error) {
	br := bufio.NewReaderSize(src, maxBlock+1024)
	sig, _ := br.Peek(2)
	if len(sig) < 2 || sig[0] != 0x1f || sig[1] != 0x8b {
		sr, err := sam.NewReader(br)
		if err != nil {
			return nil, err
		}
		return &Input{rr: sr, header: sr.Header()}, nil
	}

	if isBAM(br) {
		bs, err := bam.NewReader(br, readers)
		if err != nil {
			return nil, err
		}
		return &Input{rr: bs, header: bs.Header(), closers: []io.Closer{bs}}, nil
	}
	gr, err := gzip.NewReader(br)
	if err != nil {
		return nil, err
	}
	sr, err := sam.NewReader(bufio.NewReader(gr))
	if err != nil {
		_ = gr.Close()
		return nil, err
	}
	return &Input{rr: sr, header: sr.Header(), closers: []io.Closer{gr}}, nil
}

// isBAM inflates the start of the buffered gzip stream without consuming it.
func isBAM(br *bufio.Reader) bool {
	head, _ := br.Peek(maxBlock + 1024)
	gr, err := gzip.NewReader(bytes.NewReader(head))
	if err != nil {
		return false
	}
	var magic [4]byte
	if _, err := io.ReadFull(gr, magic[:]); err != nil {
		return false
	}
	return bytes.Equal(magic[:], bamMagic)
}

func (in *Input) Header() *sam.Header { return in.header }

func (in *Input) Read() (*sam.Record, error) { return in.rr.Read() }

func (in *Input) Close() error {
	var err error
	for _, c := range in.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
