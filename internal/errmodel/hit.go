package errmodel

import "github.com/biogo/hts/sam"

// Strand selects which strand of a reference a base is read from.
type Strand uint8

const (
	Forward Strand = iota
	Reverse
)

// Reference is a transcript (or any target sequence) reads align to.
type Reference interface {
	Len() int
	// BaseAt returns the nucleotide letter at pos, 0 <= pos < Len().
	BaseAt(pos int, s Strand) byte
}

// Read is one aligned read.
type Read interface {
	// Pos is the 0-based alignment start on the reference; it is negative
	// when the read overhangs the reference start.
	Pos() int
	Cigar() sam.Cigar
	Len() int
	// BaseAt returns the read letter at i, 0 <= i < Len().
	BaseAt(i int) byte
}

// Hit is one alignment of a fragment: a proper pair or a single read.
// Mates returns nil for an absent mate.
type Hit interface {
	IsPaired() bool
	IsLeftOrphan() bool
	Mates() (Read, Read)
}

// Side is the genomic role of a mate within a fragment.
type Side uint8

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

func orphanStatus(h Hit) string {
	switch {
	case h.IsPaired():
		return "paired"
	case h.IsLeftOrphan():
		return "left"
	default:
		return "right"
	}
}
