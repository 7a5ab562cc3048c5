package samio

import (
	"github.com/biogo/hts/sam"

	"alnmodel/internal/errmodel"
)

// Record adapts a *sam.Record to errmodel.Read.
type Record struct {
	rec *sam.Record
	seq []byte
}

// NewRecord expands the packed bases of r once so BaseAt is a slice index.
func NewRecord(r *sam.Record) *Record {
	return &Record{rec: r, seq: r.Seq.Expand()}
}

func (r *Record) Pos() int          { return r.rec.Pos }
func (r *Record) Cigar() sam.Cigar  { return r.rec.Cigar }
func (r *Record) Len() int          { return len(r.seq) }
func (r *Record) BaseAt(i int) byte { return r.seq[i] }

// Name is the query name.
func (r *Record) Name() string { return r.rec.Name }

// Target is the name of the reference the read is aligned to.
func (r *Record) Target() string {
	if r.rec.Ref == nil {
		return ""
	}
	return r.rec.Ref.Name()
}

// SAM returns the underlying biogo record.
func (r *Record) SAM() *sam.Record { return r.rec }

// OrphanStatus says whether both mates of a fragment aligned.
type OrphanStatus uint8

const (
	Paired OrphanStatus = iota
	LeftOrphan
	RightOrphan
)

func (s OrphanStatus) String() string {
	switch s {
	case Paired:
		return "paired"
	case LeftOrphan:
		return "left"
	default:
		return "right"
	}
}

// Fragment is one alignment of a read or read pair to one target.
// It implements errmodel.Hit.
type Fragment struct {
	Read1, Read2 *Record
	Orphan       OrphanStatus
}

func (f *Fragment) IsPaired() bool     { return f.Orphan == Paired }
func (f *Fragment) IsLeftOrphan() bool { return f.Orphan == LeftOrphan }

func (f *Fragment) Mates() (errmodel.Read, errmodel.Read) {
	return asRead(f.Read1), asRead(f.Read2)
}

// asRead keeps a nil *Record from becoming a non-nil interface.
func asRead(r *Record) errmodel.Read {
	if r == nil {
		return nil
	}
	return r
}

// Target is the reference the fragment aligns to.
func (f *Fragment) Target() string {
	if f.Read1 != nil {
		return f.Read1.Target()
	}
	if f.Read2 != nil {
		return f.Read2.Target()
	}
	return ""
}
