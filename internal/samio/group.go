package samio

import (
	"context"
	"errors"
	"io"

	"github.com/biogo/hts/sam"
)

// Group is every alignment of one query (read or read pair), in input order.
type Group struct {
	Name      string
	Fragments []*Fragment
}

// skipFlags marks records that never contribute an alignment.
const skipFlags = sam.Unmapped | sam.Supplementary | sam.QCFail

// Groups reads name-collated records from rr and emits one Group per run of
// identical query names. Groups that end up with no usable alignment are not
// emitted. A non-nil error from emit stops reading and is returned.
func Groups(ctx context.Context, rr RecordReader, emit func(Group) error) error {
	var (
		name string
		recs []*sam.Record
	)
	flush := func() error {
		if len(recs) == 0 {
			return nil
		}
		g := Group{Name: name, Fragments: pairUp(recs)}
		recs = recs[:0]
		if len(g.Fragments) == 0 {
			return nil
		}
		return emit(g)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		r, err := rr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if r.Name != name {
			if err := flush(); err != nil {
				return err
			}
			name = r.Name
		}
		if r.Flags&skipFlags != 0 || r.Ref == nil {
			continue
		}
		recs = append(recs, r)
	}
	return flush()
}

// pairUp matches mates that point at each other (same target, each one's
// mate position equal to the other's position). Unmatched paired-end reads
// become orphans: a first mate is a left orphan, a second mate a right one.
// Single-end reads are left orphans.
func pairUp(recs []*sam.Record) []*Fragment {
	used := make([]bool, len(recs))
	out := make([]*Fragment, 0, len(recs))
	for i, r := range recs {
		if used[i] {
			continue
		}
		used[i] = true
		if r.Flags&sam.Paired == 0 {
			out = append(out, &Fragment{Read1: NewRecord(r), Orphan: LeftOrphan})
			continue
		}
		if j := findMate(recs, used, i); j >= 0 {
			used[j] = true
			r1, r2 := r, recs[j]
			if r1.Flags&sam.Read2 != 0 {
				r1, r2 = r2, r1
			}
			out = append(out, &Fragment{Read1: NewRecord(r1), Read2: NewRecord(r2), Orphan: Paired})
			continue
		}
		if r.Flags&sam.Read2 != 0 {
			out = append(out, &Fragment{Read2: NewRecord(r), Orphan: RightOrphan})
		} else {
			out = append(out, &Fragment{Read1: NewRecord(r), Orphan: LeftOrphan})
		}
	}
	return out
}

func findMate(recs []*sam.Record, used []bool, i int) int {
	r := recs[i]
	if r.Flags&sam.MateUnmapped != 0 {
		return -1
	}
	for j := i + 1; j < len(recs); j++ {
		m := recs[j]
		if used[j] || m.Flags&sam.Paired == 0 {
			continue
		}
		if (m.Flags&sam.Read1 != 0) == (r.Flags&sam.Read1 != 0) {
			continue
		}
		if m.Ref != r.Ref || m.Pos != r.MatePos || r.Pos != m.MatePos {
			continue
		}
		return j
	}
	return -1
}
