// Package reference holds the transcripts reads are aligned to.
package reference

import (
	"context"
	"fmt"
	"sort"

	"alnmodel/internal/errmodel"
	"alnmodel/internal/fasta"
)

// Transcript is a named reference sequence. It implements errmodel.Reference.
type Transcript struct {
	Name string
	Seq  []byte
}

func (t *Transcript) Len() int { return len(t.Seq) }

// BaseAt returns the base at pos counted from the 5' end of the requested
// strand; on the reverse strand that is the complement of Seq[Len()-1-pos].
func (t *Transcript) BaseAt(pos int, s errmodel.Strand) byte {
	if s == errmodel.Reverse {
		return Complement(t.Seq[len(t.Seq)-1-pos])
	}
	return t.Seq[pos]
}

// Set is a collection of transcripts keyed by name.
type Set struct {
	byName map[string]*Transcript
}

// NewSet indexes ts by name. Duplicate names are an error.
func NewSet(ts ...*Transcript) (*Set, error) {
	s := &Set{byName: make(map[string]*Transcript, len(ts))}
	for _, t := range ts {
		if err := s.add(t); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Set) add(t *Transcript) error {
	if _, dup := s.byName[t.Name]; dup {
		return fmt.Errorf("reference: duplicate transcript %q", t.Name)
	}
	s.byName[t.Name] = t
	return nil
}

// Get returns the transcript called name.
func (s *Set) Get(name string) (*Transcript, bool) {
	t, ok := s.byName[name]
	return t, ok
}

func (s *Set) Len() int { return len(s.byName) }

// Names returns the transcript names in sorted order.
func (s *Set) Names() []string {
	out := make([]string, 0, len(s.byName))
	for n := range s.byName {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Load reads every record of the given FASTA files into one Set.
func Load(ctx context.Context, paths ...string) (*Set, error) {
	s := &Set{byName: make(map[string]*Transcript)}
	for _, p := range paths {
		err := fasta.ScanPath(ctx, p, func(r fasta.Record) error {
			return s.add(&Transcript{Name: r.ID, Seq: r.Seq})
		})
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}
