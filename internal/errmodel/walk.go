package errmodel

import (
	"alnmodel/internal/alnstate"
	"alnmodel/internal/logmath"
	"alnmodel/internal/matrix"
)

type walkMode uint8

const (
	scoreMode walkMode = iota
	trainMode
)

// walk steps through the read's CIGAR one column at a time. In scoreMode it
// returns the summed transition log-probabilities; in trainMode it adds
// exp(weight) to every visited transition and returns LogOne.
//
// A read that starts before the reference (negative Pos) is walked from the
// first column that lands on reference position 0; the overhanging columns
// move the cursors but emit nothing. A read that never reaches position 0 is
// degenerate, like one starting past the end.
func (m *Model) walk(rd Read, ref Reference, set []*matrix.Atomic, mode walkMode, weight float64) float64 {
	refLen := ref.Len()
	refPos := rd.Pos()
	if max(refPos, 0) >= refLen {
		m.log.Warn("alignment starts past reference end", "ref_pos", refPos, "ref_len", refLen)
		if mode == trainMode {
			return logmath.LogOne
		}
		return logmath.LogZero
	}

	cigar := rd.Cigar()
	if len(cigar) == 0 {
		if mode == trainMode {
			return logmath.LogOne
		}
		return logmath.LogEpsilon
	}

	var (
		readLen = rd.Len()
		bins    = len(set)
		readPos int
		bin     int
		prev    = alnstate.StartState
		ll      = logmath.LogOne
		pastEnd bool
		emitted bool
	)
	binAt := func(p int) int {
		if readLen <= 0 {
			return 0
		}
		return min(p*bins/readLen, bins-1)
	}
	readBase := func(p int) alnstate.Category {
		if p >= readLen {
			return alnstate.A
		}
		return alnstate.BaseCategory(rd.BaseAt(p))
	}
	refBase := func(p int) alnstate.Category {
		if p >= refLen {
			if !pastEnd {
				pastEnd = true
				m.log.Warn("alignment runs past reference end", "ref_pos", p, "ref_len", refLen)
			}
			return alnstate.A
		}
		return alnstate.BaseCategory(ref.BaseAt(p, Forward))
	}

	for _, co := range cigar {
		op, ok := alnstate.OpFor(co.Type())
		if !ok {
			m.log.Warn("unknown CIGAR operation", "op", co.Type().String(), "len", co.Len())
			continue
		}
		for i := 0; i < co.Len(); i++ {
			if refPos >= 0 {
				var rc, qc alnstate.Category
				if op.RefOverride == nil {
					rc = refBase(refPos)
				}
				if op.ReadOverride == nil {
					qc = readBase(readPos)
				}
				rc, qc = op.Apply(rc, qc)
				cur := alnstate.Encode(rc, qc)

				if mode == scoreMode {
					ll += set[bin].At(prev, cur)
				} else {
					set[bin].Increment(prev, cur, weight)
				}
				prev = cur
				emitted = true
			}
			if op.ConsumesRead {
				readPos++
				bin = binAt(readPos)
			}
			if op.ConsumesRef {
				refPos++
			}
		}
	}
	if !emitted && rd.Pos() < 0 {
		m.log.Warn("alignment ends before reference start", "ref_pos", rd.Pos(), "ref_len", refLen)
		if mode == trainMode {
			return logmath.LogOne
		}
		return logmath.LogZero
	}
	return ll
}
