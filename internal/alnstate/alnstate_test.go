package alnstate

import (
	"testing"

	"github.com/biogo/hts/sam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeCoversRangeOnce(t *testing.T) {
	seen := make(map[int]bool, NumStates)
	for r := Category(0); r < NumCategories; r++ {
		for q := Category(0); q < NumCategories; q++ {
			s := Encode(r, q)
			require.GreaterOrEqual(t, s, 0)
			require.Less(t, s, NumStates)
			require.False(t, seen[s], "state %d produced twice", s)
			seen[s] = true

			gr, gq, ok := Decode(s)
			require.True(t, ok)
			assert.Equal(t, r, gr)
			assert.Equal(t, q, gq)
		}
	}
	_, _, ok := Decode(StartState)
	assert.False(t, ok)
	assert.Equal(t, NumStates+1, Dim)
}

func TestBaseCategory(t *testing.T) {
	cases := map[byte]Category{
		'A': A, 'c': C, 'G': G, 't': T, 'U': T,
		'N': A, 'R': A, '-': A, 0: A,
	}
	for b, want := range cases {
		assert.Equal(t, want, BaseCategory(b), "letter %q", b)
	}
}

func TestOpTable(t *testing.T) {
	type want struct {
		read, ref bool
		refCat    Category
		readCat   Category
	}
	// G reference base against a T read base, before overrides
	cases := []struct {
		op   sam.CigarOpType
		want want
	}{
		{sam.CigarMatch, want{true, true, G, T}},
		{sam.CigarEqual, want{true, true, G, T}},
		{sam.CigarMismatch, want{true, true, G, T}},
		{sam.CigarInsertion, want{true, false, Dash, T}},
		{sam.CigarDeletion, want{false, true, G, Dash}},
		{sam.CigarSkipped, want{false, true, G, RefSkip}},
		{sam.CigarSoftClipped, want{true, false, SoftClip, T}},
		{sam.CigarHardClipped, want{false, false, HardClip, HardClip}},
		{sam.CigarPadded, want{false, false, Pad, Pad}},
	}
	for _, tc := range cases {
		t.Run(tc.op.String(), func(t *testing.T) {
			op, ok := OpFor(tc.op)
			require.True(t, ok)
			assert.Equal(t, tc.want.read, op.ConsumesRead)
			assert.Equal(t, tc.want.ref, op.ConsumesRef)
			r, q := op.Apply(G, T)
			assert.Equal(t, tc.want.refCat, r)
			assert.Equal(t, tc.want.readCat, q)

			con := tc.op.Consumes()
			assert.Equal(t, con.Query == 1, op.ConsumesRead, "disagrees with biogo")
			assert.Equal(t, con.Reference == 1, op.ConsumesRef, "disagrees with biogo")
		})
	}
}

func TestUnknownOps(t *testing.T) {
	for _, ot := range []sam.CigarOpType{sam.CigarBack, 10, 15} {
		_, ok := OpFor(ot)
		assert.False(t, ok, "op %d", ot)
	}
}

func TestIsIndel(t *testing.T) {
	assert.True(t, IsIndel(sam.CigarInsertion))
	assert.True(t, IsIndel(sam.CigarDeletion))
	assert.False(t, IsIndel(sam.CigarSkipped))
	assert.False(t, IsIndel(sam.CigarSoftClipped))
}
