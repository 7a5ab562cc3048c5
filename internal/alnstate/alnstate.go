// Package alnstate maps aligned (reference, read) symbol pairs to composite
// state indices and describes how each CIGAR operation moves the cursors.
package alnstate

import "github.com/biogo/hts/sam"

// Category is the symbol observed on one side of an aligned column.
type Category uint8

const (
	A Category = iota
	C
	G
	T
	Dash
	SoftClip
	HardClip
	Pad
	RefSkip
)

const (
	NumCategories = 9
	NumStates     = NumCategories * NumCategories

	// StartState precedes the first column of every alignment.
	StartState = NumStates

	// Dim is the side length of a transition matrix (all states + start).
	Dim = NumStates + 1
)

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "?"
}

var categoryNames = [...]string{"A", "C", "G", "T", "-", "S", "H", "P", "N"}

/* ------------------------- base letter lookup --------------------------- */

// non-ACGT letters fall to A, like the SAM 4-bit → 2-bit table
var baseCategory [256]Category

func init() {
	set := func(c byte, k Category) {
		baseCategory[c] = k
		baseCategory[c|0x20] = k // lower case
	}
	set('A', A)
	set('C', C)
	set('G', G)
	set('T', T)
	set('U', T)
}

// BaseCategory returns the category of a nucleotide letter.
func BaseCategory(b byte) Category { return baseCategory[b] }

// Encode returns the composite state of an aligned column.
func Encode(ref, read Category) int {
	return int(ref)*NumCategories + int(read)
}

// Decode splits a composite state. StartState has no decomposition.
func Decode(state int) (ref, read Category, ok bool) {
	if state < 0 || state >= NumStates {
		return 0, 0, false
	}
	return Category(state / NumCategories), Category(state % NumCategories), true
}

/* --------------------------- operation table ---------------------------- */

// Op describes one CIGAR operation kind: which sequences it consumes and
// which side of the column it replaces with a special symbol.
type Op struct {
	ConsumesRead bool
	ConsumesRef  bool
	RefOverride  *Category
	ReadOverride *Category
}

// Apply substitutes the overridden categories.
func (o Op) Apply(ref, read Category) (Category, Category) {
	if o.RefOverride != nil {
		ref = *o.RefOverride
	}
	if o.ReadOverride != nil {
		read = *o.ReadOverride
	}
	return ref, read
}

func cat(c Category) *Category { return &c }

// ops is indexed by sam.CigarOpType. CigarBack and anything past it are
// not modelled.
var ops = [...]Op{
	sam.CigarMatch:       {ConsumesRead: true, ConsumesRef: true},
	sam.CigarInsertion:   {ConsumesRead: true, RefOverride: cat(Dash)},
	sam.CigarDeletion:    {ConsumesRef: true, ReadOverride: cat(Dash)},
	sam.CigarSkipped:     {ConsumesRef: true, ReadOverride: cat(RefSkip)},
	sam.CigarSoftClipped: {ConsumesRead: true, RefOverride: cat(SoftClip)},
	sam.CigarHardClipped: {RefOverride: cat(HardClip), ReadOverride: cat(HardClip)},
	sam.CigarPadded:      {RefOverride: cat(Pad), ReadOverride: cat(Pad)},
	sam.CigarEqual:       {ConsumesRead: true, ConsumesRef: true},
	sam.CigarMismatch:    {ConsumesRead: true, ConsumesRef: true},
}

// OpFor returns the table entry for t, or false for an unknown operation.
func OpFor(t sam.CigarOpType) (Op, bool) {
	if int(t) >= len(ops) {
		return Op{}, false
	}
	return ops[t], true
}

// IsIndel reports whether t is an insertion or a deletion.
func IsIndel(t sam.CigarOpType) bool {
	return t == sam.CigarInsertion || t == sam.CigarDeletion
}
