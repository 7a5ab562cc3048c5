// Package errmodel is the alignment error model: a position-binned Markov
// model over composite (reference, read) column states, kept separately for
// the left and right mate of a fragment.
//
// A Model scores an alignment by walking its CIGAR and summing transition
// log-probabilities, and learns by adding weighted counts along the same walk.
// One Model is shared by all workers; it never imports pipeline, writers,
// cli or app code. Reads, references and hits come in through the small
// interfaces in hit.go.
package errmodel
