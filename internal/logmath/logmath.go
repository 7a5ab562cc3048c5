// Package logmath holds the log-space sentinels and arithmetic shared by the
// alignment error model.
package logmath

import "math"

const (
	// LogOne is log(1): a certain event, or "no evidence either way".
	LogOne = 0.0

	// LogEpsilon is log(machine epsilon). It marks an alignment that carried
	// no usable detail (empty CIGAR) and must not be confused with LogZero.
	LogEpsilon = -36.04365338911715
)

// LogZero is log(0): an impossible or degenerate alignment.
var LogZero = math.Inf(-1)

// IsZero reports whether x is the LogZero sentinel.
func IsZero(x float64) bool { return math.IsInf(x, -1) }

// Add returns log(exp(x) + exp(y)) without leaving log space.
func Add(x, y float64) float64 {
	if IsZero(x) {
		return y
	}
	if IsZero(y) {
		return x
	}
	if x < y {
		x, y = y, x
	}
	return x + math.Log1p(math.Exp(y-x))
}
