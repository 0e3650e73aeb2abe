package geom

import "math"

// Epsilon is the default tolerance of the near-zero and near-equality
// predicates: float64 machine epsilon.
var Epsilon = math.Nextafter(1, 2) - 1

// IsNearZero reports whether |x| <= Epsilon.
func IsNearZero(x float64) bool {
	return IsNearZeroEps(x, Epsilon)
}

func IsNearZeroEps(x, eps float64) bool {
	return math.Abs(x) <= eps
}

// IsNearValue reports whether |a-b| <= Epsilon.
func IsNearValue(a, b float64) bool {
	return IsNearValueEps(a, b, Epsilon)
}

func IsNearValueEps(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// isNearZeroScaled treats x as zero relative to the magnitude of its inputs.
// Used where products of lengths are compared against zero.
func isNearZeroScaled(x, scale float64) bool {
	return math.Abs(x) <= Epsilon*math.Max(1, scale)*8
}
