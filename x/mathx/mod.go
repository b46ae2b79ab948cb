package mathx

import "golang.org/x/exp/constraints"

// FloorMod returns a mod m with the sign of m, so for m > 0 the result is
// always in [0, m). Go's % truncates toward zero and keeps the sign of a.
func FloorMod[T constraints.Signed](a, m T) T {
	if m == 0 {
		return 0
	}
	r := a % m
	if r != 0 && (r < 0) != (m < 0) {
		r += m
	}
	return r
}
