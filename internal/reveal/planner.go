// Package reveal decides which submeshes of a priced asset are shown, in
// proportion to how much of the price the savings cover.
package reveal

import "math"

// Plan marks each submesh index as revealed or transparent.
type Plan struct {
	revealed []bool
	order    []int
	count    int
}

// Compute returns the plan for an asset with the given price and submesh
// count. Submeshes are revealed in the order of Permutation(submeshes, seed),
// so a larger total always reveals a superset of a smaller one.
//
// A non-positive price reveals everything.
func Compute(total int64, price float64, submeshes int, seed uint64) Plan {
	if submeshes <= 0 {
		return Plan{}
	}

	n := submeshes
	if price > 0 {
		frac := float64(max(total, 0)) / price * float64(submeshes)
		n = int(min(math.Floor(frac), float64(submeshes)))
	}

	order := Permutation(submeshes, seed)
	revealed := make([]bool, submeshes)
	for _, idx := range order[:n] {
		revealed[idx] = true
	}

	return Plan{revealed: revealed, order: order, count: n}
}

// Len returns the number of submeshes covered by the plan.
func (p Plan) Len() int { return len(p.revealed) }

// Count returns how many submeshes are revealed.
func (p Plan) Count() int { return p.count }

// Revealed reports whether submesh i is shown. Out-of-range indices are not.
func (p Plan) Revealed(i int) bool {
	return i >= 0 && i < len(p.revealed) && p.revealed[i]
}

// Fraction is Count/Len, or 0 for an empty plan.
func (p Plan) Fraction() float64 {
	if len(p.revealed) == 0 {
		return 0
	}
	return float64(p.count) / float64(len(p.revealed))
}

// Order returns the reveal order; the first Count entries are revealed.
func (p Plan) Order() []int {
	out := make([]int, len(p.order))
	copy(out, p.order)
	return out
}

// Mask returns a copy of the per-submesh reveal flags.
func (p Plan) Mask() []bool {
	out := make([]bool, len(p.revealed))
	copy(out, p.revealed)
	return out
}
