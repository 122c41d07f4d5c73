package solver

import "math"

// Compare is a total order over candidates: walk the metric tuples in
// priority order and decide at the first key where the values differ by
// more than the scaled epsilon. The raw comparison fallback inside each
// key keeps the order transitive where bare float < would not be.
//
// Returns -1 when a ranks better than b, +1 when worse, 0 on a full tie.
func Compare(a, b *Candidate, cfg Config) int {
	n := len(a.Metrics)
	if len(b.Metrics) < n {
		n = len(b.Metrics)
	}

	for i := 0; i < n; i++ {
		av, bv := a.Metrics[i], b.Metrics[i]
		tol := cfg.Epsilon * math.Max(1, math.Max(math.Abs(av), math.Abs(bv)))
		if av < bv-tol {
			return -1
		}
		if av > bv+tol {
			return 1
		}
	}
	return 0
}
