package timeline

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Cut assigns each value to one of n equal-width bins spanning the value
// range. Bins are right-closed; the lowest edge is pushed down by 0.1% of
// the range so the minimum lands in bin 0. A zero-width range is widened by
// 0.1% on each side. NaN values get -1.
func Cut(values []float64, n int) []int {
	out := make([]int, len(values))
	if n < 1 {
		n = 1
	}

	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		for i := range out {
			out[i] = -1
		}
		return out
	}

	lo, hi := floats.Min(finite), floats.Max(finite)
	edges := make([]float64, n+1)
	if lo == hi {
		adj := 0.001 * math.Abs(lo)
		if lo == 0 {
			adj = 0.001
		}
		floats.Span(edges, lo-adj, hi+adj)
	} else {
		floats.Span(edges, lo, hi)
		edges[0] -= (hi - lo) * 0.001
	}

	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = -1
			continue
		}
		b := sort.SearchFloat64s(edges, v) - 1
		if b < 0 {
			b = 0
		}
		if b > n-1 {
			b = n - 1
		}
		out[i] = b
	}
	return out
}

// scaleSizes maps values linearly onto [lo, hi]. A zero-width value range
// maps everything to lo.
func scaleSizes(values []float64, lo, hi float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	vmin, vmax := floats.Min(values), floats.Max(values)
	for i, v := range values {
		if vmax == vmin {
			out[i] = lo
			continue
		}
		out[i] = lo + (v-vmin)/(vmax-vmin)*(hi-lo)
	}
	return out
}
