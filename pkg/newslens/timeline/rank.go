package timeline

import (
	"math"
	"sort"
)

// Ranked is an observation with its dense rank within its date.
type Ranked struct {
	Observation
	Rank int
}

// DenseRank ranks importance within each date, highest first. Equal
// importances share a rank and the next distinct value takes the next
// integer. Input order is preserved. NaN importance is unranked (Rank 0).
func DenseRank(obs []Observation) []Ranked {
	distinct := make(map[int64][]float64)
	for _, o := range obs {
		if math.IsNaN(o.Importance) {
			continue
		}
		k := day(o.Date).Unix()
		distinct[k] = append(distinct[k], o.Importance)
	}

	ranks := make(map[int64]map[float64]int, len(distinct))
	for k, values := range distinct {
		sort.Sort(sort.Reverse(sort.Float64Slice(values)))
		byValue := make(map[float64]int)
		rank := 0
		for i, v := range values {
			if i == 0 || v != values[i-1] {
				rank++
			}
			if _, ok := byValue[v]; !ok {
				byValue[v] = rank
			}
		}
		ranks[k] = byValue
	}

	out := make([]Ranked, len(obs))
	for i, o := range obs {
		out[i] = Ranked{Observation: o, Rank: ranks[day(o.Date).Unix()][o.Importance]}
	}
	return out
}

// TopK keeps rows ranked k or better. Ties at the boundary all survive, so
// a day may keep more than k rows. Unranked rows are dropped.
func TopK(ranked []Ranked, k int) []Ranked {
	out := make([]Ranked, 0, len(ranked))
	for _, r := range ranked {
		if r.Rank >= 1 && r.Rank <= k {
			out = append(out, r)
		}
	}
	return out
}
