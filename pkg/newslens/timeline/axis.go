package timeline

import (
	"sort"
	"time"
)

// DateLabelLayout formats x tick labels.
const DateLabelLayout = "2006-01-02"

// Axis maps each distinct calendar date to its 0-based position in
// ascending date order.
type Axis struct {
	dates []time.Time
	index map[int64]int
}

// NewAxis builds the axis from every date present in the input, in any
// order and with repeats. Dates are compared by UTC calendar day.
func NewAxis(dates []time.Time) *Axis {
	index := make(map[int64]int)
	var distinct []time.Time
	for _, d := range dates {
		if d.IsZero() {
			continue
		}
		d = day(d)
		key := d.Unix()
		if _, ok := index[key]; ok {
			continue
		}
		index[key] = 0
		distinct = append(distinct, d)
	}

	sort.Slice(distinct, func(i, j int) bool {
		return distinct[i].Before(distinct[j])
	})
	for i, d := range distinct {
		index[d.Unix()] = i
	}
	return &Axis{dates: distinct, index: index}
}

// X returns the x coordinate of d.
func (a *Axis) X(d time.Time) (int, bool) {
	x, ok := a.index[day(d).Unix()]
	return x, ok
}

// Len returns the number of ticks.
func (a *Axis) Len() int {
	return len(a.dates)
}

// Dates returns the sorted distinct dates.
func (a *Axis) Dates() []time.Time {
	out := make([]time.Time, len(a.dates))
	copy(out, a.dates)
	return out
}

// Labels returns one tick label per date.
func (a *Axis) Labels() []string {
	out := make([]string, len(a.dates))
	for i, d := range a.dates {
		out[i] = d.Format(DateLabelLayout)
	}
	return out
}

func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
