package timeline

import (
	"math"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Observation is the importance of one label on one day. Aggregation
// yields at most one observation per (date, label).
type Observation struct {
	Date       time.Time
	Label      string
	Importance float64
}

// EntityRow is one article's date and extracted entity list.
type EntityRow struct {
	Date     time.Time
	Entities []string
}

// TopicRow is one article's date and per-topic weights from a topic model.
type TopicRow struct {
	Date    time.Time
	Weights map[string]float64
}

type dayLabel struct {
	day   int64
	label string
}

// AggregateEntities counts entity mentions per (date, entity). Entities
// containing any filter string (case-insensitive) are dropped; an empty
// filter drops nothing. Output is ordered by date, then entity.
func AggregateEntities(rows []EntityRow, filter []string) []Observation {
	lowered := make([]string, 0, len(filter))
	for _, f := range filter {
		if f = strings.ToLower(f); f != "" {
			lowered = append(lowered, f)
		}
	}

	counts := make(map[dayLabel]float64)
	dates := make(map[int64]time.Time)
	for _, row := range rows {
		if row.Date.IsZero() {
			continue
		}
		d := day(row.Date)
		for _, ent := range row.Entities {
			if ent == "" || excluded(ent, lowered) {
				continue
			}
			counts[dayLabel{day: d.Unix(), label: ent}]++
			dates[d.Unix()] = d
		}
	}

	out := make([]Observation, 0, len(counts))
	for k, n := range counts {
		out = append(out, Observation{Date: dates[k.day], Label: k.label, Importance: n})
	}
	sortObservations(out, nil)
	return out
}

func excluded(entity string, lowered []string) bool {
	if len(lowered) == 0 {
		return false
	}
	e := strings.ToLower(entity)
	for _, f := range lowered {
		if strings.Contains(e, f) {
			return true
		}
	}
	return false
}

// AggregateTopics averages each topic's weight per date. NaN or missing
// weights are skipped. topics fixes the label order within a day; when
// nil, every topic seen is used in name order.
func AggregateTopics(rows []TopicRow, topics []string) []Observation {
	if topics == nil {
		topics = TopicNames(rows)
	}
	order := make(map[string]int, len(topics))
	for i, t := range topics {
		order[t] = i
	}

	values := make(map[dayLabel][]float64)
	dates := make(map[int64]time.Time)
	for _, row := range rows {
		if row.Date.IsZero() {
			continue
		}
		d := day(row.Date)
		for topic, w := range row.Weights {
			if _, ok := order[topic]; !ok || math.IsNaN(w) {
				continue
			}
			k := dayLabel{day: d.Unix(), label: topic}
			values[k] = append(values[k], w)
			dates[d.Unix()] = d
		}
	}

	out := make([]Observation, 0, len(values))
	for k, ws := range values {
		out = append(out, Observation{Date: dates[k.day], Label: k.label, Importance: stat.Mean(ws, nil)})
	}
	sortObservations(out, order)
	return out
}

// TopicNames returns every topic name present in rows, sorted.
func TopicNames(rows []TopicRow) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for topic := range row.Weights {
			seen[topic] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for t := range seen {
		names = append(names, t)
	}
	sort.Strings(names)
	return names
}

// sortObservations orders by date, then by label order (or name).
func sortObservations(obs []Observation, order map[string]int) {
	sort.Slice(obs, func(i, j int) bool {
		if !obs[i].Date.Equal(obs[j].Date) {
			return obs[i].Date.Before(obs[j].Date)
		}
		if order != nil {
			return order[obs[i].Label] < order[obs[j].Label]
		}
		return obs[i].Label < obs[j].Label
	})
}
