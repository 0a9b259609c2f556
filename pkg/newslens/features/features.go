// Package features turns article tables into model inputs: scalar columns
// with nulls filled, and binary bag-of-entity vectors.
package features

import (
	"fmt"
	"sort"

	"github.com/cognicore/newslens/pkg/newslens/internalerr"
)

// Missing replaces null values in extracted columns.
const Missing = "missing"

// DefaultVocabularyLimit caps the MostCommonEntity vocabulary.
const DefaultVocabularyLimit = 500

// Table is any record set exposing named scalar columns, with nil for null.
type Table interface {
	Column(name string) ([]*string, error)
}

// Rows is a generic Table backed by one map per record. A key absent from a
// record is null in that record.
type Rows []map[string]*string

// Column implements Table. The column is unknown when no record carries it.
func (r Rows) Column(name string) ([]*string, error) {
	out := make([]*string, len(r))
	found := len(r) == 0
	for i, rec := range r {
		v, ok := rec[name]
		if ok {
			found = true
		}
		out[i] = v
	}
	if !found {
		return nil, fmt.Errorf("column %q: %w", name, internalerr.ErrUnknownColumn)
	}
	return out, nil
}

// ColumnExtractor selects one column and fills its nulls with Missing.
type ColumnExtractor struct {
	Column string
}

// Fit is a no-op; the extractor is stateless.
func (c *ColumnExtractor) Fit(Table) *ColumnExtractor {
	return c
}

// Transform returns the column values in table order.
func (c *ColumnExtractor) Transform(t Table) ([]string, error) {
	col, err := t.Column(c.Column)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(col))
	for i, v := range col {
		if v == nil {
			out[i] = Missing
			continue
		}
		out[i] = *v
	}
	return out, nil
}

// MostCommonEntity learns the Limit most frequent items across all records
// and encodes each record as a presence vector over that vocabulary.
type MostCommonEntity struct {
	// Limit caps the vocabulary; zero means DefaultVocabularyLimit.
	Limit int

	vocab []string
	index map[string]int
}

// Fit counts every item occurrence and keeps the most frequent. Equal
// counts keep first-encounter order.
func (m *MostCommonEntity) Fit(records [][]string) *MostCommonEntity {
	counts := make(map[string]int)
	var order []string
	for _, rec := range records {
		for _, item := range rec {
			if _, ok := counts[item]; !ok {
				order = append(order, item)
			}
			counts[item]++
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	limit := m.Limit
	if limit <= 0 {
		limit = DefaultVocabularyLimit
	}
	if len(order) > limit {
		order = order[:limit]
	}

	m.vocab = order
	m.index = make(map[string]int, len(order))
	for i, item := range order {
		m.index[item] = i
	}
	return m
}

// Transform maps each record to a 0/1 vector of vocabulary length. Before
// Fit every vector is empty.
func (m *MostCommonEntity) Transform(records [][]string) [][]int {
	out := make([][]int, len(records))
	for i, rec := range records {
		row := make([]int, len(m.vocab))
		for _, item := range rec {
			if j, ok := m.index[item]; ok {
				row[j] = 1
			}
		}
		out[i] = row
	}
	return out
}

// FitTransform is Fit followed by Transform on the same records.
func (m *MostCommonEntity) FitTransform(records [][]string) [][]int {
	return m.Fit(records).Transform(records)
}

// Vocabulary returns the fitted items, most frequent first.
func (m *MostCommonEntity) Vocabulary() []string {
	out := make([]string, len(m.vocab))
	copy(out, m.vocab)
	return out
}
