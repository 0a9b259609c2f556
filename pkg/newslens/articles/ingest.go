package articles

import (
	"context"
	"errors"
	"io"

	"github.com/cognicore/newslens/pkg/newslens/entities"
)

// RawArticle is one query result item as returned by the news source.
type RawArticle struct {
	URI      string       `json:"uri"`
	Title    string       `json:"title"`
	Body     string       `json:"body"`
	Date     string       `json:"date"`
	Source   *RawSource   `json:"source"`
	Location *RawLocation `json:"location"`
}

// RawSource is the publishing outlet.
type RawSource struct {
	Title string `json:"title"`
}

// RawLocation is the dateline location; Label is keyed by language code.
type RawLocation struct {
	Label map[string]string `json:"label"`
}

// Source yields query results ordered by relevance, most relevant first.
// Next returns io.EOF once exhausted.
type Source interface {
	Next(ctx context.Context) (RawArticle, error)
}

// SliceSource serves a fixed slice of results.
type SliceSource struct {
	items []RawArticle
	pos   int
}

// NewSliceSource creates a Source over items.
func NewSliceSource(items []RawArticle) *SliceSource {
	return &SliceSource{items: items}
}

// Next implements Source.
func (s *SliceSource) Next(ctx context.Context) (RawArticle, error) {
	if err := ctx.Err(); err != nil {
		return RawArticle{}, err
	}
	if s.pos >= len(s.items) {
		return RawArticle{}, io.EOF
	}
	item := s.items[s.pos]
	s.pos++
	return item, nil
}

// Build drains up to maxItems results from src into a table. maxItems <= 0
// means no limit. Errors from src are returned as-is.
func Build(ctx context.Context, src Source, maxItems int) (Table, error) {
	return build(ctx, src, maxItems, nil)
}

// BuildEnriched is Build plus entity extraction on every body: the unique
// PERSON and EVENT span texts are attached to each article. Extractor errors
// are returned as-is.
func BuildEnriched(ctx context.Context, src Source, maxItems int, extractor entities.Extractor) (Table, error) {
	return build(ctx, src, maxItems, extractor)
}

func build(ctx context.Context, src Source, maxItems int, extractor entities.Extractor) (Table, error) {
	table := Table{}
	for maxItems <= 0 || len(table) < maxItems {
		raw, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		article, err := FromRaw(raw)
		if err != nil {
			return nil, err
		}

		if extractor != nil {
			spans, err := extractor.Extract(ctx, article.Body)
			if err != nil {
				return nil, err
			}
			article.PersonList = entities.UniqueTexts(spans, entities.LabelPerson)
			article.EventList = entities.UniqueTexts(spans, entities.LabelEvent)
		}

		table = append(table, article)
	}
	return table, nil
}

// FromRaw converts one query result. A missing source or location becomes
// a nil field.
func FromRaw(raw RawArticle) (Article, error) {
	date, err := ParseDate(raw.Date)
	if err != nil {
		return Article{}, err
	}

	a := Article{
		ID:    raw.URI,
		Title: raw.Title,
		Body:  raw.Body,
		Date:  date,
	}
	if raw.Source != nil {
		title := raw.Source.Title
		a.Source = &title
	}
	if raw.Location != nil {
		if label, ok := raw.Location.Label["eng"]; ok {
			a.Location = &label
		}
	}
	return a, nil
}
