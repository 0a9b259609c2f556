package entities

import (
	"context"
)

// Labels consumed by article enrichment. Extractors may emit others; they
// are ignored downstream.
const (
	LabelPerson = "PERSON"
	LabelEvent  = "EVENT"
)

// Span is one labeled entity mention.
type Span struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Extractor finds labeled entity spans in text. Implementations own any
// model loading; callers pass an Extractor in rather than relying on
// process-wide state.
type Extractor interface {
	Extract(ctx context.Context, text string) ([]Span, error)
}

// Func adapts a function to Extractor.
type Func func(ctx context.Context, text string) ([]Span, error)

// Extract implements Extractor.
func (f Func) Extract(ctx context.Context, text string) ([]Span, error) {
	return f(ctx, text)
}

// UniqueTexts returns the distinct span texts carrying label, in first
// occurrence order.
func UniqueTexts(spans []Span, label string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, s := range spans {
		if s.Label != label || s.Text == "" {
			continue
		}
		if _, ok := seen[s.Text]; ok {
			continue
		}
		seen[s.Text] = struct{}{}
		out = append(out, s.Text)
	}
	return out
}
