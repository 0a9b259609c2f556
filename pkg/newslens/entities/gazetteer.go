package entities

import (
	"context"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Gazetteer is a keyword-dictionary extractor: each configured entity name
// is emitted once when any of its keywords occurs in the text.
type Gazetteer struct {
	entries []gazetteerEntry
}

type gazetteerEntry struct {
	label    string
	name     string
	patterns []*regexp.Regexp
}

// NewGazetteer creates an empty gazetteer
func NewGazetteer() *Gazetteer {
	return &Gazetteer{}
}

// LoadGazetteer loads entities from a YAML file:
//
//	entities:
//	  PERSON:
//	    Joe Biden: [joe biden, president biden]
//	  EVENT:
//	    Hurricane Ian: [hurricane ian]
func LoadGazetteer(path string) (*Gazetteer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg struct {
		Entities map[string]map[string][]string `yaml:"entities"`
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	g := NewGazetteer()
	labels := make([]string, 0, len(cfg.Entities))
	for label := range cfg.Entities {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		names := make([]string, 0, len(cfg.Entities[label]))
		for name := range cfg.Entities[label] {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			g.Add(label, name, cfg.Entities[label][name])
		}
	}
	return g, nil
}

// Add registers an entity. The name itself is always a keyword.
func (g *Gazetteer) Add(label, name string, keywords []string) {
	entry := gazetteerEntry{label: strings.ToUpper(label), name: name}
	seen := make(map[string]struct{})
	for _, kw := range append([]string{name}, keywords...) {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		entry.patterns = append(entry.patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(kw)+`\b`))
	}
	g.entries = append(g.entries, entry)
}

// Len returns the number of registered entities.
func (g *Gazetteer) Len() int {
	return len(g.entries)
}

// Extract implements Extractor. Spans are ordered by first mention.
func (g *Gazetteer) Extract(ctx context.Context, text string) ([]Span, error) {
	type hit struct {
		pos  int
		span Span
	}
	var hits []hit
	for _, e := range g.entries {
		first := -1
		for _, p := range e.patterns {
			if loc := p.FindStringIndex(text); loc != nil && (first < 0 || loc[0] < first) {
				first = loc[0]
			}
		}
		if first >= 0 {
			hits = append(hits, hit{pos: first, span: Span{Text: e.name, Label: e.label}})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].pos < hits[j].pos
	})
	spans := make([]Span, len(hits))
	for i, h := range hits {
		spans[i] = h.span
	}
	return spans, ctx.Err()
}
