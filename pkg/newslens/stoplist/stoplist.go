package stoplist

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed english.yaml
var englishYAML []byte

// Set is a fixed stop-word set used as a token filter.
type Set struct {
	stops map[string]struct{}
}

// file is the on-disk stoplist layout shared with config.LoadStoplist.
type file struct {
	Terms []string `yaml:"terms"`
}

// New builds a set from the given terms. Terms are lowercased.
func New(terms []string) *Set {
	stops := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		stops[strings.ToLower(t)] = struct{}{}
	}
	return &Set{stops: stops}
}

// English returns the standard English stop-word list (the NLTK corpus).
func English() *Set {
	s, err := parse(englishYAML)
	if err != nil {
		// embedded data is fixed at build time
		panic(fmt.Sprintf("stoplist: embedded english list: %v", err))
	}
	return s
}

// Load reads a YAML stoplist with a top-level `terms` list.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(data)
}

func parse(data []byte) (*Set, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return New(f.Terms), nil
}

// IsStop reports whether token is a stop word. The lookup is exact; callers
// lowercase first.
func (s *Set) IsStop(token string) bool {
	_, ok := s.stops[token]
	return ok
}

// Add adds a word to the set
func (s *Set) Add(word string) {
	s.stops[strings.ToLower(word)] = struct{}{}
}

// Remove removes a word from the set
func (s *Set) Remove(word string) {
	delete(s.stops, strings.ToLower(word))
}

// Len returns the number of stop words.
func (s *Set) Len() int {
	return len(s.stops)
}

// All returns all stop words in sorted order.
func (s *Set) All() []string {
	result := make([]string, 0, len(s.stops))
	for w := range s.stops {
		result = append(result, w)
	}
	sort.Strings(result)
	return result
}
