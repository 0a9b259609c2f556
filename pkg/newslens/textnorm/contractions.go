package textnorm

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

//go:embed contractions.yaml
var contractionsYAML []byte

// contractionExpr matches apostrophe-joined words such as "don't" or
// "wouldn't've", with straight or curly apostrophes.
var contractionExpr = regexp.MustCompile(`(?i)\b[a-z]+(?:['’][a-z]+)+\b`)

// Contractions expands English contractions using a fixed dictionary.
type Contractions struct {
	table map[string]string
}

// NewContractions builds an expander. Keys are lowercased and curly
// apostrophes folded to straight ones.
func NewContractions(table map[string]string) *Contractions {
	normalized := make(map[string]string, len(table))
	for k, v := range table {
		normalized[foldApostrophe(strings.ToLower(k))] = v
	}
	return &Contractions{table: normalized}
}

// DefaultContractions returns the embedded standard English dictionary.
func DefaultContractions() *Contractions {
	c, err := parseContractions(contractionsYAML)
	if err != nil {
		panic(fmt.Sprintf("textnorm: embedded contractions: %v", err))
	}
	return c
}

// LoadContractions reads a YAML file with a top-level `contractions` map.
func LoadContractions(path string) (*Contractions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseContractions(data)
}

func parseContractions(data []byte) (*Contractions, error) {
	var f struct {
		Contractions map[string]string `yaml:"contractions"`
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return NewContractions(f.Contractions), nil
}

// Len returns the number of dictionary entries.
func (c *Contractions) Len() int {
	return len(c.table)
}

// Expand replaces every known contraction in text. Unknown apostrophe
// words (possessives, names like O'Brien) are left untouched.
func (c *Contractions) Expand(text string) string {
	return contractionExpr.ReplaceAllStringFunc(text, func(match string) string {
		expanded, ok := c.table[foldApostrophe(strings.ToLower(match))]
		if !ok {
			return match
		}
		return matchCase(match, expanded)
	})
}

func foldApostrophe(s string) string {
	return strings.ReplaceAll(s, "’", "'")
}

// matchCase carries the casing of the original contraction onto its
// expansion: all-caps stays all-caps, a leading capital stays leading.
func matchCase(original, expanded string) string {
	letters, upper := 0, 0
	for _, r := range original {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters > 1 && upper == letters {
		return strings.ToUpper(expanded)
	}
	first, _ := utf8.DecodeRuneInString(original)
	if unicode.IsUpper(first) {
		r, size := utf8.DecodeRuneInString(expanded)
		return string(unicode.ToUpper(r)) + expanded[size:]
	}
	return expanded
}
