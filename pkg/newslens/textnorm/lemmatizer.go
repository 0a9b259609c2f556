package textnorm

import (
	"fmt"
	"strings"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultLemmaCacheSize bounds the number of memoized lemma lookups.
const DefaultLemmaCacheSize = 8192

// Lemmatizer maps a token to its dictionary lemma. Unknown tokens are
// returned unchanged.
type Lemmatizer interface {
	Lemma(token string) string
}

// LemmatizerFunc adapts a plain function to Lemmatizer.
type LemmatizerFunc func(string) string

// Lemma implements Lemmatizer.
func (f LemmatizerFunc) Lemma(token string) string { return f(token) }

// DictLemmatizer reduces plural nouns to their singular, using the English
// golem dictionary to confirm each candidate. Other parts of speech are left
// alone, so "done" and "went" stay as they are while "storms" becomes
// "storm". The result is always its own lemma.
type DictLemmatizer struct {
	dict *golem.Lemmatizer
}

// irregularNouns covers plurals that no suffix rule reaches. Words listed
// with themselves are singular despite the trailing s.
var irregularNouns = map[string]string{
	"axes":     "axis",
	"children": "child",
	"feet":     "foot",
	"geese":    "goose",
	"knives":   "knife",
	"leaves":   "leaf",
	"lives":    "life",
	"mice":     "mouse",
	"oxen":     "ox",
	"teeth":    "tooth",
	"wives":    "wife",
	"wolves":   "wolf",
	"crises":   "crisis",
	"analyses": "analysis",
	"news":     "news",
	"series":   "series",
	"species":  "species",
	"means":    "means",
	"politics": "politics",
}

// irregularLemmas holds the singulars in irregularNouns. They are final.
var irregularLemmas = func() map[string]struct{} {
	out := make(map[string]struct{}, len(irregularNouns))
	for _, lemma := range irregularNouns {
		out[lemma] = struct{}{}
	}
	return out
}()

// maxLemmaSteps bounds the walk to a fixed point; every rule shortens or
// ends the word, so real inputs settle in one or two steps.
const maxLemmaSteps = 4

// NewDictLemmatizer loads the English dictionary. Loading decompresses the
// full word list, so callers should build one instance and share it.
func NewDictLemmatizer() (*DictLemmatizer, error) {
	dict, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("load english lemma dictionary: %w", err)
	}
	return &DictLemmatizer{dict: dict}, nil
}

// Lemma implements Lemmatizer.
func (l *DictLemmatizer) Lemma(token string) string {
	for i := 0; i < maxLemmaSteps; i++ {
		next := l.singular(token)
		if next == token {
			return token
		}
		token = next
	}
	return token
}

// singular returns the dictionary lemma of token when token is a noun
// plural of it, and token otherwise.
func (l *DictLemmatizer) singular(token string) string {
	if lemma, ok := irregularNouns[token]; ok {
		return lemma
	}
	if _, ok := irregularLemmas[token]; ok {
		return token
	}
	if !strings.HasSuffix(token, "s") && !strings.HasSuffix(token, "men") {
		return token
	}
	lemma := l.dict.Lemma(token)
	if lemma != token && isNounPlural(token, lemma) {
		return lemma
	}
	return token
}

// isNounPlural reports whether plural is formed from lemma by one of the
// regular English noun inflections.
func isNounPlural(plural, lemma string) bool {
	switch {
	case plural == lemma+"s":
		return true
	case plural == lemma+"es":
		for _, suf := range []string{"s", "x", "z", "ch", "sh"} {
			if strings.HasSuffix(lemma, suf) {
				return true
			}
		}
	case strings.HasSuffix(lemma, "y") && plural == strings.TrimSuffix(lemma, "y")+"ies":
		return true
	case strings.HasSuffix(lemma, "man") && plural == strings.TrimSuffix(lemma, "man")+"men":
		return true
	}
	return false
}

// CachedLemmatizer memoizes another Lemmatizer in a bounded LRU cache.
// News bodies repeat the same vocabulary heavily, so most lookups hit.
type CachedLemmatizer struct {
	next  Lemmatizer
	cache *lru.Cache[string, string]
}

// NewCachedLemmatizer wraps next with a cache of the given size
// (DefaultLemmaCacheSize when size <= 0).
func NewCachedLemmatizer(next Lemmatizer, size int) (*CachedLemmatizer, error) {
	if size <= 0 {
		size = DefaultLemmaCacheSize
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &CachedLemmatizer{next: next, cache: cache}, nil
}

// Lemma implements Lemmatizer.
func (c *CachedLemmatizer) Lemma(token string) string {
	if lemma, ok := c.cache.Get(token); ok {
		return lemma
	}
	lemma := c.next.Lemma(token)
	c.cache.Add(token, lemma)
	return lemma
}

// Len reports the number of cached entries.
func (c *CachedLemmatizer) Len() int {
	return c.cache.Len()
}
