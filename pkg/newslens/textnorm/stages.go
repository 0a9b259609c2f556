package textnorm

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/cognicore/newslens/pkg/newslens/stoplist"
)

// StripPunctAndDigits keeps letters, whitespace and non-decimal numerics.
// Punctuation, symbols, underscores and decimal digits are removed.
func StripPunctAndDigits(text string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsDigit(r):
			return -1
		case unicode.IsLetter(r), unicode.IsSpace(r), unicode.IsNumber(r):
			return r
		default:
			return -1
		}
	}, text)
}

// Tokenize splits text on Unicode word boundaries (UAX #29) and drops the
// whitespace segments between words.
func Tokenize(text string) []string {
	tokens := []string{}
	state := -1
	var word string
	for len(text) > 0 {
		word, text, state = uniseg.FirstWordInString(text, state)
		if strings.TrimFunc(word, unicode.IsSpace) == "" {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// TokenStep transforms or filters a single token. Returning false drops the
// token from the output.
type TokenStep struct {
	Name  string
	Apply func(token string) (string, bool)
}

// ToASCII decomposes token (NFKD) and removes every non-ASCII rune, so
// accented letters fall back to their base letter and the rest vanishes.
func ToASCII(token string) (string, bool) {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	out, _, err := transform.String(t, token)
	if err != nil {
		return "", false
	}
	return out, true
}

// Lower lowercases token.
func Lower(token string) (string, bool) {
	return strings.ToLower(token), true
}

// MinLength drops tokens with n characters or fewer.
func MinLength(n int) func(string) (string, bool) {
	return func(token string) (string, bool) {
		if len([]rune(token)) <= n {
			return "", false
		}
		return token, true
	}
}

// StopFilter drops tokens present in stops.
func StopFilter(stops *stoplist.Set) func(string) (string, bool) {
	return func(token string) (string, bool) {
		if stops.IsStop(token) {
			return "", false
		}
		return token, true
	}
}
