package textnorm

import (
	"github.com/cognicore/newslens/pkg/newslens/stoplist"
)

// TextStep is a string-level transformation applied to the whole body.
type TextStep struct {
	Name  string
	Apply func(text string) string
}

// Pipeline turns raw article text into an ordered list of lemmas:
// text steps → tokenization → token steps → lemmatization.
type Pipeline struct {
	textSteps  []TextStep
	tokenize   func(string) []string
	tokenSteps []TokenStep
	lemmatizer Lemmatizer
	lemmaSteps []TokenStep
}

// NewPipeline builds the standard pipeline:
//
//	expand contractions, strip punctuation/digits, tokenize,
//	ASCII-fold, lowercase, drop len<=2, drop stop words, lemmatize,
//	then drop lemmas that fail the length or stop-word check.
func NewPipeline(contractions *Contractions, stops *stoplist.Set, lemmatizer Lemmatizer) *Pipeline {
	return &Pipeline{
		textSteps: []TextStep{
			{Name: "contractions", Apply: contractions.Expand},
			{Name: "punct-digits", Apply: StripPunctAndDigits},
		},
		tokenize: Tokenize,
		tokenSteps: []TokenStep{
			{Name: "ascii", Apply: ToASCII},
			{Name: "lower", Apply: Lower},
			{Name: "short", Apply: MinLength(2)},
			{Name: "stopword", Apply: StopFilter(stops)},
		},
		lemmatizer: lemmatizer,
		lemmaSteps: []TokenStep{
			{Name: "lemma-short", Apply: MinLength(2)},
			{Name: "lemma-stopword", Apply: StopFilter(stops)},
		},
	}
}

// Default builds the standard pipeline with the embedded contraction
// dictionary, the English stop-word list and a cached dictionary lemmatizer.
func Default() (*Pipeline, error) {
	dict, err := NewDictLemmatizer()
	if err != nil {
		return nil, err
	}
	cached, err := NewCachedLemmatizer(dict, DefaultLemmaCacheSize)
	if err != nil {
		return nil, err
	}
	return NewPipeline(DefaultContractions(), stoplist.English(), cached), nil
}

// Steps lists step names in execution order.
func (p *Pipeline) Steps() []string {
	names := make([]string, 0, len(p.textSteps)+len(p.tokenSteps)+len(p.lemmaSteps)+2)
	for _, s := range p.textSteps {
		names = append(names, s.Name)
	}
	names = append(names, "tokenize")
	for _, s := range p.tokenSteps {
		names = append(names, s.Name)
	}
	names = append(names, "lemmatize")
	for _, s := range p.lemmaSteps {
		names = append(names, s.Name)
	}
	return names
}

// Denoise applies the string-level steps.
func (p *Pipeline) Denoise(text string) string {
	for _, s := range p.textSteps {
		text = s.Apply(text)
	}
	return text
}

// Normalize runs every token through the token steps, keeping order and
// dropping tokens any step rejects.
func (p *Pipeline) Normalize(tokens []string) []string {
	out := make([]string, 0, len(tokens))
next:
	for _, tok := range tokens {
		for _, s := range p.tokenSteps {
			var ok bool
			if tok, ok = s.Apply(tok); !ok {
				continue next
			}
		}
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// Lemmatize maps each token to its lemma. A lemma can be shorter than its
// token ("oxen" to "ox"), so lemmas are checked again and dropped when
// they fail.
func (p *Pipeline) Lemmatize(tokens []string) []string {
	out := make([]string, 0, len(tokens))
next:
	for _, tok := range tokens {
		lemma := p.lemmatizer.Lemma(tok)
		for _, s := range p.lemmaSteps {
			var ok bool
			if lemma, ok = s.Apply(lemma); !ok {
				continue next
			}
		}
		out = append(out, lemma)
	}
	return out
}
