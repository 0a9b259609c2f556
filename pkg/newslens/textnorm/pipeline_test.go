package textnorm

import (
	"reflect"
	"strings"
	"testing"

	"github.com/cognicore/newslens/pkg/newslens/stoplist"
)

func mapLemmatizer(m map[string]string) Lemmatizer {
	return LemmatizerFunc(func(tok string) string {
		if lemma, ok := m[tok]; ok {
			return lemma
		}
		return tok
	})
}

func testPipeline() *Pipeline {
	lem := mapLemmatizer(map[string]string{
		"cats":       "cat",
		"storms":     "storm",
		"hurricanes": "hurricane",
	})
	return NewPipeline(DefaultContractions(), stoplist.English(), lem)
}

func TestProcessBasic(t *testing.T) {
	p := testPipeline()

	got := p.Process("I don't like the 3 rainy_days in Zürich!")
	want := []string{"like", "rainydays", "zurich"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Process() = %v, want %v", got, want)
	}
}

func TestProcessLemmatizes(t *testing.T) {
	p := testPipeline()

	got := p.Process("Hurricanes and storms scared the cats.")
	want := []string{"hurricane", "storm", "scared", "cat"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Process() = %v, want %v", got, want)
	}
}

func TestProcessEmptyInput(t *testing.T) {
	p := testPipeline()

	got := p.Process("")
	if got == nil || len(got) != 0 {
		t.Errorf("Empty input should produce empty non-nil output, got %#v", got)
	}
}

func TestProcessNoShortOrStopTokens(t *testing.T) {
	p := testPipeline()
	stops := stoplist.English()

	inputs := []string{
		"The President said on Tuesday that he'd be in Ohio by 5pm.",
		"A hurricane, an earthquake & a flood: it's been a year!!",
		"Élections législatives: à Paris, l'abstention reste élevée",
		"we're NOT going to do it, y'all",
	}
	for _, in := range inputs {
		for _, tok := range p.Process(in) {
			if len(tok) <= 2 {
				t.Errorf("Process(%q) produced short token %q", in, tok)
			}
			if stops.IsStop(tok) {
				t.Errorf("Process(%q) produced stopword %q", in, tok)
			}
			if tok != strings.ToLower(tok) {
				t.Errorf("Process(%q) produced non-lowercase token %q", in, tok)
			}
		}
	}
}

func TestProcessIdempotentOnNormalizedTokens(t *testing.T) {
	p := testPipeline()

	first := p.Process("Hurricanes battered coastal towns while storms flooded roads")
	second := p.Process(strings.Join(first, " "))
	if !reflect.DeepEqual(first, second) {
		t.Errorf("re-processing changed tokens: %v -> %v", first, second)
	}
}

func TestStepsOrder(t *testing.T) {
	p := testPipeline()

	want := []string{"contractions", "punct-digits", "tokenize", "ascii", "lower", "short", "stopword", "lemmatize", "lemma-short", "lemma-stopword"}
	if got := p.Steps(); !reflect.DeepEqual(got, want) {
		t.Errorf("Steps() = %v, want %v", got, want)
	}
}

func TestNormalizeKeepsOrder(t *testing.T) {
	p := testPipeline()

	got := p.Normalize([]string{"Zebra", "an", "Apple", "the", "Mango"})
	want := []string{"zebra", "apple", "mango"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize() = %v, want %v", got, want)
	}
}

func TestCachedLemmatizer(t *testing.T) {
	calls := 0
	inner := LemmatizerFunc(func(tok string) string {
		calls++
		return strings.TrimSuffix(tok, "s")
	})

	cached, err := NewCachedLemmatizer(inner, 2)
	if err != nil {
		t.Fatalf("NewCachedLemmatizer: %v", err)
	}

	for i := 0; i < 3; i++ {
		if got := cached.Lemma("cats"); got != "cat" {
			t.Errorf("Lemma(cats) = %q, want cat", got)
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 underlying call, got %d", calls)
	}
	if cached.Len() != 1 {
		t.Errorf("expected 1 cached entry, got %d", cached.Len())
	}
}

func TestLemmatizeDropsFailingLemmas(t *testing.T) {
	lem := mapLemmatizer(map[string]string{"oxen": "ox", "doing": "do", "storms": "storm"})
	p := NewPipeline(DefaultContractions(), stoplist.English(), lem)

	got := p.Lemmatize([]string{"oxen", "storms", "doing"})
	if want := []string{"storm"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Lemmatize() = %v, want %v", got, want)
	}
}

// irregularText mixes verb forms, irregular plurals and regular plurals.
var irregularText = []string{
	"The job was done and they went home; oxen were gone, saws were used, and the axes broke.",
	"Children saw the mice while geese flew over the churches and stories spread.",
	"Wolves chased the sheep; women and men ran, boxes fell, and the news was grim.",
	"He does what he says and goes where he pleases.",
}

func defaultPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	return p
}

func TestDefaultProcessIrregularForms(t *testing.T) {
	p := defaultPipeline(t)

	got := p.Process(irregularText[0])
	want := []string{"job", "done", "went", "home", "gone", "saw", "used", "axis", "broke"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Process() = %v, want %v", got, want)
	}
}

func TestDefaultProcessNoShortOrStopTokens(t *testing.T) {
	p := defaultPipeline(t)
	stops := stoplist.English()

	for _, in := range irregularText {
		for _, tok := range p.Process(in) {
			if len(tok) <= 2 {
				t.Errorf("Process(%q) produced short token %q", in, tok)
			}
			if stops.IsStop(tok) {
				t.Errorf("Process(%q) produced stopword %q", in, tok)
			}
		}
	}
}

func TestDefaultProcessIdempotent(t *testing.T) {
	p := defaultPipeline(t)

	for _, in := range irregularText {
		first := p.Process(in)
		second := p.Process(strings.Join(first, " "))
		if !reflect.DeepEqual(first, second) {
			t.Errorf("re-processing %q changed tokens: %v -> %v", in, first, second)
		}
	}
}

func TestDictLemmatizer(t *testing.T) {
	lem, err := NewDictLemmatizer()
	if err != nil {
		t.Fatalf("NewDictLemmatizer: %v", err)
	}

	if got := lem.Lemma("cats"); got != "cat" {
		t.Errorf("Lemma(cats) = %q, want cat", got)
	}
	// lemmatizing a lemma is a no-op
	for _, w := range []string{"cat", "storm", "election"} {
		if got := lem.Lemma(w); got != w {
			t.Errorf("Lemma(%q) = %q, want unchanged", w, got)
		}
	}
	tests := []struct {
		in, want string
	}{
		{"saws", "saw"},
		{"saw", "saw"},
		{"done", "done"},
		{"went", "went"},
		{"gone", "gone"},
		{"oxen", "ox"},
		{"children", "child"},
		{"axes", "axis"},
		{"boxes", "box"},
		{"churches", "church"},
		{"stories", "story"},
		{"women", "woman"},
		{"news", "news"},
	}
	for _, tt := range tests {
		got := lem.Lemma(tt.in)
		if got != tt.want {
			t.Errorf("Lemma(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if again := lem.Lemma(got); again != got {
			t.Errorf("Lemma(Lemma(%q)) = %q, want %q", tt.in, again, got)
		}
	}

	if got := lem.Lemma(""); got != "" {
		t.Errorf("Lemma(\"\") = %q, want empty", got)
	}
}
