package jsonl

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/cognicore/newslens/pkg/newslens/articles"
	"github.com/cognicore/newslens/pkg/newslens/internalerr"
)

func TestArticlesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.jsonl")
	src := "Reuters"
	in := articles.Table{
		{ID: "1", Title: "Storm", Date: time.Date(2022, 9, 28, 0, 0, 0, 0, time.UTC), Source: &src, PersonList: []string{"Joe Biden"}},
		{ID: "2", Title: "Quiet", Date: time.Date(2022, 9, 29, 0, 0, 0, 0, time.UTC)},
	}
	if err := WriteFile(path, in); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := LoadArticles(path)
	if err != nil {
		t.Fatalf("LoadArticles: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 articles, got %d", len(got))
	}
	if got[0].ID != "1" || *got[0].Source != "Reuters" || !reflect.DeepEqual(got[0].PersonList, []string{"Joe Biden"}) {
		t.Errorf("Unexpected article %+v", got[0])
	}
	if got[1].Source != nil || got[1].PersonList != nil {
		t.Errorf("Nulls should survive: %+v", got[1])
	}
	if !got[1].Date.Equal(in[1].Date) {
		t.Errorf("Date = %v", got[1].Date)
	}
}

func TestLoadArticlesSkipsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.jsonl")
	content := `{"id":"1","title":"ok","date":"2022-09-28T00:00:00Z"}
not json

{"id":"2","title":"ok too","date":"2022-09-29T10:00:00Z"}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadArticles(path)
	if err != nil {
		t.Fatalf("LoadArticles: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 valid articles, got %d", len(got))
	}
	if got[1].Date.Hour() != 0 {
		t.Errorf("Dates should be truncated to the day, got %v", got[1].Date)
	}
}

func TestLoadArticlesErrors(t *testing.T) {
	if _, err := LoadArticles(filepath.Join(t.TempDir(), "missing.jsonl")); err == nil {
		t.Error("Should error on missing file")
	}

	path := filepath.Join(t.TempDir(), "empty.jsonl")
	os.WriteFile(path, []byte("\n\n"), 0644)
	if _, err := LoadArticles(path); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound when no valid rows, got %v", err)
	}
}

func TestLoadTopicRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topics.jsonl")
	content := `{"id":"1","date":"2022-09-28","topics":{"topic_0":0.25,"topic_1":null}}
{"id":"2","date":"bad","topics":{"topic_0":1}}
{"id":"3","date":"2022-09-29","topics":{"topic_0":0.5}}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	rows, err := LoadTopicRows(path)
	if err != nil {
		t.Fatalf("LoadTopicRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows (bad date skipped), got %d", len(rows))
	}
	if rows[0].Weights["topic_0"] != 0.25 || !math.IsNaN(rows[0].Weights["topic_1"]) {
		t.Errorf("Unexpected weights %v", rows[0].Weights)
	}
}

func TestWriteTokenRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.jsonl")
	if err := WriteFile(path, []TokenRow{{ID: "1", Tokens: []string{"storm", "florida"}}}); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, _ := os.ReadFile(path)
	if want := `{"id":"1","tokens":["storm","florida"]}` + "\n"; string(data) != want {
		t.Errorf("got %q, want %q", data, want)
	}
}
