package eventregistry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cognicore/newslens/pkg/newslens/articles"
)

// pagedServer serves total articles in pages of pageSize and records requests.
func pagedServer(t *testing.T, total int, requests *[]searchRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		*requests = append(*requests, req)

		pages := (total + req.ArticlesCount - 1) / req.ArticlesCount
		start := (req.ArticlesPage - 1) * req.ArticlesCount
		var results []map[string]any
		for i := start; i < total && i < start+req.ArticlesCount; i++ {
			results = append(results, map[string]any{
				"uri":    fmt.Sprintf("art-%d", i),
				"title":  fmt.Sprintf("Title %d", i),
				"body":   "<p>Hurricane <b>Ian</b> hits Florida</p>",
				"date":   "2022-09-28",
				"source": map[string]any{"title": "Reuters"},
				"location": map[string]any{
					"label": map[string]string{"eng": "Florida"},
				},
			})
		}
		json.NewEncoder(w).Encode(map[string]any{
			"articles": map[string]any{"results": results, "pages": pages, "page": req.ArticlesPage},
		})
	}))
}

func TestIteratorPagesUntilMaxItems(t *testing.T) {
	var reqs []searchRequest
	srv := pagedServer(t, 25, &reqs)
	defer srv.Close()

	c := &Client{Endpoint: srv.URL, APIKey: "k", PageSize: 10}
	q := Query{Keywords: []string{"hurricane", "florida"}, Lang: "eng", DateStart: time.Date(2022, 9, 1, 0, 0, 0, 0, time.UTC)}

	table, err := articles.Build(context.Background(), c.Articles(q, 15), 0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(table) != 15 {
		t.Fatalf("Expected 15 articles, got %d", len(table))
	}
	if len(reqs) != 2 {
		t.Errorf("Expected 2 page requests, got %d", len(reqs))
	}

	first := reqs[0]
	if first.APIKey != "k" || first.ArticlesSortBy != "rel" || first.ArticlesSortByAsc {
		t.Errorf("Unexpected request %+v", first)
	}
	if first.KeywordOper != "and" || first.DateStart != "2022-09-01" || first.DateEnd != "" {
		t.Errorf("Unexpected filters %+v", first)
	}

	a := table[0]
	if a.ID != "art-0" || a.Body != "Hurricane Ian hits Florida" {
		t.Errorf("Unexpected article %+v", a)
	}
	if a.Source == nil || *a.Source != "Reuters" || a.Location == nil || *a.Location != "Florida" {
		t.Errorf("Source/location not mapped: %+v", a)
	}
}

func TestIteratorStopsAtLastPage(t *testing.T) {
	var reqs []searchRequest
	srv := pagedServer(t, 23, &reqs)
	defer srv.Close()

	c := &Client{Endpoint: srv.URL, PageSize: 10}
	table, err := articles.Build(context.Background(), c.Articles(Query{Keywords: []string{"storm"}}, 0), 0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(table) != 23 || len(reqs) != 3 {
		t.Errorf("Expected 23 articles in 3 pages, got %d in %d", len(table), len(reqs))
	}
	if reqs[0].KeywordOper != "" {
		t.Error("Single keyword should not send an operator")
	}
}

func TestIteratorEmptyResult(t *testing.T) {
	var reqs []searchRequest
	srv := pagedServer(t, 0, &reqs)
	defer srv.Close()

	it := (&Client{Endpoint: srv.URL}).Articles(Query{}, 10)
	if _, err := it.Next(context.Background()); !errors.Is(err, io.EOF) {
		t.Errorf("Expected io.EOF, got %v", err)
	}
	if reqs[0].ArticlesCount != MaxPageSize {
		t.Errorf("Default page size should be %d, got %d", MaxPageSize, reqs[0].ArticlesCount)
	}
}

func TestSearchErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"status", http.StatusUnauthorized, `{"error":"bad key"}`, "status 401"},
		{"api error", http.StatusOK, `{"error":"daily quota exceeded"}`, "daily quota exceeded"},
		{"malformed", http.StatusOK, `{"articles":`, "decode page 1"},
		{"missing articles", http.StatusOK, `{}`, "no articles field"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := articles.Build(context.Background(), (&Client{Endpoint: srv.URL}).Articles(Query{}, 5), 0)
			if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Expected error containing %q, got %v", tt.wantMsg, err)
			}
		})
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain text", "plain text"},
		{"<p>one</p><p>two</p>", "one\ntwo"},
		{"Tom &amp; Jerry", "Tom & Jerry"},
		{"<script>var x;</script>kept", "kept"},
	}
	for _, tt := range tests {
		if got := stripHTML(tt.in); got != tt.want {
			t.Errorf("stripHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
