package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/cognicore/newslens/pkg/newslens/articles"
	"github.com/cognicore/newslens/pkg/newslens/internalerr"
	"github.com/cognicore/newslens/pkg/newslens/store"
)

func day(d int) time.Time {
	return time.Date(2022, 9, d, 0, 0, 0, 0, time.UTC)
}

func openTemp(t *testing.T) (store.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "articles.db")
	st, err := OpenSQLite(context.Background(), path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st, path
}

func TestSchemaCreationIdempotent(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Open database: %v", err)
	}
	defer db.Close()

	for i := 0; i < 3; i++ {
		if err := initSchema(ctx, db); err != nil {
			t.Fatalf("initSchema iteration %d: %v", i, err)
		}
	}

	var count int
	err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'").Scan(&count)
	if err != nil {
		t.Fatalf("Count tables: %v", err)
	}
	if count != 3 { // runs, articles, article_entities
		t.Errorf("Expected 3 tables, got %d", count)
	}
}

func TestUpsertAndQueryRoundTrip(t *testing.T) {
	ctx := context.Background()
	st, _ := openTemp(t)
	run := store.NewRunIDs().Next()

	src, loc := "Reuters", "Florida"
	in := []articles.Article{
		{
			ID: "1", Title: "Storm", Body: "Hurricane Ian hits Florida", Date: day(28),
			Source: &src, Location: &loc,
			PersonList: []string{"Ron DeSantis", "Joe Biden"}, EventList: []string{"Hurricane Ian"},
		},
		{ID: "2", Title: "Quiet", Date: day(29), PersonList: []string{}, EventList: []string{}},
		{ID: "3", Title: "Plain", Date: day(30).Add(18 * time.Hour)},
	}
	if err := st.UpsertArticles(ctx, run, in); err != nil {
		t.Fatalf("UpsertArticles: %v", err)
	}

	got, err := st.ArticlesBetween(ctx, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("ArticlesBetween: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 articles, got %d", len(got))
	}

	first := got[0]
	if first.ID != "1" || *first.Source != "Reuters" || *first.Location != "Florida" {
		t.Errorf("Unexpected first article %+v", first)
	}
	if !reflect.DeepEqual(first.PersonList, []string{"Ron DeSantis", "Joe Biden"}) {
		t.Errorf("Person order not preserved: %v", first.PersonList)
	}
	if !reflect.DeepEqual(first.EventList, []string{"Hurricane Ian"}) {
		t.Errorf("Events = %v", first.EventList)
	}

	if got[1].PersonList == nil || len(got[1].PersonList) != 0 {
		t.Errorf("Enriched article without entities should have empty lists, got %#v", got[1].PersonList)
	}
	if got[2].PersonList != nil || got[2].Source != nil {
		t.Errorf("Unenriched article should have nil lists and source, got %+v", got[2])
	}
	if !got[2].Date.Equal(day(30)) {
		t.Errorf("Date should be stored by day, got %v", got[2].Date)
	}
}

func TestArticlesBetweenRange(t *testing.T) {
	ctx := context.Background()
	st, _ := openTemp(t)
	run := store.NewRunIDs().Next()

	var in []articles.Article
	for d := 1; d <= 5; d++ {
		in = append(in, articles.Article{ID: string(rune('a' + d)), Date: day(d)})
	}
	if err := st.UpsertArticles(ctx, run, in); err != nil {
		t.Fatalf("UpsertArticles: %v", err)
	}

	got, err := st.ArticlesBetween(ctx, day(2), day(4).Add(23*time.Hour))
	if err != nil {
		t.Fatalf("ArticlesBetween: %v", err)
	}
	if len(got) != 3 || !got[0].Date.Equal(day(2)) || !got[2].Date.Equal(day(4)) {
		t.Errorf("Expected days 2..4, got %+v", got)
	}
}

func TestUpsertReplacesAndTracksRuns(t *testing.T) {
	ctx := context.Background()
	st, path := openTemp(t)
	ids := store.NewRunIDs()
	run1, run2 := ids.Next(), ids.Next()

	if err := st.UpsertArticles(ctx, run1, []articles.Article{
		{ID: "1", Title: "old", Date: day(1), PersonList: []string{"A", "B"}, EventList: []string{}},
		{ID: "2", Title: "other", Date: day(1)},
	}); err != nil {
		t.Fatalf("UpsertArticles run1: %v", err)
	}
	if err := st.UpsertArticles(ctx, run2, []articles.Article{
		{ID: "1", Title: "new", Date: day(2), PersonList: []string{"C"}, EventList: []string{}},
	}); err != nil {
		t.Fatalf("UpsertArticles run2: %v", err)
	}

	a, ok, err := st.GetArticle(ctx, "1")
	if err != nil || !ok {
		t.Fatalf("GetArticle: %v %v", ok, err)
	}
	if a.Title != "new" || !a.Date.Equal(day(2)) || !reflect.DeepEqual(a.PersonList, []string{"C"}) {
		t.Errorf("Upsert should replace article and entities, got %+v", a)
	}

	if _, ok, err := st.GetArticle(ctx, "missing"); ok || err != nil {
		t.Errorf("Missing article: ok=%v err=%v", ok, err)
	}

	st.Close()
	st2, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("Reopen: %v", err)
	}
	defer st2.Close()

	runs, err := st2.Runs(ctx)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %+v", runs)
	}
	if runs[0].ID != run1 || runs[0].Articles != 2 || runs[1].Articles != 1 {
		t.Errorf("Unexpected runs %+v", runs)
	}
	if runs[0].StartedAt.IsZero() {
		t.Error("Run start time should come from the ULID")
	}
}

func TestUpsertEmptyRunID(t *testing.T) {
	st, _ := openTemp(t)
	err := st.UpsertArticles(context.Background(), "", []articles.Article{{ID: "1"}})
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}
