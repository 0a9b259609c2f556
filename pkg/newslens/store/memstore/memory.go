package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cognicore/newslens/pkg/newslens/articles"
	"github.com/cognicore/newslens/pkg/newslens/internalerr"
	"github.com/cognicore/newslens/pkg/newslens/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu       sync.RWMutex
	closed   bool
	articles map[string]articles.Article
	runs     map[string]*store.Run
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		articles: make(map[string]articles.Article),
		runs:     make(map[string]*store.Run),
	}
}

// Close implements store.Store. Later calls fail with ErrStoreUnavailable.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// UpsertArticles implements store.Store, keyed by article id.
func (s *Store) UpsertArticles(ctx context.Context, runID string, arts []articles.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return internalerr.ErrStoreUnavailable
	}
	if runID == "" {
		return fmt.Errorf("upsert articles: empty run id: %w", internalerr.ErrInvalidInput)
	}

	run, ok := s.runs[runID]
	if !ok {
		run = &store.Run{ID: runID, StartedAt: store.RunTime(runID)}
		s.runs[runID] = run
	}
	for _, a := range arts {
		if a.ID == "" {
			continue
		}
		a.Date = articles.Day(a.Date)
		s.articles[a.ID] = copyArticle(a)
		run.Articles++
	}
	return nil
}

// GetArticle implements store.Store.
func (s *Store) GetArticle(ctx context.Context, id string) (articles.Article, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return articles.Article{}, false, internalerr.ErrStoreUnavailable
	}
	a, ok := s.articles[id]
	if !ok {
		return articles.Article{}, false, nil
	}
	return copyArticle(a), true, nil
}

// ArticlesBetween implements store.Store.
func (s *Store) ArticlesBetween(ctx context.Context, from, to time.Time) (articles.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, internalerr.ErrStoreUnavailable
	}
	lo, hi := store.DayBounds(from, to)
	out := articles.Table{}
	for _, a := range s.articles {
		d := a.Date.Format(articles.DateLayout)
		if d < lo || d > hi {
			continue
		}
		out = append(out, copyArticle(a))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Runs implements store.Store.
func (s *Store) Runs(ctx context.Context) ([]store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, internalerr.ErrStoreUnavailable
	}
	out := make([]store.Run, 0, len(s.runs))
	for _, r := range s.runs {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func copyArticle(a articles.Article) articles.Article {
	if a.Source != nil {
		src := *a.Source
		a.Source = &src
	}
	if a.Location != nil {
		loc := *a.Location
		a.Location = &loc
	}
	if a.PersonList != nil {
		a.PersonList = append([]string{}, a.PersonList...)
	}
	if a.EventList != nil {
		a.EventList = append([]string{}, a.EventList...)
	}
	return a
}

var _ store.Store = (*Store)(nil)
