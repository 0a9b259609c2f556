// Package store persists fetched article tables so timelines can be
// re-plotted without querying the news source again.
package store

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/newslens/pkg/newslens/articles"
)

// Store is the interface for persisting and querying articles.
type Store interface {
	Close() error

	// UpsertArticles stores arts under runID, replacing any article with the
	// same id, and records the run.
	UpsertArticles(ctx context.Context, runID string, arts []articles.Article) error
	// GetArticle returns one article by id.
	GetArticle(ctx context.Context, id string) (articles.Article, bool, error)
	// ArticlesBetween returns articles dated within [from, to] by calendar
	// day, ordered by date then id. A zero bound is open.
	ArticlesBetween(ctx context.Context, from, to time.Time) (articles.Table, error)
	// Runs lists ingestion runs, oldest first.
	Runs(ctx context.Context) ([]Run, error)
}

// Run is one ingestion run.
type Run struct {
	ID        string
	StartedAt time.Time
	Articles  int // articles upserted under this run
}

// RunIDs generates sortable run identifiers. Safe for concurrent use.
type RunIDs struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewRunIDs creates a run id generator.
func NewRunIDs() *RunIDs {
	return &RunIDs{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// Next returns a new run id stamped with the current time.
func (g *RunIDs) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Now(), g.entropy).String()
}

// RunTime extracts the timestamp embedded in a run id. Ids that are not
// ULIDs yield the zero time.
func RunTime(id string) time.Time {
	u, err := ulid.ParseStrict(id)
	if err != nil {
		return time.Time{}
	}
	return ulid.Time(u.Time()).UTC()
}

// DayBounds turns an inclusive [from, to] range into calendar-date strings,
// substituting open bounds for zero times.
func DayBounds(from, to time.Time) (string, string) {
	lo, hi := "0000-01-01", "9999-12-31"
	if !from.IsZero() {
		lo = articles.Day(from).Format(articles.DateLayout)
	}
	if !to.IsZero() {
		hi = articles.Day(to).Format(articles.DateLayout)
	}
	return lo, hi
}
