package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/newslens/pkg/newslens/articles"
	"github.com/cognicore/newslens/pkg/newslens/entities"
	"github.com/cognicore/newslens/pkg/newslens/internalerr"
	"github.com/cognicore/newslens/pkg/newslens/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %v", path, internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("open %s: %w: %v", path, internalerr.ErrStoreUnavailable, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at TEXT,
	articles INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS articles (
	id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	title TEXT,
	body TEXT,
	date TEXT NOT NULL,
	source TEXT,
	location TEXT,
	enriched INTEGER NOT NULL DEFAULT 0,
	FOREIGN KEY(run_id) REFERENCES runs(id)
);

CREATE INDEX IF NOT EXISTS idx_articles_date ON articles(date);

CREATE TABLE IF NOT EXISTS article_entities (
	article_id TEXT NOT NULL,
	label TEXT NOT NULL,
	position INTEGER NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY(article_id, label, position),
	FOREIGN KEY(article_id) REFERENCES articles(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// UpsertArticles inserts or replaces articles and their entity lists in
// one transaction.
func (s *sqliteStore) UpsertArticles(ctx context.Context, runID string, arts []articles.Article) error {
	if runID == "" {
		return fmt.Errorf("upsert articles: empty run id: %w", internalerr.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var startedAt any
	if ts := store.RunTime(runID); !ts.IsZero() {
		startedAt = ts.Format(time.RFC3339Nano)
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO runs (id, started_at, articles) VALUES (?, ?, 0)
ON CONFLICT(id) DO NOTHING`, runID, startedAt); err != nil {
		return err
	}

	const stmt = `
INSERT INTO articles (id, run_id, title, body, date, source, location, enriched)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	run_id=excluded.run_id,
	title=excluded.title,
	body=excluded.body,
	date=excluded.date,
	source=excluded.source,
	location=excluded.location,
	enriched=excluded.enriched
`
	upsert, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		return err
	}
	defer upsert.Close()

	n := 0
	for _, a := range arts {
		if a.ID == "" {
			continue
		}
		enriched := 0
		if a.PersonList != nil || a.EventList != nil {
			enriched = 1
		}
		if _, err := upsert.ExecContext(ctx,
			a.ID,
			runID,
			a.Title,
			a.Body,
			articles.Day(a.Date).Format(articles.DateLayout),
			nullable(a.Source),
			nullable(a.Location),
			enriched,
		); err != nil {
			return fmt.Errorf("upsert article %s: %w", a.ID, err)
		}
		if err := replaceEntities(ctx, tx, a); err != nil {
			return fmt.Errorf("upsert article %s: %w", a.ID, err)
		}
		n++
	}

	if _, err := tx.ExecContext(ctx, `UPDATE runs SET articles = articles + ? WHERE id = ?`, n, runID); err != nil {
		return err
	}
	return tx.Commit()
}

func replaceEntities(ctx context.Context, tx *sql.Tx, a articles.Article) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM article_entities WHERE article_id=?`, a.ID); err != nil {
		return err
	}
	if len(a.PersonList) == 0 && len(a.EventList) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO article_entities (article_id, label, position, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for label, values := range map[string][]string{
		entities.LabelPerson: a.PersonList,
		entities.LabelEvent:  a.EventList,
	} {
		for i, v := range values {
			if _, err := stmt.ExecContext(ctx, a.ID, label, i, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetArticle returns an article by id.
func (s *sqliteStore) GetArticle(ctx context.Context, id string) (articles.Article, bool, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, title, body, date, source, location, enriched
FROM articles WHERE id = ?`, id)

	a, enriched, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return articles.Article{}, false, nil
	}
	if err != nil {
		return articles.Article{}, false, err
	}

	ents, err := s.loadEntities(ctx, `WHERE e.article_id = ?`, id)
	if err != nil {
		return articles.Article{}, false, err
	}
	attachEntities(&a, enriched, ents[a.ID])
	return a, true, nil
}

// ArticlesBetween returns articles in the inclusive day range.
func (s *sqliteStore) ArticlesBetween(ctx context.Context, from, to time.Time) (articles.Table, error) {
	lo, hi := store.DayBounds(from, to)

	rows, err := s.db.QueryContext(ctx, `
SELECT id, title, body, date, source, location, enriched
FROM articles
WHERE date >= ? AND date <= ?
ORDER BY date, id`, lo, hi)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := articles.Table{}
	var enrichedFlags []bool
	for rows.Next() {
		a, enriched, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
		enrichedFlags = append(enrichedFlags, enriched)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ents, err := s.loadEntities(ctx, `JOIN articles a ON a.id = e.article_id WHERE a.date >= ? AND a.date <= ?`, lo, hi)
	if err != nil {
		return nil, err
	}
	for i := range out {
		attachEntities(&out[i], enrichedFlags[i], ents[out[i].ID])
	}
	return out, nil
}

// Runs lists ingestion runs ordered by id, which is also start order.
func (s *sqliteStore) Runs(ctx context.Context) ([]store.Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, started_at, articles FROM runs ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Run
	for rows.Next() {
		var (
			r       store.Run
			started sql.NullString
		)
		if err := rows.Scan(&r.ID, &started, &r.Articles); err != nil {
			return nil, err
		}
		if started.Valid {
			if ts, err := time.Parse(time.RFC3339Nano, started.String); err == nil {
				r.StartedAt = ts
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(row scanner) (articles.Article, bool, error) {
	var (
		a                articles.Article
		date             string
		source, location sql.NullString
		enriched         int
	)
	if err := row.Scan(&a.ID, &a.Title, &a.Body, &date, &source, &location, &enriched); err != nil {
		return articles.Article{}, false, err
	}
	d, err := time.Parse(articles.DateLayout, date)
	if err != nil {
		return articles.Article{}, false, fmt.Errorf("article %s: %w", a.ID, err)
	}
	a.Date = d
	if source.Valid {
		a.Source = &source.String
	}
	if location.Valid {
		a.Location = &location.String
	}
	return a, enriched != 0, nil
}

type entityLists struct {
	persons []string
	events  []string
}

func (s *sqliteStore) loadEntities(ctx context.Context, where string, args ...any) (map[string]*entityLists, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT e.article_id, e.label, e.value
FROM article_entities e `+where+`
ORDER BY e.article_id, e.label, e.position`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]*entityLists)
	for rows.Next() {
		var id, label, value string
		if err := rows.Scan(&id, &label, &value); err != nil {
			return nil, err
		}
		l, ok := out[id]
		if !ok {
			l = &entityLists{}
			out[id] = l
		}
		switch label {
		case entities.LabelPerson:
			l.persons = append(l.persons, value)
		case entities.LabelEvent:
			l.events = append(l.events, value)
		}
	}
	return out, rows.Err()
}

// attachEntities restores the entity lists. Enriched articles always get
// non-nil lists so they stay distinguishable from unenriched ones.
func attachEntities(a *articles.Article, enriched bool, l *entityLists) {
	if !enriched {
		return
	}
	a.PersonList = []string{}
	a.EventList = []string{}
	if l == nil {
		return
	}
	if l.persons != nil {
		a.PersonList = l.persons
	}
	if l.events != nil {
		a.EventList = l.events
	}
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
