package articles

import (
	"fmt"
	"strings"
	"time"

	"github.com/cognicore/newslens/pkg/newslens/internalerr"
)

// DateLayout is the calendar-date format used on the wire and in tables.
const DateLayout = "2006-01-02"

// Article is one ingested news article. PersonList and EventList are nil
// unless the table was built with an entity extractor.
type Article struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Date       time.Time `json:"date"`
	Source     *string   `json:"source"`
	Location   *string   `json:"location"`
	PersonList []string  `json:"person_list,omitempty"`
	EventList  []string  `json:"event_list,omitempty"`
}

// Column names understood by Table.
const (
	ColID         = "id"
	ColTitle      = "title"
	ColBody       = "body"
	ColDate       = "date"
	ColSource     = "source"
	ColLocation   = "location"
	ColPersonList = "person_list"
	ColEventList  = "event_list"
)

// Table is an ordered record set of articles.
type Table []Article

// Column returns a scalar column. Null values are nil pointers.
func (t Table) Column(name string) ([]*string, error) {
	out := make([]*string, len(t))
	for i := range t {
		a := &t[i]
		switch name {
		case ColID:
			out[i] = &a.ID
		case ColTitle:
			out[i] = &a.Title
		case ColBody:
			out[i] = &a.Body
		case ColDate:
			if !a.Date.IsZero() {
				d := a.Date.Format(DateLayout)
				out[i] = &d
			}
		case ColSource:
			out[i] = a.Source
		case ColLocation:
			out[i] = a.Location
		default:
			return nil, fmt.Errorf("column %q: %w", name, internalerr.ErrUnknownColumn)
		}
	}
	return out, nil
}

// EntityColumn returns one of the list-valued entity columns.
func (t Table) EntityColumn(name string) ([][]string, error) {
	out := make([][]string, len(t))
	for i, a := range t {
		switch name {
		case ColPersonList:
			out[i] = a.PersonList
		case ColEventList:
			out[i] = a.EventList
		default:
			return nil, fmt.Errorf("entity column %q: %w", name, internalerr.ErrUnknownColumn)
		}
	}
	return out, nil
}

// Dates returns the calendar date of every article, in table order.
func (t Table) Dates() []time.Time {
	out := make([]time.Time, len(t))
	for i, a := range t {
		out[i] = a.Date
	}
	return out
}

// ParseDate parses an article date. Event Registry sends YYYY-MM-DD;
// RFC 3339 timestamps are accepted and truncated to their UTC day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(DateLayout, s); err == nil {
		return d, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse article date %q: %w", s, internalerr.ErrInvalidInput)
	}
	return Day(ts), nil
}

// Day truncates t to midnight UTC of its UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
