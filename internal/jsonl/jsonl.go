// Package jsonl reads and writes the line-delimited JSON files the
// commands exchange.
package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strings"

	"github.com/cognicore/newslens/pkg/newslens/articles"
	"github.com/cognicore/newslens/pkg/newslens/internalerr"
	"github.com/cognicore/newslens/pkg/newslens/timeline"
)

// TokenRow is one processed article body.
type TokenRow struct {
	ID     string   `json:"id"`
	Tokens []string `json:"tokens"`
}

// TopicRow is one article's topic weights as produced by the external
// topic model. A null weight is missing.
type TopicRow struct {
	ID     string              `json:"id"`
	Date   string              `json:"date"`
	Topics map[string]*float64 `json:"topics"`
}

// LoadArticles loads an article table. Malformed lines are skipped with a
// warning.
func LoadArticles(path string) (articles.Table, error) {
	table := articles.Table{}
	err := eachLine(path, func(line []byte) error {
		var a articles.Article
		if err := json.Unmarshal(line, &a); err != nil {
			return err
		}
		a.Date = articles.Day(a.Date)
		table = append(table, a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("no valid articles found in %s: %w", path, internalerr.ErrNotFound)
	}
	return table, nil
}

// LoadTopicRows loads topic weights keyed to article dates.
func LoadTopicRows(path string) ([]timeline.TopicRow, error) {
	var rows []timeline.TopicRow
	err := eachLine(path, func(line []byte) error {
		var r TopicRow
		if err := json.Unmarshal(line, &r); err != nil {
			return err
		}
		date, err := articles.ParseDate(r.Date)
		if err != nil {
			return err
		}
		weights := make(map[string]float64, len(r.Topics))
		for topic, w := range r.Topics {
			if w == nil {
				weights[topic] = math.NaN()
				continue
			}
			weights[topic] = *w
		}
		rows = append(rows, timeline.TopicRow{Date: date, Weights: weights})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no valid topic rows found in %s: %w", path, internalerr.ErrNotFound)
	}
	return rows, nil
}

func eachLine(path string, fn func([]byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("read file %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if err := fn([]byte(line)); err != nil {
			log.Printf("Warning: skipping malformed JSON at line %d in %s: %v", lineNo, path, err)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read file %s: %w", path, err)
	}
	return nil
}

// Write encodes each value on its own line.
func Write[T any](w io.Writer, rows []T) error {
	enc := json.NewEncoder(w)
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile writes rows to path, creating or truncating it.
func WriteFile[T any](path string, rows []T) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	bw := bufio.NewWriter(f)
	if err := Write(bw, rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
