package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/cognicore/newslens/internal/jsonl"
	"github.com/cognicore/newslens/pkg/newslens/articles"
	"github.com/cognicore/newslens/pkg/newslens/features"
	"github.com/cognicore/newslens/pkg/newslens/store/sqlite"
)

type featureRow struct {
	ID       string `json:"id"`
	Value    string `json:"value,omitempty"`
	Features []int  `json:"features"`
}

type summary struct {
	Column     string   `json:"column"`
	Rows       int      `json:"rows"`
	Cols       int      `json:"cols"`
	Vocabulary []string `json:"vocabulary"`
}

func main() {
	var (
		dataPath = flag.String("data", "", "Input articles JSONL")
		dbPath   = flag.String("db", "", "SQLite database (instead of --data)")
		from     = flag.String("from", "", "Earliest date when reading --db")
		to       = flag.String("to", "", "Latest date when reading --db")
		column   = flag.String("column", articles.ColPersonList, "Entity column to encode")
		scalar   = flag.String("with", "", "Scalar column to carry alongside each row, e.g. source")
		limit    = flag.Int("limit", features.DefaultVocabularyLimit, "Vocabulary size")
		outPath  = flag.String("out", "", "Write one feature row per article as JSONL")
	)
	flag.Parse()

	if *dataPath == "" && *dbPath == "" {
		log.Fatal("--data or --db required")
	}

	table, err := loadTable(context.Background(), *dataPath, *dbPath, *from, *to)
	if err != nil {
		log.Fatal("Failed to load articles:", err)
	}

	lists, err := table.EntityColumn(*column)
	if err != nil {
		log.Fatal("Failed to read entity column:", err)
	}

	enc := &features.MostCommonEntity{Limit: *limit}
	matrix := enc.FitTransform(lists)
	vocab := enc.Vocabulary()

	if *outPath != "" {
		var values []string
		if *scalar != "" {
			values, err = (&features.ColumnExtractor{Column: *scalar}).Fit(table).Transform(table)
			if err != nil {
				log.Fatal("Failed to read scalar column:", err)
			}
		}
		rows := make([]featureRow, len(table))
		for i, a := range table {
			rows[i] = featureRow{ID: a.ID, Features: matrix[i]}
			if values != nil {
				rows[i].Value = values[i]
			}
		}
		if err := jsonl.WriteFile(*outPath, rows); err != nil {
			log.Fatal("Failed to write features:", err)
		}
		log.Printf("Wrote %d feature rows to %s", len(rows), *outPath)
	}

	out := json.NewEncoder(os.Stdout)
	out.SetIndent("", "  ")
	if err := out.Encode(summary{Column: *column, Rows: len(matrix), Cols: len(vocab), Vocabulary: vocab}); err != nil {
		log.Fatal(err)
	}
}

func loadTable(ctx context.Context, dataPath, dbPath, from, to string) (articles.Table, error) {
	if dataPath != "" {
		return jsonl.LoadArticles(dataPath)
	}
	var lo, hi time.Time
	var err error
	if from != "" {
		if lo, err = articles.ParseDate(from); err != nil {
			return nil, err
		}
	}
	if to != "" {
		if hi, err = articles.ParseDate(to); err != nil {
			return nil, err
		}
	}
	st, err := sqlite.OpenSQLite(ctx, dbPath)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.ArticlesBetween(ctx, lo, hi)
}
