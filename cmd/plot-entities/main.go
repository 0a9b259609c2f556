package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"strings"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/cognicore/newslens/internal/jsonl"
	"github.com/cognicore/newslens/pkg/newslens/articles"
	"github.com/cognicore/newslens/pkg/newslens/config"
	"github.com/cognicore/newslens/pkg/newslens/store/sqlite"
	"github.com/cognicore/newslens/pkg/newslens/timeline"
)

var columnTitles = map[string]string{
	articles.ColPersonList: "People",
	articles.ColEventList:  "Events",
}

func main() {
	var (
		dataPath   = flag.String("data", "", "Input articles JSONL")
		dbPath     = flag.String("db", "", "SQLite database (instead of --data)")
		from       = flag.String("from", "", "Earliest date when reading --db")
		to         = flag.String("to", "", "Latest date when reading --db")
		configPath = flag.String("config", "", "toolkit.yaml settings (optional)")
		columns    = flag.String("column", articles.ColPersonList, "Comma-separated entity columns; several stack into panels")
		filter     = flag.String("filter", "", "Comma-separated substrings to exclude (default from settings)")
		maxRank    = flag.Int("max-rank", 0, "Dense rank cutoff per day (default from settings)")
		title      = flag.String("title", "", "Y axis title for a single column")
		seed       = flag.Int64("seed", 0, "Random seed for jitter and label placement (0 = time)")
		outPath    = flag.String("out", "entities.png", "Output image")
	)
	flag.Parse()

	if *dataPath == "" && *dbPath == "" {
		log.Fatal("--data or --db required")
	}

	settings := config.DefaultSettings()
	if *configPath != "" {
		s, err := config.LoadSettings(*configPath)
		if err != nil {
			log.Fatal("Failed to load settings:", err)
		}
		settings = s
	}
	palette, err := timeline.ParsePalette(settings.Palette)
	if err != nil {
		log.Fatal("Failed to parse palette:", err)
	}

	rank := settings.MaxRank
	if *maxRank > 0 {
		rank = *maxRank
	}
	exclude := settings.EntityFilter
	if *filter != "" {
		exclude = splitList(*filter)
	}

	table, err := loadTable(context.Background(), *dataPath, *dbPath, *from, *to)
	if err != nil {
		log.Fatal("Failed to load articles:", err)
	}
	log.Printf("Loaded %d articles", len(table))

	opts := timeline.Options{Palette: palette}
	if *seed != 0 {
		opts.Rand = rand.New(rand.NewSource(*seed))
	}

	cols := splitList(*columns)
	var plots []*plot.Plot
	for _, col := range cols {
		lists, err := table.EntityColumn(col)
		if err != nil {
			log.Fatal("Failed to read entity column:", err)
		}
		rows := make([]timeline.EntityRow, len(table))
		for i, a := range table {
			rows[i] = timeline.EntityRow{Date: a.Date, Entities: lists[i]}
		}

		yTitle := columnTitles[col]
		if *title != "" && len(cols) == 1 {
			yTitle = *title
		}
		p, fig, err := timeline.PlotEntities(rows, exclude, rank, yTitle, opts)
		if err != nil {
			log.Fatal("Failed to render timeline:", err)
		}
		log.Printf("%s: %d points over %d days", col, len(fig.Points), fig.Axis.Len())
		plots = append(plots, p)
	}

	width := vg.Length(settings.Figure.WidthIn) * vg.Inch
	height := vg.Length(settings.Figure.HeightIn) * vg.Inch
	if len(plots) == 1 {
		err = timeline.Save(plots[0], *outPath, width, height)
	} else {
		err = timeline.SavePanels(plots, *outPath, width, height)
	}
	if err != nil {
		log.Fatal("Failed to save figure:", err)
	}
	log.Printf("✓ Wrote %s", *outPath)
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

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
