package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/cognicore/newslens/internal/eventregistry"
	"github.com/cognicore/newslens/internal/jsonl"
	"github.com/cognicore/newslens/pkg/newslens/articles"
	"github.com/cognicore/newslens/pkg/newslens/config"
	"github.com/cognicore/newslens/pkg/newslens/entities"
	"github.com/cognicore/newslens/pkg/newslens/store"
	"github.com/cognicore/newslens/pkg/newslens/store/sqlite"
)

func main() {
	var (
		configPath    = flag.String("config", "", "toolkit.yaml settings (optional)")
		gazetteerPath = flag.String("gazetteer", "", "Entity gazetteer YAML (optional)")
		keywords      = flag.String("keywords", "", "Comma-separated query keywords (required)")
		lang          = flag.String("lang", "", "Article language (default from settings)")
		from          = flag.String("from", "", "Earliest article date, YYYY-MM-DD")
		to            = flag.String("to", "", "Latest article date, YYYY-MM-DD")
		maxItems      = flag.Int("max", 0, "Maximum articles (default from settings)")
		enrich        = flag.Bool("enrich", false, "Extract PERSON and EVENT entities")
		outPath       = flag.String("out", "", "Output JSONL file")
		dbPath        = flag.String("db", "", "SQLite database to upsert into")
	)
	flag.Parse()

	if *keywords == "" {
		log.Fatal("--keywords required")
	}
	if *outPath == "" && *dbPath == "" {
		log.Fatal("--out or --db required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	settings := config.DefaultSettings()
	if *configPath != "" {
		s, err := config.LoadSettings(*configPath)
		if err != nil {
			log.Fatal("Failed to load settings:", err)
		}
		settings = s
	}
	if settings.EventRegistry.APIKey == "" {
		log.Fatalf("Event Registry API key missing: set %s or eventregistry.api_key", config.APIKeyEnv)
	}

	q := eventregistry.Query{
		Keywords:  splitList(*keywords),
		Lang:      settings.EventRegistry.Lang,
		DateStart: parseDateFlag("from", *from),
		DateEnd:   parseDateFlag("to", *to),
	}
	if *lang != "" {
		q.Lang = *lang
	}
	n := settings.EventRegistry.MaxItems
	if *maxItems > 0 {
		n = *maxItems
	}

	client := &eventregistry.Client{
		Endpoint: settings.EventRegistry.Endpoint,
		APIKey:   settings.EventRegistry.APIKey,
	}
	src := client.Articles(q, n)

	log.Printf("Querying Event Registry for %q (max %d)", q.Keywords, n)

	var (
		table     articles.Table
		extractor entities.Extractor
		err       error
	)
	if *enrich {
		extractor, err = buildExtractor(settings, *gazetteerPath)
		if err != nil {
			log.Fatal("Failed to load entity extractor:", err)
		}
		table, err = articles.BuildEnriched(ctx, src, n, extractor)
	} else {
		table, err = articles.Build(ctx, src, n)
	}
	if err != nil {
		log.Fatal("Failed to fetch articles:", err)
	}
	log.Printf("Fetched %d articles", len(table))

	if *outPath != "" {
		if err := jsonl.WriteFile(*outPath, table); err != nil {
			log.Fatal("Failed to write articles:", err)
		}
		log.Printf("Wrote %s", *outPath)
	}

	if *dbPath != "" {
		st, err := sqlite.OpenSQLite(ctx, *dbPath)
		if err != nil {
			log.Fatal("Failed to open database:", err)
		}
		defer st.Close()

		runID := store.NewRunIDs().Next()
		if err := st.UpsertArticles(ctx, runID, table); err != nil {
			log.Fatal("Failed to store articles:", err)
		}
		log.Printf("Stored %d articles in %s (run %s)", len(table), *dbPath, runID)
	}
}

func buildExtractor(settings *config.Settings, gazetteerPath string) (entities.Extractor, error) {
	var g *entities.Gazetteer
	if gazetteerPath != "" {
		loaded, err := entities.LoadGazetteer(gazetteerPath)
		if err != nil {
			return nil, err
		}
		g = loaded
	} else if settings.NER.Endpoint == "" {
		log.Printf("Warning: no NER endpoint or gazetteer configured; entity lists will be empty")
	}
	return settings.Extractor(g), nil
}

func parseDateFlag(name, value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	d, err := articles.ParseDate(value)
	if err != nil {
		log.Fatalf("--%s: %v", name, err)
	}
	return d
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
