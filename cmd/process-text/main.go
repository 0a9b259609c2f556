package main

import (
	"flag"
	"log"

	"github.com/cognicore/newslens/internal/jsonl"
	"github.com/cognicore/newslens/pkg/newslens/config"
)

func main() {
	var (
		dataPath         = flag.String("data", "", "Input articles JSONL (required)")
		outPath          = flag.String("out", "", "Output tokens JSONL (required)")
		configPath       = flag.String("config", "", "toolkit.yaml settings (optional)")
		stoplistPath     = flag.String("stoplist", "", "Stoplist YAML (optional, default English)")
		contractionsPath = flag.String("contractions", "", "Contractions YAML (optional)")
		field            = flag.String("field", "body", "Article field to process: body or title")
	)
	flag.Parse()

	if *dataPath == "" {
		log.Fatal("--data required")
	}
	if *outPath == "" {
		log.Fatal("--out required")
	}
	if *field != "body" && *field != "title" {
		log.Fatalf("--field must be body or title, got %q", *field)
	}

	loader := config.Loader{
		SettingsPath:     *configPath,
		StoplistPath:     *stoplistPath,
		ContractionsPath: *contractionsPath,
	}
	components, err := loader.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	log.Printf("Text pipeline: %v", components.Pipeline.Steps())

	table, err := jsonl.LoadArticles(*dataPath)
	if err != nil {
		log.Fatal("Failed to load articles:", err)
	}
	log.Printf("Loaded %d articles from %s", len(table), *dataPath)

	rows := make([]jsonl.TokenRow, len(table))
	for i, a := range table {
		text := a.Body
		if *field == "title" {
			text = a.Title
		}
		rows[i] = jsonl.TokenRow{ID: a.ID, Tokens: components.Pipeline.Process(text)}

		if (i+1)%100 == 0 {
			log.Printf("Processed %d/%d articles", i+1, len(table))
		}
	}

	if err := jsonl.WriteFile(*outPath, rows); err != nil {
		log.Fatal("Failed to write tokens:", err)
	}
	log.Printf("✓ Processing complete: %d articles written to %s", len(rows), *outPath)
}
