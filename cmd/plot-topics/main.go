package main

import (
	"flag"
	"log"
	"math/rand"
	"strings"

	"gonum.org/v1/plot/vg"

	"github.com/cognicore/newslens/internal/jsonl"
	"github.com/cognicore/newslens/pkg/newslens/config"
	"github.com/cognicore/newslens/pkg/newslens/timeline"
)

func main() {
	var (
		topicsPath = flag.String("topics", "", "Per-article topic weights JSONL (required)")
		configPath = flag.String("config", "", "toolkit.yaml settings (optional)")
		only       = flag.String("only", "", "Comma-separated topics to plot (default all)")
		maxRank    = flag.Int("max-rank", 0, "Dense rank cutoff per day (default from settings)")
		title      = flag.String("title", "Topics", "Y axis title")
		seed       = flag.Int64("seed", 0, "Random seed for jitter and label placement (0 = time)")
		outPath    = flag.String("out", "topics.png", "Output image")
	)
	flag.Parse()

	if *topicsPath == "" {
		log.Fatal("--topics required")
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

	rows, err := jsonl.LoadTopicRows(*topicsPath)
	if err != nil {
		log.Fatal("Failed to load topic weights:", err)
	}

	var topics []string
	for _, t := range strings.Split(*only, ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	if topics == nil {
		topics = timeline.TopicNames(rows)
	}
	log.Printf("Loaded %d rows, %d topics", len(rows), len(topics))

	opts := timeline.Options{Palette: palette}
	if *seed != 0 {
		opts.Rand = rand.New(rand.NewSource(*seed))
	}

	p, fig, err := timeline.PlotTopics(rows, topics, rank, *title, opts)
	if err != nil {
		log.Fatal("Failed to render timeline:", err)
	}
	log.Printf("%d points over %d days", len(fig.Points), fig.Axis.Len())

	width := vg.Length(settings.Figure.WidthIn) * vg.Inch
	height := vg.Length(settings.Figure.HeightIn) * vg.Inch
	if err := timeline.Save(p, *outPath, width, height); err != nil {
		log.Fatal("Failed to save figure:", err)
	}
	log.Printf("✓ Wrote %s", *outPath)
}
