package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/newslens/pkg/newslens/entities"
	"github.com/cognicore/newslens/pkg/newslens/internalerr"
)

// APIKeyEnv overrides EventRegistry.APIKey when set.
const APIKeyEnv = "EVENTREGISTRY_API_KEY"

//go:embed toolkit.yaml
var defaultSettings []byte

// Settings is the toolkit.yaml file.
type Settings struct {
	Palette        []string      `yaml:"palette"`
	MaxRank        int           `yaml:"max_rank"`
	LemmaCacheSize int           `yaml:"lemma_cache_size"`
	Figure         Figure        `yaml:"figure"`
	EntityFilter   []string      `yaml:"entity_filter"`
	EventRegistry  EventRegistry `yaml:"eventregistry"`
	NER            NER           `yaml:"ner"`
}

// Figure is the rendered figure size in inches.
type Figure struct {
	WidthIn  float64 `yaml:"width_in"`
	HeightIn float64 `yaml:"height_in"`
}

// EventRegistry configures the article source.
type EventRegistry struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
	Lang     string `yaml:"lang"`
	MaxItems int    `yaml:"max_items"`
}

// NER configures the optional HTTP entity extractor.
type NER struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
}

// DefaultSettings returns the embedded defaults with the environment
// override applied.
func DefaultSettings() *Settings {
	s, err := parseSettings(nil)
	if err != nil {
		panic(fmt.Sprintf("embedded toolkit settings: %v", err))
	}
	return s
}

// LoadSettings reads a toolkit.yaml. Keys missing from the file keep their
// default values.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseSettings(data)
}

func parseSettings(data []byte) (*Settings, error) {
	var s Settings
	if err := yaml.Unmarshal(defaultSettings, &s); err != nil {
		return nil, err
	}
	if len(data) > 0 {
		// yaml.v3 replaces sequences wholesale, so a user palette never
		// mixes with the default one.
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, err
		}
	}
	if key := strings.TrimSpace(os.Getenv(APIKeyEnv)); key != "" {
		s.EventRegistry.APIKey = key
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate rejects settings no command can run with.
func (s *Settings) Validate() error {
	switch {
	case len(s.Palette) == 0:
		return fmt.Errorf("palette: %w", internalerr.ErrInvalidConfig)
	case s.MaxRank < 1:
		return fmt.Errorf("max_rank %d: %w", s.MaxRank, internalerr.ErrInvalidConfig)
	case s.Figure.WidthIn <= 0 || s.Figure.HeightIn <= 0:
		return fmt.Errorf("figure size %gx%g: %w", s.Figure.WidthIn, s.Figure.HeightIn, internalerr.ErrInvalidConfig)
	case s.EventRegistry.MaxItems < 0:
		return fmt.Errorf("eventregistry.max_items %d: %w", s.EventRegistry.MaxItems, internalerr.ErrInvalidConfig)
	}
	return nil
}

// Extractor selects the HTTP NER service when an endpoint is configured,
// otherwise g. A nil g extracts nothing.
func (s *Settings) Extractor(g *entities.Gazetteer) entities.Extractor {
	if s.NER.Endpoint != "" {
		return &entities.HTTPExtractor{Endpoint: s.NER.Endpoint, APIKey: s.NER.APIKey}
	}
	if g == nil {
		return entities.NewGazetteer()
	}
	return g
}
