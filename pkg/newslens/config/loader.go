package config

import (
	"fmt"
	"image/color"

	"github.com/cognicore/newslens/pkg/newslens/entities"
	"github.com/cognicore/newslens/pkg/newslens/stoplist"
	"github.com/cognicore/newslens/pkg/newslens/textnorm"
	"github.com/cognicore/newslens/pkg/newslens/timeline"
)

// Loader loads all configuration files and constructs components. Empty
// paths fall back to the embedded defaults.
type Loader struct {
	SettingsPath     string
	StoplistPath     string
	ContractionsPath string
	GazetteerPath    string

	// Lemmatizer replaces the English dictionary lemmatizer when set.
	Lemmatizer textnorm.Lemmatizer
}

// Components holds all loaded configuration components
type Components struct {
	Settings     *Settings
	Stoplist     *stoplist.Set
	Contractions *textnorm.Contractions
	Pipeline     *textnorm.Pipeline
	Gazetteer    *entities.Gazetteer
	Palette      []color.Color
}

// Load reads all configuration files and returns initialized components
func (l *Loader) Load() (*Components, error) {
	comp := &Components{}

	if l.SettingsPath != "" {
		s, err := LoadSettings(l.SettingsPath)
		if err != nil {
			return nil, fmt.Errorf("load settings: %w", err)
		}
		comp.Settings = s
	} else {
		comp.Settings = DefaultSettings()
	}

	palette, err := timeline.ParsePalette(comp.Settings.Palette)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	comp.Palette = palette

	if l.StoplistPath != "" {
		stops, err := stoplist.Load(l.StoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		comp.Stoplist = stops
	} else {
		comp.Stoplist = stoplist.English()
	}

	if l.ContractionsPath != "" {
		c, err := textnorm.LoadContractions(l.ContractionsPath)
		if err != nil {
			return nil, fmt.Errorf("load contractions: %w", err)
		}
		comp.Contractions = c
	} else {
		comp.Contractions = textnorm.DefaultContractions()
	}

	if l.GazetteerPath != "" {
		g, err := entities.LoadGazetteer(l.GazetteerPath)
		if err != nil {
			return nil, fmt.Errorf("load gazetteer: %w", err)
		}
		comp.Gazetteer = g
	} else {
		comp.Gazetteer = entities.NewGazetteer()
	}

	lemmatizer := l.Lemmatizer
	if lemmatizer == nil {
		dict, err := textnorm.NewDictLemmatizer()
		if err != nil {
			return nil, fmt.Errorf("load lemmatizer: %w", err)
		}
		lemmatizer = dict
	}
	cached, err := textnorm.NewCachedLemmatizer(lemmatizer, comp.Settings.LemmaCacheSize)
	if err != nil {
		return nil, fmt.Errorf("load lemmatizer: %w", err)
	}
	comp.Pipeline = textnorm.NewPipeline(comp.Contractions, comp.Stoplist, cached)

	return comp, nil
}

// Extractor returns the configured entity extractor.
func (c *Components) Extractor() entities.Extractor {
	return c.Settings.Extractor(c.Gazetteer)
}
