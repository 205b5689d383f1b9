package insights

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/moods.yaml data/quotes.yaml
var dataFS embed.FS

type yamlCatalog struct {
	Version int              `yaml:"version"`
	Moods   []MoodDefinition `yaml:"moods"`
}

type yamlQuotes struct {
	Version int     `yaml:"version"`
	Quotes  []Quote `yaml:"quotes"`
}

var (
	builtinOnce    sync.Once
	builtinCatalog *Catalog
	builtinErr     error

	quotesOnce sync.Once
	quotes     []Quote
	quotesErr  error
)

// BuiltinCatalog returns a fresh copy of the built-in moods. Callers may Add to it.
func BuiltinCatalog() *Catalog {
	builtinOnce.Do(func() {
		data, err := dataFS.ReadFile("data/moods.yaml")
		if err != nil {
			builtinErr = err
			return
		}
		builtinCatalog, builtinErr = ParseCatalog(data)
	})
	if builtinErr != nil {
		// embedded data is part of the build
		panic(fmt.Sprintf("insights: built-in moods: %v", builtinErr))
	}
	return builtinCatalog.Clone()
}

// DefaultQuotes returns a copy of the built-in reflection table.
func DefaultQuotes() []Quote {
	quotesOnce.Do(func() {
		data, err := dataFS.ReadFile("data/quotes.yaml")
		if err != nil {
			quotesErr = err
			return
		}
		quotes, quotesErr = ParseQuotes(data)
	})
	if quotesErr != nil {
		panic(fmt.Sprintf("insights: built-in quotes: %v", quotesErr))
	}
	out := make([]Quote, len(quotes))
	copy(out, quotes)
	return out
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var spec yamlCatalog
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse moods: %w", err)
	}
	if len(spec.Moods) == 0 {
		return nil, fmt.Errorf("parse moods: no moods defined")
	}
	return NewCatalog(spec.Moods...)
}

func ParseQuotes(data []byte) ([]Quote, error) {
	var spec yamlQuotes
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parse quotes: %w", err)
	}
	out := make([]Quote, 0, len(spec.Quotes))
	for i, q := range spec.Quotes {
		if q.Text == "" || q.Author == "" {
			return nil, fmt.Errorf("parse quotes: entry %d needs quote and author", i)
		}
		switch q.Category {
		case CategoryManifesting, CategorySelfAwareness, CategorySelfLove:
		default:
			return nil, fmt.Errorf("parse quotes: entry %d has unknown category %q", i, q.Category)
		}
		out = append(out, q)
	}
	return out, nil
}
