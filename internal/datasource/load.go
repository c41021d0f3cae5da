package datasource

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/carddeck/pkg/metrics"
	"github.com/vanderheijden86/carddeck/pkg/model"
)

// Deck is the on-disk document shape shared by the JSON and YAML
// forms.
type Deck struct {
	Cards []model.Card `json:"cards" yaml:"cards"`
}

// Load reads a deck from a single source path, dispatching on the file
// extension. Card order in the file is preserved.
func Load(path string) ([]model.Card, error) {
	defer metrics.Timer(metrics.DeckLoad)()
	switch typeFor(path) {
	case SourceTypeSQLite:
		return loadSQLite(path)
	case SourceTypeJSON:
		return loadJSON(path)
	case SourceTypeYAML:
		return loadYAML(path)
	default:
		return nil, fmt.Errorf("load %s: unsupported deck format", path)
	}
}

// LoadBest discovers sources in dir and loads the best one.
func LoadBest(ctx context.Context, dir string) ([]model.Card, Source, error) {
	sources, err := Discover(ctx, dir)
	if err != nil {
		return nil, Source{}, err
	}
	best := sources[0]
	cards, err := Load(best.Path)
	if err != nil {
		return nil, best, err
	}
	return cards, best, nil
}

func loadJSON(path string) ([]model.Card, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck: %w", err)
	}
	var deck Deck
	if err := json.Unmarshal(raw, &deck); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if deck.Cards == nil {
		// Also accept a bare top-level array of cards.
		var cards []model.Card
		if err := json.Unmarshal(raw, &cards); err != nil {
			return nil, fmt.Errorf("parse %s: deck has no cards", path)
		}
		deck.Cards = cards
	}
	return deck.Cards, nil
}

func loadYAML(path string) ([]model.Card, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck: %w", err)
	}
	var deck Deck
	if err := yaml.Unmarshal(raw, &deck); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if deck.Cards == nil {
		var cards []model.Card
		if err := yaml.Unmarshal(raw, &cards); err != nil {
			return nil, fmt.Errorf("parse %s: deck has no cards", path)
		}
		deck.Cards = cards
	}
	return deck.Cards, nil
}
