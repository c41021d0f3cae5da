// Package testutil provides deterministic deck fixtures for tests. All
// generators produce the same output for the same seed so failures are
// reproducible.
package testutil

import (
	"fmt"
	"math/rand"

	"github.com/vanderheijden86/carddeck/pkg/model"
)

// GeneratorConfig controls card generation.
type GeneratorConfig struct {
	Seed        int64    // Random seed for determinism (0 = 42)
	IDPrefix    string   // Prefix for card IDs (default: "test")
	Colors      []string // Base colors to cycle through (nil = built-in set)
	MetricsPer  int      // Metrics per card (default: 3)
	Recommended float64  // Fraction of cards flagged recommended (default: 0.25)
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:        42,
		IDPrefix:    "test",
		Colors:      []string{"#3B82F6", "#10B981", "#F59E0B", "#8B5CF6"},
		MetricsPer:  3,
		Recommended: 0.25,
	}
}

// Generator creates deck fixtures.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = "test"
	}
	if len(cfg.Colors) == 0 {
		cfg.Colors = DefaultConfig().Colors
	}
	if cfg.MetricsPer <= 0 {
		cfg.MetricsPer = 3
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// Deck generates n cards with mixed metric formats.
func (g *Generator) Deck(n int) []model.Card {
	cards := make([]model.Card, n)
	for i := range cards {
		cards[i] = g.card(i)
	}
	return cards
}

func (g *Generator) card(i int) model.Card {
	c := model.Card{
		ID:          fmt.Sprintf("%s-%03d", g.cfg.IDPrefix, i),
		Name:        fmt.Sprintf("Card %03d", i),
		Color:       g.cfg.Colors[i%len(g.cfg.Colors)],
		Recommended: g.rng.Float64() < g.cfg.Recommended,
		Metrics:     make([]model.Metric, 0, g.cfg.MetricsPer),
	}
	for j := 0; j < g.cfg.MetricsPer; j++ {
		c.Metrics = append(c.Metrics, g.metric(j))
	}
	return c
}

func (g *Generator) metric(j int) model.Metric {
	switch j % 3 {
	case 0:
		return model.Metric{Label: "Yield", Value: g.rng.Float64() * 12, Format: "PERCENT"}
	case 1:
		return model.Metric{Label: "Minimum", Value: float64(g.rng.Intn(2_000_000)), Format: "DOLLAR"}
	default:
		return model.Metric{Label: "Score", Value: g.rng.Float64() * 10, Format: "DECIMAL"}
	}
}
