// Package config handles loading and saving deck viewer configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/deck/config.yaml
//   - State:  ~/.local/state/deck/ (export output default)
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// UIConfig holds viewer preference settings.
type UIConfig struct {
	CardsPerLoad int    `yaml:"cards_per_load,omitempty"` // incremental pagination step
	DefaultSort  string `yaml:"default_sort,omitempty"`   // recommended, name, metric
	DefaultColor string `yaml:"default_color,omitempty"`  // base hue for cards without one
}

// Config is the top-level viewer configuration.
type Config struct {
	// DeckPath points at a deck file; empty means discover in the
	// working directory.
	DeckPath string `yaml:"deck_path,omitempty"`
	// Palette maps a card category name to a base color, mirroring the
	// subtype color tables decks are usually authored against.
	Palette map[string]string `yaml:"palette,omitempty"`
	UI      UIConfig          `yaml:"ui,omitempty"`
}

// DefaultCardsPerLoad is the pagination step when unset.
const DefaultCardsPerLoad = 20

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UI: UIConfig{
			CardsPerLoad: DefaultCardsPerLoad,
			DefaultSort:  "recommended",
		},
	}
}

// ConfigDir returns the XDG config directory for the viewer.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "deck")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "deck")
}

// StateDir returns the XDG state directory for the viewer.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "deck")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "deck")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory. Returns
// DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
func LoadFrom(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return DefaultConfig(), fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.UI.CardsPerLoad <= 0 {
		cfg.UI.CardsPerLoad = DefaultCardsPerLoad
	}
	return cfg, nil
}

// Save writes the config to the XDG config directory, creating it if
// needed.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config path")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes config to a specific path.
func SaveTo(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, raw, 0o644)
}
