// Package datasource discovers and loads card decks. A deck may live
// in a JSON or YAML file or a SQLite database; discovery finds every
// candidate in a directory, validates them concurrently, and selects
// the freshest valid source, preferring SQLite on timestamp ties since
// it reflects the most recent edits.
package datasource

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/carddeck/pkg/debug"
	"github.com/vanderheijden86/carddeck/pkg/metrics"
)

// SourceType identifies the kind of deck source.
type SourceType string

const (
	// SourceTypeSQLite is a deck database (deck.db).
	SourceTypeSQLite SourceType = "sqlite"
	// SourceTypeJSON is a JSON deck file.
	SourceTypeJSON SourceType = "json"
	// SourceTypeYAML is a YAML deck file.
	SourceTypeYAML SourceType = "yaml"
)

// Priority values for source types (higher = more authoritative on
// equal timestamps).
const (
	PrioritySQLite = 100
	PriorityJSON   = 80
	PriorityYAML   = 50
)

// ErrNoSources means discovery found nothing loadable.
var ErrNoSources = errors.New("no deck sources found")

// Source is one candidate deck location.
type Source struct {
	Type     SourceType
	Path     string
	Priority int
	ModTime  int64
	Valid    bool
	// ValidationError describes why validation failed (Valid false).
	ValidationError string
	// CardCount is filled during validation.
	CardCount int
}

// typeFor maps a file name to its source type, or "" when the file is
// not a deck candidate.
func typeFor(name string) SourceType {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".db", ".sqlite", ".sqlite3":
		return SourceTypeSQLite
	case ".json":
		return SourceTypeJSON
	case ".yaml", ".yml":
		return SourceTypeYAML
	default:
		return ""
	}
}

func priorityFor(t SourceType) int {
	switch t {
	case SourceTypeSQLite:
		return PrioritySQLite
	case SourceTypeJSON:
		return PriorityJSON
	default:
		return PriorityYAML
	}
}

// Discover lists deck candidates in dir, validates them concurrently,
// and returns valid sources ordered best-first (freshest, then by
// priority).
func Discover(ctx context.Context, dir string) ([]Source, error) {
	defer metrics.Timer(metrics.SourceDiscover)()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("discover sources: %w", err)
	}

	var sources []Source
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		t := typeFor(e.Name())
		if t == "" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		sources = append(sources, Source{
			Type:     t,
			Path:     filepath.Join(dir, e.Name()),
			Priority: priorityFor(t),
			ModTime:  info.ModTime().UnixNano(),
		})
	}
	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	g, ctx := errgroup.WithContext(ctx)
	for i := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cards, err := Load(sources[i].Path)
			if err != nil {
				sources[i].ValidationError = err.Error()
				debug.Log("candidate %s rejected: %v", sources[i].Path, err)
				return nil // an invalid candidate is not fatal
			}
			sources[i].Valid = true
			sources[i].CardCount = len(cards)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	valid := make([]Source, 0, len(sources))
	for _, s := range sources {
		if s.Valid {
			valid = append(valid, s)
		}
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("%w: %d candidates, none valid", ErrNoSources, len(sources))
	}

	sort.Slice(valid, func(a, b int) bool {
		if valid[a].ModTime != valid[b].ModTime {
			return valid[a].ModTime > valid[b].ModTime
		}
		return valid[a].Priority > valid[b].Priority
	})
	return valid, nil
}
