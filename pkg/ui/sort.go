package ui

import (
	"sort"
	"strings"

	"github.com/vanderheijden86/carddeck/pkg/format"
	"github.com/vanderheijden86/carddeck/pkg/model"
)

// SortMode represents the current deck sorting mode.
type SortMode int

const (
	SortRecommended SortMode = iota // recommended first, then name (default)
	SortNameAsc
	SortNameDesc
	SortValueDesc // first numeric metric, high to low
	SortValueAsc
	numSortModes // keep this last - used for cycling
)

// String returns a human-readable label for the sort mode.
func (s SortMode) String() string {
	switch s {
	case SortNameAsc:
		return "Name ↑"
	case SortNameDesc:
		return "Name ↓"
	case SortValueDesc:
		return "Value ↓"
	case SortValueAsc:
		return "Value ↑"
	default:
		return "Recommended"
	}
}

// Next cycles to the following sort mode.
func (s SortMode) Next() SortMode {
	return (s + 1) % numSortModes
}

// ParseSortMode maps a config string to a mode, defaulting to
// recommended.
func ParseSortMode(s string) SortMode {
	switch strings.ToLower(s) {
	case "name":
		return SortNameAsc
	case "name-desc":
		return SortNameDesc
	case "value":
		return SortValueDesc
	case "value-asc":
		return SortValueAsc
	default:
		return SortRecommended
	}
}

// SortCards returns a sorted copy of cards. The sort is stable so
// equal cards keep their deck order, and the input slice is never
// mutated (the deck is host-owned data).
func SortCards(cards []model.Card, mode SortMode) []model.Card {
	out := make([]model.Card, len(cards))
	copy(out, cards)

	switch mode {
	case SortNameAsc:
		sort.SliceStable(out, func(a, b int) bool {
			return strings.ToLower(out[a].Name) < strings.ToLower(out[b].Name)
		})
	case SortNameDesc:
		sort.SliceStable(out, func(a, b int) bool {
			return strings.ToLower(out[a].Name) > strings.ToLower(out[b].Name)
		})
	case SortValueDesc:
		sort.SliceStable(out, func(a, b int) bool {
			return firstNumeric(out[a]) > firstNumeric(out[b])
		})
	case SortValueAsc:
		sort.SliceStable(out, func(a, b int) bool {
			return firstNumeric(out[a]) < firstNumeric(out[b])
		})
	default:
		sort.SliceStable(out, func(a, b int) bool {
			if out[a].Recommended != out[b].Recommended {
				return out[a].Recommended
			}
			return strings.ToLower(out[a].Name) < strings.ToLower(out[b].Name)
		})
	}
	return out
}

// firstNumeric returns the first metric value on the card that reads
// as a number, or 0 when none does.
func firstNumeric(c model.Card) float64 {
	for _, m := range c.Metrics {
		if f, ok := format.Number(m.Value); ok {
			return f
		}
	}
	return 0
}
