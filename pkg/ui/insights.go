package ui

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/vanderheijden86/carddeck/pkg/format"
	"github.com/vanderheijden86/carddeck/pkg/model"
)

// DeckSummary condenses the deck into one footer line: how many cards
// are recommended, and the spread of the deck's leading metric.
func DeckSummary(cards []model.Card) string {
	if len(cards) == 0 {
		return "empty deck"
	}

	recommended := 0
	var values []float64
	var lead string
	for _, c := range cards {
		if c.Recommended {
			recommended++
		}
		for _, m := range c.Metrics {
			if f, ok := format.Number(m.Value); ok {
				if lead == "" {
					lead = m.Label
				}
				if m.Label == lead {
					values = append(values, f)
				}
				break
			}
		}
	}

	out := fmt.Sprintf("%d cards • %d recommended", len(cards), recommended)
	if len(values) > 1 && lead != "" {
		mean, std := stat.MeanStdDev(values, nil)
		out += fmt.Sprintf(" • %s μ %.2f σ %.2f", lead, mean, std)
	}
	return out
}
