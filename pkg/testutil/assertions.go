package testutil

import (
	"testing"

	"github.com/vanderheijden86/carddeck/pkg/model"
)

// AssertCardCount verifies the expected number of cards.
func AssertCardCount(t *testing.T, cards []model.Card, expected int) {
	t.Helper()
	if len(cards) != expected {
		t.Errorf("expected %d cards, got %d", expected, len(cards))
	}
}

// AssertNoDuplicateTokens verifies all selection tokens are unique.
func AssertNoDuplicateTokens(t *testing.T, cards []model.Card) {
	t.Helper()
	seen := make(map[string]bool)
	for _, c := range cards {
		token := c.SelectionToken()
		if seen[token] {
			t.Errorf("duplicate selection token: %s", token)
		}
		seen[token] = true
	}
}
