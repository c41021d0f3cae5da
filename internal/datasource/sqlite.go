package datasource

import (
	"database/sql"
	"fmt"
	"strconv"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/carddeck/pkg/model"
)

// loadSQLite reads a deck database. The schema is two tables:
//
//	cards(id, name, color, recommended, description, position)
//	metrics(card_id, position, label, value, format)
//
// Metric values are stored as text; numeric-looking values are
// surfaced as float64 so the formatter sees numbers where the deck
// author wrote numbers.
func loadSQLite(path string) ([]model.Card, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open deck db: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`
		SELECT id, name, color, recommended, description
		FROM cards
		ORDER BY position, rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	var cards []model.Card
	index := make(map[string]int)
	for rows.Next() {
		var c model.Card
		var color, description sql.NullString
		var recommended sql.NullInt64
		if err := rows.Scan(&c.ID, &c.Name, &color, &recommended, &description); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		c.Color = color.String
		c.Description = description.String
		c.Recommended = recommended.Int64 != 0
		index[c.ID] = len(cards)
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}

	mrows, err := db.Query(`
		SELECT card_id, label, value, format
		FROM metrics
		ORDER BY card_id, position, rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("query metrics: %w", err)
	}
	defer mrows.Close()

	for mrows.Next() {
		var cardID string
		var label, value, format sql.NullString
		if err := mrows.Scan(&cardID, &label, &value, &format); err != nil {
			return nil, fmt.Errorf("scan metric: %w", err)
		}
		i, ok := index[cardID]
		if !ok {
			continue // orphaned metric row
		}
		cards[i].Metrics = append(cards[i].Metrics, model.Metric{
			Label:  label.String,
			Value:  metricValue(value),
			Format: format.String,
		})
	}
	if err := mrows.Err(); err != nil {
		return nil, fmt.Errorf("iterate metrics: %w", err)
	}
	return cards, nil
}

// metricValue converts a stored text value to the loosest matching Go
// value: nil for NULL, float64 for numbers, string otherwise.
func metricValue(v sql.NullString) any {
	if !v.Valid {
		return nil
	}
	if f, err := strconv.ParseFloat(v.String, 64); err == nil {
		return f
	}
	return v.String
}
