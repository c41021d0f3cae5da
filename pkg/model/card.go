// Package model defines the card data types shared by the renderer,
// the datasource loaders, and the viewer UI.
package model

// Metric is one labeled value row on a card. Label, Value, and Format
// are all optional; the formatter and renderer default each of them
// rather than rejecting the entry.
type Metric struct {
	Label  string `json:"label" yaml:"label"`
	Value  any    `json:"value" yaml:"value"`
	Format string `json:"format" yaml:"format"`
}

// Card is the input record a host supplies for one card instance.
// It is treated as immutable for the life of a mount; changed data
// requires a fresh mount.
type Card struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Color       string   `json:"color,omitempty" yaml:"color,omitempty"`
	Recommended bool     `json:"recommended" yaml:"recommended"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Metrics     []Metric `json:"metrics" yaml:"metrics"`
}

// SelectionToken returns the identifier communicated on activation:
// the ID when present, else the name, else the empty sentinel.
func (c Card) SelectionToken() string {
	if c.ID != "" {
		return c.ID
	}
	return c.Name
}
