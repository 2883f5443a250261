// Package model contains domain models passed between layers.
package model

// EventRecord is one event from the catalog. Only Topics, Title and
// Description feed the ranking; everything else rides along untouched.
type EventRecord struct {
	ID          string   `json:"id" yaml:"id" validate:"required"`
	Topics      []string `json:"topics,omitempty" yaml:"topics"`
	Title       string   `json:"title,omitempty" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description"`

	// Attributes holds the remaining stored fields (date, location, price, ...).
	Attributes map[string]any `json:"attributes,omitempty" yaml:"attributes"`
}

// ScoredEvent pairs an event with its textual relevance to a user, in [0,1].
type ScoredEvent struct {
	Event EventRecord
	Score float64
}
