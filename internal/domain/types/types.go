// Package types contains the response shapes shared by the HTTP API and the CLI.
package types

import (
	"math"

	json "github.com/goccy/go-json"

	"github.com/okian/eventbuddy/internal/domain/model"
)

const scoreScale = 1000

// Event is an event as clients see it: attributes flattened next to the
// core fields. Core fields win over attributes with the same key.
type Event struct {
	model.EventRecord
}

// MarshalJSON implements json.Marshaler.
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(flatten(e.EventRecord))
}

// SuggestedEvent is a flattened event plus its rounded relevance score.
type SuggestedEvent struct {
	Event model.EventRecord
	Score float64
}

// MarshalJSON implements json.Marshaler.
func (s SuggestedEvent) MarshalJSON() ([]byte, error) {
	out := flatten(s.Event)
	out["score"] = RoundScore(s.Score)
	return json.Marshal(out)
}

// Suggestion is the body of a suggestion response.
type Suggestion struct {
	User              string           `json:"user"`
	DegenerateProfile bool             `json:"degenerate_profile"`
	SuggestedEvents   []SuggestedEvent `json:"suggested_events"`
}

// NewSuggestion converts ranked events into a response for userID.
func NewSuggestion(userID string, degenerate bool, events []model.ScoredEvent) Suggestion {
	out := Suggestion{
		User:              userID,
		DegenerateProfile: degenerate,
		SuggestedEvents:   make([]SuggestedEvent, len(events)),
	}
	for i, e := range events {
		out.SuggestedEvents[i] = SuggestedEvent{Event: e.Event, Score: e.Score}
	}
	return out
}

// Events wraps records for serialization.
func Events(records []model.EventRecord) []Event {
	out := make([]Event, len(records))
	for i, r := range records {
		out[i] = Event{EventRecord: r}
	}
	return out
}

// RoundScore rounds to three decimals for display.
func RoundScore(s float64) float64 {
	return math.Round(s*scoreScale) / scoreScale
}

func flatten(e model.EventRecord) map[string]any {
	out := make(map[string]any, len(e.Attributes)+4)
	for k, v := range e.Attributes {
		out[k] = v
	}
	out["id"] = e.ID
	topics := e.Topics
	if topics == nil {
		topics = []string{}
	}
	out["topics"] = topics
	out["title"] = e.Title
	out["description"] = e.Description
	return out
}
