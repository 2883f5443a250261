// Package document turns user and event records into the plain text documents
// that the ranker vectorizes.
//
// Field order is fixed. Nothing is lower-cased, stripped or filtered here;
// tokenization belongs to the vectorizer.
package document

import (
	"strings"

	"github.com/okian/eventbuddy/internal/domain/model"
)

// User builds the document for a profile: interests, goals, then bio.
func User(u model.UserProfile) string {
	return strings.Join(u.Interests, " ") + " " +
		strings.Join(u.Goals, " ") + " " +
		u.Bio
}

// Event builds the document for one event: topics, title, then description.
func Event(e model.EventRecord) string {
	return strings.Join(e.Topics, " ") + " " +
		e.Title + " " +
		e.Description
}

// Events builds one document per event, in input order.
func Events(events []model.EventRecord) []string {
	docs := make([]string, len(events))
	for i, e := range events {
		docs[i] = Event(e)
	}
	return docs
}
