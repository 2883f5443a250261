// Package repository holds the user and event stores the suggestion service
// reads from, and the decorators that add metrics and a circuit breaker.
package repository

import (
	"context"

	"github.com/okian/eventbuddy/internal/domain/model"
)

// Store provides read access to users and the event catalog.
type Store interface {
	// FetchUser returns the profile for id.
	// Returns ErrNotFound if the user is unknown.
	FetchUser(ctx context.Context, id string) (model.UserProfile, error)

	// FetchAllEvents returns the whole catalog in the store's stable order.
	FetchAllEvents(ctx context.Context) ([]model.EventRecord, error)
}

// Writer inserts or replaces records. Used by seeding.
type Writer interface {
	PutUser(ctx context.Context, u model.UserProfile) error
	PutEvent(ctx context.Context, e model.EventRecord) error
}

// ReadWriter is a Store that can also be seeded.
type ReadWriter interface {
	Store
	Writer
}
