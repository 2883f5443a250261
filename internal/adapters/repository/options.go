package repository

import (
	"time"

	"github.com/okian/eventbuddy/internal/domain/model"
)

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *MemoryStore) {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
	}
}

// WithUsers preloads profiles.
func WithUsers(users ...model.UserProfile) Option {
	return func(s *MemoryStore) {
		for _, u := range users {
			s.users[u.ID] = u
		}
	}
}

// WithEvents preloads events in the given order.
func WithEvents(events ...model.EventRecord) Option {
	return func(s *MemoryStore) {
		for _, e := range events {
			s.putEventLocked(e)
		}
	}
}
