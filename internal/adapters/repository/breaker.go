package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/okian/eventbuddy/internal/domain/model"
	"github.com/okian/eventbuddy/pkg/logger"
	"github.com/okian/eventbuddy/pkg/metrics"
)

const (
	defaultFailureThreshold = 5
	defaultOpenTimeout      = 30 * time.Second
	halfOpenMaxRequests     = 1
)

// BreakerOption configures a BreakerStore.
type BreakerOption func(*BreakerStore)

// WithFailureThreshold opens the breaker after n consecutive failures.
func WithFailureThreshold(n uint32) BreakerOption {
	return func(b *BreakerStore) {
		if n > 0 {
			b.threshold = n
		}
	}
}

// WithOpenTimeout sets how long the breaker stays open before probing.
func WithOpenTimeout(d time.Duration) BreakerOption {
	return func(b *BreakerStore) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// WithBreakerLogger logs state transitions.
func WithBreakerLogger(l logger.Logger) BreakerOption {
	return func(b *BreakerStore) {
		if l != nil {
			b.log = l
		}
	}
}

// BreakerStore guards a Store with one circuit breaker per operation.
// ErrNotFound and caller cancellation do not count as failures. Rejected
// calls return an error wrapping ErrUnavailable.
type BreakerStore struct {
	next      Store
	name      string
	threshold uint32
	timeout   time.Duration
	log       logger.Logger

	users  *gobreaker.CircuitBreaker[model.UserProfile]
	events *gobreaker.CircuitBreaker[[]model.EventRecord]
}

var _ Store = (*BreakerStore)(nil)

// NewBreakerStore wraps next. name labels the breaker metrics.
func NewBreakerStore(next Store, name string, opts ...BreakerOption) *BreakerStore {
	b := &BreakerStore{
		next:      next,
		name:      name,
		threshold: defaultFailureThreshold,
		timeout:   defaultOpenTimeout,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.users = gobreaker.NewCircuitBreaker[model.UserProfile](b.settings(name + ".users"))
	b.events = gobreaker.NewCircuitBreaker[[]model.EventRecord](b.settings(name + ".events"))

	metrics.UpdateBreakerState(name+".users", stateToInt(gobreaker.StateClosed))
	metrics.UpdateBreakerState(name+".events", stateToInt(gobreaker.StateClosed))

	return b
}

func (b *BreakerStore) settings(name string) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: halfOpenMaxRequests,
		Timeout:     b.timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= b.threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrNotFound) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			b.log.Warn(context.Background(), "store breaker state change",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()))
			metrics.UpdateBreakerState(name, stateToInt(to))
		},
	}
}

// FetchUser implements Store.
func (b *BreakerStore) FetchUser(ctx context.Context, id string) (model.UserProfile, error) {
	u, err := b.users.Execute(func() (model.UserProfile, error) {
		return b.next.FetchUser(ctx, id)
	})
	return u, rejected(err)
}

// FetchAllEvents implements Store.
func (b *BreakerStore) FetchAllEvents(ctx context.Context) ([]model.EventRecord, error) {
	events, err := b.events.Execute(func() ([]model.EventRecord, error) {
		return b.next.FetchAllEvents(ctx)
	})
	return events, rejected(err)
}

// State reports the user and event breaker states.
func (b *BreakerStore) State() (users, events gobreaker.State) {
	return b.users.State(), b.events.State()
}

func rejected(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}

func stateToInt(s gobreaker.State) int {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
