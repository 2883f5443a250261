package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/eventbuddy/internal/domain/model"
	"github.com/okian/eventbuddy/pkg/metrics"
)

const defaultMetricsUpdateInterval = 5 * time.Second

// MemoryStore is an in-process Store. Events keep insertion order; putting
// an existing event ID replaces it in place.
//
// Writes take the mutex and publish an immutable copy of the catalog, so
// FetchAllEvents never blocks on writers.
type MemoryStore struct {
	mu     sync.RWMutex
	users  map[string]model.UserProfile
	events []model.EventRecord
	index  map[string]int

	catalog atomic.Pointer[[]model.EventRecord]

	metricsUpdateInterval time.Duration
	wg                    sync.WaitGroup
	stopChan              chan struct{}
	closeOnce             sync.Once
}

var _ ReadWriter = (*MemoryStore)(nil)

// NewMemoryStore constructs a memory store with configuration options.
// The background metrics updater stops when ctx is done or Close is called.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		users:                 make(map[string]model.UserProfile),
		index:                 make(map[string]int),
		metricsUpdateInterval: defaultMetricsUpdateInterval,
		stopChan:              make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.publish()
	s.startMetricsUpdater(ctx)

	return s
}

// FetchUser implements Store.
func (s *MemoryStore) FetchUser(ctx context.Context, id string) (model.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return model.UserProfile{}, err
	}
	s.mu.RLock()
	u, ok := s.users[id]
	s.mu.RUnlock()
	if !ok {
		return model.UserProfile{}, fmt.Errorf("user %q: %w", id, ErrNotFound)
	}
	return u, nil
}

// FetchAllEvents implements Store.
func (s *MemoryStore) FetchAllEvents(ctx context.Context) ([]model.EventRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap := *s.catalog.Load()
	out := make([]model.EventRecord, len(snap))
	copy(out, snap)
	return out, nil
}

// PutUser implements Writer.
func (s *MemoryStore) PutUser(ctx context.Context, u model.UserProfile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if u.ID == "" {
		return fmt.Errorf("user without id: %w", ErrInvalidRecord)
	}
	s.mu.Lock()
	s.users[u.ID] = u
	s.mu.Unlock()
	return nil
}

// PutEvent implements Writer.
func (s *MemoryStore) PutEvent(ctx context.Context, e model.EventRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.ID == "" {
		return fmt.Errorf("event without id: %w", ErrInvalidRecord)
	}
	s.mu.Lock()
	s.putEventLocked(e)
	s.publishLocked()
	s.mu.Unlock()
	return nil
}

// Count returns the number of users and events held.
func (s *MemoryStore) Count() (users, events int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), len(s.events)
}

// Close stops the metrics updater. Safe to call more than once.
func (s *MemoryStore) Close() error {
	s.closeOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

func (s *MemoryStore) putEventLocked(e model.EventRecord) {
	if i, ok := s.index[e.ID]; ok {
		s.events[i] = e
		return
	}
	s.index[e.ID] = len(s.events)
	s.events = append(s.events, e)
}

func (s *MemoryStore) publish() {
	s.mu.RLock()
	s.publishLocked()
	s.mu.RUnlock()
}

func (s *MemoryStore) publishLocked() {
	snap := make([]model.EventRecord, len(s.events))
	copy(snap, s.events)
	s.catalog.Store(&snap)
}

// startMetricsUpdater starts a background goroutine that reports the catalog size.
func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		s.updateMetrics()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.updateMetrics()
			}
		}
	}()
}

func (s *MemoryStore) updateMetrics() {
	metrics.UpdateCatalogSize(len(*s.catalog.Load()))
}
