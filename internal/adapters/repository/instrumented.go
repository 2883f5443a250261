package repository

import (
	"context"
	"errors"
	"time"

	"github.com/okian/eventbuddy/internal/domain/model"
	"github.com/okian/eventbuddy/pkg/metrics"
)

// Operation labels used in store metrics.
const (
	OpFetchUser      = "fetch_user"
	OpFetchAllEvents = "fetch_all_events"
)

// InstrumentedStore records latency and errors for every call to next.
type InstrumentedStore struct {
	next   Store
	driver string
}

var _ Store = (*InstrumentedStore)(nil)

// Instrument wraps next, labeling metrics with driver.
func Instrument(driver string, next Store) *InstrumentedStore {
	return &InstrumentedStore{next: next, driver: driver}
}

// FetchUser implements Store.
func (s *InstrumentedStore) FetchUser(ctx context.Context, id string) (model.UserProfile, error) {
	start := time.Now()
	u, err := s.next.FetchUser(ctx, id)
	s.observe(OpFetchUser, start, err)
	return u, err
}

// FetchAllEvents implements Store.
func (s *InstrumentedStore) FetchAllEvents(ctx context.Context) ([]model.EventRecord, error) {
	start := time.Now()
	events, err := s.next.FetchAllEvents(ctx)
	s.observe(OpFetchAllEvents, start, err)
	if err == nil {
		metrics.UpdateCatalogSize(len(events))
	}
	return events, err
}

func (s *InstrumentedStore) observe(op string, start time.Time, err error) {
	metrics.RecordStoreFetch(s.driver, op, float64(time.Since(start).Microseconds())/1000)
	if err != nil && !errors.Is(err, ErrNotFound) {
		metrics.RecordStoreError(s.driver, op)
	}
}
