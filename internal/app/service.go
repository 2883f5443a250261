// Package service wires the store and the ranker into the suggestion use
// case consumed by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/eventbuddy/internal/adapters/repository"
	"github.com/okian/eventbuddy/internal/domain/model"
	"github.com/okian/eventbuddy/internal/domain/ranking"
	"github.com/okian/eventbuddy/internal/domain/textvec"
	"github.com/okian/eventbuddy/pkg/logger"
	"github.com/okian/eventbuddy/pkg/metrics"
)

// Error reasons reported to metrics.
const (
	reasonUserNotFound     = "user_not_found"
	reasonNoEvents         = "no_events"
	reasonStoreUnavailable = "store_unavailable"
	reasonStore            = "store"
	reasonCanceled         = "canceled"
)

// Service answers suggestion requests.
type Service struct {
	mu sync.RWMutex

	store  repository.Store
	ranker ranking.Ranker

	// Used to build the default ranker when none is injected.
	topK      int
	stopWords []string

	started bool

	served      atomic.Int64
	failed      atomic.Int64
	lastCatalog atomic.Int64
	lastVocab   atomic.Int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the data source for users and events.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithRanker replaces the default TF-IDF ranker. WithTopK and WithStopWords
// have no effect when a ranker is injected.
func WithRanker(r ranking.Ranker) Option {
	return func(s *Service) {
		if r != nil {
			s.ranker = r
		}
	}
}

// WithTopK sets how many suggestions the default ranker returns.
func WithTopK(k int) Option {
	return func(s *Service) {
		if k > 0 {
			s.topK = k
		}
	}
}

// WithStopWords sets the stop word list of the default ranker.
func WithStopWords(words []string) Option {
	return func(s *Service) {
		s.stopWords = words
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		topK:      ranking.DefaultTopK,
		stopWords: textvec.EnglishStopWords(),
		logger:    logger.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.ranker == nil {
		s.ranker = ranking.New(
			ranking.WithTopK(s.topK),
			ranking.WithVectorizer(textvec.NewTFIDF(textvec.WithStopWords(s.stopWords))),
		)
	}

	return s
}

// Start checks the wiring and marks the service ready.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.store == nil {
		return ErrNoStore
	}

	s.started = true
	s.logger.Info(ctx, "suggestion service started", logger.Int("topK", s.topK))
	return nil
}

// Stop closes the store if it owns resources.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	if closer, ok := s.store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			s.logger.Warn(context.Background(), "closing store", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(context.Background(), "suggestion service stopped")
}

// Suggest ranks the catalog for userID. The user and the catalog are
// fetched concurrently.
func (s *Service) Suggest(ctx context.Context, userID string) (ranking.Result, error) {
	if s.store == nil {
		return ranking.Result{}, ErrNoStore
	}

	var (
		user   model.UserProfile
		events []model.EventRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = s.store.FetchUser(gctx, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %q", ErrUserNotFound, userID)
		}
		if err != nil {
			return fmt.Errorf("app.suggest: fetch user: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		events, err = s.store.FetchAllEvents(gctx)
		if err != nil {
			return fmt.Errorf("app.suggest: fetch events: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.fail(ctx, userID, err)
		return ranking.Result{}, err
	}

	start := time.Now()
	res, err := s.ranker.Rank(ctx, user, events)
	if err != nil {
		if !errors.Is(err, ranking.ErrNoEventsAvailable) {
			err = fmt.Errorf("app.suggest: %w", err)
		}
		s.fail(ctx, userID, err)
		return ranking.Result{}, err
	}
	elapsed := time.Since(start)

	s.served.Add(1)
	s.lastCatalog.Store(int64(len(events)))
	s.lastVocab.Store(int64(res.VocabularySize))

	metrics.RecordRankingLatency(float64(elapsed.Microseconds()) / 1000)
	metrics.RecordCorpus(len(events)+1, res.VocabularySize)
	metrics.RecordSuggestionServed(len(res.Events))
	if res.DegenerateProfile {
		metrics.RecordDegenerateProfile()
	}

	s.logger.Debug(ctx, "ranked events",
		logger.String("user", userID),
		logger.Int("catalog", len(events)),
		logger.Int("returned", len(res.Events)),
		logger.Int("vocabulary", res.VocabularySize),
		logger.Bool("degenerate", res.DegenerateProfile),
		logger.Duration("took", elapsed),
	)
	return res, nil
}

// Events returns the whole catalog.
func (s *Service) Events(ctx context.Context) ([]model.EventRecord, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	events, err := s.store.FetchAllEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("app.events: %w", err)
	}
	return events, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"started":            s.started,
		"topK":               s.topK,
		"suggestionsServed":  s.served.Load(),
		"suggestionsFailed":  s.failed.Load(),
		"lastCatalogSize":    s.lastCatalog.Load(),
		"lastVocabularySize": s.lastVocab.Load(),
	}
}

func (s *Service) fail(ctx context.Context, userID string, err error) {
	s.failed.Add(1)
	reason := failureReason(err)
	metrics.RecordSuggestionError(reason)

	if reason == reasonUserNotFound || reason == reasonNoEvents {
		s.logger.Debug(ctx, "no suggestions", logger.String("user", userID), logger.String("reason", reason))
		return
	}
	s.logger.Error(ctx, "suggestion failed",
		logger.String("user", userID),
		logger.String("reason", reason),
		logger.Error(err),
	)
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return reasonUserNotFound
	case errors.Is(err, ranking.ErrNoEventsAvailable):
		return reasonNoEvents
	case errors.Is(err, repository.ErrUnavailable):
		return reasonStoreUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return reasonCanceled
	default:
		return reasonStore
	}
}
