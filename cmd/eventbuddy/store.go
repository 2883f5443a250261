package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/eventbuddy/internal/adapters/repository"
	service "github.com/okian/eventbuddy/internal/app"
	"github.com/okian/eventbuddy/internal/config"
	"github.com/okian/eventbuddy/internal/domain/textvec"
	"github.com/okian/eventbuddy/pkg/logger"
)

// ErrEphemeralStore is returned when seeding a store that does not persist.
var ErrEphemeralStore = errors.New("memory store does not persist; use seed_file instead")

// openStore opens the configured backend. The returned cleanup releases it.
func openStore(ctx context.Context, cfg *config.Config) (repository.ReadWriter, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverBadger:
		db, err := repository.OpenBadger(cfg.BadgerDir)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewBadgerStore(db), func() { _ = db.Close() }, nil

	case config.DriverPostgres:
		pool, err := repository.OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		store := repository.NewPostgresStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil

	default:
		mem := repository.NewMemoryStore(ctx)
		if cfg.SeedFile != "" {
			seed, err := repository.LoadSeed(cfg.SeedFile)
			if err != nil {
				_ = mem.Close()
				return nil, nil, err
			}
			if err := seed.Apply(ctx, mem); err != nil {
				_ = mem.Close()
				return nil, nil, err
			}
		}
		return mem, func() { _ = mem.Close() }, nil
	}
}

// readPath wraps store with metrics and, when enabled, a circuit breaker.
func readPath(cfg *config.Config, store repository.Store, log logger.Logger) repository.Store {
	var s repository.Store = repository.Instrument(cfg.StoreDriver, store)
	if cfg.BreakerFailureThreshold > 0 {
		s = repository.NewBreakerStore(s, cfg.StoreDriver,
			repository.WithFailureThreshold(uint32(cfg.BreakerFailureThreshold)), //nolint:gosec // validated >= 0
			repository.WithOpenTimeout(cfg.BreakerTimeout()),
			repository.WithBreakerLogger(log),
		)
	}
	return s
}

// newService opens the store and starts a Service on it.
func (c *cli) newService(ctx context.Context) (*service.Service, func(), error) {
	stopWords, err := textvec.StopWordsFor(c.cfg.StopWords, c.cfg.ExtraStopWords)
	if err != nil {
		return nil, nil, err
	}

	store, closeStore, err := openStore(ctx, c.cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", c.cfg.StoreDriver, err)
	}

	svc := service.New(
		service.WithStore(readPath(c.cfg, store, c.log.Named("store"))),
		service.WithTopK(c.cfg.TopK),
		service.WithStopWords(stopWords),
		service.WithLogger(c.log.Named("service")),
	)
	if err := svc.Start(ctx); err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("failed to start service: %w", err)
	}

	return svc, func() {
		svc.Stop()
		closeStore()
	}, nil
}
