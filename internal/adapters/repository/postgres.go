package repository

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okian/eventbuddy/internal/domain/model"
)

// PostgresStore reads users and events from Postgres. Events come back in
// insertion order.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ ReadWriter = (*PostgresStore)(nil)

// NewPostgresStore wraps a pool. The caller owns pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// OpenPostgres connects and pings.
func OpenPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the users and events tables.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL DEFAULT '',
			location   TEXT NOT NULL DEFAULT '',
			interests  TEXT[] NOT NULL DEFAULT '{}',
			goals      TEXT[] NOT NULL DEFAULT '{}',
			bio        TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			seq          BIGSERIAL UNIQUE,
			id           TEXT PRIMARY KEY,
			topics       TEXT[] NOT NULL DEFAULT '{}',
			title        TEXT NOT NULL DEFAULT '',
			description  TEXT NOT NULL DEFAULT '',
			attributes   JSONB NOT NULL DEFAULT '{}'
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema error: %w\nstmt: %.80s", err, stmt)
		}
	}
	return nil
}

// FetchUser implements Store.
func (s *PostgresStore) FetchUser(ctx context.Context, id string) (model.UserProfile, error) {
	u := model.UserProfile{ID: id}
	err := s.pool.QueryRow(ctx,
		`SELECT name, location, interests, goals, bio FROM users WHERE id = $1`, id,
	).Scan(&u.Name, &u.Location, &u.Interests, &u.Goals, &u.Bio)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.UserProfile{}, fmt.Errorf("user %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.UserProfile{}, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

// FetchAllEvents implements Store.
func (s *PostgresStore) FetchAllEvents(ctx context.Context) ([]model.EventRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, topics, title, description, attributes FROM events ORDER BY seq`,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []model.EventRecord
	for rows.Next() {
		var (
			e     model.EventRecord
			attrs []byte
		)
		if err := rows.Scan(&e.ID, &e.Topics, &e.Title, &e.Description, &attrs); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if err := decodeAttributes(attrs, &e); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// PutUser implements Writer.
func (s *PostgresStore) PutUser(ctx context.Context, u model.UserProfile) error {
	if u.ID == "" {
		return fmt.Errorf("user without id: %w", ErrInvalidRecord)
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, name, location, interests, goals, bio)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, location = EXCLUDED.location,
			interests = EXCLUDED.interests, goals = EXCLUDED.goals, bio = EXCLUDED.bio`,
		u.ID, u.Name, u.Location, nonNil(u.Interests), nonNil(u.Goals), u.Bio,
	)
	if err != nil {
		return fmt.Errorf("upsert user %q: %w", u.ID, err)
	}
	return nil
}

// PutEvent implements Writer.
func (s *PostgresStore) PutEvent(ctx context.Context, e model.EventRecord) error {
	if e.ID == "" {
		return fmt.Errorf("event without id: %w", ErrInvalidRecord)
	}
	attrs := []byte("{}")
	if len(e.Attributes) > 0 {
		var err error
		if attrs, err = json.Marshal(e.Attributes); err != nil {
			return fmt.Errorf("marshal attributes of %q: %w", e.ID, err)
		}
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO events (id, topics, title, description, attributes)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET
			topics = EXCLUDED.topics, title = EXCLUDED.title,
			description = EXCLUDED.description, attributes = EXCLUDED.attributes`,
		e.ID, nonNil(e.Topics), e.Title, e.Description, attrs,
	)
	if err != nil {
		return fmt.Errorf("upsert event %q: %w", e.ID, err)
	}
	return nil
}

func decodeAttributes(raw []byte, e *model.EventRecord) error {
	if len(raw) == 0 {
		return nil
	}
	var attrs map[string]any
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return fmt.Errorf("decode attributes of %q: %w", e.ID, err)
	}
	if len(attrs) > 0 {
		e.Attributes = attrs
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
