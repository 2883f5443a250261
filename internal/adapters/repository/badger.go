package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	json "github.com/goccy/go-json"

	"github.com/okian/eventbuddy/internal/domain/model"
)

// Badger key prefixes. Events are iterated in key order, i.e. by ID.
const (
	userKeyPrefix  = "user:"
	eventKeyPrefix = "event:"
)

// BadgerStore keeps users and events as JSON values in an embedded badger database.
type BadgerStore struct {
	db *badger.DB
}

var _ ReadWriter = (*BadgerStore)(nil)

// NewBadgerStore wraps an open database. The caller owns db.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// OpenBadger opens the database at dir, or an in-memory one when dir is empty.
func OpenBadger(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return db, nil
}

// FetchUser implements Store.
func (s *BadgerStore) FetchUser(ctx context.Context, id string) (model.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return model.UserProfile{}, err
	}

	var u model.UserProfile
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(userKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("user %q: %w", id, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &u)
		})
	})
	if err != nil {
		return model.UserProfile{}, err
	}
	return u, nil
}

// FetchAllEvents implements Store.
func (s *BadgerStore) FetchAllEvents(ctx context.Context) ([]model.EventRecord, error) {
	var events []model.EventRecord
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(eventKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var e model.EventRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			}); err != nil {
				return fmt.Errorf("decode event %s: %w", it.Item().Key(), err)
			}
			events = append(events, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// PutUser implements Writer.
func (s *BadgerStore) PutUser(_ context.Context, u model.UserProfile) error {
	if u.ID == "" {
		return fmt.Errorf("user without id: %w", ErrInvalidRecord)
	}
	return s.put(userKeyPrefix+u.ID, u)
}

// PutEvent implements Writer.
func (s *BadgerStore) PutEvent(_ context.Context, e model.EventRecord) error {
	if e.ID == "" {
		return fmt.Errorf("event without id: %w", ErrInvalidRecord)
	}
	return s.put(eventKeyPrefix+e.ID, e)
}

func (s *BadgerStore) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(key), data); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
		return nil
	})
}
