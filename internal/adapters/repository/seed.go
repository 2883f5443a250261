package repository

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/okian/eventbuddy/internal/domain/model"
)

// Seed is a YAML catalog of users and events.
//
//	users:
//	  - id: u1
//	    interests: [music, art]
//	events:
//	  - id: e1
//	    topics: [music]
//	    title: Jazz Night
//	    attributes:
//	      date: 2025-06-01
type Seed struct {
	Users  []model.UserProfile `yaml:"users" validate:"dive"`
	Events []model.EventRecord `yaml:"events" validate:"dive"`
}

// LoadSeed reads and validates a seed file.
func LoadSeed(path string) (Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return Seed{}, fmt.Errorf("open seed: %w", err)
	}
	defer func() { _ = f.Close() }()
	return DecodeSeed(f)
}

// DecodeSeed reads and validates a seed document.
func DecodeSeed(r io.Reader) (Seed, error) {
	var s Seed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && err != io.EOF {
		return Seed{}, fmt.Errorf("decode seed: %w", err)
	}
	if err := validator.New().Struct(s); err != nil {
		return Seed{}, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return s, nil
}

// Apply writes every record in s to w, users first.
func (s Seed) Apply(ctx context.Context, w Writer) error {
	for _, u := range s.Users {
		if err := w.PutUser(ctx, u); err != nil {
			return fmt.Errorf("seed user %q: %w", u.ID, err)
		}
	}
	for _, e := range s.Events {
		if err := w.PutEvent(ctx, e); err != nil {
			return fmt.Errorf("seed event %q: %w", e.ID, err)
		}
	}
	return nil
}
