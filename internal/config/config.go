// Package config defines service configuration and its defaults.
//
// Conventions:
// - Keys are flat snake_case, shared by the YAML file and EVENTBUDDY_* env vars.
// - New() returns the defaults; Load layers file and environment on top.
// - Millisecond fields have Duration accessors so callers never multiply by hand.
package config

import (
	"time"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverBadger   = "badger"
	DriverPostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// TopK caps the number of suggestions per request.
	TopK int `koanf:"top_k" validate:"gte=1,lte=100"`

	// StopWords picks the built-in list: english or none.
	StopWords string `koanf:"stop_words" validate:"oneof=english none"`

	// ExtraStopWords are appended to the built-in list.
	ExtraStopWords []string `koanf:"extra_stop_words"`

	// StoreDriver selects the backing store for users and events.
	StoreDriver string `koanf:"store_driver" validate:"oneof=memory badger postgres"`

	// SeedFile is a YAML catalog loaded into the memory store at startup.
	SeedFile string `koanf:"seed_file"`

	// BadgerDir is the badger data directory.
	BadgerDir string `koanf:"badger_dir" validate:"required_if=StoreDriver badger"`

	// PostgresDSN is the pgx connection string.
	PostgresDSN string `koanf:"postgres_dsn" validate:"required_if=StoreDriver postgres"`

	// RateLimitRequests per RateLimitWindowMS per client IP on the suggestion route.
	RateLimitRequests int `koanf:"rate_limit_requests" validate:"gte=0"`
	RateLimitWindowMS int `koanf:"rate_limit_window_ms" validate:"gte=1"`

	// BreakerFailureThreshold consecutive store failures open the breaker
	// for BreakerTimeoutMS. Zero disables the breaker.
	BreakerFailureThreshold int `koanf:"breaker_failure_threshold" validate:"gte=0"`
	BreakerTimeoutMS        int `koanf:"breaker_timeout_ms" validate:"gte=1"`

	// RequestTimeoutMS bounds a single suggestion request.
	RequestTimeoutMS int `koanf:"request_timeout_ms" validate:"gte=1"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:                "info",
		LogFormat:               "text",
		Addr:                    ":9080",
		TopK:                    6,
		StopWords:               "english",
		StoreDriver:             DriverMemory,
		BadgerDir:               "data/badger",
		RateLimitRequests:       100,
		RateLimitWindowMS:       60_000,
		BreakerFailureThreshold: 5,
		BreakerTimeoutMS:        30_000,
		RequestTimeoutMS:        5_000,
	}
}

// RateLimitWindow returns RateLimitWindowMS as a Duration.
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowMS) * time.Millisecond
}

// BreakerTimeout returns BreakerTimeoutMS as a Duration.
func (c *Config) BreakerTimeout() time.Duration {
	return time.Duration(c.BreakerTimeoutMS) * time.Millisecond
}

// RequestTimeout returns RequestTimeoutMS as a Duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}
