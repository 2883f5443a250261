// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	json "github.com/goccy/go-json"

	"github.com/okian/eventbuddy/internal/domain/model"
	"github.com/okian/eventbuddy/internal/domain/ranking"
	"github.com/okian/eventbuddy/pkg/logger"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	SuggestDependencies
	EventsDependencies
}

// SuggestDependencies ranks the catalog for one user.
type SuggestDependencies interface {
	Suggest(ctx context.Context, userID string) (ranking.Result, error)
}

// EventsDependencies lists the catalog.
type EventsDependencies interface {
	Events(ctx context.Context) ([]model.EventRecord, error)
}

const (
	defaultRateLimitRequests = 100
	defaultRateLimitWindow   = time.Minute
	defaultRequestTimeout    = 5 * time.Second
)

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithRateLimit limits suggestion requests per client IP. Zero requests disables it.
func WithRateLimit(requests int, window time.Duration) Option {
	return func(s *Server) {
		if requests >= 0 && window > 0 {
			s.rateLimitRequests = requests
			s.rateLimitWindow = window
		}
	}
}

// WithRequestTimeout bounds suggestion and catalog requests.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.requestTimeout = d
		}
	}
}

// WithLogger sets the logger used for failed requests.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	eventsHandler  *EventsHandler
	suggestHandler *SuggestHandler

	rateLimitRequests int
	rateLimitWindow   time.Duration
	requestTimeout    time.Duration
	logger            logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		rateLimitRequests: defaultRateLimitRequests,
		rateLimitWindow:   defaultRateLimitWindow,
		requestTimeout:    defaultRequestTimeout,
		logger:            logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.eventsHandler = NewEventsHandler(deps, s.logger)
	s.suggestHandler = NewSuggestHandler(deps, s.logger)
	return s
}

// NewRouter returns a chi router carrying the global middleware stack.
// Routes must be registered after this call.
func NewRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(MetricsMiddleware)
	r.Use(chimiddleware.Recoverer)
	return r
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Handle("/metrics", s.healthHandler.MetricsHandler())
	r.Get("/stats", s.statsHandler.HandleStats)

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(s.requestTimeout))
		r.Get("/api/events", s.eventsHandler.HandleListEvents)

		r.Group(func(r chi.Router) {
			if s.rateLimitRequests > 0 {
				r.Use(httprate.Limit(
					s.rateLimitRequests,
					s.rateLimitWindow,
					httprate.WithKeyFuncs(httprate.KeyByIP),
					httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
						writeError(w, http.StatusTooManyRequests, "rate_limited", "Too many requests")
					}),
				))
			}
			r.Get("/ai_suggest_events/{userID}", s.suggestHandler.HandleSuggest)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	if message == "" {
		message = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
