package api

import (
	"context"
	"errors"
	"net/http"

	service "github.com/okian/eventbuddy/internal/app"
	"github.com/okian/eventbuddy/internal/adapters/repository"
	"github.com/okian/eventbuddy/internal/domain/ranking"
)

// apiError is the HTTP rendering of a failure.
type apiError struct {
	status  int
	code    string
	message string
}

// classify maps service errors to HTTP responses. Unknown errors become a
// generic 500 so internals never leak to clients.
func classify(err error) apiError {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return apiError{http.StatusNotFound, "user_not_found", "User not found"}
	case errors.Is(err, ranking.ErrNoEventsAvailable):
		return apiError{http.StatusNotFound, "no_events", "No events found"}
	case errors.Is(err, repository.ErrUnavailable):
		return apiError{http.StatusServiceUnavailable, "store_unavailable", "Event store temporarily unavailable"}
	case errors.Is(err, context.DeadlineExceeded):
		return apiError{http.StatusGatewayTimeout, "timeout", "Request timed out"}
	default:
		return apiError{http.StatusInternalServerError, "internal_error", "Internal server error"}
	}
}
