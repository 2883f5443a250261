package api

import (
	"net/http"

	"github.com/okian/eventbuddy/internal/domain/types"
	"github.com/okian/eventbuddy/pkg/logger"
)

// EventsHandler handles catalog requests.
type EventsHandler struct {
	deps   EventsDependencies
	logger logger.Logger
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventsDependencies, l logger.Logger) *EventsHandler {
	return &EventsHandler{deps: deps, logger: l}
}

// HandleListEvents handles GET /api/events requests.
func (h *EventsHandler) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.deps.Events(r.Context())
	if err != nil {
		e := classify(err)
		h.logger.Error(r.Context(), "list events failed",
			logger.String("request_id", RequestIDFrom(r.Context())),
			logger.Error(err),
		)
		writeError(w, e.status, e.code, e.message)
		return
	}
	writeJSON(w, http.StatusOK, types.Events(events))
}
