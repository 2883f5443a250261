package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/okian/eventbuddy/internal/domain/types"
	"github.com/okian/eventbuddy/pkg/logger"
)

// SuggestHandler handles suggestion requests.
type SuggestHandler struct {
	deps   SuggestDependencies
	logger logger.Logger
}

// NewSuggestHandler creates a new suggestion handler.
func NewSuggestHandler(deps SuggestDependencies, l logger.Logger) *SuggestHandler {
	return &SuggestHandler{deps: deps, logger: l}
}

// HandleSuggest handles GET /ai_suggest_events/{userID} requests.
func (h *SuggestHandler) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(chi.URLParam(r, "userID"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "Missing user id")
		return
	}

	res, err := h.deps.Suggest(r.Context(), userID)
	if err != nil {
		e := classify(err)
		if e.status >= http.StatusInternalServerError {
			h.logger.Error(r.Context(), "suggest request failed",
				logger.String("request_id", RequestIDFrom(r.Context())),
				logger.String("user", userID),
				logger.Error(err),
			)
		}
		writeError(w, e.status, e.code, e.message)
		return
	}

	writeJSON(w, http.StatusOK, types.NewSuggestion(userID, res.DegenerateProfile, res.Events))
}
