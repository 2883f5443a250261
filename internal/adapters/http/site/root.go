// Package site serves the embedded landing page.
package site

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Error constants
var (
	ErrServe = errors.New("site serve failed")
)

// Register attaches the landing page to r. Only "/" is claimed so unknown
// paths still reach the router's NotFound handler.
func Register(r chi.Router) {
	if r == nil {
		panic("router is nil")
	}
	r.Get("/", NewRootHandler().HandleRoot)
}

// RootHandler serves the landing page.
type RootHandler struct {
	page []byte
}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	page, _ := fs.ReadFile(staticFS, "static/index.html")
	return &RootHandler{page: page}
}

// HandleRoot handles GET / requests.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, _ *http.Request) {
	if len(h.page) == 0 {
		http.Error(w, ErrServe.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(h.page)
}
