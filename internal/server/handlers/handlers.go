// Package handlers implements HTTP request handlers for the readiness API.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dooor-ai/readiness/internal/engine"
	"github.com/dooor-ai/readiness/internal/userfields"
)

// Handlers contains all HTTP handler dependencies.
type Handlers struct {
	engine *engine.Engine
	store  userfields.Store
	logger *slog.Logger
}

// New creates a new Handlers instance.
func New(eng *engine.Engine, store userfields.Store) *Handlers {
	return &Handlers{
		engine: eng,
		store:  store,
		logger: slog.Default(),
	}
}

// SetLogger overrides the default logger.
func (h *Handlers) SetLogger(l *slog.Logger) {
	if l != nil {
		h.logger = l
	}
}

// writeJSON encodes v as the response body.
func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encoding response", "error", err)
	}
}

// writeError logs the internal error and returns a sanitized JSON error.
func (h *Handlers) writeError(w http.ResponseWriter, status int, msg string, err error) {
	if err != nil {
		h.logger.Error(msg, "error", err, "status", status)
	}
	h.writeJSON(w, status, map[string]string{"error": msg})
}
