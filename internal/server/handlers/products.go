package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dooor-ai/readiness/internal/engine"
	"github.com/dooor-ai/readiness/pkg/types"
)

// ListProducts evaluates the whole catalog and returns the records in catalog
// order.
func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	records := h.engine.EvaluateAll(r.Context())
	h.writeJSON(w, http.StatusOK, map[string][]*types.ReadinessRecord{"products": records})
}

// GetProduct evaluates a single product.
func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	record, err := h.engine.Evaluate(r.Context(), productID)
	if err != nil {
		if errors.Is(err, engine.ErrProductNotFound) {
			h.writeError(w, http.StatusNotFound, "product not found", nil)
			return
		}
		h.writeError(w, http.StatusInternalServerError, "evaluation failed", err)
		return
	}
	h.writeJSON(w, http.StatusOK, record)
}

// GetSecurity returns the detailed security-header report for a product.
func (h *Handlers) GetSecurity(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	report, err := h.engine.SecurityReport(r.Context(), productID)
	if err != nil {
		if errors.Is(err, engine.ErrProductNotFound) {
			h.writeError(w, http.StatusNotFound, "product not found", nil)
			return
		}
		h.writeError(w, http.StatusBadGateway, "security check failed", err)
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

// RefreshCache drops the monitor cache so the next evaluation fetches fresh
// uptime data.
func (h *Handlers) RefreshCache(w http.ResponseWriter, r *http.Request) {
	h.engine.RefreshMonitors()
	h.writeJSON(w, http.StatusOK, map[string]bool{"refreshed": true})
}
