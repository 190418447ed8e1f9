package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dooor-ai/readiness/pkg/types"
)

type stageUpdate struct {
	Stage string `json:"stage"`
}

type observationsUpdate struct {
	Observations string `json:"observations"`
}

// UpdateStage sets the user-edited stage for a product.
func (h *Handlers) UpdateStage(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	if _, ok := h.engine.Catalog().Get(productID); !ok {
		h.writeError(w, http.StatusNotFound, "product not found", nil)
		return
	}

	var update stageUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if !types.ValidStage(update.Stage) {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown stage %q", update.Stage), nil)
		return
	}

	if err := h.store.SetStage(r.Context(), productID, update.Stage); err != nil {
		h.writeError(w, http.StatusInternalServerError, "saving stage", err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"productId": productID,
		"stage":     update.Stage,
	})
}

// UpdateObservations sets the free-text observations for a product.
func (h *Handlers) UpdateObservations(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	if _, ok := h.engine.Catalog().Get(productID); !ok {
		h.writeError(w, http.StatusNotFound, "product not found", nil)
		return
	}

	var update observationsUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if err := h.store.SetObservations(r.Context(), productID, update.Observations); err != nil {
		h.writeError(w, http.StatusInternalServerError, "saving observations", err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"productId":    productID,
		"observations": update.Observations,
	})
}
