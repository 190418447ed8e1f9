package handlers

import "net/http"

// Health returns the server health status. A failing user-fields store
// degrades the status but the endpoint itself stays 200: evaluations still
// work without stored stages.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if err := h.store.Ping(r.Context()); err != nil {
		status = "degraded"
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": status})
}
