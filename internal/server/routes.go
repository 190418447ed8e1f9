package server

import (
	"expvar"

	"github.com/go-chi/chi/v5"

	"github.com/dooor-ai/readiness/internal/server/handlers"
)

func (s *Server) registerRoutes(r chi.Router) {
	h := handlers.New(s.engine, s.store)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		// Evaluation
		r.Get("/products", h.ListProducts)
		r.Get("/products/{productID}", h.GetProduct)
		r.Get("/products/{productID}/security", h.GetSecurity)

		// User-editable fields
		r.Patch("/products/{productID}/stage", h.UpdateStage)
		r.Patch("/products/{productID}/observations", h.UpdateObservations)

		// Operational
		r.Post("/cache/refresh", h.RefreshCache)
	})

	r.Method("GET", "/debug/vars", expvar.Handler())
}
