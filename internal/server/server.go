// Package server implements the readiness HTTP API server.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dooor-ai/readiness/internal/engine"
	"github.com/dooor-ai/readiness/internal/userfields"
)

// Server is the readiness HTTP API server.
type Server struct {
	engine *engine.Engine
	store  userfields.Store
	router chi.Router
	addr   string
	srv    *http.Server
	logger *slog.Logger
}

// New creates a new HTTP server. apiKey and maxBody are optional; zero values
// disable the corresponding middleware.
func New(addr string, eng *engine.Engine, store userfields.Store, apiKey string, maxBody int64) *Server {
	s := &Server{
		engine: eng,
		store:  store,
		addr:   addr,
		logger: slog.Default(),
	}

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if apiKey != "" {
		r.Use(APIKeyMiddleware(apiKey))
	}
	if maxBody > 0 {
		r.Use(MaxBodyMiddleware(maxBody))
	}

	s.router = r
	s.registerRoutes(r)
	return s
}

// Handler exposes the router, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.srv = &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	s.logger.Info("readiness server listening", "addr", s.addr)
	return s.srv.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}
	return nil
}
