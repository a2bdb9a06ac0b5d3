// Package server provides the HTTP API around the calculation engine:
// policy reference data, a scenario registry, and computation. Handlers are
// thin marshalling; all domain logic lives in the engine packages.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/regquant/drcsa/config"
	"github.com/regquant/drcsa/engine"
	"github.com/regquant/drcsa/policy"
	"github.com/regquant/drcsa/registry"
)

// Server hosts the HTTP API.
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger

	loader *policy.Loader
	engine *engine.Engine
	store  *registry.Store
}

// New wires the API around a policy loader, engine, and scenario store.
func New(cfg *config.Config, loader *policy.Loader, eng *engine.Engine, store *registry.Store, log zerolog.Logger) *Server {
	s := &Server{
		router: chi.NewRouter(),
		log:    log.With().Str("component", "server").Logger(),
		loader: loader,
		engine: eng,
		store:  store,
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "PUT", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/policies", s.handleListPolicies)
		r.Get("/policies/{id}", s.handleGetPolicy)

		r.Get("/scenarios", s.handleListScenarios)
		r.Get("/scenarios/{name}", s.handleGetScenario)
		r.Put("/scenarios/{name}", s.handleUpsertScenario)
		r.Delete("/scenarios/{name}", s.handleDeleteScenario)

		r.Post("/compute", s.handleCompute)
	})

	s.server = &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Router exposes the handler tree, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start blocks serving HTTP until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("http server listening")
	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
