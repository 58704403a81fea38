// Package server exposes the dashboard HTTP API: dataset catalog, filtered
// table and map views, CSV/XLSX export, and the outreach log.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sells-group/gridscout/internal/config"
	"github.com/sells-group/gridscout/internal/dataset"
	"github.com/sells-group/gridscout/internal/outreach"
)

// Server wires the dashboard components behind the HTTP API.
type Server struct {
	cfg   *config.Config
	cache *dataset.Cache
	notes outreach.Store
}

// New creates a Server around an explicit dataset cache and outreach store.
func New(cfg *config.Config, cache *dataset.Cache, notes outreach.Store) *Server {
	return &Server{cfg: cfg, cache: cache, notes: notes}
}

// Router builds the chi router with CORS, request-ID logging, and panic
// recovery middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/datasets", s.handleDatasets)
		r.Get("/parcels", s.handleParcels)
		r.Get("/map", s.handleMap)
		r.Get("/export", s.handleExport)
		r.Get("/outreach", s.handleOutreachList)
		r.Post("/outreach", s.handleOutreachAppend)
	})

	return r
}
