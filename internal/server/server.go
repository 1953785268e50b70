// Package server exposes the recommender over a small JSON HTTP API.
package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sells-group/store-recommender/internal/catalog"
	"github.com/sells-group/store-recommender/internal/config"
	"github.com/sells-group/store-recommender/internal/recommend"
)

// Recommender is the query side of recommend.Service.
type Recommender interface {
	Validate(q recommend.Query) error
	Recommend(ctx context.Context, q recommend.Query) (*recommend.Outcome, error)
	Catalog() *catalog.Catalog
}

// NewRouter wires middleware and routes.
func NewRouter(svc Recommender, cfg config.ServerConfig) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Recommend-Status"},
		MaxAge:         300,
	}))

	NewHandler(svc).RegisterRoutes(r)
	return r
}

// New returns an http.Server for the router on cfg.Port.
func New(svc Recommender, cfg config.ServerConfig) *http.Server {
	return &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           NewRouter(svc, cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
