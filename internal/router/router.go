// Package router sets up all HTTP routes and middleware chains for the
// principle viewer. It organizes routes into the HTML viewer, the JSON API
// and operational endpoints.
package router

import (
	"encoding/json"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"solidview/internal/catalog"
	"solidview/internal/handlers"
	"solidview/internal/metrics"
	"solidview/internal/middleware"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Source  *catalog.Source
	Viewer  *handlers.Viewer
	API     *handlers.API
	Metrics *metrics.Metrics
	Limiter *middleware.RateLimiter
	Static  fs.FS
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware. Logger sits outside Recoverer so panic logs carry
	// the request id.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders)
	r.Use(d.Metrics.Instrument)

	// Operational endpoints.
	r.Get("/health", healthHandler(d.Source))
	r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())

	if d.Static != nil {
		r.Handle(handlers.StaticPrefix+"*", http.StripPrefix(handlers.StaticPrefix, staticHandler(d.Static)))
	}

	// Viewer pages.
	r.Get("/", d.Viewer.Index)
	r.Get("/principles/{id}", d.Viewer.Principle)

	// JSON API, rate limited per client.
	r.Route("/api", func(r chi.Router) {
		if d.Limiter != nil {
			r.Use(d.Limiter.Middleware)
		}
		r.Get("/principles", d.API.List)
		r.Get("/principles/{id}", d.API.Get)
	})

	return r
}

// staticHandler serves embedded assets with a short cache lifetime.
func staticHandler(fsys fs.FS) http.Handler {
	files := http.FileServer(http.FS(fsys))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age="+staticMaxAge)
		files.ServeHTTP(w, r)
	})
}

// staticMaxAge is the Cache-Control max-age for /static/, in seconds.
const staticMaxAge = "3600"

type healthResponse struct {
	Status     string `json:"status"`
	Principles int    `json:"principles"`
}

// healthHandler reports liveness and the size of the loaded catalog.
func healthHandler(source *catalog.Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cat, _ := source.Current()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(healthResponse{Status: "ok", Principles: cat.Len()})
	}
}
