package api

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/blocklistproject/blocklist-builder/src/internal/config"
	"github.com/blocklistproject/blocklist-builder/src/internal/metrics"
)

// NewRouter creates a new HTTP router with all API endpoints.
// recorder may be nil, in which case /metrics is not served. Builds hold
// buildMu; pass the lock used by other writers of the output tree.
func NewRouter(configPath string, configHasher *config.ConfigHasher, recorder *metrics.Recorder, buildMu *sync.Mutex) http.Handler {
	r := chi.NewRouter()

	r.Use(Recovery)
	r.Use(Logger)
	r.Use(PrivateNetworkOnly)

	h := NewHandler(configPath, configHasher, recorder, buildMu)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(JSONContentType)

		r.Get("/lists", h.GetLists)
		r.Get("/lists/{name}", h.GetList)

		r.Post("/build", h.BuildAll)
		r.Post("/build/{name}", h.BuildList)

		r.Get("/verify", h.Verify)
		r.Get("/health", h.CheckHealth)
	})

	if recorder != nil {
		r.Handle("/metrics", recorder.Handler())
	}

	return r
}
