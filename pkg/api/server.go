// Package api serves read-only inspection of pxld capture files over HTTP:
// register a file, page through its frame metadata, and pull raw slave pixel
// slices, with Prometheus metrics on the side.
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StartServer starts the HTTP server with all routes configured. It blocks
// until the listener fails.
func StartServer(registry *FileRegistry, config ServerConfig) error {
	// Initialize metrics
	metrics := NewMetrics()

	server := NewServer(registry, config, metrics)

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API key authentication middleware for protected routes; an empty key
	// leaves the API open
	r.Route("/api/v1", func(r chi.Router) {
		if config.APIKey != "" {
			r.Use(apiKeyMiddleware(config.APIKey))
		}

		// Health check
		r.Get("/health", metrics.InstrumentHandler("GET", "/api/v1/health", server.handleHealth))

		// File registry
		r.Post("/files", metrics.InstrumentHandler("POST", "/api/v1/files", server.handleRegisterFile))
		r.Get("/files", metrics.InstrumentHandler("GET", "/api/v1/files", server.handleListFiles))
		r.Get("/files/{id}", metrics.InstrumentHandler("GET", "/api/v1/files/{id}", server.handleGetFile))
		r.Delete("/files/{id}", metrics.InstrumentHandler("DELETE", "/api/v1/files/{id}", server.handleCloseFile))

		// Frame inspection
		r.Get("/files/{id}/frames",
			metrics.InstrumentHandler("GET", "/api/v1/files/{id}/frames", server.handleListFrames))
		r.Get("/files/{id}/frames/{n}",
			metrics.InstrumentHandler("GET", "/api/v1/files/{id}/frames/{n}", server.handleGetFrame))
		r.Get("/files/{id}/frames/{n}/slaves/{sid}",
			metrics.InstrumentHandler("GET", "/api/v1/files/{id}/frames/{n}/slaves/{sid}", server.handleGetSlaveData))
	})

	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	fmt.Printf("Starting pxld inspection API on %s\n", addr)
	fmt.Printf("Metrics available at: http://%s/metrics\n", addr)
	return http.ListenAndServe(addr, r)
}
