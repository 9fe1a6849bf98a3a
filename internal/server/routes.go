package server

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cargofree/cargo-free/internal/server/handlers"
)

func (s *Server) registerRoutes() {
	s.router.Get("/health", s.health.HealthHandler)
	s.router.Get("/version", handlers.VersionHandler)
	s.router.Get("/metrics", MetricsHandler)

	lookups := &handlers.LookupHandler{
		Resolver:     s.opts.Resolver,
		Timeout:      s.opts.LookupTimeout,
		Concurrency:  s.opts.Concurrency,
		MaxNames:     s.opts.MaxNames,
		BatchTimeout: batchTimeout(orDefault(s.opts.WriteTimeout, 30*time.Second)),
	}
	s.router.Route("/v1", func(r chi.Router) {
		r.Get("/crates/{name}", lookups.Crate)
		r.Post("/check", lookups.Check)
	})
}

// batchTimeout leaves a tenth of the write deadline for encoding the response.
func batchTimeout(writeTimeout time.Duration) time.Duration {
	return writeTimeout - writeTimeout/10
}
