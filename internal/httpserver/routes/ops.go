package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/desk/internal/httpserver/deps"
	"github.com/MrSnakeDoc/desk/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/desk/internal/metrics"
)

func init() {
	Register(registerHealthz)
	Register(registerOps)
}

// healthz stays open so container runtimes can probe it.
func registerHealthz(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))
}

func registerOps(r chi.Router, d deps.Deps) {
	r.Group(func(r chi.Router) {
		r.Use(opsOnly(d)...)
		r.Get("/readyz", handlers.Readyz(d))
		r.Get("/infra", handlers.Infra(d))
		r.Post("/reload", handlers.Reload(d))
		r.Method("GET", "/metrics", metrics.Handler())
	})
}
