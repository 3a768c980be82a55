package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/desk/internal/httpserver/deps"
	"github.com/MrSnakeDoc/desk/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/desk/internal/httpserver/mw"
)

func init() { Register(registerConfig) }

func registerConfig(r chi.Router, d deps.Deps) {
	r.Route("/api/config", func(r chi.Router) {
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))
		r.Get("/", handlers.GetConfig(d))
		r.With(mw.RateLimit(mw.RateLimitConfig{
			Burst:             d.RateLimitBurst,
			RefillPerIPPerMin: d.RateLimitPerMin,
			MaxEntries:        10000,
			TrustProxy:        d.TrustProxy,
		})).Put("/", handlers.PutConfig(d))
	})
}
