package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-push-reactor/internal/application/registry"
	"github.com/go-push-reactor/internal/config"
	jwtinfra "github.com/go-push-reactor/internal/infrastructure/jwt"
	"github.com/go-push-reactor/internal/transport/http/handler"
	appmiddleware "github.com/go-push-reactor/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds all dependencies for the router.
type Deps struct {
	Registry    *registry.Registry
	JWTProvider *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 20 events/second, burst of 40 — webhook callers are backend services,
	// not browsers.
	ingestRL := appmiddleware.NewRateLimiter(rate.Limit(20), 40)

	healthH := handler.NewHealthHandler()
	eventH := handler.NewEventHandler(deps.Registry)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)

		r.Group(func(r chi.Router) {
			r.Use(authMw)
			r.With(ingestRL.Limit).Post("/events", eventH.Ingest)
		})
	})

	return r
}
