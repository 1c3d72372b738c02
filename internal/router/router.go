package router

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"okane/internal/config"
	"okane/internal/handler"
	"okane/internal/middleware"
)

type Handlers struct {
	Auth        *handler.AuthHandler
	Transaction *handler.TransactionHandler
	Category    *handler.CategoryHandler
	Statistics  *handler.StatisticsHandler
}

type HealthChecker func(ctx context.Context) error

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, handlers Handlers, health HealthChecker) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if health != nil {
			if err := health(req.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("unavailable"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", handlers.Auth.Register)
			auth.Post("/login", handlers.Auth.Login)
			auth.Post("/refresh", handlers.Auth.Refresh)
			auth.Post("/logout", handlers.Auth.Logout)
			auth.With(authMiddleware.RequireAuth).Get("/me", handlers.Auth.Me)
		})

		api.Group(func(protected chi.Router) {
			protected.Use(authMiddleware.RequireAuth)

			protected.Post("/transactions", handlers.Transaction.Create)
			protected.Get("/transactions", handlers.Transaction.List)
			protected.Delete("/transactions/{id}", handlers.Transaction.Delete)

			protected.Get("/categories", handlers.Category.List)
			protected.Post("/categories", handlers.Category.Create)
			protected.Delete("/categories/{id}", handlers.Category.Delete)

			protected.Get("/statistics/categories", handlers.Statistics.ByCategories)
			protected.Get("/statistics/history", handlers.Statistics.History)
		})
	})

	return r
}
