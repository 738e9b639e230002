package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pdia/sitegate/internal/auth"
	"github.com/pdia/sitegate/internal/handlers"
	"github.com/pdia/sitegate/internal/metrics"
	"github.com/pdia/sitegate/internal/middleware"
)

// RegisterRoutes registers the API surface. The security gate runs as
// router-level middleware before any of these; auth endpoints and the
// emergency unlock additionally sit behind a per-IP request-rate limit.
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	unlockHandler *handlers.UnlockHandler,
	tokenManager *auth.TokenManager,
) {
	rateLimit := middleware.RateLimitByIP(middleware.DefaultAuthRateLimit())

	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(rateLimit).Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Get("/verify", authHandler.Verify)
		})

		r.With(rateLimit).Post("/emergency-unlock", unlockHandler.EmergencyUnlock)

		// Admin-only routes
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin(tokenManager))
			r.Get("/analytics/stats", analyticsHandler.Stats)
			r.Get("/analytics/security", analyticsHandler.Security)
		})

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})
	})

	router.Method(http.MethodGet, "/metrics", metrics.Handler())
}
