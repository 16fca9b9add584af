package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter assembles the API surface. limiter may be nil, in which
// case no rate limiting is applied (the capability is absent). Health
// and metrics are always exempt.
func NewRouter(h *Handler, limiter *RateLimiter, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware(log))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.health)
		r.Get("/metrics", h.metrics)

		r.Group(func(r chi.Router) {
			r.Use(limiter.Limit("check", h.limits.CheckPerMinute))
			r.Get("/check", h.checkDomain)
		})
		r.Group(func(r chi.Router) {
			r.Use(limiter.Limit("bulk", h.limits.BulkPerMinute))
			r.Post("/bulk", h.bulkCheck)
		})
	})
	return r
}
