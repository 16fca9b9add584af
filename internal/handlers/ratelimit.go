package handlers

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/canpolat/domainscout/internal/cache"
)

// RateLimiter enforces fixed per-minute windows per client IP, counted
// through the cache backend so limits hold across instances when the
// backend is shared. A nil *RateLimiter disables limiting entirely.
type RateLimiter struct {
	counter cache.Counter
	window  time.Duration
}

func NewRateLimiter(counter cache.Counter) *RateLimiter {
	return &RateLimiter{counter: counter, window: time.Minute}
}

// Limit wraps a handler with a per-minute cap for the named scope.
func (l *RateLimiter) Limit(scope string, perMinute int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := fmt.Sprintf("ratelimit:%s:%s", scope, clientIP(r))
			n, err := l.counter.IncrWithTTL(r.Context(), key, l.window)
			if err != nil {
				// a broken counter must not take the API down
				next.ServeHTTP(w, r)
				return
			}
			if n > int64(perMinute) {
				writeError(w, http.StatusTooManyRequests, "Rate limit exceeded",
					fmt.Sprintf("%d per minute", perMinute))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
