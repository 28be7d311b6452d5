package middleware

import (
	"net"
	"net/http"
	"time"

	"github.com/ceylontrails/ceylontrails-api/internal/apperr"
	"github.com/ceylontrails/ceylontrails-api/internal/platform/cache"
	"github.com/ceylontrails/ceylontrails-api/pkg/logger"
)

// RateLimit caps requests per client IP on the routes it wraps. A cache
// failure fails open; throttling is protection, not a dependency.
func RateLimit(store cache.Store, name string, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "ratelimit:" + name + ":" + clientIP(r)

			allowed, err := store.Allow(r.Context(), key, limit, window)
			if err != nil {
				logger.WarnContext(r.Context(), "Rate limit check failed", "error", err, "key", key)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				WriteAppError(w, r, apperr.RateLimited("Too many requests, try again later"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
