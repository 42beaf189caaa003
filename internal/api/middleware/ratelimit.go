package middleware

import (
	"net/http"

	"github.com/futig/realty-advisor/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"golang.org/x/time/rate"
)

// RateLimit rejects requests with 429 once the shared token bucket is
// empty. A nil limiter disables the check.
func RateLimit(limiter *rate.Limiter) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				ctxzap.Warn(r.Context(), "request rejected by rate limiter")
				w.Header().Set("Retry-After", "1")
				response.Error(w, http.StatusTooManyRequests, "too many requests, retry later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
