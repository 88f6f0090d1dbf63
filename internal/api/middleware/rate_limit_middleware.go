package middleware

import (
	"net"
	"net/http"
	"strconv"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/api/response"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/ratelimit"
)

// KeyFunc 決定限流的 key
type KeyFunc func(r *http.Request) string

// KeyByIP 需搭配 chi middleware.RealIP
func KeyByIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// NewRateLimitMiddleware 超過限制時回傳 429
func NewRateLimitMiddleware(limiter ratelimit.Limiter, keyFunc KeyFunc) func(http.Handler) http.Handler {
	if limiter == nil {
		panic("limiter cannot be nil")
	}
	if keyFunc == nil {
		keyFunc = KeyByIP
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(r.Context(), keyFunc(r)) {
				w.Header().Set("Retry-After", strconv.Itoa(1))
				response.WriteError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
