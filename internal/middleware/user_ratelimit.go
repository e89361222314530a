package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"AlphaPulse/internal/service/ratelimit"
	xhttp "AlphaPulse/pkg/http"
)

// UserRateLimit applies a per-user token bucket to the wrapped routes.
// capacity requests may burst; the bucket refills over window.
func UserRateLimit(limiter *ratelimit.Limiter, capacity int, window time.Duration) echo.MiddlewareFunc {
	if capacity <= 0 {
		capacity = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	refillPerSec := float64(capacity) / window.Seconds()
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid := UserID(c)
			if uid == "" {
				uid = c.RealIP()
			}
			if !limiter.Allow(uid, float64(capacity), refillPerSec) {
				return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
