package middleware

import (
	"context"
	"strconv"
	"time"

	"latency_optimizer/server/bredis"
	"latency_optimizer/server/response"

	"github.com/labstack/echo/v4"
)

// RateLimiter is the subset of the redis client the middleware needs
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, identifier string, limit int64, window time.Duration) *bredis.RateLimitResult
}

// RateLimitByIP applies a fixed-window limit per client IP. A nil limiter
// disables limiting.
func RateLimitByIP(limiter RateLimiter, limit int64, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if limiter == nil {
				return next(c)
			}

			result := limiter.CheckRateLimit(c.Request().Context(), "ip:"+c.RealIP(), limit, window)

			c.Response().Header().Set("X-RateLimit-Limit", strconv.FormatInt(limit, 10))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))

			if !result.Allowed {
				c.Response().Header().Set("Retry-After", strconv.FormatInt(int64(result.RetryAfter.Seconds()), 10))
				return response.TooManyRequests(c, "Too many requests", result.RetryAfter.Seconds())
			}

			return next(c)
		}
	}
}
