package middlewares

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wanderstay/bookings/internal/redisclient"
)

// RateLimiter throttles a route group per client IP using redis-backed
// fixed windows, so the limit holds across replicas.
type RateLimiter struct {
	client *redisclient.Client
	limit  int
	window time.Duration
}

func NewRateLimiter(client *redisclient.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
	}
}

// Middleware enforces the limit for one named scope. A redis outage fails
// open: throttling is protection, not correctness.
func (rl *RateLimiter) Middleware(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.client == nil {
			c.Next()
			return
		}

		key := "ratelimit:" + scope + ":" + c.ClientIP()

		count, err := rl.client.IncrWithTTL(c.Request.Context(), key, rl.window)

		if err != nil {
			slog.Default().WarnContext(c.Request.Context(), "rate limiter unavailable", "scope", scope, "err", err)
			c.Next()
			return
		}

		if count > int64(rl.limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests",
			})
			return
		}

		c.Next()
	}
}
