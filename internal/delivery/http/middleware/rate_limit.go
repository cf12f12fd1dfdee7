package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"go-scout-backend/internal/domain"
	"go-scout-backend/pkg/apperror"
	"go-scout-backend/pkg/ratelimit"
	"go-scout-backend/pkg/security"
)

// RateLimitMiddleware applies a fixed-window budget per (client IP, action).
// Store failures are absorbed by the limiter and never reject a request.
func RateLimitMiddleware(limiter *ratelimit.Limiter, action string, policy ratelimit.Policy, secLog *security.SecurityLogger) gin.HandlerFunc {
	if secLog == nil {
		secLog = security.NopLogger()
	}
	return func(c *gin.Context) {
		res := limiter.Allow(c.Request.Context(), action, c.ClientIP(), policy)

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if !res.ResetAt.IsZero() {
			c.Header("X-RateLimit-Reset", res.ResetAt.Format(time.RFC3339))
		}

		if !res.Allowed {
			retryAfter := int(time.Until(res.ResetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			secLog.LogRateLimitTriggered(c.Request.Context(), c.ClientIP(), c.GetHeader("User-Agent"),
				c.GetString(string(domain.KeyRequestID)), action)
			abort(c, apperror.RateLimited("Rate limit exceeded. Please try again later."))
			return
		}

		c.Next()
	}
}
