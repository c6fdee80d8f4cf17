package ratelimit

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ClientKey derives the limiter key from the forwarded client address and
// the request path. Header fallback chain: X-Forwarded-For (first hop) →
// X-Real-IP → "unknown".
func ClientKey(c *gin.Context) string {
	addr := c.GetHeader("X-Forwarded-For")
	if addr != "" {
		addr = strings.TrimSpace(strings.Split(addr, ",")[0])
	}
	if addr == "" {
		addr = c.GetHeader("X-Real-IP")
	}
	if addr == "" {
		addr = "unknown"
	}
	return addr + ":" + c.Request.URL.Path
}

// Middleware gates requests through the limiter and attaches the standard
// X-RateLimit headers to every response. On denial it answers 429 with a
// Retry-After hint. A counter-store failure logs and lets the request
// through rather than turning a limiter outage into an API outage.
func Middleware(limiter *Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := limiter.Check(c.Request.Context(), ClientKey(c))
		if err != nil {
			logrus.WithError(err).Warn("rate limit store unavailable, allowing request")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", result.ResetTime.UTC().Format(time.RFC3339))

		if !result.Allowed {
			c.Header("Retry-After", strconv.Itoa(result.RetryAfter))
			c.AbortWithStatusJSON(429, gin.H{
				"message": fmt.Sprintf("Rate limit exceeded. Try again in %d seconds.", result.RetryAfter),
			})
			return
		}

		c.Next()
	}
}
