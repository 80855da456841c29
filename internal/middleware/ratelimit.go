package middleware

import (
	"fmt"
	"net/http"

	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/ratelimit"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimit throttles an endpoint per client IP. When redis is unreachable
// the limiter fails open: the request proceeds and the failure is logged.
func RateLimit(limiter *ratelimit.Limiter, scope string, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("%s:%s", scope, c.ClientIP())
		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Errorw("rate limiter unavailable", "scope", scope, "error", err)
			c.Next()
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":  "error",
				"message": "Too many requests. Please try again later.",
			})
			return
		}
		c.Next()
	}
}
