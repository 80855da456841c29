// Package middleware provides HTTP middleware for the auth service.
package middleware

import (
	"net/http"
	"strings"

	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/models"
	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/repository"
	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by the authentication guard.
const (
	ContextUserKey   = "currentUser"
	ContextUserIDKey = "currentUserID"
)

// Authenticate verifies the bearer token and re-fetches the referenced user,
// so authorization is always derived from current database state rather than
// trusted purely from token claims. Missing, invalid or orphaned tokens
// short-circuit with 401.
func Authenticate(jwtService service.JWTService, users repository.UserRepository, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			abortUnauthorized(c, "Authentication required")
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			abortUnauthorized(c, "Invalid token")
			return
		}

		user, err := users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			abortUnauthorized(c, "Invalid token")
			return
		}
		if !user.IsActive {
			log.Warnw("request from deactivated account", "userId", user.ID)
			abortUnauthorized(c, "Your account has been deactivated")
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextUserIDKey, user.ID)
		c.Next()
	}
}

// RequireAdmin rejects authenticated requests whose user is not an admin.
func RequireAdmin(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			abortUnauthorized(c, "Authentication required")
			return
		}
		if user.Role != models.RoleAdmin {
			log.Warnw("unauthorized admin access attempt", "userId", user.ID)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"status":  "error",
				"message": "Admin access required",
			})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by Authenticate.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

// CurrentUserID returns the authenticated user id set by Authenticate.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserIDKey)
}

func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	parts := strings.Split(header, " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"status":  "error",
		"message": message,
	})
}
