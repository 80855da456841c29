// Package routes defines HTTP routes for the auth service.
package routes

import (
	"net/http"

	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/config"
	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/handlers"
	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggo/swag"
	"go.uber.org/zap"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/middleware"
)

// Options bundles everything the route table needs.
type Options struct {
	Config       *config.Config
	Auth         *handlers.AuthHandler
	Admin        *handlers.AdminHandler
	Health       *handlers.HealthHandler
	Authenticate gin.HandlerFunc
	RequireAdmin gin.HandlerFunc
	LoginLimit   gin.HandlerFunc
	ForgotLimit  gin.HandlerFunc
	Metrics      *metrics.Metrics
	Log          *zap.SugaredLogger
}

// Setup configures all HTTP routes for the application.
func Setup(router *gin.Engine, opts Options) {
	router.Use(middleware.RequestLogger(opts.Log))
	router.Use(opts.Metrics.Handler())
	router.Use(corsMiddleware(opts.Config.CORSOrigin))

	// Health check
	router.GET("/health", opts.Health.Check)
	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API documentation
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/docs.json", func(c *gin.Context) {
		doc, err := swag.ReadDoc()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "documentation unavailable"})
			return
		}
		c.Data(http.StatusOK, "application/json", []byte(doc))
	})

	// Auth routes
	auth := router.Group("/api/auth")
	{
		auth.POST("/register", opts.Auth.Register)
		auth.GET("/verify-email/:token", opts.Auth.VerifyEmail)
		auth.POST("/login", opts.LoginLimit, opts.Auth.Login)
		auth.POST("/forgot-password", opts.ForgotLimit, opts.Auth.ForgotPassword)
		auth.POST("/reset-password", opts.Auth.ResetPassword)

		authed := auth.Group("", opts.Authenticate)
		{
			authed.POST("/verify-mfa", opts.Auth.VerifyMfa)
			authed.GET("/profile", opts.Auth.GetProfile)
			authed.PUT("/update-profile", opts.Auth.UpdateProfile)
			authed.POST("/change-password", opts.Auth.ChangePassword)
			authed.GET("/sessions", opts.Auth.GetSessions)
			authed.POST("/logout", opts.Auth.Logout)
			authed.POST("/logout-all", opts.Auth.LogoutAll)
		}
	}

	// Admin routes
	admin := router.Group("/api/admin", opts.Authenticate, opts.RequireAdmin)
	{
		admin.GET("/users", opts.Admin.ListUsers)
		admin.GET("/users/:userId", opts.Admin.GetUser)
		admin.PUT("/users/:userId/change-role", opts.Admin.ChangeRole)
		admin.PUT("/users/:userId/deactivate", opts.Admin.DeactivateUser)
		admin.PUT("/users/:userId/reactivate", opts.Admin.ReactivateUser)
		admin.GET("/users/:userId/activity", opts.Admin.GetUserActivity)
	}
}

func corsMiddleware(origin string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Range", "X-Content-Range"},
		MaxAge:        3600,
	}
	if origin == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = []string{origin}
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
