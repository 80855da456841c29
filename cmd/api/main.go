// Package main is the entry point for the auth service.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	_ "github.com/Mr-Olivier/Ecommerce-Platform-Backend/docs"
	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/config"
	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/email"
	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/handlers"
	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/metrics"
	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/middleware"
	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/models"
	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/ratelimit"
	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/repository"
	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/routes"
	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/internal/service"
	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/pkg/database"
	"github.com/Mr-Olivier/Ecommerce-Platform-Backend/pkg/redis"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// @title E-commerce Auth Service API
// @version 1.0
// @description Authentication and account administration service for the e-commerce platform
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer func() { _ = logger.Sync() }()
	sugar := logger.Sugar()

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		sugar.Fatalw("failed to connect to database", "error", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Token{}, &models.Session{}, &models.UserActivity{}); err != nil {
		sugar.Fatalw("failed to run migrations", "error", err)
	}

	// Initialize Redis
	redisClient, err := redis.NewClient(context.Background(), redis.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		sugar.Fatalw("failed to connect to redis", "error", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	// Initialize services
	jwtService := service.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)
	mailer := email.NewSMTPDispatcher(email.SMTPConfig{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUser,
		Password:  cfg.SMTPPass,
		FromName:  cfg.SMTPFromName,
		FromEmail: cfg.SMTPFromEmail,
	}, sugar)
	authService := service.NewAuthService(userRepo, tokenRepo, sessionRepo, jwtService, mailer, service.AuthConfig{
		FrontendURL:              cfg.FrontendURL,
		RequireEmailVerification: cfg.EmailVerificationRequired,
		Production:               cfg.IsProduction(),
	}, sugar)
	adminService := service.NewAdminService(userRepo, activityRepo, sugar)

	// Initialize handlers
	responder := handlers.NewResponder(sugar, cfg.IsProduction())
	authHandler := handlers.NewAuthHandler(authService, responder)
	adminHandler := handlers.NewAdminHandler(adminService, responder)
	healthHandler := handlers.NewHealthHandler()

	limiter := ratelimit.NewLimiter(redisClient, cfg.RateLimitMax, cfg.RateLimitWindow)
	metricsCollector := metrics.New(prometheus.DefaultRegisterer)

	// Setup router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	routes.Setup(router, routes.Options{
		Config:       cfg,
		Auth:         authHandler,
		Admin:        adminHandler,
		Health:       healthHandler,
		Authenticate: middleware.Authenticate(jwtService, userRepo, sugar),
		RequireAdmin: middleware.RequireAdmin(sugar),
		LoginLimit:   middleware.RateLimit(limiter, "login", sugar),
		ForgotLimit:  middleware.RateLimit(limiter, "forgot-password", sugar),
		Metrics:      metricsCollector,
		Log:          sugar,
	})

	// Expired-but-unconsumed tokens are never cleaned up by request flows;
	// sweep them periodically so the table does not grow without bound.
	go sweepExpiredTokens(context.Background(), tokenRepo, cfg.TokenSweepInterval, sugar)

	sugar.Infow("starting auth service", "port", cfg.Port, "environment", cfg.Environment)
	if err := router.Run(fmt.Sprintf(":%s", cfg.Port)); err != nil {
		sugar.Fatalw("failed to start server", "error", err)
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func sweepExpiredTokens(ctx context.Context, tokens repository.TokenRepository, interval time.Duration, log *zap.SugaredLogger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := tokens.DeleteExpired(ctx, time.Now())
			if err != nil {
				log.Errorw("token sweep failed", "error", err)
				continue
			}
			if removed > 0 {
				log.Infow("swept expired tokens", "removed", removed)
			}
		}
	}
}
