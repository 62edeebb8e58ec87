package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvoss/paygrid/paygrid-backend/internal/config"
	"github.com/dvoss/paygrid/paygrid-backend/internal/engine"
	"github.com/dvoss/paygrid/paygrid-backend/internal/handler"
	"github.com/dvoss/paygrid/paygrid-backend/internal/middleware"
	"github.com/dvoss/paygrid/paygrid-backend/internal/repository/postgres"
	"github.com/dvoss/paygrid/paygrid-backend/internal/service"
	appvalidator "github.com/dvoss/paygrid/paygrid-backend/internal/validator"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	incomeRepo := postgres.NewIncomeProfileRepository(pool)
	ruleRepo := postgres.NewBudgetRuleRepository(pool)
	periodRepo := postgres.NewPayPeriodRepository(pool)
	allocationRepo := postgres.NewAllocationRepository(pool)

	// Calculation configuration from environment
	calcConfig := engine.Config{
		EnableProRating: true,
		Rounding:        engine.RoundingMode(cfg.Calc.RoundingMode),
		Precision:       cfg.Calc.Precision,
		MaxIterations:   cfg.Calc.MaxIterations,
	}
	thresholds := service.ReconciliationThresholds{
		PerfectPct: decimal.NewFromFloat(cfg.Calc.PerfectThresholdPct),
		MinorPct:   decimal.NewFromFloat(cfg.Calc.MinorThresholdPct),
	}

	// Initialize services
	authService := service.NewAuthService(userRepo)
	incomeService := service.NewIncomeService(incomeRepo)
	ruleService := service.NewBudgetRuleService(ruleRepo)
	periodService := service.NewPeriodService(periodRepo, incomeRepo, allocationRepo, thresholds)
	allocationService := service.NewAllocationService(allocationRepo, periodRepo, ruleRepo, incomeRepo, calcConfig)

	// Create user provider adapter for auth middleware
	userProvider := &userProviderAdapter{authService: authService}

	// Initialize auth middleware
	authMiddleware, err := middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience, userProvider)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth middleware")
	}
	rateLimiter := middleware.NewRateLimiter()
	defer rateLimiter.Stop()

	// Initialize handlers
	incomeHandler := handler.NewIncomeHandler(incomeService)
	ruleHandler := handler.NewBudgetRuleHandler(ruleService)
	periodHandler := handler.NewPeriodHandler(periodService)
	allocationHandler := handler.NewAllocationHandler(allocationService)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = appvalidator.New()

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, rateLimiter, incomeHandler, ruleHandler, periodHandler, allocationHandler)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// userProviderAdapter adapts AuthService to middleware.UserProvider
type userProviderAdapter struct {
	authService *service.AuthService
}

// ResolveUser implements middleware.UserProvider
func (a *userProviderAdapter) ResolveUser(auth0ID, email string, name *string) (uuid.UUID, error) {
	user, err := a.authService.AuthenticateUser(auth0ID, email, name)
	if err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
