package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hbenali/sunduq-backend/internal/config"
	"github.com/hbenali/sunduq-backend/internal/events"
	"github.com/hbenali/sunduq-backend/internal/handler"
	"github.com/hbenali/sunduq-backend/internal/middleware"
	"github.com/hbenali/sunduq-backend/internal/repository/postgres"
	"github.com/hbenali/sunduq-backend/internal/scheduler"
	"github.com/hbenali/sunduq-backend/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
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
	memberRepo := postgres.NewMemberRepository(pool)
	loanRepo := postgres.NewLoanRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	settingsRepo := postgres.NewSettingsRepository(pool)
	txManager := postgres.NewTxManager(pool)

	// All mutations serialize through one guard
	guard := service.NewWriteGuard()

	// Initialize services
	settingsService := service.NewSettingsService(settingsRepo)
	if err := settingsService.Load(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load fund settings")
	}

	ruleService := service.NewRuleService()
	fundService := service.NewFundService(memberRepo, loanRepo, settingsService)
	loanService := service.NewLoanService(loanRepo, memberRepo, transactionRepo, fundService, ruleService, txManager, guard)
	paymentService := service.NewPaymentService(paymentRepo, transactionRepo, memberRepo, loanRepo, loanService, fundService, ruleService, txManager, guard)
	memberService := service.NewMemberService(memberRepo, loanRepo, transactionRepo, fundService, ruleService, txManager, guard)
	interestService := service.NewInterestService(settingsService, settingsRepo, fundService, ruleService, transactionRepo, txManager, guard)
	reportService := service.NewReportService(memberRepo, paymentRepo, transactionRepo, loanRepo)

	// Event hub fans domain events out to WebSocket subscribers
	hub := events.NewHub()
	memberService.SetEventPublisher(hub)
	loanService.SetEventPublisher(hub)
	paymentService.SetEventPublisher(hub)
	interestService.SetEventPublisher(hub)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.APIToken)
	rateLimiter := middleware.NewRateLimiter()
	defer rateLimiter.Stop()

	// Initialize handlers
	memberHandler := handler.NewMemberHandler(memberService, reportService)
	loanHandler := handler.NewLoanHandler(loanService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	fundHandler := handler.NewFundHandler(fundService, interestService, reportService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	maintenanceHandler := handler.NewMaintenanceHandler(paymentService)
	wsHandler := handler.NewWebSocketHandler(hub, cfg.APIToken, cfg.CORSOrigins)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

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

	// Per-IP rate limiting
	e.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, memberHandler, loanHandler, paymentHandler, fundHandler, settingsHandler, maintenanceHandler, wsHandler)

	// Start the interest-due scheduler
	sched := scheduler.New(interestService, hub, cfg.InterestCheckCron)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}
	defer sched.Stop()

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
