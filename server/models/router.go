package models

import (
	"context"
	"errors"
	"net/http"
	"time"

	"latency_optimizer/server/bredis"
	"latency_optimizer/server/env"
	"latency_optimizer/server/logger"
	custommiddleware "latency_optimizer/server/middleware"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

var _ custommiddleware.RateLimiter = (*bredis.Client)(nil)

// NewRouter builds the echo instance with every route registered
func (m *Models) NewRouter() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware - use custom zerolog middleware
	e.Use(custommiddleware.RequestLoggerWithSkipper(func(c echo.Context) bool {
		return c.Request().URL.Path == "/metrics"
	}))
	e.Use(custommiddleware.RecoverWithLogger())
	e.Use(custommiddleware.HTTPMetrics(m.metrics))
	e.Use(middleware.CORS())

	// Public routes
	e.GET("/health", m.health.Check)
	e.GET("/metrics", echo.WrapHandler(m.metrics.Handler()))

	// Optimization routes, limited per client IP when redis is available
	var limiter custommiddleware.RateLimiter
	if m.bredisClient != nil {
		limiter = m.bredisClient
	}
	rateLimit := custommiddleware.RateLimitByIP(limiter, env.E.RateLimit.Requests, env.E.GetRateLimitWindow())

	api := e.Group("/api")
	{
		api.POST("/optimize", m.networkHandler.Optimize, rateLimit)
		api.POST("/optimize/batch", m.networkHandler.OptimizeBatch, rateLimit)
		api.POST("/optimize/upload", m.networkHandler.Upload, rateLimit)
	}

	// Protected routes (require an operator token)
	runs := api.Group("/runs")
	runs.Use(custommiddleware.JWTMiddleware(func(token string) (interface{}, error) {
		return m.jwtService.ValidateToken(token)
	}))
	{
		runs.GET("", m.networkHandler.ListRuns)
		runs.GET("/:id", m.networkHandler.GetRun)
	}

	return e
}

// SetupRoutes configures and starts the HTTP server
func (m *Models) SetupRoutes() {
	m.echo = m.NewRouter()

	serverAddr := ":" + env.E.GetServerPort()
	logger.Infof("Server starting on %s...", serverAddr)
	logger.Info("Available endpoints:")
	logger.Info("  POST /api/optimize        - Optimize one tree network")
	logger.Info("  POST /api/optimize/batch  - Optimize several networks")
	logger.Info("  POST /api/optimize/upload - Optimize an uploaded edge list")
	logger.Info("  GET  /api/runs            - Recent runs (requires token)")
	logger.Info("  GET  /api/runs/:id        - One run (requires token)")
	logger.Info("  GET  /health              - Health check")
	logger.Info("  GET  /metrics             - Prometheus metrics")

	go func() {
		if err := m.echo.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Server stopped: %v", err)
		}
	}()
}

// Shutdown stops the HTTP server and closes connections
func (m *Models) Shutdown(timeout time.Duration) {
	if m.echo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := m.echo.Shutdown(ctx); err != nil {
			logger.Errorf("Server shutdown failed: %v", err)
		}
	}
	m.Close()
}
