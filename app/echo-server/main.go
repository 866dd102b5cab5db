package main

import (
	"context"
	"fmt"
	"log"
	httpMetrics "myMovieRecs/app/echo-server/metrics"
	"myMovieRecs/app/echo-server/router"
	"myMovieRecs/business/enrichment"
	"myMovieRecs/business/recindex"
	"myMovieRecs/business/recommendation"
	"myMovieRecs/internal/middleware"
	"myMovieRecs/internal/repository/precomputed"
	"myMovieRecs/internal/repository/relational"
	"myMovieRecs/internal/rest"
	"myMovieRecs/pkg/config"
	"myMovieRecs/pkg/database"
	"myMovieRecs/pkg/logger"
	"myMovieRecs/pkg/metrics"
	"myMovieRecs/pkg/tracing"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	defer logger.Sync()
	logger.Info("Starting MyMovieRecs", "version", cfg.App.Version)

	shutdownTracing := tracing.Init(context.Background(), cfg.App, cfg.Tracing)

	metrics.Init()
	httpMetrics.Init()

	db, err := database.Open(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "driver", cfg.Database.Driver, "error", err)
	}
	logger.Info("Database connected successfully", "driver", cfg.Database.Driver)

	// Init precomputed indices
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), time.Minute)
	userIndex := loadUserIndex(loadCtx, cfg.Recommender.UserRecsPath)
	contentIndex := loadContentIndex(loadCtx, cfg.Recommender.ContentRecsPath)
	cancelLoad()

	// Init repo
	movieRepo := relational.NewMovieRepository(db, cfg.Database.QueryTimeout)
	guardedMovieRepo := relational.NewBreakerMovieRepository(movieRepo, relational.BreakerConfig{
		FailureThreshold: cfg.Breaker.FailureThreshold,
		OpenTimeout:      cfg.Breaker.OpenTimeout,
	})

	// Init service
	enrichmentService := enrichment.NewService(guardedMovieRepo)
	recommendationService := recommendation.NewService(userIndex, contentIndex, enrichmentService)

	// Init handler
	recommendationHandler := rest.NewRecommendationHandler(recommendationService, cfg.Server.RequestTimeout)
	healthHandler := rest.NewHealthHandler(cfg.App.Version, userIndex, contentIndex, guardedMovieRepo)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = rest.JSONSerializer{}

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(httpMetrics.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderXRequestID},
	}))
	e.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond))

	// Setup routes
	api := e.Group("/api")
	router.SetupRecommendationRoutes(api, recommendationHandler)
	router.SetupHealthRoutes(e, healthHandler)
	router.SetupMetricsRoutes(e)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	if err := shutdownTracing(ctx); err != nil {
		logger.Error("Tracer shutdown error", "error", err)
	}

	if err := database.Close(db); err != nil {
		logger.Error("Database close error", "error", err)
	}

	logger.Info("Server stopped")
}

func loadUserIndex(ctx context.Context, path string) *recindex.UserIndex {
	src, err := precomputed.Open(path)
	if err != nil {
		logger.Warn("User recommendations unavailable, serving empty results", "path", path, "error", err)
		return recindex.EmptyUserIndex()
	}
	return recindex.LoadUserIndexOrEmpty(ctx, src)
}

func loadContentIndex(ctx context.Context, path string) *recindex.ContentIndex {
	src, err := precomputed.Open(path)
	if err != nil {
		logger.Warn("Content recommendations unavailable, serving empty results", "path", path, "error", err)
		return recindex.EmptyContentIndex()
	}
	return recindex.LoadContentIndexOrEmpty(ctx, src)
}
