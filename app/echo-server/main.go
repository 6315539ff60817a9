package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"admissionAdvisor/app/bootstrap"
	httpMetrics "admissionAdvisor/app/echo-server/metrics"
	"admissionAdvisor/app/echo-server/router"
	"admissionAdvisor/internal/middleware"
	"admissionAdvisor/internal/rest"
	"admissionAdvisor/pkg/config"
	"admissionAdvisor/pkg/logger"
	"admissionAdvisor/pkg/metrics"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting Admission Advisor", "version", cfg.App.Version)

	metrics.Init()
	httpMetrics.Init()

	engines, err := bootstrap.New(cfg)
	if err != nil {
		logger.Fatal("Failed to initialise engines", "error", err)
	}
	defer engines.Close()

	// Initial training; on failure the content-only model keeps serving
	trainCtx, cancelTrain := context.WithTimeout(logger.WithTraceID(context.Background(), "startup-"+uuid.NewString()), time.Minute)
	if err := engines.Recommender.TrainModel(trainCtx); err != nil {
		logger.Error("Initial model training failed", "error", err)
	}
	cancelTrain()

	// Init handler
	recommendationHandler := rest.NewRecommendationHandler(engines.Recommender, cfg.Server.RequestTimeout)
	chatHandler := rest.NewChatHandler(engines.Matcher, cfg.Server.RequestTimeout)
	healthHandler := rest.NewHealthHandler(engines.Inference)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(httpMetrics.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, middleware.HeaderRequestID},
	}))

	// Setup routes
	router.SetRootRoutes(e, healthHandler, chatHandler)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	router.SetRecommendationRoutes(api, recommendationHandler)
	router.SetChatRoutes(api, chatHandler)

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

	logger.Info("Server stopped")
}
