package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	_ "savor/docs"
	"savor/internal/caching"
	"savor/internal/config"
	"savor/internal/extraction"
	"savor/internal/handlers"
	"savor/internal/jobs"
	"savor/internal/jobs/background"
	"savor/internal/llm"
	"savor/internal/logging"
	"savor/internal/metrics"
	"savor/internal/middleware"
	"savor/internal/migrations"
	"savor/internal/repositories"
	"savor/internal/services"
	"savor/pkg/database"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		// No structured logger before the config is read
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.App.Location()
	if err != nil {
		return fmt.Errorf("resolve timezone: %w", err)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry, cfg.App.Name)

	// Database
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(ctx, pool, logger); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	// Cache and receipt archive
	cacheSvc := caching.NewRedisCacheService(cfg.Redis, logger)

	minioSvc, err := services.NewMinioService(cfg.Minio)
	if err != nil {
		logger.Warn("Receipt archive disabled", zap.Error(err))
	} else if err := minioSvc.EnsureBucketExists(ctx); err != nil {
		logger.Warn("Receipt bucket unavailable, uploads will not be archived",
			zap.String("bucket", cfg.Minio.Bucket), zap.Error(err))
	}

	// Model
	llmClient, err := llm.New(cfg.LLM, m)
	if err != nil {
		return err
	}
	logger.Info("Model provider configured",
		zap.String("provider", llmClient.Provider()), zap.String("model", cfg.LLM.Model))

	// Services
	inventoryRepo := repositories.NewInventoryRepo(pool)
	inventorySvc := services.NewInventoryService(inventoryRepo, cacheSvc, m, logger, loc)
	reconcileSvc := services.NewReconcileService(inventorySvc, m, logger, cfg.Receipts.Concurrency)
	extractor := extraction.NewExtractor(llmClient, m, logger)
	receiptSvc := services.NewReceiptService(extractor, reconcileSvc, minioSvc, cacheSvc, cfg.Receipts, m, logger)
	recipeSvc := services.NewRecipeService(llmClient, inventorySvc, cacheSvc, m, logger, loc)

	// Background jobs
	var scheduler *background.JobScheduler
	if cfg.Jobs.Enabled {
		alerts := jobs.NewExpiryAlertService(inventorySvc, m, logger, cfg.Jobs.AlertDays, cfg.Jobs.AutoExpire, loc)
		scheduler, err = background.NewJobScheduler(alerts, cfg.Jobs, logger)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Stop(); err != nil {
				logger.Error("Failed to stop job scheduler", zap.Error(err))
			}
		}()
	}

	// Handlers
	var storageCheck handlers.HealthCheckFunc
	if minioSvc != nil {
		storageCheck = minioSvc.Ping
	}
	router := &handlers.Router{
		Health:    handlers.NewHealthHandlers(pool.Ping, cacheSvc.Ping, storageCheck, version),
		Inventory: handlers.NewInventoryHandlers(inventorySvc, reconcileSvc, cfg.Receipts.ExpiringDays),
		Receipts:  handlers.NewReceiptHandlers(receiptSvc, cfg.Receipts.MaxUploadBytes),
		Recipes:   handlers.NewRecipeHandlers(recipeSvc),
	}
	if scheduler != nil {
		router.Jobs = handlers.NewJobHandlers(scheduler)
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewRequestValidator()

	// Global middleware
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())
	e.Use(middleware.RequestID)
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.Metrics(m))
	// Multipart framing on top of the largest accepted photo
	e.Use(echoMiddleware.BodyLimit(fmt.Sprintf("%dK", cfg.Receipts.MaxUploadBytes/1024+512)))

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	router.Register(e, middleware.NewVersionMiddleware())

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Savor server starting", zap.String("version", version), zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
