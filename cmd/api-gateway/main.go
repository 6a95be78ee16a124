// Package main is the entry point of the freight shipment API.
// It books shipments, issues tracking numbers and computes chargeable weight.
//
// 12-Factor App compilance:
//   - I. Codebase: Single codebase tracked in version control
//   - II. Dependencies: Managed via go.mod
//   - III. Config: Configuration via environment variables
//   - VI. Processes: Stateless processes (state lives in SQLite / Redis)
//   - VII. Port Binding: Self-contained HTTP server
//   - IX. Disposability: Graceful shutdown
//   - XI. Logs: Structured logging to stdout
//
// Usage:
//
//	go run ./cmd/api-gateway
//
// Environment Variables:
//
//	FREIGHT_CONFIG           - Optional config file path
//	FREIGHT_ENVIRONMENT      - Deployment environment (development, staging, production)
//	FREIGHT_SERVER_PORT      - HTTP server port (default: 8080)
//	FREIGHT_APP_DEBUG        - Force debug logging (default: false)
//	FREIGHT_DATABASE_PATH    - SQLite database file (default: freight.db)
//	FREIGHT_REDIS_ENABLED    - Reserve tracking numbers in Redis (default: false)
//	FREIGHT_TELEMETRY_ENABLED - Export spans to stdout (default: false)
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hapkiduki/freight-go/internal/application/service"
	"github.com/hapkiduki/freight-go/internal/infrastructure/cache"
	"github.com/hapkiduki/freight-go/internal/infrastructure/config"
	"github.com/hapkiduki/freight-go/internal/infrastructure/persistance/sqlite"
	"github.com/hapkiduki/freight-go/internal/infrastructure/telemetry"
	"github.com/hapkiduki/freight-go/internal/interfaces/http/handler"
	"github.com/hapkiduki/freight-go/internal/interfaces/http/middleware"
	"github.com/hapkiduki/freight-go/internal/interfaces/http/router"
	"github.com/hapkiduki/freight-go/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// version is set at build time via ldflags
var version = "dev"

func main() {
	os.Exit(start(os.Getenv("FREIGHT_CONFIG")))
}

// start runs the service and returns the process exit code. Deferred
// cleanup (log flush, signal handler) finishes before main calls os.Exit.
func start(configFile string) int {
	// Load configuration
	cfg := config.MustLoad(configFile)

	// Initialize logger
	log := logger.MustNew(logger.Config{
		Level:       cfg.LogLevel(),
		Format:      cfg.Log.Format,
		Development: cfg.App.Environment == "development" || cfg.App.Debug,
	})
	defer func() { _ = log.Sync() }()
	logger.SetGlobal(log)

	appVersion := cfg.App.ResolveVersion(version)
	log.Info("Starting freight shipment API",
		"version", appVersion,
		"environment", cfg.App.Environment,
	)

	// Create context that listens for shutdowns signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, appVersion); err != nil {
		log.Error("Service stopped with error", "error", err)
		return 1
	}
	log.Info("Server shutdown complete")
	return 0
}

// run wires the application and blocks until ctx is cancelled or the server fails.
func run(ctx context.Context, cfg *config.Config, log *logger.Logger, appVersion string) error {
	appLog := logger.AsPort(log)

	// ============================================================================
	// Infrastructure
	// ============================================================================

	repo, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	tracer, err := telemetry.New(telemetry.Config{
		ServiceName:    cfg.App.Name,
		ServiceVersion: appVersion,
		Enabled:        cfg.Telemetry.Enabled,
		Output:         cfg.Telemetry.Output,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		_ = tracer.Shutdown(shutdownCtx)
	}()

	checks := map[string]handler.Pinger{"database": repo}

	genOpts := []service.GeneratorOption{
		service.WithMaxAttempts(cfg.Tracking.MaxAttempts),
		service.WithGeneratorLogger(appLog.With("component", "tracking_number_generator")),
		service.WithGeneratorTracer(tracer),
	}
	if cfg.Redis.Enabled {
		reservation := cache.NewTrackingReservation(cache.Options{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			Namespace: cfg.Redis.Namespace,
		})
		defer func() { _ = reservation.Close() }()

		genOpts = append(genOpts, service.WithReservation(reservation, cfg.Tracking.ReservationTTL))
		checks["redis"] = reservation
		log.Info("Tracking number reservations enabled", "redis_addr", cfg.Redis.Addr)
	}

	// ============================================================================
	// Application
	// ============================================================================

	freight, err := cfg.Freight.Settings()
	if err != nil {
		return err
	}

	generator := service.NewTrackingNumberGenerator(repo, genOpts...)
	shipments := service.NewShipmentService(repo, generator, freight, cfg.Tracking.InsertRetries, appLog.With("component", "shipment_service"))

	// ============================================================================
	// HTTP
	// ============================================================================

	var rateLimit *middleware.RateLimiterConfig
	if cfg.RateLimit.Enabled {
		rl := middleware.DefaultRateLimiterConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		rl.IdleTTL = cfg.RateLimit.CleanupInterval
		rateLimit = &rl
	}

	h := router.New(
		router.Config{
			Version:            appVersion,
			CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
			RequestTimeout:     cfg.Server.RequestTimeout,
			MaxRequestSize:     cfg.Server.MaxRequestSize,
			RateLimit:          rateLimit,
		},
		appLog,
		handler.NewShipmentHandler(shipments, appLog.With("component", "http")),
		handler.NewHealthHandler(appVersion, checks),
	)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      h,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("HTTP server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		// Wait for interrupt signal or server failure
		<-gctx.Done()
		log.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("Server forced to shutdown", "error", err)
			return err
		}
		return nil
	})

	return g.Wait()
}
