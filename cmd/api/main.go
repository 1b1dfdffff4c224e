package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/localsight/localsight-platform/internal/api/router"
	"github.com/localsight/localsight-platform/internal/app/bootstrap"
	"github.com/localsight/localsight-platform/internal/appointments"
	"github.com/localsight/localsight-platform/internal/availability"
	appconfig "github.com/localsight/localsight-platform/internal/config"
	"github.com/localsight/localsight-platform/internal/observability/metrics"
	"github.com/localsight/localsight-platform/internal/schedule"
	"github.com/localsight/localsight-platform/pkg/logging"
)

func main() {
	// Load .env in development; production injects real env vars.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting localsight API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	pool, err := bootstrap.BuildPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	sqlDB, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open sql db", "error", err)
		os.Exit(1)
	}
	defer func() { _ = sqlDB.Close() }()

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}
	cache := bootstrap.BuildAvailabilityCache(redisClient, cfg.AvailabilityCacheTTL, logger)

	// Repositories
	scheduleRepo := schedule.NewRepository(sqlDB)
	apptRepo := appointments.NewRepository(pool)

	// Availability engine
	fallback := availability.FallbackPolicy{
		Hours:       schedule.DayHours{Start: cfg.FallbackOpenTime, End: cfg.FallbackCloseTime},
		SlotMinutes: cfg.FallbackSlotMinutes,
	}
	engine, err := availability.NewEngine(availability.EngineConfig{
		Settings:     scheduleRepo,
		Appointments: apptRepo,
		BlockedDates: scheduleRepo,
		Cache:        cache,
		Fallback:     &fallback,
		Logger:       logger,
		Metrics:      metrics.NewAvailabilityMetrics(nil),
	})
	if err != nil {
		logger.Error("failed to build availability engine", "error", err)
		os.Exit(1)
	}

	// Services and handlers
	apptService := appointments.NewService(apptRepo, engine, logger)

	routerCfg := &router.Config{
		Logger:              logger,
		AvailabilityHandler: availability.NewHandler(engine, logger),
		AppointmentsHandler: appointments.NewHandler(apptService, logger),
		ScheduleHandler:     schedule.NewHandler(scheduleRepo, engine, logger),
		AdminAuthSecret:     cfg.AdminJWTSecret,
		MetricsHandler:      promhttp.Handler(),
		CORSAllowedOrigins:  strings.Split(cfg.CORSOrigins, ","),
		PublicRateLimit:     cfg.RateLimitPerSec,
		PublicRateBurst:     cfg.RateLimitBurst,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
