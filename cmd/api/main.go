package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bizmate/automation/internal/api/rest"
	"github.com/bizmate/automation/internal/api/rest/handlers"
	customMiddleware "github.com/bizmate/automation/internal/api/rest/middleware"
	"github.com/bizmate/automation/internal/engine"
	"github.com/bizmate/automation/internal/seeds"
	"github.com/bizmate/automation/internal/sinks"
	"github.com/bizmate/automation/internal/workers"
	"github.com/bizmate/automation/pkg/config"
	"github.com/bizmate/automation/pkg/database"
	"github.com/bizmate/automation/pkg/logger"
	"github.com/bizmate/automation/pkg/metrics"
	"github.com/bizmate/automation/pkg/validator"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Initialize logger
	log, err := logger.New(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	log.Info("Starting automation service",
		logger.String("version", cfg.App.Version),
		logger.String("environment", cfg.App.Environment),
	)

	// Initialize PostgreSQL
	db, err := database.NewPostgresDB(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(cfg.Database.MigrationsPath); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	// Initialize Redis
	redis, err := database.NewRedisClient(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	defer redis.Close()

	// Initialize metrics
	m := metrics.New()

	// Initialize sinks
	emailSink, err := sinks.NewSMTPEmailSink(cfg.Notification.Email, log)
	if err != nil {
		return fmt.Errorf("failed to initialize email sink: %w", err)
	}
	records := sinks.NewPostgresRecordStore(db, log)

	engineSinks := engine.Sinks{
		Notifications: sinks.NewRedisNotificationSink(redis.Client, log),
		Email:         emailSink,
		Records:       records,
		Chat:          sinks.NewWebhookChatSink(cfg.Notification.Chat, log),
		Audit:         sinks.NewPostgresAuditSink(db, log),
	}

	// Initialize engine
	eng := engine.New(engineSinks, engine.Options{
		QueueCapacity: cfg.Engine.QueueCapacity,
		ActionTimeout: cfg.Engine.ActionTimeout,
	}, m, log)

	// Install the built-in rule set
	for _, rule := range seeds.Default() {
		if err := eng.SetRule(rule); err != nil {
			return fmt.Errorf("failed to install seed rule %s: %w", rule.ID, err)
		}
	}

	engineCtx, cancelEngine := context.WithCancel(context.Background())
	defer cancelEngine()
	eng.Start(engineCtx)

	// Initialize and start the sweep worker
	sweeper, err := workers.NewSweepWorker(records, eng, log, m, cfg.Engine.SweepSchedule, cfg.Engine.DeadlineWindow)
	if err != nil {
		return fmt.Errorf("failed to initialize sweep worker: %w", err)
	}
	sweeper.Start(engineCtx)

	// Initialize handlers
	h := handlers.NewHandlers(
		log,
		eng,
		validator.New(),
		&handlers.HealthCheckers{
			DB:    db,
			Redis: redis,
		},
		cfg.App.Version,
	)

	// Initialize router
	limiter := customMiddleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst, log)
	go limiter.Cleanup(engineCtx, 10*time.Minute)

	router := rest.NewRouter(log, h, m, limiter)
	router.SetupRoutes()

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("API server listening", logger.String("address", addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", logger.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Stop accepting new requests first
		if err := server.Shutdown(ctx); err != nil {
			server.Close()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}

		// Stop background workers, then let queued executions drain
		sweeper.Stop()
		cancelEngine()
		if err := eng.Drain(ctx); err != nil {
			log.Warn("Engine drain timed out", logger.Err(err))
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
