package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"emi-genie/internal/api"
	"emi-genie/internal/batch"
	"emi-genie/internal/config"
	"emi-genie/internal/domain/dispatch"
	"emi-genie/internal/domain/registry"
	"emi-genie/internal/domain/report"
	"emi-genie/internal/event"
	"emi-genie/internal/infrastructure/database/postgres"
	"emi-genie/internal/infrastructure/logging"
	"emi-genie/internal/message"
	"emi-genie/internal/notify"
)

func main() {
	cfg, logger := initializeApp()

	dbPool := initializeDatabase(cfg, logger)
	defer closeDatabase(dbPool, logger)

	rabbitConn := setupRabbitMQ(cfg, logger)

	registryService, dispatchService, reportService := initializeServices(cfg, dbPool, rabbitConn, logger)

	sweepJob := batch.NewReminderSweepJob(dispatchService, logger)
	cronScheduler := startBatchJobs(cfg, logger, sweepJob)

	router := api.SetupRouter(registryService, dispatchService, reportService, cfg, logger)

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	handleShutdown(srv, cronScheduler, rabbitConn, shutdownChan, serverErrors, logger)
}

func initializeApp() (*config.Config, *slog.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Logger)
	logger.Info("Application starting...", "config_source", viper.ConfigFileUsed())

	return cfg, logger
}

func initializeDatabase(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	logger.Info("Initializing database connection pool...")
	dbPool, err := postgres.NewConnectionPool(context.Background(), cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize database connection pool", "error", err)
		os.Exit(1)
	}

	if err := postgres.EnsureSchema(context.Background(), dbPool, logger); err != nil {
		logger.Error("Failed to ensure database schema", "error", err)
		dbPool.Close()
		os.Exit(1)
	}
	return dbPool
}

func closeDatabase(dbPool *pgxpool.Pool, logger *slog.Logger) {
	logger.Info("Closing database connection pool...")
	dbPool.Close()
}

// setupRabbitMQ returns nil when the broker is disabled; lifecycle fan-out is
// optional and the service runs fine without it.
func setupRabbitMQ(cfg *config.Config, logger *slog.Logger) *amqp.Connection {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("RabbitMQ disabled, lifecycle events will not be published.")
		return nil
	}

	uri := fmt.Sprintf("amqp://%s:%s@%s:%d/",
		cfg.RabbitMQ.Username,
		cfg.RabbitMQ.Password,
		cfg.RabbitMQ.Host,
		cfg.RabbitMQ.Port,
	)
	conn, err := amqp.Dial(uri)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("RabbitMQ connection established.")

	go func() {
		errChan := conn.NotifyClose(make(chan *amqp.Error))
		closeErr := <-errChan
		logger.Error("RabbitMQ connection closed unexpectedly", slog.Any("error", closeErr))
	}()

	return conn
}

func initializeServices(cfg *config.Config, dbPool *pgxpool.Pool, rabbitConn *amqp.Connection, logger *slog.Logger) (registry.Service, dispatch.Service, report.Service) {
	logger.Info("Initializing application components...")

	repo := postgres.NewRegistryRepository(dbPool, logger)

	var publisher event.Publisher = event.NoopPublisher{}
	if rabbitConn != nil {
		rabbitPublisher, err := event.NewRabbitMQPublisher(rabbitConn, cfg.RabbitMQ.ExchangeName, logger)
		if err != nil {
			logger.Error("Failed to create RabbitMQ publisher", slog.Any("error", err))
			os.Exit(1)
		}
		publisher = rabbitPublisher
	}

	resolver, err := message.NewResolver(message.DefaultCatalog)
	if err != nil {
		logger.Error("Failed to load message catalog", slog.Any("error", err))
		os.Exit(1)
	}

	channel := notify.NewChannel(cfg.Twilio, logger)

	registryService := registry.NewService(repo, publisher, cfg.Dispatch.RescheduleExtensionDays, logger)
	dispatchService := dispatch.NewService(registryService, resolver, channel, cfg.Dispatch.PreDueLookaheadDays, logger)
	reportService := report.NewService(repo, logger)

	return registryService, dispatchService, reportService
}

// startBatchJobs wires the reminder sweep onto the cron scheduler. An empty
// schedule leaves the dashboard endpoints as the only trigger.
func startBatchJobs(cfg *config.Config, logger *slog.Logger, job *batch.ReminderSweepJob) *cron.Cron {
	cronScheduler := cron.New()
	if cfg.Dispatch.SweepSchedule == "" {
		logger.Info("Reminder sweep schedule not configured, automated sweeps disabled.")
		return cronScheduler
	}

	_, err := cronScheduler.AddFunc(cfg.Dispatch.SweepSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Dispatch.SweepTimeout)
		defer cancel()
		if err := job.Run(ctx); err != nil {
			logger.Error("Scheduled reminder sweep failed", slog.Any("error", err))
		}
	})
	if err != nil {
		logger.Error("Failed to schedule reminder sweep", "schedule", cfg.Dispatch.SweepSchedule, "error", err)
		os.Exit(1)
	}

	cronScheduler.Start()
	logger.Info("Reminder sweep scheduled.", "schedule", cfg.Dispatch.SweepSchedule)
	return cronScheduler
}

func startServer(cfg *config.Config, router http.Handler, logger *slog.Logger) (*http.Server, <-chan error, <-chan os.Signal) {
	logger.Info("Setting up HTTP server...", "port", cfg.Server.Port)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server listening on port %d", cfg.Server.Port))
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			serverErrors <- err
		} else {
			logger.Info("Server closed gracefully.")
			serverErrors <- nil
		}
	}()
	return srv, serverErrors, shutdownChan
}

func handleShutdown(srv *http.Server, cronScheduler *cron.Cron, rabbitConn *amqp.Connection,
	shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) {
	logger.Info("Shutdown handler started. Waiting for signal or server error...")

	triggerReason := waitForShutdownTrigger(shutdownChan, serverErrors, logger)

	logger.Info("Starting graceful shutdown...", "trigger", triggerReason)

	stopCronScheduler(cronScheduler, logger)
	closeRabbitMQConnection(rabbitConn, logger)
	shutdownHTTPServer(srv, logger)

	logger.Info("Application shutdown process complete.")
}

func waitForShutdownTrigger(shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) string {
	select {
	case sig := <-shutdownChan:
		logger.Info("Shutdown signal received.", "signal", sig.String())
		return "signal: " + sig.String()
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server exited unexpectedly before signal", "error", err)
			os.Exit(1)
		}
		logger.Info("Server goroutine finished before signal.", "error", err)
		return "server exited"
	}
}

func stopCronScheduler(cronScheduler *cron.Cron, logger *slog.Logger) {
	logger.Info("Stopping cron scheduler...")
	cronCtx := cronScheduler.Stop()
	select {
	case <-cronCtx.Done():
		logger.Info("Cron scheduler stopped gracefully.")
	case <-time.After(15 * time.Second):
		logger.Warn("Cron scheduler shutdown timed out.")
	}
}

func closeRabbitMQConnection(rabbitConn *amqp.Connection, logger *slog.Logger) {
	if rabbitConn == nil {
		logger.Info("RabbitMQ connection was not established, skipping close.")
		return
	}
	if rabbitConn.IsClosed() {
		logger.Info("RabbitMQ connection already closed, skipping close.")
		return
	}
	logger.Info("Closing RabbitMQ connection...")
	if err := rabbitConn.Close(); err != nil {
		logger.Error("Failed to close RabbitMQ connection gracefully", slog.Any("error", err))
	} else {
		logger.Info("RabbitMQ connection closed.")
	}
}

func shutdownHTTPServer(srv *http.Server, logger *slog.Logger) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server graceful shutdown failed", "error", err)
		}
		if err := srv.Close(); err != nil {
			logger.Error("HTTP server forced close failed", "error", err)
		}
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}
}
