// Package cli provides common command initialization utilities: logging,
// .env loading, configuration, and graceful shutdown wiring.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ucvar/internal/config"
	"ucvar/internal/log"
	"ucvar/internal/storage"
)

// SetupLogger initializes structured logging with default settings and
// sets it as the process default.
func SetupLogger() *log.Logger {
	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// InitRunRepository opens the runs database.
// Returns the repository or exits the process on failure.
func InitRunRepository(logger *log.Logger, dbPath string) *storage.RunRepository {
	repo, err := storage.NewRunRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize runs database", log.FieldError, err, "path", dbPath)
		os.Exit(1)
	}
	return repo
}

// GracefulShutdown sets up signal handling. Returns a context cancelled on
// SIGINT/SIGTERM and a channel closed when cleanup has run.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown, "signal", sig.String())

		if cleanup != nil {
			finished := make(chan struct{})
			go func() {
				cleanup()
				close(finished)
			}()
			select {
			case <-finished:
			case <-time.After(timeout):
				logger.Warn("Shutdown timeout reached", log.FieldOperation, log.OpShutdown)
			}
		}

		cancel()
		close(done)
	}()

	return ctx, done
}
