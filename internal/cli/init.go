// Package cli provides common initialization utilities shared by the
// tracker binaries.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"tracker/internal/config"
	applog "tracker/internal/log"
	"tracker/internal/storage"
)

// SetupLogger builds the application logger from the configured level and
// format, writing to out, and installs it as the slog default.
func SetupLogger(cfg *config.Config, out io.Writer) *applog.Logger {
	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Format:    cfg.LogFormat,
		Component: applog.ComponentApp,
		Output:    out,
	})
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads .env files for local development. Missing files are
// ignored; variables already set in the environment win.
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// StoreConfig maps application configuration onto store selection.
func StoreConfig(cfg *config.Config) storage.Config {
	return storage.Config{
		Backend:      storage.Backend(cfg.DataBackend),
		SQLiteDBPath: cfg.SQLiteDBPath,
		DatabaseURL:  cfg.DatabaseURL,
	}
}

// OpenStore opens the configured store or exits the process on failure.
func OpenStore(ctx context.Context, logger *applog.Logger, cfg *config.Config) storage.Store {
	store, err := storage.Open(ctx, StoreConfig(cfg), logger.Logger.With(applog.FieldComponent, applog.ComponentStorage))
	if err != nil {
		logger.Error("Failed to initialize store", applog.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	return store
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
