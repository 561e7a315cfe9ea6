package storage

import (
	"context"
	"fmt"
	"log/slog"
)

// Backend identifies a Store implementation.
type Backend string

const (
	SQLiteBackend   Backend = "sqlite"
	PostgresBackend Backend = "postgres"
	MemoryBackend   Backend = "memory"
)

// IsValid returns true if the backend type is known.
func (b Backend) IsValid() bool {
	switch b {
	case SQLiteBackend, PostgresBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Config selects and parameterises the store.
type Config struct {
	Backend      Backend
	SQLiteDBPath string
	DatabaseURL  string
}

// Open builds the store named by cfg.Backend.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Backend {
	case SQLiteBackend:
		repo, err := NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		logger.Info("Initialized SQLite store", "db_path", cfg.SQLiteDBPath)
		return repo, nil
	case PostgresBackend:
		repo, err := NewPostgresRepository(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("initialize postgres store: %w", err)
		}
		logger.Info("Initialized PostgreSQL store")
		return repo, nil
	case MemoryBackend:
		logger.Warn("Initialized memory store, records are lost on exit")
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Backend)
	}
}
