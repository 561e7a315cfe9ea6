package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

var sqliteQueries = queries{
	insert:      `INSERT INTO expenses (description, amount, category, date) VALUES (?, ?, ?, ?) RETURNING id`,
	listDisplay: `SELECT id, description, amount, category, date FROM expenses ORDER BY date DESC, id DESC`,
	listExport:  `SELECT id, description, amount, category, date FROM expenses ORDER BY date ASC, id ASC`,
	update:      `UPDATE expenses SET description = ?, amount = ?, category = ?, date = ? WHERE id = ?`,
	delete:      `DELETE FROM expenses WHERE id = ?`,
}

// NewSQLiteRepository opens (creating if needed) the SQLite file at dbPath
// and applies pending migrations.
func NewSQLiteRepository(dbPath string) (*SQLRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	// Concurrent writers wait for the file lock instead of failing with SQLITE_BUSY.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLRepository{db: db, q: sqliteQueries, backend: "sqlite"}, nil
}
