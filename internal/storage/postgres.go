package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Dates are compared byte-wise so ordering does not depend on the server locale.
var postgresQueries = queries{
	insert:      `INSERT INTO expenses (description, amount, category, date) VALUES ($1, $2, $3, $4) RETURNING id`,
	listDisplay: `SELECT id, description, amount, category, date FROM expenses ORDER BY date COLLATE "C" DESC, id DESC`,
	listExport:  `SELECT id, description, amount, category, date FROM expenses ORDER BY date COLLATE "C" ASC, id ASC`,
	update:      `UPDATE expenses SET description = $1, amount = $2, category = $3, date = $4 WHERE id = $5`,
	delete:      `DELETE FROM expenses WHERE id = $1`,
}

// NewPostgresRepository connects to PostgreSQL through the pgx stdlib driver
// and applies pending migrations.
func NewPostgresRepository(ctx context.Context, dsn string) (*SQLRepository, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunPostgresMigrations(dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLRepository{db: db, q: postgresQueries, backend: "postgres"}, nil
}
