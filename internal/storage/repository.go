package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"tracker/internal/core"
)

// queries holds the dialect-specific statements of a SQL backend.
type queries struct {
	insert      string
	listDisplay string
	listExport  string
	update      string
	delete      string
}

// SQLRepository is a Store backed by a database/sql handle. The handle is
// opened once at startup and shared by all requests.
type SQLRepository struct {
	db      *sql.DB
	q       queries
	backend string
}

// Create implements Store.
func (r *SQLRepository) Create(ctx context.Context, f core.Fields) (core.Expense, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, r.q.insert, f.Description, f.Amount, f.Category, f.Date).Scan(&id)
	if err != nil {
		return core.Expense{}, &core.StoreError{Op: "insert expense", Err: err}
	}

	slog.DebugContext(ctx, "Expense inserted",
		"backend", r.backend,
		"id", id,
		"expense_description", f.Description,
		"category", f.Category,
		"date", f.Date)

	return f.WithID(id), nil
}

// List implements Store.
func (r *SQLRepository) List(ctx context.Context, order Order) ([]core.Expense, error) {
	query := r.q.listDisplay
	if order == OrderExport {
		query = r.q.listExport
	}

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, &core.StoreError{Op: "list expenses", Err: err}
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		var e core.Expense
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount, &e.Category, &e.Date); err != nil {
			return nil, &core.StoreError{Op: "scan expense", Err: err}
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &core.StoreError{Op: "list expenses", Err: err}
	}
	return expenses, nil
}

// Update implements Store.
func (r *SQLRepository) Update(ctx context.Context, id int64, f core.Fields) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.q.update, f.Description, f.Amount, f.Category, f.Date, id)
	if err != nil {
		return 0, &core.StoreError{Op: "update expense", Err: err}
	}
	return changed(res, "update expense")
}

// Delete implements Store.
func (r *SQLRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.q.delete, id)
	if err != nil {
		return 0, &core.StoreError{Op: "delete expense", Err: err}
	}
	return changed(res, "delete expense")
}

// Ping implements Store.
func (r *SQLRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return &core.StoreError{Op: "ping database", Err: err}
	}
	return nil
}

// Close implements Store.
func (r *SQLRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Backend names the database engine behind the repository.
func (r *SQLRepository) Backend() string {
	return r.backend
}

func changed(res sql.Result, op string) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, &core.StoreError{Op: op, Err: fmt.Errorf("rows affected: %w", err)}
	}
	return n, nil
}
