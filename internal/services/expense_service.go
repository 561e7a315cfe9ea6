package services

import (
	"context"
	"errors"
	"fmt"

	"tracker/internal/core"
	"tracker/internal/export"
	applog "tracker/internal/log"
	"tracker/internal/storage"
)

// ExpenseService validates caller input and translates it into store calls.
type ExpenseService struct {
	store    storage.Store
	exporter *export.Formatter
	logger   *applog.StructuredLogger
}

func NewExpenseService(store storage.Store, logger *applog.Logger) *ExpenseService {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &ExpenseService{
		store:    store,
		exporter: export.NewFormatter(store),
		logger:   applog.NewStructuredLogger(logger.WithComponent(applog.ComponentExpense)),
	}
}

// Create stores a new expense and returns it with its assigned id.
func (s *ExpenseService) Create(ctx context.Context, f core.Fields) (core.Expense, error) {
	if err := f.Validate(); err != nil {
		return core.Expense{}, err
	}

	e, err := s.store.Create(ctx, f)
	if err != nil {
		s.logStoreError(ctx, "Failed to create expense", err, applog.OpCreate, applog.NewFields().
			WithExpense(0, f.Description, f.Amount, f.Category, f.Date))
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	s.logger.LogExpense(ctx, applog.OpCreate, e.ID, e.Description, e.Amount, e.Category, e.Date)
	return e, nil
}

// Update replaces every mutable field of the expense with the given id.
func (s *ExpenseService) Update(ctx context.Context, id int64, f core.Fields) (core.Expense, error) {
	if err := f.Validate(); err != nil {
		return core.Expense{}, err
	}

	n, err := s.store.Update(ctx, id, f)
	if err != nil {
		s.logStoreError(ctx, "Failed to update expense", err, applog.OpUpdate, applog.NewFields().
			WithExpense(id, f.Description, f.Amount, f.Category, f.Date))
		return core.Expense{}, fmt.Errorf("update expense %d: %w", id, err)
	}
	if n == 0 {
		return core.Expense{}, core.ErrNotFound
	}

	s.logger.LogExpense(ctx, applog.OpUpdate, id, f.Description, f.Amount, f.Category, f.Date)
	return f.WithID(id), nil
}

// Delete removes the expense and returns its id.
func (s *ExpenseService) Delete(ctx context.Context, id int64) (int64, error) {
	n, err := s.store.Delete(ctx, id)
	if err != nil {
		s.logStoreError(ctx, "Failed to delete expense", err, applog.OpDelete, applog.NewFields().WithExpenseID(id))
		return 0, fmt.Errorf("delete expense %d: %w", id, err)
	}
	if n == 0 {
		return 0, core.ErrNotFound
	}

	s.logger.LogExpenseDeleted(ctx, id)
	return id, nil
}

// List returns every expense, newest date first.
func (s *ExpenseService) List(ctx context.Context) ([]core.Expense, error) {
	expenses, err := s.store.List(ctx, storage.OrderDisplay)
	if err != nil {
		s.logStoreError(ctx, "Failed to list expenses", err, applog.OpList, nil)
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

// Summary aggregates every expense by category.
func (s *ExpenseService) Summary(ctx context.Context) (core.Breakdown, error) {
	expenses, err := s.store.List(ctx, storage.OrderDisplay)
	if err != nil {
		s.logStoreError(ctx, "Failed to summarize expenses", err, applog.OpSummary, nil)
		return core.Breakdown{}, fmt.Errorf("summarize expenses: %w", err)
	}
	return core.Summarize(expenses), nil
}

// Export renders all expenses as CSV.
func (s *ExpenseService) Export(ctx context.Context) ([]byte, error) {
	out, err := s.exporter.Export(ctx)
	if err != nil {
		s.logStoreError(ctx, "Failed to export expenses", err, applog.OpExport, nil)
		return nil, err
	}
	return out, nil
}

// Ready reports whether the store is reachable.
func (s *ExpenseService) Ready(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Close releases the store.
func (s *ExpenseService) Close() error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}

func (s *ExpenseService) logStoreError(ctx context.Context, msg string, err error, op string, fields applog.LogFields) {
	errorType := applog.ErrorTypeInternal
	var storeErr *core.StoreError
	if errors.As(err, &storeErr) {
		errorType = applog.ErrorTypeDatabase
	}
	s.logger.LogError(ctx, msg, err, errorType, op, fields)
}
