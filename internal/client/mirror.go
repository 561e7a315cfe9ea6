package client

import (
	"context"
	"sync"

	"tracker/internal/core"
	applog "tracker/internal/log"
)

// API is the part of the REST client the mirror drives.
type API interface {
	List(ctx context.Context) ([]core.Expense, error)
	Create(ctx context.Context, f core.Fields) (core.Expense, error)
	Update(ctx context.Context, id int64, f core.Fields) (core.Expense, error)
	Delete(ctx context.Context, id int64) error
}

// Mirror keeps the last full list the server returned. Every successful
// mutation is followed by a full re-fetch; the snapshot is never patched
// locally, and a failed call leaves it as it was.
type Mirror struct {
	api    API
	logger *applog.Logger

	mu       sync.RWMutex
	expenses []core.Expense
}

func NewMirror(api API, logger *applog.Logger) *Mirror {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Mirror{
		api:      api,
		logger:   logger.WithComponent(applog.ComponentClient),
		expenses: []core.Expense{},
	}
}

// Refresh replaces the snapshot with the server's current list.
func (m *Mirror) Refresh(ctx context.Context) error {
	list, err := m.api.List(ctx)
	if err != nil {
		m.fail(ctx, "Error fetching expenses", err, applog.OpRefresh)
		return err
	}

	m.mu.Lock()
	m.expenses = list
	m.mu.Unlock()
	m.logger.DebugContext(ctx, "Expenses refreshed", applog.FieldCount, len(list))
	return nil
}

// Add creates an expense and re-synchronizes.
func (m *Mirror) Add(ctx context.Context, f core.Fields) error {
	if _, err := m.api.Create(ctx, f); err != nil {
		m.fail(ctx, "Error adding expense", err, applog.OpCreate)
		return err
	}
	return m.Refresh(ctx)
}

// Edit replaces the fields of an expense and re-synchronizes.
func (m *Mirror) Edit(ctx context.Context, id int64, f core.Fields) error {
	if _, err := m.api.Update(ctx, id, f); err != nil {
		m.fail(ctx, "Error updating expense", err, applog.OpUpdate)
		return err
	}
	return m.Refresh(ctx)
}

// Remove deletes an expense and re-synchronizes.
func (m *Mirror) Remove(ctx context.Context, id int64) error {
	if err := m.api.Delete(ctx, id); err != nil {
		m.fail(ctx, "Error deleting expense", err, applog.OpDelete)
		return err
	}
	return m.Refresh(ctx)
}

// Snapshot returns a copy of the last fetched list, in display order.
func (m *Mirror) Snapshot() []core.Expense {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]core.Expense, len(m.expenses))
	copy(out, m.expenses)
	return out
}

// Breakdown returns per-category totals of the snapshot for the chart.
func (m *Mirror) Breakdown() core.Breakdown {
	return core.Summarize(m.Snapshot())
}

func (m *Mirror) fail(ctx context.Context, msg string, err error, op string) {
	m.logger.ErrorContext(ctx, msg, applog.FieldError, err, applog.FieldOperation, op)
}
