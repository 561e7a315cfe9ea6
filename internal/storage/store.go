package storage

import (
	"context"

	"tracker/internal/core"
)

// Order selects one of the fixed listing orders.
type Order int

const (
	// OrderDisplay sorts by date descending, then id descending.
	OrderDisplay Order = iota
	// OrderExport sorts by date ascending, then id ascending.
	OrderExport
)

func (o Order) String() string {
	if o == OrderExport {
		return "export"
	}
	return "display"
}

// Store is the durable collection of expenses. Update and Delete return the
// number of records changed, 0 when no record has the id.
type Store interface {
	Create(ctx context.Context, f core.Fields) (core.Expense, error)
	List(ctx context.Context, order Order) ([]core.Expense, error)
	Update(ctx context.Context, id int64, f core.Fields) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}
