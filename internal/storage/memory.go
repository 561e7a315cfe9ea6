package storage

import (
	"context"
	"sort"
	"sync"

	"tracker/internal/core"
)

// MemoryStore keeps expenses in process memory. Ids come from a counter that
// only grows, so a deleted id is never handed out again.
type MemoryStore struct {
	mu     sync.Mutex
	lastID int64
	items  map[int64]core.Expense
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[int64]core.Expense)}
}

// Create implements Store.
func (s *MemoryStore) Create(_ context.Context, f core.Fields) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID++
	e := f.WithID(s.lastID)
	s.items[e.ID] = e
	return e, nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context, order Order) ([]core.Expense, error) {
	s.mu.Lock()
	out := make([]core.Expense, 0, len(s.items))
	for _, e := range s.items {
		out = append(out, e)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if order == OrderExport {
			if a.Date != b.Date {
				return a.Date < b.Date
			}
			return a.ID < b.ID
		}
		if a.Date != b.Date {
			return a.Date > b.Date
		}
		return a.ID > b.ID
	})
	return out, nil
}

// Update implements Store.
func (s *MemoryStore) Update(_ context.Context, id int64, f core.Fields) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return 0, nil
	}
	s.items[id] = f.WithID(id)
	return 1, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return 0, nil
	}
	delete(s.items, id)
	return 1, nil
}

// Ping implements Store.
func (s *MemoryStore) Ping(context.Context) error { return nil }

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }
