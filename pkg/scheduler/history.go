package scheduler

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/umputun/newscast/pkg/domain"
)

// MemoryHistory keeps the last deliveries in memory, used when no journal database is configured
type MemoryHistory struct {
	mu     sync.Mutex
	limit  int
	nextID int64
	items  []domain.Delivery
}

// NewMemoryHistory makes a history holding up to limit records
func NewMemoryHistory(limit int) *MemoryHistory {
	if limit <= 0 {
		limit = 500
	}
	return &MemoryHistory{limit: limit}
}

// Record appends d, dropping the oldest record when full
func (h *MemoryHistory) Record(_ context.Context, d domain.Delivery) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	d.ID = h.nextID
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	h.items = append(h.items, d)
	if over := len(h.items) - h.limit; over > 0 {
		h.items = slices.Delete(h.items, 0, over)
	}
	return nil
}

// Recent returns records made at or after since, newest first. limit <= 0 means no limit.
func (h *MemoryHistory) Recent(_ context.Context, since time.Time, limit int) ([]domain.Delivery, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var res []domain.Delivery
	for i := len(h.items) - 1; i >= 0; i-- {
		if h.items[i].CreatedAt.Before(since) {
			continue
		}
		res = append(res, h.items[i])
		if limit > 0 && len(res) == limit {
			break
		}
	}
	return res, nil
}

// Ping always succeeds, memory has nothing to check
func (h *MemoryHistory) Ping(context.Context) error { return nil }
