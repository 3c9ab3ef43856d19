package audit

import (
	"context"
	"sync"
)

const defaultMemoryCapacity = 200

// MemoryRepo keeps the most recent records in a bounded ring and is safe for concurrent use.
type MemoryRepo struct {
	mu    sync.RWMutex
	ring  []Record
	next  int
	count int
}

// NewMemoryRepo constructs a MemoryRepo holding at most capacity records.
func NewMemoryRepo(capacity int) *MemoryRepo {
	if capacity <= 0 {
		capacity = defaultMemoryCapacity
	}
	return &MemoryRepo{ring: make([]Record, capacity)}
}

// Create stores rec, evicting the oldest record when full.
func (r *MemoryRepo) Create(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ring[r.next] = rec
	r.next = (r.next + 1) % len(r.ring)
	if r.count < len(r.ring) {
		r.count++
	}
	return nil
}

// ListRecent returns up to limit records, newest first.
func (r *MemoryRepo) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit <= 0 || limit > r.count {
		limit = r.count
	}
	out := make([]Record, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (r.next - i + len(r.ring)) % len(r.ring)
		out = append(out, r.ring[idx])
	}
	return out, nil
}
