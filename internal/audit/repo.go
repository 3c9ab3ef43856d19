package audit

import "context"

// Repo persists recommendation records.
type Repo interface {
	Create(ctx context.Context, rec Record) error
	ListRecent(ctx context.Context, limit int) ([]Record, error)
}

// NopRepo discards records.
type NopRepo struct{}

// Create does nothing.
func (NopRepo) Create(ctx context.Context, rec Record) error { return nil }

// ListRecent returns no records.
func (NopRepo) ListRecent(ctx context.Context, limit int) ([]Record, error) { return []Record{}, nil }
