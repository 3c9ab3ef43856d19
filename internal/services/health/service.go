package health

import (
	"context"
	"time"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service reports liveness plus the state of optional backends.
type Service struct {
	DB           Pinger
	CatalogItems int
	LLMProvider  string
}

// NewService constructs a health service. db may be nil when auditing is not persisted.
func NewService(db Pinger, catalogItems int, provider string) *Service {
	return &Service{DB: db, CatalogItems: catalogItems, LLMProvider: provider}
}

// Status returns the health payload. The process is live whenever it can answer,
// so ok stays true even when the audit database is unreachable.
func (s *Service) Status(ctx context.Context) map[string]any {
	out := map[string]any{"ok": true}
	if s == nil {
		return out
	}
	out["catalog_items"] = s.CatalogItems
	if s.LLMProvider != "" {
		out["llm_provider"] = s.LLMProvider
	}
	if s.DB != nil {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := s.DB.PingContext(pingCtx); err != nil {
			out["database"] = "down"
		} else {
			out["database"] = "up"
		}
	}
	return out
}
