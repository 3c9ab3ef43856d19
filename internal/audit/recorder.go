package audit

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"dota-coach-backend/internal/shared/telemetry"
)

const recordTimeout = 2 * time.Second

// Recorder stamps records and stores them. Storage failures are logged, never returned,
// so auditing cannot fail a request.
type Recorder struct {
	Repo Repo
	now  func() time.Time
}

// NewRecorder constructs a Recorder; a nil repo discards records.
func NewRecorder(repo Repo) *Recorder {
	if repo == nil {
		repo = NopRepo{}
	}
	return &Recorder{Repo: repo, now: time.Now}
}

// Record assigns an ID and timestamp when missing and stores rec.
// The write outlives caller cancellation but is bounded by a short timeout.
func (r *Recorder) Record(ctx context.Context, rec Record) {
	if r == nil || r.Repo == nil {
		return
	}
	if strings.TrimSpace(rec.ID) == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		now := time.Now
		if r.now != nil {
			now = r.now
		}
		rec.CreatedAt = now().UTC()
	}
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	if err := r.Repo.Create(writeCtx, rec); err != nil {
		telemetry.Warn("audit.record_failed", map[string]any{
			"request_id": rec.RequestID,
			"outcome":    rec.Outcome,
			"error":      err.Error(),
		})
	}
}
