package audit

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryRepoRingEvictsOldest(t *testing.T) {
	repo := NewMemoryRepo(3)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c", "d"} {
		if err := repo.Create(ctx, Record{ID: id}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	got, err := repo.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(got) != 3 || got[0].ID != "d" || got[1].ID != "c" || got[2].ID != "b" {
		t.Fatalf("unexpected ring contents %+v", got)
	}
	limited, _ := repo.ListRecent(ctx, 1)
	if len(limited) != 1 || limited[0].ID != "d" {
		t.Fatalf("unexpected limited contents %+v", limited)
	}
}

func TestMemoryRepoEmpty(t *testing.T) {
	got, err := NewMemoryRepo(0).ListRecent(context.Background(), 5)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty list, got %v %v", got, err)
	}
}

type failingRepo struct{ NopRepo }

func (failingRepo) Create(ctx context.Context, rec Record) error { return errors.New("db down") }

func TestRecorderStampsAndSwallowsErrors(t *testing.T) {
	repo := NewMemoryRepo(5)
	rec := NewRecorder(repo)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec.Record(ctx, Record{Outcome: "accepted"})

	got, _ := repo.ListRecent(context.Background(), 1)
	if len(got) != 1 {
		t.Fatalf("expected record to be stored despite canceled caller context")
	}
	if got[0].ID == "" || got[0].CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp, got %+v", got[0])
	}

	NewRecorder(failingRepo{}).Record(context.Background(), Record{Outcome: "failed"})
	var nilRecorder *Recorder
	nilRecorder.Record(context.Background(), Record{})
}
