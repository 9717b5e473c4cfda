package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/aether-community/aetherbot/internal/database"
)

func newTestStore(t *testing.T) database.Store {
	t.Helper()

	db, err := database.NewDB(":memory:")
	if err != nil {
		t.Fatalf("NewDB() error = %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	return database.NewStore(db, nil)
}

func TestMarkProcessed(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	fresh, err := store.MarkProcessed(ctx, 100)
	if err != nil {
		t.Fatalf("MarkProcessed() error = %v", err)
	}
	if !fresh {
		t.Error("first MarkProcessed() = false, expected true")
	}

	fresh, err = store.MarkProcessed(ctx, 100)
	if err != nil {
		t.Fatalf("MarkProcessed() duplicate error = %v", err)
	}
	if fresh {
		t.Error("duplicate MarkProcessed() = true, expected false")
	}

	fresh, err = store.MarkProcessed(ctx, 101)
	if err != nil {
		t.Fatalf("MarkProcessed() error = %v", err)
	}
	if !fresh {
		t.Error("distinct update ID reported as duplicate")
	}
}

func TestPurgeProcessedBefore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for id := int64(1); id <= 3; id++ {
		if _, err := store.MarkProcessed(ctx, id); err != nil {
			t.Fatalf("MarkProcessed(%d) error = %v", id, err)
		}
	}

	count, err := store.PurgeProcessedBefore(ctx, time.Now().UTC().Add(time.Minute))
	if err != nil {
		t.Fatalf("PurgeProcessedBefore() error = %v", err)
	}
	if count != 3 {
		t.Errorf("PurgeProcessedBefore() = %d, expected 3", count)
	}

	// After purging, the same IDs count as fresh again.
	fresh, err := store.MarkProcessed(ctx, 1)
	if err != nil {
		t.Fatalf("MarkProcessed() after purge error = %v", err)
	}
	if !fresh {
		t.Error("MarkProcessed() after purge = false, expected true")
	}
}

func TestRunMaintenance(t *testing.T) {
	store := newTestStore(t)

	if err := store.RunMaintenance(context.Background()); err != nil {
		t.Fatalf("RunMaintenance() error = %v", err)
	}
}
