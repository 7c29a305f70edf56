package storage

import (
	"context"
	"testing"
)

func TestMemoryInsertIdempotent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if result, err := store.Insert(ctx, testEvent("cc33", 0)); err != nil || result != Inserted {
		t.Fatalf("first insert = %v, %v", result, err)
	}
	if result, err := store.Insert(ctx, testEvent("cc33", 0)); err != nil || result != AlreadyExists {
		t.Fatalf("duplicate insert = %v, %v", result, err)
	}

	if got := len(store.Events()); got != 1 {
		t.Fatalf("stored %d events, want 1", got)
	}
}

func TestMemoryCheckpointMonotonic(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.SetCheckpoint(ctx, 20); err != nil {
		t.Fatalf("set checkpoint: %v", err)
	}
	if err := store.SetCheckpoint(ctx, 5); err != nil {
		t.Fatalf("regressing set: %v", err)
	}

	checkpoint, ok, _ := store.Checkpoint(ctx)
	if !ok || checkpoint != 20 {
		t.Fatalf("checkpoint = %d, want 20", checkpoint)
	}
}
