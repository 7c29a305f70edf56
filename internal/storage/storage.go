// Package storage persists enriched transfer events and the monitor
// checkpoint. Inserts are idempotent on (transaction_id, op_in_tx) so the
// same block can be replayed after a crash without duplicating records.
package storage

import (
	"context"
	"fmt"

	"transferwatch/internal/model"
)

// InsertResult reports the outcome of an idempotent insert. A duplicate key
// is an expected, frequent path on crash-resume, so it is a result value
// rather than an error.
type InsertResult int

const (
	Inserted InsertResult = iota
	AlreadyExists
)

// Store is the persistence sink plus the checkpoint accessor.
type Store interface {
	// Insert persists one event, returning AlreadyExists when an event
	// with the same (transaction_id, op_in_tx) key is already stored.
	Insert(ctx context.Context, event model.Event) (InsertResult, error)
	// Checkpoint returns the last fully-processed block number, or false
	// when no checkpoint has been written yet.
	Checkpoint(ctx context.Context) (uint64, bool, error)
	// SetCheckpoint records the last fully-processed block number. The
	// checkpoint never regresses; smaller values are ignored.
	SetCheckpoint(ctx context.Context, blockNum uint64) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend        string
	PostgresDSN    string
	EventsPath     string
	CheckpointPath string
}

// New constructs the configured backend behind the Store interface.
func New(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "postgres":
		return NewPostgresStore(ctx, opts.PostgresDSN)
	case "jsonl", "":
		return NewJsonlStore(opts.EventsPath, opts.CheckpointPath)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
