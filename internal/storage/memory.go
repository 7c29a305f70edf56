package storage

import (
	"context"
	"sync"

	"transferwatch/internal/model"
)

// MemoryStore keeps events in memory. Used by tests and dry runs.
type MemoryStore struct {
	mu         sync.Mutex
	events     map[string]model.Event
	order      []string
	checkpoint uint64
	hasCP      bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{events: make(map[string]model.Event)}
}

func (s *MemoryStore) Insert(_ context.Context, event model.Event) (InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := event.Key()
	if _, ok := s.events[key]; ok {
		return AlreadyExists, nil
	}
	s.events[key] = event
	s.order = append(s.order, key)
	return Inserted, nil
}

func (s *MemoryStore) Checkpoint(context.Context) (uint64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkpoint, s.hasCP, nil
}

func (s *MemoryStore) SetCheckpoint(_ context.Context, blockNum uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasCP && blockNum < s.checkpoint {
		return nil
	}
	s.checkpoint = blockNum
	s.hasCP = true
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// Events returns stored events in insertion order.
func (s *MemoryStore) Events() []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Event, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.events[key])
	}
	return out
}
