package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"transferwatch/internal/model"
)

// JsonlStore appends events to a JSONL file and keeps the checkpoint in a
// small JSON sidecar replaced atomically on every write. The dedup index is
// rebuilt from the events file on open, which makes re-inserts after a
// crash-resume no-ops.
type JsonlStore struct {
	eventsPath     string
	checkpointPath string

	mu         sync.Mutex
	seen       map[string]struct{}
	checkpoint uint64
	hasCP      bool
}

type checkpointRecord struct {
	LastProcessedBlock uint64 `json:"last_processed_block"`
	UpdatedAt          string `json:"updated_at"`
}

func NewJsonlStore(eventsPath, checkpointPath string) (*JsonlStore, error) {
	if eventsPath == "" {
		return nil, fmt.Errorf("events path is required")
	}
	if checkpointPath == "" {
		return nil, fmt.Errorf("checkpoint path is required")
	}

	s := &JsonlStore{
		eventsPath:     eventsPath,
		checkpointPath: checkpointPath,
		seen:           make(map[string]struct{}),
	}
	if err := s.loadSeen(); err != nil {
		return nil, err
	}
	if err := s.loadCheckpoint(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *JsonlStore) loadSeen() error {
	file, err := os.Open(s.eventsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open events file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event model.Event
		if err := json.Unmarshal(line, &event); err != nil {
			return fmt.Errorf("parse events file: %w", err)
		}
		s.seen[event.Key()] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read events file: %w", err)
	}
	return nil
}

func (s *JsonlStore) loadCheckpoint() error {
	data, err := os.ReadFile(s.checkpointPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read checkpoint: %w", err)
	}

	var record checkpointRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return fmt.Errorf("parse checkpoint: %w", err)
	}
	s.checkpoint = record.LastProcessedBlock
	s.hasCP = true
	return nil
}

func (s *JsonlStore) Insert(_ context.Context, event model.Event) (InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := event.Key()
	if _, ok := s.seen[key]; ok {
		return AlreadyExists, nil
	}

	dir := filepath.Dir(s.eventsPath)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Inserted, fmt.Errorf("create events dir: %w", err)
		}
	}

	file, err := os.OpenFile(s.eventsPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return Inserted, fmt.Errorf("open events file: %w", err)
	}
	defer file.Close()

	line, err := json.Marshal(event)
	if err != nil {
		return Inserted, fmt.Errorf("marshal event: %w", err)
	}

	writer := bufio.NewWriter(file)
	if _, err := writer.Write(line); err != nil {
		return Inserted, fmt.Errorf("write event: %w", err)
	}
	if err := writer.WriteByte('\n'); err != nil {
		return Inserted, fmt.Errorf("write newline: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return Inserted, fmt.Errorf("flush events file: %w", err)
	}

	s.seen[key] = struct{}{}
	return Inserted, nil
}

func (s *JsonlStore) Checkpoint(context.Context) (uint64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkpoint, s.hasCP, nil
}

func (s *JsonlStore) SetCheckpoint(_ context.Context, blockNum uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasCP && blockNum < s.checkpoint {
		return nil
	}

	dir := filepath.Dir(s.checkpointPath)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create checkpoint dir: %w", err)
		}
	}

	record := checkpointRecord{
		LastProcessedBlock: blockNum,
		UpdatedAt:          time.Now().UTC().Format(time.RFC3339Nano),
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	tmpPath := s.checkpointPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write checkpoint tmp: %w", err)
	}
	if err := os.Rename(tmpPath, s.checkpointPath); err != nil {
		return fmt.Errorf("rename checkpoint: %w", err)
	}

	s.checkpoint = blockNum
	s.hasCP = true
	return nil
}

func (s *JsonlStore) Close() error {
	return nil
}
