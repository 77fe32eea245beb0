package tonecycle

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Store persists tracker state per session
type Store interface {
	// Load returns the stored state; found is false when the session has none
	Load(ctx context.Context, sessionID string) (state State, found bool, err error)
	Save(ctx context.Context, sessionID string, state State) error
	Delete(ctx context.Context, sessionID string) error
}

// MemoryStore keeps state in process memory
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]State
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]State)}
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (State, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[sessionID]
	return st, ok, nil
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[sessionID] = state
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, sessionID)
	return nil
}

// FileStore keeps every session's state in one JSON file. It is meant for the
// CLI, where successive invocations are separate processes.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store backed by path; the file is created on first save
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(_ context.Context, sessionID string) (State, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	states, err := s.read()
	if err != nil {
		return State{}, false, &StoreError{Op: "load", SessionID: sessionID, Message: "failed to read state file", Cause: err}
	}
	st, ok := states[sessionID]
	return st, ok, nil
}

func (s *FileStore) Save(_ context.Context, sessionID string, state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	states, err := s.read()
	if err != nil {
		return &StoreError{Op: "save", SessionID: sessionID, Message: "failed to read state file", Cause: err}
	}
	states[sessionID] = state
	if err := s.write(states); err != nil {
		return &StoreError{Op: "save", SessionID: sessionID, Message: "failed to write state file", Cause: err}
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	states, err := s.read()
	if err != nil {
		return &StoreError{Op: "delete", SessionID: sessionID, Message: "failed to read state file", Cause: err}
	}
	if _, ok := states[sessionID]; !ok {
		return nil
	}
	delete(states, sessionID)
	if err := s.write(states); err != nil {
		return &StoreError{Op: "delete", SessionID: sessionID, Message: "failed to write state file", Cause: err}
	}
	return nil
}

func (s *FileStore) read() (map[string]State, error) {
	states := make(map[string]State)
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return states, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return states, nil
	}
	if err := json.Unmarshal(data, &states); err != nil {
		return nil, err
	}
	return states, nil
}

// write replaces the file atomically via a temp file in the same directory
func (s *FileStore) write(states map[string]State) error {
	data, err := json.MarshalIndent(states, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tonecycle-state-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
