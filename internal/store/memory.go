package store

import (
	"context"
	"sync"
)

// MemoryKV keeps app state in process memory. It backs tests and DB-less
// development runs; contents vanish with the process.
type MemoryKV struct {
	mu    sync.RWMutex
	state map[int]map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{state: make(map[int]map[string][]byte)}
}

func (s *MemoryKV) Get(_ context.Context, userID int, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.state[userID][key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (s *MemoryKV) Set(_ context.Context, userID int, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state[userID] == nil {
		s.state[userID] = make(map[string][]byte)
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	s.state[userID][key] = stored
	return nil
}

func (s *MemoryKV) DeleteAll(_ context.Context, userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.state, userID)
	return nil
}
