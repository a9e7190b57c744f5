package session

import (
	"context"
	"sync"
)

// MemoryStore keeps the flag in process; it does not survive restarts.
type MemoryStore struct {
	mu     sync.Mutex
	active bool
}

// NewMemoryStore creates an in-memory gate, initially logged out.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Activate sets the flag.
func (s *MemoryStore) Activate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = true
	return nil
}

// Clear resets the flag.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
	return nil
}

// Active reads the flag.
func (s *MemoryStore) Active(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active, nil
}

var _ Store = (*MemoryStore)(nil)
