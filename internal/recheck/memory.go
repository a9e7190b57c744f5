package recheck

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is a mutex-guarded in-process request queue.
type Memory struct {
	mu       sync.Mutex
	requests []Request

	// Now is the clock; overridable in tests.
	Now func() time.Time
}

// NewMemory creates an empty in-memory queue.
func NewMemory() *Memory {
	return &Memory{Now: func() time.Time { return time.Now().UTC() }}
}

// Submit appends a new pending request.
func (m *Memory) Submit(ctx context.Context, req Request) (Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	req.ID = uuid.NewString()
	req.Status = StatusPending
	req.SubmittedAt = m.Now()
	m.requests = append(m.requests, req)
	return req, nil
}

// List returns requests most-recently-submitted first.
func (m *Memory) List(ctx context.Context) ([]Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make([]Request, 0, len(m.requests))
	for i := len(m.requests) - 1; i >= 0; i-- {
		res = append(res, m.requests[i])
	}
	return res, nil
}

// SetStatus overwrites the status and reports whether the id existed.
func (m *Memory) SetStatus(ctx context.Context, id, status string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.requests {
		if m.requests[i].ID == id {
			m.requests[i].Status = status
			return true, nil
		}
	}
	return false, nil
}

var _ Store = (*Memory)(nil)
