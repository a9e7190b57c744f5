package otp

import (
	"context"
	"sync"
	"time"
)

// Memory keeps admin identities and their challenges in process.
type Memory struct {
	mu         sync.Mutex
	admins     map[string]bool
	challenges map[string]Challenge
}

// NewMemory creates an in-memory store with the given admin identities.
func NewMemory(adminEmails ...string) *Memory {
	m := &Memory{
		admins:     make(map[string]bool),
		challenges: make(map[string]Challenge),
	}
	for _, email := range adminEmails {
		m.admins[email] = true
	}
	return m
}

// AddAdmin registers an admin identity.
func (m *Memory) AddAdmin(email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.admins[email] = true
}

// AdminExists reports whether the identity is registered.
func (m *Memory) AdminExists(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.admins[email], nil
}

// SaveChallenge overwrites the identity's challenge.
func (m *Memory) SaveChallenge(ctx context.Context, email, code string, expiry time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.admins[email] {
		return ErrUnknownAdmin
	}
	m.challenges[email] = Challenge{Code: code, Expiry: expiry}
	return nil
}

// GetChallenge returns the stored challenge, (nil, nil) when absent.
func (m *Memory) GetChallenge(ctx context.Context, email string) (*Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, ok := m.challenges[email]
	if !ok {
		return nil, nil
	}
	return &ch, nil
}

var _ Store = (*Memory)(nil)
