package student

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is a mutex-guarded in-process directory. It mirrors the original
// portal's browser-storage fallback and backs the handler tests.
type Memory struct {
	mu       sync.Mutex
	students []Student

	// Now is the clock; overridable in tests.
	Now func() time.Time
}

// NewMemory creates an empty in-memory directory.
func NewMemory() *Memory {
	return &Memory{Now: func() time.Time { return time.Now().UTC() }}
}

// List returns students most-recently-created first.
func (m *Memory) List(ctx context.Context) ([]Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make([]Student, 0, len(m.students))
	for i := len(m.students) - 1; i >= 0; i-- {
		res = append(res, m.students[i])
	}
	return res, nil
}

// FindByPhone trims the query phone and returns the newest matching record,
// or (nil, nil) on a miss.
func (m *Memory) FindByPhone(ctx context.Context, phone string) (*Student, error) {
	phone = strings.TrimSpace(phone)
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.students) - 1; i >= 0; i-- {
		if m.students[i].Phone == phone {
			s := m.students[i]
			return &s, nil
		}
	}
	return nil, nil
}

// Create appends a new record with a fresh id.
func (m *Memory) Create(ctx context.Context, s Student) (Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insert(s), nil
}

// Update merges the non-nil fields into the record, (nil, nil) for unknown ids.
func (m *Memory) Update(ctx context.Context, id string, upd Update) (*Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.students {
		if m.students[i].ID != id {
			continue
		}
		s := &m.students[i]
		if upd.Name != nil {
			s.Name = *upd.Name
		}
		if upd.RollNumber != nil {
			s.RollNumber = *upd.RollNumber
		}
		if upd.Section != nil {
			s.Section = *upd.Section
		}
		if upd.Phone != nil {
			s.Phone = *upd.Phone
		}
		if upd.Email != nil {
			s.Email = *upd.Email
		}
		if upd.EnrollmentNumber != nil {
			s.EnrollmentNumber = *upd.EnrollmentNumber
		}
		if upd.Marks != nil {
			s.Marks = *upd.Marks
		}
		if upd.Result != nil {
			s.Result = *upd.Result
		}
		if upd.Percentage != nil {
			s.Percentage = *upd.Percentage
		}
		s.UpdatedAt = m.Now()
		out := *s
		return &out, nil
	}
	return nil, nil
}

// Delete removes a record by id; unknown ids are a no-op.
func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.students {
		if m.students[i].ID == id {
			m.students = append(m.students[:i], m.students[i+1:]...)
			return nil
		}
	}
	return nil
}

// ReplaceAll drops every record and inserts recs with fresh ids.
func (m *Memory) ReplaceAll(ctx context.Context, recs []Student) ([]Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.students = nil
	inserted := make([]Student, 0, len(recs))
	for _, rec := range recs {
		inserted = append(inserted, m.insert(rec))
	}
	return inserted, nil
}

func (m *Memory) insert(s Student) Student {
	s.ID = uuid.NewString()
	s.CreatedAt = m.Now()
	s.UpdatedAt = s.CreatedAt
	m.students = append(m.students, s)
	return s
}

var _ Store = (*Memory)(nil)
