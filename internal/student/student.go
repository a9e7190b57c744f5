package student

import (
	"context"
	"time"
)

// Student is one row of the results directory. The zero ID marks a record
// that has not been stored yet (CSV imports, replace-all input).
type Student struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	RollNumber       string    `json:"roll_number"`
	Section          string    `json:"section"`
	Phone            string    `json:"phone"`
	Email            string    `json:"email"`
	EnrollmentNumber string    `json:"enrollment_number"`
	Marks            int       `json:"marks"`
	Result           string    `json:"result"`
	Percentage       float64   `json:"percentage"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Update is a field-wise partial merge; nil fields are left unchanged.
type Update struct {
	Name             *string  `json:"name"`
	RollNumber       *string  `json:"roll_number"`
	Section          *string  `json:"section"`
	Phone            *string  `json:"phone"`
	Email            *string  `json:"email"`
	EnrollmentNumber *string  `json:"enrollment_number"`
	Marks            *int     `json:"marks"`
	Result           *string  `json:"result"`
	Percentage       *float64 `json:"percentage"`
}

// Store is the directory contract shared by the Postgres and in-memory
// backends. List returns most-recently-created first. FindByPhone trims the
// query phone, compares stored values as-is, and resolves duplicate phones
// most-recently-created wins; a miss is (nil, nil). ReplaceAll deletes every
// record and inserts the given ones with fresh ids as two independent steps,
// deliberately not atomic: a delete failure aborts before any insert, an
// insert failure leaves whatever the insert got to.
type Store interface {
	List(ctx context.Context) ([]Student, error)
	FindByPhone(ctx context.Context, phone string) (*Student, error)
	Create(ctx context.Context, s Student) (Student, error)
	Update(ctx context.Context, id string, upd Update) (*Student, error)
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, recs []Student) ([]Student, error)
}
