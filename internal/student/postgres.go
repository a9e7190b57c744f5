package student

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// deleteAllSentinel is the id no record can carry; "id <> sentinel" clears the table.
const deleteAllSentinel = "00000000-0000-0000-0000-000000000000"

const studentColumns = `id, name, roll_number, section, phone, email, enrollment_number, marks, result, percentage, created_at, updated_at`

// Repository persists the student directory in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// List returns every student, most-recently-created first.
func (r *Repository) List(ctx context.Context) ([]Student, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+studentColumns+`
		FROM students
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Student
	for rows.Next() {
		var s Student
		if err := scanStudent(rows, &s); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

// FindByPhone returns the newest record whose stored phone equals the trimmed
// query phone, or (nil, nil) when no record matches.
func (r *Repository) FindByPhone(ctx context.Context, phone string) (*Student, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+studentColumns+`
		FROM students
		WHERE phone = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, strings.TrimSpace(phone))
	var s Student
	if err := scanStudent(row, &s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// Create inserts a new record with a fresh id.
func (r *Repository) Create(ctx context.Context, s Student) (Student, error) {
	s.ID = uuid.NewString()
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO students (id, name, roll_number, section, phone, email, enrollment_number, marks, result, percentage)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at, updated_at
	`, s.ID, s.Name, s.RollNumber, s.Section, s.Phone, s.Email, s.EnrollmentNumber, s.Marks, s.Result, s.Percentage)
	if err := row.Scan(&s.CreatedAt, &s.UpdatedAt); err != nil {
		return Student{}, err
	}
	return s, nil
}

// Update merges the non-nil fields into the record and returns the result,
// or (nil, nil) when the id is unknown.
func (r *Repository) Update(ctx context.Context, id string, upd Update) (*Student, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE students SET
			name = COALESCE($2, name),
			roll_number = COALESCE($3, roll_number),
			section = COALESCE($4, section),
			phone = COALESCE($5, phone),
			email = COALESCE($6, email),
			enrollment_number = COALESCE($7, enrollment_number),
			marks = COALESCE($8, marks),
			result = COALESCE($9, result),
			percentage = COALESCE($10, percentage),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+studentColumns+`
	`, id, upd.Name, upd.RollNumber, upd.Section, upd.Phone, upd.Email, upd.EnrollmentNumber, upd.Marks, upd.Result, upd.Percentage)
	var s Student
	if err := scanStudent(row, &s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// Delete removes a record by id. Unknown ids are a no-op.
func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	return err
}

// ReplaceAll clears the directory and inserts recs as new records. The two
// steps are independent statements: a failed delete aborts before any insert,
// a failed insert leaves the directory with whatever got in before the error.
func (r *Repository) ReplaceAll(ctx context.Context, recs []Student) ([]Student, error) {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id <> $1`, deleteAllSentinel); err != nil {
		return nil, err
	}
	inserted := make([]Student, 0, len(recs))
	for _, rec := range recs {
		rec.ID = ""
		s, err := r.Create(ctx, rec)
		if err != nil {
			return nil, err
		}
		inserted = append(inserted, s)
	}
	return inserted, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(row rowScanner, s *Student) error {
	return row.Scan(&s.ID, &s.Name, &s.RollNumber, &s.Section, &s.Phone, &s.Email,
		&s.EnrollmentNumber, &s.Marks, &s.Result, &s.Percentage, &s.CreatedAt, &s.UpdatedAt)
}

var _ Store = (*Repository)(nil)
