package recheck

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// Repository persists recheck requests in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Submit inserts a new pending request.
func (r *Repository) Submit(ctx context.Context, req Request) (Request, error) {
	req.ID = uuid.NewString()
	req.Status = StatusPending
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO recheck_requests (id, student_name, phone, email, roll_number, reason, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING submitted_at
	`, req.ID, req.StudentName, req.Phone, req.Email, req.RollNumber, req.Reason, req.Status)
	if err := row.Scan(&req.SubmittedAt); err != nil {
		return Request{}, err
	}
	return req, nil
}

// List returns every request, most-recently-submitted first.
func (r *Repository) List(ctx context.Context) ([]Request, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, student_name, phone, email, roll_number, reason, status, submitted_at
		FROM recheck_requests
		ORDER BY submitted_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Request
	for rows.Next() {
		var req Request
		if err := rows.Scan(&req.ID, &req.StudentName, &req.Phone, &req.Email,
			&req.RollNumber, &req.Reason, &req.Status, &req.SubmittedAt); err != nil {
			return nil, err
		}
		res = append(res, req)
	}
	return res, rows.Err()
}

// SetStatus overwrites the status and reports whether the id existed.
func (r *Repository) SetStatus(ctx context.Context, id, status string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE recheck_requests SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

var _ Store = (*Repository)(nil)
