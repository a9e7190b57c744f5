package otp

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Repository keeps challenges on the admin_users row in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// AdminExists reports whether an admin row exists for the email.
func (r *Repository) AdminExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM admin_users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

// SaveChallenge overwrites the identity's challenge columns.
func (r *Repository) SaveChallenge(ctx context.Context, email, code string, expiry time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE admin_users SET otp = $2, otp_expiry = $3 WHERE email = $1`, email, code, expiry)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrUnknownAdmin
	}
	return nil
}

// GetChallenge returns the identity's stored challenge, or (nil, nil) when
// the identity is unknown or no code has been issued.
func (r *Repository) GetChallenge(ctx context.Context, email string) (*Challenge, error) {
	var code sql.NullString
	var expiry sql.NullTime
	err := r.db.QueryRowContext(ctx,
		`SELECT otp, otp_expiry FROM admin_users WHERE email = $1`, email).Scan(&code, &expiry)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if !code.Valid || !expiry.Valid {
		return nil, nil
	}
	return &Challenge{Code: code.String, Expiry: expiry.Time}, nil
}

var _ Store = (*Repository)(nil)
