// Package session holds the single-admin login flag. The flag is a coarse
// boolean under a fixed key with no expiry of its own: set on a successful
// OTP verification, cleared on logout, and surviving restarts when backed by
// redis. There is deliberately no token machinery around it.
package session

import "context"

// FlagKey is the persisted marker the portal has always used.
const FlagKey = "admin_authenticated"

// Store is the gate contract shared by the redis and in-memory backends.
type Store interface {
	Activate(ctx context.Context) error
	Clear(ctx context.Context) error
	Active(ctx context.Context) (bool, error)
}
