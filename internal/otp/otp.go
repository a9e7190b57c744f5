// Package otp implements the admin login challenge: a single outstanding
// 6-digit code per admin identity with a lazy expiry check.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"log"
	"math/big"
	"time"
)

// ErrUnknownAdmin reports an identity with no admin record.
var ErrUnknownAdmin = errors.New("unknown admin identity")

// Challenge is the outstanding code for one identity.
type Challenge struct {
	Code   string
	Expiry time.Time
}

// Store persists challenges on the admin identity record. GetChallenge
// returns (nil, nil) when the identity is unknown or has no challenge.
type Store interface {
	AdminExists(ctx context.Context, email string) (bool, error)
	SaveChallenge(ctx context.Context, email, code string, expiry time.Time) error
	GetChallenge(ctx context.Context, email string) (*Challenge, error)
}

// DispatchFunc hands a freshly issued code to the notification path.
type DispatchFunc func(ctx context.Context, email, code string) error

// Engine issues and verifies challenges. Issuing overwrites any prior
// challenge for the identity; verifying never consumes one, so a correct
// code keeps verifying until the expiry passes.
type Engine struct {
	store    Store
	ttl      time.Duration
	dispatch DispatchFunc

	// Now is the clock; overridable in tests.
	Now func() time.Time
}

// NewEngine creates an engine. dispatch may be nil when no delivery path is
// wired (tests).
func NewEngine(store Store, ttl time.Duration, dispatch DispatchFunc) *Engine {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Engine{
		store:    store,
		ttl:      ttl,
		dispatch: dispatch,
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

// Issue generates a code for the identity, stores it with expiry now+ttl and
// hands it to the dispatcher. Dispatch failures are logged, not returned: the
// challenge is live once stored.
func (e *Engine) Issue(ctx context.Context, email string) (string, error) {
	exists, err := e.store.AdminExists(ctx, email)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", ErrUnknownAdmin
	}

	code := GenerateCode()
	if err := e.store.SaveChallenge(ctx, email, code, e.Now().Add(e.ttl)); err != nil {
		return "", err
	}
	if e.dispatch != nil {
		if err := e.dispatch(ctx, email, code); err != nil {
			log.Printf("otp dispatch failed for %s: %v", email, err)
		}
	}
	return code, nil
}

// Resend issues a fresh code, replacing the outstanding one.
func (e *Engine) Resend(ctx context.Context, email string) (string, error) {
	return e.Issue(ctx, email)
}

// Verify reports whether submitted matches the live challenge for the
// identity. No challenge, an expired challenge and a wrong code all collapse
// to false.
func (e *Engine) Verify(ctx context.Context, email, submitted string) bool {
	ch, err := e.store.GetChallenge(ctx, email)
	if err != nil {
		log.Printf("otp lookup failed for %s: %v", email, err)
		return false
	}
	if ch == nil {
		return false
	}
	if !e.Now().Before(ch.Expiry) {
		return false
	}
	return ch.Code == submitted
}

// GenerateCode returns a uniformly random decimal string in [100000, 999999].
func GenerateCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// crypto/rand only fails when the platform source is broken.
		panic(err)
	}
	return big.NewInt(0).Add(n, big.NewInt(100000)).String()
}
