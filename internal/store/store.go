// ABOUTME: Store interface and record types for console session persistence
// ABOUTME: Lets a console restart re-prime browser sessions' refresh credentials

package store

import (
	"context"
	"errors"
	"time"
)

// ErrSessionNotFound is returned when a session record doesn't exist or has expired.
var ErrSessionNotFound = errors.New("console session not found")

// ConsoleSession is the persisted record for one browser session. It holds the
// refresh credential the upstream API issued for that session's cookie jar;
// access tokens are deliberately never persisted.
type ConsoleSession struct {
	ID           string
	RefreshToken string // empty until the session has authenticated once
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// SessionStore defines the persistence interface used by session.Manager.
type SessionStore interface {
	CreateSession(ctx context.Context, session *ConsoleSession) error
	GetSession(ctx context.Context, id string) (*ConsoleSession, error)
	// UpdateSessionCredential replaces the stored refresh credential.
	// An empty value clears it (logout).
	UpdateSessionCredential(ctx context.Context, id, refreshToken string) error
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context) error
	Close() error
}
