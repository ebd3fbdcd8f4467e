// ABOUTME: Request-context plumbing for the authorized session
// ABOUTME: WithSession/FromContext pattern shared by all protected handlers

package guard

import (
	"context"

	"github.com/everlastcargo/everlast-console/internal/session"
)

// sessionContextKey is the key type for storing the session in context.
type sessionContextKey struct{}

// Authorized bundles what a protected handler needs: the live store for
// token/resource calls and the snapshot the guard decided on.
type Authorized struct {
	Store    *session.Store
	Snapshot session.Snapshot
}

// WithSession returns a new context with the authorized session attached.
func WithSession(ctx context.Context, a *Authorized) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, a)
}

// FromContext retrieves the authorized session, returning nil if not present.
func FromContext(ctx context.Context) *Authorized {
	val := ctx.Value(sessionContextKey{})
	if val == nil {
		return nil
	}
	a, ok := val.(*Authorized)
	if !ok {
		return nil
	}
	return a
}

// MustFromContext retrieves the authorized session, panicking if not present.
// Only for handlers that are always registered behind the guard.
func MustFromContext(ctx context.Context) *Authorized {
	a := FromContext(ctx)
	if a == nil {
		panic("guard: authorized session not found in context")
	}
	return a
}
