// ABOUTME: Route-guard state machine and role-based home routing
// ABOUTME: Pure decisions; navigation side effects belong to the HTTP layer

package guard

import (
	"github.com/everlastcargo/everlast-console/internal/api"
	"github.com/everlastcargo/everlast-console/internal/session"
)

// Decision is the guard's state for a protected request. Navigation is a
// side effect taken from DecisionDenied by the HTTP layer; the protected body
// is only ever written from DecisionAuthorized.
type Decision int

const (
	// DecisionPending means the session status is not yet known; render a
	// waiting state and perform no navigation.
	DecisionPending Decision = iota
	// DecisionAuthorized means the resolved user holds the required role.
	DecisionAuthorized
	// DecisionDenied covers both the unauthenticated case and a role
	// mismatch; the caller redirects to the login destination.
	DecisionDenied
)

func (d Decision) String() string {
	switch d {
	case DecisionPending:
		return "pending"
	case DecisionAuthorized:
		return "authorized"
	case DecisionDenied:
		return "denied"
	}
	return "unknown"
}

// LoginPath is the destination for denied requests and unauthenticated homes.
const LoginPath = "/login"

// Evaluate is the guard's single transition function. It is total: every
// combination of required role and session state maps to exactly one
// decision, and any role outside the closed set denies rather than silently
// matching.
func Evaluate(required api.Role, snap session.Snapshot) Decision {
	if snap.Status == session.StatusInitializing {
		return DecisionPending
	}
	if snap.User == nil {
		return DecisionDenied
	}
	if !snap.User.Role.Valid() || snap.User.Role != required {
		return DecisionDenied
	}
	return DecisionAuthorized
}

// HomePath maps a role to its page tree. Pure and total: unknown or absent
// roles route to the login page.
func HomePath(role api.Role) string {
	switch role {
	case api.RoleAdmin:
		return "/admin"
	case api.RoleStaff:
		return "/staff"
	case api.RoleClient:
		return "/client"
	default:
		return LoginPath
	}
}
