// ABOUTME: Session store holding one browser session's identity and access token
// ABOUTME: Login/register/logout/refresh mutations with the user⇔token invariant

package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/everlastcargo/everlast-console/internal/api"
)

// Status is the session's authentication state. Initializing holds only until
// the first bootstrap attempt resolves; afterwards the status is terminal until
// an explicit login, register, or logout transitions it.
type Status string

const (
	StatusInitializing    Status = "initializing"
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
)

// ErrAuthInFlight is returned when a login or registration is attempted while
// another one is still outstanding on the same session.
var ErrAuthInFlight = errors.New("authentication already in progress")

// tokenSkew is how close to expiry an access token may get before Token
// refreshes it instead of handing it out.
const tokenSkew = 30 * time.Second

// bootstrapTimeout bounds the one-time silent refresh. It is detached from any
// single request context because concurrent first requests share the attempt.
const bootstrapTimeout = 30 * time.Second

// Snapshot is a read-only view of the session for guards and handlers.
type Snapshot struct {
	User         *api.User
	AccessToken  string
	Status       Status
	AuthInFlight bool
	LastError    string
}

// Authenticated reports whether the snapshot carries an identity.
func (s Snapshot) Authenticated() bool { return s.User != nil }

// Role returns the user's role, or the empty Role when unauthenticated.
func (s Snapshot) Role() api.Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

// Store is the single source of truth for one browser session's
// authentication state. It is mutated only by its own operations; guards and
// page handlers observe it through Snapshot and Token.
//
// Invariant: user and accessToken are set together and cleared together,
// under the mutex, on every path.
type Store struct {
	client *api.Client
	logger *slog.Logger

	mu           sync.Mutex
	user         *api.User
	accessToken  string
	tokenExpiry  time.Time
	status       Status
	authInFlight bool
	lastError    string

	bootstrapped bool          // first bootstrap resolved (or made moot by login)
	bootstrapCh  chan struct{} // non-nil while a bootstrap attempt is in flight
	refreshGen   uint64        // invalidates stale in-flight refreshes
}

// New creates an empty, uninitialized session backed by the given API client.
func New(client *api.Client) *Store {
	return &Store{
		client: client,
		status: StatusInitializing,
		logger: slog.Default().With("component", "session"),
	}
}

// Client exposes the session's API client for resource calls made on the
// session's behalf (the refresh credential lives in its cookie jar).
func (s *Store) Client() *api.Client { return s.client }

// Snapshot returns the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		User:         s.user,
		AccessToken:  s.accessToken,
		Status:       s.status,
		AuthInFlight: s.authInFlight,
		LastError:    s.lastError,
	}
}

// Login exchanges credentials for a session. The identity fetch is strictly
// ordered after token acquisition and uses the just-issued token. On failure
// the existing user/token pair is left untouched and the error is returned
// for the form to display.
func (s *Store) Login(ctx context.Context, email, password string) error {
	if err := s.beginAuth(); err != nil {
		return err
	}
	defer s.endAuth()

	token, err := s.client.Login(ctx, email, password)
	if err != nil {
		s.noteError(err, "Login failed")
		return err
	}

	user, err := s.client.Me(ctx, token)
	if err != nil {
		s.noteError(err, "Failed to fetch user")
		return err
	}

	s.setAuthenticated(user, token)
	s.logger.Info("login successful", "user", user.Email, "role", user.Role)
	return nil
}

// Register creates an account and signs the session in, with the same
// contract shape as Login.
func (s *Store) Register(ctx context.Context, req api.RegisterRequest) error {
	if err := s.beginAuth(); err != nil {
		return err
	}
	defer s.endAuth()

	token, err := s.client.Register(ctx, req)
	if err != nil {
		s.noteError(err, "Registration failed")
		return err
	}

	user, err := s.client.Me(ctx, token)
	if err != nil {
		s.noteError(err, "Failed to fetch user")
		return err
	}

	s.setAuthenticated(user, token)
	s.logger.Info("registration successful", "user", user.Email, "role", user.Role)
	return nil
}

// Logout notifies the API (best effort) and unconditionally clears the local
// session. The local clear runs in a deferred step so a failed notify can
// never leave the user signed in.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	token := s.accessToken
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.clearLocked()
		s.status = StatusUnauthenticated
		s.bootstrapped = true
		s.mu.Unlock()
	}()

	if err := s.client.Logout(ctx, token); err != nil {
		s.logger.Warn("logout notify failed", "error", err)
	}
}

// Refresh silently re-authenticates from the ambient refresh credential and
// re-fetches the identity with the newly minted token. Any failure at either
// step clears the session. A refresh that was superseded while in flight (by
// a newer refresh, a sign-in, or a logout) discards its result instead of
// clobbering the newer state.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.refreshGen++
	gen := s.refreshGen
	s.mu.Unlock()

	token, err := s.client.Refresh(ctx)
	var user *api.User
	if err == nil {
		user, err = s.client.Me(ctx, token)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.refreshGen {
		return nil
	}
	if err != nil {
		s.clearLocked()
		s.status = StatusUnauthenticated
		s.lastError = api.Message(err, "Session refresh failed")
		return err
	}

	s.applyLocked(user, token)
	return nil
}

// Token returns an access token fit for an API call, refreshing once if the
// held token is at or past its JWT expiry. Returns api.ErrNoToken when the
// session is unauthenticated.
func (s *Store) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	token := s.accessToken
	expiry := s.tokenExpiry
	s.mu.Unlock()

	if token == "" {
		return "", api.ErrNoToken
	}
	if expiry.IsZero() || time.Until(expiry) > tokenSkew {
		return token, nil
	}

	if err := s.Refresh(ctx); err != nil {
		return "", err
	}
	s.mu.Lock()
	token = s.accessToken
	s.mu.Unlock()
	if token == "" {
		return "", api.ErrNoToken
	}
	return token, nil
}

// beginAuth acquires the in-flight flag; endAuth releases it. The pair is
// always balanced via defer so the flag clears on every exit path.
func (s *Store) beginAuth() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.authInFlight {
		return ErrAuthInFlight
	}
	s.authInFlight = true
	s.lastError = ""
	return nil
}

func (s *Store) endAuth() {
	s.mu.Lock()
	s.authInFlight = false
	s.mu.Unlock()
}

// noteError records the user-facing text without touching user/token.
func (s *Store) noteError(err error, fallback string) {
	s.mu.Lock()
	s.lastError = api.Message(err, fallback)
	s.mu.Unlock()
}

func (s *Store) setAuthenticated(user *api.User, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// A sign-in supersedes any refresh still in flight; its result was
	// minted against the pre-login credential.
	s.refreshGen++
	s.applyLocked(user, token)
	// An explicit sign-in makes the one-time bootstrap moot.
	s.bootstrapped = true
}

func (s *Store) applyLocked(user *api.User, token string) {
	s.user = user
	s.accessToken = token
	s.tokenExpiry = tokenExpiry(token)
	s.status = StatusAuthenticated
	s.lastError = ""
}

func (s *Store) clearLocked() {
	s.user = nil
	s.accessToken = ""
	s.tokenExpiry = time.Time{}
	// An explicit clear supersedes any refresh still in flight; without the
	// bump a stale refresh would pass the generation check and re-apply the
	// identity it fetched before the clear.
	s.refreshGen++
}

// tokenExpiry reads the exp claim without verifying the signature; the
// console holds no signing key. Opaque tokens yield a zero time, which
// disables proactive refresh for them.
func tokenExpiry(token string) time.Time {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
