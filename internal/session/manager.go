// ABOUTME: Registry mapping console session cookies to Session stores
// ABOUTME: Persists refresh credentials so restarts keep users signed in

package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/everlastcargo/everlast-console/internal/api"
	"github.com/everlastcargo/everlast-console/internal/store"
)

// DefaultSessionTTL is how long a console session record survives without an
// explicit logout.
const DefaultSessionTTL = 7 * 24 * time.Hour

// Manager owns the live Session stores, one per browser session cookie.
// Records are mirrored to persistent storage so a console restart can rebuild
// a session's cookie jar and silently re-bootstrap instead of forcing a fresh
// login.
type Manager struct {
	records   store.SessionStore
	newClient func() (*api.Client, error)
	ttl       time.Duration
	logger    *slog.Logger

	mu     sync.Mutex
	stores map[string]*Store
}

// NewManager creates a Manager. newClient constructs an API client per
// session (each needs its own cookie jar).
func NewManager(records store.SessionStore, ttl time.Duration, newClient func() (*api.Client, error)) *Manager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Manager{
		records:   records,
		newClient: newClient,
		ttl:       ttl,
		logger:    slog.Default().With("component", "sessions"),
		stores:    make(map[string]*Store),
	}
}

// Create mints a new console session and its empty Store.
func (m *Manager) Create(ctx context.Context) (string, *Store, error) {
	client, err := m.newClient()
	if err != nil {
		return "", nil, err
	}

	id := uuid.New().String()
	now := time.Now()
	if err := m.records.CreateSession(ctx, &store.ConsoleSession{
		ID:        id,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}); err != nil {
		return "", nil, err
	}

	st := New(client)
	m.mu.Lock()
	m.stores[id] = st
	m.mu.Unlock()
	return id, st, nil
}

// Get returns the Store for a session ID, restoring it from the persisted
// record when the console has restarted since the cookie was issued. Returns
// false for unknown or expired sessions.
func (m *Manager) Get(ctx context.Context, id string) (*Store, bool) {
	m.mu.Lock()
	st, ok := m.stores[id]
	m.mu.Unlock()
	if ok {
		return st, true
	}

	rec, err := m.records.GetSession(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrSessionNotFound) {
			m.logger.Error("failed to load session record", "error", err)
		}
		return nil, false
	}

	client, err := m.newClient()
	if err != nil {
		m.logger.Error("failed to create API client for restored session", "error", err)
		return nil, false
	}
	if rec.RefreshToken != "" {
		client.SetRefreshCookie(rec.RefreshToken)
	}

	st = New(client)
	m.mu.Lock()
	// Another request may have restored it concurrently; keep the first.
	if existing, ok := m.stores[id]; ok {
		st = existing
	} else {
		m.stores[id] = st
	}
	m.mu.Unlock()

	m.logger.Debug("restored console session", "session_id", id)
	return st, true
}

// Persist mirrors the session's current refresh credential to storage.
// Called after login, register, and bootstrap so a restart can resume.
func (m *Manager) Persist(ctx context.Context, id string, st *Store) {
	cookie, ok := st.Client().RefreshCookie()
	if !ok {
		return
	}
	if err := m.records.UpdateSessionCredential(ctx, id, cookie); err != nil {
		m.logger.Warn("failed to persist session credential", "session_id", id, "error", err)
	}
}

// Delete drops a session from memory and storage (logout).
func (m *Manager) Delete(ctx context.Context, id string) {
	m.mu.Lock()
	delete(m.stores, id)
	m.mu.Unlock()
	if err := m.records.DeleteSession(ctx, id); err != nil {
		m.logger.Warn("failed to delete session record", "session_id", id, "error", err)
	}
}

// Sweep removes expired session records. Safe to call periodically.
func (m *Manager) Sweep(ctx context.Context) {
	if err := m.records.DeleteExpiredSessions(ctx); err != nil {
		m.logger.Warn("failed to sweep expired sessions", "error", err)
	}
}
