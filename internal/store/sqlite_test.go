// ABOUTME: Tests for the SQLite console session store
// ABOUTME: Covers CRUD, credential updates, and expiry handling

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "console.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	sess := &ConsoleSession{
		ID:        "sess-1",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	require.NoError(t, s.CreateSession(ctx, sess))

	got, err := s.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", got.ID)
	assert.Empty(t, got.RefreshToken)
	assert.WithinDuration(t, sess.ExpiresAt, got.ExpiresAt, time.Second)
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetSession(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSQLiteStore_UpdateCredential(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, s.CreateSession(ctx, &ConsoleSession{
		ID:        "sess-1",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}))

	require.NoError(t, s.UpdateSessionCredential(ctx, "sess-1", "refresh-abc"))

	got, err := s.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "refresh-abc", got.RefreshToken)
}

func TestSQLiteStore_UpdateCredentialMissing(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateSessionCredential(context.Background(), "nope", "refresh-abc")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSQLiteStore_ExpiredSessionIsGone(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, s.CreateSession(ctx, &ConsoleSession{
		ID:        "sess-old",
		CreatedAt: now.Add(-2 * time.Hour),
		ExpiresAt: now.Add(-time.Hour),
	}))

	_, err := s.GetSession(ctx, "sess-old")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSQLiteStore_DeleteSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, s.CreateSession(ctx, &ConsoleSession{
		ID:        "sess-1",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}))

	require.NoError(t, s.DeleteSession(ctx, "sess-1"))

	_, err := s.GetSession(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSQLiteStore_DeleteExpired(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, s.CreateSession(ctx, &ConsoleSession{
		ID: "live", CreatedAt: now, ExpiresAt: now.Add(time.Hour),
	}))
	require.NoError(t, s.CreateSession(ctx, &ConsoleSession{
		ID: "dead", CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour),
	}))

	require.NoError(t, s.DeleteExpiredSessions(ctx))

	_, err := s.GetSession(ctx, "live")
	assert.NoError(t, err)
	_, err = s.GetSession(ctx, "dead")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
