// ABOUTME: SQLite implementation of SessionStore using modernc.org/sqlite
// ABOUTME: Provides console session persistence with automatic schema creation

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements SessionStore using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS console_sessions (
			id TEXT PRIMARY KEY,
			refresh_token TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			expires_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_console_sessions_expires
			ON console_sessions(expires_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSession inserts a new console session record.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *ConsoleSession) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO console_sessions (id, refresh_token, created_at, expires_at)
		VALUES (?, ?, ?, ?)`,
		session.ID, session.RefreshToken, session.CreatedAt.UTC(), session.ExpiresAt.UTC())
	if err != nil {
		return fmt.Errorf("creating console session: %w", err)
	}
	return nil
}

// GetSession returns a session record by ID. Expired records are treated as
// not found and deleted opportunistically.
func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*ConsoleSession, error) {
	var cs ConsoleSession
	err := s.db.QueryRowContext(ctx, `
		SELECT id, refresh_token, created_at, expires_at
		FROM console_sessions WHERE id = ?`, id).
		Scan(&cs.ID, &cs.RefreshToken, &cs.CreatedAt, &cs.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting console session: %w", err)
	}

	if time.Now().After(cs.ExpiresAt) {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM console_sessions WHERE id = ?`, id)
		return nil, ErrSessionNotFound
	}
	return &cs, nil
}

// UpdateSessionCredential replaces the stored refresh credential.
func (s *SQLiteStore) UpdateSessionCredential(ctx context.Context, id, refreshToken string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE console_sessions SET refresh_token = ? WHERE id = ?`,
		refreshToken, id)
	if err != nil {
		return fmt.Errorf("updating console session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating console session: %w", err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteSession removes a session record.
func (s *SQLiteStore) DeleteSession(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM console_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting console session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes all records past their expiry.
func (s *SQLiteStore) DeleteExpiredSessions(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM console_sessions WHERE expires_at < ?`, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("deleting expired console sessions: %w", err)
	}
	return nil
}
