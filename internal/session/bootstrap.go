// ABOUTME: One-shot session bootstrap from the ambient refresh credential
// ABOUTME: Concurrent first requests coalesce onto a single refresh attempt

package session

import "context"

// EnsureBootstrapped resolves the session's status, running the silent
// refresh at most once for the lifetime of the session regardless of outcome.
// A failed bootstrap means "unauthenticated", not "retry". Callers that
// arrive while an attempt is in flight wait for it rather than launching a
// duplicate; if the caller's context expires first, the snapshot still shows
// StatusInitializing and no extra request has been made.
func (s *Store) EnsureBootstrapped(ctx context.Context) Snapshot {
	s.mu.Lock()
	if s.bootstrapped {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap
	}
	if s.bootstrapCh == nil {
		s.bootstrapCh = make(chan struct{})
		go s.runBootstrap(s.bootstrapCh)
	}
	ch := s.bootstrapCh
	s.mu.Unlock()

	select {
	case <-ch:
	case <-ctx.Done():
	}
	return s.Snapshot()
}

// runBootstrap performs the single silent refresh attempt. Errors are
// absorbed here: a visitor with no refresh credential is the normal case and
// must not surface as a failure to the page tree.
func (s *Store) runBootstrap(done chan struct{}) {
	ctx, cancel := context.WithTimeout(context.Background(), bootstrapTimeout)
	defer cancel()

	if err := s.Refresh(ctx); err != nil {
		s.logger.Debug("bootstrap refresh did not authenticate", "error", err)
	}

	s.mu.Lock()
	s.bootstrapped = true
	if s.status == StatusInitializing {
		s.status = StatusUnauthenticated
	}
	s.mu.Unlock()
	close(done)
}
