// Package session holds per-browser authentication state for the console.
//
// # Lifecycle
//
// A Store starts empty in StatusInitializing. EnsureBootstrapped runs the
// silent refresh exactly once per session lifetime; after it resolves the
// status is terminal (authenticated or unauthenticated) until an explicit
// Login, Register, or Logout. Concurrent first requests share one bootstrap
// attempt instead of racing duplicate refreshes.
//
// # Invariants
//
//   - user and accessToken are always set together and cleared together.
//   - A failed Login/Register leaves any existing session untouched.
//   - authInFlight is true exactly for the duration of Login/Register and is
//     released on every exit path.
//   - Logout's local clear runs even when the API notify fails.
//
// # Manager
//
// The Manager maps console session cookies to Stores and mirrors each
// session's refresh credential to persistent storage, so a console restart
// silently re-bootstraps instead of forcing a login. Access tokens live only
// in memory.
package session
