// Package api is the typed HTTP client for the Everlast REST API.
//
// The console never implements business rules; every screen is backed by this
// client. Authentication endpoints (/auth/login, /auth/register, /auth/refresh,
// /auth/me, /auth/logout) feed the session package; resource endpoints
// (/shipments, /invoices, /companies, /users, /stats) feed the page handlers.
//
// # Credential handling
//
// Each Client owns a cookie jar. The API sets a long-lived refresh cookie on
// login and refresh; the jar carries it on subsequent /auth/refresh calls the
// same way a browser would. Access tokens are passed explicitly per call and
// never stored inside the Client.
//
// # Errors
//
// Non-2xx responses become *APIError values classified by sentinel kind
// (ErrInvalidCredentials, ErrMissingToken, ...) with the server's "message"
// field preserved verbatim for display. A 2xx response missing its expected
// payload (no accessToken, no user) is a failure, not a success. Transport
// failures are wrapped with ErrNetwork.
package api
