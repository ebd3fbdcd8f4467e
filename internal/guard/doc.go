// Package guard decides whether a protected page tree may render.
//
// The decision is an explicit three-state machine (pending, authorized,
// denied) driven by the required role and the session snapshot, so a redirect
// is a modeled transition rather than an ad hoc effect racing the render. The
// HTTP middleware in the web package blocks on session bootstrap, calls
// Evaluate, and only writes the protected body from the authorized state —
// protected content can never flash for a denied visitor.
//
// HomePath is the role router: the single post-login/landing destination for
// each role, with everything unknown falling through to the login page.
package guard
