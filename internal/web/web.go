// ABOUTME: Console web UI package for the Everlast clearance business
// ABOUTME: Session cookie plumbing, role-gated routes, and auth handlers

package web

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/everlastcargo/everlast-console/internal/api"
	"github.com/everlastcargo/everlast-console/internal/guard"
	"github.com/everlastcargo/everlast-console/internal/session"
)

const (
	// SessionCookieName is the console's own session cookie (not the
	// upstream refresh credential, which never reaches the browser).
	SessionCookieName = "everlast_session"

	// FlashCookieName carries one-shot notification messages across a redirect.
	FlashCookieName = "everlast_flash"
)

// Config holds console UI configuration.
type Config struct {
	// SessionTTL is the browser session lifetime.
	SessionTTL time.Duration
	// SecureCookies marks cookies Secure (set when serving HTTPS).
	SecureCookies bool
}

// Console handles all console routes.
type Console struct {
	sessions *session.Manager
	config   Config
	logger   *slog.Logger
}

// New creates a Console over the given session manager.
func New(sessions *session.Manager, cfg Config) *Console {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = session.DefaultSessionTTL
	}
	return &Console{
		sessions: sessions,
		config:   cfg,
		logger:   slog.Default().With("component", "web"),
	}
}

// RegisterRoutes registers all console routes on the given mux.
func (c *Console) RegisterRoutes(mux *http.ServeMux) {
	// Public routes
	mux.HandleFunc("GET /{$}", c.handleLanding)
	mux.HandleFunc("GET /login", c.handleLoginPage)
	mux.HandleFunc("POST /login", c.handleLogin)
	mux.HandleFunc("GET /register", c.handleRegisterPage)
	mux.HandleFunc("POST /register", c.handleRegister)
	mux.HandleFunc("POST /logout", c.handleLogout)

	// Admin tree
	mux.HandleFunc("GET /admin", c.requireRole(api.RoleAdmin, c.handleAdminDashboard))
	mux.HandleFunc("GET /admin/shipments", c.requireRole(api.RoleAdmin, c.handleShipmentsList))
	mux.HandleFunc("GET /admin/shipments/create", c.requireRole(api.RoleAdmin, c.handleShipmentCreatePage))
	mux.HandleFunc("POST /admin/shipments/create", c.requireRole(api.RoleAdmin, c.handleShipmentCreate))
	mux.HandleFunc("GET /admin/shipments/{id}", c.requireRole(api.RoleAdmin, c.handleShipmentDetail))
	mux.HandleFunc("POST /admin/shipments/{id}/status", c.requireRole(api.RoleAdmin, c.handleShipmentStatus))
	mux.HandleFunc("POST /admin/shipments/{id}/delete", c.requireRole(api.RoleAdmin, c.handleShipmentDelete))
	mux.HandleFunc("GET /admin/invoices", c.requireRole(api.RoleAdmin, c.handleInvoices))
	mux.HandleFunc("GET /admin/shipping-lines", c.requireRole(api.RoleAdmin, c.handleShippingLines))
	mux.HandleFunc("GET /admin/shipping-lines/create", c.requireRole(api.RoleAdmin, c.handleShippingLineCreatePage))
	mux.HandleFunc("POST /admin/shipping-lines/create", c.requireRole(api.RoleAdmin, c.handleShippingLineCreate))
	mux.HandleFunc("POST /admin/shipping-lines/{id}/delete", c.requireRole(api.RoleAdmin, c.handleShippingLineDelete))

	// Staff tree
	mux.HandleFunc("GET /staff", c.requireRole(api.RoleStaff, c.handleStaffHome))

	// Client tree
	mux.HandleFunc("GET /client", c.requireRole(api.RoleClient, c.handleClientHome))

	c.logger.Info("console routes registered")
}

// sessionFor resolves the request's session, minting a new one (and setting
// the cookie) for first-time visitors.
func (c *Console) sessionFor(w http.ResponseWriter, r *http.Request) (string, *session.Store, error) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if st, ok := c.sessions.Get(r.Context(), cookie.Value); ok {
			return cookie.Value, st, nil
		}
	}

	id, st, err := c.sessions.Create(r.Context())
	if err != nil {
		return "", nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(c.config.SessionTTL),
		HttpOnly: true,
		Secure:   c.config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return id, st, nil
}

// requireRole gates a handler behind the guard. The request blocks on the
// session's one-time bootstrap, then the guard decides: authorized requests
// proceed with the session in context, denied requests redirect to login
// without a byte of protected content, and a still-pending session (caller
// context expired mid-bootstrap) gets the waiting page.
func (c *Console) requireRole(required api.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, st, err := c.sessionFor(w, r)
		if err != nil {
			c.logger.Error("failed to resolve session", "error", err)
			http.Error(w, "Session unavailable", http.StatusInternalServerError)
			return
		}

		snap := st.EnsureBootstrapped(r.Context())
		// The refresh credential may have rotated during bootstrap. The
		// request context may already be done on the pending path, so the
		// persist gets its own deadline.
		persistCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		c.sessions.Persist(persistCtx, id, st)
		cancel()

		switch guard.Evaluate(required, snap) {
		case guard.DecisionAuthorized:
			ctx := guard.WithSession(r.Context(), &guard.Authorized{Store: st, Snapshot: snap})
			next(w, r.WithContext(ctx))
		case guard.DecisionPending:
			c.renderLoading(w)
		case guard.DecisionDenied:
			http.Redirect(w, r, guard.LoginPath, http.StatusSeeOther)
		}
	}
}

// setFlash stores a one-shot notification shown on the next page render.
func (c *Console) setFlash(w http.ResponseWriter, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    url.QueryEscape(message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		Secure:   c.config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash returns and clears the pending notification, if any.
func (c *Console) popFlash(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(FlashCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	msg, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return msg
}
