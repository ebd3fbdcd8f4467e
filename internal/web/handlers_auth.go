// ABOUTME: Public handlers: landing page, login, register, logout
// ABOUTME: Login/register surface API errors inline; logout always signs out locally

package web

import (
	"net/http"
	"strings"

	"github.com/everlastcargo/everlast-console/internal/api"
	"github.com/everlastcargo/everlast-console/internal/guard"
)

// handleLanding renders the public landing page. The call-to-action points at
// the resolved role's page tree, or the login page for visitors.
func (c *Console) handleLanding(w http.ResponseWriter, r *http.Request) {
	_, st, err := c.sessionFor(w, r)
	if err != nil {
		c.logger.Error("failed to resolve session", "error", err)
		http.Error(w, "Session unavailable", http.StatusInternalServerError)
		return
	}

	snap := st.EnsureBootstrapped(r.Context())
	c.renderLanding(w, snap.User, guard.HomePath(snap.Role()))
}

// handleLoginPage renders the login form. An already-authenticated visitor is
// routed straight to their role's home.
func (c *Console) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	_, st, err := c.sessionFor(w, r)
	if err != nil {
		c.logger.Error("failed to resolve session", "error", err)
		http.Error(w, "Session unavailable", http.StatusInternalServerError)
		return
	}

	snap := st.EnsureBootstrapped(r.Context())
	if snap.Authenticated() {
		http.Redirect(w, r, guard.HomePath(snap.Role()), http.StatusSeeOther)
		return
	}

	c.renderLogin(w, "", "")
}

// handleLogin processes the login form submission. A failed login keeps the
// visitor on the form with the server's message; it never disturbs an
// existing session.
func (c *Console) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		c.renderLogin(w, "", "Invalid form data")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		c.renderLogin(w, email, "Email and password required")
		return
	}

	id, st, err := c.sessionFor(w, r)
	if err != nil {
		c.logger.Error("failed to resolve session", "error", err)
		http.Error(w, "Session unavailable", http.StatusInternalServerError)
		return
	}

	if err := st.Login(r.Context(), email, password); err != nil {
		c.renderLogin(w, email, api.Message(err, "Login failed"))
		return
	}

	c.sessions.Persist(r.Context(), id, st)
	http.Redirect(w, r, guard.HomePath(st.Snapshot().Role()), http.StatusSeeOther)
}

// handleRegisterPage renders the signup form.
func (c *Console) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	_, st, err := c.sessionFor(w, r)
	if err != nil {
		c.logger.Error("failed to resolve session", "error", err)
		http.Error(w, "Session unavailable", http.StatusInternalServerError)
		return
	}

	snap := st.EnsureBootstrapped(r.Context())
	if snap.Authenticated() {
		http.Redirect(w, r, guard.HomePath(snap.Role()), http.StatusSeeOther)
		return
	}

	c.renderRegister(w, registerForm{}, "")
}

// handleRegister processes the signup form with the same contract shape as
// login: token then identity, no partial state on failure.
func (c *Console) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		c.renderRegister(w, registerForm{}, "Invalid form data")
		return
	}

	form := registerForm{
		Name:  strings.TrimSpace(r.FormValue("name")),
		Email: strings.TrimSpace(r.FormValue("email")),
		Phone: strings.TrimSpace(r.FormValue("phone")),
	}
	password := r.FormValue("password")

	if form.Name == "" || form.Email == "" || password == "" {
		c.renderRegister(w, form, "Name, email and password required")
		return
	}
	if len(password) < 8 {
		c.renderRegister(w, form, "Password must be at least 8 characters")
		return
	}

	id, st, err := c.sessionFor(w, r)
	if err != nil {
		c.logger.Error("failed to resolve session", "error", err)
		http.Error(w, "Session unavailable", http.StatusInternalServerError)
		return
	}

	req := api.RegisterRequest{
		Name:     form.Name,
		Email:    form.Email,
		Password: password,
		Phone:    form.Phone,
	}
	if err := st.Register(r.Context(), req); err != nil {
		c.renderRegister(w, form, api.Message(err, "Registration failed"))
		return
	}

	c.sessions.Persist(r.Context(), id, st)
	http.Redirect(w, r, guard.HomePath(st.Snapshot().Role()), http.StatusSeeOther)
}

// handleLogout signs the session out. The API notify is best effort; the
// local session is gone when this returns no matter what the network did.
func (c *Console) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if st, ok := c.sessions.Get(r.Context(), cookie.Value); ok {
			st.Logout(r.Context())
		}
		c.sessions.Delete(r.Context(), cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	http.Redirect(w, r, guard.LoginPath, http.StatusSeeOther)
}
