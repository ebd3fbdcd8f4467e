// ABOUTME: Tests for the Everlast API client
// ABOUTME: Covers auth endpoints, error classification, and refresh cookie handling

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Options{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client, srv
}

func TestLogin_Success(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if body["email"] != "admin@everlast.test" {
			t.Errorf("expected email in body, got %q", body["email"])
		}
		http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: "refresh-1", Path: "/"})
		json.NewEncoder(w).Encode(map[string]string{"accessToken": "token-1"})
	}))

	token, err := client.Login(context.Background(), "admin@everlast.test", "secret123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if token != "token-1" {
		t.Errorf("expected token-1, got %q", token)
	}

	// The refresh cookie set by the API must land in the jar.
	got, ok := client.RefreshCookie()
	if !ok || got != "refresh-1" {
		t.Errorf("expected refresh cookie refresh-1, got %q (ok=%v)", got, ok)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Incorrect email or password"})
	}))

	_, err := client.Login(context.Background(), "admin@everlast.test", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	// The upstream message must survive verbatim for the form to display.
	if got := Message(err, "fallback"); got != "Incorrect email or password" {
		t.Errorf("expected upstream message, got %q", got)
	}
}

func TestLogin_MissingToken(t *testing.T) {
	// A 2xx response without an accessToken is a failure, never a success.
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))

	_, err := client.Login(context.Background(), "admin@everlast.test", "secret123")
	if !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestRegister_MissingToken(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{})
	}))

	_, err := client.Register(context.Background(), RegisterRequest{
		Name:     "Test User",
		Email:    "user@everlast.test",
		Password: "secret123",
	})
	if !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestRefresh_SendsCookie(t *testing.T) {
	var gotCookie string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ck, err := r.Cookie("refreshToken"); err == nil {
			gotCookie = ck.Value
		}
		json.NewEncoder(w).Encode(map[string]string{"accessToken": "token-2"})
	}))

	client.SetRefreshCookie("persisted-refresh")

	token, err := client.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if token != "token-2" {
		t.Errorf("expected token-2, got %q", token)
	}
	if gotCookie != "persisted-refresh" {
		t.Errorf("expected refresh cookie on request, got %q", gotCookie)
	}
}

func TestRefresh_Failure(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Refresh token expired"})
	}))

	_, err := client.Refresh(context.Background())
	if !errors.Is(err, ErrRefreshFailed) {
		t.Fatalf("expected ErrRefreshFailed, got %v", err)
	}
}

func TestMe_Success(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token-1" {
			t.Errorf("expected bearer header, got %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]string{
				"id":    "u1",
				"name":  "Admin",
				"email": "admin@everlast.test",
				"role":  "admin",
			},
		})
	}))

	user, err := client.Me(context.Background(), "token-1")
	if err != nil {
		t.Fatalf("Me() error = %v", err)
	}
	if user.Role != RoleAdmin {
		t.Errorf("expected admin role, got %q", user.Role)
	}
}

func TestMe_UserNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{})
	}))

	_, err := client.Me(context.Background(), "token-1")
	if !errors.Is(err, ErrIdentityFetch) {
		t.Fatalf("expected ErrIdentityFetch, got %v", err)
	}
	if got := Message(err, "fallback"); got != "User data not found" {
		t.Errorf("expected 'User data not found', got %q", got)
	}
}

func TestMe_EmptyToken(t *testing.T) {
	client, err := NewClient(Options{BaseURL: "http://localhost:1"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if _, err := client.Me(context.Background(), ""); !errors.Is(err, ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
}

func TestResources_RequireToken(t *testing.T) {
	client, err := NewClient(Options{BaseURL: "http://localhost:1"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	ctx := context.Background()

	if _, err := client.ListShipments(ctx, ""); !errors.Is(err, ErrNoToken) {
		t.Errorf("ListShipments: expected ErrNoToken, got %v", err)
	}
	if _, err := client.ListInvoices(ctx, ""); !errors.Is(err, ErrNoToken) {
		t.Errorf("ListInvoices: expected ErrNoToken, got %v", err)
	}
	if _, err := client.DashboardStats(ctx, ""); !errors.Is(err, ErrNoToken) {
		t.Errorf("DashboardStats: expected ErrNoToken, got %v", err)
	}
}

func TestListUsers_RoleFilter(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("role"); got != "client" {
			t.Errorf("expected role=client query, got %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"users": []map[string]string{
				{"id": "u2", "name": "Client A", "email": "a@everlast.test", "role": "client"},
			},
		})
	}))

	users, err := client.ListUsers(context.Background(), "token-1", RoleClient)
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if len(users) != 1 || users[0].Role != RoleClient {
		t.Errorf("unexpected users: %+v", users)
	}
}

func TestNetworkError(t *testing.T) {
	client, err := NewClient(Options{BaseURL: "http://127.0.0.1:1"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	_, err = client.Login(context.Background(), "a@b.c", "pw")
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleStaff, RoleClient} {
		if !r.Valid() {
			t.Errorf("expected %q to be valid", r)
		}
	}
	for _, r := range []Role{"", "superadmin", "ADMIN"} {
		if r.Valid() {
			t.Errorf("expected %q to be invalid", r)
		}
	}
}
