// ABOUTME: Tests for the session store lifecycle
// ABOUTME: Covers login/register/logout/refresh, bootstrap single-flight, and token issuance

package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everlastcargo/everlast-console/internal/api"
)

// fakeAPI is a stub Everlast API with switchable behavior and call counters.
type fakeAPI struct {
	mu           sync.Mutex
	loginOK      bool
	refreshOK    bool
	logoutStatus int
	token        string
	refreshToken string // overrides token for /auth/refresh when set
	user         map[string]string

	// refreshEntered/refreshHold let a test pin a refresh mid-flight.
	refreshEntered chan struct{}
	refreshHold    chan struct{}

	loginCalls   atomic.Int64
	refreshCalls atomic.Int64
	meCalls      atomic.Int64
	logoutCalls  atomic.Int64

	srv *httptest.Server
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{
		loginOK:      true,
		refreshOK:    true,
		logoutStatus: http.StatusOK,
		token:        "token-1",
		user: map[string]string{
			"id":    "u1",
			"name":  "Admin",
			"email": "admin@everlast.test",
			"role":  "admin",
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		f.loginCalls.Add(1)
		f.mu.Lock()
		ok, token := f.loginOK, f.token
		f.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "Incorrect email or password"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: "refresh-1", Path: "/"})
		json.NewEncoder(w).Encode(map[string]string{"accessToken": token})
	})
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		f.refreshCalls.Add(1)
		f.mu.Lock()
		ok, token := f.refreshOK, f.token
		if f.refreshToken != "" {
			token = f.refreshToken
		}
		entered, hold := f.refreshEntered, f.refreshHold
		f.mu.Unlock()
		if entered != nil {
			entered <- struct{}{}
		}
		if hold != nil {
			<-hold
		}
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "Refresh token expired"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"accessToken": token})
	})
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		f.meCalls.Add(1)
		f.mu.Lock()
		user := f.user
		f.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{"user": user})
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		f.logoutCalls.Add(1)
		f.mu.Lock()
		status := f.logoutStatus
		f.mu.Unlock()
		w.WriteHeader(status)
	})

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) set(fn func(*fakeAPI)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func newTestStore(t *testing.T, f *fakeAPI) *Store {
	t.Helper()
	client, err := api.NewClient(api.Options{BaseURL: f.srv.URL})
	require.NoError(t, err)
	return New(client)
}

// signedToken mints a real JWT with the given expiry so Token can read the
// exp claim. The signature is never verified by the console.
func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	})
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestLogin_SetsUserAndTokenTogether(t *testing.T) {
	f := newFakeAPI(t)
	s := newTestStore(t, f)

	err := s.Login(context.Background(), "admin@everlast.test", "secret123")
	require.NoError(t, err)

	snap := s.Snapshot()
	require.NotNil(t, snap.User)
	assert.Equal(t, "token-1", snap.AccessToken)
	assert.Equal(t, api.RoleAdmin, snap.User.Role)
	assert.Equal(t, StatusAuthenticated, snap.Status)
	assert.False(t, snap.AuthInFlight)
	assert.Empty(t, snap.LastError)
}

func TestLogin_FailureLeavesStateUnchanged(t *testing.T) {
	f := newFakeAPI(t)
	s := newTestStore(t, f)

	// Establish a signed-in session first.
	require.NoError(t, s.Login(context.Background(), "admin@everlast.test", "secret123"))
	before := s.Snapshot()

	f.set(func(f *fakeAPI) { f.loginOK = false })

	err := s.Login(context.Background(), "admin@everlast.test", "wrong")
	require.ErrorIs(t, err, api.ErrInvalidCredentials)

	after := s.Snapshot()
	assert.Equal(t, before.User, after.User)
	assert.Equal(t, before.AccessToken, after.AccessToken)
	assert.Equal(t, StatusAuthenticated, after.Status)
	assert.False(t, after.AuthInFlight)
	assert.Equal(t, "Incorrect email or password", after.LastError)
}

func TestLogin_FailureFromFreshSession(t *testing.T) {
	f := newFakeAPI(t)
	f.set(func(f *fakeAPI) { f.loginOK = false })
	s := newTestStore(t, f)

	err := s.Login(context.Background(), "admin@everlast.test", "wrong")
	require.Error(t, err)

	snap := s.Snapshot()
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.AccessToken)
	assert.False(t, snap.AuthInFlight)
}

func TestLogin_MissingTokenWritesNoPartialState(t *testing.T) {
	// A 2xx login response with no accessToken must reject without touching
	// user or token.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	client, err := api.NewClient(api.Options{BaseURL: srv.URL})
	require.NoError(t, err)
	s := New(client)

	err = s.Login(context.Background(), "admin@everlast.test", "secret123")
	require.ErrorIs(t, err, api.ErrMissingToken)

	snap := s.Snapshot()
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.AccessToken)
	assert.False(t, snap.AuthInFlight)
}

func TestLogin_RejectsConcurrentAttempt(t *testing.T) {
	f := newFakeAPI(t)
	s := newTestStore(t, f)

	// Hold beginAuth manually to simulate an in-flight attempt.
	require.NoError(t, s.beginAuth())
	defer s.endAuth()

	err := s.Login(context.Background(), "admin@everlast.test", "secret123")
	assert.ErrorIs(t, err, ErrAuthInFlight)
	assert.Zero(t, f.loginCalls.Load(), "rejected attempt must not reach the API")
}

func TestRegister_SignsIn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/register":
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"accessToken": "token-r"})
		case "/auth/me":
			json.NewEncoder(w).Encode(map[string]any{"user": map[string]string{
				"id": "u9", "name": "New Client", "email": "new@everlast.test", "role": "client",
			}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client, err := api.NewClient(api.Options{BaseURL: srv.URL})
	require.NoError(t, err)
	s := New(client)

	err = s.Register(context.Background(), api.RegisterRequest{
		Name: "New Client", Email: "new@everlast.test", Password: "secret123",
	})
	require.NoError(t, err)

	snap := s.Snapshot()
	require.NotNil(t, snap.User)
	assert.Equal(t, api.RoleClient, snap.User.Role)
	assert.Equal(t, "token-r", snap.AccessToken)
}

func TestLogout_ClearsLocallyWhenNotifyFails(t *testing.T) {
	f := newFakeAPI(t)
	s := newTestStore(t, f)

	require.NoError(t, s.Login(context.Background(), "admin@everlast.test", "secret123"))
	f.set(func(f *fakeAPI) { f.logoutStatus = http.StatusInternalServerError })

	s.Logout(context.Background())

	snap := s.Snapshot()
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.AccessToken)
	assert.Equal(t, StatusUnauthenticated, snap.Status)
	assert.Equal(t, int64(1), f.logoutCalls.Load())
}

func TestRefresh_Success(t *testing.T) {
	f := newFakeAPI(t)
	s := newTestStore(t, f)

	err := s.Refresh(context.Background())
	require.NoError(t, err)

	snap := s.Snapshot()
	require.NotNil(t, snap.User)
	assert.Equal(t, "token-1", snap.AccessToken)
	assert.Equal(t, StatusAuthenticated, snap.Status)
}

func TestRefresh_FailureClearsSession(t *testing.T) {
	f := newFakeAPI(t)
	s := newTestStore(t, f)

	require.NoError(t, s.Login(context.Background(), "admin@everlast.test", "secret123"))
	f.set(func(f *fakeAPI) { f.refreshOK = false })

	err := s.Refresh(context.Background())
	require.Error(t, err)

	snap := s.Snapshot()
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.AccessToken)
	assert.Equal(t, StatusUnauthenticated, snap.Status)
	assert.Equal(t, "Refresh token expired", snap.LastError)
}

func TestLogout_SupersedesInFlightRefresh(t *testing.T) {
	f := newFakeAPI(t)
	s := newTestStore(t, f)

	require.NoError(t, s.Login(context.Background(), "admin@everlast.test", "secret123"))

	entered := make(chan struct{}, 1)
	hold := make(chan struct{})
	f.set(func(f *fakeAPI) {
		f.refreshEntered = entered
		f.refreshHold = hold
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = s.Refresh(context.Background())
	}()
	<-entered

	// Sign out while the refresh is pinned mid-flight.
	s.Logout(context.Background())
	snap := s.Snapshot()
	require.Nil(t, snap.User)
	require.Equal(t, StatusUnauthenticated, snap.Status)

	close(hold)
	wg.Wait()

	// The released refresh resolved successfully upstream, but its result
	// must be discarded: the session stays signed out.
	snap = s.Snapshot()
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.AccessToken)
	assert.Equal(t, StatusUnauthenticated, snap.Status)
}

func TestLogin_SupersedesInFlightRefresh(t *testing.T) {
	f := newFakeAPI(t)
	entered := make(chan struct{}, 1)
	hold := make(chan struct{})
	f.set(func(f *fakeAPI) {
		f.refreshToken = "token-stale"
		f.refreshEntered = entered
		f.refreshHold = hold
	})
	s := newTestStore(t, f)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = s.Refresh(context.Background())
	}()
	<-entered

	require.NoError(t, s.Login(context.Background(), "admin@everlast.test", "secret123"))

	close(hold)
	wg.Wait()

	// The refresh launched before the login must not revert the session to
	// the token it minted against the pre-login credential.
	snap := s.Snapshot()
	require.NotNil(t, snap.User)
	assert.Equal(t, "token-1", snap.AccessToken)
	assert.Equal(t, StatusAuthenticated, snap.Status)
}

func TestEnsureBootstrapped_RunsExactlyOnce(t *testing.T) {
	f := newFakeAPI(t)
	s := newTestStore(t, f)

	const callers = 8
	var wg sync.WaitGroup
	snaps := make([]Snapshot, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snaps[i] = s.EnsureBootstrapped(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), f.refreshCalls.Load(), "concurrent callers must share one attempt")
	for _, snap := range snaps {
		assert.Equal(t, StatusAuthenticated, snap.Status)
		assert.NotNil(t, snap.User)
	}

	// Later calls are pure reads.
	s.EnsureBootstrapped(context.Background())
	assert.Equal(t, int64(1), f.refreshCalls.Load())
}

func TestEnsureBootstrapped_NoCredentialIsNotAnError(t *testing.T) {
	f := newFakeAPI(t)
	f.set(func(f *fakeAPI) { f.refreshOK = false })
	s := newTestStore(t, f)

	snap := s.EnsureBootstrapped(context.Background())
	assert.Equal(t, StatusUnauthenticated, snap.Status)
	assert.Nil(t, snap.User)

	// The failed attempt is terminal: no retry on the next request.
	s.EnsureBootstrapped(context.Background())
	assert.Equal(t, int64(1), f.refreshCalls.Load())
}

func TestEnsureBootstrapped_MootAfterLogin(t *testing.T) {
	f := newFakeAPI(t)
	s := newTestStore(t, f)

	require.NoError(t, s.Login(context.Background(), "admin@everlast.test", "secret123"))

	snap := s.EnsureBootstrapped(context.Background())
	assert.Equal(t, StatusAuthenticated, snap.Status)
	assert.Zero(t, f.refreshCalls.Load(), "explicit login makes bootstrap moot")
}

func TestToken_Unauthenticated(t *testing.T) {
	f := newFakeAPI(t)
	s := newTestStore(t, f)

	_, err := s.Token(context.Background())
	assert.ErrorIs(t, err, api.ErrNoToken)
}

func TestToken_OpaqueTokenPassesThrough(t *testing.T) {
	f := newFakeAPI(t)
	s := newTestStore(t, f)

	require.NoError(t, s.Login(context.Background(), "admin@everlast.test", "secret123"))

	token, err := s.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", token)
	assert.Equal(t, int64(0), f.refreshCalls.Load())
}

func TestToken_RefreshesExpiredJWT(t *testing.T) {
	f := newFakeAPI(t)
	expired := signedToken(t, time.Now().Add(-time.Minute))
	f.set(func(f *fakeAPI) { f.token = expired })
	s := newTestStore(t, f)

	require.NoError(t, s.Login(context.Background(), "admin@everlast.test", "secret123"))

	fresh := signedToken(t, time.Now().Add(time.Hour))
	f.set(func(f *fakeAPI) { f.token = fresh })

	token, err := s.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fresh, token)
	assert.Equal(t, int64(1), f.refreshCalls.Load())
}
