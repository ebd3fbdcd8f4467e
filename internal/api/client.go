// ABOUTME: HTTP client for the Everlast REST API with per-session cookie jar
// ABOUTME: The jar carries the long-lived refresh credential minted by the API

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// DefaultRefreshCookieName is the cookie the API sets on login/refresh.
const DefaultRefreshCookieName = "refreshToken"

// DefaultTimeout bounds every API round-trip. A hung upstream call must not
// pin a console request forever.
const DefaultTimeout = 15 * time.Second

// Options configures a Client.
type Options struct {
	// BaseURL is the API root, e.g. "https://api.everlastcargo.com".
	BaseURL string
	// Timeout bounds each request. Zero means DefaultTimeout.
	Timeout time.Duration
	// RefreshCookieName overrides DefaultRefreshCookieName.
	RefreshCookieName string
}

// Client talks to the Everlast REST API on behalf of a single console session.
// Each browser session owns its own Client so the refresh credential in the
// cookie jar never leaks between users.
type Client struct {
	base          *url.URL
	http          *http.Client
	jar           *cookiejar.Jar
	refreshCookie string
	logger        *slog.Logger
}

// NewClient creates a Client for the given API base URL.
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("api: base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("api: parsing base URL: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("api: creating cookie jar: %w", err)
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	name := opts.RefreshCookieName
	if name == "" {
		name = DefaultRefreshCookieName
	}

	return &Client{
		base: base,
		http: &http.Client{
			Jar:     jar,
			Timeout: timeout,
		},
		jar:           jar,
		refreshCookie: name,
		logger:        slog.Default().With("component", "api"),
	}, nil
}

// RefreshCookie returns the current refresh credential value from the jar,
// if the API has issued one. Used to persist console sessions across restarts.
func (c *Client) RefreshCookie() (string, bool) {
	for _, ck := range c.jar.Cookies(c.base) {
		if ck.Name == c.refreshCookie && ck.Value != "" {
			return ck.Value, true
		}
	}
	return "", false
}

// SetRefreshCookie primes the jar with a previously persisted refresh
// credential so a restored session can silently re-authenticate.
func (c *Client) SetRefreshCookie(value string) {
	c.jar.SetCookies(c.base, []*http.Cookie{{
		Name:  c.refreshCookie,
		Value: value,
		Path:  "/",
	}})
}

// errorBody is the JSON shape of API failure responses.
type errorBody struct {
	Message string `json:"message"`
}

// doJSON performs one API round-trip. A bearer header is attached when token
// is non-empty. Non-2xx responses are returned as *httpError with the
// upstream message field; decoding failures on the error body are tolerated.
func (c *Client) doJSON(ctx context.Context, method, path, token string, body, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		c.logger.Debug("api request failed",
			"method", method, "path", path, "status", resp.StatusCode)
		return &httpError{status: resp.StatusCode, message: eb.Message}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
