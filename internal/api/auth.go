// ABOUTME: Authentication endpoints of the Everlast API
// ABOUTME: Login, register, silent refresh, identity fetch, logout notify

package api

import (
	"context"
	"net/http"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the signup payload for POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type meResponse struct {
	User *User `json:"user"`
}

// Login exchanges credentials for an access token. The API also sets the
// refresh cookie on the jar as a side effect. A 2xx response without an
// accessToken field is a failure (ErrMissingToken), never a success.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out tokenResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", "", credentialsRequest{
		Email:    email,
		Password: password,
	}, &out)
	if err != nil {
		return "", classify(err, ErrInvalidCredentials, "Login failed")
	}
	if out.AccessToken == "" {
		return "", &APIError{Kind: ErrMissingToken, Status: http.StatusOK, Message: "No access token returned"}
	}
	return out.AccessToken, nil
}

// Register creates an account and returns the initial access token, with the
// same token-presence contract as Login.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, error) {
	var out tokenResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/register", "", req, &out)
	if err != nil {
		return "", classify(err, ErrRegistrationFailed, "Registration failed")
	}
	if out.AccessToken == "" {
		return "", &APIError{Kind: ErrMissingToken, Status: http.StatusOK, Message: "No access token returned"}
	}
	return out.AccessToken, nil
}

// Refresh mints a new access token from the refresh cookie held in the jar.
// Failing here is the normal outcome for a visitor who has never logged in.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	var out tokenResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/refresh", "", nil, &out)
	if err != nil {
		return "", classify(err, ErrRefreshFailed, "Token refresh failed")
	}
	if out.AccessToken == "" {
		return "", &APIError{Kind: ErrMissingToken, Status: http.StatusOK, Message: "No access token returned"}
	}
	return out.AccessToken, nil
}

// Me fetches the identity record for the given access token.
func (c *Client) Me(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	var out meResponse
	err := c.doJSON(ctx, http.MethodGet, "/auth/me", token, nil, &out)
	if err != nil {
		return nil, classify(err, ErrIdentityFetch, "Failed to fetch user")
	}
	if out.User == nil {
		return nil, &APIError{Kind: ErrIdentityFetch, Status: http.StatusOK, Message: "User data not found"}
	}
	return out.User, nil
}

// Logout notifies the API so it can invalidate the refresh credential.
// Callers treat failures as best-effort; local sign-out proceeds regardless.
func (c *Client) Logout(ctx context.Context, token string) error {
	err := c.doJSON(ctx, http.MethodPost, "/auth/logout", token, nil, nil)
	if err != nil {
		return classify(err, ErrRequestFailed, "Logout failed")
	}
	return nil
}
