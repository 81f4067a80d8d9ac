package apiclient

import (
	"context"
	"log/slog"
	"net/http"
)

// Login exchanges credentials for a bearer token and the user's profile.
// Attempts are throttled client-side before any request is sent, so a
// misbehaving caller cannot hammer the password endpoint.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	if !c.loginLimiter.Allow() {
		return nil, ErrLoginThrottled
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/login", LoginRequest{
		Email:    email,
		Password: password,
	}, nil)
	if err != nil {
		return nil, err
	}

	var out LoginResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}

	return &out, nil
}

// Register creates a new account. The backend answers with a plain
// confirmation string, which the caller does not need.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/register", req, nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil, http.StatusOK)
}

// CurrentUser fetches the profile behind the installed credential. Used for
// startup verification, the post-login fetch and session refresh.
func (c *Client) CurrentUser(ctx context.Context) (*UserProfile, error) {
	var user UserProfile
	if err := c.get(ctx, "/auth/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout tells the backend the session ended. Best-effort: failures are
// logged and swallowed, since logout must always succeed locally whether or
// not the backend is reachable.
func (c *Client) Logout(ctx context.Context) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/auth/logout", nil, nil)
	if err != nil {
		slog.Warn("backend logout failed", "error", err)
		return
	}
	if err := decodeJSON(resp, nil, http.StatusOK); err != nil {
		slog.Warn("backend logout rejected", "error", err)
	}
}
