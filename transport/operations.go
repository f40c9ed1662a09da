package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/studioweb/studioclient/session"
	"github.com/studioweb/studioclient/validate"
)

// Endpoint paths are contract with the backend, not implementation detail.
const (
	pathCSRF     = "/csrf"
	pathLogin    = "/api/v1/auth/login"
	pathLogout   = "/api/v1/auth/logout"
	pathSID      = "/user/sio-sid"
	pathSettings = "/api/settings/"
)

// LoginResult is the payload of a successful login.
type LoginResult struct {
	User            session.User `json:"user"`
	IsAuthenticated bool         `json:"is_authenticated"`
	Token           string       `json:"token"`
	TokenType       string       `json:"token_type"`
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sidPayload struct {
	SID string `json:"sid"`
}

// InitCSRF performs the anti-forgery handshake so the server can set the
// CSRF cookie. It runs at most once per client lifetime and is best
// effort: errors are intentionally discarded by typical callers, because
// a missing token surfaces later as an authorization failure on the first
// mutating call, not as a startup error. The handshake bypasses the
// interception pipeline entirely and never notifies.
func (c *Client) InitCSRF(ctx context.Context) error {
	c.csrfOnce.Do(func() {
		c.csrfErr = c.csrfHandshake(ctx)
	})
	return c.csrfErr
}

func (c *Client) csrfHandshake(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base.String()+pathCSRF, nil)
	if err != nil {
		return fmt.Errorf("failed to build csrf request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("csrf handshake failed: %w", err)
	}
	defer resp.Body.Close()

	// Body ignored; the token travels in the cookie the jar just captured.
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Login authenticates with the backend. Both fields are validated locally
// first; a validation failure is notified and returns without a network
// call. On success the session store (when wired) is populated and one
// success notification fires.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = validate.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, c.rejectLocal("Email and password are required!")
	}
	if !validate.IsValidEmail(email) {
		return nil, c.rejectLocal("Email is invalid!")
	}

	raw, err := c.do(ctx, http.MethodPost, pathLogin, loginPayload{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	var res LoginResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("failed to decode login response: %w", err)
	}

	if c.sessions != nil {
		if err := c.sessions.SetUser(ctx, res.User, res.IsAuthenticated); err != nil {
			return nil, fmt.Errorf("failed to record user: %w", err)
		}
		if res.Token != "" {
			if err := c.sessions.SetToken(ctx, res.Token); err != nil {
				return nil, fmt.Errorf("failed to record token: %w", err)
			}
		}
	}

	c.notifier.Success("Logged in successfully")
	return &res, nil
}

// RegisterRealtimeSession associates a realtime channel identifier with
// the authenticated session so the backend can correlate the push channel
// with the HTTP session. Each (re)connect of the channel issues a fresh
// sid, and the caller re-invokes this on every successful connect.
func (c *Client) RegisterRealtimeSession(ctx context.Context, sid string) error {
	if sid == "" {
		return c.rejectLocal("Realtime session id not found!")
	}

	if _, err := c.do(ctx, http.MethodPost, pathSID, sidPayload{SID: sid}); err != nil {
		return err
	}

	c.setSID(sid)
	return nil
}

// Logout ends the session server-side, then treats the session as terminal
// regardless of the response body: it notifies success and navigates to
// the unauthenticated entry point via the redirect hook.
func (c *Client) Logout(ctx context.Context) error {
	if _, err := c.do(ctx, http.MethodPost, pathLogout, nil); err != nil {
		return err
	}

	c.settings.invalidate()
	c.notifier.Success("Logged out successfully")
	c.redirect("/")
	return nil
}

// FetchSettings returns the settings payload for the current session and
// records it in the session store when one is wired. No local validation;
// failures propagate through the pipeline only. With a settings cache TTL
// configured, a fresh cached payload is served without a round-trip.
func (c *Client) FetchSettings(ctx context.Context) (session.Settings, error) {
	if cached := c.settings.get(); cached != nil {
		return cached, nil
	}

	raw, err := c.do(ctx, http.MethodGet, pathSettings, nil)
	if err != nil {
		return nil, err
	}

	var settings session.Settings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}

	if c.sessions != nil {
		if err := c.sessions.SetSetting(ctx, settings); err != nil {
			return nil, fmt.Errorf("failed to record settings: %w", err)
		}
	}

	c.settings.put(settings, c.settingsTTL)
	return settings, nil
}
