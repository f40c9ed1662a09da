// Package transport implements the authenticated HTTP client for the
// Studio backend: credential propagation, the CSRF token handshake, and a
// uniform response-interception pipeline. Every operation either succeeds
// with a status in {200, 201, 202} or returns an *APIError after the user
// has been notified exactly once.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/studioweb/studioclient"
	"github.com/studioweb/studioclient/notify"
	"github.com/studioweb/studioclient/session"
)

const (
	// csrfCookieName and csrfHeaderName are the fixed pair the client and
	// server agree on: the server sets the cookie, the client mirrors it
	// into the header on every request.
	csrfCookieName = "XSRF-TOKEN"
	csrfHeaderName = "X-XSRF-TOKEN"

	requestIDHeader = "X-Request-ID"
)

// Client is the single point of outbound communication with the backend.
// It owns base-address selection, content negotiation, and cookie
// propagation, and it is safe for concurrent use.
type Client struct {
	base     *url.URL
	http     *http.Client
	notifier notify.Notifier
	sessions session.Store
	log      *zap.Logger
	redirect func(path string)

	csrfOnce sync.Once
	csrfErr  error

	settingsTTL time.Duration
	settings    settingsCache

	mu  sync.Mutex
	sid string
}

// Option is a functional option for configuring a Client.
type Option func(*Client)

// WithNotifier sets the sink for user-facing messages.
func WithNotifier(n notify.Notifier) Option {
	return func(c *Client) {
		c.notifier = n
	}
}

// WithSessionStore wires a session store that the client populates on
// login and settings fetches. Without one the payloads are only returned
// to the caller.
func WithSessionStore(s session.Store) Option {
	return func(c *Client) {
		c.sessions = s
	}
}

// WithLogger sets the logger for transport-level diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithRedirect sets the navigation hook invoked after logout. The default
// does nothing; an embedding UI points this at its router.
func WithRedirect(fn func(path string)) Option {
	return func(c *Client) {
		c.redirect = fn
	}
}

// WithSettingsCacheTTL enables caching of the settings payload for the
// given duration. Off by default so every FetchSettings hits the backend.
func WithSettingsCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.settingsTTL = ttl
	}
}

// WithHTTPClient replaces the underlying HTTP client. A cookie jar is
// attached if the given client has none, since credential propagation
// depends on one.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a Client for the base address resolved from cfg.
func New(cfg studioclient.Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base, err := url.Parse(strings.TrimRight(cfg.ResolveBaseURL(), "/"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	c := &Client{
		base:     base,
		redirect: func(string) {},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.log == nil {
		c.log = zap.NewNop()
	}
	if c.notifier == nil {
		c.notifier = notify.NewZapNotifier(c.log)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: cfg.RequestTimeout}
	}
	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		c.http.Jar = jar
	}

	return c, nil
}

// SID returns the last realtime session identifier successfully registered
// with the backend, or empty. Diagnostic only, not security-sensitive.
func (c *Client) SID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sid
}

func (c *Client) setSID(sid string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sid = sid
}

// csrfToken reads the current anti-forgery token from the cookie jar.
// The token is never read from response bodies, only from the cookie the
// server sets.
func (c *Client) csrfToken() string {
	for _, ck := range c.http.Jar.Cookies(c.base) {
		if ck.Name == csrfCookieName {
			return ck.Value
		}
	}
	return ""
}

// do performs one request and runs its response through the interception
// pipeline. A nil error means transport success AND an accepted status;
// any other outcome has been reported to the notifier exactly once before
// do returns. A cancelled context short-circuits without touching the
// pipeline, so cancellation produces no phantom notifications.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())
	if tok := c.csrfToken(); tok != "" {
		req.Header.Set(csrfHeaderName, tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, c.fail(&APIError{
			Kind:    KindTransport,
			Message: transportMessage(err),
			Err:     err,
		})
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, c.fail(&APIError{
			Kind:    KindTransport,
			Message: transportMessage(err),
			Err:     err,
		})
	}

	if accepted(resp.StatusCode) {
		return raw, nil
	}

	var env envelope
	_ = json.Unmarshal(raw, &env)
	return nil, c.fail(&APIError{
		Kind:    KindApplication,
		Status:  resp.StatusCode,
		Message: failureMessage(env.Error, resp.StatusCode),
	})
}

// fail notifies the user and hands the error back for propagation.
func (c *Client) fail(e *APIError) error {
	c.log.Debug("request failed",
		zap.Stringer("kind", e.Kind),
		zap.Int("status", e.Status),
		zap.String("message", e.Message),
	)
	c.notifier.Error(e.Message)
	return e
}

// rejectLocal reports a validation failure and aborts before any network
// call is made.
func (c *Client) rejectLocal(msg string) error {
	c.notifier.Error(msg)
	return &APIError{Kind: KindValidation, Message: msg}
}
