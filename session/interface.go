package session

import "context"

// Store is the single source of truth for the current session. All mutation
// of session state goes through these operations; no other code path writes
// the underlying record.
type Store interface {
	// SetUser records the user profile and the authentication flag from a
	// login/identity payload. Token and settings are left untouched.
	SetUser(ctx context.Context, user User, authenticated bool) error

	// SetToken records the auth token. Decoupled from SetUser because token
	// issuance and identity resolution may arrive from different calls.
	SetToken(ctx context.Context, token string) error

	// SetSetting records the settings blob. Its lifecycle is independent of
	// authentication; a session is valid without settings.
	SetSetting(ctx context.Context, settings Settings) error

	// ClearSession resets user and token to empty. It deliberately leaves
	// the authentication flag and settings in place, matching the behavior
	// the backend's UI has always depended on. Use Reset for a full wipe.
	ClearSession(ctx context.Context) error

	// Reset returns the store to its pristine unauthenticated state: all
	// four fields empty.
	Reset(ctx context.Context) error

	// Get retrieves a copy of the current session. A store that has never
	// been written returns an empty session, not an error.
	Get(ctx context.Context) (*Session, error)

	// Close closes the store and releases any resources.
	Close() error
}
