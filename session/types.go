package session

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

// User is the opaque profile record returned by the backend on login.
// The client never interprets its contents beyond persisting them.
type User map[string]any

// Settings is the opaque settings blob returned by the settings endpoint.
type Settings map[string]any

// Decode projects the settings blob into a typed struct. Field matching
// follows json tags, and scalar types are coerced leniently because the
// backend serves settings values as strings in several places.
func (s Settings) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to build settings decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(s)); err != nil {
		return fmt.Errorf("failed to decode settings: %w", err)
	}
	return nil
}

// Session is the persisted session record.
//
// PERSISTED FIELDS:
// - User: opaque profile, present only after a successful login
// - IsAuthenticated: tri-state; nil means unknown (never resolved)
// - Token: opaque auth token string
// - Settings: opaque settings blob, independent lifecycle
// - UpdatedAt, Version: bookkeeping; Version increases monotonically and
//   backs optimistic locking in the redis driver
type Session struct {
	User            User      `json:"user,omitempty"`
	IsAuthenticated *bool     `json:"is_authenticated,omitempty"`
	Token           string    `json:"token,omitempty"`
	Settings        Settings  `json:"settings,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
	Version         int64     `json:"version"`
}

// Authenticated reports whether the flag has been resolved to true.
func (s *Session) Authenticated() bool {
	return s.IsAuthenticated != nil && *s.IsAuthenticated
}

// clone returns a copy safe to hand out: map fields are copied one level
// down so callers cannot mutate stored state.
func (s *Session) clone() *Session {
	out := *s
	if s.User != nil {
		out.User = make(User, len(s.User))
		for k, v := range s.User {
			out.User[k] = v
		}
	}
	if s.Settings != nil {
		out.Settings = make(Settings, len(s.Settings))
		for k, v := range s.Settings {
			out.Settings[k] = v
		}
	}
	if s.IsAuthenticated != nil {
		v := *s.IsAuthenticated
		out.IsAuthenticated = &v
	}
	return &out
}
