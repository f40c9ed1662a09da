package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// StoreType represents the type of session store.
type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeFile   StoreType = "file"
	StoreTypeRedis  StoreType = "redis"
)

// defaultStoreName keys the persisted record. It is fixed so that reloads
// of the same application find the same session.
const defaultStoreName = "session"

// NewStore creates a new Store of the given type.
// Supports "memory", "file" and "redis" driver types.
// The file store persists across restarts; it requires WithFilePath (or
// falls back to "<store name>.json" in the working directory).
// The redis store requires WithRedisClient.
func NewStore(storeType StoreType, opts ...StoreOption) (Store, error) {
	config := &storeConfig{}

	// Apply options
	for _, opt := range opts {
		opt(config)
	}
	if config.storeName == "" {
		config.storeName = defaultStoreName
	}

	switch storeType {
	case StoreTypeMemory:
		return &memoryStore{current: &Session{}}, nil

	case StoreTypeFile:
		path := config.filePath
		if path == "" {
			path = config.storeName + ".json"
		}
		s := &fileStore{path: path, current: &Session{}}
		if err := s.load(); err != nil {
			return nil, err
		}
		return s, nil

	case StoreTypeRedis:
		if config.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		ttl := config.redisTTL
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		return &redisStore{
			client: config.redisClient,
			key:    "session:" + config.storeName,
			ttl:    ttl,
		}, nil

	default:
		return nil, ErrInvalidStoreType
	}
}

// memoryStore implements Store with an in-process record. State does not
// survive a restart; it exists for tests and embedded use.
type memoryStore struct {
	mu      sync.RWMutex
	current *Session
}

func (s *memoryStore) mutate(fn func(*Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(s.current)
	s.current.Version++
	s.current.UpdatedAt = time.Now()
	return nil
}

// SetUser implements Store.
func (s *memoryStore) SetUser(ctx context.Context, user User, authenticated bool) error {
	return s.mutate(func(sess *Session) {
		sess.User = user
		v := authenticated
		sess.IsAuthenticated = &v
	})
}

// SetToken implements Store.
func (s *memoryStore) SetToken(ctx context.Context, token string) error {
	return s.mutate(func(sess *Session) {
		sess.Token = token
	})
}

// SetSetting implements Store.
func (s *memoryStore) SetSetting(ctx context.Context, settings Settings) error {
	return s.mutate(func(sess *Session) {
		sess.Settings = settings
	})
}

// ClearSession implements Store. User and token only; see Store.
func (s *memoryStore) ClearSession(ctx context.Context) error {
	return s.mutate(clearIdentity)
}

// Reset implements Store.
func (s *memoryStore) Reset(ctx context.Context) error {
	return s.mutate(resetAll)
}

// Get implements Store.
func (s *memoryStore) Get(ctx context.Context) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.clone(), nil
}

// Close implements Store.
func (s *memoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &Session{}
	return nil
}

// fileStore implements Store with a JSON file, so the session survives
// application restarts in the same environment.
type fileStore struct {
	mu      sync.RWMutex
	path    string
	current *Session
}

func (s *fileStore) load() error {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read session file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return fmt.Errorf("failed to decode session file: %w", err)
	}
	s.current = &sess
	return nil
}

func (s *fileStore) mutate(fn func(*Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(s.current)
	s.current.Version++
	s.current.UpdatedAt = time.Now()

	raw, err := json.Marshal(s.current)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	// Write-then-rename keeps a crashed write from corrupting the record.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}

// SetUser implements Store.
func (s *fileStore) SetUser(ctx context.Context, user User, authenticated bool) error {
	return s.mutate(func(sess *Session) {
		sess.User = user
		v := authenticated
		sess.IsAuthenticated = &v
	})
}

// SetToken implements Store.
func (s *fileStore) SetToken(ctx context.Context, token string) error {
	return s.mutate(func(sess *Session) {
		sess.Token = token
	})
}

// SetSetting implements Store.
func (s *fileStore) SetSetting(ctx context.Context, settings Settings) error {
	return s.mutate(func(sess *Session) {
		sess.Settings = settings
	})
}

// ClearSession implements Store.
func (s *fileStore) ClearSession(ctx context.Context) error {
	return s.mutate(clearIdentity)
}

// Reset implements Store.
func (s *fileStore) Reset(ctx context.Context) error {
	return s.mutate(resetAll)
}

// Get implements Store.
func (s *fileStore) Get(ctx context.Context) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.clone(), nil
}

// Close implements Store.
func (s *fileStore) Close() error {
	return nil
}

// clearIdentity empties user and token. Authentication flag and settings
// are intentionally untouched; callers that want a full wipe use Reset.
func clearIdentity(sess *Session) {
	sess.User = nil
	sess.Token = ""
}

// resetAll returns the record to the pristine unauthenticated state.
func resetAll(sess *Session) {
	sess.User = nil
	sess.IsAuthenticated = nil
	sess.Token = ""
	sess.Settings = nil
}
