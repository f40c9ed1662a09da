package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisStore implements Store using Redis with optimistic locking, for
// deployments where the session record is shared across processes.
type redisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func (s *redisStore) mutate(ctx context.Context, fn func(*Session)) error {
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		sess := &Session{}

		val, err := tx.Get(ctx, s.key).Result()
		if err != nil && err != redis.Nil {
			return fmt.Errorf("failed to read session: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal([]byte(val), sess); err != nil {
				return fmt.Errorf("failed to decode session: %w", err)
			}
		}

		fn(sess)
		sess.Version++
		sess.UpdatedAt = time.Now()

		raw, err := json.Marshal(sess)
		if err != nil {
			return fmt.Errorf("failed to encode session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.key, raw, s.ttl)
			return nil
		})
		return err
	}, s.key)

	if err == redis.TxFailedErr {
		return ErrVersionConflict
	}
	return err
}

// SetUser implements Store.
func (s *redisStore) SetUser(ctx context.Context, user User, authenticated bool) error {
	return s.mutate(ctx, func(sess *Session) {
		sess.User = user
		v := authenticated
		sess.IsAuthenticated = &v
	})
}

// SetToken implements Store.
func (s *redisStore) SetToken(ctx context.Context, token string) error {
	return s.mutate(ctx, func(sess *Session) {
		sess.Token = token
	})
}

// SetSetting implements Store.
func (s *redisStore) SetSetting(ctx context.Context, settings Settings) error {
	return s.mutate(ctx, func(sess *Session) {
		sess.Settings = settings
	})
}

// ClearSession implements Store.
func (s *redisStore) ClearSession(ctx context.Context) error {
	return s.mutate(ctx, clearIdentity)
}

// Reset implements Store.
func (s *redisStore) Reset(ctx context.Context) error {
	return s.mutate(ctx, resetAll)
}

// Get implements Store.
func (s *redisStore) Get(ctx context.Context) (*Session, error) {
	val, err := s.client.Get(ctx, s.key).Result()
	if err == redis.Nil {
		return &Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	// Refresh TTL on read
	_ = s.client.Expire(ctx, s.key, s.ttl).Err()

	return &sess, nil
}

// Close implements Store.
func (s *redisStore) Close() error {
	return s.client.Close()
}

// Compile-time checks that all drivers implement Store.
var (
	_ Store = (*memoryStore)(nil)
	_ Store = (*fileStore)(nil)
	_ Store = (*redisStore)(nil)
)
