package session

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// StoreOption is a functional option for configuring a session store.
type StoreOption func(*storeConfig)

// storeConfig holds configuration for session stores.
type storeConfig struct {
	storeName   string
	filePath    string
	redisClient *redis.Client
	redisTTL    time.Duration
}

// WithStoreName sets the name the persisted record is keyed by.
// Default: "session".
func WithStoreName(name string) StoreOption {
	return func(c *storeConfig) {
		c.storeName = name
	}
}

// WithFilePath sets the path of the backing file for the file store.
func WithFilePath(path string) StoreOption {
	return func(c *storeConfig) {
		c.filePath = path
	}
}

// WithRedisClient sets the Redis client for the Redis store.
func WithRedisClient(client *redis.Client) StoreOption {
	return func(c *storeConfig) {
		c.redisClient = client
	}
}

// WithRedisTTL sets the TTL for Redis keys.
func WithRedisTTL(ttl time.Duration) StoreOption {
	return func(c *storeConfig) {
		c.redisTTL = ttl
	}
}
