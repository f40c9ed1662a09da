package transport

import (
	"sync"
	"time"

	"github.com/studioweb/studioclient/session"
)

// settingsCache holds the last settings payload for a bounded time so the
// UI can re-read settings without a round-trip. Disabled unless a TTL is
// configured; the zero value never serves anything.
type settingsCache struct {
	mu        sync.RWMutex
	value     session.Settings
	expiresAt time.Time
}

func (c *settingsCache) get() session.Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.value != nil && time.Now().Before(c.expiresAt) {
		return c.value
	}
	return nil
}

func (c *settingsCache) put(value session.Settings, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = value
	c.expiresAt = time.Now().Add(ttl)
}

func (c *settingsCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = nil
	c.expiresAt = time.Time{}
}
