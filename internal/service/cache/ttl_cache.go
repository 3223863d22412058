package cache

import (
	"context"
	"sync"
	"time"
)

type ttlEntry struct {
	value     []byte
	expiresAt time.Time
}

// TTLCache is an in-process BytesCache with per-entry expiry.
// Expired entries are reaped lazily on read and by a background sweep.
type TTLCache struct {
	mu      sync.RWMutex
	entries map[string]ttlEntry
	stop    chan struct{}
	once    sync.Once
}

func NewTTLCache(sweepInterval time.Duration) *TTLCache {
	c := &TTLCache{
		entries: make(map[string]ttlEntry),
		stop:    make(chan struct{}),
	}
	if sweepInterval > 0 {
		go c.sweep(sweepInterval)
	}
	return c
}

func (c *TTLCache) GetBytes(_ context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

func (c *TTLCache) SetBytes(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = ttlEntry{value: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

func (c *TTLCache) Delete(_ context.Context, key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

func (c *TTLCache) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *TTLCache) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case now := <-ticker.C:
			c.mu.Lock()
			for k, e := range c.entries {
				if now.After(e.expiresAt) {
					delete(c.entries, k)
				}
			}
			c.mu.Unlock()
		}
	}
}
