// ABOUTME: Thread-safe TTL cache for deduplicating worker answer deliveries
// ABOUTME: Retried deliveries inside the TTL window are dropped before they republish

package dedupe

import (
	"sync"
	"time"
)

// Cache tracks recently seen delivery keys so retried worker writes don't
// trigger redundant snapshot publishes. Entries expire after the TTL; when
// the cache is at capacity the expired and oldest entries are swept out.
type Cache struct {
	mu      sync.Mutex
	seen    map[string]time.Time
	ttl     time.Duration
	maxSize int
	done    chan struct{}
	closed  bool
}

// New creates a dedupe cache. A background goroutine sweeps expired entries.
func New(ttl time.Duration, maxSize int) *Cache {
	c := &Cache{
		seen:    make(map[string]time.Time),
		ttl:     ttl,
		maxSize: maxSize,
		done:    make(chan struct{}),
	}
	go c.sweepLoop()
	return c
}

// CheckAndMark atomically reports whether the key was already seen inside
// the TTL window, marking it if not. Returns true for duplicates.
func (c *Cache) CheckAndMark(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if at, ok := c.seen[key]; ok && now.Sub(at) < c.ttl {
		return true
	}

	if len(c.seen) >= c.maxSize {
		c.evictLocked(now)
	}
	c.seen[key] = now
	return false
}

// Forget drops a key so the next delivery of it is not treated as a
// duplicate. Used when the write behind a marked delivery fails and the
// retry must be allowed through.
func (c *Cache) Forget(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.seen, key)
}

// evictLocked drops expired entries, and if that freed nothing, the single
// oldest entry. Must be called with mu held.
func (c *Cache) evictLocked(now time.Time) {
	var oldestKey string
	var oldestAt time.Time
	for key, at := range c.seen {
		if now.Sub(at) >= c.ttl {
			delete(c.seen, key)
			continue
		}
		if oldestKey == "" || at.Before(oldestAt) {
			oldestKey, oldestAt = key, at
		}
	}
	if len(c.seen) >= c.maxSize && oldestKey != "" {
		delete(c.seen, oldestKey)
	}
}

func (c *Cache) sweepLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, at := range c.seen {
				if now.Sub(at) >= c.ttl {
					delete(c.seen, key)
				}
			}
			c.mu.Unlock()
		case <-c.done:
			return
		}
	}
}

// Close stops the background sweeper. Safe to call multiple times.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		close(c.done)
		c.closed = true
	}
}
