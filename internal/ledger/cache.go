package ledger

import (
	"sync"
	"time"
)

// DefaultCacheTTL bounds cross-process staleness of the active-count
// board. Writes from the same process invalidate immediately; writes from
// other operators become visible within this window.
const DefaultCacheTTL = 5 * time.Second

// countCache caches per-material active drum counts so the dashboard does
// not trigger a full collection scan per interaction. Invalidation is
// write-through: mutations clear the cache rather than patching it.
type countCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	counts  map[string]int
	expires time.Time
}

func newCountCache(ttl time.Duration) *countCache {
	return &countCache{ttl: ttl}
}

// get returns a copy of the cached counts, or nil when the cache is empty
// or past its TTL.
func (c *countCache) get() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.counts == nil || time.Now().After(c.expires) {
		return nil
	}
	out := make(map[string]int, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}

func (c *countCache) set(counts map[string]int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counts = counts
	c.expires = time.Now().Add(c.ttl)
}

func (c *countCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counts = nil
}
