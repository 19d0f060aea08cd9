package analytics

import (
	"sync"
	"time"
)

// statsCache holds the last aggregated stats for a short time
type statsCache struct {
	mu          sync.RWMutex
	stats       []Stats
	lastRefresh time.Time
	valid       bool
	ttl         time.Duration
}

func newStatsCache(ttl time.Duration) *statsCache {
	return &statsCache{ttl: ttl}
}

// get returns cached stats if present and fresh
func (c *statsCache) get() ([]Stats, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.valid || time.Since(c.lastRefresh) > c.ttl {
		return nil, false
	}
	out := make([]Stats, len(c.stats))
	copy(out, c.stats)
	return out, true
}

func (c *statsCache) set(stats []Stats) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats = make([]Stats, len(stats))
	copy(c.stats, stats)
	c.lastRefresh = time.Now()
	c.valid = true
}

// invalidate drops the cached stats; called after every write
func (c *statsCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
	c.stats = nil
}
