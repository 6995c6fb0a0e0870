package server

import (
	"sync"
	"time"

	"github.com/mj1618/wsbar/internal/bar"
	"github.com/mj1618/wsbar/internal/render"
)

// StateCache holds the last captured snapshot of a bar for a short TTL so
// repeated reads do not contend with the event loop for the bar lock.
type StateCache struct {
	mu        sync.Mutex
	snap      render.Snapshot
	timestamp time.Time
	valid     bool
	ttl       time.Duration
}

// NewStateCache creates a new cache. A ttl of 0 disables caching.
func NewStateCache(ttl time.Duration) *StateCache {
	return &StateCache{ttl: ttl}
}

// Snapshot returns the cached snapshot if within TTL, otherwise captures
// a fresh one.
func (c *StateCache) Snapshot(b *bar.Bar) render.Snapshot {
	if c.ttl == 0 {
		return render.Capture(b)
	}

	c.mu.Lock()
	if c.valid && time.Since(c.timestamp) < c.ttl {
		snap := c.snap
		c.mu.Unlock()
		return snap
	}
	c.mu.Unlock()

	snap := render.Capture(b)

	c.mu.Lock()
	c.snap, c.timestamp, c.valid = snap, time.Now(), true
	c.mu.Unlock()

	return snap
}

// Invalidate drops the cached snapshot.
func (c *StateCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
}
