package settings

import (
	"context"
	"sync"
	"time"

	"github.com/portfoliokit/portfolio/pkg/logger"
	"github.com/portfoliokit/portfolio/pkg/metrics"
)

// DefaultTTL is the freshness window after which Get refreshes the snapshot.
const DefaultTTL = 60 * time.Second

// Cache is a read-through cache in front of the singleton settings document.
// It is owned by the composition root and injected into handlers; page
// renders call Get and profile-save paths call Invalidate.
//
// Snapshots are replaced wholesale under the lock and must be treated as
// read-only by callers. A failed reload keeps serving the last good snapshot;
// if nothing ever loaded, Get returns typed defaults instead of an error so a
// storage outage never breaks page rendering.
type Cache struct {
	repo Repository
	ttl  time.Duration

	mu       sync.RWMutex
	snapshot *Settings
	loadedAt time.Time

	// lastGood survives Invalidate so a failed reload degrades to stale
	// data instead of defaults
	lastGood *Settings
}

func NewCache(repo Repository, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{repo: repo, ttl: ttl}
}

// Get returns the current settings snapshot, reloading from the repository
// when the cached entry is empty or older than the freshness window.
// Concurrent callers hitting a stale entry may each trigger a reload; reads
// are idempotent so the duplicate loads are redundant, not harmful.
func (c *Cache) Get(ctx context.Context) *Settings {
	c.mu.RLock()
	snap, loadedAt := c.snapshot, c.loadedAt
	c.mu.RUnlock()

	if snap != nil && time.Since(loadedAt) < c.ttl {
		return snap
	}

	loaded, err := c.repo.Get(ctx)
	if err != nil {
		c.mu.RLock()
		fallback := c.lastGood
		c.mu.RUnlock()
		metrics.SettingsCacheReloads.WithLabelValues("error").Inc()
		logger.Warnf("settings reload failed, serving %s: %v", describeFallback(fallback), err)
		if fallback != nil {
			return fallback
		}
		return Defaults()
	}
	metrics.SettingsCacheReloads.WithLabelValues("ok").Inc()

	c.mu.Lock()
	c.snapshot = loaded
	c.lastGood = loaded
	c.loadedAt = time.Now()
	c.mu.Unlock()
	return loaded
}

// Invalidate clears the cached entry unconditionally; the next Get forces a
// reload. Called by write paths after a successful settings save.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.snapshot = nil
	c.loadedAt = time.Time{}
	c.mu.Unlock()
}

func describeFallback(snap *Settings) string {
	if snap != nil {
		return "stale snapshot"
	}
	return "defaults"
}
