// Package memcache is an in-memory feeds.Cache used by the CLI and tests.
// Published interface metadata is read-only: a feed import builds a fresh
// Interface and swaps it in under the lock, so readers on other goroutines
// only ever see complete documents. Nothing is evicted during a process run.
package memcache

import (
	"sync"

	"github.com/agentstation/utc"

	"github.com/agentstation/lodestar/pkg/feeds"
)

// Cache is a mutable in-memory metadata cache.
type Cache struct {
	mu         sync.RWMutex
	interfaces map[string]*feeds.Interface
	feeds      map[string]*feeds.Feed
	attempts   map[string]utc.Time

	// now is the clock used for check attempts; injectable for tests.
	now func() utc.Time
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		interfaces: make(map[string]*feeds.Interface),
		feeds:      make(map[string]*feeds.Feed),
		attempts:   make(map[string]utc.Time),
		now:        utc.Now,
	}
}

// Interface returns the currently published metadata for uri, creating an
// empty placeholder on first reference. The returned instance must be treated
// as read-only; PutInterface publishes updates.
func (c *Cache) Interface(uri string) *feeds.Interface {
	c.mu.Lock()
	defer c.mu.Unlock()
	if iface, ok := c.interfaces[uri]; ok {
		return iface
	}
	iface := &feeds.Interface{URI: uri}
	c.interfaces[uri] = iface
	return iface
}

// PutInterface publishes iface as the current metadata for its URI, replacing
// any previous instance. Later Interface calls return the new instance.
func (c *Cache) PutInterface(iface *feeds.Interface) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interfaces[iface.URI] = iface
}

// Feed returns the cached feed for url, if it has ever been recorded.
func (c *Cache) Feed(url string) (*feeds.Feed, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.feeds[url]
	return f, ok
}

// PutFeed records (or replaces) a cached feed.
func (c *Cache) PutFeed(f *feeds.Feed) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.feeds[f.URL] = f
}

// LastCheckAttempt returns when url was last checked, successfully or not.
func (c *Cache) LastCheckAttempt(url string) (utc.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.attempts[url]
	return t, ok
}

// MarkCheckAttempt records that a check of url is being attempted now.
func (c *Cache) MarkCheckAttempt(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attempts[url] = c.now()
}

// SetClock overrides the clock used for check attempts.
func (c *Cache) SetClock(now func() utc.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
