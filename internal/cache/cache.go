// Package cache provides an in-memory TTL cache for pool state.
//
// Expiry runs on two independent paths: a background janitor reclaims
// memory on a fixed interval, and every read re-checks the entry's expiry
// instant. The read-side check is the freshness guarantee; the janitor is
// only reclamation.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache stores values under string keys with a per-entry TTL. A read at
// or past the expiry instant behaves as absent regardless of whether the
// janitor has run.
type Cache struct {
	backing *gocache.Cache
}

// New builds a Cache. defaultTTL applies when Set is called with a zero
// TTL; reapInterval is the janitor cadence.
func New(defaultTTL, reapInterval time.Duration) *Cache {
	return &Cache{backing: gocache.New(defaultTTL, reapInterval)}
}

// Set inserts or overwrites the entry. An overwrite supersedes the
// previous entry's expiry.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	c.backing.Set(key, value, ttl)
}

// Get returns the live value for key, or false when the key is missing
// or its TTL has elapsed.
func (c *Cache) Get(key string) (interface{}, bool) {
	return c.backing.Get(key)
}

// Delete removes the entry unconditionally; deleting an absent key is a
// no-op.
func (c *Cache) Delete(key string) {
	c.backing.Delete(key)
}

// Len reports the number of items held, expired entries not yet reaped
// included.
func (c *Cache) Len() int {
	return c.backing.ItemCount()
}
