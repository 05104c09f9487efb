package cache

import (
	"time"

	"poolPulse/internal/model"
)

const (
	poolKeyPrefix = "pool:"
	allPoolsKey   = "pools:all"
)

// PoolCache layers pool-state keys over Cache. Per-pool entries and the
// aggregate entry share one TTL, matched to the polling interval so a
// snapshot never outlives the round that produced it by more than one
// cycle. The aggregate is a denormalized copy for cheap broadcast, not a
// second source of truth.
type PoolCache struct {
	cache *Cache
	ttl   time.Duration
}

// NewPoolCache builds a PoolCache whose entries live for ttl.
func NewPoolCache(ttl time.Duration) *PoolCache {
	return &PoolCache{
		cache: New(ttl, ttl),
		ttl:   ttl,
	}
}

// SetPool stores one pool's snapshot under its per-pool key.
func (p *PoolCache) SetPool(snap model.PoolSnapshot) {
	p.cache.Set(poolKeyPrefix+snap.Pool, snap, p.ttl)
}

// Pool returns the live snapshot for the named pool.
func (p *PoolCache) Pool(name string) (model.PoolSnapshot, bool) {
	v, ok := p.cache.Get(poolKeyPrefix + name)
	if !ok {
		return model.PoolSnapshot{}, false
	}
	snap, ok := v.(model.PoolSnapshot)
	return snap, ok
}

// SetAllPools rewrites the aggregate entry. Called once per polling
// round, after every per-pool write for that round.
func (p *PoolCache) SetAllPools(snaps map[string]model.PoolSnapshot) {
	copied := make(map[string]model.PoolSnapshot, len(snaps))
	for name, snap := range snaps {
		copied[name] = snap
	}
	p.cache.Set(allPoolsKey, copied, p.ttl)
}

// AllPools returns the aggregate entry. An absent aggregate is normal
// (TTL fired, or no successful round yet); callers may assemble from
// per-pool reads instead.
func (p *PoolCache) AllPools() (map[string]model.PoolSnapshot, bool) {
	v, ok := p.cache.Get(allPoolsKey)
	if !ok {
		return nil, false
	}
	snaps, ok := v.(map[string]model.PoolSnapshot)
	return snaps, ok
}

// DeletePool drops one pool's entry; idempotent.
func (p *PoolCache) DeletePool(name string) {
	p.cache.Delete(poolKeyPrefix + name)
}
