// internal/directory/cache.go
//
// Read-through cache in front of the tenant directory.
//
// Context
// -------
// The directory lookup is the only blocking call on the routing hot path,
// so a small cache keyed by slug and id sits in front of the repository.
// The TTL is deliberately short (seconds): the router must stay correct
// with the cache removed, and a rename or suspension may lag by at most
// that TTL.  Concurrent misses for the same key collapse into one
// repository call via singleflight.
//
// Errors are never cached.  A failed load falls through to the caller,
// which maps it to its declared fallback route.
//
// Notes
// -----
//   • lastSeen drives the idle and LRU eviction passes in evictor.go.
//   • Oxford commas, two spaces after periods.

package directory

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/databayt/edge/internal/metrics"
)

// Static defaults.  Override via the Cache constructor if desired.
const (
	DefaultTTL    = 5 * time.Second
	MaxEntries    = 1000
	EvictInterval = 30 * time.Second
)

type entry struct {
	rec      *Record
	loadedAt int64 // UnixNano
	lastSeen int64 // UnixNano
}

// Cache is a bounded, time-expiring read-through wrapper around another
// Directory.  Zero value is unusable; construct with NewCache.
type Cache struct {
	inner       Directory
	sfg         singleflight.Group
	m           sync.Map
	evictTicker *time.Ticker
	ttl         time.Duration
	maxEntries  int
}

// NewCache wraps inner and starts the background evictor.
func NewCache(inner Directory, ttl time.Duration, maxEntries int) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		inner:      inner,
		ttl:        ttl,
		maxEntries: maxEntries,
	}
	c.evictTicker = time.NewTicker(EvictInterval)
	go c.evictLoop()
	return c
}

// BySlug returns the tenant owning slug, loading through on miss or
// expiry.
func (c *Cache) BySlug(ctx context.Context, slug string) (*Record, error) {
	return c.get(ctx, "slug\x00"+slug, func() (*Record, error) {
		return c.inner.BySlug(ctx, slug)
	})
}

// ByID returns the tenant with the given id, loading through on miss or
// expiry.
func (c *Cache) ByID(ctx context.Context, id string) (*Record, error) {
	return c.get(ctx, "id\x00"+id, func() (*Record, error) {
		return c.inner.ByID(ctx, id)
	})
}

func (c *Cache) get(ctx context.Context, key string, load func() (*Record, error)) (*Record, error) {
	now := time.Now().UnixNano()
	if v, ok := c.m.Load(key); ok {
		ent := v.(*entry)
		if now-atomic.LoadInt64(&ent.loadedAt) < int64(c.ttl) {
			atomic.StoreInt64(&ent.lastSeen, now)
			return ent.rec, nil
		}
		// Stale: drop and load through below.
		c.m.Delete(key)
		metrics.DirectoryCacheEntries.Dec()
	}

	v, err, _ := c.sfg.Do(key, func() (interface{}, error) {
		// Double-check after singleflight barrier.
		if v, ok := c.m.Load(key); ok {
			ent := v.(*entry)
			if time.Now().UnixNano()-atomic.LoadInt64(&ent.loadedAt) < int64(c.ttl) {
				return ent.rec, nil
			}
		}
		rec, err := load()
		if err != nil {
			return nil, err
		}
		n := time.Now().UnixNano()
		c.m.Store(key, &entry{rec: rec, loadedAt: n, lastSeen: n})
		metrics.DirectoryCacheEntries.Inc()
		return rec, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Record), nil
}

// Close stops the background evictor.
func (c *Cache) Close() { c.evictTicker.Stop() }

var _ Directory = (*Cache)(nil)
