// evictor.go houses the eviction loop for Cache.  Every EvictInterval it
// scans the map and removes:
//
//   - records older than the TTL (already unusable for reads)
//   - least-recently-used records when map size exceeds maxEntries
//
// Each eviction updates the Prometheus counters.
package directory

import (
	"sort"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/databayt/edge/internal/metrics"
)

func (c *Cache) evictLoop() {
	for range c.evictTicker.C {
		now := time.Now().UnixNano()
		var count int

		// ----------------------------------------------------------------
		// Expiry pass
		// ----------------------------------------------------------------
		c.m.Range(func(key, value any) bool {
			count++
			ent := value.(*entry)
			if now-atomic.LoadInt64(&ent.loadedAt) >= int64(c.ttl) {
				c.m.Delete(key)
				count--
				metrics.DirectoryCacheEvictTotal.Inc()
				metrics.DirectoryCacheEntries.Dec()
			}
			return true
		})

		// ----------------------------------------------------------------
		// LRU eviction pass
		// ----------------------------------------------------------------
		if c.maxEntries > 0 && count > c.maxEntries {
			type kv struct {
				key string
				at  int64
			}
			var all []kv
			c.m.Range(func(key, value any) bool {
				ent := value.(*entry)
				all = append(all, kv{key: key.(string), at: atomic.LoadInt64(&ent.lastSeen)})
				return true
			})
			sort.Slice(all, func(i, j int) bool { return all[i].at < all[j].at })
			evicted := 0
			for i := 0; i < len(all) && count-evicted > c.maxEntries; i++ {
				if _, ok := c.m.Load(all[i].key); ok {
					c.m.Delete(all[i].key)
					evicted++
					metrics.DirectoryCacheEvictTotal.Inc()
					metrics.DirectoryCacheEntries.Dec()
				}
			}
			if evicted > 0 {
				zap.S().Debugw("directory cache LRU eviction", "evicted", evicted)
			}
		}
	}
}
