package zonaazul

import (
	"strings"
	"sync"
	"time"
)

// Cache keys, one namespace per server-owned listing. Invalidation happens
// before a mutation reports success so no stale aggregate is ever shown.
const (
	cacheZones            = "zones"
	cacheParkings         = "parkings"
	cachePlateLookup      = "parking-by-plate"
	cacheMetrics          = "dashboard-metrics"
	cacheNotifications    = "notifications"
	cacheFiscalParkings   = "fiscal-parkings"
	cacheFiscalStatistics = "fiscal-statistics"
	cacheSettlements      = "settlements"
	cachePendingReview    = "settlements-pending"
	cacheUsers            = "users"
)

type cacheEntry struct {
	value   any
	expires time.Time
}

// Cache is a per-process TTL cache for query results. It is purely a display
// optimization: entries are projections of server state and every mutation
// drops the namespaces it may have touched.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func cacheKey(namespace, qualifier string) string {
	if qualifier == "" {
		return namespace
	}
	return namespace + "|" + qualifier
}

func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().After(entry.expires) {
		return nil, false
	}
	return entry.value, true
}

func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{value: value, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Invalidate drops every entry under the given namespaces.
func (c *Cache) Invalidate(namespaces ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		for _, ns := range namespaces {
			if key == ns || strings.HasPrefix(key, ns+"|") {
				delete(c.entries, key)
				break
			}
		}
	}
}
