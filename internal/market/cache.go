package market

import (
	"sync"
	"time"
)

// metricsCache keeps recent snapshots so a burst of alerts for the same
// token does not refetch the chain. Entries are pruned lazily.
type metricsCache struct {
	mu   sync.Mutex
	ttl  time.Duration
	data map[string]cacheEntry
}

type cacheEntry struct {
	metrics Metrics
	expires time.Time
}

func newMetricsCache(ttl time.Duration) *metricsCache {
	return &metricsCache{
		ttl:  ttl,
		data: make(map[string]cacheEntry),
	}
}

func (c *metricsCache) get(address string) (Metrics, bool) {
	if c.ttl <= 0 {
		return Metrics{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.data[address]
	if !ok || time.Now().After(entry.expires) {
		delete(c.data, address)
		return Metrics{}, false
	}
	return entry.metrics, true
}

func (c *metricsCache) put(address string, m Metrics) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	if len(c.data) > 1024 {
		for key, entry := range c.data {
			if now.After(entry.expires) {
				delete(c.data, key)
			}
		}
	}
	c.data[address] = cacheEntry{metrics: m, expires: now.Add(c.ttl)}
}

// cooldownTable is the shared rate-limit state. When one worker gets a 429
// from a provider, every worker skips that provider until the cooldown
// passes instead of piling on.
type cooldownTable struct {
	mu    sync.Mutex
	until map[string]time.Time
}

func newCooldownTable() *cooldownTable {
	return &cooldownTable{until: make(map[string]time.Time)}
}

func (t *cooldownTable) remaining(provider string) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	wait := time.Until(t.until[provider])
	if wait < 0 {
		return 0
	}
	return wait
}

// set extends the provider's cooldown; it never shortens one another worker
// already established.
func (t *cooldownTable) set(provider string, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	until := time.Now().Add(d)
	if until.After(t.until[provider]) {
		t.until[provider] = until
	}
}
