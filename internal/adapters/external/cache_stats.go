package external

import (
	"sync"
	"time"

	"weathermort.app/internal/ports"
)

// cacheStatsTracker accumulates hit/miss counts shared by the cache providers
type cacheStatsTracker struct {
	mu     sync.RWMutex
	hits   int64
	misses int64
}

func (t *cacheStatsTracker) recordHit() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hits++
}

func (t *cacheStatsTracker) recordMiss() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.misses++
}

func (t *cacheStatsTracker) snapshot() ports.CacheStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	total := t.hits + t.misses
	hitRatio := float64(0)
	if total > 0 {
		hitRatio = float64(t.hits) / float64(total)
	}

	return ports.CacheStats{
		Hits:        t.hits,
		Misses:      t.misses,
		TotalOps:    total,
		HitRatio:    hitRatio,
		LastUpdated: time.Now(),
	}
}
