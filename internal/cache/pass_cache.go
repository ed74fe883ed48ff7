// Package cache provides per-aggregation-pass memoization of stats queries.
package cache

import (
	"context"
	"fmt"
	"sync/atomic"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/repository"
)

// PassCache wraps a StatsStore and memoizes successful reads for one aggregation pass.
// Reset must be called at the start of every pass; entries never outlive it.
type PassCache struct {
	store     repository.StatsStore
	cache     *gocache.Cache
	hitCount  atomic.Uint64
	missCount atomic.Uint64
}

// NewPassCache creates a pass cache in front of store
func NewPassCache(store repository.StatsStore) *PassCache {
	return &PassCache{
		store: store,
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

// Reset flushes all entries and statistics
func (pc *PassCache) Reset() {
	pc.cache.Flush()
	pc.hitCount.Store(0)
	pc.missCount.Store(0)
}

// WindowTotals implements repository.StatsStore
func (pc *PassCache) WindowTotals(ctx context.Context, entity string, season, fromWeek, toWeek int) (models.WindowTotals, error) {
	key := fmt.Sprintf("wt:%s:%d:%d:%d", models.NormalizeName(entity), season, fromWeek, toWeek)
	v, err := pc.load(key, func() (interface{}, error) {
		return pc.store.WindowTotals(ctx, entity, season, fromWeek, toWeek)
	})
	if err != nil {
		return models.WindowTotals{}, err
	}
	return v.(models.WindowTotals), nil
}

// OpponentDefense implements repository.StatsStore
func (pc *PassCache) OpponentDefense(ctx context.Context, team string, season, throughWeek int) (models.DefenseRate, error) {
	key := fmt.Sprintf("od:%s:%d:%d", models.NormalizeTeam(team), season, throughWeek)
	v, err := pc.load(key, func() (interface{}, error) {
		return pc.store.OpponentDefense(ctx, team, season, throughWeek)
	})
	if err != nil {
		return models.DefenseRate{}, err
	}
	return v.(models.DefenseRate), nil
}

// ContextZoneEntries implements repository.StatsStore
func (pc *PassCache) ContextZoneEntries(ctx context.Context, entity string, season, fromWeek, toWeek int) (int, error) {
	key := fmt.Sprintf("cz:%s:%d:%d:%d", models.NormalizeName(entity), season, fromWeek, toWeek)
	v, err := pc.load(key, func() (interface{}, error) {
		return pc.store.ContextZoneEntries(ctx, entity, season, fromWeek, toWeek)
	})
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

// load returns the cached value or calls fetch. Errors are never cached.
func (pc *PassCache) load(key string, fetch func() (interface{}, error)) (interface{}, error) {
	if v, found := pc.cache.Get(key); found {
		pc.hitCount.Add(1)
		return v, nil
	}

	pc.missCount.Add(1)
	v, err := fetch()
	if err != nil {
		return nil, err
	}
	pc.cache.Set(key, v, gocache.NoExpiration)
	return v, nil
}

// Stats returns cache statistics
func (pc *PassCache) Stats() (hits, misses uint64, ratio float64) {
	hits = pc.hitCount.Load()
	misses = pc.missCount.Load()
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// Publish pushes the current hit ratio to Prometheus
func (pc *PassCache) Publish() {
	_, _, ratio := pc.Stats()
	metrics.UpdatePassCacheHitRatio(ratio)
}

// ItemCount returns the number of cached entries
func (pc *PassCache) ItemCount() int {
	return pc.cache.ItemCount()
}

var _ repository.StatsStore = (*PassCache)(nil)
