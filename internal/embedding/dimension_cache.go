package embedding

import (
	"context"
	"fmt"
	"sync"

	"github.com/maypok86/otter"
)

// maxDimensionCacheWeight bounds the dimension-discovery cache; each entry
// is a handful of bytes so a small weight limit covers many providers.
const maxDimensionCacheWeight = 4096

// DimensionCache memoizes a provider's declared dimensionality by a cache
// key (typically the provider+model identity), so callers that need to
// size vector columns ahead of time don't have to embed a probe string on
// every lookup.
type DimensionCache struct {
	mu    sync.Mutex
	cache otter.Cache[string, int]
}

// NewDimensionCache builds an empty cache.
func NewDimensionCache() (*DimensionCache, error) {
	cache, err := otter.MustBuilder[string, int](maxDimensionCacheWeight).
		CollectStats().
		Build()
	if err != nil {
		return nil, fmt.Errorf("embedding: create dimension cache: %w", err)
	}
	return &DimensionCache{cache: cache}, nil
}

// Dimensions returns the cached dimension for key, calling provider.Dimensions()
// and populating the cache on a miss.
func (d *DimensionCache) Dimensions(ctx context.Context, key string, provider Provider) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	if dims, ok := d.cache.Get(key); ok {
		return dims
	}

	dims := provider.Dimensions()
	d.cache.Set(key, dims)
	return dims
}

// Invalidate drops a cached dimension, forcing the next lookup to re-query
// the provider.
func (d *DimensionCache) Invalidate(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cache.Delete(key)
}
