package vectorstore

import (
	"fmt"
	"sync"

	"github.com/maypok86/otter"
)

// maxHandleCacheWeight bounds the collection handle cache; each handle is
// tiny (a name and an int) so a modest weight covers many collections.
const maxHandleCacheWeight = 10_000

// HandleCache memoizes collection lookups so repeated Search/Insert calls
// against the same collection skip the store's internal map lock. A drop
// removes the handle from the cache.
type HandleCache struct {
	mu    sync.Mutex
	cache otter.Cache[string, collectionHandle]
}

// NewHandleCache builds an empty handle cache.
func NewHandleCache() (*HandleCache, error) {
	cache, err := otter.MustBuilder[string, collectionHandle](maxHandleCacheWeight).
		CollectStats().
		Build()
	if err != nil {
		return nil, fmt.Errorf("vectorstore: create handle cache: %w", err)
	}
	return &HandleCache{cache: cache}, nil
}

// Get returns the cached handle for name, if present.
func (h *HandleCache) Get(name string) (collectionHandle, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cache.Get(name)
}

// Set populates the cache entry for name.
func (h *HandleCache) Set(name string, handle collectionHandle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cache.Set(name, handle)
}

// Drop removes name from the cache, used when a collection is dropped.
func (h *HandleCache) Drop(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cache.Delete(name)
}
