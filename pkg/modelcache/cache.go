// Package modelcache is the concurrent model-id → HazardModel cache a
// hosting service owns outside the calculation core (spec §5: "A
// web-service host owns a concurrent cache mapping model-id → loaded
// HazardModel; this cache is outside the core"). It is supplied to the
// core as a ready-made external collaborator, not built or required by
// it. Grounded on the teacher's pkg/reporting/storage.go (a mutex-guarded
// collection with a KeepLastN eviction policy), generalized from an
// on-disk report directory to an in-memory model cache that evicts in
// insertion order.
package modelcache

import (
	"sync"

	"github.com/jihwankim/seismic-hazard/pkg/hazardmodel"
)

// Loader fetches a HazardModel the cache does not yet hold.
type Loader func(modelID string) (hazardmodel.HazardModel, error)

// Cache is a mutex-guarded map from model ID to loaded HazardModel,
// evicting the least-recently-inserted entry once it exceeds keepLastN.
// Safe for concurrent use by multiple site calculations.
type Cache struct {
	mu        sync.Mutex
	keepLastN int
	order     []string
	models    map[string]hazardmodel.HazardModel
	load      Loader
}

// New creates a Cache that evicts down to keepLastN entries (0 disables
// eviction) and calls load on a miss.
func New(keepLastN int, load Loader) *Cache {
	return &Cache{
		keepLastN: keepLastN,
		models:    make(map[string]hazardmodel.HazardModel),
		load:      load,
	}
}

// Get returns the cached model for modelID, loading and inserting it on a
// miss.
func (c *Cache) Get(modelID string) (hazardmodel.HazardModel, error) {
	c.mu.Lock()
	if m, ok := c.models[modelID]; ok {
		c.mu.Unlock()
		return m, nil
	}
	c.mu.Unlock()

	m, err := c.load(modelID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.models[modelID]; ok {
		return existing, nil
	}
	c.models[modelID] = m
	c.order = append(c.order, modelID)
	c.evictLocked()
	return m, nil
}

// Invalidate removes modelID from the cache, if present.
func (c *Cache) Invalidate(modelID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.models, modelID)
	for i, id := range c.order {
		if id == modelID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of models currently cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

func (c *Cache) evictLocked() {
	if c.keepLastN <= 0 {
		return
	}
	for len(c.order) > c.keepLastN {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.models, oldest)
	}
}
