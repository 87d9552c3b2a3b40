// Package cache holds the most recent snapshot in memory so reads avoid the
// persistent store until the entry ages out or a write replaces it.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/okian/jury/internal/domain/model"
	"github.com/okian/jury/pkg/metrics"
)

// DefaultTTL is the lifetime of a cached snapshot.
const DefaultTTL = 30 * time.Second

const loadKey = "snapshot"

// Loader reads the current snapshot from the persistent store.
type Loader interface {
	Load(ctx context.Context) model.Snapshot
}

type entry struct {
	snap     model.Snapshot
	loadedAt time.Time
}

// Snapshot is a read-through cache of one snapshot.
type Snapshot struct {
	loader Loader
	ttl    time.Duration
	now    func() time.Time

	mu    sync.RWMutex
	entry *entry
	// generation advances on every Invalidate and Reset so a load that
	// started before a write cannot overwrite the newer entry.
	generation uint64
	group      singleflight.Group
}

// New returns a cache over loader.
func New(loader Loader, opts ...Option) *Snapshot {
	c := &Snapshot{
		loader: loader,
		ttl:    DefaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL reports the configured lifetime.
func (c *Snapshot) TTL() time.Duration { return c.ttl }

// Get returns the cached snapshot when it is younger than the TTL and
// otherwise loads a fresh one. Concurrent misses share a single load.
func (c *Snapshot) Get(ctx context.Context) model.Snapshot {
	if snap, ok := c.fresh(); ok {
		metrics.RecordCacheHit()
		return snap
	}
	metrics.RecordCacheMiss()

	v, _, _ := c.group.Do(loadKey, func() (any, error) {
		c.mu.RLock()
		gen := c.generation
		c.mu.RUnlock()

		snap := c.loader.Load(ctx)

		c.mu.Lock()
		if c.generation == gen {
			c.entry = &entry{snap: snap, loadedAt: c.now()}
		} else if c.entry != nil {
			snap = c.entry.snap
		}
		c.mu.Unlock()
		return snap, nil
	})
	return v.(model.Snapshot)
}

// Invalidate installs snap, the state just written, as the fresh entry.
func (c *Snapshot) Invalidate(snap model.Snapshot) {
	c.mu.Lock()
	c.generation++
	c.entry = &entry{snap: snap, loadedAt: c.now()}
	c.mu.Unlock()
	metrics.RecordCacheInvalidation()
}

// Reset drops the entry so the next Get reloads from the store.
func (c *Snapshot) Reset() {
	c.mu.Lock()
	c.generation++
	c.entry = nil
	c.mu.Unlock()
}

func (c *Snapshot) fresh() (model.Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.entry == nil || c.ttl <= 0 {
		return model.Snapshot{}, false
	}
	if c.now().Sub(c.entry.loadedAt) >= c.ttl {
		return model.Snapshot{}, false
	}
	return c.entry.snap, true
}
