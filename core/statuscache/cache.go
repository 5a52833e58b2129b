package statuscache

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL bounds snapshot staleness.
const DefaultTTL = 2 * time.Second

// ErrNoProvider is returned when the cache has nothing to compute with.
var ErrNoProvider = errors.New("statuscache: no provider")

type entry struct {
	snapshot Snapshot
	built    time.Time
}

// Cache holds the last computed snapshot.
type Cache struct {
	provider Provider
	ttl      time.Duration
	now      func() time.Time

	mu         sync.RWMutex
	current    *entry
	generation uint64
	sf         singleflight.Group
}

// New creates a cache over provider. A non-positive ttl uses DefaultTTL.
func New(provider Provider, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		provider: provider,
		ttl:      ttl,
		now:      time.Now,
	}
}

// TTL returns the staleness bound.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

func (c *Cache) fresh() (*entry, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.current != nil && c.now().Sub(c.current.built) <= c.ttl {
		return c.current, c.generation
	}
	return nil, c.generation
}

// Get returns the cached snapshot, computing a new one when needed.
func (c *Cache) Get(ctx context.Context) (Snapshot, error) {
	if c.provider == nil {
		return Snapshot{}, ErrNoProvider
	}

	e, gen := c.fresh()
	if e != nil {
		return e.snapshot, nil
	}

	key := strconv.FormatUint(gen, 10)

	result, err, _ := c.sf.Do(key, func() (any, error) {
		// Another flight may have stored a value meanwhile.
		if e, _ := c.fresh(); e != nil {
			return e.snapshot, nil
		}

		snap, err := c.provider.Snapshot(ctx)
		if err != nil {
			return Snapshot{}, err
		}
		built := c.now()
		if snap.Timestamp == 0 {
			snap.Timestamp = built.UnixMilli()
		}

		c.mu.Lock()
		// A Clear during the computation invalidates its result.
		if c.generation == gen {
			c.current = &entry{snapshot: snap, built: built}
		}
		c.mu.Unlock()

		return snap, nil
	})
	if err != nil {
		return Snapshot{}, err
	}

	return result.(Snapshot), nil
}

// Peek returns the cached snapshot without computing one.
func (c *Cache) Peek() (Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.current == nil {
		return Snapshot{}, false
	}
	return c.current.snapshot, true
}

// Clear drops the cached snapshot and resets the provider baseline.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.current = nil
	c.generation++
	c.mu.Unlock()

	if r, ok := c.provider.(Resetter); ok {
		r.Reset()
	}
}
