// Package querycache holds the results of list reads keyed by resource type.
//
// The contract is refetch-after-mutation: a successful mutation marks the
// affected resources stale and the next read goes to the collaborator again.
// Cached values are never patched in place.
package querycache

import (
	"context"
	"strconv"
	"sync"

	"github.com/go-faster/errors"
	"golang.org/x/sync/singleflight"
)

// Resource names a family of cached reads.
type Resource string

const (
	Products   Resource = "products"
	Customers  Resource = "customers"
	Categories Resource = "categories"
	Sales      Resource = "sales"
)

type entry struct {
	value any
	stale bool
}

// stamp identifies the cache state a fetch started from. Invalidate moves
// the resource generation and Reset moves the epoch; a fetch whose stamp
// no longer matches is not stored.
type stamp struct {
	epoch uint64
	gen   uint64
}

// Cache is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[Resource]map[string]*entry
	gens    map[Resource]uint64
	epoch   uint64
	group   singleflight.Group
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{
		entries: make(map[Resource]map[string]*entry),
		gens:    make(map[Resource]uint64),
	}
}

// flightKey carries the stamp so reads after Invalidate or Reset never join
// a fetch that started before it.
func flightKey(resource Resource, variant string, st stamp) string {
	return string(resource) + "\x00" + variant + "\x00" +
		strconv.FormatUint(st.epoch, 10) + "." + strconv.FormatUint(st.gen, 10)
}

// Get returns the cached value for (resource, variant) when it is present and
// fresh; otherwise it calls fetch and stores the result. Concurrent misses on
// the same key share one fetch. A fetch error is returned and nothing is stored.
// A result that arrives after Invalidate or Reset is returned to its callers
// but not stored.
func Get[T any](ctx context.Context, c *Cache, resource Resource, variant string, fetch func(ctx context.Context) (T, error)) (T, error) {
	if v, ok := c.lookup(resource, variant); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	st := c.stamp(resource)
	v, err, _ := c.group.Do(flightKey(resource, variant, st), func() (any, error) {
		fetched, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.store(resource, variant, st, fetched)
		return fetched, nil
	})
	if err != nil {
		var zero T
		return zero, errors.Wrapf(err, "fetch %s", resource)
	}
	typed, ok := v.(T)
	if !ok {
		var zero T
		return zero, errors.Errorf("cached %s has type %T", resource, v)
	}
	return typed, nil
}

func (c *Cache) lookup(resource Resource, variant string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[resource][variant]
	if !ok || e.stale {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) stamp(resource Resource) stamp {
	c.mu.Lock()
	defer c.mu.Unlock()
	return stamp{epoch: c.epoch, gen: c.gens[resource]}
}

func (c *Cache) store(resource Resource, variant string, st stamp, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if st.epoch != c.epoch || st.gen != c.gens[resource] {
		return
	}

	variants, ok := c.entries[resource]
	if !ok {
		variants = make(map[string]*entry)
		c.entries[resource] = variants
	}
	variants[variant] = &entry{value: value}
}

// Invalidate marks every cached variant of the given resources stale.
func (c *Cache) Invalidate(resources ...Resource) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range resources {
		c.gens[r]++
		for _, e := range c.entries[r] {
			e.stale = true
		}
	}
}

// IsStale reports whether the next read of (resource, variant) will refetch.
// A key that was never fetched counts as stale.
func (c *Cache) IsStale(resource Resource, variant string) bool {
	_, ok := c.lookup(resource, variant)
	return !ok
}

// Reset drops every entry. It is registered as a session teardown hook.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[Resource]map[string]*entry)
	c.epoch++
}
