// Package cache provides a bounded key/value store with LRU eviction and
// per-entry TTL expiry.
//
// Capacity and TTL are independent eviction triggers: an entry is evicted
// when it is the least recently used under capacity pressure, or treated as
// a miss once its TTL elapses, whichever occurs first. Expired entries are
// removed lazily on Get and proactively by Cleanup, which the manager runs
// on its own timer.
//
// The hashicorp/golang-lru expirable cache was considered and rejected: it
// spawns an internal reaper goroutine with no shutdown path, while this
// subsystem requires every background task to be owned and stoppable by the
// manager.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Eviction reasons passed to the OnEvict callback.
const (
	EvictLRU = "lru"
	EvictTTL = "ttl"
)

type entry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
}

// Cache is a mutex-guarded LRU cache with per-entry TTL.
//
// The zero value is not usable; construct with New.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	items    map[K]*list.Element
	order    *list.List // front = most recently used
	onEvict  func(reason string)
}

// New creates a cache holding at most capacity entries, each valid for ttl
// after its last Set.
//
// Parameters:
//   - capacity: Maximum entry count (must be > 0)
//   - ttl: Entry lifetime measured from insertion or refresh (must be > 0)
//   - onEvict: Optional callback invoked with the eviction reason (may be nil)
//
// Returns:
//   - *Cache[K, V]: A new empty cache
func New[K comparable, V any](capacity int, ttl time.Duration, onEvict func(reason string)) *Cache[K, V] {
	return &Cache[K, V]{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[K]*list.Element, capacity),
		order:    list.New(),
		onEvict:  onEvict,
	}
}

// Get returns the value stored under key.
//
// A present, unexpired entry is moved to the most-recently-used position.
// A present but expired entry is evicted and reported as a miss.
//
// Returns:
//   - V: The stored value, or the zero value on miss
//   - bool: true on hit, false on miss
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V

	elem, ok := c.items[key]
	if !ok {
		return zero, false
	}

	ent := elem.Value.(*entry[K, V])
	if time.Now().After(ent.expiresAt) {
		c.remove(elem, EvictTTL)
		return zero, false
	}

	c.order.MoveToFront(elem)

	return ent.value, true
}

// Set inserts or refreshes the value stored under key.
//
// An existing entry is updated in place, its TTL restarted, and its recency
// refreshed. If the insertion pushes the cache over capacity, the single
// least-recently-used entry is evicted.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := time.Now().Add(c.ttl)

	if elem, ok := c.items[key]; ok {
		ent := elem.Value.(*entry[K, V])
		ent.value = value
		ent.expiresAt = expiresAt
		c.order.MoveToFront(elem)

		return
	}

	elem := c.order.PushFront(&entry[K, V]{key: key, value: value, expiresAt: expiresAt})
	c.items[key] = elem

	if c.order.Len() > c.capacity {
		c.remove(c.order.Back(), EvictLRU)
	}
}

// Cleanup removes every expired entry and returns how many were removed.
//
// Intended to run on a timer so an idle cache does not retain stale memory
// until the next Get touches it.
func (c *Cache[K, V]) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0

	for elem := c.order.Back(); elem != nil; {
		prev := elem.Prev()
		if now.After(elem.Value.(*entry[K, V]).expiresAt) {
			c.remove(elem, EvictTTL)
			removed++
		}
		elem = prev
	}

	return removed
}

// Clear empties the cache unconditionally. No eviction callbacks fire.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[K]*list.Element, c.capacity)
	c.order.Init()
}

// Len returns the current entry count, including entries that have expired
// but not yet been swept.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.Len()
}

// remove deletes the entry behind elem. Caller holds the lock.
func (c *Cache[K, V]) remove(elem *list.Element, reason string) {
	ent := elem.Value.(*entry[K, V])
	delete(c.items, ent.key)
	c.order.Remove(elem)

	if c.onEvict != nil {
		c.onEvict(reason)
	}
}
