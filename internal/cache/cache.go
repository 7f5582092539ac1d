package cache

import "sync"

// Option configures an LRU.
type Option[K comparable, V any] func(*LRU[K, V])

// WithPinned sets the predicate that protects entries from eviction.
func WithPinned[K comparable, V any](pinned func(V) bool) Option[K, V] {
	return func(c *LRU[K, V]) {
		c.pinned = pinned
	}
}

// WithOnEvict sets the callback that receives evicted entries.
func WithOnEvict[K comparable, V any](onEvict func(K, V)) Option[K, V] {
	return func(c *LRU[K, V]) {
		c.onEvict = onEvict
	}
}

// LRU is a generic thread-safe LRU map with a pin predicate.
//
// LRU must not be copied after creation (has mutex).
type LRU[K comparable, V any] struct {
	mu        sync.Mutex
	entries   map[K]*lruNode[K, V]
	list      lruList[K, V]
	capacity  int
	pinned    func(V) bool
	onEvict   func(K, V)
	evictions uint64
}

// New creates an LRU holding up to capacity unpinned entries.
// A capacity of 0 means unlimited.
func New[K comparable, V any](capacity int, opts ...Option[K, V]) *LRU[K, V] {
	c := &LRU[K, V]{
		entries:  make(map[K]*lruNode[K, V]),
		capacity: capacity,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value for key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.list.MoveToFront(node)
	return node.value, true
}

// Peek returns the value for key without touching its recency.
func (c *LRU[K, V]) Peek(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	return node.value, true
}

// GetOrCreate returns the value for key, calling create if it is missing.
// create runs under the lock, so it is called at most once per key.
// Inserting may evict older unpinned entries.
func (c *LRU[K, V]) GetOrCreate(key K, create func() V) V {
	c.mu.Lock()
	if node, ok := c.entries[key]; ok {
		c.list.MoveToFront(node)
		c.mu.Unlock()
		return node.value
	}

	value := create()
	c.entries[key] = c.list.PushFront(key, value)
	evicted := c.evictLocked(key)
	c.mu.Unlock()

	c.notify(evicted)
	return value
}

// Set stores value under key, replacing any previous value without calling
// the eviction callback for it. Inserting may evict older unpinned entries.
func (c *LRU[K, V]) Set(key K, value V) {
	c.mu.Lock()
	if node, ok := c.entries[key]; ok {
		node.value = value
		c.list.MoveToFront(node)
		c.mu.Unlock()
		return
	}
	c.entries[key] = c.list.PushFront(key, value)
	evicted := c.evictLocked(key)
	c.mu.Unlock()

	c.notify(evicted)
}

// Delete removes key and returns its value. The eviction callback is not
// called.
func (c *LRU[K, V]) Delete(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.list.Remove(node)
	delete(c.entries, key)
	return node.value, true
}

// Range calls fn for every entry from most to least recently used, without
// changing recency. fn must not call back into the LRU.
func (c *LRU[K, V]) Range(fn func(K, V) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for node := c.list.head; node != nil; node = node.next {
		if !fn(node.key, node.value) {
			return
		}
	}
}

// Clear removes all entries and returns them keyed as they were stored.
// The eviction callback is not called.
func (c *LRU[K, V]) Clear() map[K]V {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[K]V, len(c.entries))
	for key, node := range c.entries {
		out[key] = node.value
	}
	c.entries = make(map[K]*lruNode[K, V])
	c.list.Clear()
	return out
}

// Len returns the number of entries.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Stats returns cache statistics.
func (c *LRU[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Len:       len(c.entries),
		Capacity:  c.capacity,
		Evictions: c.evictions,
	}
}

type evictedEntry[K comparable, V any] struct {
	key   K
	value V
}

// evictLocked removes unpinned entries, oldest first, until the LRU fits its
// capacity. The entry under keep was just inserted and is never evicted.
// Caller must hold c.mu.
func (c *LRU[K, V]) evictLocked(keep K) []evictedEntry[K, V] {
	if c.capacity <= 0 || len(c.entries) <= c.capacity {
		return nil
	}

	var evicted []evictedEntry[K, V]
	node := c.list.Oldest()
	for node != nil && len(c.entries) > c.capacity {
		prev := node.prev
		if node.key != keep && (c.pinned == nil || !c.pinned(node.value)) {
			c.list.Remove(node)
			delete(c.entries, node.key)
			evicted = append(evicted, evictedEntry[K, V]{key: node.key, value: node.value})
			c.evictions++
		}
		node = prev
	}
	return evicted
}

func (c *LRU[K, V]) notify(evicted []evictedEntry[K, V]) {
	if c.onEvict == nil {
		return
	}
	for _, e := range evicted {
		c.onEvict(e.key, e.value)
	}
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Capacity is the configured capacity (0 for unlimited).
	Capacity int
	// Evictions is the number of entries evicted since creation.
	Evictions uint64
}
