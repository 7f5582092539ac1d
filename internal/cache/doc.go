// Package cache provides a generic LRU map with pinning.
//
// [LRU] keeps entries in least-recently-used order. When it grows past its
// capacity it evicts the oldest entries that are not pinned, handing each
// one to an eviction callback. Pinned entries are skipped, so an LRU may
// stay above capacity while everything in it is pinned.
//
//	c := cache.New[string, *Texture](8,
//	    cache.WithPinned(func(t *Texture) bool { return t.InUse() }),
//	    cache.WithOnEvict(func(key string, t *Texture) { t.Release() }),
//	)
//	tex := c.GetOrCreate("history", newTexture)
//
// # Thread Safety
//
// LRU is safe for concurrent use and must not be copied after creation.
// Eviction callbacks run after the internal lock is released.
package cache
