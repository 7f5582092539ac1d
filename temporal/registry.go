package temporal

import (
	"slices"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/internal/cache"
	"github.com/gogpu/framegraph/rg"
)

// Registry holds a pipeline's temporal resources by name.
//
// Resources are created on first use. When capacity is positive and the
// registry grows past it, the least recently used resources in StateDefault
// are evicted and handed to the release function. Resources that are
// imported or exported are never evicted.
//
// Example:
//
//	reg := temporal.NewRegistry[*rg.Image](16, func(key string, img *rg.Image) {
//	    device.Destroy(img)
//	})
//
//	history := reg.GetOrCreate("taa-history", newHistoryImage)
//	h := temporal.Import(g, history)
//	...
//	retired, _ := g.Execute()
//	reg.Retire(retired)
type Registry[R rg.Resource] struct {
	entries *cache.LRU[string, *Resource[R]]
	release func(key string, res R)
}

// NewRegistry creates a registry. A capacity of 0 means unlimited. release
// may be nil.
func NewRegistry[R rg.Resource](capacity int, release func(key string, res R)) *Registry[R] {
	r := &Registry[R]{release: release}
	r.entries = cache.New(capacity,
		cache.WithPinned[string](func(t *Resource[R]) bool {
			return t.State() != StateDefault
		}),
		cache.WithOnEvict(func(key string, t *Resource[R]) {
			framegraph.Logger().Info("temporal: evicted idle resource",
				"key", key,
				"resource", t.resource.Label())
			r.releaseResource(key, t)
		}),
	)
	return r
}

// GetOrCreate returns the resource registered under key, creating it with
// create on first use.
func (r *Registry[R]) GetOrCreate(key string, create func() R) *Resource[R] {
	return r.entries.GetOrCreate(key, func() *Resource[R] {
		t := New(create())
		framegraph.Logger().Info("temporal: created resource",
			"key", key,
			"resource", t.resource.Label())
		return t
	})
}

// Adopt registers res under key, for resources the caller created itself
// such as images wrapping host textures. An idle resource already
// registered under key is replaced and released.
//
// Adopt panics if the resource it would replace is still part of a graph.
func (r *Registry[R]) Adopt(key string, res R) *Resource[R] {
	old, replaced := r.entries.Peek(key)
	if replaced && old.State() != StateDefault {
		violation("adopt", old, StateDefault)
	}

	t := New(res)
	r.entries.Set(key, t)
	framegraph.Logger().Info("temporal: adopted resource",
		"key", key,
		"resource", t.resource.Label(),
		"replaced", replaced)
	if replaced {
		r.releaseResource(key, old)
	}
	return t
}

// Get returns the resource registered under key.
func (r *Registry[R]) Get(key string) (*Resource[R], bool) {
	return r.entries.Get(key)
}

// Peek returns the resource registered under key without marking it as
// recently used.
func (r *Registry[R]) Peek(key string) (*Resource[R], bool) {
	return r.entries.Peek(key)
}

// Len returns the number of registered resources.
func (r *Registry[R]) Len() int {
	return r.entries.Len()
}

// Keys returns the registered keys in sorted order.
func (r *Registry[R]) Keys() []string {
	keys := make([]string, 0, r.entries.Len())
	r.entries.Range(func(key string, _ *Resource[R]) bool {
		keys = append(keys, key)
		return true
	})
	slices.Sort(keys)
	return keys
}

// Evictions returns how many resources have been evicted so far.
func (r *Registry[R]) Evictions() uint64 {
	return r.entries.Stats().Evictions
}

// Retire retires every registered resource against rt. Resources that were
// not exported from rt's graph are left untouched, so a frame that runs
// several graphs retires each of them through the same registry.
func (r *Registry[R]) Retire(rt *rg.Retired) {
	var owned []*Resource[R]
	r.entries.Range(func(_ string, t *Resource[R]) bool {
		if h, ok := t.LastExportedHandle(); ok && rg.Minted(rt, h) {
			owned = append(owned, t)
		}
		return true
	})
	for _, t := range owned {
		Retire(rt, t)
	}
}

// Remove unregisters and releases the resource under key. It reports
// whether the key was registered.
//
// Remove panics if the resource is still part of a graph.
func (r *Registry[R]) Remove(key string) bool {
	t, ok := r.entries.Peek(key)
	if !ok {
		return false
	}
	if t.State() != StateDefault {
		violation("remove", t, StateDefault)
	}
	r.entries.Delete(key)
	r.releaseResource(key, t)
	return true
}

// Clear unregisters and releases every resource.
//
// Clear panics if any resource is still part of a graph; nothing is
// released in that case.
func (r *Registry[R]) Clear() {
	r.entries.Range(func(_ string, t *Resource[R]) bool {
		if t.State() != StateDefault {
			violation("clear", t, StateDefault)
		}
		return true
	})
	for key, t := range r.entries.Clear() {
		r.releaseResource(key, t)
	}
}

func (r *Registry[R]) releaseResource(key string, t *Resource[R]) {
	if r.release != nil {
		r.release(key, t.resource)
	}
}
