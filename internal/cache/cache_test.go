package cache

import (
	"strconv"
	"sync"
	"testing"
)

func TestNew(t *testing.T) {
	c := New[string, int](100)
	if c == nil {
		t.Fatal("New returned nil")
	}
	if s := c.Stats(); s.Capacity != 100 {
		t.Errorf("expected capacity 100, got %d", s.Capacity)
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", c.Len())
	}
}

func TestGetSet(t *testing.T) {
	c := New[string, int](10)
	c.Set("key1", 42)

	val, ok := c.Get("key1")
	if !ok || val != 42 {
		t.Errorf("Get(key1) = %d, %v; want 42, true", val, ok)
	}
	if _, ok := c.Get("nonexistent"); ok {
		t.Error("expected nonexistent key to not exist")
	}

	c.Set("key1", 7)
	if val, _ := c.Get("key1"); val != 7 {
		t.Errorf("Set did not replace value: got %d", val)
	}
	if c.Len() != 1 {
		t.Errorf("replacing a value changed Len to %d", c.Len())
	}
}

func TestGetOrCreate(t *testing.T) {
	c := New[string, int](10)
	created := 0
	create := func() int {
		created++
		return 100
	}

	if v := c.GetOrCreate("key1", create); v != 100 {
		t.Errorf("expected 100, got %d", v)
	}
	if v := c.GetOrCreate("key1", create); v != 100 {
		t.Errorf("expected cached 100, got %d", v)
	}
	if created != 1 {
		t.Errorf("expected create called once, got %d", created)
	}
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	var evicted []string
	c := New[string, int](3, WithOnEvict[string, int](func(k string, _ int) {
		evicted = append(evicted, k)
	}))

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	c.Get("a") // a is now most recent, b is oldest
	c.Set("d", 4)

	if len(evicted) != 1 || evicted[0] != "b" {
		t.Fatalf("evicted = %v, want [b]", evicted)
	}
	if _, ok := c.Peek("b"); ok {
		t.Error("b should have been evicted")
	}
	for _, k := range []string{"a", "c", "d"} {
		if _, ok := c.Peek(k); !ok {
			t.Errorf("%s should still be cached", k)
		}
	}
	if s := c.Stats(); s.Evictions != 1 || s.Len != 3 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestPeekDoesNotTouch(t *testing.T) {
	var evicted []string
	c := New[string, int](2, WithOnEvict[string, int](func(k string, _ int) {
		evicted = append(evicted, k)
	}))
	c.Set("a", 1)
	c.Set("b", 2)
	c.Peek("a")
	c.Set("c", 3)

	if len(evicted) != 1 || evicted[0] != "a" {
		t.Errorf("evicted = %v, want [a]", evicted)
	}
}

func TestPinnedEntriesSurvive(t *testing.T) {
	pinned := map[int]bool{1: true, 2: true}
	var evicted []string
	c := New[string, int](2,
		WithPinned[string, int](func(v int) bool { return pinned[v] }),
		WithOnEvict[string, int](func(k string, _ int) { evicted = append(evicted, k) }),
	)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	// a and b are pinned and c was just inserted: nothing can go.
	if len(evicted) != 0 {
		t.Fatalf("evicted pinned or fresh entries: %v", evicted)
	}
	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3 (over capacity while pinned)", c.Len())
	}

	// Unpin a; the next insert brings the cache back to capacity.
	pinned[1] = false
	c.Set("d", 4)
	if len(evicted) != 2 || evicted[0] != "a" || evicted[1] != "c" {
		t.Errorf("evicted = %v, want [a c]", evicted)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestUnlimitedCapacity(t *testing.T) {
	c := New[int, int](0)
	for i := range 1000 {
		c.Set(i, i)
	}
	if c.Len() != 1000 {
		t.Errorf("Len() = %d, want 1000", c.Len())
	}
}

func TestDelete(t *testing.T) {
	called := false
	c := New[string, int](10, WithOnEvict[string, int](func(string, int) { called = true }))
	c.Set("key1", 42)

	v, ok := c.Delete("key1")
	if !ok || v != 42 {
		t.Errorf("Delete(key1) = %d, %v; want 42, true", v, ok)
	}
	if _, ok := c.Delete("key1"); ok {
		t.Error("second Delete should report missing")
	}
	if called {
		t.Error("Delete must not call the eviction callback")
	}
}

func TestRangeOrder(t *testing.T) {
	c := New[string, int](10)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	c.Get("a")

	var keys []string
	c.Range(func(k string, _ int) bool {
		keys = append(keys, k)
		return true
	})
	want := []string{"a", "c", "b"}
	if len(keys) != len(want) {
		t.Fatalf("Range keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Range keys = %v, want %v", keys, want)
			break
		}
	}

	n := 0
	c.Range(func(string, int) bool {
		n++
		return false
	})
	if n != 1 {
		t.Errorf("Range did not stop early: visited %d", n)
	}
}

func TestClear(t *testing.T) {
	c := New[string, int](10)
	c.Set("a", 1)
	c.Set("b", 2)

	out := c.Clear()
	if len(out) != 2 || out["a"] != 1 || out["b"] != 2 {
		t.Errorf("Clear() = %v", out)
	}
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d", c.Len())
	}
	c.Set("c", 3)
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Error("cache unusable after Clear")
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New[string, int](50)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				key := strconv.Itoa((g*200 + i) % 75)
				c.GetOrCreate(key, func() int { return i })
				c.Get(key)
			}
		}()
	}
	wg.Wait()

	if c.Len() > 50 {
		t.Errorf("Len() = %d exceeds capacity with no pinned entries", c.Len())
	}
}

func BenchmarkGet(b *testing.B) {
	c := New[string, int](1000)
	for i := range 100 {
		c.Set(strconv.Itoa(i), i)
	}
	for b.Loop() {
		c.Get("50")
	}
}

func BenchmarkGetOrCreate(b *testing.B) {
	c := New[string, int](64)
	i := 0
	for b.Loop() {
		c.GetOrCreate(strconv.Itoa(i%100), func() int { return i })
		i++
	}
}
