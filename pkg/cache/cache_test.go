package cache_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sandrolain/goremap/pkg/cache"
	"github.com/sandrolain/goremap/pkg/program"
)

func newProgram(t *testing.T) *program.Program {
	t.Helper()
	p, err := program.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestCacheNew(t *testing.T) {
	c := cache.New(10)
	if got := c.Len(); got != 0 {
		t.Fatalf("expected empty cache, got %d", got)
	}
	if got := c.Capacity(); got != 10 {
		t.Fatalf("expected capacity 10, got %d", got)
	}
}

func TestCacheDefaultCapacity(t *testing.T) {
	c := cache.New(0)
	if got := c.Capacity(); got != cache.DefaultCapacity {
		t.Fatalf("expected default capacity %d, got %d", cache.DefaultCapacity, got)
	}
}

func TestCacheSetGet(t *testing.T) {
	c := cache.New(4)
	p := newProgram(t)
	c.Set("k", p)

	got, ok := c.Get("k")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != p {
		t.Fatal("expected same program pointer")
	}
	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected cache miss")
	}

	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Fatalf("Stats() = %d hits, %d misses; want 1, 1", hits, misses)
	}
}

func TestCacheLRUEviction(t *testing.T) {
	c := cache.New(3)
	for _, k := range []string{"a", "b", "c"} {
		c.Set(k, newProgram(t))
	}
	// Touch "a" so "b" becomes the oldest.
	c.Get("a")
	c.Set("d", newProgram(t))

	if got := c.Len(); got != 3 {
		t.Fatalf("expected 3 entries after eviction, got %d", got)
	}
	if _, ok := c.Get("b"); ok {
		t.Fatal(`expected "b" to be evicted`)
	}
	for _, k := range []string{"a", "c", "d"} {
		if _, ok := c.Get(k); !ok {
			t.Fatalf("expected %q to survive", k)
		}
	}
}

func TestCacheInvalidateAndClear(t *testing.T) {
	c := cache.New(4)
	for _, k := range []string{"a", "b", "c"} {
		c.Set(k, newProgram(t))
	}

	c.Invalidate("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected miss after Invalidate")
	}
	if got := c.Len(); got != 2 {
		t.Fatalf("expected 2 entries, got %d", got)
	}

	c.Clear()
	if got := c.Len(); got != 0 {
		t.Fatalf("expected 0 after Clear, got %d", got)
	}
}

func TestCacheGetOrCompile(t *testing.T) {
	c := cache.New(4)
	calls := 0
	compile := func() (*program.Program, error) {
		calls++
		return program.New(nil)
	}

	p1, err := c.GetOrCompile("k", compile)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := c.GetOrCompile("k", compile)
	if err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("expected 1 compile call, got %d", calls)
	}
	if p1 != p2 {
		t.Fatal("expected same pointer from cache")
	}
}

func TestCacheGetOrCompileError(t *testing.T) {
	c := cache.New(4)
	boom := errors.New("boom")

	_, err := c.GetOrCompile("k", func() (*program.Program, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if c.Len() != 0 {
		t.Fatal("errors must not be cached")
	}
}

func TestCacheGetOrCompileDeduplicates(t *testing.T) {
	c := cache.New(4)
	var calls atomic.Int32
	release := make(chan struct{})

	compile := func() (*program.Program, error) {
		calls.Add(1)
		<-release
		return program.New(nil)
	}

	const n = 8
	var wg sync.WaitGroup
	results := make([]*program.Program, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := c.GetOrCompile("shared", compile)
			if err != nil {
				t.Error(err)
				return
			}
			results[i] = p
		}(i)
	}

	// Give the goroutines time to pile up on the in-flight call.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected 1 compile call, got %d", got)
	}
	for i := 1; i < n; i++ {
		if results[i] != results[0] {
			t.Fatal("all callers should receive the same program")
		}
	}
}
