package lru

import (
	"testing"

	"github.com/haukened/ddverify/internal/verify/domain"
)

func TestSplitCache_HitMissAndPut(t *testing.T) {
	c, err := New(2)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	split := domain.SuffixSplit{Prefix: "foo", Suffix: "co.uk"}

	if _, ok := c.Get("foo.co.uk"); ok {
		t.Fatalf("expected miss before put")
	}
	c.Put("foo.co.uk", split)

	got, ok := c.Get("foo.co.uk")
	if !ok || got != split {
		t.Fatalf("unexpected get: ok=%v got=%+v", ok, got)
	}

	hits, misses, evictions := c.Stats()
	if hits != 1 || misses != 1 || evictions != 0 {
		t.Fatalf("stats = %d/%d/%d, want 1/1/0", hits, misses, evictions)
	}
}

func TestSplitCache_Eviction(t *testing.T) {
	c, err := New(2)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	c.Put("a.com", domain.SuffixSplit{Prefix: "a", Suffix: "com"})
	c.Put("b.com", domain.SuffixSplit{Prefix: "b", Suffix: "com"})
	c.Put("c.com", domain.SuffixSplit{Prefix: "c", Suffix: "com"})

	if got := c.Len(); got != 2 {
		t.Fatalf("len=%d want=2 after eviction", got)
	}
	if _, ok := c.Get("a.com"); ok {
		t.Fatalf("least recently used entry should have been evicted")
	}
	if _, _, evictions := c.Stats(); evictions != 1 {
		t.Fatalf("evictions=%d want=1", evictions)
	}
}

func TestDisabledCache(t *testing.T) {
	for _, size := range []int{0, -1} {
		c, err := New(size)
		if err != nil {
			t.Fatalf("New(%d) error: %v", size, err)
		}
		c.Put("a.com", domain.SuffixSplit{Prefix: "a", Suffix: "com"})
		if _, ok := c.Get("a.com"); ok {
			t.Fatalf("disabled cache must always miss")
		}
		if c.Len() != 0 {
			t.Fatalf("disabled cache must be empty")
		}
		if h, m, e := c.Stats(); h != 0 || m != 0 || e != 0 {
			t.Fatalf("disabled cache tracks no metrics, got %d/%d/%d", h, m, e)
		}
	}
}
