package lru

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/haukened/ddverify/internal/verify/domain"
	"github.com/haukened/ddverify/internal/verify/services/classifier"
)

// splitCache is an LRU-backed implementation of classifier.Memo.
// It tracks hits, misses, and evictions.
type splitCache struct {
	lru       *lru.Cache[string, domain.SuffixSplit]
	hits      uint64
	misses    uint64
	evictions uint64
}

// disabledCache always misses. Used when size <= 0.
type disabledCache struct{}

// New creates a Memo holding up to size decompositions. If size <= 0 a
// disabled memo is returned that always misses and tracks no metrics.
func New(size int) (classifier.Memo, error) {
	if size <= 0 {
		return disabledCache{}, nil
	}

	var sc splitCache
	cache, err := lru.NewWithEvict(size, func(_ string, _ domain.SuffixSplit) {
		atomic.AddUint64(&sc.evictions, 1)
	})
	if err != nil {
		return nil, err
	}
	sc.lru = cache
	return &sc, nil
}

// Get looks up a decomposition by canonical name, counting the hit or miss.
func (c *splitCache) Get(name string) (domain.SuffixSplit, bool) {
	if val, ok := c.lru.Get(name); ok {
		atomic.AddUint64(&c.hits, 1)
		return val, true
	}
	atomic.AddUint64(&c.misses, 1)
	return domain.SuffixSplit{}, false
}

func (c *splitCache) Put(name string, s domain.SuffixSplit) {
	c.lru.Add(name, s)
}

func (c *splitCache) Len() int { return c.lru.Len() }

// Stats returns cumulative hit/miss/eviction counters.
func (c *splitCache) Stats() (hits, misses, evictions uint64) {
	return atomic.LoadUint64(&c.hits), atomic.LoadUint64(&c.misses), atomic.LoadUint64(&c.evictions)
}

func (disabledCache) Get(string) (domain.SuffixSplit, bool) { return domain.SuffixSplit{}, false }

func (disabledCache) Put(string, domain.SuffixSplit) {}

func (disabledCache) Len() int { return 0 }

func (disabledCache) Stats() (uint64, uint64, uint64) { return 0, 0, 0 }

var _ classifier.Memo = (*splitCache)(nil)
var _ classifier.Memo = disabledCache{}
