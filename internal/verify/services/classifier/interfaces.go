package classifier

import "github.com/haukened/ddverify/internal/verify/domain"

// Memo caches suffix decompositions by canonical name with basic metrics.
// Implemented by repos/memo/lru.
type Memo interface {
	Get(name string) (domain.SuffixSplit, bool)
	Put(name string, s domain.SuffixSplit)
	Len() int
	Stats() (hits, misses, evictions uint64)
}

// matcher decomposes a canonical, non-empty name around its public suffix.
type matcher interface {
	split(name string) domain.SuffixSplit
}
