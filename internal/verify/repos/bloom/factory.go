package bloom

import (
	bitsbloom "github.com/bits-and-blooms/bloom/v3"

	"github.com/haukened/ddverify/internal/verify/services/engine"
)

// factory implements engine.PrefilterFactory on top of bits-and-blooms.
type factory struct {
	sizer Sizer
}

// NewFactory returns a PrefilterFactory that sizes filters with NewSizer.
func NewFactory() engine.PrefilterFactory { return factory{sizer: NewSizer()} }

// New builds an empty filter for capacity keys at the target false-positive rate.
func (f factory) New(capacity uint64, fpRate float64) engine.Prefilter {
	m, k := f.sizer.Size(capacity, fpRate)
	return &filter{bf: bitsbloom.New(uint(m), uint(k))}
}

var _ engine.PrefilterFactory = factory{}
