package engine

import "github.com/haukened/ddverify/internal/verify/domain"

// Classifier answers the public suffix questions the deny-list checks need.
// Implemented by services/classifier.
type Classifier interface {
	IsExactPublicSuffix(name string) bool
	PrivatePartCount(name string) int
	IsValidUnderLocalSuffix(name string) bool
}

// Input is everything a check may look at. Checks must treat it as read-only.
type Input struct {
	Deny       domain.DomainList
	Allow      domain.DomainList
	Classifier Classifier
}

// Check is one validation pass. Run returns every violation it finds, in list order.
type Check interface {
	Name() string
	Run(in Input) []domain.Violation
}

// Prefilter is a probabilistic membership test. MightContain may report false
// positives but never false negatives.
type Prefilter interface {
	Add(key []byte)
	MightContain(key []byte) bool
}

// PrefilterFactory builds a Prefilter sized for capacity keys at the target
// false-positive rate. Implemented by repos/bloom.
type PrefilterFactory interface {
	New(capacity uint64, fpRate float64) Prefilter
}
