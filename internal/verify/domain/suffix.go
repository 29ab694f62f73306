package domain

import (
	"strings"
	"time"
)

// SuffixSplit is the decomposition of a name around its matched public suffix.
//
// exact suffix - Prefix is empty (e.g., "co.uk" -> {"", "co.uk"})
// registrable  - Prefix holds exactly one label (e.g., "foo.co.uk" -> {"foo", "co.uk"})
type SuffixSplit struct {
	Prefix string
	Suffix string
}

// IsExact reports whether the name was exactly its public suffix.
func (s SuffixSplit) IsExact() bool { return s.Prefix == "" }

// PrivateParts returns the number of labels below the public suffix.
func (s SuffixSplit) PrivateParts() int {
	if s.Prefix == "" {
		return 0
	}
	return strings.Count(s.Prefix, ".") + 1
}

// SnapshotMeta describes one stored copy of the public suffix dataset.
type SnapshotMeta struct {
	Digest    string // hex sha256 of the body
	URL       string
	FetchedAt time.Time
	Size      int
}
