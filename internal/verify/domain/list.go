package domain

import (
	"fmt"
	"strings"
)

// ListKind identifies which curated list an entry belongs to.
type ListKind uint8

const (
	// ListDeny is the blocklist of disposable email domains.
	ListDeny ListKind = iota
	// ListAllow is the list of domains explicitly exempt from blocking.
	ListAllow
)

// String returns a stable string representation of the list kind.
func (k ListKind) String() string {
	switch k {
	case ListDeny:
		return "deny"
	case ListAllow:
		return "allow"
	default:
		return fmt.Sprintf("ListKind(%d)", k)
	}
}

// ParseListKind converts a string into a ListKind.
// Accepts: "deny", "allow" (case-insensitive).
func ParseListKind(s string) (ListKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deny":
		return ListDeny, nil
	case "allow":
		return ListAllow, nil
	default:
		return 0, fmt.Errorf("unsupported ListKind: %q", s)
	}
}

// DomainEntry is a single non-comment line of a list file.
//
// Notes:
// - Raw is the physical line as read (byte order mark removed).
// - Text is everything before the first '#', whitespace-trimmed.
// - Line is 1-based and counts every physical line, comments included.
type DomainEntry struct {
	Raw  string
	Text string
	List ListKind
	Line int
}

// DomainList is the ordered sequence of entries loaded from one list file.
type DomainList struct {
	Kind    ListKind
	Source  string
	Entries []DomainEntry
	Lines   int // physical lines read, including blanks and comments
}

// Len returns the number of data entries.
func (l DomainList) Len() int { return len(l.Entries) }

// Texts returns the trimmed text of every entry in file order.
func (l DomainList) Texts() []string {
	out := make([]string, len(l.Entries))
	for i, e := range l.Entries {
		out[i] = e.Text
	}
	return out
}

// Index maps each trimmed text to the line of its first occurrence.
func (l DomainList) Index() map[string]int {
	idx := make(map[string]int, len(l.Entries))
	for _, e := range l.Entries {
		if _, ok := idx[e.Text]; !ok {
			idx[e.Text] = e.Line
		}
	}
	return idx
}
