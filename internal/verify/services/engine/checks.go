package engine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/haukened/ddverify/internal/verify/domain"
)

// Check names, in the order DefaultChecks runs them.
const (
	CheckPublicSuffix = "public_suffix"
	CheckDomainLevel  = "domain_level"
	CheckLowercase    = "lowercase"
	CheckDuplicates   = "duplicates"
	CheckSortOrder    = "sort_order"
	CheckIntersection = "intersection"
	CheckSyntax       = "syntax"
)

// DefaultChecks returns the canonical battery. A nil factory disables the
// intersection prefilter; exact set membership decides either way.
func DefaultChecks(prefilters PrefilterFactory) []Check {
	return []Check{
		PublicSuffixCheck{},
		DomainLevelCheck{},
		LowercaseCheck{},
		DuplicatesCheck{},
		SortOrderCheck{},
		IntersectionCheck{Prefilters: prefilters},
		NewSyntaxCheck(),
	}
}

func violation(check string, e domain.DomainEntry, msg string) domain.Violation {
	return domain.Violation{Check: check, List: e.List, Line: e.Line, Text: e.Text, Message: msg}
}

// Registrable applies the combined rule: never an exact public suffix, and
// either exactly one private part or valid under a local override.
func Registrable(c Classifier, name string) bool {
	if c.IsExactPublicSuffix(name) {
		return false
	}
	return c.PrivatePartCount(name) == 1 || c.IsValidUnderLocalSuffix(name)
}

// PublicSuffixCheck flags deny entries that name a public suffix verbatim.
type PublicSuffixCheck struct{}

func (PublicSuffixCheck) Name() string { return CheckPublicSuffix }

func (PublicSuffixCheck) Run(in Input) []domain.Violation {
	var out []domain.Violation
	for _, e := range in.Deny.Entries {
		if in.Classifier.IsExactPublicSuffix(e.Text) {
			out = append(out, violation(CheckPublicSuffix, e, "is a public suffix; blocking it would block every domain registered under it"))
		}
	}
	return out
}

// DomainLevelCheck flags deny entries that are not a single registrable domain.
type DomainLevelCheck struct{}

func (DomainLevelCheck) Name() string { return CheckDomainLevel }

func (DomainLevelCheck) Run(in Input) []domain.Violation {
	var out []domain.Violation
	for _, e := range in.Deny.Entries {
		if Registrable(in.Classifier, e.Text) {
			continue
		}
		var msg string
		switch n := in.Classifier.PrivatePartCount(e.Text); {
		case in.Classifier.IsExactPublicSuffix(e.Text) || n == 0:
			msg = "has no private part below its public suffix"
		default:
			msg = fmt.Sprintf("has %d private parts below its public suffix, want exactly 1", n)
		}
		out = append(out, violation(CheckDomainLevel, e, msg))
	}
	return out
}

// LowercaseCheck flags entries in either list that are not fully lowercase.
type LowercaseCheck struct{}

func (LowercaseCheck) Name() string { return CheckLowercase }

func (LowercaseCheck) Run(in Input) []domain.Violation {
	var out []domain.Violation
	for _, l := range []domain.DomainList{in.Deny, in.Allow} {
		for _, e := range l.Entries {
			// invalid UTF-8 would change under ToLower; syntax reports it
			if !utf8.ValidString(e.Text) {
				continue
			}
			if lower := strings.ToLower(e.Text); lower != e.Text {
				out = append(out, violation(CheckLowercase, e, fmt.Sprintf("must be lowercase (%q)", lower)))
			}
		}
	}
	return out
}

// DuplicatesCheck reports each value that occurs more than once within a list.
// The violation sits on the first occurrence and cites every line.
type DuplicatesCheck struct{}

func (DuplicatesCheck) Name() string { return CheckDuplicates }

func (DuplicatesCheck) Run(in Input) []domain.Violation {
	var out []domain.Violation
	for _, l := range []domain.DomainList{in.Deny, in.Allow} {
		lines := make(map[string][]int, len(l.Entries))
		var order []domain.DomainEntry
		for _, e := range l.Entries {
			if _, seen := lines[e.Text]; !seen {
				order = append(order, e)
			}
			lines[e.Text] = append(lines[e.Text], e.Line)
		}
		for _, e := range order {
			at := lines[e.Text]
			if len(at) < 2 {
				continue
			}
			out = append(out, violation(CheckDuplicates, e, fmt.Sprintf("appears %d times, on lines %s", len(at), joinInts(at))))
		}
	}
	return out
}

// SortOrderCheck reports the first entry of each list that breaks ordinal
// ascending order, naming the entry it belongs after.
type SortOrderCheck struct{}

func (SortOrderCheck) Name() string { return CheckSortOrder }

func (SortOrderCheck) Run(in Input) []domain.Violation {
	var out []domain.Violation
	for _, l := range []domain.DomainList{in.Deny, in.Allow} {
		if v, ok := firstUnsorted(l); ok {
			out = append(out, v)
		}
	}
	return out
}

func firstUnsorted(l domain.DomainList) (domain.Violation, bool) {
	for i := 1; i < len(l.Entries); i++ {
		prev, cur := l.Entries[i-1], l.Entries[i]
		if prev.Text <= cur.Text {
			continue
		}
		sorted := l.Texts()
		sort.Strings(sorted)
		idx := sort.SearchStrings(sorted, cur.Text)
		var msg string
		if idx == 0 {
			msg = fmt.Sprintf("is out of order: it should come first, not after %q", prev.Text)
		} else {
			msg = fmt.Sprintf("is out of order: it should follow %q, not %q", sorted[idx-1], prev.Text)
		}
		return violation(CheckSortOrder, cur, msg), true
	}
	return domain.Violation{}, false
}

// IntersectionCheck flags deny entries whose text also appears in the allow list.
type IntersectionCheck struct {
	Prefilters PrefilterFactory
}

// intersectionFPRate is the prefilter's target false-positive rate.
const intersectionFPRate = 0.001

func (IntersectionCheck) Name() string { return CheckIntersection }

func (c IntersectionCheck) Run(in Input) []domain.Violation {
	if in.Allow.Len() == 0 || in.Deny.Len() == 0 {
		return nil
	}
	allowed := in.Allow.Index()

	var pf Prefilter
	if c.Prefilters != nil {
		pf = c.Prefilters.New(uint64(len(allowed)), intersectionFPRate)
		for text := range allowed {
			pf.Add([]byte(text))
		}
	}

	var out []domain.Violation
	reported := make(map[string]struct{})
	for _, e := range in.Deny.Entries {
		if pf != nil && !pf.MightContain([]byte(e.Text)) {
			continue
		}
		line, ok := allowed[e.Text]
		if !ok {
			continue
		}
		if _, dup := reported[e.Text]; dup {
			continue
		}
		reported[e.Text] = struct{}{}
		out = append(out, violation(CheckIntersection, e, fmt.Sprintf("is also in the allow list (line %d)", line)))
	}
	return out
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
