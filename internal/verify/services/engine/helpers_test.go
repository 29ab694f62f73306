package engine

import (
	"strings"

	"github.com/haukened/ddverify/internal/verify/domain"
)

// fakeClassifier treats suffixes as plain rules (longest match) and
// overrides as locally curated suffixes.
type fakeClassifier struct {
	suffixes  map[string]bool
	overrides map[string]bool
}

func newFakeClassifier(suffixes []string, overrides ...string) fakeClassifier {
	c := fakeClassifier{suffixes: map[string]bool{}, overrides: map[string]bool{}}
	for _, s := range suffixes {
		c.suffixes[s] = true
	}
	for _, s := range overrides {
		c.overrides[s] = true
	}
	return c
}

func (c fakeClassifier) matched(name string) string {
	labels := strings.Split(name, ".")
	for i := range labels {
		if cand := strings.Join(labels[i:], "."); c.suffixes[cand] {
			return cand
		}
	}
	return labels[len(labels)-1]
}

func (c fakeClassifier) IsExactPublicSuffix(name string) bool {
	return c.overrides[name] || c.matched(name) == name
}

func (c fakeClassifier) PrivatePartCount(name string) int {
	suffix := c.matched(name)
	if suffix == name {
		return 0
	}
	return strings.Count(strings.TrimSuffix(name, "."+suffix), ".") + 1
}

func (c fakeClassifier) IsValidUnderLocalSuffix(name string) bool {
	labels := strings.Split(name, ".")
	return len(labels) > 1 && c.overrides[strings.Join(labels[1:], ".")]
}

func list(kind domain.ListKind, texts ...string) domain.DomainList {
	l := domain.DomainList{Kind: kind, Source: kind.String() + ".conf", Lines: len(texts)}
	for i, t := range texts {
		l.Entries = append(l.Entries, domain.DomainEntry{Raw: t, Text: t, List: kind, Line: i + 1})
	}
	return l
}

func deny(texts ...string) domain.DomainList  { return list(domain.ListDeny, texts...) }
func allow(texts ...string) domain.DomainList { return list(domain.ListAllow, texts...) }

var defaultSuffixes = []string{"com", "org", "net", "uk", "co.uk"}
