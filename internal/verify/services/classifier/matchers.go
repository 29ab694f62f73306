package classifier

import (
	"strings"

	"github.com/weppos/publicsuffix-go/publicsuffix"
	xpsl "golang.org/x/net/publicsuffix"

	"github.com/haukened/ddverify/internal/verify/domain"
)

// listMatcher applies a parsed dataset. Names under an unknown TLD fall back
// to the implicit "*" rule.
type listMatcher struct {
	list *publicsuffix.List
	find *publicsuffix.FindOptions
}

func (m listMatcher) split(name string) domain.SuffixSplit {
	rule := m.list.Find(name, m.find)
	parts := rule.Decompose(name)
	if parts[0] == "" {
		return domain.SuffixSplit{Suffix: name}
	}
	return domain.SuffixSplit{Prefix: parts[0], Suffix: parts[1]}
}

// builtinMatcher uses the dataset compiled into golang.org/x/net/publicsuffix.
type builtinMatcher struct{}

func (builtinMatcher) split(name string) domain.SuffixSplit {
	suffix, _ := xpsl.PublicSuffix(name)
	if suffix == name || !strings.HasSuffix(name, "."+suffix) {
		return domain.SuffixSplit{Suffix: name}
	}
	return domain.SuffixSplit{Prefix: strings.TrimSuffix(name, "."+suffix), Suffix: suffix}
}
