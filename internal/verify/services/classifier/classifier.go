package classifier

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/weppos/publicsuffix-go/publicsuffix"

	"github.com/haukened/ddverify/internal/verify/common/log"
	"github.com/haukened/ddverify/internal/verify/common/utils"
	"github.com/haukened/ddverify/internal/verify/domain"
)

// Classifier answers public suffix questions against a dataset plus a set of
// locally curated suffixes. All lookups canonicalize their input first.
type Classifier struct {
	m         matcher
	overrides map[string]struct{}
	memo      Memo
	logger    log.Logger
	rules     int
}

type Options struct {
	// ICANNOnly skips the private-domain section of the dataset.
	ICANNOnly bool
	// Memo caches decompositions; nil disables caching.
	Memo   Memo
	Logger log.Logger
}

// Load parses a public suffix dataset. An empty blob, or one that yields no
// rules, wraps domain.ErrDatasetParse.
func Load(dataset []byte, overrides []string, opts Options) (*Classifier, error) {
	if len(bytes.TrimSpace(dataset)) == 0 {
		return nil, fmt.Errorf("%w: empty dataset", domain.ErrDatasetParse)
	}
	list := publicsuffix.NewList()
	rules, err := list.Load(bytes.NewReader(dataset), &publicsuffix.ParserOption{
		PrivateDomains: !opts.ICANNOnly,
		ASCIIEncoded:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDatasetParse, err)
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("%w: no rules found", domain.ErrDatasetParse)
	}
	for _, r := range rules {
		if !validRuleValue(r.Value) {
			return nil, fmt.Errorf("%w: malformed rule %q", domain.ErrDatasetParse, r.Value)
		}
	}

	c := newClassifier(listMatcher{
		list: list,
		find: &publicsuffix.FindOptions{IgnorePrivate: opts.ICANNOnly, DefaultRule: publicsuffix.DefaultRule},
	}, overrides, opts)
	c.rules = len(rules)
	c.logger.Info(map[string]any{
		"rules":      c.rules,
		"overrides":  len(c.overrides),
		"icann_only": opts.ICANNOnly,
	}, "suffix dataset loaded")
	return c, nil
}

// Builtin returns a Classifier backed by the dataset compiled into
// golang.org/x/net/publicsuffix. ICANNOnly has no effect on it.
func Builtin(overrides []string, opts Options) *Classifier {
	c := newClassifier(builtinMatcher{}, overrides, opts)
	c.logger.Info(map[string]any{"overrides": len(c.overrides)}, "using builtin suffix dataset")
	return c
}

func newClassifier(m matcher, overrides []string, opts Options) *Classifier {
	set := make(map[string]struct{}, len(overrides))
	for _, o := range overrides {
		if o = utils.CanonicalDomain(o); o != "" {
			set[o] = struct{}{}
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Classifier{m: m, overrides: set, memo: opts.Memo, logger: logger}
}

// Rules returns the number of dataset rules parsed; zero for Builtin.
func (c *Classifier) Rules() int { return c.rules }

// Split decomposes name around its public suffix under the dataset alone.
// Overrides do not participate.
func (c *Classifier) Split(name string) domain.SuffixSplit {
	name = utils.CanonicalDomain(name)
	if name == "" {
		return domain.SuffixSplit{}
	}
	if c.memo != nil {
		if s, ok := c.memo.Get(name); ok {
			return s
		}
	}
	s := c.m.split(name)
	if c.memo != nil {
		c.memo.Put(name, s)
	}
	return s
}

// IsExactPublicSuffix reports whether name is its own public suffix, or is
// one of the local overrides.
func (c *Classifier) IsExactPublicSuffix(name string) bool {
	canon := utils.CanonicalDomain(name)
	if canon == "" {
		return false
	}
	if _, ok := c.overrides[canon]; ok {
		return true
	}
	return c.Split(canon).IsExact()
}

// PrivatePartCount returns the number of labels below the matched public suffix.
func (c *Classifier) PrivatePartCount(name string) int {
	return c.Split(name).PrivateParts()
}

// IsValidUnderLocalSuffix reports whether stripping the first label of name
// leaves a local override, so name is one label under a curated suffix.
func (c *Classifier) IsValidUnderLocalSuffix(name string) bool {
	labels := utils.Labels(utils.CanonicalDomain(name))
	if len(labels) < 2 {
		return false
	}
	_, ok := c.overrides[strings.Join(labels[1:], ".")]
	return ok
}

// LogStats writes memo counters at debug level.
func (c *Classifier) LogStats() {
	if c.memo == nil {
		return
	}
	hits, misses, evictions := c.memo.Stats()
	c.logger.Debug(map[string]any{
		"entries":   c.memo.Len(),
		"hits":      hits,
		"misses":    misses,
		"evictions": evictions,
	}, "suffix memo stats")
}

// validRuleValue reports whether v holds only hostname characters. Anything
// else means the blob was not a suffix list, such as an HTML error page.
func validRuleValue(v string) bool {
	if v == "" {
		return false
	}
	for i := 0; i < len(v); i++ {
		switch b := v[i]; {
		case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		case b == '-', b == '.', b == '*', b >= 0x80:
		default:
			return false
		}
	}
	return true
}
