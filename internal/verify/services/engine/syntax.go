package engine

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/haukened/ddverify/internal/verify/domain"
)

// SyntaxTag is the validator tag for list entries.
const SyntaxTag = "list_domain"

// domainGrammar: one or more labels of 1-63 alphanumerics with internal
// hyphens, then an alphabetic TLD of 2-6 characters.
var domainGrammar = regexp.MustCompile(`^(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,6}$`)

func validListDomain(fl validator.FieldLevel) bool {
	return domainGrammar.MatchString(fl.Field().String())
}

// SyntaxCheck flags entries in either list that do not match the generic
// domain grammar.
type SyntaxCheck struct {
	validate *validator.Validate
}

// NewSyntaxCheck returns a SyntaxCheck with the list_domain tag registered.
func NewSyntaxCheck() SyntaxCheck {
	v := validator.New()
	// registration only fails for an empty tag or nil func
	_ = v.RegisterValidation(SyntaxTag, validListDomain)
	return SyntaxCheck{validate: v}
}

func (SyntaxCheck) Name() string { return CheckSyntax }

func (c SyntaxCheck) Run(in Input) []domain.Violation {
	v := c.validate
	if v == nil {
		v = NewSyntaxCheck().validate
	}
	var out []domain.Violation
	for _, l := range []domain.DomainList{in.Deny, in.Allow} {
		for _, e := range l.Entries {
			if err := v.Var(e.Text, SyntaxTag); err != nil {
				out = append(out, violation(CheckSyntax, e, "is not a valid domain name"))
			}
		}
	}
	return out
}
