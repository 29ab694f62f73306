package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractDomains(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"none", "no addresses here", []string{}},
		{"at domain", "write to someone@Example.COM today", []string{"example.com"}},
		{
			"multiple on a line",
			"contact: user@example.com, other@mail.test.org",
			[]string{"example.com", "mail.test.org"},
		},
		{"bare at list", "@yopmail.fr\n@cool.fr.nf\n@jetable.fr.nf\n", []string{"cool.fr.nf", "jetable.fr.nf", "yopmail.fr"}},
		{"deduplicated", "a@dup.com\nb@DUP.com\n", []string{"dup.com"}},
		{"numeric tld ignored", "x@host.123", []string{}},
		{"leading part on at line", "mail.example.net @ and more", []string{"mail.example.net"}},
		{"line without at ignored", "plain.example.org", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractDomains(tt.text))
		})
	}
}
