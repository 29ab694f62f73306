package utils

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

// CanonicalDomain returns a domain in the form used for suffix lookups:
// - Trimmed of surrounding whitespace
// - Lowercased
// - No trailing dots
// - Non-ASCII names converted to A-labels; names IDNA rejects are returned lowercased as-is
func CanonicalDomain(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimRight(name, ".")
	if isASCII(name) {
		return name
	}
	ascii, err := idna.Lookup.ToASCII(name)
	if err != nil {
		return name
	}
	return strings.ToLower(ascii)
}

// Labels splits a canonical domain into its dot-separated labels.
// The empty string has no labels.
func Labels(name string) []string {
	if name == "" {
		return nil
	}
	return strings.Split(name, ".")
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
