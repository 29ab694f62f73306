package sources

import (
	"regexp"
	"sort"
	"strings"
)

const domainPattern = `[a-zA-Z0-9](?:[a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?)*\.[a-zA-Z]{2,}`

var (
	atDomain      = regexp.MustCompile(`@(` + domainPattern + `)`)
	leadingDomain = regexp.MustCompile(`^(` + domainPattern + `)`)
)

// ExtractDomains finds candidate domains in page text. It takes every name
// following an '@', and on lines holding both '@' and '.', the name leading
// each '@'-separated part. Results are lowercased, unique and sorted.
func ExtractDomains(text string) []string {
	found := make(map[string]struct{})
	for _, m := range atDomain.FindAllStringSubmatch(text, -1) {
		found[strings.ToLower(m[1])] = struct{}{}
	}

	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(line, "@") || !strings.Contains(line, ".") {
			continue
		}
		for _, part := range strings.Split(line, "@") {
			part = strings.TrimSpace(part)
			if part == "" || !strings.Contains(part, ".") {
				continue
			}
			if m := leadingDomain.FindStringSubmatch(part); m != nil {
				found[strings.ToLower(m[1])] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(found))
	for d := range found {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
