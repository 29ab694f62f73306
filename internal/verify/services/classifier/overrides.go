package classifier

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/haukened/ddverify/internal/verify/common/utils"
	"github.com/haukened/ddverify/internal/verify/domain"
)

// ParseOverrides reads one suffix per line. Blank lines and '#' comments are
// skipped; entries are canonicalized and de-duplicated in first-seen order.
func ParseOverrides(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	seen := make(map[string]struct{})
	var out []string
	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		s := utils.CanonicalDomain(strings.TrimPrefix(line, "\uFEFF"))
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadOverrides reads an override file. An empty path means no overrides; a
// path that cannot be read wraps domain.ErrFatalIO.
func LoadOverrides(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open suffix overrides: %v", domain.ErrFatalIO, err)
	}
	defer f.Close()
	out, err := ParseOverrides(f)
	if err != nil {
		return nil, fmt.Errorf("%w: read suffix overrides: %v", domain.ErrFatalIO, err)
	}
	return out, nil
}
