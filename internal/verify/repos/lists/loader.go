package lists

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	logpkg "github.com/haukened/ddverify/internal/verify/common/log"
	"github.com/haukened/ddverify/internal/verify/domain"
)

const maxLineBytes = 1 << 20

// Load reads a list file into a DomainList. A missing or unreadable file
// wraps domain.ErrFatalIO.
func Load(path string, kind domain.ListKind, logger logpkg.Logger) (domain.DomainList, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.DomainList{}, fmt.Errorf("%w: open %s list: %v", domain.ErrFatalIO, kind, err)
	}
	defer f.Close()

	list, err := Parse(f, path, kind, logger)
	if err != nil {
		return domain.DomainList{}, fmt.Errorf("%w: read %s list: %v", domain.ErrFatalIO, kind, err)
	}
	logger.Info(map[string]any{
		"list":    kind.String(),
		"source":  path,
		"entries": list.Len(),
		"lines":   list.Lines,
	}, "list loaded")
	return list, nil
}

// Parse splits r into entries.
//
// Behavior:
// - A byte order mark on the first line is removed
// - Everything from the first '#' on is a comment
// - A line whose text before '#' is blank after trimming is skipped
// - Line numbers count every physical line, skipped or not
// - Entries are kept verbatim: no case folding, de-duplication or validation
func Parse(r io.Reader, source string, kind domain.ListKind, logger logpkg.Logger) (domain.DomainList, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	list := domain.DomainList{Kind: kind, Source: source}
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\uFEFF")
		}

		text := line
		if idx := strings.IndexByte(text, '#'); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			logger.Debug(map[string]any{"source": source, "line": lineNum}, "skip_comment_or_blank")
			continue
		}

		list.Entries = append(list.Entries, domain.DomainEntry{
			Raw:  line,
			Text: text,
			List: kind,
			Line: lineNum,
		})
	}
	if err := scanner.Err(); err != nil {
		return domain.DomainList{}, err
	}
	list.Lines = lineNum
	return list, nil
}

// LoadHeader returns the leading comment and blank lines of a list file,
// stopping at the first entry. A missing file has no header.
func LoadHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrFatalIO, path, err)
	}
	defer f.Close()

	var header []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, "\uFEFF")
			first = false
		}
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			break
		}
		header = append(header, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrFatalIO, path, err)
	}
	return header, nil
}
