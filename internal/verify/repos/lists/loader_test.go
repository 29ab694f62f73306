package lists

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logpkg "github.com/haukened/ddverify/internal/verify/common/log"
	"github.com/haukened/ddverify/internal/verify/domain"
)

func TestParse_CommentsAndLineNumbers(t *testing.T) {
	input := "\uFEFF# header\n" +
		"\n" +
		"mailinator.com\n" +
		"  tempmail.org  # inline\n" +
		"   # indented comment\n" +
		"Example.COM\n" +
		"\t\n"

	list, err := Parse(strings.NewReader(input), "deny.conf", domain.ListDeny, logpkg.NewNoopLogger())
	require.NoError(t, err)

	assert.Equal(t, domain.ListDeny, list.Kind)
	assert.Equal(t, "deny.conf", list.Source)
	assert.Equal(t, 7, list.Lines)
	require.Len(t, list.Entries, 3)

	assert.Equal(t, domain.DomainEntry{Raw: "mailinator.com", Text: "mailinator.com", List: domain.ListDeny, Line: 3}, list.Entries[0])
	assert.Equal(t, "tempmail.org", list.Entries[1].Text)
	assert.Equal(t, "  tempmail.org  # inline", list.Entries[1].Raw)
	assert.Equal(t, 4, list.Entries[1].Line)
	// case is preserved for the lowercase check
	assert.Equal(t, "Example.COM", list.Entries[2].Text)
	assert.Equal(t, 6, list.Entries[2].Line)
}

func TestParse_BOMOnFirstEntry(t *testing.T) {
	list, err := Parse(strings.NewReader("\uFEFFa.com\nb.com"), "x", domain.ListAllow, logpkg.NewNoopLogger())
	require.NoError(t, err)
	require.Len(t, list.Entries, 2)
	assert.Equal(t, "a.com", list.Entries[0].Text)
	assert.Equal(t, "a.com", list.Entries[0].Raw)
	assert.Equal(t, domain.ListAllow, list.Entries[1].List)
	assert.Equal(t, 2, list.Lines)
}

func TestParse_KeepsDuplicatesAndOrder(t *testing.T) {
	list, err := Parse(strings.NewReader("b.com\na.com\nb.com\n"), "x", domain.ListDeny, logpkg.NewNoopLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"b.com", "a.com", "b.com"}, list.Texts())
}

func TestParse_Empty(t *testing.T) {
	list, err := Parse(strings.NewReader(""), "x", domain.ListDeny, logpkg.NewNoopLogger())
	require.NoError(t, err)
	assert.Equal(t, 0, list.Len())
	assert.Equal(t, 0, list.Lines)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestParse_ReaderError(t *testing.T) {
	_, err := Parse(failingReader{}, "x", domain.ListDeny, logpkg.NewNoopLogger())
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "allowlist.conf")
	require.NoError(t, os.WriteFile(path, []byte("# allow\ngmail.com\n"), 0o644))

	list, err := Load(path, domain.ListAllow, logpkg.NewNoopLogger())
	require.NoError(t, err)
	assert.Equal(t, path, list.Source)
	assert.Equal(t, []string{"gmail.com"}, list.Texts())
	assert.Equal(t, 2, list.Entries[0].Line)
}

func TestLoad_MissingFileIsFatalIO(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.conf"), domain.ListDeny, logpkg.NewNoopLogger())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrFatalIO))
	assert.Contains(t, err.Error(), "deny list")
}

func TestLoadHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deny.conf")
	require.NoError(t, os.WriteFile(path, []byte("# one\n# two\n\na.com\n# later\n"), 0o644))

	header, err := LoadHeader(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"# one", "# two", ""}, header)

	header, err = LoadHeader(filepath.Join(dir, "missing.conf"))
	require.NoError(t, err)
	assert.Nil(t, header)
}
