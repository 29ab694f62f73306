package lists

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/haukened/ddverify/internal/verify/domain"
)

// Write replaces the list at path with header followed by domains, one per
// line. The content goes to a temporary file in the same directory which is
// then renamed over path, so readers never see a partial list.
func Write(path string, header, domains []string) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("%w: create temp list: %v", domain.ErrFatalIO, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	for _, line := range header {
		if _, err = fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("%w: write header: %v", domain.ErrFatalIO, err)
		}
	}
	for _, d := range domains {
		if _, err = fmt.Fprintln(w, d); err != nil {
			return fmt.Errorf("%w: write entry: %v", domain.ErrFatalIO, err)
		}
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("%w: flush list: %v", domain.ErrFatalIO, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("%w: sync list: %v", domain.ErrFatalIO, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: close list: %v", domain.ErrFatalIO, err)
	}
	if info, statErr := os.Stat(path); statErr == nil {
		_ = os.Chmod(tmp.Name(), info.Mode().Perm())
	} else {
		_ = os.Chmod(tmp.Name(), 0o644)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: replace list: %v", domain.ErrFatalIO, err)
	}
	return nil
}
