package lists

import (
	logpkg "github.com/haukened/ddverify/internal/verify/common/log"
	"github.com/haukened/ddverify/internal/verify/domain"
)

// FileStore binds the package functions to a logger for callers that take a
// list store by interface.
type FileStore struct {
	Logger logpkg.Logger
}

func NewFileStore(logger logpkg.Logger) FileStore {
	if logger == nil {
		logger = logpkg.NewNoopLogger()
	}
	return FileStore{Logger: logger}
}

func (s FileStore) Load(path string, kind domain.ListKind) (domain.DomainList, error) {
	return Load(path, kind, s.Logger)
}

func (s FileStore) Header(path string) ([]string, error) { return LoadHeader(path) }

func (s FileStore) Write(path string, header, domains []string) error {
	return Write(path, header, domains)
}
