package sources

import "context"

// Source produces candidate disposable domains from one third-party service.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]string, error)
}
