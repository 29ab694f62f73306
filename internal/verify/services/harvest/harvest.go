package harvest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/haukened/ddverify/internal/verify/common/log"
	"github.com/haukened/ddverify/internal/verify/domain"
	"github.com/haukened/ddverify/internal/verify/gateways/sources"
)

// Classifier is the subset of the suffix classifier the harvester filters with.
type Classifier interface {
	IsExactPublicSuffix(name string) bool
	PrivatePartCount(name string) int
}

// ListStore reads and rewrites the deny list. Implemented by repos/lists.FileStore.
type ListStore interface {
	Load(path string, kind domain.ListKind) (domain.DomainList, error)
	Header(path string) ([]string, error)
	Write(path string, header, domains []string) error
}

type Options struct {
	Sources    []sources.Source
	Classifier Classifier
	Store      ListStore
	DenyPath   string
	// Allow holds domains that must never be added to the deny list.
	Allow  domain.DomainList
	Out    io.Writer
	Logger log.Logger
}

// Summary describes what a harvest run changed.
type Summary struct {
	Sources   int                 // sources that yielded at least one usable domain
	Added     int                 // domains appended to the deny list
	PerSource map[string][]string // added domains by source name, sorted
}

// Print writes the final summary block.
func (s Summary) Print(w io.Writer) error {
	_, err := fmt.Fprintf(w, "\n=== Summary ===\nProcessed %d source(s)\nTotal new domains added: %d\n", s.Sources, s.Added)
	return err
}

// Run fetches every source, keeps candidates that are exactly one label under
// a public suffix, and merges the ones not already listed into the deny list.
// A failing source is logged and skipped. Only a deny list that cannot be
// read or written fails the run.
func Run(ctx context.Context, opts Options) (Summary, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	existing, err := loadExisting(opts.Store, opts.DenyPath, logger)
	if err != nil {
		return Summary{}, err
	}
	allowed := make(map[string]struct{}, opts.Allow.Len())
	for _, e := range opts.Allow.Entries {
		allowed[strings.ToLower(e.Text)] = struct{}{}
	}

	summary := Summary{PerSource: make(map[string][]string)}
	for _, src := range opts.Sources {
		fmt.Fprintf(out, "\n=== Fetching domains from %s ===\n", src.Name())
		raw, err := src.Fetch(ctx)
		if err != nil {
			logger.Error(map[string]any{"source": src.Name(), "error": err.Error()}, "source fetch failed")
			continue
		}

		candidates := filter(raw, opts.Classifier)
		fmt.Fprintf(out, "Found %d domains from %s\n", len(candidates), src.Name())
		if len(candidates) == 0 {
			fmt.Fprintf(out, "No domains found from %s\n", src.Name())
			continue
		}
		summary.Sources++

		var added []string
		for _, d := range candidates {
			if _, ok := existing[d]; ok {
				continue
			}
			if _, ok := allowed[d]; ok {
				logger.Debug(map[string]any{"source": src.Name(), "domain": d}, "skip_allowlisted")
				continue
			}
			added = append(added, d)
		}
		if len(added) == 0 {
			fmt.Fprintf(out, "No new domains to add from %s.\n", src.Name())
			continue
		}

		fmt.Fprintf(out, "Found %d new domains to add from %s:\n", len(added), src.Name())
		for _, d := range added {
			fmt.Fprintf(out, "  + %s\n", d)
			existing[d] = struct{}{}
		}
		if err := writeMerged(opts.Store, opts.DenyPath, existing); err != nil {
			return summary, err
		}
		summary.Added += len(added)
		summary.PerSource[src.Name()] = added
		logger.Info(map[string]any{"source": src.Name(), "added": len(added)}, "deny list updated")
	}
	return summary, nil
}

// filter lowercases and de-duplicates raw, keeping names with exactly one
// private part that are not public suffixes. The result is sorted.
func filter(raw []string, c Classifier) []string {
	seen := make(map[string]struct{}, len(raw))
	var out []string
	for _, d := range raw {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		if c.PrivatePartCount(d) != 1 || c.IsExactPublicSuffix(d) {
			continue
		}
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

func loadExisting(store ListStore, path string, logger log.Logger) (map[string]struct{}, error) {
	existing := make(map[string]struct{})
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		logger.Warn(map[string]any{"path": path}, "deny list not found; starting with an empty list")
		return existing, nil
	}
	list, err := store.Load(path, domain.ListDeny)
	if err != nil {
		return nil, err
	}
	for _, e := range list.Entries {
		existing[strings.ToLower(e.Text)] = struct{}{}
	}
	return existing, nil
}

func writeMerged(store ListStore, path string, set map[string]struct{}) error {
	header, err := store.Header(path)
	if err != nil {
		return err
	}
	merged := make([]string, 0, len(set))
	for d := range set {
		merged = append(merged, d)
	}
	sort.Strings(merged)
	if err := store.Write(path, header, merged); err != nil {
		return fmt.Errorf("writing deny list: %w", err)
	}
	return nil
}
