package dnscheck

import (
	"context"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/haukened/ddverify/internal/verify/common/log"
	"github.com/haukened/ddverify/internal/verify/domain"
)

// Prober classifies one name by its MX records. Implemented by gateways/mx.
type Prober interface {
	Lookup(ctx context.Context, name string) domain.MXStatus
}

// Result is the probe outcome for one entry.
type Result struct {
	Entry  domain.DomainEntry
	Status domain.MXStatus
}

// Report summarizes one list's probe run.
type Report struct {
	List        domain.ListKind
	Checked     int
	Unreachable []Result // non-OK entries in list order
}

// OK reports whether every entry has MX records.
func (r Report) OK() bool { return len(r.Unreachable) == 0 }

// Print lists the unreachable entries, if any.
func (r Report) Print(w io.Writer) error {
	if r.OK() {
		_, err := fmt.Fprintf(w, "%s list: all %d domains have MX records\n", r.List, r.Checked)
		return err
	}
	if _, err := fmt.Fprintf(w, "Found invalid domains in DNS (%s list, %d of %d):\n", r.List, len(r.Unreachable), r.Checked); err != nil {
		return err
	}
	for _, res := range r.Unreachable {
		if _, err := fmt.Fprintf(w, "  line %d: %s (%s)\n", res.Entry.Line, res.Entry.Text, res.Status); err != nil {
			return err
		}
	}
	return nil
}

type Options struct {
	// Workers bounds concurrent probes; values below 1 mean 1.
	Workers int
	// Progress receives one status rune per entry as probes finish. May be nil.
	Progress io.Writer
	Logger   log.Logger
}

// Run probes every entry of list. It fails only when ctx is canceled.
func Run(ctx context.Context, list domain.DomainList, prober Prober, opts Options) (Report, error) {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	statuses := make([]domain.MXStatus, len(list.Entries))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, e := range list.Entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			st := prober.Lookup(gctx, e.Text)
			statuses[i] = st
			if opts.Progress != nil {
				mu.Lock()
				_, _ = fmt.Fprintf(opts.Progress, "%c", st.Rune())
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, fmt.Errorf("probing %s list: %w", list.Kind, err)
	}
	if err := ctx.Err(); err != nil {
		return Report{}, fmt.Errorf("probing %s list: %w", list.Kind, err)
	}
	if opts.Progress != nil {
		_, _ = fmt.Fprintln(opts.Progress)
	}

	report := Report{List: list.Kind, Checked: len(list.Entries)}
	for i, e := range list.Entries {
		if statuses[i] != domain.MXOK {
			report.Unreachable = append(report.Unreachable, Result{Entry: e, Status: statuses[i]})
		}
	}
	logger.Info(map[string]any{
		"list":        list.Kind.String(),
		"checked":     report.Checked,
		"unreachable": len(report.Unreachable),
		"workers":     workers,
	}, "mx check complete")
	return report, nil
}
