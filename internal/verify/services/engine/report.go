package engine

import (
	"fmt"
	"io"

	"github.com/haukened/ddverify/internal/verify/domain"
)

// CheckResult holds the violations a single check produced.
type CheckResult struct {
	Name       string
	Violations []domain.Violation
}

// Report is the outcome of one engine run.
type Report struct {
	Results []CheckResult // checks that ran, in order
	Failed  string        // name of the failing check; empty on success
	Total   int           // number of configured checks
}

// OK reports whether every check passed.
func (r Report) OK() bool { return r.Failed == "" }

// ExitCode maps the report to a process exit status.
func (r Report) ExitCode() int {
	if r.OK() {
		return 0
	}
	return 1
}

// Violations returns every violation in the report, in check order.
func (r Report) Violations() []domain.Violation {
	var out []domain.Violation
	for _, res := range r.Results {
		out = append(out, res.Violations...)
	}
	return out
}

// Print writes one heading per check that ran, every violation under the
// failing check, and a final summary line.
func (r Report) Print(w io.Writer) error {
	for _, res := range r.Results {
		if len(res.Violations) == 0 {
			if _, err := fmt.Fprintf(w, "[%s] ok\n", res.Name); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "[%s] FAILED\n", res.Name); err != nil {
			return err
		}
		for _, v := range res.Violations {
			if _, err := fmt.Fprintf(w, "  %s\n", v); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(w, r.Summary())
	return err
}

// Summary is the one-line verdict printed last.
func (r Report) Summary() string {
	if r.OK() {
		return fmt.Sprintf("OK: %d of %d checks passed", len(r.Results), r.Total)
	}
	n := len(r.Results[len(r.Results)-1].Violations)
	noun := "violations"
	if n == 1 {
		noun = "violation"
	}
	return fmt.Sprintf("FAILED: check %q reported %d %s (%d of %d checks run)", r.Failed, n, noun, len(r.Results), r.Total)
}
