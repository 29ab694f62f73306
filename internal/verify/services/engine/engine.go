package engine

import (
	"github.com/haukened/ddverify/internal/verify/common/log"
)

// Engine runs an ordered battery of checks and stops at the first one that
// reports violations.
type Engine struct {
	checks []Check
	logger log.Logger
}

type EngineOptions struct {
	// Checks defaults to DefaultChecks(nil) when empty.
	Checks []Check
	Logger log.Logger
}

func NewEngine(opts EngineOptions) *Engine {
	checks := opts.Checks
	if len(checks) == 0 {
		checks = DefaultChecks(nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Engine{checks: checks, logger: logger}
}

// Checks returns the names of the configured checks in run order.
func (e *Engine) Checks() []string {
	names := make([]string, len(e.checks))
	for i, c := range e.checks {
		names[i] = c.Name()
	}
	return names
}

// Run executes the checks against in. It never returns an error: violations
// are results, and the lists and classifier are already loaded.
func (e *Engine) Run(in Input) Report {
	report := Report{Total: len(e.checks)}
	for _, c := range e.checks {
		vs := c.Run(in)
		report.Results = append(report.Results, CheckResult{Name: c.Name(), Violations: vs})
		e.logger.Debug(map[string]any{
			"check":      c.Name(),
			"violations": len(vs),
		}, "check complete")
		if len(vs) > 0 {
			report.Failed = c.Name()
			e.logger.Warn(map[string]any{
				"check":      c.Name(),
				"violations": len(vs),
			}, "check failed; stopping")
			break
		}
	}
	return report
}
