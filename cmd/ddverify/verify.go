package main

import (
	"github.com/spf13/cobra"

	"github.com/haukened/ddverify/internal/verify/common/log"
	"github.com/haukened/ddverify/internal/verify/domain"
	"github.com/haukened/ddverify/internal/verify/repos/bloom"
	"github.com/haukened/ddverify/internal/verify/repos/lists"
	"github.com/haukened/ddverify/internal/verify/services/engine"
)

func newVerifyCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Run the list checks, stopping at the first failing one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.verify(cmd)
		},
	}
}

func (a *app) verify(cmd *cobra.Command) error {
	logger := log.GetLogger()

	c, err := buildClassifier(cmd.Context(), a.cfg)
	if err != nil {
		return err
	}
	deny, err := lists.Load(a.cfg.DenyList, domain.ListDeny, logger)
	if err != nil {
		return err
	}
	allow, err := lists.Load(a.cfg.AllowList, domain.ListAllow, logger)
	if err != nil {
		return err
	}

	eng := engine.NewEngine(engine.EngineOptions{
		Checks: engine.DefaultChecks(bloom.NewFactory()),
		Logger: logger,
	})
	report := eng.Run(engine.Input{Deny: deny, Allow: allow, Classifier: c})
	c.LogStats()

	if err := report.Print(a.stdout); err != nil {
		return err
	}
	if !report.OK() {
		return errChecksFailed
	}
	return nil
}
