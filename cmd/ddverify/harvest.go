package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/haukened/ddverify/internal/verify/common/log"
	"github.com/haukened/ddverify/internal/verify/domain"
	"github.com/haukened/ddverify/internal/verify/gateways/sources"
	"github.com/haukened/ddverify/internal/verify/repos/lists"
	"github.com/haukened/ddverify/internal/verify/services/harvest"
)

func newHarvestCommand(a *app) *cobra.Command {
	def := newDefaults()
	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Add newly published disposable domains to the deny list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.harvest(cmd)
		},
	}
	f := cmd.Flags()
	f.String("harvest-url", def.HarvestURL, "page listing Yopmail's alternate domains")
	f.Duration("harvest-timeout", def.HarvestTimeout, "timeout for fetching each source")
	return cmd
}

func (a *app) harvest(cmd *cobra.Command) error {
	logger := log.GetLogger()

	c, err := buildClassifier(cmd.Context(), a.cfg)
	if err != nil {
		return err
	}

	var allow domain.DomainList
	if _, err := os.Stat(a.cfg.AllowList); errors.Is(err, os.ErrNotExist) {
		logger.Warn(map[string]any{"path": a.cfg.AllowList}, "allow list not found; harvesting without it")
	} else {
		allow, err = lists.Load(a.cfg.AllowList, domain.ListAllow, logger)
		if err != nil {
			return err
		}
	}

	summary, err := harvest.Run(cmd.Context(), harvest.Options{
		Sources: []sources.Source{
			sources.NewYopmail(sources.YopmailOptions{
				URL:     a.cfg.HarvestURL,
				Timeout: a.cfg.HarvestTimeout,
				Logger:  logger,
			}),
		},
		Classifier: c,
		Store:      lists.NewFileStore(logger),
		DenyPath:   a.cfg.DenyList,
		Allow:      allow,
		Out:        a.stdout,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	return summary.Print(a.stdout)
}
