package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haukened/ddverify/internal/verify/common/log"
	"github.com/haukened/ddverify/internal/verify/domain"
	"github.com/haukened/ddverify/internal/verify/gateways/mx"
	"github.com/haukened/ddverify/internal/verify/repos/lists"
	"github.com/haukened/ddverify/internal/verify/services/dnscheck"
)

func newDNSCommand(a *app) *cobra.Command {
	def := newDefaults()
	cmd := &cobra.Command{
		Use:   "dns",
		Short: "Check that every listed domain has MX records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.dns(cmd)
		},
	}
	f := cmd.Flags()
	f.StringSlice("dns-servers", def.DNSServers, "resolvers in ip:port form, tried in order")
	f.Duration("dns-timeout", def.DNSTimeout, "timeout per MX query")
	f.Int("dns-workers", def.DNSWorkers, "concurrent MX queries")
	f.StringSlice("dns-lists", def.DNSLists, "lists to probe, in order (allow, deny)")
	return cmd
}

// dns probes the configured lists in order and fails if any has entries
// without MX records.
func (a *app) dns(cmd *cobra.Command) error {
	logger := log.GetLogger()
	prober, err := mx.NewProber(mx.Options{
		Servers: a.cfg.DNSServers,
		Timeout: a.cfg.DNSTimeout,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	paths := map[domain.ListKind]string{
		domain.ListAllow: a.cfg.AllowList,
		domain.ListDeny:  a.cfg.DenyList,
	}
	failed := false
	for _, name := range a.cfg.DNSLists {
		kind, err := domain.ParseListKind(name)
		if err != nil {
			return err
		}
		list, err := lists.Load(paths[kind], kind, logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "checking %s list (%d domains)\n", kind, list.Len())
		report, err := dnscheck.Run(cmd.Context(), list, prober, dnscheck.Options{
			Workers:  a.cfg.DNSWorkers,
			Progress: a.stdout,
			Logger:   logger,
		})
		if err != nil {
			return err
		}
		if err := report.Print(a.stdout); err != nil {
			return err
		}
		failed = failed || !report.OK()
	}
	if failed {
		return errChecksFailed
	}
	return nil
}
