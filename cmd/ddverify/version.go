package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haukened/ddverify/internal/verify/config"
)

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			_, err := fmt.Fprintf(a.stdout, "%s %s\n", appName, version)
			return err
		},
	}
}

// newDefaults returns the built-in configuration used for flag help text.
func newDefaults() config.AppConfig {
	return config.DEFAULT_APP_CONFIG
}
