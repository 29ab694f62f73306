package main

import (
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/haukened/ddverify/internal/verify/common/log"
	"github.com/haukened/ddverify/internal/verify/config"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfg    *config.AppConfig
	stdout io.Writer
	stderr io.Writer
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}
	def := newDefaults()

	root := &cobra.Command{
		Use:           appName,
		Short:         "Verify and maintain the disposable email domain lists",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadWithOverrides(changedFlags(cmd.Flags()))
			if err != nil {
				return err
			}
			if err := log.Configure(cfg.Env, cfg.LogLevel); err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.String("env", def.Env, "runtime environment (dev or prod)")
	pf.String("log-level", def.LogLevel, "log level (debug, info, warn, error)")
	pf.String("deny-list", def.DenyList, "path of the deny list")
	pf.String("allow-list", def.AllowList, "path of the allow list")
	pf.String("suffix-source", def.SuffixSource, "public suffix dataset source (remote, file, builtin)")
	pf.String("suffix-url", def.SuffixURL, "public suffix dataset URL for the remote source")
	pf.String("suffix-file", def.SuffixFile, "pinned public suffix dataset for the file source")
	pf.String("suffix-overrides", def.SuffixOverrides, "file of locally curated public suffixes")
	pf.Bool("suffix-icann-only", def.SuffixICANNOnly, "ignore the private-domain section of the dataset")
	pf.Duration("suffix-timeout", def.SuffixTimeout, "timeout for fetching the dataset")
	pf.String("suffix-cache", def.SuffixCache, "bbolt file recording fetched datasets (empty disables)")
	pf.Bool("suffix-offline-fallback", def.SuffixOfflineFallback, "use the latest cached dataset when the fetch fails")
	pf.Int("memo-size", def.MemoSize, "suffix decomposition cache size (0 disables)")

	root.AddCommand(
		newVerifyCommand(a),
		newDNSCommand(a),
		newHarvestCommand(a),
		newVersionCommand(a),
	)
	return root
}

// changedFlags maps every flag set on the command line to its koanf key.
func changedFlags(fs *pflag.FlagSet) map[string]any {
	out := make(map[string]any)
	fs.Visit(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		switch f.Value.Type() {
		case "stringSlice":
			v, _ := fs.GetStringSlice(f.Name)
			out[key] = v
		case "bool":
			v, _ := fs.GetBool(f.Name)
			out[key] = v
		case "int":
			v, _ := fs.GetInt(f.Name)
			out[key] = v
		case "duration":
			v, _ := fs.GetDuration(f.Name)
			out[key] = v
		default:
			out[key] = f.Value.String()
		}
	})
	return out
}
