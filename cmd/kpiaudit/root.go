package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kpi-audit/backend/pkg/config"
	appLogger "github.com/kpi-audit/backend/pkg/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

type rootOptions struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "kpiaudit",
		Short: "Score and classify business KPIs",
		Long: "kpiaudit reads KPI inventories exported as CSV, flags redundant, misleading\n" +
			"and zero-impact metrics, scores every metric from 0 to 100 and recommends\n" +
			"the strongest ones.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "Path to a config file (default: ./config.yaml when present)")
	f.StringVar(&opts.logLevel, "log-level", "warn", "Log level written to stderr")

	cmd.AddCommand(newAnalyzeCmd(opts))
	cmd.AddCommand(newValidateCmd(opts))
	cmd.AddCommand(newRubricCmd())

	return cmd
}

func (o *rootOptions) load() error {
	var err error
	if o.configPath != "" {
		o.cfg, err = config.LoadFile(o.configPath)
	} else {
		o.cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	return appLogger.Init(o.logLevel, "console", "stderr")
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
