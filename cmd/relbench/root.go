package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

// debugLogging is bound to the persistent --debug flag.
var debugLogging bool

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relbench",
		Short: "relbench - aggregate relevance benchmark predictions",
		Long: `relbench aggregates the per-sample predictions written by relevance
benchmark runs into per-model, per-strategy metric summaries.

It computes MCC, Cohen's kappa, precision, recall and AUROC per
(seed, user, model, strategy, reading task) group and reports the mean and
standard deviation across groups, together with a LaTeX table row per model.`,
		Version:      version,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVar(&debugLogging, "debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	// Add subcommands
	cmd.AddCommand(newResultsCommand())
	cmd.AddCommand(newMetricsCommand())
	cmd.AddCommand(newValidateCommand())
	cmd.AddCommand(newInitCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
