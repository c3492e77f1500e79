package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relbench/relbench/internal/metrics"
	"github.com/relbench/relbench/internal/reporting"
)

func newMetricsCommand() *cobra.Command {
	var (
		projectPath  string
		task         string
		format       string
		modelFilters []string
	)

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Print the merged per-group metric table",
		Long: `Print one row per (seed, user, model, strategy, reading task) group with
every computed metric: mcc, precision, kappa, recall and auc.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tf, err := reporting.ParseTableFormat(format)
			if err != nil {
				return err
			}

			p, err := openProject(cmd, projectPath)
			if err != nil {
				return err
			}
			defer p.Close() //nolint:errcheck

			tasks, err := p.tasks([]string{task})
			if err != nil {
				return err
			}

			opts, err := p.cfg.ReportOptions()
			if err != nil {
				return err
			}
			rows, err := p.newRunner(modelFilters, opts).Rows(cmd.Context(), tasks[0])
			if err != nil {
				return err
			}
			if rows == nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "No files found for %s\n", tasks[0].Name) //nolint:errcheck
				return nil
			}
			return reporting.WriteTable(cmd.OutOrStdout(), rows, metrics.Names, tf)
		},
	}

	cmd.Flags().StringVarP(&projectPath, "project-path", "p", "", "Directory or blob URL holding the prediction files")
	cmd.Flags().StringVar(&task, "task", "word", "Task to tabulate: word or sentence")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table, json, csv")
	cmd.Flags().StringArrayVar(&modelFilters, "model", nil, "Filter models by glob pattern (can be repeated)")
	_ = cmd.MarkFlagRequired("project-path")

	return cmd
}
