package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/relbench/relbench/internal/metrics"
	"github.com/relbench/relbench/internal/reporting"
)

type resultsOptions struct {
	projectPath  string
	format       string
	strategies   []string
	nanPolicy    string
	bootstrap    bool
	modelFilters []string
	taskFilters  []string
	outputPath   string
}

func newResultsCommand() *cobra.Command {
	var o resultsOptions

	cmd := &cobra.Command{
		Use:   "results",
		Short: "Summarize prediction files per model and strategy",
		Long: `Summarize relevance benchmark predictions.

For each task (word relevance, then sentence relevance) every file matching
the task pattern under --project-path is loaded, logit outputs are passed
through the sigmoid, metrics are computed per group and the mean +- std of
each reported metric is logged per model and strategy, followed by a LaTeX
row per model. Log lines go to logs_results.log in the project path and to
stderr; the report is printed to stdout.

A task without matching files is skipped with a warning.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return resultsCommandE(cmd, o)
		},
	}

	cmd.Flags().StringVarP(&o.projectPath, "project-path", "p", "", "Directory or blob URL holding the prediction files")
	cmd.Flags().StringVar(&o.format, "format", "", "Report format: text, markdown, html, json (default from config)")
	cmd.Flags().StringArrayVar(&o.strategies, "strategy", nil, "Strategy to report, in order (can be repeated)")
	cmd.Flags().StringVar(&o.nanPolicy, "nan-policy", "", "Undefined metrics: exclude or propagate (default from config)")
	cmd.Flags().BoolVar(&o.bootstrap, "bootstrap", false, "Add bootstrap confidence intervals to every summary")
	cmd.Flags().StringArrayVar(&o.modelFilters, "model", nil, "Filter models by glob pattern (can be repeated)")
	cmd.Flags().StringArrayVar(&o.taskFilters, "task", nil, "Run only this task, e.g. word or sentence (can be repeated)")
	cmd.Flags().StringVarP(&o.outputPath, "output", "o", "", "Write the report to a file instead of stdout")
	_ = cmd.MarkFlagRequired("project-path")

	return cmd
}

func resultsCommandE(cmd *cobra.Command, o resultsOptions) error {
	p, err := openProject(cmd, o.projectPath)
	if err != nil {
		return err
	}
	defer p.Close() //nolint:errcheck

	// CLI flags override config.
	if o.format != "" {
		p.cfg.Report.Format = o.format
	}
	if len(o.strategies) > 0 {
		p.cfg.Report.Strategies = o.strategies
	}
	if o.nanPolicy != "" {
		if _, err := metrics.ParseNaNPolicy(o.nanPolicy); err != nil {
			return err
		}
		p.cfg.Report.NaNPolicy = o.nanPolicy
	}
	if o.bootstrap {
		enabled := true
		p.cfg.Report.Bootstrap.Enabled = &enabled
	}

	format, err := reporting.ParseFormat(p.cfg.Report.Format)
	if err != nil {
		return err
	}
	opts, err := p.cfg.ReportOptions()
	if err != nil {
		return err
	}
	tasks, err := p.tasks(o.taskFilters)
	if err != nil {
		return err
	}

	runner := p.newRunner(o.modelFilters, opts)
	reports, err := runner.RunAll(cmd.Context(), tasks)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		return nil
	}

	if o.outputPath == "" {
		return reporting.WriteAll(cmd.OutOrStdout(), reports, format)
	}

	f, err := os.Create(o.outputPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	return writeAndClose(f, reports, format)
}

// writeAndClose writes the reports to wc and always closes it. A close
// failure is returned when the write itself succeeded.
func writeAndClose(wc io.WriteCloser, reports []*reporting.Report, format reporting.Format) (err error) {
	defer func() {
		if cerr := wc.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing output file: %w", cerr)
		}
	}()
	return reporting.WriteAll(wc, reports, format)
}
