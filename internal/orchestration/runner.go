// Package orchestration runs one results task end to end: load, normalize,
// aggregate and report.
package orchestration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/relbench/relbench/internal/ingest"
	"github.com/relbench/relbench/internal/metrics"
	"github.com/relbench/relbench/internal/models"
	"github.com/relbench/relbench/internal/normalize"
	"github.com/relbench/relbench/internal/reporting"
)

// Task is one group of prediction files aggregated into a single report.
type Task struct {
	Name    string
	Pattern string
}

// ResultsRunner turns prediction files into reports.
type ResultsRunner struct {
	loader       *ingest.Loader
	logitModels  []string
	metrics      []metrics.Metric
	report       reporting.Options
	modelFilters []string
	logger       *slog.Logger
	printer      *message.Printer

	// Progress tracking
	progressMu sync.Mutex
	listeners  []ProgressListener
}

// ProgressListener receives progress updates
type ProgressListener func(event ProgressEvent)

// EventType represents the type of progress event
type EventType string

// EventType constants
const (
	EventTaskStart    EventType = "task_start"
	EventTaskSkipped  EventType = "task_skipped"
	EventTaskLoaded   EventType = "task_loaded"
	EventTaskComplete EventType = "task_complete"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	EventType EventType
	Task      string
	Files     int
	Records   int
	Groups    int
}

// RunnerOption configures a ResultsRunner.
type RunnerOption func(*ResultsRunner)

// WithLogitModels sets the models whose predictions are passed through the
// sigmoid before scoring.
func WithLogitModels(names []string) RunnerOption {
	return func(r *ResultsRunner) {
		r.logitModels = names
	}
}

// WithMetrics sets the metrics evaluated per group.
func WithMetrics(ms []metrics.Metric) RunnerOption {
	return func(r *ResultsRunner) {
		if len(ms) > 0 {
			r.metrics = ms
		}
	}
}

// WithReportOptions sets how per-group rows are summarized.
func WithReportOptions(opts reporting.Options) RunnerOption {
	return func(r *ResultsRunner) {
		r.report = opts
	}
}

// WithModelFilters restricts the run to models matching any glob pattern.
func WithModelFilters(patterns ...string) RunnerOption {
	return func(r *ResultsRunner) {
		r.modelFilters = patterns
	}
}

// WithLogger sets the logger receiving the report lines.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *ResultsRunner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResultsRunner creates a runner reading through loader.
func NewResultsRunner(loader *ingest.Loader, opts ...RunnerOption) *ResultsRunner {
	r := &ResultsRunner{
		loader:      loader,
		logitModels: normalize.DefaultLogitModels,
		metrics:     metrics.Default(metrics.DefaultThreshold),
		report:      reporting.DefaultOptions(),
		logger:      slog.Default(),
		printer:     message.NewPrinter(language.English),
		listeners:   []ProgressListener{},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// OnProgress registers a progress listener
func (r *ResultsRunner) OnProgress(listener ProgressListener) {
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	r.listeners = append(r.listeners, listener)
}

func (r *ResultsRunner) notifyProgress(event ProgressEvent) {
	r.progressMu.Lock()
	listeners := make([]ProgressListener, len(r.listeners))
	copy(listeners, r.listeners)
	r.progressMu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// Rows loads the task's files, normalizes logit outputs and returns one
// merged metric row per group. It returns (nil, nil) when no files match.
func (r *ResultsRunner) Rows(ctx context.Context, task Task) ([]models.MetricRow, error) {
	r.notifyProgress(ProgressEvent{EventType: EventTaskStart, Task: task.Name})

	table, err := r.loader.Load(ctx, task.Pattern)
	if errors.Is(err, ingest.ErrNoFiles) {
		r.logger.Warn("No files found. Quitting...", "task", task.Name, "pattern", task.Pattern)
		r.notifyProgress(ProgressEvent{EventType: EventTaskSkipped, Task: task.Name})
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", task.Name, err)
	}

	records, err := FilterRecords(table.Records, r.modelFilters)
	if err != nil {
		return nil, err
	}

	changed := normalize.Apply(records, r.logitModels)
	r.logger.Debug(r.printer.Sprintf("Loaded %d records from %d files, %d passed through sigmoid",
		len(records), len(table.Files), changed), "task", task.Name)

	rows := metrics.Compute(records, r.metrics)
	r.notifyProgress(ProgressEvent{
		EventType: EventTaskLoaded,
		Task:      task.Name,
		Files:     len(table.Files),
		Records:   len(records),
		Groups:    len(rows),
	})
	return rows, nil
}

// Run produces the report for one task and logs it line by line. It
// returns (nil, nil) when no files match the task's pattern.
func (r *ResultsRunner) Run(ctx context.Context, task Task) (*reporting.Report, error) {
	r.logger.Info(fmt.Sprintf("Generating results for %s...", task.Name))

	rows, err := r.Rows(ctx, task)
	if err != nil || rows == nil {
		return nil, err
	}

	report := reporting.Build(rows, r.report)
	report.Task = task.Name
	r.logReport(report)

	r.notifyProgress(ProgressEvent{EventType: EventTaskComplete, Task: task.Name, Groups: report.Groups})
	return report, nil
}

// RunAll runs tasks in order, skipping those without files. The first error
// stops the remaining tasks.
func (r *ResultsRunner) RunAll(ctx context.Context, tasks []Task) ([]*reporting.Report, error) {
	var reports []*reporting.Report
	for _, t := range tasks {
		rep, err := r.Run(ctx, t)
		if err != nil {
			return reports, err
		}
		if rep != nil {
			reports = append(reports, rep)
		}
	}
	return reports, nil
}

func (r *ResultsRunner) logReport(rep *reporting.Report) {
	for _, k := range rep.Degenerate {
		r.logger.Warn("Undefined metric for group", "group", k.String())
	}
	if n := len(rep.Degenerate); n > 0 {
		r.logger.Warn(r.printer.Sprintf("%d of %d groups have undefined metrics", n, rep.Groups))
	}

	for _, m := range rep.Models {
		for _, s := range m.Strategies {
			r.logger.Info("\n\n" + reporting.StrategyHeader(m.Model, s.Strategy))
			for _, ms := range s.Metrics {
				attrs := []any{"n", ms.N}
				if ms.Excluded > 0 {
					attrs = append(attrs, "excluded", ms.Excluded)
				}
				if ms.CI != nil {
					attrs = append(attrs, "ci_lower", ms.CI.Lower, "ci_upper", ms.CI.Upper)
				}
				r.logger.Info(reporting.SummaryLine(ms), attrs...)
			}
		}
		r.logger.Info(reporting.LaTeXRow(m), "model", m.Model)
	}
}
