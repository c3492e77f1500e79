package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/relbench/relbench/internal/ingest"
	"github.com/relbench/relbench/internal/logging"
	"github.com/relbench/relbench/internal/metrics"
	"github.com/relbench/relbench/internal/orchestration"
	"github.com/relbench/relbench/internal/projectconfig"
	"github.com/relbench/relbench/internal/reporting"
)

// project is an opened project path: its source, config and log sink.
type project struct {
	path     string
	cfg      *projectconfig.ProjectConfig
	source   ingest.Source
	closeLog func() error
}

// openProject resolves projectPath, loads its .relbench.yaml and installs the
// log file. Blob projects read config from and log to the working directory.
func openProject(cmd *cobra.Command, projectPath string) (*project, error) {
	if projectPath == "" {
		return nil, fmt.Errorf("--project-path is required")
	}
	source, err := ingest.NewSource(projectPath)
	if err != nil {
		return nil, err
	}

	localDir := projectPath
	if ingest.IsBlobURL(projectPath) {
		localDir = "."
	}

	cfg, err := projectconfig.Load(localDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", projectconfig.FileName, err)
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	if debugLogging {
		level = slog.LevelDebug
	}
	closeLog, err := logging.Setup(logging.Options{
		Dir:      localDir,
		FileName: cfg.Logging.File,
		Level:    level,
		Format:   cfg.Logging.Format,
		Stderr:   cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Args", "command", cmd.Name(), "project_path", projectPath, "source", source.String())
	return &project{path: projectPath, cfg: cfg, source: source, closeLog: closeLog}, nil
}

func (p *project) Close() error {
	if p.closeLog == nil {
		return nil
	}
	return p.closeLog()
}

// newRunner wires a ResultsRunner from the project config.
func (p *project) newRunner(modelFilters []string, opts reporting.Options) *orchestration.ResultsRunner {
	loader := ingest.NewLoader(p.source,
		ingest.WithWorkers(p.cfg.Loader.Workers),
		ingest.WithLogger(logging.New("ingest")),
	)
	return orchestration.NewResultsRunner(loader,
		orchestration.WithLogitModels(p.cfg.Normalize.LogitModels),
		orchestration.WithMetrics(metrics.Default(p.cfg.Metrics.Threshold)),
		orchestration.WithReportOptions(opts),
		orchestration.WithModelFilters(modelFilters...),
		orchestration.WithLogger(logging.New("results")),
	)
}

// tasks returns the configured tasks, narrowed to those named by filters. A
// filter matches a task by full name or by its first word ("word" matches
// "word relevance").
func (p *project) tasks(filters []string) ([]orchestration.Task, error) {
	var out []orchestration.Task
	for _, t := range p.cfg.Tasks {
		if len(filters) > 0 && !matchesTask(t.Name, filters) {
			continue
		}
		out = append(out, orchestration.Task{Name: t.Name, Pattern: t.Pattern})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no task matches %s", strings.Join(filters, ", "))
	}
	return out, nil
}

func matchesTask(name string, filters []string) bool {
	for _, f := range filters {
		if strings.EqualFold(name, f) {
			return true
		}
		if first, _, _ := strings.Cut(name, " "); strings.EqualFold(first, f) {
			return true
		}
	}
	return false
}
