// Package projectconfig provides the ProjectConfig struct and loader for
// .relbench.yaml project-level configuration files.
package projectconfig

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/relbench/relbench/internal/ingest"
	"github.com/relbench/relbench/internal/logging"
	"github.com/relbench/relbench/internal/metrics"
	"github.com/relbench/relbench/internal/normalize"
	"github.com/relbench/relbench/internal/reporting"
	"github.com/relbench/relbench/internal/statistics"
)

// FileName is the project configuration file looked up from the project path.
const FileName = ".relbench.yaml"

// EnvPrefix prefixes every environment override, e.g. RELBENCH_REPORT_FORMAT.
const EnvPrefix = "RELBENCH"

// Default values for project configuration. New() references them and no
// other code should duplicate them.
const (
	DefaultWordTask        = "word relevance"
	DefaultWordPattern     = "w_relevance_seed*.parquet"
	DefaultSentenceTask    = "sentence relevance"
	DefaultSentencePattern = "s_relevance_seed*.parquet"

	DefaultReportFormat        = "text"
	DefaultBootstrapConfidence = 0.95
	DefaultLogFormat           = "text"
	DefaultLogLevel            = "info"
)

// TaskConfig names one results task and the file pattern it aggregates.
type TaskConfig struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
}

// NormalizeConfig lists the models whose predictions are raw logits.
type NormalizeConfig struct {
	LogitModels []string `yaml:"logit_models" envconfig:"LOGIT_MODELS"`
}

// MetricsConfig holds metric parameters.
type MetricsConfig struct {
	Threshold float64 `yaml:"threshold,omitempty" envconfig:"THRESHOLD"`
}

// BootstrapConfig controls confidence intervals on summaries.
type BootstrapConfig struct {
	Enabled    *bool   `yaml:"enabled,omitempty" envconfig:"ENABLED"`
	Iterations int     `yaml:"iterations,omitempty" envconfig:"ITERATIONS"`
	Confidence float64 `yaml:"confidence,omitempty" envconfig:"CONFIDENCE"`
	Seed       int64   `yaml:"seed,omitempty" envconfig:"SEED"`
}

// ReportConfig controls what is summarized and how it is printed.
type ReportConfig struct {
	Metrics    []string        `yaml:"metrics,omitempty" envconfig:"METRICS"`
	Strategies []string        `yaml:"strategies,omitempty" envconfig:"STRATEGIES"`
	NaNPolicy  string          `yaml:"nan_policy,omitempty" envconfig:"NAN_POLICY"`
	Format     string          `yaml:"format,omitempty" envconfig:"FORMAT"`
	Bootstrap  BootstrapConfig `yaml:"bootstrap,omitempty" envconfig:"BOOTSTRAP"`
}

// LoaderConfig holds file loading settings.
type LoaderConfig struct {
	Workers int `yaml:"workers,omitempty" envconfig:"WORKERS"`
}

// LoggingConfig holds log sink settings.
type LoggingConfig struct {
	File   string `yaml:"file,omitempty" envconfig:"FILE"`
	Level  string `yaml:"level,omitempty" envconfig:"LEVEL"`
	Format string `yaml:"format,omitempty" envconfig:"FORMAT"`
}

// ProjectConfig is the top-level configuration loaded from .relbench.yaml.
type ProjectConfig struct {
	Tasks     []TaskConfig    `yaml:"tasks,omitempty" ignored:"true"`
	Normalize NormalizeConfig `yaml:"normalize,omitempty" envconfig:"NORMALIZE"`
	Metrics   MetricsConfig   `yaml:"metrics,omitempty" envconfig:"METRICS"`
	Report    ReportConfig    `yaml:"report,omitempty" envconfig:"REPORT"`
	Loader    LoaderConfig    `yaml:"loader,omitempty" envconfig:"LOADER"`
	Logging   LoggingConfig   `yaml:"logging,omitempty" envconfig:"LOGGING"`
}

// DefaultTasks returns the word and sentence relevance tasks, in run order.
func DefaultTasks() []TaskConfig {
	return []TaskConfig{
		{Name: DefaultWordTask, Pattern: DefaultWordPattern},
		{Name: DefaultSentenceTask, Pattern: DefaultSentencePattern},
	}
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Tasks: DefaultTasks(),
		Normalize: NormalizeConfig{
			LogitModels: append([]string(nil), normalize.DefaultLogitModels...),
		},
		Metrics: MetricsConfig{
			Threshold: metrics.DefaultThreshold,
		},
		Report: ReportConfig{
			Metrics:   append([]string(nil), reporting.DefaultMetrics...),
			NaNPolicy: string(metrics.NaNExclude),
			Format:    DefaultReportFormat,
			Bootstrap: BootstrapConfig{
				Enabled:    boolPtr(false),
				Iterations: statistics.DefaultBootstrapIterations,
				Confidence: DefaultBootstrapConfidence,
				Seed:       statistics.DefaultSeed,
			},
		},
		Loader: LoaderConfig{
			Workers: ingest.DefaultWorkers,
		},
		Logging: LoggingConfig{
			File:   logging.DefaultFileName,
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Load finds .relbench.yaml by walking up from startDir (max 10 levels),
// unmarshals it, fills in missing fields with defaults and finally applies
// RELBENCH_* environment overrides.
// If no config file is found, returns defaults with a nil error.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	data, err := findConfigFile(startDir)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	default:
		var fileCfg ProjectConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", FileName, err)
		}
		mergeConfig(cfg, &fileCfg)
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays RELBENCH_* environment variables onto cfg. Unset
// variables leave the current values in place.
func ApplyEnv(cfg *ProjectConfig) error {
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return fmt.Errorf("reading environment overrides: %w", err)
	}
	return nil
}

// findConfigFile walks up from dir looking for .relbench.yaml (max 10 levels).
// Returns os.ErrNotExist if no config file is found. Propagates real I/O
// errors (e.g. permission denied) instead of silently swallowing them.
func findConfigFile(dir string) ([]byte, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	if len(src.Tasks) > 0 {
		dst.Tasks = src.Tasks
	}

	// An explicit empty list disables the sigmoid entirely.
	if src.Normalize.LogitModels != nil {
		dst.Normalize.LogitModels = src.Normalize.LogitModels
	}

	if src.Metrics.Threshold != 0 {
		dst.Metrics.Threshold = src.Metrics.Threshold
	}

	// Report
	if len(src.Report.Metrics) > 0 {
		dst.Report.Metrics = src.Report.Metrics
	}
	if len(src.Report.Strategies) > 0 {
		dst.Report.Strategies = src.Report.Strategies
	}
	if src.Report.NaNPolicy != "" {
		dst.Report.NaNPolicy = src.Report.NaNPolicy
	}
	if src.Report.Format != "" {
		dst.Report.Format = src.Report.Format
	}
	if src.Report.Bootstrap.Enabled != nil {
		dst.Report.Bootstrap.Enabled = src.Report.Bootstrap.Enabled
	}
	if src.Report.Bootstrap.Iterations != 0 {
		dst.Report.Bootstrap.Iterations = src.Report.Bootstrap.Iterations
	}
	if src.Report.Bootstrap.Confidence != 0 {
		dst.Report.Bootstrap.Confidence = src.Report.Bootstrap.Confidence
	}
	if src.Report.Bootstrap.Seed != 0 {
		dst.Report.Bootstrap.Seed = src.Report.Bootstrap.Seed
	}

	if src.Loader.Workers != 0 {
		dst.Loader.Workers = src.Loader.Workers
	}

	// Logging
	if src.Logging.File != "" {
		dst.Logging.File = src.Logging.File
	}
	if src.Logging.Level != "" {
		dst.Logging.Level = src.Logging.Level
	}
	if src.Logging.Format != "" {
		dst.Logging.Format = src.Logging.Format
	}
}

// Validate reports every invalid setting at once.
func (c *ProjectConfig) Validate() error {
	var errs []error

	if len(c.Tasks) == 0 {
		errs = append(errs, errors.New("tasks: at least one task is required"))
	}
	for i, t := range c.Tasks {
		if t.Name == "" || t.Pattern == "" {
			errs = append(errs, fmt.Errorf("tasks[%d]: name and pattern are required", i))
		}
	}
	if th := c.Metrics.Threshold; th <= 0 || th >= 1 {
		errs = append(errs, fmt.Errorf("metrics.threshold: %v is outside (0, 1)", th))
	}
	for _, name := range c.Report.Metrics {
		if _, err := metrics.Create(name, c.Metrics.Threshold); err != nil {
			errs = append(errs, fmt.Errorf("report.metrics: %w", err))
		}
	}
	if _, err := metrics.ParseNaNPolicy(c.Report.NaNPolicy); err != nil {
		errs = append(errs, fmt.Errorf("report.nan_policy: %w", err))
	}
	if _, err := reporting.ParseFormat(c.Report.Format); err != nil {
		errs = append(errs, fmt.Errorf("report.format: %w", err))
	}
	if conf := c.Report.Bootstrap.Confidence; conf <= 0 || conf >= 1 {
		errs = append(errs, fmt.Errorf("report.bootstrap.confidence: %v is outside (0, 1)", conf))
	}
	if c.Report.Bootstrap.Iterations < 0 {
		errs = append(errs, errors.New("report.bootstrap.iterations: must not be negative"))
	}
	if c.Loader.Workers < 1 {
		errs = append(errs, fmt.Errorf("loader.workers: %d must be at least 1", c.Loader.Workers))
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format: %q must be text or json", c.Logging.Format))
	}
	return errors.Join(errs...)
}

// BootstrapEnabled reports whether summaries get confidence intervals.
func (c *ProjectConfig) BootstrapEnabled() bool {
	return c.Report.Bootstrap.Enabled != nil && *c.Report.Bootstrap.Enabled
}

// Bootstrap returns the configured resampler, or nil when disabled.
func (c *ProjectConfig) Bootstrap() *statistics.Bootstrap {
	if !c.BootstrapEnabled() {
		return nil
	}
	b := statistics.NewBootstrap()
	if c.Report.Bootstrap.Iterations > 0 {
		b.Iterations = c.Report.Bootstrap.Iterations
	}
	if c.Report.Bootstrap.Confidence > 0 {
		b.ConfidenceLevel = c.Report.Bootstrap.Confidence
	}
	if c.Report.Bootstrap.Seed != 0 {
		b.Seed = c.Report.Bootstrap.Seed
	}
	return &b
}

// ReportOptions converts the report section into reporting.Options.
func (c *ProjectConfig) ReportOptions() (reporting.Options, error) {
	policy, err := metrics.ParseNaNPolicy(c.Report.NaNPolicy)
	if err != nil {
		return reporting.Options{}, err
	}
	opts := reporting.DefaultOptions()
	if len(c.Report.Metrics) > 0 {
		opts.Metrics = c.Report.Metrics
	}
	opts.Strategies = c.Report.Strategies
	opts.NaNPolicy = policy
	opts.Bootstrap = c.Bootstrap()
	return opts, nil
}

// Marshal renders cfg as YAML with two-space indentation.
func Marshal(cfg *ProjectConfig) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("encoding %s: %w", FileName, err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write saves cfg to dir/.relbench.yaml, refusing to overwrite unless force
// is set. It returns the written path.
func Write(dir string, cfg *ProjectConfig, force bool) (string, error) {
	p := filepath.Join(dir, FileName)
	if !force {
		if _, err := os.Stat(p); err == nil {
			return p, fmt.Errorf("%s already exists (use --force to overwrite)", p)
		}
	}
	data, err := Marshal(cfg)
	if err != nil {
		return p, err
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return p, fmt.Errorf("writing %s: %w", p, err)
	}
	return p, nil
}

func boolPtr(b bool) *bool {
	return &b
}
