package wizard

import (
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/relbench/relbench/internal/ingest"
	"github.com/relbench/relbench/internal/projectconfig"
	"github.com/relbench/relbench/internal/reporting"
)

// Answers holds all fields collected during the interactive wizard.
type Answers struct {
	// Extension of the prediction files, e.g. ".parquet".
	Extension   string
	LogitModels []string
	Strategies  []string
	Format      reporting.Format
	NaNPolicy   string
	Bootstrap   bool
}

// DefaultAnswers reflects the values New() would produce.
func DefaultAnswers(cfg *projectconfig.ProjectConfig) Answers {
	ext := ".parquet"
	if len(cfg.Tasks) > 0 {
		ext = path.Ext(cfg.Tasks[0].Pattern)
	}
	return Answers{
		Extension:   ext,
		LogitModels: cfg.Normalize.LogitModels,
		Strategies:  cfg.Report.Strategies,
		Format:      reporting.Format(cfg.Report.Format),
		NaNPolicy:   cfg.Report.NaNPolicy,
		Bootstrap:   cfg.BootstrapEnabled(),
	}
}

// Apply writes the answers onto a copy of base.
func (a Answers) Apply(base *projectconfig.ProjectConfig) *projectconfig.ProjectConfig {
	cfg := *base
	cfg.Tasks = make([]projectconfig.TaskConfig, len(base.Tasks))
	for i, t := range base.Tasks {
		if a.Extension != "" {
			t.Pattern = strings.TrimSuffix(t.Pattern, path.Ext(t.Pattern)) + a.Extension
		}
		cfg.Tasks[i] = t
	}
	cfg.Normalize.LogitModels = a.LogitModels
	if cfg.Normalize.LogitModels == nil {
		cfg.Normalize.LogitModels = []string{}
	}
	cfg.Report.Strategies = a.Strategies
	if a.Format != "" {
		cfg.Report.Format = string(a.Format)
	}
	if a.NaNPolicy != "" {
		cfg.Report.NaNPolicy = a.NaNPolicy
	}
	enabled := a.Bootstrap
	cfg.Report.Bootstrap.Enabled = &enabled
	return &cfg
}

// RunConfigWizard runs an interactive huh form and returns base updated with
// the answers.
func RunConfigWizard(in io.Reader, out io.Writer, base *projectconfig.ProjectConfig) (*projectconfig.ProjectConfig, error) {
	defaults := DefaultAnswers(base)
	var (
		extension   = defaults.Extension
		logitRaw    = strings.Join(defaults.LogitModels, ", ")
		strategyRaw = strings.Join(defaults.Strategies, ", ")
		format      = string(defaults.Format)
		nanPolicy   = defaults.NaNPolicy
		bootstrap   = defaults.Bootstrap
	)

	extOptions := make([]huh.Option[string], 0, len(ingest.SupportedExtensions()))
	for _, ext := range ingest.SupportedExtensions() {
		extOptions = append(extOptions, huh.NewOption(ext, ext))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Prediction file format").
				Description("Extension of the w_relevance_seed*/s_relevance_seed* files").
				Options(extOptions...).
				Value(&extension),
			huh.NewInput().
				Title("Logit models").
				Description("Comma-separated models whose predictions are raw logits").
				Placeholder("eegnet, lstm, uercm").
				Value(&logitRaw),
			huh.NewInput().
				Title("Strategies").
				Description("Comma-separated strategy order; empty keeps reverse first-seen order").
				Value(&strategyRaw),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Report format").
				Options(
					huh.NewOption("text", string(reporting.FormatText)),
					huh.NewOption("markdown", string(reporting.FormatMarkdown)),
					huh.NewOption("html", string(reporting.FormatHTML)),
					huh.NewOption("json", string(reporting.FormatJSON)),
				).
				Value(&format),
			huh.NewSelect[string]().
				Title("Undefined metrics").
				Description("How groups with a single class enter the mean").
				Options(
					huh.NewOption("exclude", "exclude"),
					huh.NewOption("propagate", "propagate"),
				).
				Value(&nanPolicy),
			huh.NewConfirm().
				Title("Bootstrap confidence intervals?").
				Value(&bootstrap),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	answers := Answers{
		Extension:   extension,
		LogitModels: splitAndTrim(logitRaw),
		Strategies:  splitAndTrim(strategyRaw),
		Format:      reporting.Format(format),
		NaNPolicy:   nanPolicy,
		Bootstrap:   bootstrap,
	}
	return answers.Apply(base), nil
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
