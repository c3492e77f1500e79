// Package reporting turns merged per-group metric rows into per-model,
// per-strategy summaries and renders them for logs and the console.
package reporting

import (
	"encoding/json"
	"math"

	"github.com/relbench/relbench/internal/metrics"
	"github.com/relbench/relbench/internal/models"
	"github.com/relbench/relbench/internal/statistics"
)

// DefaultMetrics are the metrics summarized when Options.Metrics is empty.
var DefaultMetrics = []string{models.MetricAUC, models.MetricPrecision, models.MetricRecall}

// Options controls what Build summarizes and how.
type Options struct {
	// Metrics to summarize, in presentation order.
	Metrics []string
	// Strategies restricts and orders the strategies. Empty means every
	// strategy, in reverse order of first appearance.
	Strategies []string
	NaNPolicy  metrics.NaNPolicy
	// Bootstrap, when set, adds a confidence interval to every summary.
	Bootstrap *statistics.Bootstrap
}

// DefaultOptions summarizes auc, precision and recall, excluding NaNs.
func DefaultOptions() Options {
	return Options{
		Metrics:   append([]string(nil), DefaultMetrics...),
		NaNPolicy: metrics.NaNExclude,
	}
}

// MetricSummary is the summary of one metric over every matching group.
type MetricSummary struct {
	Metric string `json:"metric"`
	metrics.Summary
	CI *statistics.ConfidenceInterval `json:"ci,omitempty"`
}

// MarshalJSON writes NaN values as null since JSON has no NaN literal.
func (s MetricSummary) MarshalJSON() ([]byte, error) {
	out := struct {
		Metric   string                     `json:"metric"`
		Mean     *float64                   `json:"mean"`
		StdDev   *float64                   `json:"std"`
		N        int                        `json:"n"`
		Excluded int                        `json:"excluded,omitempty"`
		CI       map[string]json.RawMessage `json:"ci,omitempty"`
	}{
		Metric:   s.Metric,
		Mean:     finite(s.Mean),
		StdDev:   finite(s.StdDev),
		N:        s.N,
		Excluded: s.Excluded,
	}
	if s.CI != nil {
		out.CI = map[string]json.RawMessage{}
		for name, v := range map[string]float64{
			"lower": s.CI.Lower,
			"upper": s.CI.Upper,
			"mean":  s.CI.Mean,
		} {
			b, err := json.Marshal(finite(v))
			if err != nil {
				return nil, err
			}
			out.CI[name] = b
		}
		out.CI["confidence_level"], _ = json.Marshal(s.CI.ConfidenceLevel)
		out.CI["num_bootstraps"], _ = json.Marshal(s.CI.NumBootstraps)
	}
	return json.Marshal(out)
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// StrategyReport holds the summaries for one (model, strategy) pair.
type StrategyReport struct {
	Strategy string          `json:"strategy"`
	Groups   int             `json:"groups"`
	Metrics  []MetricSummary `json:"metrics"`
}

// Summary returns the summary for the named metric.
func (s StrategyReport) Summary(metric string) (MetricSummary, bool) {
	for _, m := range s.Metrics {
		if m.Metric == metric {
			return m, true
		}
	}
	return MetricSummary{}, false
}

// ModelReport holds every strategy report for one model.
type ModelReport struct {
	Model      string           `json:"model"`
	Strategies []StrategyReport `json:"strategies"`
}

// Report is the full summary of one task.
type Report struct {
	Task    string        `json:"task,omitempty"`
	Metrics []string      `json:"metrics"`
	Models  []ModelReport `json:"models"`
	// Degenerate lists the groups that produced NaN for a reported metric.
	Degenerate []models.GroupKey `json:"degenerate,omitempty"`
	Groups     int               `json:"groups"`
}

// Model returns the report for the named model.
func (r *Report) Model(name string) (ModelReport, bool) {
	for _, m := range r.Models {
		if m.Model == name {
			return m, true
		}
	}
	return ModelReport{}, false
}

// Build summarizes rows per model and strategy. Models appear in order of
// first appearance in rows.
func Build(rows []models.MetricRow, opts Options) *Report {
	names := opts.Metrics
	if len(names) == 0 {
		names = DefaultMetrics
	}

	r := &Report{
		Metrics: append([]string(nil), names...),
		Groups:  len(rows),
	}
	for _, row := range rows {
		if row.HasNaN(names...) {
			r.Degenerate = append(r.Degenerate, row.Key)
		}
	}

	strategies := opts.Strategies
	if len(strategies) == 0 {
		strategies = reverse(firstSeen(rows, func(k models.GroupKey) string { return k.Strategy }))
	}

	for _, model := range firstSeen(rows, func(k models.GroupKey) string { return k.Model }) {
		mr := ModelReport{Model: model}
		for _, strategy := range strategies {
			mr.Strategies = append(mr.Strategies, buildStrategy(rows, model, strategy, names, opts))
		}
		r.Models = append(r.Models, mr)
	}
	return r
}

func buildStrategy(rows []models.MetricRow, model, strategy string, names []string, opts Options) StrategyReport {
	sr := StrategyReport{Strategy: strategy}
	values := make(map[string][]float64, len(names))
	for _, row := range rows {
		if row.Key.Model != model || row.Key.Strategy != strategy {
			continue
		}
		sr.Groups++
		for _, n := range names {
			values[n] = append(values[n], row.Score(n))
		}
	}

	for _, n := range names {
		ms := MetricSummary{
			Metric:  n,
			Summary: metrics.Summarize(values[n], opts.NaNPolicy),
		}
		if opts.Bootstrap != nil && ms.N > 0 {
			ci := opts.Bootstrap.MeanCI(values[n])
			ms.CI = &ci
		}
		sr.Metrics = append(sr.Metrics, ms)
	}
	return sr
}

func firstSeen(rows []models.MetricRow, field func(models.GroupKey) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, row := range rows {
		v := field(row.Key)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func reverse(s []string) []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}
