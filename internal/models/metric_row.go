package models

import "math"

// Metric names produced by the aggregator.
const (
	MetricMCC       = "mcc"
	MetricKappa     = "kappa"
	MetricPrecision = "precision"
	MetricRecall    = "recall"
	MetricAUC       = "auc"
)

// MetricRow holds every metric computed for one GroupKey.
type MetricRow struct {
	Key     GroupKey           `json:"key"`
	Samples int                `json:"samples"`
	Scores  map[string]float64 `json:"scores"`
}

// Score returns the named metric, or NaN when it was not computed.
func (r MetricRow) Score(name string) float64 {
	v, ok := r.Scores[name]
	if !ok {
		return math.NaN()
	}
	return v
}

// HasNaN reports whether any of the named metrics is undefined for this row.
func (r MetricRow) HasNaN(names ...string) bool {
	for _, n := range names {
		if math.IsNaN(r.Score(n)) {
			return true
		}
	}
	return false
}
