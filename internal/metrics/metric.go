package metrics

import (
	"fmt"

	"github.com/relbench/relbench/internal/models"
)

// Metric scores one group of (prediction, target) pairs.
type Metric interface {
	// Name is the column the score is reported under.
	Name() string

	// Compute returns the group's score. Implementations may return NaN
	// when the score is undefined for the group.
	Compute(preds []float64, targets []int) float64
}

type confusionMetric struct {
	name      string
	threshold float64
	score     func(Confusion) float64
}

func (m confusionMetric) Name() string { return m.name }

func (m confusionMetric) Compute(preds []float64, targets []int) float64 {
	return m.score(NewConfusion(preds, targets, m.threshold))
}

type aurocMetric struct{}

func (aurocMetric) Name() string { return models.MetricAUC }

func (aurocMetric) Compute(preds []float64, targets []int) float64 {
	return AUROC(preds, targets)
}

// Names lists every metric the aggregator knows, in merge order.
var Names = []string{
	models.MetricMCC,
	models.MetricPrecision,
	models.MetricKappa,
	models.MetricRecall,
	models.MetricAUC,
}

// Create returns the named metric using threshold for the metrics that
// binarize predictions.
func Create(name string, threshold float64) (Metric, error) {
	switch name {
	case models.MetricMCC:
		return confusionMetric{name: name, threshold: threshold, score: Confusion.MCC}, nil
	case models.MetricKappa:
		return confusionMetric{name: name, threshold: threshold, score: Confusion.Kappa}, nil
	case models.MetricPrecision:
		return confusionMetric{name: name, threshold: threshold, score: Confusion.Precision}, nil
	case models.MetricRecall:
		return confusionMetric{name: name, threshold: threshold, score: Confusion.Recall}, nil
	case models.MetricAUC:
		return aurocMetric{}, nil
	default:
		return nil, fmt.Errorf("unknown metric %q", name)
	}
}

// Default returns all five metrics in merge order.
func Default(threshold float64) []Metric {
	out := make([]Metric, 0, len(Names))
	for _, n := range Names {
		m, err := Create(n, threshold)
		if err != nil {
			panic(err)
		}
		out = append(out, m)
	}
	return out
}
