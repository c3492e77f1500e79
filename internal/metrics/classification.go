package metrics

import (
	"math"

	"github.com/relbench/relbench/internal/normalize"
)

// DefaultThreshold is the decision threshold applied to probabilities.
const DefaultThreshold = 0.5

// Confusion holds the binary confusion matrix of one group.
type Confusion struct {
	TP int `json:"true_positives"`
	FP int `json:"false_positives"`
	TN int `json:"true_negatives"`
	FN int `json:"false_negatives"`
}

// NewConfusion thresholds preds and tallies them against targets. A
// prediction is positive when it is strictly greater than threshold. When any
// score lies outside [0,1] the whole group is treated as logits and passed
// through the sigmoid first.
func NewConfusion(preds []float64, targets []int, threshold float64) Confusion {
	scores := probabilities(preds)

	var c Confusion
	for i, p := range scores {
		predicted := p > threshold
		actual := targets[i] == 1
		switch {
		case actual && predicted:
			c.TP++
		case !actual && predicted:
			c.FP++
		case !actual && !predicted:
			c.TN++
		case actual && !predicted:
			c.FN++
		}
	}
	return c
}

// Total returns the number of samples tallied.
func (c Confusion) Total() int {
	return c.TP + c.FP + c.TN + c.FN
}

// Precision is TP/(TP+FP), or 0 when nothing was predicted positive.
func (c Confusion) Precision() float64 {
	return safeDivide(float64(c.TP), float64(c.TP+c.FP))
}

// Recall is TP/(TP+FN), or 0 when the group has no positives.
func (c Confusion) Recall() float64 {
	return safeDivide(float64(c.TP), float64(c.TP+c.FN))
}

// MCC returns the Matthews correlation coefficient. A group that is entirely
// right scores 1 and entirely wrong scores -1 even when a marginal is empty;
// any other zero denominator yields 0.
func (c Confusion) MCC() float64 {
	correct := c.TP + c.TN
	wrong := c.FP + c.FN
	switch {
	case correct != 0 && wrong == 0:
		return 1
	case correct == 0 && wrong != 0:
		return -1
	}

	tp, fp, tn, fn := float64(c.TP), float64(c.FP), float64(c.TN), float64(c.FN)
	den := math.Sqrt((tp + fp) * (tp + fn) * (tn + fp) * (tn + fn))
	if den == 0 {
		return 0
	}
	return (tp*tn - fp*fn) / den
}

// Kappa returns Cohen's kappa. It is NaN for an empty group and when chance
// agreement is already 1 (every prediction and target in the same class).
func (c Confusion) Kappa() float64 {
	n := float64(c.Total())
	if n == 0 {
		return math.NaN()
	}
	po := float64(c.TP+c.TN) / n
	pe := (float64(c.TP+c.FP)*float64(c.TP+c.FN) + float64(c.TN+c.FN)*float64(c.TN+c.FP)) / (n * n)
	if pe == 1 {
		return math.NaN()
	}
	return (po - pe) / (1 - pe)
}

// probabilities returns preds unchanged when all lie in [0,1]; otherwise a
// sigmoid-transformed copy.
func probabilities(preds []float64) []float64 {
	logits := false
	for _, p := range preds {
		if p < 0 || p > 1 {
			logits = true
			break
		}
	}
	if !logits {
		return preds
	}
	out := make([]float64, len(preds))
	for i, p := range preds {
		out[i] = normalize.Sigmoid(p)
	}
	return out
}

func safeDivide(num, den float64) float64 {
	if den == 0 {
		return 0.0
	}
	return num / den
}
