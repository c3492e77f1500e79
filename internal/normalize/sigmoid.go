// Package normalize converts raw logit scores into probabilities for models
// that do not apply a final activation themselves.
package normalize

import (
	"math"

	"github.com/relbench/relbench/internal/models"
)

// DefaultLogitModels are the model types whose predictions are raw logits.
var DefaultLogitModels = []string{"eegnet", "lstm", "uercm"}

// Sigmoid returns 1/(1+e^-x).
func Sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Apply rewrites Prediction in place with its sigmoid for every record whose
// model is in logitModels and returns the number of records changed.
func Apply(records []models.PredictionRecord, logitModels []string) int {
	if len(logitModels) == 0 {
		return 0
	}
	allow := make(map[string]bool, len(logitModels))
	for _, m := range logitModels {
		allow[m] = true
	}

	changed := 0
	for i := range records {
		if allow[records[i].Model] {
			records[i].Prediction = Sigmoid(records[i].Prediction)
			changed++
		}
	}
	return changed
}
