package metrics

import (
	"math"
	"testing"
)

func TestAUROC(t *testing.T) {
	tests := []struct {
		name    string
		preds   []float64
		targets []int
		want    float64
	}{
		{"perfect separation", []float64{0.9, 0.2, 0.8, 0.1}, []int{1, 0, 1, 0}, 1},
		{"inverted", []float64{0.1, 0.8, 0.2, 0.9}, []int{1, 0, 1, 0}, 0},
		{"partial", []float64{0.9, 0.6, 0.4, 0.2}, []int{1, 0, 1, 0}, 0.75},
		{"all tied", []float64{0.5, 0.5, 0.5, 0.5}, []int{1, 0, 1, 0}, 0.5},
		{"tie across classes", []float64{0.7, 0.7, 0.1}, []int{1, 0, 0}, 0.75},
		{"unscaled logits", []float64{3, -1, 2, -4}, []int{1, 0, 1, 0}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AUROC(tt.preds, tt.targets)
			if !approxEqual(got, tt.want) {
				t.Errorf("AUROC(%v, %v) = %f, want %f", tt.preds, tt.targets, got, tt.want)
			}
		})
	}
}

func TestAUROC_SingleClassIsNaN(t *testing.T) {
	if got := AUROC([]float64{0.2, 0.9}, []int{1, 1}); !math.IsNaN(got) {
		t.Errorf("AUROC with only positives = %f, want NaN", got)
	}
	if got := AUROC([]float64{0.2, 0.9}, []int{0, 0}); !math.IsNaN(got) {
		t.Errorf("AUROC with only negatives = %f, want NaN", got)
	}
	if got := AUROC(nil, nil); !math.IsNaN(got) {
		t.Errorf("AUROC of empty group = %f, want NaN", got)
	}
}
