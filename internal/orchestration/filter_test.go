package orchestration

import (
	"testing"

	"github.com/relbench/relbench/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []models.PredictionRecord {
	return []models.PredictionRecord{
		{Model: "svm", Prediction: 0.1},
		{Model: "lstm", Prediction: 0.2},
		{Model: "lstm-attn", Prediction: 0.3},
		{Model: "eegnet", Prediction: 0.4},
	}
}

func TestFilterRecords_NoPatterns(t *testing.T) {
	result, err := FilterRecords(sampleRecords(), nil)
	require.NoError(t, err)
	assert.Len(t, result, 4, "empty patterns should return all records")
}

func TestFilterRecords_ExactName(t *testing.T) {
	result, err := FilterRecords(sampleRecords(), []string{"lstm"})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, 0.2, result[0].Prediction)
}

func TestFilterRecords_Glob(t *testing.T) {
	result, err := FilterRecords(sampleRecords(), []string{"lstm*"})
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "lstm", result[0].Model)
	assert.Equal(t, "lstm-attn", result[1].Model)
}

func TestFilterRecords_MultiplePatterns(t *testing.T) {
	result, err := FilterRecords(sampleRecords(), []string{"svm", "eeg*"})
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "svm", result[0].Model)
	assert.Equal(t, "eegnet", result[1].Model)
}

func TestFilterRecords_NoMatch(t *testing.T) {
	result, err := FilterRecords(sampleRecords(), []string{"transformer"})
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestFilterRecords_InvalidPattern(t *testing.T) {
	_, err := FilterRecords(sampleRecords(), []string{"[invalid"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid model filter pattern")
}
