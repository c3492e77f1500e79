package models

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictionRecordKey(t *testing.T) {
	r := PredictionRecord{Seed: 3, User: "TRPB101", Model: "eegnet", Strategy: "A", ReadingTask: "w", Prediction: 0.3, Target: 1}
	assert.Equal(t, GroupKey{Seed: 3, User: "TRPB101", Model: "eegnet", Strategy: "A", ReadingTask: "w"}, r.Key())
}

func TestGroupKeyLess(t *testing.T) {
	keys := []GroupKey{
		{Seed: 2, User: "a", Model: "m", Strategy: "s", ReadingTask: "r"},
		{Seed: 1, User: "b", Model: "m", Strategy: "s", ReadingTask: "r"},
		{Seed: 1, User: "a", Model: "n", Strategy: "s", ReadingTask: "r"},
		{Seed: 1, User: "a", Model: "m", Strategy: "t", ReadingTask: "r"},
		{Seed: 1, User: "a", Model: "m", Strategy: "s", ReadingTask: "z"},
		{Seed: 1, User: "a", Model: "m", Strategy: "s", ReadingTask: "r"},
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	want := []GroupKey{
		{Seed: 1, User: "a", Model: "m", Strategy: "s", ReadingTask: "r"},
		{Seed: 1, User: "a", Model: "m", Strategy: "s", ReadingTask: "z"},
		{Seed: 1, User: "a", Model: "m", Strategy: "t", ReadingTask: "r"},
		{Seed: 1, User: "a", Model: "n", Strategy: "s", ReadingTask: "r"},
		{Seed: 1, User: "b", Model: "m", Strategy: "s", ReadingTask: "r"},
		{Seed: 2, User: "a", Model: "m", Strategy: "s", ReadingTask: "r"},
	}
	assert.Equal(t, want, keys)
	assert.False(t, want[0].Less(want[0]))
}

func TestMetricRowScore(t *testing.T) {
	row := MetricRow{Scores: map[string]float64{MetricAUC: 0.75, MetricKappa: math.NaN()}}

	assert.Equal(t, 0.75, row.Score(MetricAUC))
	assert.True(t, math.IsNaN(row.Score(MetricRecall)), "missing metric should be NaN")
	assert.False(t, row.HasNaN(MetricAUC))
	assert.True(t, row.HasNaN(MetricAUC, MetricKappa))
}

func TestSchemaErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *SchemaError
		want string
	}{
		{
			name: "row level",
			err:  &SchemaError{File: "w_relevance_seed1.csv", Row: 4, Problems: []string{"missing targets", "seed: expected integer"}},
			want: "schema error in w_relevance_seed1.csv at row 4: missing targets; seed: expected integer",
		},
		{
			name: "file level",
			err:  &SchemaError{File: "x.parquet", Problems: []string{"missing column user"}},
			want: "schema error in x.parquet: missing column user",
		},
		{
			name: "bare",
			err:  &SchemaError{},
			want: "schema error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestSchemaErrorUnwrapsFromChain(t *testing.T) {
	wrapped := fmt.Errorf("loading predictions: %w", &SchemaError{File: "f.json", Row: 1})

	var schemaErr *SchemaError
	require.True(t, errors.As(wrapped, &schemaErr))
	assert.Equal(t, "f.json", schemaErr.File)
}

func TestTableLen(t *testing.T) {
	var nilTable *Table
	assert.Equal(t, 0, nilTable.Len())
	assert.Equal(t, 2, (&Table{Records: make([]PredictionRecord, 2)}).Len())
}
