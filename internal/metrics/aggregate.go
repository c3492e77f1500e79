package metrics

import (
	"sort"

	"github.com/relbench/relbench/internal/models"
)

// Group is every (prediction, target) pair sharing one GroupKey.
type Group struct {
	Key         models.GroupKey
	Predictions []float64
	Targets     []int
}

// GroupRecords partitions records by GroupKey. Groups come back ordered by
// GroupKey.Less; within a group the record order is preserved.
func GroupRecords(records []models.PredictionRecord) []Group {
	index := make(map[models.GroupKey]int)
	var groups []Group
	for _, r := range records {
		k := r.Key()
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Predictions = append(groups[i].Predictions, r.Prediction)
		groups[i].Targets = append(groups[i].Targets, r.Target)
	}
	sort.SliceStable(groups, func(a, b int) bool { return groups[a].Key.Less(groups[b].Key) })
	return groups
}

// ScoreTable is one metric evaluated over every group.
type ScoreTable struct {
	Metric  string
	Keys    []models.GroupKey
	Values  map[models.GroupKey]float64
	Samples map[models.GroupKey]int
}

// PerMetric computes m for each group independently.
func PerMetric(groups []Group, m Metric) ScoreTable {
	t := ScoreTable{
		Metric:  m.Name(),
		Keys:    make([]models.GroupKey, 0, len(groups)),
		Values:  make(map[models.GroupKey]float64, len(groups)),
		Samples: make(map[models.GroupKey]int, len(groups)),
	}
	for _, g := range groups {
		t.Keys = append(t.Keys, g.Key)
		t.Values[g.Key] = m.Compute(g.Predictions, g.Targets)
		t.Samples[g.Key] = len(g.Predictions)
	}
	return t
}

// Merge inner-joins score tables on GroupKey, keeping the key order of the
// first table. A key absent from any table is dropped from the result.
func Merge(tables ...ScoreTable) []models.MetricRow {
	if len(tables) == 0 {
		return nil
	}

	rows := make([]models.MetricRow, 0, len(tables[0].Keys))
outer:
	for _, k := range tables[0].Keys {
		scores := make(map[string]float64, len(tables))
		for _, t := range tables {
			v, ok := t.Values[k]
			if !ok {
				continue outer
			}
			scores[t.Metric] = v
		}
		rows = append(rows, models.MetricRow{
			Key:     k,
			Samples: tables[0].Samples[k],
			Scores:  scores,
		})
	}
	return rows
}

// Compute groups records and evaluates every metric, returning one merged
// row per GroupKey.
func Compute(records []models.PredictionRecord, ms []Metric) []models.MetricRow {
	groups := GroupRecords(records)
	tables := make([]ScoreTable, 0, len(ms))
	for _, m := range ms {
		tables = append(tables, PerMetric(groups, m))
	}
	return Merge(tables...)
}
