package models

import "fmt"

// Column names shared by every prediction file format.
const (
	ColumnModel       = "model"
	ColumnSeed        = "seed"
	ColumnUser        = "user"
	ColumnStrategy    = "strategy"
	ColumnReadingTask = "reading_task"
	ColumnPredictions = "predictions"
	ColumnTargets     = "targets"
)

// RequiredColumns lists the columns every prediction file must carry.
var RequiredColumns = []string{
	ColumnModel,
	ColumnSeed,
	ColumnUser,
	ColumnStrategy,
	ColumnReadingTask,
	ColumnPredictions,
	ColumnTargets,
}

// PredictionRecord is one sample's prediction from a benchmark run.
type PredictionRecord struct {
	Seed        int     `json:"seed" mapstructure:"seed"`
	User        string  `json:"user" mapstructure:"user"`
	Model       string  `json:"model" mapstructure:"model"`
	Strategy    string  `json:"strategy" mapstructure:"strategy"`
	ReadingTask string  `json:"reading_task" mapstructure:"reading_task"`
	Prediction  float64 `json:"predictions" mapstructure:"predictions"`
	Target      int     `json:"targets" mapstructure:"targets"`
}

// Key returns the evaluation run the record belongs to.
func (r PredictionRecord) Key() GroupKey {
	return GroupKey{
		Seed:        r.Seed,
		User:        r.User,
		Model:       r.Model,
		Strategy:    r.Strategy,
		ReadingTask: r.ReadingTask,
	}
}

// GroupKey identifies one evaluation run: metrics are always computed per key.
type GroupKey struct {
	Seed        int    `json:"seed"`
	User        string `json:"user"`
	Model       string `json:"model"`
	Strategy    string `json:"strategy"`
	ReadingTask string `json:"reading_task"`
}

// Less orders keys by seed, then lexically by user, model, strategy and
// reading task.
func (k GroupKey) Less(other GroupKey) bool {
	if k.Seed != other.Seed {
		return k.Seed < other.Seed
	}
	if k.User != other.User {
		return k.User < other.User
	}
	if k.Model != other.Model {
		return k.Model < other.Model
	}
	if k.Strategy != other.Strategy {
		return k.Strategy < other.Strategy
	}
	return k.ReadingTask < other.ReadingTask
}

func (k GroupKey) String() string {
	return fmt.Sprintf("seed=%d user=%s model=%s strategy=%s reading_task=%s",
		k.Seed, k.User, k.Model, k.Strategy, k.ReadingTask)
}

// Table is the concatenation of every loaded prediction file.
type Table struct {
	Records []PredictionRecord `json:"records"`
	Files   []string           `json:"files"`
}

// Len returns the number of records in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}
