package orchestration

import (
	"fmt"
	"path/filepath"

	"github.com/relbench/relbench/internal/models"
)

// FilterRecords returns the records whose model matches at least one of the
// given glob patterns. An empty patterns slice returns records unchanged.
func FilterRecords(records []models.PredictionRecord, patterns []string) ([]models.PredictionRecord, error) {
	if len(patterns) == 0 {
		return records, nil
	}

	matched := make(map[string]bool)
	var out []models.PredictionRecord
	for _, r := range records {
		ok, seen := matched[r.Model]
		if !seen {
			var err error
			ok, err = matchesAny(r.Model, patterns)
			if err != nil {
				return nil, err
			}
			matched[r.Model] = ok
		}
		if ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// matchesAny reports whether name matches any pattern.
func matchesAny(name string, patterns []string) (bool, error) {
	for _, p := range patterns {
		ok, err := filepath.Match(p, name)
		if err != nil {
			return false, fmt.Errorf("invalid model filter pattern %q: %w", p, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
