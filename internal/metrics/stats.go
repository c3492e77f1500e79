package metrics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// NaNPolicy controls how undefined per-group scores enter a summary.
type NaNPolicy string

const (
	// NaNExclude drops NaN scores before computing mean and std.
	NaNExclude NaNPolicy = "exclude"
	// NaNPropagate lets a single NaN make the summary NaN.
	NaNPropagate NaNPolicy = "propagate"
)

// ParseNaNPolicy validates a policy name; empty selects NaNExclude.
func ParseNaNPolicy(s string) (NaNPolicy, error) {
	switch NaNPolicy(s) {
	case "", NaNExclude:
		return NaNExclude, nil
	case NaNPropagate:
		return NaNPropagate, nil
	default:
		return "", fmt.Errorf("unknown NaN policy %q: must be %s or %s", s, NaNExclude, NaNPropagate)
	}
}

// Summary is the mean and sample standard deviation of a set of scores.
type Summary struct {
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std"`
	N        int     `json:"n"`
	Excluded int     `json:"excluded,omitempty"`
}

// Summarize computes the mean and sample (n-1) standard deviation. The std of
// a single value is NaN, and both are NaN for no values.
func Summarize(values []float64, policy NaNPolicy) Summary {
	kept := values
	excluded := 0
	if policy != NaNPropagate {
		kept = FilterNaN(values)
		excluded = len(values) - len(kept)
	}

	s := Summary{N: len(kept), Excluded: excluded}
	if len(kept) == 0 {
		s.Mean, s.StdDev = math.NaN(), math.NaN()
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(kept, nil)
	if len(kept) == 1 {
		s.StdDev = math.NaN()
	}
	return s
}

// FilterNaN returns the non-NaN values, reusing values when none are NaN.
func FilterNaN(values []float64) []float64 {
	for i, v := range values {
		if math.IsNaN(v) {
			out := append([]float64(nil), values[:i]...)
			for _, w := range values[i+1:] {
				if !math.IsNaN(w) {
					out = append(out, w)
				}
			}
			return out
		}
	}
	return values
}
