package metrics

import (
	"math"
	"sort"
)

// AUROC returns the area under the ROC curve using the rank-sum (Mann-Whitney)
// formulation, with tied scores sharing their average rank. It is NaN unless
// both classes are present.
func AUROC(preds []float64, targets []int) float64 {
	n := len(preds)
	var nPos, nNeg int
	for _, t := range targets[:n] {
		if t == 1 {
			nPos++
		} else {
			nNeg++
		}
	}
	if nPos == 0 || nNeg == 0 {
		return math.NaN()
	}

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return preds[idx[a]] < preds[idx[b]] })

	var rankSumPos float64
	for i := 0; i < n; {
		j := i
		for j+1 < n && preds[idx[j+1]] == preds[idx[i]] {
			j++
		}
		// ranks are 1-based; a run of ties i..j shares the mean rank
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			if targets[idx[k]] == 1 {
				rankSumPos += avg
			}
		}
		i = j + 1
	}

	p, q := float64(nPos), float64(nNeg)
	return (rankSumPos - p*(p+1)/2) / (p * q)
}
