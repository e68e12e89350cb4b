package analytics

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// RollingCorrelation computes the trailing Pearson correlation of (a,b)
// over a window of size w, min_periods = max(2, w/2), grounded on the
// pack's gonum stat.Correlation usage for the same pairs-trading
// correlation check.
func RollingCorrelation(a, b []float64, w int) []float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	if w < 1 {
		return out
	}

	minPeriods := w / 2
	if minPeriods < 2 {
		minPeriods = 2
	}

	for i := 0; i < n; i++ {
		start := i - w + 1
		if start < 0 {
			start = 0
		}
		wa, wb := a[start:i+1], b[start:i+1]
		if len(wa) < minPeriods {
			continue
		}
		if stdDevZero(wa) || stdDevZero(wb) {
			continue
		}
		out[i] = stat.Correlation(wa, wb, nil)
	}
	return out
}

func stdDevZero(v []float64) bool {
	if len(v) < 2 {
		return true
	}
	return stat.StdDev(v, nil) == 0
}

// CorrelationMatrix returns the full pairwise Pearson correlation matrix
// across symbols, keyed by symbol in the order given. series[i] and
// series[j] must be equal length and index-aligned.
func CorrelationMatrix(symbols []string, series [][]float64) map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(symbols))
	for i, si := range symbols {
		out[si] = make(map[string]float64, len(symbols))
		for j, sj := range symbols {
			if i == j {
				out[si][sj] = 1.0
				continue
			}
			if stdDevZero(series[i]) || stdDevZero(series[j]) {
				out[si][sj] = math.NaN()
				continue
			}
			out[si][sj] = stat.Correlation(series[i], series[j], nil)
		}
	}
	return out
}
