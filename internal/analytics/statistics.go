// Package analytics implements the pure, stateless quantitative layer:
// statistics, OLS hedge ratio, spread, rolling z-score, ADF stationarity,
// rolling correlation, half-life, and signal derivation. No function here
// mutates its inputs or touches the store.
package analytics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/gemscap/statarb-engine/internal/model"
)

// Statistics computes mean/std/min/max/last plus log-return statistics
// over a price series. Returns (result, false) if n<2.
func Statistics(values []float64) (model.Statistics, bool) {
	if len(values) < 2 {
		return model.Statistics{}, false
	}

	mean := stat.Mean(values, nil)
	std := stat.StdDev(values, nil)
	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	returns := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] <= 0 || values[i] <= 0 {
			continue
		}
		returns = append(returns, math.Log(values[i]/values[i-1]))
	}

	var returnsMean, returnsStd, cumulative float64
	if len(returns) > 0 {
		returnsMean = stat.Mean(returns, nil)
		if len(returns) > 1 {
			returnsStd = stat.StdDev(returns, nil)
		}
		var sum float64
		for _, r := range returns {
			sum += r
		}
		cumulative = math.Exp(sum) - 1
	}

	return model.Statistics{
		Mean:             mean,
		Std:              std,
		Min:              min,
		Max:              max,
		Last:             values[len(values)-1],
		ReturnsMean:      returnsMean,
		ReturnsStd:       returnsStd,
		CumulativeReturn: cumulative,
		Count:            len(values),
	}, true
}
