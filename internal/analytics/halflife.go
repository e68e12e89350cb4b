package analytics

import (
	"fmt"
	"math"

	"github.com/gemscap/statarb-engine/internal/model"
)

const minHalfLifeObservations = 10

// HalfLife fits an AR(1) s_t = theta*s_{t-1} + eps by demeaned OLS
// (matching original_source/src/analytics/spread.py's _estimate_half_life,
// which regresses on (x - xbar) and (y - ybar) rather than through the
// origin) and returns -ln(2)/ln(theta) when theta in (0,1). Returns
// (0, false, nil) when theta is outside that range (no mean reversion),
// and an error when there are fewer than 10 points.
func HalfLife(spread []float64) (float64, bool, error) {
	if len(spread) < minHalfLifeObservations {
		return 0, false, fmt.Errorf("%w: need %d observations, have %d", model.ErrInsufficientData, minHalfLifeObservations, len(spread))
	}

	lagged := spread[:len(spread)-1]
	current := spread[1:]
	laggedMean := mean(lagged)
	currentMean := mean(current)

	var num, den float64
	for i := range lagged {
		dl := lagged[i] - laggedMean
		dc := current[i] - currentMean
		num += dl * dc
		den += dl * dl
	}
	if den == 0 {
		return 0, false, model.ErrSingularDesign
	}
	theta := num / den

	if theta <= 0 || theta >= 1 {
		return 0, false, nil
	}
	return -math.Ln2 / math.Log(theta), true, nil
}
