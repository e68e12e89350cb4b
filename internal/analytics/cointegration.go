package analytics

import "github.com/gemscap/statarb-engine/internal/model"

// CointegrationResult reports the Engle-Granger two-step test: regress y
// on x, then test the residual spread for a unit root.
type CointegrationResult struct {
	HedgeRatio model.HedgeRatio
	ADF        model.ADFResult
	Cointegrated bool
}

// CheckCointegration runs the Engle-Granger procedure: fit the hedge
// ratio, form the residual spread, and test it for stationarity. Returns
// (result, false) if either step lacks enough observations.
func CheckCointegration(y, x []float64, significance float64) (CointegrationResult, bool) {
	hr, err := HedgeRatio(y, x)
	if err != nil {
		return CointegrationResult{}, false
	}

	spread := Spread(y, x, hr.Beta, SpreadRaw)
	adfResult, ok := ADF(spread, significance)
	if !ok {
		return CointegrationResult{}, false
	}

	return CointegrationResult{
		HedgeRatio:   hr,
		ADF:          adfResult,
		Cointegrated: adfResult.IsStationary,
	}, true
}
