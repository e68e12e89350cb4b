package model

// Statistics summarizes a price series: mean/std/min/max/last plus
// log-return statistics and cumulative return.
type Statistics struct {
	Mean             float64
	Std              float64
	Min              float64
	Max              float64
	Last             float64
	ReturnsMean      float64
	ReturnsStd       float64
	CumulativeReturn float64
	Count            int
}

// HedgeRatio is the result of an OLS regression y = alpha + beta*x + e.
type HedgeRatio struct {
	Beta     float64
	Alpha    float64
	RSquared float64
	StdError float64
}

// ADFMethod distinguishes a true Dickey-Fuller test from the degraded
// fallback heuristic. The two must never be conflated — see spec Open
// Question 3.
type ADFMethod string

const (
	ADFMethodTrue      ADFMethod = "adf"
	ADFMethodHeuristic ADFMethod = "heuristic"
)

// CriticalValues holds the rejection thresholds at the standard levels.
type CriticalValues struct {
	OnePercent  float64
	FivePercent float64
	TenPercent  float64
}

// ADFResult is the outcome of a stationarity test.
type ADFResult struct {
	TestStatistic  float64
	PValue         float64
	UsedLag        int
	NObs           int
	CriticalValues CriticalValues
	IsStationary   bool
	Method         ADFMethod
}

// Signal is the mean-reversion trading signal derived from a z-score.
type Signal string

const (
	SignalBuy     Signal = "buy"
	SignalSell    Signal = "sell"
	SignalNeutral Signal = "neutral"
)
