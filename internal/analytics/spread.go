package analytics

import "math"

// SpreadMode selects the spread transform.
type SpreadMode int

const (
	SpreadRaw SpreadMode = iota
	SpreadStandardized
	SpreadLog
)

// Spread computes spread_t = y_t - beta*x_t (or the log variant
// ln(y)-beta*ln(x)), optionally standardized by its own mean/std.
// Series must already be aligned and equal length; no NaN handling is
// performed here, callers align via the store's series helpers first.
func Spread(y, x []float64, beta float64, mode SpreadMode) []float64 {
	n := len(y)
	if len(x) < n {
		n = len(x)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if mode == SpreadLog {
			out[i] = math.Log(y[i]) - beta*math.Log(x[i])
		} else {
			out[i] = y[i] - beta*x[i]
		}
	}
	if mode != SpreadStandardized {
		return out
	}

	m := mean(out)
	var sumSq float64
	for _, v := range out {
		d := v - m
		sumSq += d * d
	}
	std := 0.0
	if n > 1 {
		std = math.Sqrt(sumSq / float64(n-1))
	}
	if std == 0 {
		return out
	}
	standardized := make([]float64, n)
	for i, v := range out {
		standardized[i] = (v - m) / std
	}
	return standardized
}
