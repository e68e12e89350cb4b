package analytics

import (
	"fmt"
	"math"

	"github.com/gemscap/statarb-engine/internal/model"
)

const minHedgeObservations = 10

// HedgeRatio fits y = alpha + beta*x by OLS over the paired series
// (dropping any index where either value is NaN), grounded on the same
// closed-form normal equations the spec spells out rather than gonum's
// stat.LinearRegression, so the reported std_error matches exactly.
//
// Returns model.ErrInsufficientData if fewer than 10 paired observations
// remain, or model.ErrSingularDesign if x has zero variance.
func HedgeRatio(y, x []float64) (model.HedgeRatio, error) {
	py, px := pairwiseDropNaN(y, x)
	n := len(py)
	if n < minHedgeObservations {
		return model.HedgeRatio{}, fmt.Errorf("%w: need %d observations, have %d", model.ErrInsufficientData, minHedgeObservations, n)
	}

	xbar, ybar := mean(px), mean(py)

	var sxx, sxy float64
	for i := 0; i < n; i++ {
		dx := px[i] - xbar
		dy := py[i] - ybar
		sxx += dx * dx
		sxy += dx * dy
	}
	if sxx == 0 {
		return model.HedgeRatio{}, model.ErrSingularDesign
	}

	beta := sxy / sxx
	alpha := ybar - beta*xbar

	var ssr, sst float64
	for i := 0; i < n; i++ {
		fitted := alpha + beta*px[i]
		resid := py[i] - fitted
		ssr += resid * resid
		dy := py[i] - ybar
		sst += dy * dy
	}

	rSquared := 0.0
	if sst != 0 {
		rSquared = 1 - ssr/sst
	}

	stdError := 0.0
	if n > 2 {
		stdError = math.Sqrt((ssr / float64(n-2)) / sxx)
	}

	return model.HedgeRatio{
		Beta:     beta,
		Alpha:    alpha,
		RSquared: rSquared,
		StdError: stdError,
	}, nil
}

func mean(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}

// pairwiseDropNaN returns the subsequence of (a,b) where neither element
// is NaN, preserving order.
func pairwiseDropNaN(a, b []float64) ([]float64, []float64) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	outA := make([]float64, 0, n)
	outB := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		outA = append(outA, a[i])
		outB = append(outB, b[i])
	}
	return outA, outB
}
