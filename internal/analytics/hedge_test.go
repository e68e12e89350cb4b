package analytics

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemscap/statarb-engine/internal/model"
)

// TestHedgeRatio_S2PerfectLinearFit is the spec's literal S2 scenario.
func TestHedgeRatio_S2PerfectLinearFit(t *testing.T) {
	y := []float64{10, 11, 12, 13, 14, 15, 16, 17, 18, 19}
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	hr, err := HedgeRatio(y, x)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, hr.Beta, 1e-9)
	assert.InDelta(t, 9.0, hr.Alpha, 1e-9)
	assert.InDelta(t, 1.0, hr.RSquared, 1e-9)
	assert.InDelta(t, 0.0, hr.StdError, 1e-9)
}

func TestHedgeRatio_InsufficientDataBelowTen(t *testing.T) {
	y := []float64{1, 2, 3}
	x := []float64{1, 2, 3}
	_, err := HedgeRatio(y, x)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInsufficientData))
}

func TestHedgeRatio_SingularDesignWhenXConstant(t *testing.T) {
	y := make([]float64, 10)
	x := make([]float64, 10)
	for i := range y {
		y[i] = float64(i)
		x[i] = 5.0
	}
	_, err := HedgeRatio(y, x)
	assert.True(t, errors.Is(err, model.ErrSingularDesign))
}

// TestHedgeRatio_LinearInvariant checks invariant 5: OLS on (y,x) and
// then on (c1*y+c0, x) produces beta' = c1*beta, alpha' = c1*alpha+c0.
func TestHedgeRatio_LinearInvariant(t *testing.T) {
	y := []float64{12, 9, 15, 20, 7, 18, 11, 14, 22, 6, 17, 13}
	x := []float64{3, 2, 4, 5, 1, 5, 3, 4, 6, 1, 5, 3}

	base, err := HedgeRatio(y, x)
	require.NoError(t, err)

	const c1, c0 = 2.5, 4.0
	scaled := make([]float64, len(y))
	for i, v := range y {
		scaled[i] = c1*v + c0
	}

	transformed, err := HedgeRatio(scaled, x)
	require.NoError(t, err)

	assert.InDelta(t, c1*base.Beta, transformed.Beta, 1e-9*c1*base.Beta+1e-9)
	assert.InDelta(t, c1*base.Alpha+c0, transformed.Alpha, 1e-9*(c1*base.Alpha+c0)+1e-9)
}

func TestHedgeRatio_DropsNaNPairs(t *testing.T) {
	y := []float64{10, 11, 12, 13, 14, 15, 16, math.NaN(), 18, 19, 20}
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}

	hr, err := HedgeRatio(y, x)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, hr.Beta, 1e-6)
}
