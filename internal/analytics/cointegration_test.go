package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckCointegration_CointegratedPair(t *testing.T) {
	n := 120
	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = 100 + float64(i)*0.1
		noise := 0.0
		if i%2 == 0 {
			noise = 0.01
		} else {
			noise = -0.01
		}
		y[i] = 2*x[i] + 5 + noise
	}

	result, ok := CheckCointegration(y, x, 0.05)
	assert.True(t, ok)
	assert.InDelta(t, 2.0, result.HedgeRatio.Beta, 0.05)
	assert.True(t, result.Cointegrated, "tight noise band around a fixed linear relationship should test stationary")
}

func TestCheckCointegration_InsufficientDataFails(t *testing.T) {
	_, ok := CheckCointegration([]float64{1, 2, 3}, []float64{1, 2, 3}, 0.05)
	assert.False(t, ok)
}

func TestCheckCointegration_ReportsUnderlyingADFMethod(t *testing.T) {
	n := 120
	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = 100 + float64(i)*0.1
		noise := 0.01
		if i%2 == 0 {
			noise = -0.01
		}
		y[i] = 2*x[i] + 5 + noise
	}

	result, ok := CheckCointegration(y, x, 0.05)
	assert.True(t, ok)
	assert.NotEmpty(t, result.ADF.Method, "the cointegration result must surface which ADF method produced it")
}
