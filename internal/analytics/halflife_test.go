package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemscap/statarb-engine/internal/model"
)

func TestHalfLife_MeanRevertingSeries(t *testing.T) {
	series := make([]float64, 50)
	theta := 0.5
	for i := 1; i < len(series); i++ {
		series[i] = theta * series[i-1]
		if i%7 == 0 {
			series[i] += 1.0
		}
	}
	hl, ok, err := HalfLife(series)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Greater(t, hl, 0.0)
}

func TestHalfLife_NoMeanReversionReturnsNoResult(t *testing.T) {
	series := make([]float64, 20)
	for i := range series {
		series[i] = float64(i) // monotonic, theta ~ 1, no reversion
	}
	_, ok, err := HalfLife(series)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHalfLife_InsufficientData(t *testing.T) {
	_, _, err := HalfLife([]float64{1, 2, 3})
	assert.ErrorIs(t, err, model.ErrInsufficientData)
}

// TestHalfLife_DemeansBeforeFitting pins the Python ground truth's
// behavior (original_source/src/analytics/spread.py's
// _estimate_half_life): theta is estimated from demeaned lagged/current
// sums, not a through-origin regression. A series offset by a large
// constant has the same mean-reversion speed as the same series
// centered at zero, so demeaned estimation must return the same
// half-life for both; a through-origin fit would not, since the large
// constant offset dominates the raw (non-demeaned) dot product.
func TestHalfLife_DemeansBeforeFitting(t *testing.T) {
	n := 60
	theta := 0.6
	centered := make([]float64, n)
	for i := 1; i < n; i++ {
		centered[i] = theta*centered[i-1] + 0.05*math.Sin(float64(i))
	}

	const offset = 1000.0
	shifted := make([]float64, n)
	for i, v := range centered {
		shifted[i] = v + offset
	}

	hlCentered, okCentered, err := HalfLife(centered)
	require.NoError(t, err)
	require.True(t, okCentered)

	hlShifted, okShifted, err := HalfLife(shifted)
	require.NoError(t, err)
	require.True(t, okShifted)

	assert.InDelta(t, hlCentered, hlShifted, 1e-6, "half-life must be invariant to a constant offset in the spread")
}
