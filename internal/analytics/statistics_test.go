package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatistics_InsufficientDataBelowTwo(t *testing.T) {
	_, ok := Statistics([]float64{1.0})
	assert.False(t, ok)
}

func TestStatistics_BasicMoments(t *testing.T) {
	stats, ok := Statistics([]float64{10, 12, 14})
	require.True(t, ok)
	assert.Equal(t, 12.0, stats.Mean)
	assert.Equal(t, 10.0, stats.Min)
	assert.Equal(t, 14.0, stats.Max)
	assert.Equal(t, 14.0, stats.Last)
	assert.Equal(t, 3, stats.Count)
}
