package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemscap/statarb-engine/internal/model"
)

func TestReplay_NormalizesQuantitySynonym(t *testing.T) {
	ndjson := `{"symbol":"btc","ts":"2025-01-01T00:00:00.500Z","price":100,"size":1}
{"symbol":"btc","ts":"2025-01-01T00:00:00.900Z","price":101,"quantity":2}
`
	var ticks []model.Tick
	err := Replay(strings.NewReader(ndjson), func(tk model.Tick) { ticks = append(ticks, tk) })
	require.NoError(t, err)
	require.Len(t, ticks, 2)
	assert.Equal(t, "BTC", ticks[0].Symbol)
	assert.Equal(t, 1.0, ticks[0].Quantity)
	assert.Equal(t, 2.0, ticks[1].Quantity, "quantity is accepted as a synonym for size")
}

func TestReplay_SkipsMalformedLines(t *testing.T) {
	ndjson := `not json at all
{"symbol":"ETH","ts":"2025-01-01T00:00:00Z","price":10,"size":1}
`
	var ticks []model.Tick
	err := Replay(strings.NewReader(ndjson), func(tk model.Tick) { ticks = append(ticks, tk) })
	require.NoError(t, err)
	require.Len(t, ticks, 1)
	assert.Equal(t, "ETH", ticks[0].Symbol)
}

func TestReplay_DropsInvalidPrice(t *testing.T) {
	ndjson := `{"symbol":"BTC","ts":"2025-01-01T00:00:00Z","price":0,"size":1}
`
	var ticks []model.Tick
	err := Replay(strings.NewReader(ndjson), func(tk model.Tick) { ticks = append(ticks, tk) })
	require.NoError(t, err)
	assert.Empty(t, ticks, "price must be > 0 per the tick validity invariant")
}

func TestReplay_EmptyLinesAreIgnored(t *testing.T) {
	ndjson := "\n\n{\"symbol\":\"BTC\",\"ts\":\"2025-01-01T00:00:00Z\",\"price\":10,\"size\":1}\n\n"
	var ticks []model.Tick
	err := Replay(strings.NewReader(ndjson), func(tk model.Tick) { ticks = append(ticks, tk) })
	require.NoError(t, err)
	require.Len(t, ticks, 1)
}
