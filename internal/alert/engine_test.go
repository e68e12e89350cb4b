package alert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemscap/statarb-engine/internal/model"
)

// TestEngine_S4ZScoreStreamScenario is the spec's literal S4 scenario:
// z-scores [0, 1.8, 2.1, 2.5, 2.6, 0.3, -2.4] at 30s spacing against
// the default rules.
func TestEngine_S4ZScoreStreamScenario(t *testing.T) {
	e := New(60 * time.Second)
	base := time.Now().UTC()

	zscores := []float64{0, 1.8, 2.1, 2.5, 2.6, 0.3, -2.4}
	var allAlerts [][]model.Alert
	for i, z := range zscores {
		ts := base.Add(time.Duration(i) * 30 * time.Second)
		allAlerts = append(allAlerts, e.CheckZScore(z, "BTC", ts))
	}

	assert.Empty(t, allAlerts[0], "z=0 at t=0s triggers nothing")
	assert.Empty(t, allAlerts[1], "z=1.8 at t=30s is below the 2.0 threshold")

	require.Len(t, allAlerts[2], 1, "z=2.1 at t=60s should fire WARNING z>2")
	assert.Equal(t, model.SeverityWarning, allAlerts[2][0].Severity)

	assert.Empty(t, allAlerts[3], "z=2.5 at t=90s is suppressed by the 60s cooldown")
	assert.Empty(t, allAlerts[4], "z=2.6 at t=120s is still suppressed by cooldown")

	assert.Empty(t, allAlerts[5], "z=0.3 at t=150s triggers nothing")

	require.Len(t, allAlerts[6], 1, "z=-2.4 at t=180s should fire WARNING z<-2")
	assert.Equal(t, model.AlertZScoreLow, allAlerts[6][0].Type)
}

// TestEngine_CooldownInvariant checks invariant 6: consecutive emitted
// alerts for the same rule+key have delta-t >= cooldown.
func TestEngine_CooldownInvariant(t *testing.T) {
	e := New(60 * time.Second)
	base := time.Now().UTC()

	var firedAt []time.Time
	for i := 0; i < 10; i++ {
		ts := base.Add(time.Duration(i) * 10 * time.Second)
		if alerts := e.CheckZScore(2.5, "BTC", ts); len(alerts) > 0 {
			firedAt = append(firedAt, ts)
		}
	}

	require.GreaterOrEqual(t, len(firedAt), 2)
	for i := 1; i < len(firedAt); i++ {
		assert.GreaterOrEqual(t, firedAt[i].Sub(firedAt[i-1]), 60*time.Second)
	}
}

func TestEngine_MultipleRulesFireIndependently(t *testing.T) {
	e := New(60 * time.Second)
	ts := time.Now().UTC()

	alerts := e.CheckZScore(3.5, "BTC", ts)
	require.Len(t, alerts, 2, "both z>2 and z>3 rules should fire for z=3.5")
}

func TestEngine_CooldownKeyIsPerSymbol(t *testing.T) {
	e := New(60 * time.Second)
	ts := time.Now().UTC()

	btcAlerts := e.CheckZScore(2.5, "BTC", ts)
	ethAlerts := e.CheckZScore(2.5, "ETH", ts)

	assert.Len(t, btcAlerts, 1)
	assert.Len(t, ethAlerts, 1, "a different symbol has an independent cooldown key")
}

func TestEngine_HistoryCapacityAndOrdering(t *testing.T) {
	e := New(0)
	base := time.Now().UTC()

	for i := 0; i < 150; i++ {
		e.record(model.Alert{Timestamp: base.Add(time.Duration(i) * time.Second), Value: float64(i)}, "", base.Add(time.Duration(i)*time.Second))
	}

	history := e.History(0, "", "")
	assert.Len(t, history, historyCapacity)
	assert.True(t, history[0].Timestamp.After(history[len(history)-1].Timestamp), "history is sorted descending by timestamp")
}

func TestEngine_ClearAllResetsCooldowns(t *testing.T) {
	e := New(60 * time.Second)
	ts := time.Now().UTC()

	e.CheckZScore(2.5, "BTC", ts)
	e.ClearAll()

	alerts := e.CheckZScore(2.5, "BTC", ts)
	assert.Len(t, alerts, 1, "clear_all must reset cooldown state so the rule can fire again immediately")
}

func TestEngine_CustomRulePanicIsolated(t *testing.T) {
	e := New(time.Second)
	predicate := func(v float64) bool { panic("boom") }

	alert, ok := e.CheckCustom(5.0, predicate, "unused", model.SeverityInfo, "BTC", "", time.Now().UTC())
	assert.False(t, ok)
	assert.Equal(t, model.Alert{}, alert)
}
