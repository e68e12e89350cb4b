package alert

import (
	"sort"
	"sync"
	"time"

	"github.com/gemscap/statarb-engine/internal/metrics"
	"github.com/gemscap/statarb-engine/internal/model"
)

const historyCapacity = 100

// Callback receives every alert as it fires. Panics inside a callback
// are isolated and never affect subsequent callbacks or the engine.
type Callback func(model.Alert)

// Engine evaluates rules against streaming scalar values, respecting
// per-rule cooldowns, and retains bounded history. A single mutex
// guards rules, history, and the cooldown map, matching the "exactly
// three self-locking shared structures" concurrency model.
type Engine struct {
	mu             sync.Mutex
	rules          []Rule
	history        []model.Alert
	lastTriggered  map[string]time.Time
	callbacks      []Callback
	defaultCooldown time.Duration
}

// New creates an engine pre-populated with the default z-score rules.
func New(defaultCooldown time.Duration) *Engine {
	return &Engine{
		rules:           DefaultRules(),
		lastTriggered:   make(map[string]time.Time),
		defaultCooldown: defaultCooldown,
	}
}

// AddRule appends a custom rule.
func (e *Engine) AddRule(r Rule) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rules = append(e.rules, r)
}

// RemoveRule removes a rule by name, reporting whether it was found.
func (e *Engine) RemoveRule(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, r := range e.rules {
		if r.ruleName() == name {
			e.rules = append(e.rules[:i], e.rules[i+1:]...)
			return true
		}
	}
	return false
}

// OnAlert registers a subscriber invoked for every alert that fires.
func (e *Engine) OnAlert(cb Callback) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.callbacks = append(e.callbacks, cb)
}

// CheckZScore evaluates zscore-typed rules against z, in insertion
// order, returning every alert that fired (multiple rules may fire for
// the same z, each gated by its own cooldown key).
func (e *Engine) CheckZScore(z float64, symbol string, ts time.Time) []model.Alert {
	e.mu.Lock()
	defer e.mu.Unlock()

	var triggered []model.Alert
	for _, r := range e.rules {
		if r.alertType() != model.AlertZScoreHigh && r.alertType() != model.AlertZScoreLow {
			continue
		}
		if !r.matches(z) {
			continue
		}

		key := cooldownKey(r.ruleName(), symbol)
		if last, ok := e.lastTriggered[key]; ok && ts.Sub(last) <= r.cooldown() {
			continue
		}

		alert := model.Alert{
			Timestamp: ts,
			Type:      r.alertType(),
			Severity:  r.severity(),
			Message:   r.renderMessage(z),
			Value:     z,
			Symbol:    symbol,
		}
		e.record(alert, key, ts)
		triggered = append(triggered, alert)
		metrics.AlertsFired.WithLabelValues(r.ruleName(), string(r.severity())).Inc()
	}
	return triggered
}

// CheckCustom evaluates a single ad-hoc predicate using the engine's
// default cooldown, gated by cooldownKey (no cooldown tracking if
// cooldownKey is empty). Returns (alert, true) if it fired.
func (e *Engine) CheckCustom(value float64, predicate func(float64) bool, message string, severity model.Severity, symbol, cooldownKey string, ts time.Time) (model.Alert, bool) {
	if !safeMatch(predicate, value) {
		return model.Alert{}, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if cooldownKey != "" {
		if last, ok := e.lastTriggered[cooldownKey]; ok && ts.Sub(last) <= e.defaultCooldown {
			return model.Alert{}, false
		}
	}

	alert := model.Alert{
		Timestamp: ts,
		Type:      model.AlertCustom,
		Severity:  severity,
		Message:   message,
		Value:     value,
		Symbol:    symbol,
	}
	e.record(alert, cooldownKey, ts)
	metrics.AlertsFired.WithLabelValues("custom", string(severity)).Inc()
	return alert, true
}

func safeMatch(predicate func(float64) bool, value float64) bool {
	defer func() { _ = recover() }()
	if predicate == nil {
		return false
	}
	return predicate(value)
}

// record appends to history (capped) and notifies subscribers. Must be
// called with e.mu held.
func (e *Engine) record(alert model.Alert, cooldownKey string, ts time.Time) {
	e.history = append(e.history, alert)
	if len(e.history) > historyCapacity {
		e.history = e.history[len(e.history)-historyCapacity:]
	}
	if cooldownKey != "" {
		e.lastTriggered[cooldownKey] = ts
	}

	notifyAll(e.callbacks, alert)
}

func notifyAll(callbacks []Callback, alert model.Alert) {
	for _, cb := range callbacks {
		invokeSafely(cb, alert)
	}
}

func invokeSafely(cb Callback, alert model.Alert) {
	defer func() { _ = recover() }()
	cb(alert)
}

// History returns up to n most recent alerts (n<=0 means all), filtered
// by severity/type when non-empty, sorted by descending timestamp.
func (e *Engine) History(n int, severity model.Severity, alertType model.AlertType) []model.Alert {
	e.mu.Lock()
	snapshot := make([]model.Alert, len(e.history))
	copy(snapshot, e.history)
	e.mu.Unlock()

	out := snapshot[:0:0]
	for _, a := range snapshot {
		if severity != "" && a.Severity != severity {
			continue
		}
		if alertType != "" && a.Type != alertType {
			continue
		}
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// ClearHistory empties the alert history ring.
func (e *Engine) ClearHistory() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history = nil
}

// ClearAll empties history and all cooldown state.
func (e *Engine) ClearAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history = nil
	e.lastTriggered = make(map[string]time.Time)
}

func cooldownKey(ruleName, symbol string) string {
	if symbol == "" {
		symbol = "all"
	}
	return ruleName + "_" + symbol
}
