// Package alert implements the rule-driven alert engine: cooldown-gated
// evaluation of scalar signals (chiefly rolling z-scores) against a
// declarative rule set, with bounded history and subscriber callbacks.
package alert

import (
	"fmt"
	"time"

	"github.com/gemscap/statarb-engine/internal/model"
)

// Op is a threshold comparison operator.
type Op int

const (
	OpGreaterThan Op = iota
	OpLessThan
)

// ThresholdRule fires when a scalar value crosses a fixed threshold.
// This is the tagged-variant replacement for a class hierarchy of rule
// types: ThresholdRule and CustomRule are both Rule implementations.
type ThresholdRule struct {
	Name      string
	Type      model.AlertType
	Op        Op
	Value     float64
	Message   string
	Severity  model.Severity
	Cooldown  time.Duration
}

func (r ThresholdRule) ruleName() string          { return r.Name }
func (r ThresholdRule) cooldown() time.Duration   { return r.Cooldown }
func (r ThresholdRule) alertType() model.AlertType { return r.Type }
func (r ThresholdRule) severity() model.Severity  { return r.Severity }

func (r ThresholdRule) matches(value float64) bool {
	switch r.Op {
	case OpGreaterThan:
		return value > r.Value
	case OpLessThan:
		return value < r.Value
	default:
		return false
	}
}

func (r ThresholdRule) renderMessage(value float64) string {
	return fmt.Sprintf(r.Message, value)
}

// CustomRule fires when an arbitrary predicate over the value holds.
type CustomRule struct {
	Name      string
	Type      model.AlertType
	Predicate func(float64) bool
	Message   string
	Severity  model.Severity
	Cooldown  time.Duration
}

func (r CustomRule) ruleName() string           { return r.Name }
func (r CustomRule) cooldown() time.Duration    { return r.Cooldown }
func (r CustomRule) alertType() model.AlertType { return r.Type }
func (r CustomRule) severity() model.Severity   { return r.Severity }

func (r CustomRule) matches(value float64) bool {
	defer func() { _ = recover() }()
	if r.Predicate == nil {
		return false
	}
	return r.Predicate(value)
}

func (r CustomRule) renderMessage(value float64) string {
	return fmt.Sprintf(r.Message, value)
}

// Rule is the evaluator contract shared by ThresholdRule and CustomRule.
// Engine.CheckZScore does the dispatching through this interface rather
// than through any inheritance hierarchy.
type Rule interface {
	ruleName() string
	cooldown() time.Duration
	alertType() model.AlertType
	severity() model.Severity
	matches(value float64) bool
	renderMessage(value float64) string
}

// DefaultRules returns the four default z-score rules the spec ships
// with: z>2 WARNING/60s, z<-2 WARNING/60s, z>3 CRITICAL/120s, z<-3
// CRITICAL/120s.
func DefaultRules() []Rule {
	return []Rule{
		ThresholdRule{
			Name:     "zscore_high",
			Type:     model.AlertZScoreHigh,
			Op:       OpGreaterThan,
			Value:    2.0,
			Message:  "Z-score exceeded upper threshold: %.2f",
			Severity: model.SeverityWarning,
			Cooldown: 60 * time.Second,
		},
		ThresholdRule{
			Name:     "zscore_low",
			Type:     model.AlertZScoreLow,
			Op:       OpLessThan,
			Value:    -2.0,
			Message:  "Z-score exceeded lower threshold: %.2f",
			Severity: model.SeverityWarning,
			Cooldown: 60 * time.Second,
		},
		ThresholdRule{
			Name:     "zscore_critical_high",
			Type:     model.AlertZScoreHigh,
			Op:       OpGreaterThan,
			Value:    3.0,
			Message:  "Z-score critically high: %.2f",
			Severity: model.SeverityCritical,
			Cooldown: 120 * time.Second,
		},
		ThresholdRule{
			Name:     "zscore_critical_low",
			Type:     model.AlertZScoreLow,
			Op:       OpLessThan,
			Value:    -3.0,
			Message:  "Z-score critically low: %.2f",
			Severity: model.SeverityCritical,
			Cooldown: 120 * time.Second,
		},
	}
}
