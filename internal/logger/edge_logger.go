// Package logger provides engine-specific logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// EdgeLogger provides dedicated logging for aggregation passes.
type EdgeLogger struct {
	*logrus.Entry
}

// NewEdgeLogger creates a new edge logger.
func NewEdgeLogger(baseLogger *logrus.Logger) *EdgeLogger {
	return &EdgeLogger{
		Entry: baseLogger.WithField("component", "edge_engine"),
	}
}

// LogStrategyFailure logs an isolated strategy failure.
func (el *EdgeLogger) LogStrategyFailure(runID, strategyID, strategyName string, cause error) {
	el.WithFields(logrus.Fields{
		"run_id":        runID,
		"strategy_id":   strategyID,
		"strategy_name": strategyName,
		"event_type":    "strategy_failure",
	}).WithError(cause).Error("Strategy failed, continuing with remaining strategies")
}

// LogStrategyCompleted logs a strategy that finished its evaluation.
func (el *EdgeLogger) LogStrategyCompleted(runID, strategyID string, edges int, duration time.Duration) {
	el.WithFields(logrus.Fields{
		"run_id":      runID,
		"strategy_id": strategyID,
		"edges":       edges,
		"duration_ms": float64(duration.Microseconds()) / 1000,
	}).Debug("Strategy evaluation completed")
}

// LogFallback logs an enhanced prediction that degraded to the baseline.
func (el *EdgeLogger) LogFallback(entity, reason string, sampleWeeks, sampleVolume int) {
	el.WithFields(logrus.Fields{
		"entity":        entity,
		"reason":        reason,
		"sample_weeks":  sampleWeeks,
		"sample_volume": sampleVolume,
		"event_type":    "fallback",
	}).Debug("Enhanced model fell back to baseline")
}

// LogSlowEntity logs a prediction that exceeded its budget.
func (el *EdgeLogger) LogSlowEntity(entity string, elapsed, budget time.Duration) {
	el.WithFields(logrus.Fields{
		"entity":     entity,
		"elapsed_ms": float64(elapsed.Microseconds()) / 1000,
		"budget_ms":  float64(budget.Microseconds()) / 1000,
		"event_type": "slow_entity",
	}).Warn("Entity prediction exceeded budget")
}

// LogContextDisagreement logs a zone-entry mismatch between the two data sources.
func (el *EdgeLogger) LogContextDisagreement(entity string, contextEntries, aggregateEntries int, agreement float64) {
	el.WithFields(logrus.Fields{
		"entity":            entity,
		"context_entries":   contextEntries,
		"aggregate_entries": aggregateEntries,
		"agreement":         agreement,
		"event_type":        "context_disagreement",
	}).Info("Play-level context disagrees with aggregated stats")
}

// LogAggregation logs the summary of one aggregation pass.
func (el *EdgeLogger) LogAggregation(runID string, season, week int, variant string, strategies, failures, edges int, duration time.Duration) {
	el.WithFields(logrus.Fields{
		"run_id":      runID,
		"season":      season,
		"week":        week,
		"variant":     variant,
		"strategies":  strategies,
		"failures":    failures,
		"edges":       edges,
		"duration_ms": float64(duration.Microseconds()) / 1000,
	}).Info("Aggregation pass completed")
}
