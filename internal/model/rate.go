package model

import (
	"context"

	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/repository"
)

// RateEstimator computes windowed score rates from aggregated stats
type RateEstimator struct {
	store    repository.StatsStore
	gate     QualityGate
	lookback int
}

// NewRateEstimator creates a rate estimator
func NewRateEstimator(store repository.StatsStore, cfg config.EngineConfig) *RateEstimator {
	return &RateEstimator{
		store:    store,
		gate:     NewQualityGate(cfg),
		lookback: cfg.LookbackWeeks,
	}
}

// Gate returns the gate used to mark estimates sufficient
func (e *RateEstimator) Gate() QualityGate {
	return e.gate
}

// Estimate sums scores and volume over [week-lookback, week].
// Missing data is not an error: it yields Sufficient=false and Rate=0.
func (e *RateEstimator) Estimate(ctx context.Context, entity string, period models.Period) (models.RateEstimate, error) {
	return e.EstimateWindow(ctx, entity, period, e.lookback)
}

// EstimateWindow is Estimate with an explicit lookback
func (e *RateEstimator) EstimateWindow(ctx context.Context, entity string, period models.Period, lookback int) (models.RateEstimate, error) {
	from, to := period.Window(lookback)
	totals, err := e.store.WindowTotals(ctx, entity, period.Season, from, to)
	if err != nil {
		return models.RateEstimate{}, models.NewDataStoreError("rate estimate", err)
	}

	est := models.RateEstimate{
		Entity:       models.NormalizeName(entity),
		SampleWeeks:  totals.Weeks,
		SampleVolume: totals.Volume,
		ZoneEntries:  totals.ZoneEntries,
		Sufficient:   e.gate.Sufficient(totals.Weeks, totals.Volume),
	}
	if est.Sufficient && totals.Volume > 0 {
		est.Rate = clamp(float64(totals.Scores)/float64(totals.Volume), 0, 1)
	}
	return est, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
