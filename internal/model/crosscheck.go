package model

import (
	"context"

	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/repository"
)

// CrossCheckResult compares the two data sources for one window
type CrossCheckResult struct {
	ContextEntries   int
	AggregateEntries int
	Agreement        float64
	Available        bool
	Disagrees        bool
}

// CrossCheck compares play-level red-zone entries with aggregated zone entries.
// It only ever adjusts confidence; the play-level outcome field is never read.
type CrossCheck struct {
	store     repository.StatsStore
	tolerance float64
}

// NewCrossCheck creates a cross-check with the given agreement tolerance
func NewCrossCheck(store repository.StatsStore, tolerance float64) *CrossCheck {
	return &CrossCheck{
		store:     store,
		tolerance: tolerance,
	}
}

// Agreement returns min/max of the two counts, 1 when both are zero
func Agreement(contextEntries, aggregateEntries int) float64 {
	lo, hi := contextEntries, aggregateEntries
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi <= 0 {
		return 1
	}
	if lo < 0 {
		lo = 0
	}
	return float64(lo) / float64(hi)
}

// Check counts context records in the estimate's window and compares them to aggregateEntries.
// With no play-level records for the window the check is unavailable and never downgrades.
func (c *CrossCheck) Check(ctx context.Context, entity string, period models.Period, lookback, aggregateEntries int) (CrossCheckResult, error) {
	from, to := period.Window(lookback)
	contextEntries, err := c.store.ContextZoneEntries(ctx, entity, period.Season, from, to)
	if err != nil {
		return CrossCheckResult{}, models.NewDataStoreError("context cross-check", err)
	}

	res := CrossCheckResult{
		ContextEntries:   contextEntries,
		AggregateEntries: aggregateEntries,
	}
	if contextEntries == 0 {
		return res, nil
	}

	res.Available = true
	res.Agreement = Agreement(contextEntries, aggregateEntries)
	res.Disagrees = res.Agreement < c.tolerance
	return res, nil
}
