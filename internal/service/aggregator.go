// Package service provides the edge aggregation entry point.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/strategy"
)

// StrategyAggregator runs registered strategies in isolation and merges their edges
// into one ranked list.
type StrategyAggregator struct {
	registry *strategy.Registry
	parallel bool
	logger   *logger.EdgeLogger
}

// AggregateResult is the merged output of one pass
type AggregateResult struct {
	Results  []models.StrategyResult
	Failures []*models.StrategyError

	// first data store failure, if any; partial results are still returned
	DataErr error
}

type strategyOutcome struct {
	position int
	strategy strategy.Strategy
	edges    []models.Edge
	err      error
	duration time.Duration
}

// NewStrategyAggregator creates a new aggregator
func NewStrategyAggregator(registry *strategy.Registry, parallel bool, log *logrus.Logger) *StrategyAggregator {
	return &StrategyAggregator{
		registry: registry,
		parallel: parallel,
		logger:   logger.NewEdgeLogger(log),
	}
}

// Aggregate runs the selected strategies, filters by edge_pct >= minEdge and sorts by
// edge_pct descending with ties broken by registration order.
func (a *StrategyAggregator) Aggregate(ctx context.Context, runID string, strategyCtx strategy.Context, minEdge float64, filter string) (*AggregateResult, error) {
	selected, err := a.selected(filter)
	if err != nil {
		return nil, err
	}

	outcomes := make([]strategyOutcome, len(selected))
	if a.parallel {
		var wg sync.WaitGroup
		for i, sel := range selected {
			wg.Add(1)
			go func(i int, sel strategyOutcome) {
				defer wg.Done()
				outcomes[i] = a.run(ctx, sel, strategyCtx)
			}(i, sel)
		}
		wg.Wait()
	} else {
		for i, sel := range selected {
			outcomes[i] = a.run(ctx, sel, strategyCtx)
		}
	}

	result := &AggregateResult{Results: make([]models.StrategyResult, 0)}
	positions := make([]int, 0)
	for _, out := range outcomes {
		if out.err != nil {
			if errors.Is(out.err, models.ErrDataStoreUnavailable) {
				if result.DataErr == nil {
					result.DataErr = out.err
				}
			} else {
				failure := &models.StrategyError{StrategyID: out.strategy.ID(), Cause: out.err}
				result.Failures = append(result.Failures, failure)
				a.logger.LogStrategyFailure(runID, out.strategy.ID(), out.strategy.Name(), out.err)
				metrics.RecordStrategyFailure(out.strategy.ID())
				continue
			}
		}

		a.logger.LogStrategyCompleted(runID, out.strategy.ID(), len(out.edges), out.duration)
		for _, edge := range out.edges {
			if math.IsNaN(edge.EdgePct) || edge.EdgePct < minEdge {
				continue
			}
			result.Results = append(result.Results, models.NewStrategyResult(out.strategy.ID(), out.strategy.Name(), edge))
			positions = append(positions, out.position)
		}
	}

	rank(result.Results, positions)
	return result, nil
}

func (a *StrategyAggregator) selected(filter string) ([]strategyOutcome, error) {
	if filter != "" {
		s, pos, err := a.registry.Get(filter)
		if err != nil {
			return nil, err
		}
		return []strategyOutcome{{position: pos, strategy: s}}, nil
	}

	all := a.registry.All()
	selected := make([]strategyOutcome, len(all))
	for i, s := range all {
		selected[i] = strategyOutcome{position: i, strategy: s}
	}
	return selected, nil
}

// run evaluates one strategy, converting panics into errors
func (a *StrategyAggregator) run(ctx context.Context, out strategyOutcome, strategyCtx strategy.Context) (result strategyOutcome) {
	start := time.Now()
	result = out
	defer func() {
		if r := recover(); r != nil {
			result.edges = nil
			result.err = fmt.Errorf("panic: %v", r)
		}
		result.duration = time.Since(start)
	}()

	result.edges, result.err = out.strategy.Evaluate(ctx, strategyCtx)
	return result
}

// rank sorts results by edge descending, then registration position, then arrival order,
// and assigns 1-based ranks.
func rank(results []models.StrategyResult, positions []int) {
	order := make([]int, len(results))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if results[a].EdgePct != results[b].EdgePct {
			return results[a].EdgePct > results[b].EdgePct
		}
		return positions[a] < positions[b]
	})

	sorted := make([]models.StrategyResult, len(results))
	for i, idx := range order {
		sorted[i] = results[idx]
		sorted[i].Rank = i + 1
	}
	copy(results, sorted)
}
