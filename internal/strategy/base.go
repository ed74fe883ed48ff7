package strategy

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/model"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/odds"
)

// overProbability maps a model probability of at least one score to P(count > line)
type overProbability func(line, p float64) float64

// BaseStrategy provides the shared pricing path for prop strategies
type BaseStrategy struct {
	id     string
	name   string
	market models.Market
	over   overProbability
	logger *logrus.Entry
}

func newBaseStrategy(id, name string, market models.Market, over overProbability, log *logrus.Logger) BaseStrategy {
	return BaseStrategy{
		id:     id,
		name:   name,
		market: market,
		over:   over,
		logger: log.WithFields(logrus.Fields{"component": "strategy", "strategy_id": id}),
	}
}

// ID returns the strategy identifier
func (b *BaseStrategy) ID() string {
	return b.id
}

// Name returns the display name
func (b *BaseStrategy) Name() string {
	return b.name
}

// Market returns the prop market the strategy prices
func (b *BaseStrategy) Market() models.Market {
	return b.market
}

// Evaluate prices every line of the strategy's market for the period
func (b *BaseStrategy) Evaluate(ctx context.Context, strategyCtx Context) ([]models.Edge, error) {
	if strategyCtx.Props == nil || strategyCtx.Predictor == nil || strategyCtx.Sizer == nil {
		return nil, fmt.Errorf("strategy %s: incomplete context", b.id)
	}

	lines, err := strategyCtx.Props.PropLines(ctx, strategyCtx.Period.Season, strategyCtx.Period.Week, b.market)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s lines: %w", b.market, err)
	}

	edges := make([]models.Edge, 0, len(lines))
	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return edges, err
		}

		matchup := models.MatchupFromLine(line, strategyCtx.Period)
		pred, err := strategyCtx.Predictor.Predict(ctx, matchup)
		if err != nil {
			return edges, fmt.Errorf("prediction for %s failed: %w", matchup.Entity, err)
		}

		edge, err := b.Price(strategyCtx, line, matchup, pred)
		if errors.Is(err, models.ErrInvalidOdds) {
			b.logger.WithFields(logrus.Fields{
				"entity": matchup.Entity,
				"book":   line.Book,
			}).WithError(err).Warn("Skipping line with malformed odds")
			continue
		}
		if err != nil {
			return edges, err
		}
		edges = append(edges, edge)
	}

	return edges, nil
}

// Price turns one line and prediction into an edge on the better side
func (b *BaseStrategy) Price(strategyCtx Context, line models.PropLine, matchup models.Matchup, pred models.Prediction) (models.Edge, error) {
	overProb := b.NormalizeProbability(b.over(line.Line, pred.Probability))

	direction := models.DirectionOver
	quote, err := odds.Price(line.OverOdds, overProb)
	if err != nil {
		return models.Edge{}, err
	}

	if line.UnderOdds != nil {
		under, err := odds.Price(*line.UnderOdds, 1-overProb)
		if err != nil {
			return models.Edge{}, err
		}
		if under.EdgePct > quote.EdgePct {
			quote = under
			direction = models.DirectionUnder
		}
	}

	edge := models.Edge{
		Entity:             matchup.Entity,
		Team:               matchup.Team,
		Opponent:           matchup.Opponent,
		Market:             b.market,
		MarketLine:         line.Line,
		AmericanOdds:       quote.AmericanOdds,
		Recommendation:     models.Recommendation{Direction: direction, Threshold: line.Line},
		ImpliedProbability: quote.ImpliedProbability,
		TrueProbability:    quote.TrueProbability,
		EdgePct:            quote.EdgePct,
		Confidence:         pred.Confidence,
		ModelUsed:          pred.Meta.ModelUsed,
		StakeTier:          models.TierPass,
		StakeAmount:        "0.00",
		Meta:               pred.Meta,
	}

	if quote.TrueProbability > 0 && quote.TrueProbability < 1 {
		stake, err := strategyCtx.Sizer.RecommendStake(quote.EdgePct, quote.TrueProbability, strategyCtx.Bankroll)
		if err != nil {
			return models.Edge{}, err
		}
		edge.StakeFraction = stake.Fraction
		edge.StakeTier = stake.Tier
		edge.StakeAmount = stake.Amount.StringFixed(2)
	}

	return edge, nil
}

// NormalizeProbability ensures probability in [0,1]
func (b *BaseStrategy) NormalizeProbability(p float64) float64 {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0
	}
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// GetParameters returns the strategy parameters
func (b *BaseStrategy) GetParameters() map[string]interface{} {
	return map[string]interface{}{
		"market": string(b.market),
	}
}

// poissonOver prices P(count > line) from a probability of at least one score
func poissonOver(line, p float64) float64 {
	if line < 0 {
		return 1
	}
	threshold := int(math.Floor(line)) + 1
	if threshold == 1 {
		return p
	}
	return model.AtLeast(threshold, model.LambdaFromProbability(p))
}
