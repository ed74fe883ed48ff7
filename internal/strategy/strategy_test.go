package strategy

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/repository"
	"github.com/yourusername/gridiron-edge/internal/staking"
)

type fixedPredictor struct {
	probability float64
	err         error
}

func (f fixedPredictor) Predict(_ context.Context, _ models.Matchup) (models.Prediction, error) {
	if f.err != nil {
		return models.Prediction{}, f.err
	}
	return models.Prediction{
		Probability: f.probability,
		Confidence:  models.ConfidenceMedium,
		Meta: models.PredictionMeta{
			ModelUsed:       models.ModelEnhanced,
			BaseProbability: f.probability,
			Rate:            models.Float64Ptr(0.2),
		},
	}, nil
}

var testPeriod = models.Period{Season: 2024, Week: 7}

func newContext(t *testing.T, predictor fixedPredictor, lines ...models.PropLine) Context {
	store := repository.NewMemoryStore()
	for i := range lines {
		require.NoError(t, store.UpsertPropLine(context.Background(), testPeriod.Season, testPeriod.Week, &lines[i]))
	}
	return Context{
		Period:    testPeriod,
		Props:     store,
		Predictor: predictor,
		Sizer:     staking.NewSizer(config.DefaultStaking(), logger.NewDiscardLogger()),
		Bankroll:  1000,
	}
}

func intPtr(v int) *int {
	return &v
}

func TestAnytimeTDOverEdge(t *testing.T) {
	s := NewAnytimeTDStrategy(logger.NewDiscardLogger())
	sctx := newContext(t, fixedPredictor{probability: 0.5}, models.PropLine{
		Entity: "J. Doe", Team: "kc", Opponent: "lv", Market: models.MarketAnytimeTD, Line: 0.5, OverOdds: 150, Book: "dk",
	})

	edges, err := s.Evaluate(context.Background(), sctx)
	require.NoError(t, err)
	require.Len(t, edges, 1)

	edge := edges[0]
	assert.Equal(t, "j doe", edge.Entity)
	assert.Equal(t, "KC", edge.Team)
	assert.Equal(t, "LV", edge.Opponent)
	assert.Equal(t, models.DirectionOver, edge.Recommendation.Direction)
	assert.Equal(t, 0.5, edge.Recommendation.Threshold)
	assert.InDelta(t, 0.4, edge.ImpliedProbability, 1e-12)
	assert.InDelta(t, 25.0, edge.EdgePct, 1e-9)
	assert.Equal(t, models.TierStrong, edge.StakeTier)
	assert.InDelta(t, 0.05, edge.StakeFraction, 1e-12)
	assert.Equal(t, "50.00", edge.StakeAmount)
	assert.Equal(t, models.ModelEnhanced, edge.ModelUsed)
	assert.Equal(t, models.ConfidenceMedium, edge.Confidence)
}

func TestAnytimeTDPicksUnderWhenBetter(t *testing.T) {
	s := NewAnytimeTDStrategy(logger.NewDiscardLogger())
	sctx := newContext(t, fixedPredictor{probability: 0.2}, models.PropLine{
		Entity: "J Doe", Market: models.MarketAnytimeTD, Line: 0.5, OverOdds: 150, UnderOdds: intPtr(-300),
	})

	edges, err := s.Evaluate(context.Background(), sctx)
	require.NoError(t, err)
	require.Len(t, edges, 1)

	assert.Equal(t, models.DirectionUnder, edges[0].Recommendation.Direction)
	assert.Equal(t, -300, edges[0].AmericanOdds)
	assert.InDelta(t, 0.8, edges[0].TrueProbability, 1e-12)
	assert.InDelta(t, 20.0/3.0, edges[0].EdgePct, 1e-9)
	assert.Equal(t, models.TierSmall, edges[0].StakeTier)
}

func TestMultiTDUsesPoissonTail(t *testing.T) {
	s := NewMultiTDStrategy(logger.NewDiscardLogger())
	sctx := newContext(t, fixedPredictor{probability: 0.5}, models.PropLine{
		Entity: "J Doe", Market: models.MarketMultiTD, Line: 1.5, OverOdds: 500,
	})

	edges, err := s.Evaluate(context.Background(), sctx)
	require.NoError(t, err)
	require.Len(t, edges, 1)

	lambda := math.Ln2
	expected := 1 - math.Exp(-lambda)*(1+lambda)
	assert.InDelta(t, expected, edges[0].TrueProbability, 1e-9)
	assert.Equal(t, models.MarketMultiTD, edges[0].Market)
}

func TestTeamTDTotal(t *testing.T) {
	s := NewTeamTDTotalStrategy(logger.NewDiscardLogger())
	sctx := newContext(t, fixedPredictor{probability: 0.9}, models.PropLine{
		Entity: "KC", Team: "KC", Opponent: "LV", Market: models.MarketTeamTDTotal, Line: 2.5,
		OverOdds: 110, UnderOdds: intPtr(-130),
	})

	edges, err := s.Evaluate(context.Background(), sctx)
	require.NoError(t, err)
	require.Len(t, edges, 1)

	lambda := -math.Log(0.1)
	under := math.Exp(-lambda) * (1 + lambda + lambda*lambda/2)
	edge := edges[0]
	if edge.Recommendation.Direction == models.DirectionOver {
		assert.InDelta(t, 1-under, edge.TrueProbability, 1e-9)
	} else {
		assert.InDelta(t, under, edge.TrueProbability, 1e-9)
	}
	assert.Equal(t, 2.5, edge.MarketLine)
}

func TestEvaluateSkipsMalformedOdds(t *testing.T) {
	s := NewAnytimeTDStrategy(logger.NewDiscardLogger())
	sctx := newContext(t, fixedPredictor{probability: 0.5},
		models.PropLine{Entity: "A Player", Market: models.MarketAnytimeTD, Line: 0.5, OverOdds: 0},
		models.PropLine{Entity: "B Player", Market: models.MarketAnytimeTD, Line: 0.5, OverOdds: 120},
	)

	edges, err := s.Evaluate(context.Background(), sctx)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "b player", edges[0].Entity)
}

func TestEvaluatePropagatesDataStoreErrors(t *testing.T) {
	storeErr := models.NewDataStoreError("window totals", errors.New("disk I/O error"))
	s := NewAnytimeTDStrategy(logger.NewDiscardLogger())
	sctx := newContext(t, fixedPredictor{err: storeErr}, models.PropLine{
		Entity: "J Doe", Market: models.MarketAnytimeTD, Line: 0.5, OverOdds: 150,
	})

	_, err := s.Evaluate(context.Background(), sctx)
	assert.ErrorIs(t, err, models.ErrDataStoreUnavailable)
}

func TestEvaluateNoLines(t *testing.T) {
	s := NewMultiTDStrategy(logger.NewDiscardLogger())
	edges, err := s.Evaluate(context.Background(), newContext(t, fixedPredictor{probability: 0.4}))
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestRegistry(t *testing.T) {
	log := logger.NewDiscardLogger()
	registry := DefaultRegistry(log)

	assert.Equal(t, []string{"anytime_td", "multi_td", "team_td_total"}, registry.IDs())
	assert.Equal(t, 3, registry.Len())

	s, pos, err := registry.Get("multi_td")
	require.NoError(t, err)
	assert.Equal(t, 1, pos)
	assert.Equal(t, models.MarketMultiTD, s.Market())

	_, _, err = registry.Get("parlay")
	assert.ErrorIs(t, err, models.ErrUnknownStrategy)

	err = registry.Register(NewMultiTDStrategy(log))
	assert.Error(t, err)

	meta := Describe(s)
	assert.Equal(t, "poisson", meta.Parameters["distribution"])
}
