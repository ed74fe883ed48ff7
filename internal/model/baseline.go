package model

import (
	"context"

	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/repository"
)

// BaselineModel estimates a scoring probability from season volume and opponent weakness only.
// It is the fallback floor for every other path and never needs the enhanced data to be trustworthy.
type BaselineModel struct {
	store repository.StatsStore
	cfg   config.EngineConfig
}

// opponentRatio is the opponent rate over the league rate, 1 when unknown
type baselineResult struct {
	probability   float64
	totals        models.WindowTotals
	defense       models.DefenseRate
	opponentRatio float64
}

// NewBaselineModel creates a baseline model
func NewBaselineModel(store repository.StatsStore, cfg config.EngineConfig) *BaselineModel {
	return &BaselineModel{
		store: store,
		cfg:   cfg,
	}
}

// Predict returns the baseline probability for the matchup, always in [floor, ceiling].
// An entity with no rows at all gets NeutralProbability.
func (b *BaselineModel) Predict(ctx context.Context, m models.Matchup) (float64, error) {
	res, err := b.evaluate(ctx, m)
	if err != nil {
		return 0, err
	}
	return res.probability, nil
}

func (b *BaselineModel) evaluate(ctx context.Context, m models.Matchup) (baselineResult, error) {
	totals, err := b.store.WindowTotals(ctx, m.Entity, m.Period.Season, models.MinWeek, m.Period.Week)
	if err != nil {
		return baselineResult{}, models.NewDataStoreError("baseline totals", err)
	}

	defense, err := b.store.OpponentDefense(ctx, m.Opponent, m.Period.Season, m.Period.Week)
	if err != nil {
		return baselineResult{}, models.NewDataStoreError("opponent defense", err)
	}

	res := baselineResult{
		totals:        totals,
		defense:       defense,
		opponentRatio: 1,
	}
	if defense.Found && b.cfg.LeagueDefenseRate > 0 {
		res.opponentRatio = defense.Rate / b.cfg.LeagueDefenseRate
	}

	if totals.Weeks == 0 {
		res.probability = b.cfg.NeutralProbability
		return res, nil
	}

	// scores per game as a Poisson mean
	lambda := float64(totals.Scores) / float64(totals.Weeks)
	entitySignal := AtLeast(1, lambda)
	opponentSignal := b.clampProbability(b.cfg.NeutralProbability * res.opponentRatio)

	p := b.cfg.EntityWeight*entitySignal + b.cfg.OpponentWeight*opponentSignal
	if m.Home {
		p *= 1 + b.cfg.HomeFieldBoost
	}
	res.probability = b.clampProbability(p)
	return res, nil
}

func (b *BaselineModel) clampProbability(p float64) float64 {
	return clamp(p, b.cfg.ProbabilityFloor, b.cfg.ProbabilityCeil)
}

// BaselinePredictor exposes the baseline model as a Predictor for the baseline rollout variant
type BaselinePredictor struct {
	model *BaselineModel
}

// NewBaselinePredictor creates a baseline predictor
func NewBaselinePredictor(model *BaselineModel) *BaselinePredictor {
	return &BaselinePredictor{model: model}
}

// Predict implements Predictor
func (p *BaselinePredictor) Predict(ctx context.Context, m models.Matchup) (models.Prediction, error) {
	prob, err := p.model.Predict(ctx, m)
	if err != nil {
		return models.Prediction{}, err
	}
	return models.Prediction{
		Probability: prob,
		Confidence:  models.ConfidenceLow,
		Meta: models.PredictionMeta{
			ModelUsed:       models.ModelBaseline,
			BaseProbability: prob,
		},
	}, nil
}
