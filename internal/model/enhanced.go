package model

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/repository"
)

// Rate tiers
const (
	TierHigh    = "high"
	TierMedium  = "medium"
	TierNeutral = "neutral"
	TierLow     = "low"
)

// Opponent classes
const (
	OpponentWeak    = "weak"
	OpponentAverage = "average"
	OpponentStrong  = "strong"
	OpponentUnknown = "unknown"
)

// EnhancedModel adjusts the baseline with the windowed score rate and opponent strength
type EnhancedModel struct {
	baseline   *BaselineModel
	estimator  *RateEstimator
	gate       QualityGate
	crossCheck *CrossCheck
	cfg        config.EngineConfig
	budget     time.Duration
	logger     *logger.EdgeLogger
}

type enhanceOutcome struct {
	prediction models.Prediction
	err        error
}

// NewEnhancedModel creates an enhanced model over store
func NewEnhancedModel(store repository.StatsStore, cfg config.EngineConfig, log *logrus.Logger) *EnhancedModel {
	estimator := NewRateEstimator(store, cfg)
	return &EnhancedModel{
		baseline:   NewBaselineModel(store, cfg),
		estimator:  estimator,
		gate:       estimator.Gate(),
		crossCheck: NewCrossCheck(store, cfg.ContextTolerance),
		cfg:        cfg,
		budget:     cfg.EntityBudget(),
		logger:     logger.NewEdgeLogger(log),
	}
}

// Baseline returns the underlying baseline model
func (m *EnhancedModel) Baseline() *BaselineModel {
	return m.baseline
}

// Estimator returns the underlying rate estimator
func (m *EnhancedModel) Estimator() *RateEstimator {
	return m.estimator
}

// Predict returns the enhanced probability, or the baseline tagged enhanced_fallback when
// the sample is insufficient or the entity exceeds its time budget.
func (m *EnhancedModel) Predict(ctx context.Context, matchup models.Matchup) (models.Prediction, error) {
	start := time.Now()
	defer func() { m.observe(matchup.Entity, time.Since(start)) }()

	base, err := m.baseline.evaluate(ctx, matchup)
	if err != nil {
		return models.Prediction{}, err
	}

	budgetCtx, cancel := context.WithTimeout(ctx, m.budget)
	defer cancel()

	done := make(chan enhanceOutcome, 1)
	go func() {
		pred, err := m.enhance(budgetCtx, matchup, base)
		done <- enhanceOutcome{prediction: pred, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			if budgetCtx.Err() != nil && ctx.Err() == nil {
				return m.fallback(matchup, base, models.ReasonTimeout, nil), nil
			}
			return models.Prediction{}, out.err
		}
		return out.prediction, nil
	case <-budgetCtx.Done():
		if ctx.Err() != nil {
			return models.Prediction{}, ctx.Err()
		}
		return m.fallback(matchup, base, models.ReasonTimeout, nil), nil
	}
}

func (m *EnhancedModel) enhance(ctx context.Context, matchup models.Matchup, base baselineResult) (models.Prediction, error) {
	est, err := m.estimator.Estimate(ctx, matchup.Entity, matchup.Period)
	if err != nil {
		return models.Prediction{}, err
	}
	if !m.gate.Admit(est) {
		return m.fallback(matchup, base, models.ReasonInsufficientSample, &est), nil
	}

	tier, rateMultiplier := m.rateAdjustment(est.Rate)
	class, opponentMultiplier := m.opponentAdjustment(base.defense, base.opponentRatio)

	// each multiplier is clamped on its own, then the product is clamped again
	p := m.baseline.clampProbability(base.probability * rateMultiplier * opponentMultiplier)

	pred := models.Prediction{
		Probability: p,
		Confidence:  m.confidence(est),
		Meta: models.PredictionMeta{
			ModelUsed:          models.ModelEnhanced,
			BaseProbability:    base.probability,
			Rate:               models.Float64Ptr(est.Rate),
			Tier:               models.StringPtr(tier),
			OpponentAdjustment: models.Float64Ptr(opponentMultiplier),
			OpponentClass:      models.StringPtr(class),
			Estimate:           &est,
		},
	}

	check, err := m.crossCheck.Check(ctx, matchup.Entity, matchup.Period, m.cfg.LookbackWeeks, est.ZoneEntries)
	if err != nil {
		return models.Prediction{}, err
	}
	if check.Available {
		pred.Meta.ContextAgreement = models.Float64Ptr(check.Agreement)
		if check.Disagrees {
			pred.Confidence = pred.Confidence.Downgrade()
			m.logger.LogContextDisagreement(matchup.Entity, check.ContextEntries, check.AggregateEntries, check.Agreement)
		}
	}

	return pred, nil
}

func (m *EnhancedModel) fallback(matchup models.Matchup, base baselineResult, reason string, est *models.RateEstimate) models.Prediction {
	weeks, volume := 0, 0
	if est != nil {
		weeks, volume = est.SampleWeeks, est.SampleVolume
	}
	m.logger.LogFallback(matchup.Entity, reason, weeks, volume)
	metrics.RecordFallback(reason)

	return models.Prediction{
		Probability: base.probability,
		Confidence:  models.ConfidenceLow,
		Meta: models.PredictionMeta{
			ModelUsed:       models.ModelEnhancedFallback,
			Reason:          reason,
			BaseProbability: base.probability,
			Estimate:        est,
		},
	}
}

// rateAdjustment maps a score rate to its tier and clamped multiplier
func (m *EnhancedModel) rateAdjustment(rate float64) (string, float64) {
	switch {
	case rate > m.cfg.HighRateThreshold:
		return TierHigh, m.clampAdjustment(m.cfg.HighMultiplier)
	case rate >= m.cfg.MediumRateThreshold:
		return TierMedium, m.clampAdjustment(m.cfg.MediumMultiplier)
	case rate >= m.cfg.LowRateThreshold:
		return TierNeutral, m.clampAdjustment(m.cfg.NeutralMultiplier)
	default:
		return TierLow, m.clampAdjustment(m.cfg.LowMultiplier)
	}
}

// opponentAdjustment classifies the opponent defense against the league rate
func (m *EnhancedModel) opponentAdjustment(defense models.DefenseRate, ratio float64) (string, float64) {
	switch {
	case !defense.Found:
		return OpponentUnknown, 1.0
	case ratio >= m.cfg.WeakOpponentRatio:
		return OpponentWeak, m.clampAdjustment(m.cfg.WeakOpponentMultiplier)
	case ratio <= m.cfg.StrongOpponentRatio:
		return OpponentStrong, m.clampAdjustment(m.cfg.StrongOpponentMultiplier)
	default:
		return OpponentAverage, 1.0
	}
}

func (m *EnhancedModel) clampAdjustment(multiplier float64) float64 {
	return clamp(multiplier, m.cfg.MinAdjustment, m.cfg.MaxAdjustment)
}

func (m *EnhancedModel) confidence(est models.RateEstimate) models.Confidence {
	if est.SampleWeeks >= m.cfg.HighConfidenceWeeks && est.SampleVolume >= m.cfg.HighConfidenceVolume {
		return models.ConfidenceHigh
	}
	return models.ConfidenceMedium
}

func (m *EnhancedModel) observe(entity string, elapsed time.Duration) {
	overBudget := elapsed > m.budget
	metrics.RecordEntityPrediction(elapsed.Seconds(), overBudget)
	if overBudget {
		m.logger.LogSlowEntity(entity, elapsed, m.budget)
	}
}
