// Package staking turns edges into capped fractional-Kelly stake recommendations.
package staking

import (
	"math"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/odds"
)

// Stake is a sizing recommendation for one edge
type Stake struct {
	Kelly    float64          `json:"kelly"`
	Fraction float64          `json:"fraction"`
	Tier     models.StakeTier `json:"tier"`
	Amount   decimal.Decimal  `json:"amount"`
}

// Sizer computes stakes from an immutable staking configuration
type Sizer struct {
	config config.StakingConfig
	logger *logrus.Logger
}

// NewSizer creates a new stake sizer
func NewSizer(cfg config.StakingConfig, logger *logrus.Logger) *Sizer {
	return &Sizer{
		config: cfg,
		logger: logger,
	}
}

// Tier classifies an edge percentage
func (s *Sizer) Tier(edgePct float64) models.StakeTier {
	switch {
	case edgePct > s.config.StrongEdgePct:
		return models.TierStrong
	case edgePct >= s.config.GoodEdgePct:
		return models.TierGood
	case edgePct >= s.config.SmallEdgePct:
		return models.TierSmall
	default:
		return models.TierPass
	}
}

// RecommendStake computes the fractional Kelly stake for an edge.
// The fraction never exceeds MaxFraction regardless of the raw Kelly output.
func (s *Sizer) RecommendStake(edgePct, trueProb, bankroll float64) (Stake, error) {
	tier := s.Tier(edgePct)
	stake := Stake{Tier: tier, Amount: decimal.Zero}
	if tier == models.TierPass {
		return stake, nil
	}

	decimalOdds, err := odds.DecimalFromEdge(edgePct, trueProb)
	if err != nil {
		return Stake{}, err
	}

	// Kelly Criterion: f = p - q/b, b = decimal odds - 1
	b := decimalOdds - 1.0
	if b <= 0 {
		return stake, nil
	}
	kelly := trueProb - (1.0-trueProb)/b
	stake.Kelly = kelly

	if kelly <= 0 {
		s.logger.WithFields(logrus.Fields{
			"edge_pct":   edgePct,
			"true_prob":  trueProb,
			"kelly":      kelly,
			"stake_tier": tier,
		}).Debug("Negative Kelly fraction, no stake recommended")
		return stake, nil
	}

	fraction := math.Min(kelly*s.config.KellyMultiplier, s.config.MaxFraction)
	stake.Fraction = fraction

	if bankroll > 0 {
		stake.Amount = decimal.NewFromFloat(bankroll).
			Mul(decimal.NewFromFloat(fraction)).
			Round(2)
	}

	s.logger.WithFields(logrus.Fields{
		"edge_pct":         edgePct,
		"decimal_odds":     decimalOdds,
		"kelly_fraction":   kelly,
		"fractional_kelly": fraction,
		"stake":            stake.Amount.StringFixed(2),
	}).Debug("Stake calculated")

	return stake, nil
}

// Bankroll returns the configured bankroll
func (s *Sizer) Bankroll() float64 {
	return s.config.Bankroll
}
