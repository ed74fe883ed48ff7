// Package odds converts sportsbook prices into probabilities and edges.
package odds

import (
	"fmt"
	"math"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// ImpliedProbability converts American odds to the book's implied probability.
// -110 -> 0.5238, +150 -> 0.40. Odds of exactly 0 are malformed and rejected.
func ImpliedProbability(american int) (float64, error) {
	if american == 0 {
		return 0, fmt.Errorf("%w: cannot be 0", models.ErrInvalidOdds)
	}

	if american < 0 {
		abs := float64(-american)
		return abs / (abs + 100.0), nil
	}

	return 100.0 / (float64(american) + 100.0), nil
}

// AmericanToDecimal converts American odds to decimal odds
// American +150 -> Decimal 2.50
// American -150 -> Decimal 1.67
func AmericanToDecimal(american int) (float64, error) {
	if american == 0 {
		return 0, fmt.Errorf("%w: cannot be 0", models.ErrInvalidOdds)
	}

	if american > 0 {
		return (float64(american) / 100.0) + 1.0, nil
	}

	return (100.0 / float64(-american)) + 1.0, nil
}

// EdgePct returns (true - implied) / implied as a percentage.
func EdgePct(trueProb, impliedProb float64) (float64, error) {
	if impliedProb <= 0 || impliedProb >= 1 || math.IsNaN(impliedProb) {
		return 0, models.NewInvalidInput("implied_probability", "must be in (0,1), got %v", impliedProb)
	}
	if math.IsNaN(trueProb) || math.IsInf(trueProb, 0) {
		return 0, models.NewInvalidInput("true_probability", "must be finite, got %v", trueProb)
	}

	return (trueProb - impliedProb) / impliedProb * 100.0, nil
}

// DecimalFromEdge recovers the decimal price implied by an edge on a probability.
// implied = p / (1 + edge/100), decimal = 1 / implied.
func DecimalFromEdge(edgePct, trueProb float64) (float64, error) {
	if trueProb <= 0 || trueProb >= 1 {
		return 0, models.NewInvalidInput("true_probability", "must be in (0,1), got %v", trueProb)
	}
	factor := 1.0 + edgePct/100.0
	if factor <= 0 {
		return 0, models.NewInvalidInput("edge_pct", "must be greater than -100, got %v", edgePct)
	}

	implied := trueProb / factor
	if implied <= 0 || implied >= 1 {
		return 0, models.NewInvalidInput("edge_pct", "implies a probability outside (0,1): %v", implied)
	}
	return 1.0 / implied, nil
}

// Quote is a priced side of a market.
type Quote struct {
	AmericanOdds       int
	ImpliedProbability float64
	TrueProbability    float64
	EdgePct            float64
}

// Price converts odds and a model probability into a quote.
func Price(american int, trueProb float64) (Quote, error) {
	implied, err := ImpliedProbability(american)
	if err != nil {
		return Quote{}, err
	}
	edge, err := EdgePct(trueProb, implied)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		AmericanOdds:       american,
		ImpliedProbability: implied,
		TrueProbability:    trueProb,
		EdgePct:            edge,
	}, nil
}
