package models

// RateEstimate is the windowed score rate for one entity
type RateEstimate struct {
	Entity       string  `json:"entity"`
	Rate         float64 `json:"rate"`
	SampleWeeks  int     `json:"sample_weeks"`
	SampleVolume int     `json:"sample_volume"`
	ZoneEntries  int     `json:"zone_entries"`
	Sufficient   bool    `json:"sufficient"`
}

// ModelUsed tags which path produced a probability
type ModelUsed string

// Model paths
const (
	ModelBaseline         ModelUsed = "baseline"
	ModelEnhanced         ModelUsed = "enhanced"
	ModelEnhancedFallback ModelUsed = "enhanced_fallback"
)

// IsFallback reports whether the enhanced path degraded to the baseline
func (m ModelUsed) IsFallback() bool {
	return m == ModelEnhancedFallback
}

// Confidence levels attached to edges
type Confidence string

// Confidence values
const (
	ConfidenceLow    Confidence = "LOW"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceHigh   Confidence = "HIGH"
)

// Downgrade lowers the confidence by one level
func (c Confidence) Downgrade() Confidence {
	switch c {
	case ConfidenceHigh:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Direction is the side of a prop line
type Direction string

// Directions
const (
	DirectionOver  Direction = "OVER"
	DirectionUnder Direction = "UNDER"
)

// StakeTier classifies an edge for sizing
type StakeTier string

// Stake tiers
const (
	TierPass   StakeTier = "PASS"
	TierSmall  StakeTier = "SMALL"
	TierGood   StakeTier = "GOOD"
	TierStrong StakeTier = "STRONG"
)

// Fallback reasons
const (
	ReasonInsufficientSample = "insufficient_sample"
	ReasonTimeout            = "timeout"
)

// PredictionMeta describes how a probability was produced
type PredictionMeta struct {
	ModelUsed          ModelUsed     `json:"model_used"`
	Reason             string        `json:"reason,omitempty"`
	BaseProbability    float64       `json:"base_probability"`
	Rate               *float64      `json:"rate"`
	Tier               *string       `json:"tier"`
	OpponentAdjustment *float64      `json:"opponent_adjustment"`
	OpponentClass      *string       `json:"opponent_class"`
	ContextAgreement   *float64      `json:"context_agreement"`
	Estimate           *RateEstimate `json:"estimate,omitempty"`
}

// Prediction is a probability plus its provenance
type Prediction struct {
	Probability float64        `json:"probability"`
	Confidence  Confidence     `json:"confidence"`
	Meta        PredictionMeta `json:"meta"`
}

// Recommendation is the side and threshold to bet
type Recommendation struct {
	Direction Direction `json:"direction"`
	Threshold float64   `json:"threshold"`
}

// Edge is an ephemeral value-bet estimate
type Edge struct {
	Entity             string         `json:"entity"`
	Team               string         `json:"team"`
	Opponent           string         `json:"opponent"`
	Market             Market         `json:"market"`
	MarketLine         float64        `json:"market_line"`
	AmericanOdds       int            `json:"american_odds"`
	Recommendation     Recommendation `json:"recommendation"`
	ImpliedProbability float64        `json:"implied_probability"`
	TrueProbability    float64        `json:"true_probability"`
	EdgePct            float64        `json:"edge_pct"`
	Confidence         Confidence     `json:"confidence"`
	ModelUsed          ModelUsed      `json:"model_used"`
	StakeFraction      float64        `json:"stake_fraction"`
	StakeTier          StakeTier      `json:"stake_tier"`
	StakeAmount        string         `json:"stake_amount"`
	Meta               PredictionMeta `json:"-"`
}

// StrategyResult is the uniform envelope the aggregator ranks.
// Optional fields are pointers without omitempty so they serialize as null, never absent.
type StrategyResult struct {
	Rank               int            `json:"rank"`
	StrategyID         string         `json:"strategy_id"`
	StrategyName       string         `json:"strategy_name"`
	Entity             string         `json:"entity"`
	Team               string         `json:"team"`
	Opponent           string         `json:"opponent"`
	Market             Market         `json:"market"`
	MarketLine         float64        `json:"market_line"`
	AmericanOdds       int            `json:"american_odds"`
	Recommendation     Recommendation `json:"recommendation"`
	ImpliedProbability float64        `json:"implied_probability"`
	TrueProbability    float64        `json:"true_probability"`
	BaseProbability    float64        `json:"base_probability"`
	EdgePct            float64        `json:"edge_pct"`
	Confidence         Confidence     `json:"confidence"`
	ModelUsed          ModelUsed      `json:"model_used"`
	StakeFraction      float64        `json:"stake_fraction"`
	StakeTier          StakeTier      `json:"stake_tier"`
	StakeAmount        string         `json:"stake_amount"`
	Rate               *float64       `json:"rate"`
	RateTier           *string        `json:"rate_tier"`
	OpponentAdjustment *float64       `json:"opponent_adjustment"`
	OpponentClass      *string        `json:"opponent_class"`
	ContextAgreement   *float64       `json:"context_agreement"`
	FallbackReason     *string        `json:"fallback_reason"`
}

// NewStrategyResult wraps an edge in the uniform envelope
func NewStrategyResult(strategyID, strategyName string, edge Edge) StrategyResult {
	result := StrategyResult{
		StrategyID:         strategyID,
		StrategyName:       strategyName,
		Entity:             edge.Entity,
		Team:               edge.Team,
		Opponent:           edge.Opponent,
		Market:             edge.Market,
		MarketLine:         edge.MarketLine,
		AmericanOdds:       edge.AmericanOdds,
		Recommendation:     edge.Recommendation,
		ImpliedProbability: edge.ImpliedProbability,
		TrueProbability:    edge.TrueProbability,
		BaseProbability:    edge.Meta.BaseProbability,
		EdgePct:            edge.EdgePct,
		Confidence:         edge.Confidence,
		ModelUsed:          edge.ModelUsed,
		StakeFraction:      edge.StakeFraction,
		StakeTier:          edge.StakeTier,
		StakeAmount:        edge.StakeAmount,
		Rate:               edge.Meta.Rate,
		RateTier:           edge.Meta.Tier,
		OpponentAdjustment: edge.Meta.OpponentAdjustment,
		OpponentClass:      edge.Meta.OpponentClass,
		ContextAgreement:   edge.Meta.ContextAgreement,
	}
	if edge.Meta.Reason != "" {
		reason := edge.Meta.Reason
		result.FallbackReason = &reason
	}
	return result
}

// Float64Ptr returns a pointer to v
func Float64Ptr(v float64) *float64 {
	return &v
}

// StringPtr returns a pointer to v
func StringPtr(v string) *string {
	return &v
}
