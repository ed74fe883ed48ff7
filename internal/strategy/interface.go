package strategy

import (
	"context"

	"github.com/yourusername/gridiron-edge/internal/model"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/repository"
	"github.com/yourusername/gridiron-edge/internal/staking"
)

// Strategy produces priced edges for one prop market
type Strategy interface {
	ID() string
	Name() string
	Market() models.Market
	Evaluate(ctx context.Context, strategyCtx Context) ([]models.Edge, error)
	GetParameters() map[string]interface{}
}

// Context carries everything a strategy needs for one period.
// Every field is read-only for the duration of a pass.
type Context struct {
	Period    models.Period
	Props     repository.PropSource
	Predictor model.Predictor
	Sizer     *staking.Sizer
	Bankroll  float64
}

// StrategyMetadata describes a strategy for listing endpoints
type StrategyMetadata struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"name"`
	Market     models.Market          `json:"market"`
	Parameters map[string]interface{} `json:"parameters"`
}

// Describe returns the metadata for s
func Describe(s Strategy) StrategyMetadata {
	return StrategyMetadata{
		ID:         s.ID(),
		Name:       s.Name(),
		Market:     s.Market(),
		Parameters: s.GetParameters(),
	}
}
