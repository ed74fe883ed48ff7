package strategy

import (
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// MultiTDStrategy prices player two-plus touchdown props.
// The scoring count is treated as Poisson with λ = -ln(1-p).
type MultiTDStrategy struct {
	BaseStrategy
}

// NewMultiTDStrategy creates the multi touchdown strategy
func NewMultiTDStrategy(log *logrus.Logger) *MultiTDStrategy {
	return &MultiTDStrategy{
		BaseStrategy: newBaseStrategy("multi_td", "Multiple Touchdowns", models.MarketMultiTD, poissonOver, log),
	}
}

// GetParameters returns the strategy parameters
func (s *MultiTDStrategy) GetParameters() map[string]interface{} {
	params := s.BaseStrategy.GetParameters()
	params["line"] = 1.5
	params["distribution"] = "poisson"
	return params
}
