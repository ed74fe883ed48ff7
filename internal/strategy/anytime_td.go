package strategy

import (
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// AnytimeTDStrategy prices player anytime touchdown props.
// The over side of the 0.5 line is the model probability itself.
type AnytimeTDStrategy struct {
	BaseStrategy
}

// NewAnytimeTDStrategy creates the anytime touchdown strategy
func NewAnytimeTDStrategy(log *logrus.Logger) *AnytimeTDStrategy {
	return &AnytimeTDStrategy{
		BaseStrategy: newBaseStrategy("anytime_td", "Anytime Touchdown", models.MarketAnytimeTD, poissonOver, log),
	}
}

// GetParameters returns the strategy parameters
func (s *AnytimeTDStrategy) GetParameters() map[string]interface{} {
	params := s.BaseStrategy.GetParameters()
	params["line"] = 0.5
	params["distribution"] = "bernoulli"
	return params
}
