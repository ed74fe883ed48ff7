package strategy

import (
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// TeamTDTotalStrategy prices team touchdown totals with the team as the entity
type TeamTDTotalStrategy struct {
	BaseStrategy
}

// NewTeamTDTotalStrategy creates the team touchdown total strategy
func NewTeamTDTotalStrategy(log *logrus.Logger) *TeamTDTotalStrategy {
	return &TeamTDTotalStrategy{
		BaseStrategy: newBaseStrategy("team_td_total", "Team Touchdown Total", models.MarketTeamTDTotal, poissonOver, log),
	}
}

// GetParameters returns the strategy parameters
func (s *TeamTDTotalStrategy) GetParameters() map[string]interface{} {
	params := s.BaseStrategy.GetParameters()
	params["distribution"] = "poisson"
	return params
}
