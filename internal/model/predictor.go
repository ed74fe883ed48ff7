package model

import (
	"context"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// Predictor produces a labeled probability for one matchup
type Predictor interface {
	Predict(ctx context.Context, m models.Matchup) (models.Prediction, error)
}

var (
	_ Predictor = (*EnhancedModel)(nil)
	_ Predictor = (*BaselinePredictor)(nil)
)
