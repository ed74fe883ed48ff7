// Package model implements the probability models and the data-quality gate between them.
package model

import (
	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// QualityGate decides whether a sample is large enough for the enhanced path
type QualityGate struct {
	minWeeks  int
	minVolume int
}

// NewQualityGate creates a gate from the engine sample thresholds
func NewQualityGate(cfg config.EngineConfig) QualityGate {
	return QualityGate{
		minWeeks:  cfg.MinSampleWeeks,
		minVolume: cfg.MinSampleVolume,
	}
}

// Sufficient reports whether weeks and volume both meet the thresholds.
// Monotone in both arguments.
func (g QualityGate) Sufficient(weeks, volume int) bool {
	return weeks >= g.minWeeks && volume >= g.minVolume
}

// Admit reports whether the estimate may feed the enhanced model
func (g QualityGate) Admit(est models.RateEstimate) bool {
	return est.Sufficient
}
