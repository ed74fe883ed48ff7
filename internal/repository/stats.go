package repository

import (
	"context"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// StatsStore defines the read-only queries the engine runs against aggregated stats.
// Unknown entities and teams yield zero values, never an error.
type StatsStore interface {
	WindowTotals(ctx context.Context, entity string, season, fromWeek, toWeek int) (models.WindowTotals, error)
	OpponentDefense(ctx context.Context, team string, season, throughWeek int) (models.DefenseRate, error)
	ContextZoneEntries(ctx context.Context, entity string, season, fromWeek, toWeek int) (int, error)
}

// PropSource provides sportsbook lines for a period
type PropSource interface {
	PropLines(ctx context.Context, season, week int, market models.Market) ([]models.PropLine, error)
}

// StatsWriter loads imported rows. Used by seeding tools and tests; the engine never writes.
type StatsWriter interface {
	UpsertAggregate(ctx context.Context, agg *models.StatAggregate) error
	UpsertDefense(ctx context.Context, def *models.DefenseAggregate) error
	AddContext(ctx context.Context, rec *models.ContextRecord) error
	UpsertPropLine(ctx context.Context, season, week int, line *models.PropLine) error
}

func defenseRate(team string, entries, scores, weeks int) models.DefenseRate {
	rate := models.DefenseRate{Team: team, Weeks: weeks}
	if weeks == 0 || entries == 0 {
		return rate
	}
	rate.Rate = float64(scores) / float64(entries)
	rate.Found = true
	return rate
}
