package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/gridiron-edge/internal/database"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// PostgresStatsRepository implements StatsStore and PropSource for PostgreSQL
type PostgresStatsRepository struct {
	db *database.DB
}

// NewPostgresStatsRepository creates a new stats repository
func NewPostgresStatsRepository(db *database.DB) *PostgresStatsRepository {
	return &PostgresStatsRepository{db: db}
}

// WindowTotals sums the entity's rows with fromWeek <= week <= toWeek
func (r *PostgresStatsRepository) WindowTotals(ctx context.Context, entity string, season, fromWeek, toWeek int) (models.WindowTotals, error) {
	query := `
		SELECT COALESCE(SUM(scores), 0)::int,
		       COALESCE(SUM(attempts + targets), 0)::int,
		       COALESCE(SUM(zone_entries), 0)::int,
		       COALESCE(SUM(zone_completions), 0)::int,
		       COUNT(DISTINCT week)::int
		FROM stat_aggregates
		WHERE entity = $1 AND season = $2 AND week BETWEEN $3 AND $4
	`

	var totals models.WindowTotals
	err := r.db.GetPool().QueryRow(ctx, query, models.NormalizeName(entity), season, fromWeek, toWeek).Scan(
		&totals.Scores, &totals.Volume, &totals.ZoneEntries, &totals.ZoneScores, &totals.Weeks,
	)
	if err != nil {
		return models.WindowTotals{}, models.NewDataStoreError("window totals", err)
	}
	return totals, nil
}

// OpponentDefense computes scores allowed per zone entry allowed through a week
func (r *PostgresStatsRepository) OpponentDefense(ctx context.Context, team string, season, throughWeek int) (models.DefenseRate, error) {
	query := `
		SELECT COALESCE(SUM(zone_entries_allowed), 0)::int,
		       COALESCE(SUM(scores_allowed), 0)::int,
		       COUNT(DISTINCT week)::int
		FROM defense_aggregates
		WHERE team = $1 AND season = $2 AND week <= $3
	`

	team = models.NormalizeTeam(team)
	var entries, scores, weeks int
	err := r.db.GetPool().QueryRow(ctx, query, team, season, throughWeek).Scan(&entries, &scores, &weeks)
	if err != nil {
		return models.DefenseRate{}, models.NewDataStoreError("opponent defense", err)
	}
	return defenseRate(team, entries, scores, weeks), nil
}

// ContextZoneEntries counts red-zone context records in the window
func (r *PostgresStatsRepository) ContextZoneEntries(ctx context.Context, entity string, season, fromWeek, toWeek int) (int, error) {
	query := `
		SELECT COUNT(*)::int
		FROM context_records
		WHERE entity = $1 AND season = $2 AND week BETWEEN $3 AND $4
		  AND yardline_100 > 0 AND yardline_100 <= $5
	`

	var count int
	err := r.db.GetPool().QueryRow(ctx, query,
		models.NormalizeName(entity), season, fromWeek, toWeek, models.RedZoneYardLine,
	).Scan(&count)
	if err != nil {
		return 0, models.NewDataStoreError("context zone entries", err)
	}
	return count, nil
}

// PropLines returns the lines for a market ordered by entity then book
func (r *PostgresStatsRepository) PropLines(ctx context.Context, season, week int, market models.Market) ([]models.PropLine, error) {
	query := `
		SELECT entity, team, opponent, home, market, line, over_odds, under_odds, book
		FROM prop_lines
		WHERE season = $1 AND week = $2 AND market = $3
		ORDER BY entity, book
	`

	rows, err := r.db.GetPool().Query(ctx, query, season, week, string(market))
	if err != nil {
		return nil, models.NewDataStoreError("prop lines", err)
	}
	defer rows.Close()

	lines := make([]models.PropLine, 0)
	for rows.Next() {
		var (
			line models.PropLine
			mkt  string
		)
		if err := rows.Scan(&line.Entity, &line.Team, &line.Opponent, &line.Home, &mkt,
			&line.Line, &line.OverOdds, &line.UnderOdds, &line.Book); err != nil {
			return nil, models.NewDataStoreError("prop lines", fmt.Errorf("failed to scan prop line: %w", err))
		}
		line.Market = models.Market(mkt)
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, models.NewDataStoreError("prop lines", err)
	}
	return lines, nil
}
