package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/yourusername/gridiron-edge/internal/database"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// SQLiteStatsRepository implements StatsStore, PropSource and StatsWriter for SQLite
type SQLiteStatsRepository struct {
	db *database.SQLiteDB
}

// NewSQLiteStatsRepository creates a new SQLite stats repository
func NewSQLiteStatsRepository(db *database.SQLiteDB) *SQLiteStatsRepository {
	return &SQLiteStatsRepository{db: db}
}

// WindowTotals sums the entity's rows with fromWeek <= week <= toWeek
func (r *SQLiteStatsRepository) WindowTotals(ctx context.Context, entity string, season, fromWeek, toWeek int) (models.WindowTotals, error) {
	query := `
		SELECT COALESCE(SUM(scores), 0),
		       COALESCE(SUM(attempts + targets), 0),
		       COALESCE(SUM(zone_entries), 0),
		       COALESCE(SUM(zone_completions), 0),
		       COUNT(DISTINCT week)
		FROM stat_aggregates
		WHERE entity = ? AND season = ? AND week BETWEEN ? AND ?
	`

	var totals models.WindowTotals
	err := r.db.Conn().QueryRowContext(ctx, query, models.NormalizeName(entity), season, fromWeek, toWeek).Scan(
		&totals.Scores, &totals.Volume, &totals.ZoneEntries, &totals.ZoneScores, &totals.Weeks,
	)
	if err != nil {
		return models.WindowTotals{}, models.NewDataStoreError("window totals", err)
	}
	return totals, nil
}

// OpponentDefense computes scores allowed per zone entry allowed through a week
func (r *SQLiteStatsRepository) OpponentDefense(ctx context.Context, team string, season, throughWeek int) (models.DefenseRate, error) {
	query := `
		SELECT COALESCE(SUM(zone_entries_allowed), 0),
		       COALESCE(SUM(scores_allowed), 0),
		       COUNT(DISTINCT week)
		FROM defense_aggregates
		WHERE team = ? AND season = ? AND week <= ?
	`

	team = models.NormalizeTeam(team)
	var entries, scores, weeks int
	err := r.db.Conn().QueryRowContext(ctx, query, team, season, throughWeek).Scan(&entries, &scores, &weeks)
	if err != nil {
		return models.DefenseRate{}, models.NewDataStoreError("opponent defense", err)
	}
	return defenseRate(team, entries, scores, weeks), nil
}

// ContextZoneEntries counts red-zone context records in the window
func (r *SQLiteStatsRepository) ContextZoneEntries(ctx context.Context, entity string, season, fromWeek, toWeek int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM context_records
		WHERE entity = ? AND season = ? AND week BETWEEN ? AND ?
		  AND yardline_100 > 0 AND yardline_100 <= ?
	`

	var count int
	err := r.db.Conn().QueryRowContext(ctx, query,
		models.NormalizeName(entity), season, fromWeek, toWeek, models.RedZoneYardLine,
	).Scan(&count)
	if err != nil {
		return 0, models.NewDataStoreError("context zone entries", err)
	}
	return count, nil
}

// PropLines returns the lines for a market ordered by entity then book
func (r *SQLiteStatsRepository) PropLines(ctx context.Context, season, week int, market models.Market) ([]models.PropLine, error) {
	query := `
		SELECT entity, team, opponent, home, market, line, over_odds, under_odds, book
		FROM prop_lines
		WHERE season = ? AND week = ? AND market = ?
		ORDER BY entity, book
	`

	rows, err := r.db.Conn().QueryContext(ctx, query, season, week, string(market))
	if err != nil {
		return nil, models.NewDataStoreError("prop lines", err)
	}
	defer rows.Close()

	lines := make([]models.PropLine, 0)
	for rows.Next() {
		var (
			line  models.PropLine
			home  int
			under sql.NullInt64
			mkt   string
		)
		if err := rows.Scan(&line.Entity, &line.Team, &line.Opponent, &home, &mkt,
			&line.Line, &line.OverOdds, &under, &line.Book); err != nil {
			return nil, models.NewDataStoreError("prop lines", fmt.Errorf("failed to scan prop line: %w", err))
		}
		line.Home = home != 0
		line.Market = models.Market(mkt)
		if under.Valid {
			v := int(under.Int64)
			line.UnderOdds = &v
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, models.NewDataStoreError("prop lines", err)
	}
	return lines, nil
}

// UpsertAggregate replaces the row for the (entity, season, week) key
func (r *SQLiteStatsRepository) UpsertAggregate(ctx context.Context, agg *models.StatAggregate) error {
	query := `
		INSERT INTO stat_aggregates (entity, team, season, week, attempts, scores, zone_entries,
		                             zone_completions, targets, touches, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (entity, season, week) DO UPDATE SET
			team = excluded.team,
			attempts = excluded.attempts,
			scores = excluded.scores,
			zone_entries = excluded.zone_entries,
			zone_completions = excluded.zone_completions,
			targets = excluded.targets,
			touches = excluded.touches,
			imported_at = excluded.imported_at
	`

	importedAt := agg.ImportedAt
	if importedAt.IsZero() {
		importedAt = time.Now().UTC()
	}
	_, err := r.db.Conn().ExecContext(ctx, query,
		models.NormalizeName(agg.Entity), models.NormalizeTeam(agg.Team), agg.Season, agg.Week,
		agg.Attempts, agg.Scores, agg.ZoneEntries, agg.ZoneCompletions, agg.Targets, agg.Touches,
		importedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert stat aggregate: %w", err)
	}
	return nil
}

// UpsertDefense replaces the defense row for the (team, season, week) key
func (r *SQLiteStatsRepository) UpsertDefense(ctx context.Context, def *models.DefenseAggregate) error {
	query := `
		INSERT INTO defense_aggregates (team, season, week, zone_entries_allowed, scores_allowed)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (team, season, week) DO UPDATE SET
			zone_entries_allowed = excluded.zone_entries_allowed,
			scores_allowed = excluded.scores_allowed
	`

	_, err := r.db.Conn().ExecContext(ctx, query,
		models.NormalizeTeam(def.Team), def.Season, def.Week, def.ZoneEntriesAllowed, def.ScoresAllowed,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert defense aggregate: %w", err)
	}
	return nil
}

// AddContext appends a play-level record
func (r *SQLiteStatsRepository) AddContext(ctx context.Context, rec *models.ContextRecord) error {
	query := `
		INSERT INTO context_records (entity, team, season, week, yardline_100, down, distance, outcome)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Conn().ExecContext(ctx, query,
		models.NormalizeName(rec.Entity), models.NormalizeTeam(rec.Team), rec.Season, rec.Week,
		rec.YardLine, rec.Down, rec.Distance, rec.Outcome,
	)
	if err != nil {
		return fmt.Errorf("failed to insert context record: %w", err)
	}
	return nil
}

// UpsertPropLine replaces a line for the same entity, market and book
func (r *SQLiteStatsRepository) UpsertPropLine(ctx context.Context, season, week int, line *models.PropLine) error {
	query := `
		INSERT INTO prop_lines (entity, team, opponent, home, market, line, over_odds, under_odds, book, season, week)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (entity, market, season, week, book) DO UPDATE SET
			team = excluded.team,
			opponent = excluded.opponent,
			home = excluded.home,
			line = excluded.line,
			over_odds = excluded.over_odds,
			under_odds = excluded.under_odds
	`

	home := 0
	if line.Home {
		home = 1
	}
	var under interface{}
	if line.UnderOdds != nil {
		under = *line.UnderOdds
	}
	_, err := r.db.Conn().ExecContext(ctx, query,
		models.NormalizeName(line.Entity), models.NormalizeTeam(line.Team), models.NormalizeTeam(line.Opponent),
		home, string(line.Market), line.Line, line.OverOdds, under, line.Book, season, week,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert prop line: %w", err)
	}
	return nil
}
