package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/repository"
)

const testSeason = 2024

func seedWeeks(t *testing.T, store *repository.MemoryStore, entity string, weeks []int, attempts, scores, zoneEntries int) {
	t.Helper()
	for _, week := range weeks {
		require.NoError(t, store.UpsertAggregate(context.Background(), &models.StatAggregate{
			Entity: entity, Team: "KC", Season: testSeason, Week: week,
			Attempts: attempts, Scores: scores, ZoneEntries: zoneEntries,
		}))
	}
}

// seedDefense gives team a per-week allowed rate of scores/entries
func seedDefense(t *testing.T, store *repository.MemoryStore, team string, weeks []int, entries, scores int) {
	t.Helper()
	for _, week := range weeks {
		require.NoError(t, store.UpsertDefense(context.Background(), &models.DefenseAggregate{
			Team: team, Season: testSeason, Week: week, ZoneEntriesAllowed: entries, ScoresAllowed: scores,
		}))
	}
}

func matchup(entity, opponent string, week int) models.Matchup {
	return models.Matchup{
		Entity:   models.NormalizeName(entity),
		Team:     "KC",
		Opponent: opponent,
		Period:   models.Period{Season: testSeason, Week: week},
	}
}

func newTestEnhanced(store repository.StatsStore, cfg config.EngineConfig) *EnhancedModel {
	return NewEnhancedModel(store, cfg, logger.NewDiscardLogger())
}

// failingStore fails every query with a driver error
type failingStore struct{}

var errConnRefused = errors.New("connection refused")

func (failingStore) WindowTotals(context.Context, string, int, int, int) (models.WindowTotals, error) {
	return models.WindowTotals{}, errConnRefused
}

func (failingStore) OpponentDefense(context.Context, string, int, int) (models.DefenseRate, error) {
	return models.DefenseRate{}, errConnRefused
}

func (failingStore) ContextZoneEntries(context.Context, string, int, int, int) (int, error) {
	return 0, errConnRefused
}

// slowWindowStore blocks rolling-window reads (fromWeek > 1) until the context ends
type slowWindowStore struct {
	*repository.MemoryStore
}

func (s slowWindowStore) WindowTotals(ctx context.Context, entity string, season, fromWeek, toWeek int) (models.WindowTotals, error) {
	if fromWeek > models.MinWeek {
		<-ctx.Done()
		return models.WindowTotals{}, ctx.Err()
	}
	return s.MemoryStore.WindowTotals(ctx, entity, season, fromWeek, toWeek)
}
