package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/database"
	"github.com/yourusername/gridiron-edge/internal/models"
)

type writableStore interface {
	StatsStore
	PropSource
	StatsWriter
}

func storesUnderTest(t *testing.T) map[string]writableStore {
	db, err := database.OpenSQLite(context.Background(), database.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return map[string]writableStore{
		"memory": NewMemoryStore(),
		"sqlite": NewSQLiteStatsRepository(db),
	}
}

func seed(t *testing.T, store StatsWriter) {
	ctx := context.Background()
	for week := 1; week <= 6; week++ {
		require.NoError(t, store.UpsertAggregate(ctx, &models.StatAggregate{
			Entity: "J. Doe Jr.", Team: "kc", Season: 2024, Week: week,
			Attempts: 10, Targets: 2, Scores: 1, ZoneEntries: 3, ZoneCompletions: 1,
		}))
	}
	// Re-import replaces week 6
	require.NoError(t, store.UpsertAggregate(ctx, &models.StatAggregate{
		Entity: "J Doe", Team: "KC", Season: 2024, Week: 6,
		Attempts: 20, Scores: 2, ZoneEntries: 4,
	}))

	for week := 1; week <= 4; week++ {
		require.NoError(t, store.UpsertDefense(ctx, &models.DefenseAggregate{
			Team: "LV", Season: 2024, Week: week, ZoneEntriesAllowed: 5, ScoresAllowed: 4,
		}))
	}

	records := []models.ContextRecord{
		{Entity: "J Doe", Season: 2024, Week: 5, YardLine: 12},
		{Entity: "J Doe", Season: 2024, Week: 5, YardLine: 20},
		{Entity: "J Doe", Season: 2024, Week: 5, YardLine: 21},
		{Entity: "J Doe", Season: 2024, Week: 6, YardLine: 3, Outcome: 1},
		{Entity: "J Doe", Season: 2024, Week: 1, YardLine: 8},
	}
	for i := range records {
		require.NoError(t, store.AddContext(ctx, &records[i]))
	}

	under := -140
	require.NoError(t, store.UpsertPropLine(ctx, 2024, 7, &models.PropLine{
		Entity: "Z Last", Team: "KC", Opponent: "LV", Market: models.MarketAnytimeTD, Line: 0.5, OverOdds: 250, Book: "dk",
	}))
	require.NoError(t, store.UpsertPropLine(ctx, 2024, 7, &models.PropLine{
		Entity: "J Doe", Team: "KC", Opponent: "LV", Home: true, Market: models.MarketAnytimeTD, Line: 0.5,
		OverOdds: 120, UnderOdds: &under, Book: "dk",
	}))
}

func TestStoreContract(t *testing.T) {
	ctx := context.Background()

	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			seed(t, store)

			totals, err := store.WindowTotals(ctx, "j doe", 2024, 3, 6)
			require.NoError(t, err)
			assert.Equal(t, 4, totals.Weeks)
			assert.Equal(t, 5, totals.Scores)
			assert.Equal(t, 3*12+20, totals.Volume)
			assert.Equal(t, 13, totals.ZoneEntries)
			assert.Equal(t, 3, totals.ZoneScores)

			unknown, err := store.WindowTotals(ctx, "nobody", 2024, 1, 18)
			require.NoError(t, err)
			assert.Equal(t, models.WindowTotals{}, unknown)

			def, err := store.OpponentDefense(ctx, "lv", 2024, 3)
			require.NoError(t, err)
			assert.True(t, def.Found)
			assert.Equal(t, 3, def.Weeks)
			assert.InDelta(t, 0.8, def.Rate, 1e-12)

			missing, err := store.OpponentDefense(ctx, "XYZ", 2024, 6)
			require.NoError(t, err)
			assert.False(t, missing.Found)

			entries, err := store.ContextZoneEntries(ctx, "J. Doe", 2024, 5, 6)
			require.NoError(t, err)
			assert.Equal(t, 3, entries)

			lines, err := store.PropLines(ctx, 2024, 7, models.MarketAnytimeTD)
			require.NoError(t, err)
			require.Len(t, lines, 2)
			assert.Equal(t, "j doe", lines[0].Entity)
			assert.True(t, lines[0].Home)
			require.NotNil(t, lines[0].UnderOdds)
			assert.Equal(t, -140, *lines[0].UnderOdds)
			assert.Nil(t, lines[1].UnderOdds)

			empty, err := store.PropLines(ctx, 2024, 8, models.MarketAnytimeTD)
			require.NoError(t, err)
			assert.Empty(t, empty)
		})
	}
}

func TestNewRepositoriesSQLite(t *testing.T) {
	cfg := config.Default().Database
	cfg.SQLitePath = database.MemoryPath

	repos, err := NewRepositories(context.Background(), &cfg)
	require.NoError(t, err)
	defer repos.Close()

	require.NoError(t, repos.Ping(context.Background()))
	totals, err := repos.Stats.WindowTotals(context.Background(), "anyone", 2024, 1, 4)
	require.NoError(t, err)
	assert.Zero(t, totals.Weeks)
}

func TestNewRepositoriesUnknownDriver(t *testing.T) {
	cfg := config.Default().Database
	cfg.Driver = "oracle"

	_, err := NewRepositories(context.Background(), &cfg)
	assert.Error(t, err)
}
