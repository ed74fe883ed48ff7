package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gridiron-edge/internal/models"
)

type mockStatsStore struct {
	mock.Mock
}

func (m *mockStatsStore) WindowTotals(ctx context.Context, entity string, season, fromWeek, toWeek int) (models.WindowTotals, error) {
	args := m.Called(ctx, entity, season, fromWeek, toWeek)
	return args.Get(0).(models.WindowTotals), args.Error(1)
}

func (m *mockStatsStore) OpponentDefense(ctx context.Context, team string, season, throughWeek int) (models.DefenseRate, error) {
	args := m.Called(ctx, team, season, throughWeek)
	return args.Get(0).(models.DefenseRate), args.Error(1)
}

func (m *mockStatsStore) ContextZoneEntries(ctx context.Context, entity string, season, fromWeek, toWeek int) (int, error) {
	args := m.Called(ctx, entity, season, fromWeek, toWeek)
	return args.Int(0), args.Error(1)
}

func TestPassCacheMemoizesWithinPass(t *testing.T) {
	ctx := context.Background()
	store := new(mockStatsStore)
	store.On("WindowTotals", ctx, "j doe", 2024, 3, 7).
		Return(models.WindowTotals{Scores: 2, Volume: 30, Weeks: 4}, nil).Once()

	pc := NewPassCache(store)
	for i := 0; i < 5; i++ {
		totals, err := pc.WindowTotals(ctx, "j doe", 2024, 3, 7)
		require.NoError(t, err)
		assert.Equal(t, 30, totals.Volume)
	}

	store.AssertNumberOfCalls(t, "WindowTotals", 1)
	hits, misses, ratio := pc.Stats()
	assert.Equal(t, uint64(4), hits)
	assert.Equal(t, uint64(1), misses)
	assert.InDelta(t, 0.8, ratio, 1e-9)
}

func TestPassCacheResetInvalidates(t *testing.T) {
	ctx := context.Background()
	store := new(mockStatsStore)
	store.On("OpponentDefense", ctx, "LV", 2024, 6).
		Return(models.DefenseRate{Team: "LV", Rate: 0.5, Found: true}, nil).Twice()

	pc := NewPassCache(store)
	_, err := pc.OpponentDefense(ctx, "LV", 2024, 6)
	require.NoError(t, err)
	assert.Equal(t, 1, pc.ItemCount())

	pc.Reset()
	assert.Equal(t, 0, pc.ItemCount())

	_, err = pc.OpponentDefense(ctx, "LV", 2024, 6)
	require.NoError(t, err)
	store.AssertNumberOfCalls(t, "OpponentDefense", 2)
}

func TestPassCacheDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	store := new(mockStatsStore)
	failure := models.NewDataStoreError("context zone entries", errors.New("connection reset"))
	store.On("ContextZoneEntries", ctx, "j doe", 2024, 1, 4).Return(0, failure).Once()
	store.On("ContextZoneEntries", ctx, "j doe", 2024, 1, 4).Return(6, nil).Once()

	pc := NewPassCache(store)
	_, err := pc.ContextZoneEntries(ctx, "j doe", 2024, 1, 4)
	assert.ErrorIs(t, err, models.ErrDataStoreUnavailable)

	count, err := pc.ContextZoneEntries(ctx, "j doe", 2024, 1, 4)
	require.NoError(t, err)
	assert.Equal(t, 6, count)
}
