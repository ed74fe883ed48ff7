package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/rollout"
	"github.com/yourusername/gridiron-edge/internal/service"
)

type mockAggregator struct {
	mock.Mock
}

func (m *mockAggregator) Aggregate(ctx context.Context, req service.AggregateRequest) (*service.AggregateResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*service.AggregateResponse)
	return resp, args.Error(1)
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCurrentPeriod(t *testing.T) {
	tests := []struct {
		name     string
		now      string
		wantWeek int
		wantErr  bool
	}{
		{"opening day", "2025-09-04", 1, false},
		{"end of week one", "2025-09-10", 1, false},
		{"start of week two", "2025-09-11", 2, false},
		{"mid season", "2025-11-02", 9, false},
		{"last week", "2026-01-03", 18, false},
		{"before season", "2025-08-30", 0, true},
		{"postseason", "2026-01-10", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			period, err := CurrentPeriod(date(tt.now).Add(15*time.Hour), "2025-09-04")
			if tt.wantErr {
				assert.ErrorIs(t, err, models.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 2025, period.Season)
			assert.Equal(t, tt.wantWeek, period.Week)
		})
	}

	_, err := CurrentPeriod(time.Now(), "September")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestExportPath(t *testing.T) {
	path := ExportPath("out", models.Period{Season: 2025, Week: 3}, date("2025-09-20"))
	assert.Equal(t, filepath.Join("out", "edges-2025-w03-20250920.json"), path)
}

func newTestScheduler(t *testing.T, agg Aggregator, now string) *Scheduler {
	cfg := config.Default()
	cfg.Scheduler.ExportDir = t.TempDir()
	cfg.Scheduler.SeasonStart = "2025-09-04"
	cfg.Rollout.Percentage = 100

	s := NewScheduler(agg, cfg, logger.NewDiscardLogger())
	s.now = func() time.Time { return date(now) }
	return s
}

func TestRunOnce(t *testing.T) {
	agg := new(mockAggregator)
	agg.On("Aggregate", mock.Anything, service.AggregateRequest{
		Week: 3, Season: 2025, MinEdge: 5, Variant: rollout.VariantEnhanced,
	}).Return(&service.AggregateResponse{
		Success: true,
		RunID:   "run-7",
		Edges:   []models.StrategyResult{},
	}, nil)

	s := newTestScheduler(t, agg, "2025-09-20")
	resp, path, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "run-7", resp.RunID)

	_, err = os.Stat(path)
	require.NoError(t, err)
	agg.AssertExpectations(t)
}

func TestRunOnceOffSeason(t *testing.T) {
	agg := new(mockAggregator)
	s := newTestScheduler(t, agg, "2025-07-01")

	_, _, err := s.RunOnce(context.Background())
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	agg.AssertNotCalled(t, "Aggregate", mock.Anything, mock.Anything)
}

func TestRunOnceSkipsExportOnFailure(t *testing.T) {
	agg := new(mockAggregator)
	agg.On("Aggregate", mock.Anything, mock.Anything).Return(&service.AggregateResponse{
		Edges: []models.StrategyResult{},
	}, models.NewDataStoreError("window totals", assert.AnError))

	s := newTestScheduler(t, agg, "2025-09-20")
	_, path, err := s.RunOnce(context.Background())
	assert.ErrorIs(t, err, models.ErrDataStoreUnavailable)
	assert.Empty(t, path)
}

func TestScheduleLifecycle(t *testing.T) {
	s := newTestScheduler(t, new(mockAggregator), "2025-09-20")

	assert.Error(t, s.Start())
	require.NoError(t, s.ScheduleDaily())
	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.Error(t, s.ScheduleDaily())

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
}
