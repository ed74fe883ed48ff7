package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/repository"
	"github.com/yourusername/gridiron-edge/internal/service"
	"github.com/yourusername/gridiron-edge/internal/strategy"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error {
	return p.err
}

func newTestServer(t *testing.T, db Pinger) *Server {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	for week := 1; week <= 5; week++ {
		require.NoError(t, store.UpsertAggregate(ctx, &models.StatAggregate{
			Entity: "Alpha Back", Team: "KC", Season: 2024, Week: week, Attempts: 15, Scores: 1, ZoneEntries: 2,
		}))
	}
	require.NoError(t, store.UpsertPropLine(ctx, 2024, 5, &models.PropLine{
		Entity: "Alpha Back", Team: "KC", Opponent: "LV", Market: models.MarketAnytimeTD, Line: 0.5, OverOdds: 200, Book: "dk",
	}))

	log := logger.NewDiscardLogger()
	cfg := config.Default()
	svc := service.NewEdgeService(store, store, strategy.DefaultRegistry(log), cfg, log)

	s := NewServer(Config{Service: svc, App: cfg, DB: db, Logger: log, Version: "test"})
	s.SetReady(true)
	return s
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	rec := get(t, s, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "gridiron-edge", body.Service)
}

func TestReady(t *testing.T) {
	s := newTestServer(t, stubPinger{})
	assert.Equal(t, http.StatusOK, get(t, s, "/ready").Code)

	s = newTestServer(t, stubPinger{err: errors.New("connection refused")})
	rec := get(t, s, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")

	s = newTestServer(t, nil)
	s.SetReady(false)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, s, "/ready").Code)
}

func TestEdgesEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	rec := get(t, s, "/api/v1/edges?week=5&season=2024&min_edge=-100&model=v2")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp service.AggregateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "enhanced", string(resp.Variant))
	require.Len(t, resp.Edges, 1)
	assert.Equal(t, "alpha back", resp.Edges[0].Entity)
	assert.Equal(t, 1, resp.Edges[0].Rank)
}

func TestEdgesEndpointBaselineAlias(t *testing.T) {
	s := newTestServer(t, nil)
	rec := get(t, s, "/api/v1/edges?week=5&season=2024&min_edge=-100&model=v1")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp service.AggregateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Edges, 1)
	assert.Equal(t, models.ModelBaseline, resp.Edges[0].ModelUsed)
}

func TestEdgesEndpointInvalidInput(t *testing.T) {
	s := newTestServer(t, nil)

	targets := []string{
		"/api/v1/edges?season=2024",
		"/api/v1/edges?week=abc&season=2024",
		"/api/v1/edges?week=19&season=2024",
		"/api/v1/edges?week=5&season=2024&min_edge=lots",
		"/api/v1/edges?week=5&season=2024&model=v7",
		"/api/v1/edges?week=5&season=2024&strategy=parlay",
	}
	for _, target := range targets {
		t.Run(target, func(t *testing.T) {
			rec := get(t, s, target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestGateEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	rec := get(t, s, "/api/v1/gate/Alpha%20Back?week=5&season=2024")
	require.Equal(t, http.StatusOK, rec.Code)

	var report service.GateReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.True(t, report.Admitted)
	assert.Equal(t, "alpha back", report.Entity)

	rec = get(t, s, "/api/v1/gate/Nobody?week=5&season=2024")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.False(t, report.Admitted)
	assert.Equal(t, models.ReasonInsufficientSample, report.Reason)

	assert.Equal(t, http.StatusBadRequest, get(t, s, "/api/v1/gate/Alpha?week=0&season=2024").Code)
}

func TestStrategiesEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	rec := get(t, s, "/api/v1/strategies")

	require.Equal(t, http.StatusOK, rec.Code)
	var meta []strategy.StrategyMetadata
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &meta))
	require.Len(t, meta, 3)
	assert.Equal(t, "anytime_td", meta[0].ID)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, nil)
	get(t, s, "/health")

	rec := get(t, s, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gridiron_edge_http_requests_total")
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusOK, statusFor(nil))
	assert.Equal(t, http.StatusBadRequest, statusFor(models.NewInvalidInput("week", "bad")))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(models.NewDataStoreError("op", errors.New("down"))))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("other")))
}
