package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/rollout"
	"github.com/yourusername/gridiron-edge/internal/service"
)

func sampleResponse() *service.AggregateResponse {
	return &service.AggregateResponse{
		Success: true,
		Count:   2,
		RunID:   "run-1",
		Variant: rollout.VariantEnhanced,
		Season:  2024,
		Week:    6,
		Edges: []models.StrategyResult{
			{
				Rank:           1,
				StrategyID:     "anytime_td",
				Entity:         "alpha back",
				Market:         models.MarketAnytimeTD,
				MarketLine:     0.5,
				Recommendation: models.Recommendation{Direction: models.DirectionOver, Threshold: 0.5},
				AmericanOdds:   110,
				EdgePct:        12.5,
				ModelUsed:      models.ModelEnhanced,
				StakeTier:      models.TierGood,
				StakeAmount:    "12.00",
				Rate:           models.Float64Ptr(0.125),
				RateTier:       models.StringPtr("medium"),
			},
			{
				Rank:           2,
				StrategyID:     "anytime_td",
				Entity:         "charlie rookie",
				Market:         models.MarketAnytimeTD,
				MarketLine:     0.5,
				Recommendation: models.Recommendation{Direction: models.DirectionOver, Threshold: 0.5},
				AmericanOdds:   400,
				EdgePct:        6,
				ModelUsed:      models.ModelEnhancedFallback,
				StakeTier:      models.TierSmall,
				StakeAmount:    "3.10",
				FallbackReason: models.StringPtr(models.ReasonInsufficientSample),
			},
		},
		StrategyFailures: []string{},
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"out/edges.json", FormatJSON, false},
		{"EDGES.CSV", FormatCSV, false},
		{"edges.txt", "", true},
		{"edges", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, models.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "edges.json")

	format, err := Write(sampleResponse(), path)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, format)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, true, decoded["success"])
	assert.Equal(t, "run-1", decoded["run_id"])

	edges := decoded["edges"].([]interface{})
	require.Len(t, edges, 2)
	second := edges[1].(map[string]interface{})
	assert.Contains(t, second, "rate")
	assert.Nil(t, second["rate"])
	assert.Equal(t, models.ReasonInsufficientSample, second["fallback_reason"])
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edges.csv")

	format, err := Write(sampleResponse(), path)
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, format)

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, Header, records[0])

	col := func(name string) int {
		for i, h := range Header {
			if h == name {
				return i
			}
		}
		t.Fatalf("missing column %s", name)
		return -1
	}

	assert.Equal(t, "1", records[1][col("rank")])
	assert.Equal(t, "0.125", records[1][col("rate")])
	assert.Equal(t, "medium", records[1][col("rate_tier")])
	assert.Equal(t, "", records[1][col("fallback_reason")])

	assert.Equal(t, "", records[2][col("rate")])
	assert.Equal(t, "", records[2][col("context_agreement")])
	assert.Equal(t, models.ReasonInsufficientSample, records[2][col("fallback_reason")])
	assert.Equal(t, "OVER", records[2][col("direction")])
}

func TestWriteCSVEmpty(t *testing.T) {
	resp := sampleResponse()
	resp.Edges = []models.StrategyResult{}
	path := filepath.Join(t.TempDir(), "empty.csv")

	_, err := Write(resp, path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestWriteRejectsUnknownExtension(t *testing.T) {
	_, err := Write(sampleResponse(), filepath.Join(t.TempDir(), "edges.xml"))
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = Write(sampleResponse(), "")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}
