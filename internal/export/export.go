package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/service"
)

// Format is an export file format
type Format string

// Supported formats
const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// Header is the fixed CSV column order
var Header = []string{
	"rank",
	"strategy_id",
	"strategy_name",
	"entity",
	"team",
	"opponent",
	"market",
	"market_line",
	"direction",
	"threshold",
	"american_odds",
	"implied_probability",
	"true_probability",
	"base_probability",
	"edge_pct",
	"confidence",
	"model_used",
	"stake_fraction",
	"stake_tier",
	"stake_amount",
	"rate",
	"rate_tier",
	"opponent_adjustment",
	"opponent_class",
	"context_agreement",
	"fallback_reason",
}

// FormatFromPath picks the format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", models.NewInvalidInput("export", "unsupported extension %q, use .json or .csv", filepath.Ext(path))
	}
}

// Write exports resp to path in the format implied by its extension
func Write(resp *service.AggregateResponse, path string) (Format, error) {
	if path == "" {
		return "", models.NewInvalidInput("export", "output path is required")
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	switch format {
	case FormatJSON:
		err = writeJSON(resp, path)
	case FormatCSV:
		err = writeCSV(resp.Edges, path)
	}
	if err != nil {
		return "", err
	}
	return format, nil
}

func writeJSON(resp *service.AggregateResponse, path string) error {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal export: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func writeCSV(results []models.StrategyResult, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(Header); err != nil {
		return err
	}
	for i := range results {
		if err := w.Write(Row(results[i])); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return file.Close()
}

// Row renders one result in Header order. Null optional fields become empty cells.
func Row(r models.StrategyResult) []string {
	return []string{
		strconv.Itoa(r.Rank),
		r.StrategyID,
		r.StrategyName,
		r.Entity,
		r.Team,
		r.Opponent,
		string(r.Market),
		formatFloat(r.MarketLine),
		string(r.Recommendation.Direction),
		formatFloat(r.Recommendation.Threshold),
		strconv.Itoa(r.AmericanOdds),
		formatFloat(r.ImpliedProbability),
		formatFloat(r.TrueProbability),
		formatFloat(r.BaseProbability),
		formatFloat(r.EdgePct),
		string(r.Confidence),
		string(r.ModelUsed),
		formatFloat(r.StakeFraction),
		string(r.StakeTier),
		r.StakeAmount,
		optionalFloat(r.Rate),
		optionalString(r.RateTier),
		optionalFloat(r.OpponentAdjustment),
		optionalString(r.OpponentClass),
		optionalFloat(r.ContextAgreement),
		optionalString(r.FallbackReason),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func optionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func optionalString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
