// Package config provides configuration management for the gridiron-edge engine.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides (GRIDIRON_EDGE_ENGINE_LOOKBACK_WEEKS)
const EnvPrefix = "GRIDIRON_EDGE"

// DefaultPath is used when no config path is given
const DefaultPath = "config/config.yaml"

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME}).
// The file must exist; use LoadWithDefaults for optional files.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return unmarshal(v)
}

// LoadWithDefaults loads configuration on top of Default(). A missing file is not an error.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultPath
	}

	v := newViper()

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	// If file doesn't exist, continue with defaults and environment variables

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	bindDefaults(v, Default())
	return v
}

// bindDefaults registers every default key so AutomaticEnv can override keys absent from the file
func bindDefaults(v *viper.Viper, cfg *Config) {
	defaults := map[string]interface{}{
		"app.name":                          cfg.App.Name,
		"app.environment":                   cfg.App.Environment,
		"app.log_level":                     cfg.App.LogLevel,
		"database.driver":                   cfg.Database.Driver,
		"database.host":                     cfg.Database.Host,
		"database.port":                     cfg.Database.Port,
		"database.name":                     cfg.Database.Name,
		"database.user":                     cfg.Database.User,
		"database.password":                 cfg.Database.Password,
		"database.ssl_mode":                 cfg.Database.SSLMode,
		"database.max_connections":          cfg.Database.MaxConnections,
		"database.sqlite_path":              cfg.Database.SQLitePath,
		"engine.lookback_weeks":             cfg.Engine.LookbackWeeks,
		"engine.min_sample_weeks":           cfg.Engine.MinSampleWeeks,
		"engine.min_sample_volume":          cfg.Engine.MinSampleVolume,
		"engine.neutral_probability":        cfg.Engine.NeutralProbability,
		"engine.entity_weight":              cfg.Engine.EntityWeight,
		"engine.opponent_weight":            cfg.Engine.OpponentWeight,
		"engine.home_field_boost":           cfg.Engine.HomeFieldBoost,
		"engine.league_defense_rate":        cfg.Engine.LeagueDefenseRate,
		"engine.high_rate_threshold":        cfg.Engine.HighRateThreshold,
		"engine.medium_rate_threshold":      cfg.Engine.MediumRateThreshold,
		"engine.low_rate_threshold":         cfg.Engine.LowRateThreshold,
		"engine.high_multiplier":            cfg.Engine.HighMultiplier,
		"engine.medium_multiplier":          cfg.Engine.MediumMultiplier,
		"engine.neutral_multiplier":         cfg.Engine.NeutralMultiplier,
		"engine.low_multiplier":             cfg.Engine.LowMultiplier,
		"engine.weak_opponent_ratio":        cfg.Engine.WeakOpponentRatio,
		"engine.strong_opponent_ratio":      cfg.Engine.StrongOpponentRatio,
		"engine.weak_opponent_multiplier":   cfg.Engine.WeakOpponentMultiplier,
		"engine.strong_opponent_multiplier": cfg.Engine.StrongOpponentMultiplier,
		"engine.min_adjustment":             cfg.Engine.MinAdjustment,
		"engine.max_adjustment":             cfg.Engine.MaxAdjustment,
		"engine.probability_floor":          cfg.Engine.ProbabilityFloor,
		"engine.probability_ceiling":        cfg.Engine.ProbabilityCeil,
		"engine.entity_budget_ms":           cfg.Engine.EntityBudgetMs,
		"engine.high_confidence_weeks":      cfg.Engine.HighConfidenceWeeks,
		"engine.high_confidence_volume":     cfg.Engine.HighConfidenceVolume,
		"engine.context_tolerance":          cfg.Engine.ContextTolerance,
		"staking.kelly_multiplier":          cfg.Staking.KellyMultiplier,
		"staking.max_fraction":              cfg.Staking.MaxFraction,
		"staking.bankroll":                  cfg.Staking.Bankroll,
		"staking.small_edge_pct":            cfg.Staking.SmallEdgePct,
		"staking.good_edge_pct":             cfg.Staking.GoodEdgePct,
		"staking.strong_edge_pct":           cfg.Staking.StrongEdgePct,
		"rollout.percentage":                cfg.Rollout.Percentage,
		"rollout.identifier":                cfg.Rollout.Identifier,
		"aggregation.default_min_edge":      cfg.Aggregation.DefaultMinEdge,
		"aggregation.parallel":              cfg.Aggregation.Parallel,
		"odds_feed.enabled":                 cfg.OddsFeed.Enabled,
		"odds_feed.base_url":                cfg.OddsFeed.BaseURL,
		"odds_feed.api_key":                 cfg.OddsFeed.APIKey,
		"odds_feed.timeout_seconds":         cfg.OddsFeed.TimeoutSeconds,
		"odds_feed.max_retries":             cfg.OddsFeed.MaxRetries,
		"odds_feed.rate_limit":              cfg.OddsFeed.RateLimit,
		"odds_feed.breaker_max":             cfg.OddsFeed.BreakerMax,
		"metrics.enabled":                   cfg.Metrics.Enabled,
		"metrics.path":                      cfg.Metrics.Path,
		"server.port":                       cfg.Server.Port,
		"server.request_timeout_seconds":    cfg.Server.RequestTimeoutSecs,
		"scheduler.cron":                    cfg.Scheduler.Cron,
		"scheduler.season_start":            cfg.Scheduler.SeasonStart,
		"scheduler.export_dir":              cfg.Scheduler.ExportDir,
		"scheduler.min_edge":                cfg.Scheduler.MinEdge,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}
