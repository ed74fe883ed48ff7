// Package config provides configuration management for the gridiron-edge engine.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App         AppConfig         `mapstructure:"app" validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database" validate:"required"`
	Engine      EngineConfig      `mapstructure:"engine" validate:"required"`
	Staking     StakingConfig     `mapstructure:"staking" validate:"required"`
	Rollout     RolloutConfig     `mapstructure:"rollout"`
	Aggregation AggregationConfig `mapstructure:"aggregation"`
	OddsFeed    OddsFeedConfig    `mapstructure:"odds_feed"`
	Metrics     MetricsConfig     `mapstructure:"metrics" validate:"required"`
	Server      ServerConfig      `mapstructure:"server" validate:"required"`
	Scheduler   SchedulerConfig   `mapstructure:"scheduler" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents the statistical store connection
type DatabaseConfig struct {
	Driver         string `mapstructure:"driver" validate:"required,dbdriver"`
	Host           string `mapstructure:"host" validate:"required_if=Driver postgres"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required_if=Driver postgres"`
	User           string `mapstructure:"user" validate:"required_if=Driver postgres"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"gte=0"`
	SQLitePath     string `mapstructure:"sqlite_path" validate:"required_if=Driver sqlite"`
}

// EngineConfig holds every tunable of the reconciliation engine.
// It is passed by value into each component and never mutated after load.
type EngineConfig struct {
	LookbackWeeks      int     `mapstructure:"lookback_weeks" validate:"gt=0,lte=18"`
	MinSampleWeeks     int     `mapstructure:"min_sample_weeks" validate:"gt=0"`
	MinSampleVolume    int     `mapstructure:"min_sample_volume" validate:"gt=0"`
	NeutralProbability float64 `mapstructure:"neutral_probability" validate:"gt=0,lt=1"`
	EntityWeight       float64 `mapstructure:"entity_weight" validate:"gte=0,lte=1"`
	OpponentWeight     float64 `mapstructure:"opponent_weight" validate:"gte=0,lte=1"`
	HomeFieldBoost     float64 `mapstructure:"home_field_boost" validate:"gte=0,lt=1"`
	LeagueDefenseRate  float64 `mapstructure:"league_defense_rate" validate:"gt=0,lte=1"`

	HighRateThreshold   float64 `mapstructure:"high_rate_threshold" validate:"gt=0,lte=1"`
	MediumRateThreshold float64 `mapstructure:"medium_rate_threshold" validate:"gt=0,lte=1"`
	LowRateThreshold    float64 `mapstructure:"low_rate_threshold" validate:"gt=0,lte=1"`
	HighMultiplier      float64 `mapstructure:"high_multiplier" validate:"gt=0"`
	MediumMultiplier    float64 `mapstructure:"medium_multiplier" validate:"gt=0"`
	NeutralMultiplier   float64 `mapstructure:"neutral_multiplier" validate:"gt=0"`
	LowMultiplier       float64 `mapstructure:"low_multiplier" validate:"gt=0"`

	WeakOpponentRatio        float64 `mapstructure:"weak_opponent_ratio" validate:"gt=0"`
	StrongOpponentRatio      float64 `mapstructure:"strong_opponent_ratio" validate:"gt=0"`
	WeakOpponentMultiplier   float64 `mapstructure:"weak_opponent_multiplier" validate:"gt=0"`
	StrongOpponentMultiplier float64 `mapstructure:"strong_opponent_multiplier" validate:"gt=0"`

	MinAdjustment    float64 `mapstructure:"min_adjustment" validate:"gt=0"`
	MaxAdjustment    float64 `mapstructure:"max_adjustment" validate:"gt=0"`
	ProbabilityFloor float64 `mapstructure:"probability_floor" validate:"gt=0,lt=1"`
	ProbabilityCeil  float64 `mapstructure:"probability_ceiling" validate:"gt=0,lt=1"`

	EntityBudgetMs int `mapstructure:"entity_budget_ms" validate:"gt=0"`

	HighConfidenceWeeks  int     `mapstructure:"high_confidence_weeks" validate:"gt=0"`
	HighConfidenceVolume int     `mapstructure:"high_confidence_volume" validate:"gt=0"`
	ContextTolerance     float64 `mapstructure:"context_tolerance" validate:"gte=0,lte=1"`
}

// EntityBudget returns the per-entity wall clock budget
func (e EngineConfig) EntityBudget() time.Duration {
	return time.Duration(e.EntityBudgetMs) * time.Millisecond
}

// StakingConfig represents fractional Kelly sizing configuration
type StakingConfig struct {
	KellyMultiplier float64 `mapstructure:"kelly_multiplier" validate:"gt=0,lte=1"`
	MaxFraction     float64 `mapstructure:"max_fraction" validate:"gt=0,lte=1"`
	Bankroll        float64 `mapstructure:"bankroll" validate:"gte=0"`
	SmallEdgePct    float64 `mapstructure:"small_edge_pct" validate:"gte=0"`
	GoodEdgePct     float64 `mapstructure:"good_edge_pct" validate:"gte=0"`
	StrongEdgePct   float64 `mapstructure:"strong_edge_pct" validate:"gte=0"`
}

// RolloutConfig represents A/B exposure of the enhanced model
type RolloutConfig struct {
	Percentage int    `mapstructure:"percentage" validate:"gte=0,lte=100"`
	Identifier string `mapstructure:"identifier"`
}

// AggregationConfig represents defaults for aggregation passes
type AggregationConfig struct {
	DefaultMinEdge float64 `mapstructure:"default_min_edge"`
	Parallel       bool    `mapstructure:"parallel"`
}

// OddsFeedConfig represents the HTTP prop line feed
type OddsFeedConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	BaseURL        string  `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey         string  `mapstructure:"api_key"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"gte=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"gte=0"`
	BreakerMax     int     `mapstructure:"breaker_max" validate:"gte=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required"`
}

// ServerConfig represents the HTTP API server
type ServerConfig struct {
	Port               int `mapstructure:"port" validate:"required,min=1,max=65535"`
	RequestTimeoutSecs int `mapstructure:"request_timeout_seconds" validate:"gt=0"`
}

// SchedulerConfig represents the daily aggregation trigger
type SchedulerConfig struct {
	Cron        string  `mapstructure:"cron" validate:"required"`
	SeasonStart string  `mapstructure:"season_start" validate:"required,datetime=2006-01-02"`
	ExportDir   string  `mapstructure:"export_dir" validate:"required"`
	MinEdge     float64 `mapstructure:"min_edge"`
}

// Default returns a complete configuration usable without a file
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:        "gridiron-edge",
			Environment: "development",
			LogLevel:    "info",
		},
		Database: DatabaseConfig{
			Driver:         "sqlite",
			Port:           5432,
			SSLMode:        "disable",
			MaxConnections: 10,
			SQLitePath:     "data/gridiron.db",
		},
		Engine:  DefaultEngine(),
		Staking: DefaultStaking(),
		Rollout: RolloutConfig{
			Percentage: 10,
			Identifier: "default",
		},
		Aggregation: AggregationConfig{
			DefaultMinEdge: 5,
			Parallel:       true,
		},
		OddsFeed: OddsFeedConfig{
			TimeoutSeconds: 15,
			MaxRetries:     3,
			RateLimit:      5,
			BreakerMax:     5,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Server: ServerConfig{
			Port:               8080,
			RequestTimeoutSecs: 30,
		},
		Scheduler: SchedulerConfig{
			Cron:        "0 9 * * *",
			SeasonStart: "2025-09-04",
			ExportDir:   "output",
			MinEdge:     5,
		},
	}
}

// DefaultEngine returns the documented engine defaults
func DefaultEngine() EngineConfig {
	return EngineConfig{
		LookbackWeeks:      4,
		MinSampleWeeks:     2,
		MinSampleVolume:    5,
		NeutralProbability: 0.30,
		EntityWeight:       0.6,
		OpponentWeight:     0.4,
		HomeFieldBoost:     0.10,
		LeagueDefenseRate:  0.55,

		HighRateThreshold:   0.15,
		MediumRateThreshold: 0.10,
		LowRateThreshold:    0.05,
		HighMultiplier:      1.12,
		MediumMultiplier:    1.05,
		NeutralMultiplier:   1.0,
		LowMultiplier:       0.88,

		WeakOpponentRatio:        1.15,
		StrongOpponentRatio:      0.85,
		WeakOpponentMultiplier:   1.10,
		StrongOpponentMultiplier: 0.90,

		MinAdjustment:    0.5,
		MaxAdjustment:    1.5,
		ProbabilityFloor: 0.01,
		ProbabilityCeil:  0.99,

		EntityBudgetMs: 500,

		HighConfidenceWeeks:  3,
		HighConfidenceVolume: 15,
		ContextTolerance:     0.6,
	}
}

// DefaultStaking returns the documented staking defaults
func DefaultStaking() StakingConfig {
	return StakingConfig{
		KellyMultiplier: 0.25,
		MaxFraction:     0.05,
		Bankroll:        1000,
		SmallEdgePct:    5,
		GoodEdgePct:     10,
		StrongEdgePct:   20,
	}
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
