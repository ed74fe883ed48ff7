// Package config provides configuration management for the gridiron-edge engine.
package config

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	// Register custom validation functions
	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("dbdriver", validateDriver)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	// Additional cross-field validations
	if err := validateCrossField(cfg); err != nil {
		return err
	}

	return nil
}

// ValidateEngine validates only the engine and staking sections, for callers that build them in code
func ValidateEngine(engine EngineConfig, staking StakingConfig) error {
	cv := NewValidator()
	if err := cv.validator.Struct(engine); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	if err := cv.validator.Struct(staking); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	if err := validateEngineRules(engine); err != nil {
		return err
	}
	return validateStakingRules(staking)
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateDriver validates the statistical store driver
func validateDriver(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "postgres", "sqlite":
		return true
	default:
		return false
	}
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	if err := validateEngineRules(cfg.Engine); err != nil {
		return err
	}
	if err := validateStakingRules(cfg.Staking); err != nil {
		return err
	}

	if cfg.OddsFeed.Enabled && cfg.OddsFeed.BaseURL == "" {
		return fmt.Errorf("odds_feed.base_url is required when the odds feed is enabled")
	}

	if _, err := cron.ParseStandard(cfg.Scheduler.Cron); err != nil {
		return fmt.Errorf("invalid scheduler.cron expression %q: %w", cfg.Scheduler.Cron, err)
	}

	// Validate production environment requirements
	if cfg.IsProduction() {
		if cfg.Database.Driver == "postgres" && cfg.Database.SSLMode == "disable" {
			return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
		}
	}

	return nil
}

func validateEngineRules(e EngineConfig) error {
	if math.Abs(e.EntityWeight+e.OpponentWeight-1.0) > 1e-9 {
		return fmt.Errorf("engine.entity_weight and engine.opponent_weight must sum to 1, got %.3f", e.EntityWeight+e.OpponentWeight)
	}
	if !(e.LowRateThreshold < e.MediumRateThreshold && e.MediumRateThreshold < e.HighRateThreshold) {
		return fmt.Errorf("engine rate thresholds must satisfy low < medium < high")
	}
	if e.StrongOpponentRatio >= e.WeakOpponentRatio {
		return fmt.Errorf("engine.strong_opponent_ratio must be below engine.weak_opponent_ratio")
	}
	if e.MinAdjustment > 1 || e.MaxAdjustment < 1 {
		return fmt.Errorf("engine adjustment clamp [%.2f, %.2f] must contain 1", e.MinAdjustment, e.MaxAdjustment)
	}
	if e.ProbabilityFloor >= e.ProbabilityCeil {
		return fmt.Errorf("engine.probability_floor must be below engine.probability_ceiling")
	}
	if e.NeutralProbability < e.ProbabilityFloor || e.NeutralProbability > e.ProbabilityCeil {
		return fmt.Errorf("engine.neutral_probability must lie within the probability clamp")
	}
	return nil
}

func validateStakingRules(s StakingConfig) error {
	if !(s.SmallEdgePct <= s.GoodEdgePct && s.GoodEdgePct <= s.StrongEdgePct) {
		return fmt.Errorf("staking edge tiers must satisfy small <= good <= strong")
	}
	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required", "required_if":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "dbdriver":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: postgres, sqlite\n", field)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}
