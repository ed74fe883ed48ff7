package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrategyResultFieldPresence(t *testing.T) {
	baseline := NewStrategyResult("anytime_td", "Anytime TD", Edge{
		Entity:    "j doe",
		ModelUsed: ModelBaseline,
	})
	enhanced := NewStrategyResult("multi_td", "Multi TD", Edge{
		Entity:    "j doe",
		ModelUsed: ModelEnhanced,
		Meta: PredictionMeta{
			ModelUsed:          ModelEnhanced,
			Rate:               Float64Ptr(0.2),
			Tier:               StringPtr("high"),
			OpponentAdjustment: Float64Ptr(1.1),
		},
	})

	keysOf := func(r StrategyResult) map[string]interface{} {
		data, err := json.Marshal(r)
		require.NoError(t, err)
		var out map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &out))
		return out
	}

	baseKeys := keysOf(baseline)
	enhKeys := keysOf(enhanced)
	require.Len(t, baseKeys, len(enhKeys))
	for key := range enhKeys {
		_, ok := baseKeys[key]
		assert.True(t, ok, "missing key %s", key)
	}
	assert.Nil(t, baseKeys["rate"])
	assert.Nil(t, baseKeys["fallback_reason"])
	assert.Equal(t, 0.2, enhKeys["rate"])
}

func TestStrategyResultCarriesFallbackReason(t *testing.T) {
	result := NewStrategyResult("anytime_td", "Anytime TD", Edge{
		ModelUsed: ModelEnhancedFallback,
		Meta:      PredictionMeta{ModelUsed: ModelEnhancedFallback, Reason: ReasonTimeout},
	})
	require.NotNil(t, result.FallbackReason)
	assert.Equal(t, ReasonTimeout, *result.FallbackReason)
	assert.True(t, result.ModelUsed.IsFallback())
}

func TestConfidenceDowngrade(t *testing.T) {
	assert.Equal(t, ConfidenceMedium, ConfidenceHigh.Downgrade())
	assert.Equal(t, ConfidenceLow, ConfidenceMedium.Downgrade())
	assert.Equal(t, ConfidenceLow, ConfidenceLow.Downgrade())
}

func TestErrorTaxonomy(t *testing.T) {
	storeErr := NewDataStoreError("window_totals", errors.New("connection refused"))
	wrapped := fmt.Errorf("baseline: %w", storeErr)
	assert.ErrorIs(t, wrapped, ErrDataStoreUnavailable)
	assert.NotErrorIs(t, wrapped, ErrInvalidInput)

	// wrapping twice keeps the original op
	assert.Same(t, storeErr, NewDataStoreError("other", storeErr))
	assert.Nil(t, NewDataStoreError("noop", nil))

	strategyErr := &StrategyError{StrategyID: "multi_td", Cause: storeErr}
	assert.ErrorIs(t, strategyErr, ErrStrategyFailed)
	assert.ErrorIs(t, strategyErr, ErrDataStoreUnavailable)

	assert.ErrorIs(t, NewInvalidInput("odds", "cannot be 0"), ErrInvalidInput)
}

func TestContextRecordInRedZone(t *testing.T) {
	assert.True(t, (&ContextRecord{YardLine: 20}).InRedZone())
	assert.True(t, (&ContextRecord{YardLine: 1}).InRedZone())
	assert.False(t, (&ContextRecord{YardLine: 21}).InRedZone())
	assert.False(t, (&ContextRecord{YardLine: 0}).InRedZone())
}
