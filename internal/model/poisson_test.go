package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAtLeast(t *testing.T) {
	for _, lambda := range []float64{0.1, 0.5, 1, 2.5, 4} {
		assert.InDelta(t, 1-math.Exp(-lambda), AtLeast(1, lambda), 1e-9)
		assert.InDelta(t, 1-math.Exp(-lambda)*(1+lambda), AtLeast(2, lambda), 1e-9)
	}

	assert.Equal(t, 1.0, AtLeast(0, 2))
	assert.Equal(t, 0.0, AtLeast(1, 0))
	assert.Equal(t, 0.0, AtLeast(1, math.NaN()))
}

func TestLambdaFromProbabilityRoundTrip(t *testing.T) {
	for _, p := range []float64{0.01, 0.3, 0.5, 0.75, 0.99} {
		lambda := LambdaFromProbability(p)
		assert.InDelta(t, p, AtLeast(1, lambda), 1e-9)
	}

	assert.Zero(t, LambdaFromProbability(0))
	assert.False(t, math.IsInf(LambdaFromProbability(1), 0))
}
