package model

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// LambdaFromProbability inverts P(X >= 1) = 1 - e^-λ for a Poisson count
func LambdaFromProbability(p float64) float64 {
	if p <= 0 || math.IsNaN(p) {
		return 0
	}
	if p >= 1 {
		p = math.Nextafter(1, 0)
	}
	return -math.Log1p(-p)
}

// AtLeast returns P(X >= k) for X ~ Poisson(lambda)
func AtLeast(k int, lambda float64) float64 {
	if k <= 0 {
		return 1
	}
	if lambda <= 0 || math.IsNaN(lambda) {
		return 0
	}
	dist := distuv.Poisson{Lambda: lambda}
	return clamp(1-dist.CDF(float64(k-1)), 0, 1)
}
