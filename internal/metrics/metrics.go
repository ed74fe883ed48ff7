// Package metrics provides centralized Prometheus metrics registry for the edge engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gridiron_edge"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	EdgesProducedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "edges_produced_total",
		Help:      "Total number of edges returned after filtering",
	}, []string{"strategy_id", "model_used"})
	FallbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fallbacks_total",
		Help:      "Total number of enhanced predictions that fell back to the baseline",
	}, []string{"reason"})
	StrategyFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "strategy_failures_total",
		Help:      "Total number of isolated strategy failures",
	}, []string{"strategy_id"})
	SlowEntitiesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "slow_entities_total",
		Help:      "Total number of entity predictions that exceeded the budget",
	})
	AggregationRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "aggregation_runs_total",
		Help:      "Total number of aggregation passes",
	}, []string{"variant", "status"})
	RolloutAssignmentsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rollout_assignments_total",
		Help:      "Total number of model variant assignments",
	}, []string{"variant"})
	OddsFeedRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "odds_feed_requests_total",
		Help:      "Total number of odds feed requests",
	}, []string{"status"})
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of API requests",
	}, []string{"route", "code"})
)

// Gauge metrics
var (
	PassCacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "pass_cache_hit_ratio",
		Help:      "Hit ratio of the per-pass stats cache for the last aggregation",
	})
	LastAggregationEdges = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_aggregation_edges",
		Help:      "Number of edges returned by the most recent aggregation",
	})
)

// Histogram metrics
var (
	EntityPredictionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "entity_prediction_duration_seconds",
		Help:      "Duration of a single entity prediction",
		Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .25, .5, 1},
	})
	AggregationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "aggregation_duration_seconds",
		Help:      "Duration of a full aggregation pass",
		Buckets:   prometheus.DefBuckets,
	}, []string{"variant"})
)

// InitRegistry initializes the Prometheus registry with all metrics
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(EdgesProducedTotal)
		registry.MustRegister(FallbacksTotal)
		registry.MustRegister(StrategyFailuresTotal)
		registry.MustRegister(SlowEntitiesTotal)
		registry.MustRegister(AggregationRunsTotal)
		registry.MustRegister(RolloutAssignmentsTotal)
		registry.MustRegister(OddsFeedRequestsTotal)
		registry.MustRegister(HTTPRequestsTotal)

		registry.MustRegister(PassCacheHitRatio)
		registry.MustRegister(LastAggregationEdges)

		registry.MustRegister(EntityPredictionDuration)
		registry.MustRegister(AggregationDuration)
	})
	return registry
}

// GetRegistry returns the global registry instance
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns HTTP handler for Prometheus metrics
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordEdge increments the produced edge counter
func RecordEdge(strategyID, modelUsed string) {
	EdgesProducedTotal.WithLabelValues(strategyID, modelUsed).Inc()
}

// RecordFallback increments the fallback counter for a reason
func RecordFallback(reason string) {
	FallbacksTotal.WithLabelValues(reason).Inc()
}

// RecordStrategyFailure increments the failure counter for a strategy
func RecordStrategyFailure(strategyID string) {
	StrategyFailuresTotal.WithLabelValues(strategyID).Inc()
}

// RecordEntityPrediction observes one prediction and flags it when over budget
func RecordEntityPrediction(seconds float64, overBudget bool) {
	EntityPredictionDuration.Observe(seconds)
	if overBudget {
		SlowEntitiesTotal.Inc()
	}
}

// RecordAggregation records the outcome of an aggregation pass
func RecordAggregation(variant string, success bool, edges int, seconds float64) {
	status := "success"
	if !success {
		status = "failure"
	}
	AggregationRunsTotal.WithLabelValues(variant, status).Inc()
	AggregationDuration.WithLabelValues(variant).Observe(seconds)
	LastAggregationEdges.Set(float64(edges))
}

// RecordRolloutAssignment increments the assignment counter for a variant
func RecordRolloutAssignment(variant string) {
	RolloutAssignmentsTotal.WithLabelValues(variant).Inc()
}

// RecordOddsFeedRequest increments the odds feed counter
func RecordOddsFeedRequest(status string) {
	OddsFeedRequestsTotal.WithLabelValues(status).Inc()
}

// RecordHTTPRequest increments the API request counter
func RecordHTTPRequest(route, code string) {
	HTTPRequestsTotal.WithLabelValues(route, code).Inc()
}

// UpdatePassCacheHitRatio sets the pass cache hit ratio
func UpdatePassCacheHitRatio(ratio float64) {
	PassCacheHitRatio.Set(ratio)
}
