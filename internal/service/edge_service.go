package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/cache"
	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/model"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/repository"
	"github.com/yourusername/gridiron-edge/internal/rollout"
	"github.com/yourusername/gridiron-edge/internal/staking"
	"github.com/yourusername/gridiron-edge/internal/strategy"
)

// AggregateRequest is the caller-facing input of one aggregation
type AggregateRequest struct {
	Week     int             `json:"week"`
	Season   int             `json:"season"`
	MinEdge  float64         `json:"min_edge"`
	Strategy string          `json:"strategy,omitempty"`
	Variant  rollout.Variant `json:"variant"`
}

// AggregateResponse is the uniform result. Edges is never null.
type AggregateResponse struct {
	Success          bool                    `json:"success"`
	Count            int                     `json:"count"`
	Edges            []models.StrategyResult `json:"edges"`
	RunID            string                  `json:"run_id"`
	Variant          rollout.Variant         `json:"variant"`
	Season           int                     `json:"season"`
	Week             int                     `json:"week"`
	MinEdge          float64                 `json:"min_edge"`
	GeneratedAt      time.Time               `json:"generated_at"`
	StrategyFailures []string                `json:"strategy_failures"`
	Error            string                  `json:"error,omitempty"`
}

// GateReport answers whether an entity would use the enhanced path right now
type GateReport struct {
	Entity   string              `json:"entity"`
	Period   models.Period       `json:"period"`
	Estimate models.RateEstimate `json:"estimate"`
	Admitted bool                `json:"admitted"`
	Reason   string              `json:"reason,omitempty"`
}

// EdgeService wires the data layer, models, strategies and aggregator into one entry point
type EdgeService struct {
	stats      repository.StatsStore
	props      repository.PropSource
	engine     config.EngineConfig
	sizer      *staking.Sizer
	bankroll   float64
	registry   *strategy.Registry
	aggregator *StrategyAggregator
	logger     *logrus.Logger
	edgeLogger *logger.EdgeLogger
}

// NewEdgeService creates a new edge service
func NewEdgeService(
	stats repository.StatsStore,
	props repository.PropSource,
	registry *strategy.Registry,
	cfg *config.Config,
	log *logrus.Logger,
) *EdgeService {
	return &EdgeService{
		stats:      stats,
		props:      props,
		engine:     cfg.Engine,
		sizer:      staking.NewSizer(cfg.Staking, log),
		bankroll:   cfg.Staking.Bankroll,
		registry:   registry,
		aggregator: NewStrategyAggregator(registry, cfg.Aggregation.Parallel, log),
		logger:     log,
		edgeLogger: logger.NewEdgeLogger(log),
	}
}

// Strategies returns metadata for the registered strategies in registration order
func (s *EdgeService) Strategies() []strategy.StrategyMetadata {
	all := s.registry.All()
	meta := make([]strategy.StrategyMetadata, len(all))
	for i, st := range all {
		meta[i] = strategy.Describe(st)
	}
	return meta
}

// Validate checks a request without running it
func (s *EdgeService) Validate(req AggregateRequest) error {
	period := models.Period{Season: req.Season, Week: req.Week}
	if err := period.Validate(); err != nil {
		return err
	}
	if math.IsNaN(req.MinEdge) || math.IsInf(req.MinEdge, 0) {
		return models.NewInvalidInput("min_edge", "must be a finite number")
	}
	if req.Strategy != "" {
		if _, _, err := s.registry.Get(req.Strategy); err != nil {
			return models.NewInvalidInput("strategy", "%q is not registered", req.Strategy)
		}
	}
	if req.Variant != "" && !req.Variant.Valid() {
		return models.NewInvalidInput("variant", "must be baseline or enhanced, got %q", req.Variant)
	}
	return nil
}

// Aggregate runs one aggregation pass. The returned error is nil on success and matches
// models.ErrInvalidInput or models.ErrDataStoreUnavailable otherwise; the response is
// always populated and keeps any partial edges.
func (s *EdgeService) Aggregate(ctx context.Context, req AggregateRequest) (*AggregateResponse, error) {
	start := time.Now()
	if req.Variant == "" {
		req.Variant = rollout.VariantEnhanced
	}

	resp := &AggregateResponse{
		Edges:            make([]models.StrategyResult, 0),
		RunID:            uuid.New().String(),
		Variant:          req.Variant,
		Season:           req.Season,
		Week:             req.Week,
		MinEdge:          req.MinEdge,
		GeneratedAt:      start.UTC(),
		StrategyFailures: make([]string, 0),
	}

	if err := s.Validate(req); err != nil {
		resp.Error = err.Error()
		metrics.RecordAggregation(string(req.Variant), false, 0, time.Since(start).Seconds())
		return resp, err
	}

	// fresh per pass, never shared across requests
	passCache := cache.NewPassCache(s.stats)
	defer passCache.Publish()

	period := models.Period{Season: req.Season, Week: req.Week}
	strategyCtx := strategy.Context{
		Period:    period,
		Props:     s.props,
		Predictor: s.predictor(req.Variant, passCache),
		Sizer:     s.sizer,
		Bankroll:  s.bankroll,
	}

	result, err := s.aggregator.Aggregate(ctx, resp.RunID, strategyCtx, req.MinEdge, req.Strategy)
	if err != nil {
		resp.Error = err.Error()
		metrics.RecordAggregation(string(req.Variant), false, 0, time.Since(start).Seconds())
		return resp, models.NewInvalidInput("strategy", "%v", err)
	}

	resp.Edges = result.Results
	resp.Count = len(result.Results)
	for _, failure := range result.Failures {
		resp.StrategyFailures = append(resp.StrategyFailures, failure.StrategyID)
	}
	for i := range resp.Edges {
		metrics.RecordEdge(resp.Edges[i].StrategyID, string(resp.Edges[i].ModelUsed))
	}

	resp.Success = result.DataErr == nil
	if result.DataErr != nil {
		resp.Error = result.DataErr.Error()
	}

	strategies := s.registry.Len()
	if req.Strategy != "" {
		strategies = 1
	}
	elapsed := time.Since(start)
	metrics.RecordAggregation(string(req.Variant), resp.Success, resp.Count, elapsed.Seconds())
	s.edgeLogger.LogAggregation(resp.RunID, req.Season, req.Week, string(req.Variant),
		strategies, len(result.Failures), resp.Count, elapsed)

	if result.DataErr != nil {
		return resp, result.DataErr
	}
	return resp, nil
}

// Gate reports the rate estimate and gate decision for one entity
func (s *EdgeService) Gate(ctx context.Context, entity string, period models.Period) (*GateReport, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	if models.NormalizeName(entity) == "" {
		return nil, models.NewInvalidInput("entity", "must not be empty")
	}

	estimator := model.NewRateEstimator(s.stats, s.engine)
	est, err := estimator.Estimate(ctx, entity, period)
	if err != nil {
		return nil, err
	}

	report := &GateReport{
		Entity:   est.Entity,
		Period:   period,
		Estimate: est,
		Admitted: estimator.Gate().Admit(est),
	}
	if !report.Admitted {
		report.Reason = models.ReasonInsufficientSample
	}
	return report, nil
}

func (s *EdgeService) predictor(variant rollout.Variant, store repository.StatsStore) model.Predictor {
	if variant == rollout.VariantBaseline {
		return model.NewBaselinePredictor(model.NewBaselineModel(store, s.engine))
	}
	return model.NewEnhancedModel(store, s.engine, s.logger)
}

// IsFailure reports whether err should be surfaced to a caller as a failed request
func IsFailure(err error) bool {
	return errors.Is(err, models.ErrInvalidInput) || errors.Is(err, models.ErrDataStoreUnavailable)
}
