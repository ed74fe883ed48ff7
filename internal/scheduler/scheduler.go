package scheduler

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/export"
	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/rollout"
	"github.com/yourusername/gridiron-edge/internal/service"
)

const dateLayout = "2006-01-02"

// Aggregator is the part of the edge service the scheduler drives
type Aggregator interface {
	Aggregate(ctx context.Context, req service.AggregateRequest) (*service.AggregateResponse, error)
}

// Scheduler triggers a daily aggregation for the current week and exports the result
type Scheduler struct {
	cron            *cron.Cron
	edges           Aggregator
	cfg             config.SchedulerConfig
	rollout         config.RolloutConfig
	logger          *logrus.Entry
	audit           *logger.AuditLogger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
	now             func() time.Time
}

// NewScheduler creates a new scheduler
func NewScheduler(edges Aggregator, cfg *config.Config, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		edges:           edges,
		cfg:             cfg.Scheduler,
		rollout:         cfg.Rollout,
		logger:          log.WithField("component", "scheduler"),
		audit:           logger.NewAuditLogger(log),
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
		now:             time.Now,
	}
}

// CurrentPeriod maps a date onto the regular season week that contains it.
// Week 1 starts on seasonStart; dates before it or past the last week are rejected.
func CurrentPeriod(now time.Time, seasonStart string) (models.Period, error) {
	start, err := time.Parse(dateLayout, seasonStart)
	if err != nil {
		return models.Period{}, models.NewInvalidInput("season_start", "expected YYYY-MM-DD, got %q", seasonStart)
	}

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if day.Before(start) {
		return models.Period{}, models.NewInvalidInput("date", "%s is before the season start %s", day.Format(dateLayout), seasonStart)
	}

	days := int(day.Sub(start).Hours() / 24)
	period := models.Period{Season: start.Year(), Week: days/7 + 1}
	if err := period.Validate(); err != nil {
		return models.Period{}, err
	}
	return period, nil
}

// ExportPath names the export file for a run
func ExportPath(dir string, period models.Period, at time.Time) string {
	name := fmt.Sprintf("edges-%d-w%02d-%s.json", period.Season, period.Week, at.UTC().Format("20060102"))
	return filepath.Join(dir, name)
}

// RunOnce aggregates the current week and writes the export
func (s *Scheduler) RunOnce(ctx context.Context) (*service.AggregateResponse, string, error) {
	now := s.now()
	period, err := CurrentPeriod(now, s.cfg.SeasonStart)
	if err != nil {
		return nil, "", err
	}

	variant := rollout.Select(s.rollout.Identifier, s.rollout.Percentage)
	metrics.RecordRolloutAssignment(string(variant))
	s.audit.LogRolloutAssignment(s.rollout.Identifier, s.rollout.Percentage, string(variant), rollout.SourceRollout)

	resp, err := s.edges.Aggregate(ctx, service.AggregateRequest{
		Week:    period.Week,
		Season:  period.Season,
		MinEdge: s.cfg.MinEdge,
		Variant: variant,
	})
	if err != nil {
		return resp, "", err
	}

	path := ExportPath(s.cfg.ExportDir, period, now)
	format, err := export.Write(resp, path)
	if err != nil {
		return resp, "", fmt.Errorf("failed to export run %s: %w", resp.RunID, err)
	}
	s.audit.LogExport(resp.RunID, path, string(format), resp.Count)
	return resp, path, nil
}

// ScheduleDaily registers the daily aggregation job
func (s *Scheduler) ScheduleDaily() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		resp, path, err := s.RunOnce(ctx)
		if err != nil {
			s.logger.WithError(err).Error("Scheduled aggregation failed")
			return
		}
		s.logger.WithFields(logrus.Fields{
			"run_id": resp.RunID,
			"edges":  resp.Count,
			"path":   path,
		}).Info("Scheduled aggregation completed")
	}

	entryID, err := s.cron.AddFunc(s.cfg.Cron, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", s.cfg.Cron).Info("Scheduled daily aggregation")
	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")
	return nil
}

// Stop waits for a running job to finish, up to the graceful timeout
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	s.isRunning = false
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-time.After(s.gracefulTimeout):
		return fmt.Errorf("scheduler did not stop within %s", s.gracefulTimeout)
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() && (nextRun.IsZero() || entry.Next.Before(nextRun)) {
			nextRun = entry.Next
		}
	}
	return nextRun
}
