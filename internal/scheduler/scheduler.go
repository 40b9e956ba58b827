package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdledger/internal/config"
	"github.com/mamadbah2/herdledger/internal/domain/models"
)

const snapshotTimeout = 2 * time.Minute

// SnapshotCapturer captures and publishes indicator snapshots.
type SnapshotCapturer interface {
	CaptureSnapshot(ctx context.Context, now time.Time) (models.IndicatorSnapshot, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	capturer SnapshotCapturer
	schedule string
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler running in the configured timezone.
func NewScheduler(cfg config.ReportingConfig, capturer SnapshotCapturer, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	// Standard 5-field cron expressions (min, hour, dom, month, dow).
	c := cron.New(cron.WithLocation(loc))

	return &Scheduler{
		cron:     c,
		capturer: capturer,
		schedule: cfg.CronSchedule,
		logger:   logger,
	}, nil
}

// Start registers the snapshot job and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))

	if _, err := s.cron.AddFunc(s.schedule, s.captureSnapshot); err != nil {
		return fmt.Errorf("schedule indicator snapshot: %w", err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) captureSnapshot() {
	s.logger.Info("capturing scheduled indicator snapshot")
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()

	snapshot, err := s.capturer.CaptureSnapshot(ctx, time.Now())
	if err != nil {
		s.logger.Error("failed to capture indicator snapshot", zap.Error(err))
		return
	}
	s.logger.Info("indicator snapshot stored", zap.String("snapshot_id", snapshot.ID))
}
