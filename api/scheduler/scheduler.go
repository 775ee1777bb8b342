package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/secid/mentorship-api/mentorship"
	"github.com/secid/mentorship-api/models"
)

// Job names, also used as lock names
const (
	ReconcileJob    = "reconcile_mentor_aggregates"
	RefreshStatsJob = "refresh_stats"
)

// Reconciler recomputes the derived mentor aggregates
type Reconciler interface {
	Reconcile(ctx context.Context) (*mentorship.ReconcileReport, error)
}

// StatsRefresher recomputes the stats report and caches it
type StatsRefresher interface {
	Refresh(ctx context.Context) (*models.MentorshipStats, error)
}

// Locker is a lock shared by every instance of the service
type Locker interface {
	TryLock(ctx context.Context, name, owner string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, name, owner string) error
}

// Scheduler handles periodic background jobs for the mentorship engine
type Scheduler struct {
	cron       *cron.Cron
	reconciler Reconciler
	stats      StatsRefresher
	locker     Locker
	instanceID string
}

// NewScheduler creates a new scheduler instance. Without a locker every
// instance runs every job.
func NewScheduler(reconciler Reconciler, stats StatsRefresher, locker Locker) *Scheduler {
	// Generate a unique instance ID for this pod
	instanceID := os.Getenv("DYNO") // Heroku sets this to "web.1", "web.2", etc.
	if instanceID == "" {
		instanceID = fmt.Sprintf("instance-%d", time.Now().UnixNano())
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		reconciler: reconciler,
		stats:      stats,
		locker:     locker,
		instanceID: instanceID,
	}
}

// Start registers the jobs on their cron specs and starts the scheduler
func (s *Scheduler) Start(reconcileSpec, statsSpec string) error {
	if _, err := s.cron.AddFunc(reconcileSpec, func() { s.run(ReconcileJob, 30*time.Minute, s.reconcile) }); err != nil {
		return fmt.Errorf("register %s: %w", ReconcileJob, err)
	}
	if _, err := s.cron.AddFunc(statsSpec, func() { s.run(RefreshStatsJob, 5*time.Minute, s.refreshStats) }); err != nil {
		return fmt.Errorf("register %s: %w", RefreshStatsJob, err)
	}

	s.cron.Start()
	zap.S().Infow("Mentorship scheduler started", "reconcile", reconcileSpec, "stats", statsSpec)
	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Mentorship scheduler stopped")
}

// run executes job under the named lock. It reports whether the job ran.
func (s *Scheduler) run(name string, timeout time.Duration, job func(ctx context.Context) error) bool {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if s.locker != nil {
		acquired, err := s.locker.TryLock(ctx, name, s.instanceID, timeout)
		if err != nil {
			zap.S().Errorw("failed to acquire lock", "job", name, "error", err)
			return false
		}
		if !acquired {
			zap.S().Debugw("job already running on another instance, skipping", "job", name)
			return false
		}
		defer func() {
			if err := s.locker.Unlock(context.Background(), name, s.instanceID); err != nil {
				zap.S().Warnw("failed to release lock", "job", name, "error", err)
			}
		}()
	}

	start := time.Now()
	if err := job(ctx); err != nil {
		zap.S().Errorw("job failed", "job", name, "instance", s.instanceID, "error", err)
		return true
	}
	zap.S().Infow("job finished", "job", name, "instance", s.instanceID, "duration", time.Since(start))
	return true
}

func (s *Scheduler) reconcile(ctx context.Context) error {
	report, err := s.reconciler.Reconcile(ctx)
	if err != nil {
		return err
	}
	zap.S().Infow("reconciled mentor aggregates",
		"mentors", report.Mentors,
		"failed", report.Failed,
		"matches", report.Matches)
	return nil
}

func (s *Scheduler) refreshStats(ctx context.Context) error {
	_, err := s.stats.Refresh(ctx)
	return err
}
