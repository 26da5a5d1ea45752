package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/logger"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/activity"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/domainsync"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/internal/models"
)

// Job names.
const (
	JobDomainSync   = "domain_sync"
	JobTrialCleanup = "trial_cleanup"
)

// DomainSyncer reconciles stored domains with the hosting site.
type DomainSyncer interface {
	SyncFromDB(ctx context.Context) (*domainsync.DBSyncResult, error)
}

// TrialCleaner removes expired unclaimed trial posts.
type TrialCleaner interface {
	DeleteExpiredTrialPosts(ctx context.Context, now time.Time) (int64, error)
}

// DomainSyncJob runs SyncFromDB.
func DomainSyncJob(syncer DomainSyncer, log logger.Logger) JobFunc {
	return func(ctx context.Context) error {
		res, err := syncer.SyncFromDB(ctx)
		if err != nil {
			return fmt.Errorf("domain sync: %w", err)
		}
		log.Info("Domain sync finished", logger.Int("total", res.Total), logger.Int("added", len(res.Added)))
		return nil
	}
}

// TrialCleanupJob deletes trial posts past their expiry.
func TrialCleanupJob(cleaner TrialCleaner, recorder *activity.Recorder, now func() time.Time) JobFunc {
	if now == nil {
		now = time.Now
	}
	return func(ctx context.Context) error {
		n, err := cleaner.DeleteExpiredTrialPosts(ctx, now().UTC())
		if err != nil {
			return fmt.Errorf("trial cleanup: %w", err)
		}
		if n > 0 {
			recorder.Record(ctx, models.ActivityTrialsExpired, fmt.Sprintf("Deleted %d expired trial post(s)", n),
				map[string]any{"deleted": n})
		}
		return nil
	}
}

// Register adds the configured jobs to s. Nil collaborators skip their job.
func Register(s *Scheduler, cfg Config, syncer DomainSyncer, cleaner TrialCleaner, recorder *activity.Recorder, log logger.Logger) error {
	cfg.SetDefaults()
	if syncer != nil {
		if err := s.Add(JobDomainSync, cfg.DomainSync, DomainSyncJob(syncer, log)); err != nil {
			return err
		}
	}
	if cleaner != nil {
		if err := s.Add(JobTrialCleanup, cfg.TrialCleanup, TrialCleanupJob(cleaner, recorder, nil)); err != nil {
			return err
		}
	}
	return nil
}
