package scheduler

import (
	"context"
	"time"

	"github.com/kraakman/autoservice-backend/internal/app/service"
	"github.com/kraakman/autoservice-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// syncTimeout bounds one scheduled sync run.
const syncTimeout = 2 * time.Minute

// ReviewSyncScheduler runs the Google review sync on a cron schedule.
type ReviewSyncScheduler struct {
	cron        *cron.Cron
	syncService service.ReviewSyncService
	spec        string
}

func NewReviewSyncScheduler(syncService service.ReviewSyncService, spec string) *ReviewSyncScheduler {
	return &ReviewSyncScheduler{
		cron:        cron.New(),
		syncService: syncService,
		spec:        spec,
	}
}

func (s *ReviewSyncScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()

		if _, err := s.syncService.Sync(ctx, "scheduled"); err != nil {
			logger.Error("Scheduled review sync failed", err)
			return
		}
	})
	if err != nil {
		logger.Error("Failed to add cron job for review sync", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Review sync scheduler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

func (s *ReviewSyncScheduler) Stop() {
	logger.Info("Stopping review sync scheduler...", nil)
	s.cron.Stop()
	logger.Info("Review sync scheduler stopped", nil)
}
