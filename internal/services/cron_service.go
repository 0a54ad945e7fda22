package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/tripgo/booking-backend/internal/database"
)

// CronService manages scheduled background jobs
type CronService struct {
	cron   *cron.Cron
	txRepo *database.PaymentTransactionRepository
	logger *logrus.Logger
}

// NewCronService creates a new CronService
func NewCronService(txRepo *database.PaymentTransactionRepository, logger *logrus.Logger) *CronService {
	return &CronService{
		cron:   cron.New(cron.WithSeconds()),
		txRepo: txRepo,
		logger: logger,
	}
}

// Start schedules all jobs and starts the scheduler
func (s *CronService) Start() error {
	// Cron format: second minute hour day month weekday
	// "0 0 * * * *" = at the top of every hour
	_, err := s.cron.AddFunc("0 0 * * * *", s.expireStalePendingJob)
	if err != nil {
		return fmt.Errorf("failed to schedule pending-expiry job: %w", err)
	}
	s.logger.Info("Scheduled: expire stale pending transactions (hourly)")

	s.cron.Start()
	s.logger.Info("Cron service started")
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *CronService) Stop() {
	s.logger.Info("Stopping cron service...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Cron service stopped")
}

// expireStalePendingJob flips pending transactions older than the expiry
// window to "expire". Reads between sweeps apply the same cutoff as a
// projection, so the persisted flip never changes what callers observe.
func (s *CronService) expireStalePendingJob() {
	startTime := time.Now()

	expired, err := s.txRepo.ExpireStalePending()
	if err != nil {
		s.logger.WithError(err).Error("[CRON] Pending-expiry sweep failed")
		return
	}

	if expired > 0 {
		s.logger.WithFields(logrus.Fields{
			"expired":  expired,
			"duration": time.Since(startTime).String(),
		}).Info("[CRON] Expired stale pending transactions")
	}
}

// RunExpiryNow runs the pending-expiry sweep immediately (for testing)
func (s *CronService) RunExpiryNow() {
	s.logger.Info("[MANUAL] Running pending-expiry sweep now...")
	s.expireStalePendingJob()
}

// GetJobStatus returns the status of scheduled jobs
func (s *CronService) GetJobStatus() map[string]interface{} {
	entries := s.cron.Entries()

	jobs := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		jobs = append(jobs, map[string]interface{}{
			"id":       entry.ID,
			"next_run": entry.Next,
			"prev_run": entry.Prev,
		})
	}

	return map[string]interface{}{
		"running":   len(entries) > 0,
		"job_count": len(entries),
		"jobs":      jobs,
	}
}
