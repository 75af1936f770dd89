package scheduler

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"goclean-be-svc/internal/config"
	"goclean-be-svc/internal/models"
	"goclean-be-svc/internal/repository"
	"goclean-be-svc/pkg/logger"
)

// Job codes recorded in log_schedulers
const (
	PickupExpiryCode        = "PICKUP_EXPIRY"
	NotificationCleanupCode = "NOTIFICATION_CLEANUP"
)

// PickupExpirer cancels pending pickups nobody accepted in time
type PickupExpirer interface {
	ExpirePending(maxAge time.Duration) (int, error)
}

// NotificationCleaner removes old read notifications
type NotificationCleaner interface {
	DeleteReadOlderThan(days int) (int64, error)
}

// Scheduler runs the periodic maintenance jobs
type Scheduler struct {
	pickups          PickupExpirer
	notifications    NotificationCleaner
	logSchedulerRepo repository.LogSchedulerRepository
	cfg              config.SchedulerConfig
	logger           *logger.Logger
	cron             *cron.Cron
}

// NewScheduler creates a new scheduler
func NewScheduler(
	pickups PickupExpirer,
	notifications NotificationCleaner,
	logSchedulerRepo repository.LogSchedulerRepository,
	cfg config.SchedulerConfig,
	logger *logger.Logger,
) *Scheduler {
	// Create cron with seconds precision. A run still in progress makes the next tick a no-op.
	c := cron.New(
		cron.WithSeconds(),
		cron.WithChain(
			cron.Recover(cron.PrintfLogger(logger)),
			cron.SkipIfStillRunning(cron.PrintfLogger(logger)),
		),
	)

	return &Scheduler{
		pickups:          pickups,
		notifications:    notifications,
		logSchedulerRepo: logSchedulerRepo,
		cfg:              cfg,
		logger:           logger,
		cron:             c,
	}
}

// Start schedules every job and starts the cron runner
func (s *Scheduler) Start() error {
	s.logger.Info("Starting scheduler...")

	// Cron format: "seconds minutes hours day-of-month month day-of-week"
	jobs := []struct {
		code string
		spec string
		run  func()
	}{
		{PickupExpiryCode, s.cfg.PickupExpiryCron, func() { _ = s.RunPickupExpiry() }},
		{NotificationCleanupCode, s.cfg.NotificationCleanupCron, func() { _ = s.RunNotificationCleanup() }},
	}

	for _, job := range jobs {
		if _, err := s.cron.AddFunc(job.spec, job.run); err != nil {
			return fmt.Errorf("failed to schedule %s job: %w", job.code, err)
		}
		s.logger.WithFields(map[string]interface{}{
			"job":             job.code,
			"cron_expression": job.spec,
		}).Info("Job scheduled successfully")
	}

	s.cron.Start()
	s.logger.Info("Scheduler started successfully")

	return nil
}

// Stop waits for running jobs and stops the scheduler
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Scheduler stopped successfully")
}

// RunPickupExpiry cancels pending pickups older than the configured age
func (s *Scheduler) RunPickupExpiry() error {
	return s.run(PickupExpiryCode,
		fmt.Sprintf("Expiring pickups pending longer than %s", s.cfg.PickupMaxPendingAge),
		func() (string, error) {
			expired, err := s.pickups.ExpirePending(s.cfg.PickupMaxPendingAge)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Expired %d pending pickups", expired), nil
		})
}

// RunNotificationCleanup deletes read notifications past the retention window
func (s *Scheduler) RunNotificationCleanup() error {
	return s.run(NotificationCleanupCode,
		fmt.Sprintf("Deleting read notifications older than %d days", s.cfg.NotificationRetentionDays),
		func() (string, error) {
			deleted, err := s.notifications.DeleteReadOlderThan(s.cfg.NotificationRetentionDays)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Deleted %d read notifications", deleted), nil
		})
}

// run executes one job and records its progress under a fresh document ID
func (s *Scheduler) run(code, runningMessage string, job func() (string, error)) error {
	docID := uuid.New().String()
	entry := s.logger.WithFields(map[string]interface{}{
		"job":         code,
		"document_id": docID,
	})

	s.logScheduler(code, docID, fmt.Sprintf("Starting scheduled job %s", code), models.SchedulerStart)
	s.logScheduler(code, docID, runningMessage, models.SchedulerRunning)
	entry.Info(runningMessage)

	message, err := job()
	if err != nil {
		s.logScheduler(code, docID, fmt.Sprintf("Job failed: %v", err), models.SchedulerFailed)
		entry.WithError(err).Error("Scheduled job failed")
		return err
	}

	s.logScheduler(code, docID, message, models.SchedulerSuccess)
	entry.Info(message)
	return nil
}

// logScheduler creates a new log entry in the database
func (s *Scheduler) logScheduler(code, documentID, message, status string) {
	logEntry := &models.LogScheduler{
		DocumentID:    documentID,
		SchedulerCode: code,
		Message:       message,
		Status:        status,
	}

	if err := s.logSchedulerRepo.CreateLogScheduler(logEntry); err != nil {
		s.logger.WithError(err).WithField("status", status).Error("Failed to create scheduler log entry")
		return
	}
	s.logger.WithField("status", status).WithField("document_id", documentID).Debug("Scheduler log entry created")
}
