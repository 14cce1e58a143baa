package jobs

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	purgeVisitsSpec        = "0 0 3 * * *"
	purgeNotificationsSpec = "0 30 3 * * *"

	readNotificationRetention = 90 * 24 * time.Hour
)

// Scheduler owns the cron instance running the retention jobs.
type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
}

func NewScheduler(log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("system", "cron"))
	c := cron.New(
		cron.WithSeconds(),
		cron.WithChain(
			withRecovery(log),
			withLogging(log),
			cron.DelayIfStillRunning(cron.DefaultLogger),
		),
	)
	return &Scheduler{cron: c, log: log}
}

// Add registers a job under a six-field (seconds first) schedule.
func (s *Scheduler) Add(spec string, job cron.Job) error {
	if _, err := s.cron.AddJob(spec, job); err != nil {
		return fmt.Errorf("add job %s: %w", jobName(job), err)
	}
	s.log.Info("job registered", zap.String("job", jobName(job)), zap.String("schedule", spec))
	return nil
}

// RegisterRetention adds the nightly purge jobs.
func (s *Scheduler) RegisterRetention(visits VisitPurger, notis NotificationPurger, visitRetention time.Duration) error {
	if err := s.Add(purgeVisitsSpec, NewPurgeVisitsJob(visits, visitRetention, s.log)); err != nil {
		return err
	}
	return s.Add(purgeNotificationsSpec, NewPurgeNotificationsJob(notis, readNotificationRetention, s.log))
}

func (s *Scheduler) Entries() int { return len(s.cron.Entries()) }

func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}
