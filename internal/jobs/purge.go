package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type VisitPurger interface {
	PurgeVisitsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type NotificationPurger interface {
	PurgeReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

const jobTimeout = 5 * time.Minute

// PurgeVisitsJob drops page visits older than the retention window.
type PurgeVisitsJob struct {
	store     VisitPurger
	retention time.Duration
	log       *zap.Logger
	now       func() time.Time
}

func NewPurgeVisitsJob(store VisitPurger, retention time.Duration, log *zap.Logger) *PurgeVisitsJob {
	return &PurgeVisitsJob{store: store, retention: retention, log: log, now: time.Now}
}

func (j *PurgeVisitsJob) Name() string { return "purge-page-visits" }

func (j *PurgeVisitsJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	cutoff := j.now().Add(-j.retention).UTC()
	n, err := j.store.PurgeVisitsBefore(ctx, cutoff)
	if err != nil {
		j.log.Error("purge page visits", zap.Error(err))
		return
	}
	j.log.Info("page visits purged", zap.Int64("deleted", n), zap.Time("cutoff", cutoff))
}

// PurgeNotificationsJob drops notifications that were read long ago.
type PurgeNotificationsJob struct {
	store NotificationPurger
	age   time.Duration
	log   *zap.Logger
	now   func() time.Time
}

func NewPurgeNotificationsJob(store NotificationPurger, age time.Duration, log *zap.Logger) *PurgeNotificationsJob {
	return &PurgeNotificationsJob{store: store, age: age, log: log, now: time.Now}
}

func (j *PurgeNotificationsJob) Name() string { return "purge-read-notifications" }

func (j *PurgeNotificationsJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	cutoff := j.now().Add(-j.age).UTC()
	n, err := j.store.PurgeReadBefore(ctx, cutoff)
	if err != nil {
		j.log.Error("purge read notifications", zap.Error(err))
		return
	}
	j.log.Info("read notifications purged", zap.Int64("deleted", n), zap.Time("cutoff", cutoff))
}
