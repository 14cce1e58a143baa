package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakePurger struct {
	cutoff time.Time
	n      int64
	err    error
}

func (f *fakePurger) PurgeVisitsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.n, f.err
}

func (f *fakePurger) PurgeReadBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.n, f.err
}

func fixedNow() time.Time { return time.Date(2025, 3, 10, 3, 0, 0, 0, time.UTC) }

func TestPurgeVisitsJobCutoff(t *testing.T) {
	p := &fakePurger{n: 4}
	j := NewPurgeVisitsJob(p, 90*24*time.Hour, zap.NewNop())
	j.now = fixedNow
	j.Run()
	assert.Equal(t, fixedNow().Add(-90*24*time.Hour), p.cutoff)
}

func TestPurgeNotificationsJobLogsFailure(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	p := &fakePurger{err: errors.New("boom")}
	j := NewPurgeNotificationsJob(p, time.Hour, zap.New(core))
	j.now = fixedNow
	j.Run()
	assert.Equal(t, fixedNow().Add(-time.Hour), p.cutoff)
	require.Equal(t, 1, logs.FilterMessage("purge read notifications").Len())
}

func TestRecoveryWrapperSwallowsPanic(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	job := withRecovery(zap.New(core))(cron.FuncJob(func() { panic("bad") }))
	assert.NotPanics(t, job.Run)
	assert.Equal(t, 1, logs.FilterMessage("job panicked").Len())
}

func TestLoggingWrapperUsesJobName(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	job := withLogging(zap.New(core))(NewPurgeVisitsJob(&fakePurger{}, time.Hour, zap.NewNop()))
	job.Run()
	started := logs.FilterMessage("job started").All()
	require.Len(t, started, 1)
	assert.Equal(t, "purge-page-visits", started[0].ContextMap()["job"])
}

func TestRegisterRetention(t *testing.T) {
	s := NewScheduler(nil)
	require.NoError(t, s.RegisterRetention(&fakePurger{}, &fakePurger{}, time.Hour))
	assert.Equal(t, 2, s.Entries())
	assert.Error(t, s.Add("not a schedule", cron.FuncJob(func() {})))
}
