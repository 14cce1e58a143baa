package jobs

import (
	"reflect"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// withLogging logs the start and end of every run under a fresh execution id.
func withLogging(log *zap.Logger) cron.JobWrapper {
	return func(j cron.Job) cron.Job {
		return cron.FuncJob(func() {
			jl := log.With(
				zap.String("job", jobName(j)),
				zap.String("execution_id", uuid.NewString()),
			)
			start := time.Now()
			jl.Info("job started")
			j.Run()
			jl.Info("job finished", zap.Duration("duration", time.Since(start)))
		})
	}
}

// withRecovery keeps a panicking job from taking the process down.
func withRecovery(log *zap.Logger) cron.JobWrapper {
	return func(j cron.Job) cron.Job {
		return cron.FuncJob(func() {
			defer func() {
				if r := recover(); r != nil {
					log.Error("job panicked",
						zap.String("job", jobName(j)),
						zap.Any("panic", r),
						zap.String("stack", string(debug.Stack())))
				}
			}()
			j.Run()
		})
	}
}

func jobName(j cron.Job) string {
	if n, ok := j.(interface{ Name() string }); ok {
		return n.Name()
	}
	t := reflect.TypeOf(j)
	if t.Kind() == reflect.Ptr {
		return t.Elem().String()
	}
	return t.String()
}
