package engagement

import (
	"time"

	"go.uber.org/zap"
)

const (
	MaxTextLength      = 500
	defaultMaxAttempts = 8
)

type options struct {
	notifier    Notifier
	filter      func(string) string
	log         *zap.Logger
	now         func() time.Time
	maxAttempts int
}

type Option func(*options)

func WithNotifier(n Notifier) Option {
	return func(o *options) {
		if n != nil {
			o.notifier = n
		}
	}
}

// WithTextFilter sets the transformation applied to validated comment text.
func WithTextFilter(f func(string) string) Option {
	return func(o *options) { o.filter = f }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithMaxAttempts bounds the read-modify-write retries on version conflicts.
func WithMaxAttempts(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxAttempts = n
		}
	}
}

func defaultOptions() options {
	return options{
		notifier:    nopNotifier{},
		log:         zap.NewNop(),
		now:         time.Now,
		maxAttempts: defaultMaxAttempts,
	}
}
