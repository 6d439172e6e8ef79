package engine

import (
	"time"

	"github.com/ThanakornSe/AnswerNote/internal/domain"
)

// Option configures an engine.
type Option func(*options)

type options struct {
	now func() time.Time
}

func defaultOptions() options {
	return options{now: domain.Now}
}

// WithClock sets the source of creation and update timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
