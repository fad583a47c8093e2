package service

import (
	"context"
	"time"

	"github.com/nzoschke/organizer/internal/ctxkeys"
	"github.com/nzoschke/organizer/internal/model"
)

const defaultStoreTimeout = 5 * time.Second

// Option configures the clock, calendar and store timeout shared by services.
type Option func(*options)

type options struct {
	now      func() time.Time
	location *time.Location
	timeout  time.Duration
}

func newOptions(opts []Option) options {
	o := options{
		now:      time.Now,
		location: time.UTC,
		timeout:  defaultStoreTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.location = loc
		}
	}
}

// WithStoreTimeout bounds each store round trip. Zero or negative disables it.
func WithStoreTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// today is the caller's calendar date: the request location when one was
// given, otherwise the configured one.
func (o options) today(ctx context.Context) model.Date {
	loc := ctxkeys.Location(ctx)
	if loc == nil {
		loc = o.location
	}
	return model.DateOf(o.now().In(loc))
}

func (o options) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.timeout)
}
