// Package retry wraps remote calls with exponential backoff.
package retry

import (
	"context"
	"time"
)

const (
	// DefaultAttempts is the total number of invocations before giving up.
	DefaultAttempts = 5
	// DefaultBaseDelay is the wait after the first failure; it doubles per attempt.
	DefaultBaseDelay = time.Second
)

// Options control the retry schedule.
type Options struct {
	Attempts  int
	BaseDelay time.Duration
}

// Option mutates Options.
type Option func(*Options)

// WithAttempts sets the total invocation count.
func WithAttempts(n int) Option {
	return func(o *Options) { o.Attempts = n }
}

// WithBaseDelay sets the first inter-attempt delay.
func WithBaseDelay(d time.Duration) Option {
	return func(o *Options) { o.BaseDelay = d }
}

// Do invokes op until it succeeds or the attempt budget is spent. After the
// i-th failure it waits baseDelay << i. Every error is retried the same way,
// regardless of kind; the error from the final attempt is returned unchanged.
// The wait between attempts is interruptible through ctx.
func Do[T any](ctx context.Context, op func(context.Context) (T, error), opts ...Option) (T, error) {
	o := Options{Attempts: DefaultAttempts, BaseDelay: DefaultBaseDelay}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Attempts < 1 {
		o.Attempts = 1
	}

	var zero T
	var lastErr error
	for i := 0; i < o.Attempts; i++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if i == o.Attempts-1 {
			break
		}

		timer := time.NewTimer(o.BaseDelay << i)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
	return zero, lastErr
}
