// Package retry provides a generic exponential-backoff retrier built on
// cenkalti/backoff/v4, used anywhere a caller needs to retry a
// transport-level failure without retrying a logical rejection.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Bounded to a handful of attempts by default: a consensus engine that is
// still unreachable after thirty seconds is not a transient blip.
const (
	defaultInitialInterval = 500 * time.Millisecond
	defaultMaxInterval     = 3 * time.Second
	defaultMaxElapsedTime  = 30 * time.Second
	defaultMultiplier      = 2.0
)

// Retrier executes an operation with some backoff policy.
type Retrier interface {
	RetryWithBackoff(ctx context.Context, op func() error) error
}

// TypedRetrier adapts a Retrier to operations that return a value.
type TypedRetrier[T any] struct {
	retrier Retrier
}

// NewTypedRetrier wraps r for operations that return T.
func NewTypedRetrier[T any](r Retrier) *TypedRetrier[T] {
	return &TypedRetrier[T]{retrier: r}
}

// RetryWithBackoff runs op, retrying per the wrapped Retrier's policy.
func (r *TypedRetrier[T]) RetryWithBackoff(
	ctx context.Context,
	op func() (T, error),
) (T, error) {
	var result T
	err := r.retrier.RetryWithBackoff(ctx, func() error {
		var err error
		result, err = op()
		return err
	})
	return result, err
}

// NotifyFn is called after each failed attempt, before the next backoff
// sleep.
type NotifyFn func(err error, duration, totalDuration time.Duration)

// ExponentialRetrier implements Retrier using exponential backoff.
type ExponentialRetrier struct {
	newBackOff func() backoff.BackOff
	notify     NotifyFn
}

// RetrierOption configures an ExponentialRetrier.
type RetrierOption func(*ExponentialRetrier)

// BackOffOption configures the underlying backoff.ExponentialBackOff.
type BackOffOption func(*backoff.ExponentialBackOff)

// NewExponentialRetrier builds a retrier with the package defaults,
// adjustable via opts.
func NewExponentialRetrier(opts ...RetrierOption) *ExponentialRetrier {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = defaultInitialInterval
	b.MaxInterval = defaultMaxInterval
	b.MaxElapsedTime = defaultMaxElapsedTime
	b.Multiplier = defaultMultiplier

	r := &ExponentialRetrier{
		newBackOff: func() backoff.BackOff {
			return b
		},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// RetryWithBackoff implements Retrier.
func (r *ExponentialRetrier) RetryWithBackoff(
	ctx context.Context,
	operation func() error,
) error {
	b := r.newBackOff()
	totalDuration := time.Duration(0)
	return backoff.RetryNotify(
		operation,
		backoff.WithContext(b, ctx),
		func(err error, duration time.Duration) {
			totalDuration += duration
			if r.notify != nil {
				r.notify(err, duration, totalDuration)
			}
		},
	)
}

// WithBackOffOptions applies BackOffOptions to the retrier's backoff.
func WithBackOffOptions(opts ...BackOffOption) RetrierOption {
	return func(r *ExponentialRetrier) {
		b := r.newBackOff().(*backoff.ExponentialBackOff)
		for _, opt := range opts {
			opt(b)
		}
	}
}

// WithInitialInterval sets the initial interval between retries.
func WithInitialInterval(d time.Duration) BackOffOption {
	return func(b *backoff.ExponentialBackOff) {
		b.InitialInterval = d
	}
}

// WithMaxInterval sets the maximum interval between retries.
func WithMaxInterval(d time.Duration) BackOffOption {
	return func(b *backoff.ExponentialBackOff) {
		b.MaxInterval = d
	}
}

// WithMaxElapsedTime sets the maximum total time spent retrying.
func WithMaxElapsedTime(d time.Duration) BackOffOption {
	return func(b *backoff.ExponentialBackOff) {
		b.MaxElapsedTime = d
	}
}

// WithMultiplier sets the backoff growth multiplier.
func WithMultiplier(m float64) BackOffOption {
	return func(b *backoff.ExponentialBackOff) {
		b.Multiplier = m
	}
}

// WithNotify sets the callback invoked after each failed attempt.
func WithNotify(fn NotifyFn) RetrierOption {
	return func(r *ExponentialRetrier) {
		r.notify = fn
	}
}
